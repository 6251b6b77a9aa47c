// Package crf implements the joint feature encoder of a pairwise Conditional
// Random Field over typed graphs.
//
// Nodes come in several types, each with its own label alphabet (states) and
// feature dimensionality. Edges are typed by the ordered pair of their
// endpoint types and carry their own features. The encoder maps an instance
// and a labeling to a flat vector whose dot product with the weight vector is
// the energy of that configuration.
//
// Weight layout: [unary blocks... | pairwise blocks...]
//
//	unary block of type t:        States[t] x Features[t], row-major
//	pairwise block of pair t1,t2: EdgeFeatures[t1][t2] x (States[t1]*States[t2]),
//	                              row-major (transposed for StatesByFeatures)
//
// A Model is immutable once built and safe for concurrent use.
package crf

import (
	"fmt"
	"iter"
	"log/slog"
	"strings"
)

// NodeType describes one category of node.
type NodeType struct {
	Name     string `json:"name" yaml:"name"`
	States   int    `json:"states" yaml:"states"`
	Features int    `json:"features" yaml:"features"`
}

// TypePair is an ordered pair of node types, the type of an edge.
type TypePair struct {
	From int
	To   int
}

// PairwiseOrder selects the multiplication order of the pairwise accumulation,
// and with it the orientation of every pairwise weight block.
type PairwiseOrder int

const (
	// FeaturesByStates stores each pairwise block as edge features x state pairs.
	FeaturesByStates PairwiseOrder = iota
	// StatesByFeatures stores each pairwise block as state pairs x edge features.
	StatesByFeatures
)

func (o PairwiseOrder) String() string {
	switch o {
	case FeaturesByStates:
		return "features-by-states"
	case StatesByFeatures:
		return "states-by-features"
	default:
		return fmt.Sprintf("PairwiseOrder(%d)", int(o))
	}
}

// ParsePairwiseOrder parses the String form of a PairwiseOrder.
// The empty string selects FeaturesByStates.
func ParsePairwiseOrder(s string) (PairwiseOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "features-by-states":
		return FeaturesByStates, nil
	case "states-by-features":
		return StatesByFeatures, nil
	}
	return 0, fmt.Errorf("unknown pairwise order %q: %w", s, ErrConfig)
}

// Option configures a Model at construction time.
type Option func(*Model)

// WithPairwiseOrder sets the pairwise accumulation order.
func WithPairwiseOrder(o PairwiseOrder) Option {
	return func(m *Model) {
		m.order = o
	}
}

// Model holds the type catalog and the derived layout tables.
type Model struct {
	types        []NodeType
	edgeFeatures []int // T*T, row-major by (from, to)
	order        PairwiseOrder

	// Cumulative tables, each with a leading zero.
	stateOffsets       []int // T+1, columns of the global state space
	featureOffsets     []int // T+1, columns of the stacked node features
	edgeFeatureOffsets []int // T*T+1, columns of the stacked edge features
	statePairOffsets   []int // T*T+1, columns of the pairwise activations
	unaryOffsets       []int // T+1, positions in the flat vector
	pairwiseOffsets    []int // T*T+1, positions relative to the pairwise part

	sizeUnary    int
	sizePairwise int
}

// NewModel builds a model from its node types and the NumTypes x NumTypes
// matrix of edge feature counts, indexed [from][to].
func NewModel(types []NodeType, edgeFeatures [][]int, opts ...Option) (*Model, error) {
	if len(types) == 0 {
		return nil, fmt.Errorf("at least one node type is required: %w", ErrConfig)
	}
	states := make([]int, len(types))
	features := make([]int, len(types))
	for t, nt := range types {
		states[t], features[t] = nt.States, nt.Features
	}
	unary, pairwise, _, err := ComputeLayout(len(types), states, features, edgeFeatures)
	if err != nil {
		return nil, err
	}

	T := len(types)
	m := &Model{
		types:        append([]NodeType(nil), types...),
		edgeFeatures: make([]int, 0, T*T),
		sizeUnary:    unary,
		sizePairwise: pairwise,
	}
	for _, row := range edgeFeatures {
		m.edgeFeatures = append(m.edgeFeatures, row...)
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.order != FeaturesByStates && m.order != StatesByFeatures {
		return nil, fmt.Errorf("unknown pairwise order %d: %w", int(m.order), ErrConfig)
	}

	unaryBlocks := make([]int, T)
	for t := range T {
		unaryBlocks[t] = states[t] * features[t]
	}
	statePairs := make([]int, T*T)
	pairBlocks := make([]int, T*T)
	for p, pair := range m.TypePairs() {
		statePairs[p] = states[pair.From] * states[pair.To]
		pairBlocks[p] = m.edgeFeatures[p] * statePairs[p]
	}
	m.stateOffsets = cumsum(states)
	m.featureOffsets = cumsum(features)
	m.edgeFeatureOffsets = cumsum(m.edgeFeatures)
	m.statePairOffsets = cumsum(statePairs)
	m.unaryOffsets = cumsum(unaryBlocks)
	m.pairwiseOffsets = cumsum(pairBlocks)

	slog.Debug("Typed CRF layout",
		"types", T,
		"states", m.NumStates(),
		"features", m.NumFeatures(),
		"edge-features", m.NumEdgeFeatures(),
		"unary", m.sizeUnary,
		"pairwise", m.sizePairwise,
		"order", m.order)
	return m, nil
}

// NumTypes returns the number of node types.
func (m *Model) NumTypes() int {
	return len(m.types)
}

// Types returns a copy of the node type catalog.
func (m *Model) Types() []NodeType {
	return append([]NodeType(nil), m.types...)
}

// Type returns node type t.
func (m *Model) Type(t int) NodeType {
	return m.types[t]
}

// Order returns the pairwise accumulation order.
func (m *Model) Order() PairwiseOrder {
	return m.order
}

// PairIndex returns the edge-type index of the ordered pair (from, to).
func (m *Model) PairIndex(from, to int) int {
	return from*len(m.types) + to
}

// TypePairs iterates over all ordered type pairs in row-major order,
// yielding the edge-type index with each pair.
func (m *Model) TypePairs() iter.Seq2[int, TypePair] {
	return func(yield func(int, TypePair) bool) {
		T := len(m.types)
		for from := range T {
			for to := range T {
				if !yield(from*T+to, TypePair{From: from, To: to}) {
					return
				}
			}
		}
	}
}

// EdgeFeatures returns the declared number of features of edges from type
// from to type to.
func (m *Model) EdgeFeatures(from, to int) int {
	return m.edgeFeatures[m.PairIndex(from, to)]
}

// NumStates returns the size of the global state space, the sum of the
// per-type state counts.
func (m *Model) NumStates() int {
	return m.stateOffsets[len(m.types)]
}

// NumFeatures returns the sum of the per-type node feature counts.
func (m *Model) NumFeatures() int {
	return m.featureOffsets[len(m.types)]
}

// NumEdgeFeatures returns the sum of the edge feature counts over all type pairs.
func (m *Model) NumEdgeFeatures() int {
	return m.edgeFeatureOffsets[len(m.edgeFeatures)]
}

// NumStatePairs returns the sum over type pairs of States[from]*States[to].
func (m *Model) NumStatePairs() int {
	return m.statePairOffsets[len(m.edgeFeatures)]
}

// StateOffset returns the first column of type t in the global state space.
func (m *Model) StateOffset(t int) int {
	return m.stateOffsets[t]
}

// FeatureOffset returns the first column of type t in the stacked node features.
func (m *Model) FeatureOffset(t int) int {
	return m.featureOffsets[t]
}

// UnarySize returns the length of the unary part of the joint feature vector.
func (m *Model) UnarySize() int {
	return m.sizeUnary
}

// PairwiseSize returns the length of the pairwise part of the joint feature vector.
func (m *Model) PairwiseSize() int {
	return m.sizePairwise
}

// Size returns the length of joint feature and weight vectors.
func (m *Model) Size() int {
	return m.sizeUnary + m.sizePairwise
}

func (m *Model) String() string {
	states := make([]int, len(m.types))
	features := make([]int, len(m.types))
	for t, nt := range m.types {
		states[t], features[t] = nt.States, nt.Features
	}
	T := len(m.types)
	edges := make([][]int, T)
	for t := range T {
		edges[t] = m.edgeFeatures[t*T : (t+1)*T]
	}
	return fmt.Sprintf("Model(n_types: %d, n_states: %v, n_features: %v, n_edge_features: %v, order: %s)",
		T, states, features, edges, m.order)
}
