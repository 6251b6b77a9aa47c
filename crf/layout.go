package crf

import "fmt"

// ComputeLayout returns the sizes of the unary and pairwise parts of the
// joint feature vector and their sum.
//
//	unary    = sum_t states[t] * features[t]
//	pairwise = sum_(t1,t2) edgeFeatures[t1][t2] * states[t1] * states[t2]
//
// edgeFeatures must be typeCount x typeCount.
func ComputeLayout(typeCount int, states, features []int, edgeFeatures [][]int) (unary, pairwise, total int, err error) {
	if typeCount < 0 {
		return 0, 0, 0, fmt.Errorf("negative type count %d: %w", typeCount, ErrConfig)
	}
	if len(states) != typeCount {
		return 0, 0, 0, fmt.Errorf("expected %d state counts, got %d: %w", typeCount, len(states), ErrConfig)
	}
	if len(features) != typeCount {
		return 0, 0, 0, fmt.Errorf("expected %d feature counts, got %d: %w", typeCount, len(features), ErrConfig)
	}
	if len(edgeFeatures) != typeCount {
		return 0, 0, 0, fmt.Errorf("expected an edge feature matrix of shape (%d, %d), got %d rows: %w",
			typeCount, typeCount, len(edgeFeatures), ErrConfig)
	}
	for t1, row := range edgeFeatures {
		if len(row) != typeCount {
			return 0, 0, 0, fmt.Errorf("expected an edge feature matrix of shape (%d, %d), row %d has %d columns: %w",
				typeCount, typeCount, t1, len(row), ErrConfig)
		}
	}
	for t := range typeCount {
		if states[t] < 0 || features[t] < 0 {
			return 0, 0, 0, fmt.Errorf("type %d: negative state or feature count (%d, %d): %w",
				t, states[t], features[t], ErrConfig)
		}
		unary += states[t] * features[t]
	}
	for t1 := range typeCount {
		for t2 := range typeCount {
			n := edgeFeatures[t1][t2]
			if n < 0 {
				return 0, 0, 0, fmt.Errorf("types %d x %d: negative edge feature count %d: %w", t1, t2, n, ErrConfig)
			}
			pairwise += n * states[t1] * states[t2]
		}
	}
	return unary, pairwise, unary + pairwise, nil
}

// UnaryBlock locates the weights of one node type in the flat vector.
type UnaryBlock struct {
	Type     string `json:"type" yaml:"type"`
	Offset   int    `json:"offset" yaml:"offset"`
	States   int    `json:"states" yaml:"states"`
	Features int    `json:"features" yaml:"features"`
}

// PairwiseBlock locates the weights of one edge type in the flat vector.
type PairwiseBlock struct {
	From         string `json:"from" yaml:"from"`
	To           string `json:"to" yaml:"to"`
	Offset       int    `json:"offset" yaml:"offset"`
	EdgeFeatures int    `json:"edge_features" yaml:"edge_features"`
	FromStates   int    `json:"from_states" yaml:"from_states"`
	ToStates     int    `json:"to_states" yaml:"to_states"`
}

// Layout is a snapshot of the flat vector layout.
type Layout struct {
	Order        string          `json:"order" yaml:"order"`
	UnarySize    int             `json:"unary_size" yaml:"unary_size"`
	PairwiseSize int             `json:"pairwise_size" yaml:"pairwise_size"`
	Size         int             `json:"size" yaml:"size"`
	Unary        []UnaryBlock    `json:"unary" yaml:"unary"`
	Pairwise     []PairwiseBlock `json:"pairwise" yaml:"pairwise"`
}

// Layout describes where each type and type pair lives in the flat vector.
// Pairwise offsets are absolute.
func (m *Model) Layout() Layout {
	l := Layout{
		Order:        m.order.String(),
		UnarySize:    m.sizeUnary,
		PairwiseSize: m.sizePairwise,
		Size:         m.Size(),
		Unary:        make([]UnaryBlock, len(m.types)),
		Pairwise:     make([]PairwiseBlock, 0, len(m.edgeFeatures)),
	}
	for t, nt := range m.types {
		l.Unary[t] = UnaryBlock{
			Type:     m.typeName(t),
			Offset:   m.unaryOffsets[t],
			States:   nt.States,
			Features: nt.Features,
		}
	}
	for p, pair := range m.TypePairs() {
		l.Pairwise = append(l.Pairwise, PairwiseBlock{
			From:         m.typeName(pair.From),
			To:           m.typeName(pair.To),
			Offset:       m.sizeUnary + m.pairwiseOffsets[p],
			EdgeFeatures: m.edgeFeatures[p],
			FromStates:   m.types[pair.From].States,
			ToStates:     m.types[pair.To].States,
		})
	}
	return l
}

func (m *Model) typeName(t int) string {
	if name := m.types[t].Name; name != "" {
		return name
	}
	return fmt.Sprintf("%d", t)
}

// cumsum returns the running totals of xs with a leading zero.
func cumsum(xs []int) []int {
	out := make([]int, len(xs)+1)
	for i, x := range xs {
		out[i+1] = out[i] + x
	}
	return out
}
