package crf

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// JointFeature returns the feature vector of (x, y), such that the energy of
// the configuration under weights w is w . JointFeature(x, y).
//
// y is either a Discrete labeling or Relaxed marginals; both go through the
// same accumulation. The result always has length Size().
func (m *Model) JointFeature(x *Instance, y Labeling) ([]float64, error) {
	if err := m.ValidateInstance(x); err != nil {
		return nil, err
	}
	if err := m.ValidateLabeling(x, y); err != nil {
		return nil, err
	}
	nNodes, nEdges := x.NumNodes(), x.NumEdges()

	var unaryAct, pairAct *mat.Dense
	switch y := y.(type) {
	case Discrete:
		unaryAct, pairAct = m.activations(x, y, nNodes, nEdges)
	case Relaxed:
		unaryAct, pairAct = y.Unary.dense(), y.Pairwise.dense()
	}
	nodeFeatures := m.stackNodeFeatures(x, nNodes)
	edgeFeatures := m.stackEdgeFeatures(x, nEdges)

	// states x features, only the same-type blocks are kept
	unaryAcc := mulT(unaryAct, nodeFeatures, m.NumStates(), m.NumFeatures())
	unary := BlockRavel(unaryAcc, m.stateOffsets[1:], m.featureOffsets[1:])
	if len(unary) != m.sizeUnary {
		panic(fmt.Sprintf("crf: unary part has length %d, layout says %d", len(unary), m.sizeUnary))
	}

	var pairwise []float64
	switch m.order {
	case FeaturesByStates:
		acc := mulT(edgeFeatures, pairAct, m.NumEdgeFeatures(), m.NumStatePairs())
		pairwise = BlockRavel(acc, m.edgeFeatureOffsets[1:], m.statePairOffsets[1:])
	case StatesByFeatures:
		acc := mulT(pairAct, edgeFeatures, m.NumStatePairs(), m.NumEdgeFeatures())
		pairwise = BlockRavel(acc, m.statePairOffsets[1:], m.edgeFeatureOffsets[1:])
	}
	if len(pairwise) != m.sizePairwise {
		panic(fmt.Sprintf("crf: pairwise part has length %d, layout says %d", len(pairwise), m.sizePairwise))
	}

	psi := make([]float64, 0, m.Size())
	psi = append(psi, unary...)
	psi = append(psi, pairwise...)
	return psi, nil
}

// Score returns the energy w . JointFeature(x, y).
func (m *Model) Score(x *Instance, y Labeling, w []float64) (float64, error) {
	if err := m.ValidateWeights(w); err != nil {
		return 0, err
	}
	psi, err := m.JointFeature(x, y)
	if err != nil {
		return 0, err
	}
	return floats.Dot(w, psi), nil
}

// Relax converts a discrete labeling into the equivalent one-hot marginals.
// JointFeature gives identical results for y and Relax(x, y).
func (m *Model) Relax(x *Instance, y Discrete) (Relaxed, error) {
	if err := m.ValidateInstance(x); err != nil {
		return Relaxed{}, err
	}
	if err := m.ValidateLabeling(x, y); err != nil {
		return Relaxed{}, err
	}
	nNodes, nEdges := x.NumNodes(), x.NumEdges()
	unary, pairwise := m.activations(x, y, nNodes, nEdges)
	return Relaxed{
		Unary:    blockOf(unary, nNodes, m.NumStates()),
		Pairwise: blockOf(pairwise, nEdges, m.NumStatePairs()),
	}, nil
}

// activations builds the one-hot unary (nodes x states) and pairwise
// (edges x state pairs) matrices of a discrete labeling.
func (m *Model) activations(x *Instance, y Discrete, nNodes, nEdges int) (unary, pairwise *mat.Dense) {
	unary = newDense(nNodes, m.NumStates())
	row := 0
	for t, labels := range y {
		for _, label := range labels {
			unary.Set(row, m.stateOffsets[t]+label, 1)
			row++
		}
	}

	pairwise = newDense(nEdges, m.NumStatePairs())
	row = 0
	for p, pair := range m.TypePairs() {
		toStates := m.types[pair.To].States
		for _, e := range x.Edges[p] {
			from, to := y[pair.From][e[0]], y[pair.To][e[1]]
			pairwise.Set(row, m.statePairOffsets[p]+toStates*from+to, 1)
			row++
		}
	}
	if row != nEdges {
		panic(fmt.Sprintf("crf: built %d pairwise activation rows for %d edges", row, nEdges))
	}
	return unary, pairwise
}

// stackNodeFeatures places the node features of type t in rows of the type's
// nodes and columns [FeatureOffset(t), FeatureOffset(t+1)).
func (m *Model) stackNodeFeatures(x *Instance, nNodes int) *mat.Dense {
	dst := newDense(nNodes, m.NumFeatures())
	row := 0
	for t, b := range x.NodeFeatures {
		if src := b.dense(); src != nil {
			col := m.featureOffsets[t]
			dst.Slice(row, row+b.Rows, col, col+b.Cols).(*mat.Dense).Copy(src)
		}
		row += b.Rows
	}
	return dst
}

// stackEdgeFeatures does the same for edges, grouped by type pair.
func (m *Model) stackEdgeFeatures(x *Instance, nEdges int) *mat.Dense {
	dst := newDense(nEdges, m.NumEdgeFeatures())
	row := 0
	for p, b := range x.EdgeFeatures {
		if src := b.dense(); src != nil {
			col := m.edgeFeatureOffsets[p]
			dst.Slice(row, row+b.Rows, col, col+b.Cols).(*mat.Dense).Copy(src)
		}
		row += b.Rows
	}
	return dst
}

// mulT returns the r x c product a^T b. A nil operand stands for a matrix
// with no rows, which gives a zero product; a nil result means r or c is zero.
func mulT(a, b *mat.Dense, r, c int) mat.Matrix {
	if r == 0 || c == 0 {
		return nil
	}
	dst := mat.NewDense(r, c, nil)
	if a == nil || b == nil {
		return dst
	}
	dst.Mul(a.T(), b)
	return dst
}
