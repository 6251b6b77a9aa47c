package crf

import "gonum.org/v1/gonum/mat"

// PairwisePotentials returns one States(from) x States(to) potential matrix
// per edge, in the edge order used by JointFeature: type pairs in row-major
// order, edges of a pair in their given order. Entry [a][b] is the score of
// labeling the source node a and the target node b.
func (m *Model) PairwisePotentials(x *Instance, w []float64) ([]Block, error) {
	if err := m.ValidateWeights(w); err != nil {
		return nil, err
	}
	if err := m.ValidateInstance(x); err != nil {
		return nil, err
	}
	pw := w[m.sizeUnary:]
	out := make([]Block, 0, x.NumEdges())
	for p, pair := range m.TypePairs() {
		edges := x.Edges[p]
		if len(edges) == 0 {
			continue
		}
		fromStates, toStates := m.types[pair.From].States, m.types[pair.To].States
		weights := pw[m.pairwiseOffsets[p]:m.pairwiseOffsets[p+1]]
		scores := m.edgeScores(x.EdgeFeatures[p], weights, m.edgeFeatures[p], fromStates*toStates)
		for i := range edges {
			b := NewBlock(fromStates, toStates, nil)
			if scores != nil {
				copy(b.Data, scores.RawRowView(i))
			}
			out = append(out, b)
		}
	}
	return out, nil
}

// edgeScores multiplies the edge features of one type pair (edges x nf) by
// the pair's weight block, giving edges x k scores. nil means all zero.
func (m *Model) edgeScores(features Block, weights []float64, nf, k int) *mat.Dense {
	f := features.dense()
	if f == nil || nf == 0 || k == 0 {
		return nil
	}
	scores := mat.NewDense(features.Rows, k, nil)
	switch m.order {
	case StatesByFeatures:
		scores.Mul(f, mat.NewDense(k, nf, weights).T())
	default:
		scores.Mul(f, mat.NewDense(nf, k, weights))
	}
	return scores
}

// UnaryPotentials returns, for every node in type order, the score of each
// of its type's states.
func (m *Model) UnaryPotentials(x *Instance, w []float64) ([][]float64, error) {
	if err := m.ValidateWeights(w); err != nil {
		return nil, err
	}
	if err := m.ValidateInstance(x); err != nil {
		return nil, err
	}
	out := make([][]float64, 0, x.NumNodes())
	for t, b := range x.NodeFeatures {
		states := m.types[t].States
		var scores *mat.Dense
		if f := b.dense(); f != nil && states > 0 {
			weights := mat.NewDense(states, b.Cols, w[m.unaryOffsets[t]:m.unaryOffsets[t+1]])
			scores = mat.NewDense(b.Rows, states, nil)
			scores.Mul(f, weights.T())
		}
		for i := range b.Rows {
			row := make([]float64, states)
			if scores != nil {
				copy(row, scores.RawRowView(i))
			}
			out = append(out, row)
		}
	}
	return out, nil
}
