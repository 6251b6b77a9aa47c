package crf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateInstance(t *testing.T) {
	m := exampleModel(t)
	require.NoError(t, m.ValidateInstance(exampleInstance(m)))
	require.NoError(t, m.ValidateInstance(richInstance(m)))
	require.NoError(t, m.ValidateInstance(m.NewInstance()))
}

func TestValidateInstanceErrors(t *testing.T) {
	m := exampleModel(t)
	wordRegion := m.PairIndex(0, 1)
	regionWord := m.PairIndex(1, 0)

	tests := []struct {
		name    string
		mutate  func(x *Instance)
		message string
	}{
		{"nil", nil, "nil instance"},
		{"missing edge arrays", func(x *Instance) { x.Edges = x.Edges[:3] }, "expected 4 edge arrays"},
		{"missing edge feature arrays", func(x *Instance) { x.EdgeFeatures = x.EdgeFeatures[:2] }, "expected 4 edge feature arrays"},
		{"missing node arrays", func(x *Instance) { x.NodeFeatures = x.NodeFeatures[:1] }, "expected 2 node feature arrays"},
		{"node feature columns", func(x *Instance) {
			x.NodeFeatures[1] = NewBlock(2, 3, nil)
		}, "type 1: bad number of node features 3, want 2"},
		{"edges without features", func(x *Instance) {
			x.EdgeFeatures[wordRegion] = EmptyBlock(2)
		}, "types 0 x 1: empty edge-feature array but non-empty edge array"},
		{"features without edges", func(x *Instance) {
			x.EdgeFeatures[regionWord] = NewBlock(1, 2, nil)
		}, "types 1 x 0: empty edge array but non-empty edge-feature array"},
		{"row count", func(x *Instance) {
			x.EdgeFeatures[wordRegion] = NewBlock(2, 2, nil)
		}, "types 0 x 1: 1 edges but 2 edge feature rows"},
		{"edge feature columns", func(x *Instance) {
			x.EdgeFeatures[wordRegion] = NewBlock(1, 3, nil)
		}, "types 0 x 1: bad number of edge features 3, want 2"},
		{"endpoint out of range", func(x *Instance) {
			x.Edges[wordRegion] = []Edge{{0, 2}}
		}, "types 0 x 1: edge 0 (0, 2) is out of range"},
		{"negative endpoint", func(x *Instance) {
			x.Edges[wordRegion] = []Edge{{-1, 0}}
		}, "out of range"},
		{"corrupt block", func(x *Instance) {
			x.EdgeFeatures[wordRegion] = Block{Rows: 1, Cols: 2, Data: []float64{1}}
		}, "1x2 block holds 1 values"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var x *Instance
			if tt.mutate != nil {
				x = exampleInstance(m)
				tt.mutate(x)
			}
			err := m.ValidateInstance(x)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrShape)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestValidateInstanceEmptyPair(t *testing.T) {
	m := exampleModel(t)
	x := exampleInstance(m)
	p := m.PairIndex(1, 0)

	x.Edges[p] = []Edge{}
	x.EdgeFeatures[p] = EmptyBlock(2)
	assert.NoError(t, m.ValidateInstance(x))

	// a zero-value slot is empty too
	x.Edges[p] = nil
	x.EdgeFeatures[p] = Block{}
	assert.NoError(t, m.ValidateInstance(x))
}

func TestValidateLabeling(t *testing.T) {
	m := exampleModel(t)
	x := exampleInstance(m)

	require.NoError(t, m.ValidateLabeling(x, exampleLabels()))

	tests := []struct {
		name    string
		y       Labeling
		message string
	}{
		{"nil", nil, "nil labeling"},
		{"type count", Discrete{{0, 1}}, "expected 2 label arrays"},
		{"node count", Discrete{{0, 1}, {0}}, "type 1: 1 labels for 2 nodes"},
		{"label range", Discrete{{0, 2}, {0, 0}}, "type 0: node 1 has label 2"},
		{"negative label", Discrete{{0, 1}, {-1, 0}}, "has label -1"},
		{"unary marginals", Relaxed{Unary: NewBlock(3, 5, nil), Pairwise: NewBlock(2, 25, nil)}, "unary marginals have shape (3, 5), want (4, 5)"},
		{"pairwise marginals", Relaxed{Unary: NewBlock(4, 5, nil), Pairwise: NewBlock(2, 16, nil)}, "pairwise marginals"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := m.ValidateLabeling(x, tt.y)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrShape)
			assert.Contains(t, err.Error(), tt.message)
		})
	}

	assert.NoError(t, m.ValidateLabeling(x, Relaxed{Unary: NewBlock(4, 5, nil), Pairwise: NewBlock(2, 25, nil)}))
}

func TestValidateWeights(t *testing.T) {
	m := exampleModel(t)
	assert.NoError(t, m.ValidateWeights(make([]float64, 40)))

	err := m.ValidateWeights(make([]float64, 39))
	assert.ErrorIs(t, err, ErrShape)
	assert.Contains(t, err.Error(), "length 39, want 40")
}
