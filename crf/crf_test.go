package crf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exampleModel has two node types: word with 2 states and 3 features, region
// with 3 states and 2 features. There are no region->region edge features.
func exampleModel(t *testing.T, opts ...Option) *Model {
	t.Helper()
	m, err := NewModel([]NodeType{
		{Name: "word", States: 2, Features: 3},
		{Name: "region", States: 3, Features: 2},
	}, [][]int{{1, 2}, {2, 0}}, opts...)
	require.NoError(t, err)
	return m
}

// exampleInstance has one word->word and one word->region edge.
// The region->word and region->region slots are empty.
func exampleInstance(m *Model) *Instance {
	x := m.NewInstance()
	x.NodeFeatures[0] = NewBlock(2, 3, []float64{1, 2, 3, 4, 5, 6})
	x.NodeFeatures[1] = NewBlock(2, 2, []float64{1, 0, 0, 2})
	x.Edges[m.PairIndex(0, 0)] = []Edge{{0, 1}}
	x.EdgeFeatures[m.PairIndex(0, 0)] = NewBlock(1, 1, []float64{1})
	x.Edges[m.PairIndex(0, 1)] = []Edge{{0, 1}}
	x.EdgeFeatures[m.PairIndex(0, 1)] = NewBlock(1, 2, []float64{1, 2})
	return x
}

func exampleLabels() Discrete {
	return Discrete{{1, 0}, {2, 0}}
}

// richInstance uses every type pair, including region->region edges that
// carry no features.
func richInstance(m *Model) *Instance {
	x := m.NewInstance()
	x.NodeFeatures[0] = NewBlock(3, 3, []float64{1, 0, 2, 0.5, 1, -1, 3, 2, 1})
	x.NodeFeatures[1] = NewBlock(2, 2, []float64{1, 1, -2, 0.5})
	x.Edges[m.PairIndex(0, 0)] = []Edge{{0, 1}, {1, 2}, {2, 0}}
	x.EdgeFeatures[m.PairIndex(0, 0)] = NewBlock(3, 1, []float64{1, 0.5, -1})
	x.Edges[m.PairIndex(0, 1)] = []Edge{{0, 0}, {2, 1}}
	x.EdgeFeatures[m.PairIndex(0, 1)] = NewBlock(2, 2, []float64{1, 0, 0.25, 2})
	x.Edges[m.PairIndex(1, 0)] = []Edge{{1, 2}}
	x.EdgeFeatures[m.PairIndex(1, 0)] = NewBlock(1, 2, []float64{3, -1})
	x.Edges[m.PairIndex(1, 1)] = []Edge{{0, 1}}
	x.EdgeFeatures[m.PairIndex(1, 1)] = NewBlock(1, 0, nil)
	return x
}

func richLabels() Discrete {
	return Discrete{{1, 0, 1}, {2, 0}}
}

func testWeights(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = math.Sin(float64(i) + 1)
	}
	return w
}

func TestNewModelSizes(t *testing.T) {
	m := exampleModel(t)

	assert.Equal(t, 12, m.UnarySize())
	assert.Equal(t, 28, m.PairwiseSize())
	assert.Equal(t, 40, m.Size())
	assert.Equal(t, 2, m.NumTypes())
	assert.Equal(t, 5, m.NumStates())
	assert.Equal(t, 5, m.NumFeatures())
	assert.Equal(t, 5, m.NumEdgeFeatures())
	assert.Equal(t, 4+6+6+9, m.NumStatePairs())
	assert.Equal(t, 2, m.StateOffset(1))
	assert.Equal(t, 3, m.FeatureOffset(1))
	assert.Equal(t, 2, m.EdgeFeatures(1, 0))
	assert.Equal(t, FeaturesByStates, m.Order())
}

func TestComputeLayout(t *testing.T) {
	tests := []struct {
		name                   string
		states, features       []int
		edges                  [][]int
		unary, pairwise, total int
	}{
		{"example", []int{2, 3}, []int{3, 2}, [][]int{{1, 2}, {2, 0}}, 12, 28, 40},
		{"single type", []int{4}, []int{5}, [][]int{{2}}, 20, 32, 52},
		{"zero states", []int{0, 3}, []int{7, 2}, [][]int{{1, 1}, {1, 1}}, 6, 9, 15},
		{"zero features", []int{2, 3}, []int{0, 2}, [][]int{{0, 0}, {0, 0}}, 6, 0, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unary, pairwise, total, err := ComputeLayout(len(tt.states), tt.states, tt.features, tt.edges)
			require.NoError(t, err)
			assert.Equal(t, tt.unary, unary)
			assert.Equal(t, tt.pairwise, pairwise)
			assert.Equal(t, tt.total, total)
			assert.Equal(t, unary+pairwise, total)
		})
	}
}

func TestComputeLayoutErrors(t *testing.T) {
	tests := []struct {
		name  string
		edges [][]int
	}{
		{"too few rows", [][]int{{1, 2}}},
		{"too many rows", [][]int{{1, 2}, {2, 0}, {0, 0}}},
		{"ragged", [][]int{{1, 2}, {2}}},
		{"negative", [][]int{{1, -2}, {2, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := ComputeLayout(2, []int{2, 3}, []int{3, 2}, tt.edges)
			assert.ErrorIs(t, err, ErrConfig)
		})
	}

	_, _, _, err := ComputeLayout(2, []int{2}, []int{3, 2}, [][]int{{1, 2}, {2, 0}})
	assert.ErrorIs(t, err, ErrConfig)
	_, _, _, err = ComputeLayout(2, []int{2, -1}, []int{3, 2}, [][]int{{1, 2}, {2, 0}})
	assert.ErrorIs(t, err, ErrConfig)
}

func TestNewModelErrors(t *testing.T) {
	_, err := NewModel(nil, nil)
	assert.ErrorIs(t, err, ErrConfig)

	_, err = NewModel([]NodeType{{States: 2, Features: 1}}, [][]int{{1, 1}})
	assert.ErrorIs(t, err, ErrConfig)
	assert.Contains(t, err.Error(), "shape (1, 1)")

	_, err = NewModel([]NodeType{{States: 2, Features: 1}}, [][]int{{1}}, WithPairwiseOrder(PairwiseOrder(7)))
	assert.ErrorIs(t, err, ErrConfig)
}

func TestTypePairsRowMajor(t *testing.T) {
	m, err := NewModel([]NodeType{{States: 1}, {States: 1}, {States: 1}}, [][]int{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}})
	require.NoError(t, err)

	var got []TypePair
	for p, pair := range m.TypePairs() {
		assert.Equal(t, len(got), p)
		assert.Equal(t, p, m.PairIndex(pair.From, pair.To))
		got = append(got, pair)
	}
	require.Len(t, got, 9)
	assert.Equal(t, TypePair{From: 0, To: 2}, got[2])
	assert.Equal(t, TypePair{From: 1, To: 0}, got[3])
	assert.Equal(t, TypePair{From: 2, To: 2}, got[8])
}

func TestLayout(t *testing.T) {
	l := exampleModel(t).Layout()

	assert.Equal(t, 40, l.Size)
	require.Len(t, l.Unary, 2)
	assert.Equal(t, UnaryBlock{Type: "word", Offset: 0, States: 2, Features: 3}, l.Unary[0])
	assert.Equal(t, UnaryBlock{Type: "region", Offset: 6, States: 3, Features: 2}, l.Unary[1])

	require.Len(t, l.Pairwise, 4)
	offsets := make([]int, len(l.Pairwise))
	for i, b := range l.Pairwise {
		offsets[i] = b.Offset
	}
	assert.Equal(t, []int{12, 16, 28, 40}, offsets)
	assert.Equal(t, PairwiseBlock{From: "word", To: "region", Offset: 16, EdgeFeatures: 2, FromStates: 2, ToStates: 3}, l.Pairwise[1])
	assert.Equal(t, 0, l.Pairwise[3].EdgeFeatures)
}

func TestParsePairwiseOrder(t *testing.T) {
	for _, o := range []PairwiseOrder{FeaturesByStates, StatesByFeatures} {
		got, err := ParsePairwiseOrder(o.String())
		require.NoError(t, err)
		assert.Equal(t, o, got)
	}
	got, err := ParsePairwiseOrder("")
	require.NoError(t, err)
	assert.Equal(t, FeaturesByStates, got)

	_, err = ParsePairwiseOrder("sideways")
	assert.ErrorIs(t, err, ErrConfig)
}

func TestModelString(t *testing.T) {
	s := exampleModel(t, WithPairwiseOrder(StatesByFeatures)).String()
	assert.Contains(t, s, "n_states: [2 3]")
	assert.Contains(t, s, "n_edge_features: [[1 2] [2 0]]")
	assert.Contains(t, s, "states-by-features")
}

func TestBlockFromRows(t *testing.T) {
	b, err := BlockFromRows([][]float64{{1, 2}, {3, 4}, {5, 6}})
	require.NoError(t, err)
	assert.Equal(t, 3, b.Rows)
	assert.Equal(t, 2, b.Cols)
	assert.Equal(t, 4.0, b.At(1, 1))
	assert.Equal(t, []float64{5, 6}, b.Row(2))
	assert.Equal(t, [][]float64{{1, 2}, {3, 4}, {5, 6}}, b.RowsView())

	_, err = BlockFromRows([][]float64{{1, 2}, {3}})
	assert.ErrorIs(t, err, ErrShape)

	empty, err := BlockFromRows(nil)
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())
}

func TestNewBlockPanicsOnBadData(t *testing.T) {
	assert.Panics(t, func() { NewBlock(2, 2, []float64{1, 2, 3}) })
	assert.Panics(t, func() { NewBlock(-1, 2, nil) })
}
