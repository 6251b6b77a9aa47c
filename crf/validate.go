package crf

import "fmt"

// ValidateInstance checks that x is consistent with the model: one node
// feature block per type, one edge list and one edge feature block per type
// pair, paired presence of edges and edge features, and column counts that
// match the declared ones.
func (m *Model) ValidateInstance(x *Instance) error {
	if x == nil {
		return fmt.Errorf("nil instance: %w", ErrShape)
	}
	nPairs := len(m.edgeFeatures)
	if len(x.Edges) != nPairs {
		return fmt.Errorf("expected %d edge arrays, got %d: %w", nPairs, len(x.Edges), ErrShape)
	}
	if len(x.EdgeFeatures) != nPairs {
		return fmt.Errorf("expected %d edge feature arrays, got %d: %w", nPairs, len(x.EdgeFeatures), ErrShape)
	}
	if err := m.ValidateNodes(x); err != nil {
		return err
	}

	for p, pair := range m.TypePairs() {
		edges, features := x.Edges[p], x.EdgeFeatures[p]
		if err := features.check(); err != nil {
			return fmt.Errorf("types %d x %d: edge features: %w", pair.From, pair.To, err)
		}
		if len(edges) == 0 || features.IsEmpty() {
			if len(edges) == 0 && features.IsEmpty() {
				continue
			}
			if len(edges) == 0 {
				return fmt.Errorf("types %d x %d: empty edge array but non-empty edge-feature array: %w",
					pair.From, pair.To, ErrShape)
			}
			return fmt.Errorf("types %d x %d: empty edge-feature array but non-empty edge array: %w",
				pair.From, pair.To, ErrShape)
		}
		if len(edges) != features.Rows {
			return fmt.Errorf("types %d x %d: %d edges but %d edge feature rows: %w",
				pair.From, pair.To, len(edges), features.Rows, ErrShape)
		}
		if features.Cols != m.edgeFeatures[p] {
			return fmt.Errorf("types %d x %d: bad number of edge features %d, want %d: %w",
				pair.From, pair.To, features.Cols, m.edgeFeatures[p], ErrShape)
		}
		nFrom, nTo := x.NodeCount(pair.From), x.NodeCount(pair.To)
		for i, e := range edges {
			if e[0] < 0 || e[0] >= nFrom || e[1] < 0 || e[1] >= nTo {
				return fmt.Errorf("types %d x %d: edge %d (%d, %d) is out of range for %d x %d nodes: %w",
					pair.From, pair.To, i, e[0], e[1], nFrom, nTo, ErrShape)
			}
		}
	}
	return nil
}

// ValidateNodes checks the node feature blocks of x: one per type, each with
// the declared number of columns. Empty blocks are exempt from the column check.
func (m *Model) ValidateNodes(x *Instance) error {
	if len(x.NodeFeatures) != len(m.types) {
		return fmt.Errorf("expected %d node feature arrays, got %d: %w", len(m.types), len(x.NodeFeatures), ErrShape)
	}
	for t, b := range x.NodeFeatures {
		if err := b.check(); err != nil {
			return fmt.Errorf("type %d: node features: %w", t, err)
		}
		if !b.IsEmpty() && b.Cols != m.types[t].Features {
			return fmt.Errorf("type %d: bad number of node features %d, want %d: %w",
				t, b.Cols, m.types[t].Features, ErrShape)
		}
	}
	return nil
}

// ValidateWeights checks that w has the length of the joint feature vector.
func (m *Model) ValidateWeights(w []float64) error {
	if len(w) != m.Size() {
		return fmt.Errorf("got a weight vector of length %d, want %d: %w", len(w), m.Size(), ErrShape)
	}
	return nil
}

// ValidateLabeling checks y against the node and edge counts of x.
// Relaxed marginals are checked for shape only.
func (m *Model) ValidateLabeling(x *Instance, y Labeling) error {
	switch y := y.(type) {
	case Discrete:
		if len(y) != len(m.types) {
			return fmt.Errorf("expected %d label arrays, got %d: %w", len(m.types), len(y), ErrShape)
		}
		for t, labels := range y {
			if len(labels) != x.NodeCount(t) {
				return fmt.Errorf("type %d: %d labels for %d nodes: %w", t, len(labels), x.NodeCount(t), ErrShape)
			}
			for i, label := range labels {
				if label < 0 || label >= m.types[t].States {
					return fmt.Errorf("type %d: node %d has label %d, want [0, %d): %w",
						t, i, label, m.types[t].States, ErrShape)
				}
			}
		}
	case Relaxed:
		if err := checkMarginals("unary", y.Unary, x.NumNodes(), m.NumStates()); err != nil {
			return err
		}
		if err := checkMarginals("pairwise", y.Pairwise, x.NumEdges(), m.NumStatePairs()); err != nil {
			return err
		}
	case nil:
		return fmt.Errorf("nil labeling: %w", ErrShape)
	default:
		return fmt.Errorf("unsupported labeling %T: %w", y, ErrShape)
	}
	return nil
}

func checkMarginals(kind string, b Block, rows, cols int) error {
	if err := b.check(); err != nil {
		return fmt.Errorf("%s marginals: %w", kind, err)
	}
	if b.Rows != rows || (rows > 0 && b.Cols != cols) {
		return fmt.Errorf("%s marginals have shape (%d, %d), want (%d, %d): %w",
			kind, b.Rows, b.Cols, rows, cols, ErrShape)
	}
	return nil
}
