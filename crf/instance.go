package crf

// Edge joins node Edge[0] of the source type to node Edge[1] of the target
// type, both numbered locally within their type.
type Edge [2]int

// Instance is the input of the encoder. It has one slot per node type and one
// slot per ordered type pair; a slot without entries holds an empty block
// rather than being omitted.
type Instance struct {
	// NodeFeatures[t] is (nodes of type t) x Features[t].
	NodeFeatures []Block `json:"node_features"`
	// Edges[p] lists the edges of type pair p = from*NumTypes + to.
	Edges [][]Edge `json:"edges"`
	// EdgeFeatures[p] is len(Edges[p]) x EdgeFeatures(from, to).
	EdgeFeatures []Block `json:"edge_features"`
}

// NewInstance returns an instance with every slot empty. Callers fill the
// slots of the types and type pairs that have entries.
func (m *Model) NewInstance() *Instance {
	x := &Instance{
		NodeFeatures: make([]Block, len(m.types)),
		Edges:        make([][]Edge, len(m.edgeFeatures)),
		EdgeFeatures: make([]Block, len(m.edgeFeatures)),
	}
	for t, nt := range m.types {
		x.NodeFeatures[t] = EmptyBlock(nt.Features)
	}
	for p, n := range m.edgeFeatures {
		x.EdgeFeatures[p] = EmptyBlock(n)
	}
	return x
}

// NodeCount returns the number of nodes of type t.
func (x *Instance) NodeCount(t int) int {
	if t >= len(x.NodeFeatures) {
		return 0
	}
	return x.NodeFeatures[t].Rows
}

// NumNodes returns the total number of nodes.
func (x *Instance) NumNodes() int {
	n := 0
	for _, b := range x.NodeFeatures {
		n += b.Rows
	}
	return n
}

// NumEdges returns the total number of edges.
func (x *Instance) NumEdges() int {
	n := 0
	for _, edges := range x.Edges {
		n += len(edges)
	}
	return n
}

// Labeling is the output side of the encoder: either a Discrete labeling or
// Relaxed marginals.
type Labeling interface {
	labeling()
}

// Discrete is a complete labeling, one label array per node type.
// Discrete[t][i] is the state of node i of type t.
type Discrete [][]int

// Relaxed holds fractional marginals from a relaxed inference.
type Relaxed struct {
	// Unary is NumNodes x NumStates, nodes grouped by type in type order.
	Unary Block
	// Pairwise is NumEdges x NumStatePairs, edges grouped by type pair in
	// row-major order.
	Pairwise Block
}

func (Discrete) labeling() {}
func (Relaxed) labeling()  {}
