// Package vectorizer provides sparse views of joint feature vectors.
package vectorizer

// SparseVector represents a sparse float64 vector.
type SparseVector struct {
	Indices []int     `json:"indices"`
	Values  []float64 `json:"values"`
	Dim     int       `json:"dim"`
}

// FromDense keeps the non-zero entries of dense, in index order.
func FromDense(dense []float64) SparseVector {
	sv := SparseVector{Dim: len(dense)}
	for i, v := range dense {
		if v != 0 {
			sv.Indices = append(sv.Indices, i)
			sv.Values = append(sv.Values, v)
		}
	}
	return sv
}

// Nnz returns the number of non-zero entries.
func (sv SparseVector) Nnz() int {
	return len(sv.Indices)
}

// Density returns the fraction of non-zero entries.
func (sv SparseVector) Density() float64 {
	if sv.Dim == 0 {
		return 0
	}
	return float64(sv.Nnz()) / float64(sv.Dim)
}
