package crf

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// BlockRavel flattens the diagonal blocks of a. Block i covers rows
// [rowCuts[i-1], rowCuts[i]) and columns [colCuts[i-1], colCuts[i]), with an
// implicit leading cut at zero. Each block is flattened row-major and the
// results are concatenated in block order; off-diagonal blocks are dropped.
//
// a may be nil when every block is empty. Mismatched cut lists are a
// programming error and panic.
func BlockRavel(a mat.Matrix, rowCuts, colCuts []int) []float64 {
	if len(rowCuts) != len(colCuts) {
		panic(fmt.Sprintf("crf: block ravel over %d row blocks and %d column blocks", len(rowCuts), len(colCuts)))
	}
	size := 0
	r0, c0 := 0, 0
	for i := range rowCuts {
		r1, c1 := rowCuts[i], colCuts[i]
		if r1 < r0 || c1 < c0 {
			panic(fmt.Sprintf("crf: block ravel cut-points decrease at block %d", i))
		}
		size += (r1 - r0) * (c1 - c0)
		r0, c0 = r1, c1
	}
	if a != nil {
		rows, cols := a.Dims()
		if r0 > rows || c0 > cols {
			panic(fmt.Sprintf("crf: block ravel cut-points (%d, %d) exceed a %dx%d matrix", r0, c0, rows, cols))
		}
	} else if size > 0 {
		panic("crf: block ravel of a nil matrix with non-empty blocks")
	}

	out := make([]float64, 0, size)
	r0, c0 = 0, 0
	for i := range rowCuts {
		r1, c1 := rowCuts[i], colCuts[i]
		for r := r0; r < r1; r++ {
			for c := c0; c < c1; c++ {
				out = append(out, a.At(r, c))
			}
		}
		r0, c0 = r1, c1
	}
	return out
}
