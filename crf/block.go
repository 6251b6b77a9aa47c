package crf

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Block is a dense row-major matrix. A Block with zero rows is the explicit
// empty value for a node type or type pair that has no entries; it still
// records its column count.
type Block struct {
	Rows int       `json:"rows"`
	Cols int       `json:"cols"`
	Data []float64 `json:"data"`
}

// NewBlock creates a rows x cols block backed by data. A nil data slice is
// allocated and zero-filled. It panics if data has the wrong length.
func NewBlock(rows, cols int, data []float64) Block {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("crf: negative block dimension %dx%d", rows, cols))
	}
	if data == nil {
		data = make([]float64, rows*cols)
	}
	if len(data) != rows*cols {
		panic(fmt.Sprintf("crf: block data has %d values, want %d", len(data), rows*cols))
	}
	return Block{Rows: rows, Cols: cols, Data: data}
}

// EmptyBlock returns a block with no rows and the given column count.
func EmptyBlock(cols int) Block {
	return Block{Cols: cols, Data: []float64{}}
}

// BlockFromRows copies a slice of equally sized rows into a Block.
// An empty input gives an empty block with zero columns.
func BlockFromRows(rows [][]float64) (Block, error) {
	if len(rows) == 0 {
		return EmptyBlock(0), nil
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return Block{}, fmt.Errorf("row %d has %d values, want %d: %w", i, len(row), cols, ErrShape)
		}
		data = append(data, row...)
	}
	return Block{Rows: len(rows), Cols: cols, Data: data}, nil
}

// IsEmpty reports whether the block has no rows.
func (b Block) IsEmpty() bool {
	return b.Rows == 0
}

// At returns the value at row i, column j.
func (b Block) At(i, j int) float64 {
	return b.Data[i*b.Cols+j]
}

// Row returns row i as a slice sharing the block's storage.
func (b Block) Row(i int) []float64 {
	return b.Data[i*b.Cols : (i+1)*b.Cols]
}

// RowsView returns the block as a slice of rows sharing its storage.
func (b Block) RowsView() [][]float64 {
	rows := make([][]float64, b.Rows)
	for i := range b.Rows {
		rows[i] = b.Row(i)
	}
	return rows
}

func (b Block) check() error {
	if b.Rows < 0 || b.Cols < 0 {
		return fmt.Errorf("negative dimension %dx%d: %w", b.Rows, b.Cols, ErrShape)
	}
	if len(b.Data) != b.Rows*b.Cols {
		return fmt.Errorf("%dx%d block holds %d values: %w", b.Rows, b.Cols, len(b.Data), ErrShape)
	}
	return nil
}

// dense views the block as a gonum matrix. gonum has no zero-sized matrices,
// so a block with a zero dimension gives nil.
func (b Block) dense() *mat.Dense {
	if b.Rows == 0 || b.Cols == 0 {
		return nil
	}
	return mat.NewDense(b.Rows, b.Cols, b.Data)
}

// newDense allocates a zeroed r x c matrix, or nil when either dimension is zero.
func newDense(r, c int) *mat.Dense {
	if r == 0 || c == 0 {
		return nil
	}
	return mat.NewDense(r, c, nil)
}

// blockOf copies a matrix built by newDense back into a Block.
func blockOf(m *mat.Dense, r, c int) Block {
	if m == nil {
		return NewBlock(r, c, nil)
	}
	data := make([]float64, r*c)
	for i := range r {
		copy(data[i*c:(i+1)*c], m.RawRowView(i))
	}
	return NewBlock(r, c, data)
}
