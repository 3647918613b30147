package model

import "fmt"

// FI-2010 row layout: the first 40 rows of a raw split file are order-book
// features, the last 5 rows are integer movement labels for 5 prediction
// horizons.
const (
	FeatureRows  = 40
	LabelRows    = 5
	TotalRows    = FeatureRows + LabelRows
	HorizonCount = LabelRows
)

// ShapeError reports a raw matrix whose row count does not match the
// benchmark format.
type ShapeError struct {
	WantRows int
	GotRows  int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("raw matrix has %d rows, want %d", e.GotRows, e.WantRows)
}

// RawMatrix is one split of the benchmark as loaded from disk: rows are
// features plus horizon labels, columns are time steps (oldest first).
type RawMatrix struct {
	rows, cols int
	data       []float64 // row-major
}

// NewRawMatrix wraps row-major data as a matrix. The backing slice is not
// copied.
func NewRawMatrix(rows, cols int, data []float64) (*RawMatrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("invalid matrix shape (%d, %d)", rows, cols)
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("matrix data has %d values, want %d", len(data), rows*cols)
	}
	return &RawMatrix{rows: rows, cols: cols, data: data}, nil
}

// Rows returns the number of rows (features + labels).
func (m *RawMatrix) Rows() int { return m.rows }

// Cols returns the number of time steps.
func (m *RawMatrix) Cols() int { return m.cols }

// At returns the value at row r, column c.
func (m *RawMatrix) At(r, c int) float64 {
	return m.data[r*m.cols+c]
}

// HStack concatenates matrices column-wise in argument order. Columns are
// time-ordered, so the argument order must match chronological file order.
// Windows built over the result may span a seam between two files; that is
// a documented property of the benchmark's multi-file test split, not
// something this package hides.
func HStack(ms ...*RawMatrix) (*RawMatrix, error) {
	if len(ms) == 0 {
		return nil, fmt.Errorf("hstack of zero matrices")
	}
	rows := ms[0].rows
	cols := 0
	for _, m := range ms {
		if m.rows != rows {
			return nil, fmt.Errorf("hstack row mismatch: %d vs %d", m.rows, rows)
		}
		cols += m.cols
	}
	out := make([]float64, rows*cols)
	for r := 0; r < rows; r++ {
		off := r * cols
		for _, m := range ms {
			copy(out[off:off+m.cols], m.data[r*m.cols:(r+1)*m.cols])
			off += m.cols
		}
	}
	return &RawMatrix{rows: rows, cols: cols, data: out}, nil
}

// FeatureMatrix is the transposed feature view of one or more raw splits:
// shape (N, D) with time as the leading axis. Rows are shared backing
// storage for every window that covers them; consumers must not mutate
// them in place.
type FeatureMatrix [][]float64

// Dim returns the feature dimension D, or 0 for an empty matrix.
func (f FeatureMatrix) Dim() int {
	if len(f) == 0 {
		return 0
	}
	return len(f[0])
}

// LabelMatrix is the transposed label view: shape (N, HorizonCount), raw
// integer class values as stored in the file.
type LabelMatrix [][]float64
