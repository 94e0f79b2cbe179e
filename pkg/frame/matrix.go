package frame

import (
	"gonum.org/v1/gonum/mat"
)

// Dense copies the table into a rows x cols gonum matrix. Every column must
// be numeric; missing values are carried through as NaN.
func (t *Table) Dense() (*mat.Dense, error) {
	for _, c := range t.cols {
		if !c.Kind.IsNumeric() {
			return nil, &ColumnError{Column: c.Name, Kind: c.Kind, Err: ErrNonNumericInput}
		}
	}
	if t.rows == 0 || len(t.cols) == 0 {
		return &mat.Dense{}, nil
	}
	m := mat.NewDense(t.rows, len(t.cols), nil)
	for j, c := range t.cols {
		m.SetCol(j, c.Floats)
	}
	return m, nil
}

// FromDense builds a table of Float columns from a gonum matrix, naming
// columns in order. Values are copied.
func FromDense(m mat.Matrix, names []string) (*Table, error) {
	r, c := m.Dims()
	if c != len(names) {
		return nil, ErrLengthMismatch
	}
	cols := make([]*Column, c)
	for j := 0; j < c; j++ {
		vals := make([]float64, r)
		for i := 0; i < r; i++ {
			vals[i] = m.At(i, j)
		}
		cols[j] = NewFloat(names[j], vals)
	}
	return New(cols...)
}
