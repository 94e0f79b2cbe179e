package explorer

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/HisDaoMaterials/data-engine/pkg/frame"
	"github.com/HisDaoMaterials/data-engine/pkg/stats"
)

// CorrelationMatrix is a square, symmetric matrix of pairwise correlations
// indexed by numeric column name on both axes.
type CorrelationMatrix struct {
	Method stats.Method

	names  []string
	values *mat.SymDense // nil when there are no numeric columns
}

// NewCorrelationMatrix computes pairwise-complete correlations between the
// numeric columns of t. Non-numeric columns are ignored. The diagonal is 1
// for columns with at least two values and non-zero variance, NaN otherwise.
func NewCorrelationMatrix(t *frame.Table, method stats.Method) (*CorrelationMatrix, error) {
	if err := method.Validate(); err != nil {
		return nil, err
	}
	num := t.Select(func(c *frame.Column) bool { return c.Kind.IsNumeric() })
	cm := &CorrelationMatrix{Method: method, names: num.Names()}
	n := num.NumCols()
	if n == 0 {
		return cm, nil
	}

	cm.values = mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		x := num.ColumnAt(i).Floats
		diag := math.NaN()
		if v := stats.Valid(x); len(v) >= 2 && stats.Variance(v) > 0 {
			diag = 1
		}
		cm.values.SetSym(i, i, diag)
		for j := i + 1; j < n; j++ {
			r, err := stats.Correlate(method, x, num.ColumnAt(j).Floats)
			if err != nil {
				return nil, err
			}
			cm.values.SetSym(i, j, r)
		}
	}
	return cm, nil
}

// Len returns the number of rows (and columns) of the matrix.
func (cm *CorrelationMatrix) Len() int { return len(cm.names) }

// Names returns the axis labels.
func (cm *CorrelationMatrix) Names() []string { return append([]string(nil), cm.names...) }

// At returns the correlation between the i-th and j-th numeric columns.
func (cm *CorrelationMatrix) At(i, j int) float64 { return cm.values.At(i, j) }

// Get returns the correlation between two named columns.
func (cm *CorrelationMatrix) Get(a, b string) (float64, bool) {
	i, j := cm.indexOf(a), cm.indexOf(b)
	if i < 0 || j < 0 {
		return math.NaN(), false
	}
	return cm.At(i, j), true
}

// Table returns the matrix as a table of Float columns named like the axes.
func (cm *CorrelationMatrix) Table() *frame.Table {
	cols := make([]*frame.Column, cm.Len())
	for j := range cols {
		vals := make([]float64, cm.Len())
		for i := range vals {
			vals[i] = cm.At(i, j)
		}
		cols[j] = frame.NewFloat(cm.names[j], vals)
	}
	return frame.MustNew(cols...)
}

func (cm *CorrelationMatrix) indexOf(name string) int {
	for i, n := range cm.names {
		if n == name {
			return i
		}
	}
	return -1
}
