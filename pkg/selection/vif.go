package selection

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/HisDaoMaterials/data-engine/pkg/frame"
	"github.com/HisDaoMaterials/data-engine/pkg/model"
	"github.com/HisDaoMaterials/data-engine/pkg/stats"
)

// DefaultVIFThreshold is the conventional cut-off for severe multicollinearity.
const DefaultVIFThreshold = 10.0

// perfectFit is how close R² may get to 1 before the VIF is reported as +Inf.
const perfectFit = 1e-10

// VIFScore is the variance inflation factor of one feature.
type VIFScore struct {
	Feature string
	VIF     float64
}

// VIFReport holds one score per column, in table column order.
type VIFReport []VIFScore

// Max returns the first score (in column order) attaining the maximum VIF.
func (r VIFReport) Max() (VIFScore, bool) {
	if len(r) == 0 {
		return VIFScore{}, false
	}
	top := r[0]
	for _, s := range r[1:] {
		if s.VIF > top.VIF {
			top = s
		}
	}
	return top, true
}

// Sorted returns a copy ordered by descending VIF; equal scores keep column order.
func (r VIFReport) Sorted() VIFReport {
	out := append(VIFReport(nil), r...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].VIF > out[j].VIF })
	return out
}

// Features returns the feature names in report order.
func (r VIFReport) Features() []string {
	names := make([]string, len(r))
	for i, s := range r {
		names[i] = s.Feature
	}
	return names
}

// ComputeVIF regresses every column on all the others (plus an intercept)
// and reports VIF = 1/(1-R²) per column, in column order.
//
// A perfect fit (R² within 1e-10 of 1) or a constant column is reported as
// +Inf rather than an error; use ComputeVIFStrict to fail instead. A table
// with a single column scores 1.
func ComputeVIF(t *frame.Table) (VIFReport, error) {
	X, err := t.Dense()
	if err != nil {
		return nil, err
	}
	k := t.NumCols()
	if k == 0 {
		return VIFReport{}, nil
	}
	if t.NumRows() < 2 {
		return nil, ErrInsufficientRows
	}
	for i := 0; i < k; i++ {
		if c := t.ColumnAt(i); c.MissingCount() > 0 {
			return nil, &frame.ColumnError{Column: c.Name, Kind: c.Kind, Err: ErrMissingValues}
		}
	}

	report := make(VIFReport, k)
	for i := 0; i < k; i++ {
		c := t.ColumnAt(i)
		score, err := vif(without(X, i), c.Floats)
		if err != nil {
			return nil, &frame.ColumnError{Column: c.Name, Kind: c.Kind, Err: err}
		}
		report[i] = VIFScore{Feature: c.Name, VIF: score}
	}
	return report, nil
}

// ComputeVIFStrict is ComputeVIF but fails with ErrSingularDesign on the
// first column whose VIF is unbounded.
func ComputeVIFStrict(t *frame.Table) (VIFReport, error) {
	report, err := ComputeVIF(t)
	if err != nil {
		return nil, err
	}
	for _, s := range report {
		if math.IsInf(s.VIF, 1) {
			return nil, &frame.ColumnError{Column: s.Feature, Err: ErrSingularDesign}
		}
	}
	return report, nil
}

func vif(others mat.Matrix, y []float64) (float64, error) {
	if stats.Variance(y) == 0 {
		return math.Inf(1), nil
	}
	if others == nil {
		return 1, nil
	}
	lr := model.NewLinearRegression()
	if err := lr.Fit(others, y); err != nil {
		return 0, err
	}
	r2 := lr.Score(others, y)
	if 1-r2 <= perfectFit {
		return math.Inf(1), nil
	}
	return 1 / (1 - r2), nil
}

// without copies X minus column i; nil when nothing would be left.
func without(X *mat.Dense, i int) mat.Matrix {
	r, c := X.Dims()
	if c < 2 {
		return nil
	}
	out := mat.NewDense(r, c-1, nil)
	col := make([]float64, r)
	for j, dst := 0, 0; j < c; j++ {
		if j == i {
			continue
		}
		mat.Col(col, j, X)
		out.SetCol(dst, col)
		dst++
	}
	return out
}
