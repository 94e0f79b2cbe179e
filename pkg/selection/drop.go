package selection

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/HisDaoMaterials/data-engine/pkg/frame"
)

// loadingTol separates genuinely different collinearity loadings from
// floating point noise.
const loadingTol = 1e-9

// DropHighVIFFeatures repeatedly removes the feature with the highest VIF
// while that VIF is at least threshold. Ties go to the earliest column, except
// between unbounded scores: there the column carrying most of the exact linear
// dependency goes first (see collinearLoadings). The loop stops once one
// column or fewer remain. The input table is not modified; surviving columns
// keep their order and values.
func DropHighVIFFeatures(t *frame.Table, threshold float64, opts ...Option) (*frame.Table, error) {
	if err := checkThreshold(threshold); err != nil {
		return nil, err
	}
	o := buildOptions(opts)

	work := t.Clone()
	for work.NumCols() > 1 {
		report, err := ComputeVIF(work)
		if err != nil {
			return nil, err
		}
		top, _ := report.Max()
		if top.VIF < threshold {
			break
		}
		if math.IsInf(top.VIF, 1) {
			if top, err = pickUnbounded(work, report); err != nil {
				return nil, err
			}
		}
		if work, err = work.Drop(top.Feature); err != nil {
			return nil, err
		}
		o.emit(Event{
			Type:      EventFeatureDropped,
			Selector:  "vif",
			Feature:   top.Feature,
			Score:     top.VIF,
			Threshold: threshold,
			Remaining: work.NumCols(),
		})
	}

	o.emit(Event{Type: EventSelectionDone, Selector: "vif", Threshold: threshold, Remaining: work.NumCols()})
	return work, nil
}

func checkThreshold(threshold float64) error {
	if math.IsNaN(threshold) || threshold <= 0 {
		return fmt.Errorf("%w: %v (must be > 0)", ErrInvalidThreshold, threshold)
	}
	return nil
}

// pickUnbounded chooses among the +Inf entries of report. The entry with the
// largest collinearity loading wins; equal loadings fall back to column order.
func pickUnbounded(t *frame.Table, report VIFReport) (VIFScore, error) {
	X, err := t.Dense()
	if err != nil {
		return VIFScore{}, err
	}
	load := collinearLoadings(X)
	best := -1
	for i, s := range report {
		if !math.IsInf(s.VIF, 1) {
			continue
		}
		if best < 0 || load[i] > load[best]+loadingTol {
			best = i
		}
	}
	return report[best], nil
}

// collinearLoadings measures how much of each column lies in the numerical
// null space of the design: the sum of its squared entries over the
// eigenvectors of the correlation matrix whose eigenvalue is at most
// perfectFit. For C = A + B with unit-variance A and B this gives
// A: 1/4, B: 1/4, C: 1/2. A constant column scores 1.
func collinearLoadings(X *mat.Dense) []float64 {
	r, c := X.Dims()
	load := make([]float64, c)
	col := make([]float64, r)
	var live []int
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		if _, std := stat.MeanStdDev(col, nil); std == 0 {
			load[j] = 1
			continue
		}
		live = append(live, j)
	}
	if len(live) < 2 {
		return load
	}

	sub := mat.NewDense(r, len(live), nil)
	for k, j := range live {
		mat.Col(col, j, X)
		sub.SetCol(k, col)
	}
	var corr mat.SymDense
	stat.CorrelationMatrix(&corr, sub, nil)

	var eig mat.EigenSym
	if !eig.Factorize(&corr, true) {
		return load
	}
	var vecs mat.Dense
	eig.VectorsTo(&vecs)
	for e, v := range eig.Values(nil) {
		if v > perfectFit {
			continue
		}
		for k, j := range live {
			x := vecs.At(k, e)
			load[j] += x * x
		}
	}
	return load
}
