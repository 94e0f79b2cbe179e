package dataprep

import (
	"errors"
	"fmt"
	"math"

	"github.com/HisDaoMaterials/data-engine/pkg/frame"
	"github.com/HisDaoMaterials/data-engine/pkg/stats"
)

var ErrInvalidPercentiles = errors.New("percentiles must satisfy 0 <= lower < upper <= 100")

// ClipOutliers clips every numeric column to its [lower, upper] percentile
// range. Int columns stay Int only if the clip bounds are whole numbers;
// otherwise they become Float.
func ClipOutliers(t *frame.Table, lower, upper float64) (*frame.Table, error) {
	if !(lower >= 0 && lower < upper && upper <= 100) {
		return nil, fmt.Errorf("%w: got %v, %v", ErrInvalidPercentiles, lower, upper)
	}
	out := t.Clone()
	for i := 0; i < out.NumCols(); i++ {
		c := out.ColumnAt(i)
		if !c.Kind.IsNumeric() {
			continue
		}
		c.Floats = stats.ClipPercentiles(c.Floats, lower, upper)
		if c.Kind == frame.Int && !wholeNumbers(c.Floats) {
			c.Kind = frame.Float
		}
	}
	return out, nil
}

func wholeNumbers(x []float64) bool {
	for _, v := range x {
		if !math.IsNaN(v) && v != math.Trunc(v) {
			return false
		}
	}
	return true
}
