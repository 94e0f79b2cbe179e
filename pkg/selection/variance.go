package selection

import (
	"fmt"
	"math"

	"github.com/HisDaoMaterials/data-engine/pkg/frame"
	"github.com/HisDaoMaterials/data-engine/pkg/stats"
)

// DropLowVarianceFeatures removes numeric columns whose sample variance
// (missing values skipped) is below threshold. Other columns pass through.
func DropLowVarianceFeatures(t *frame.Table, threshold float64, opts ...Option) (*frame.Table, error) {
	if math.IsNaN(threshold) || threshold < 0 {
		return nil, fmt.Errorf("%w: %v (must be >= 0)", ErrInvalidThreshold, threshold)
	}
	o := buildOptions(opts)

	var drop []string
	for i := 0; i < t.NumCols(); i++ {
		c := t.ColumnAt(i)
		if !c.Kind.IsNumeric() {
			continue
		}
		if v := stats.Variance(c.Floats); v < threshold {
			drop = append(drop, c.Name)
			o.emit(Event{
				Type:      EventFeatureDropped,
				Selector:  "variance",
				Feature:   c.Name,
				Score:     v,
				Threshold: threshold,
				Remaining: t.NumCols() - len(drop),
			})
		}
	}

	out, err := t.Drop(drop...)
	if err != nil {
		return nil, err
	}
	o.emit(Event{Type: EventSelectionDone, Selector: "variance", Threshold: threshold, Remaining: out.NumCols()})
	return out, nil
}
