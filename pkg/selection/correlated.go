package selection

import (
	"fmt"
	"math"
	"slices"

	"github.com/HisDaoMaterials/data-engine/pkg/frame"
	"github.com/HisDaoMaterials/data-engine/pkg/stats"
)

// DropCorrelatedFeatures scans numeric column pairs in table order and, when
// |r| >= threshold, drops the later column of the pair. Columns already
// dropped take no further part in the scan. threshold must be in (0, 1].
func DropCorrelatedFeatures(t *frame.Table, method stats.Method, threshold float64, opts ...Option) (*frame.Table, error) {
	if math.IsNaN(threshold) || threshold <= 0 || threshold > 1 {
		return nil, fmt.Errorf("%w: %v (must be in (0, 1])", ErrInvalidThreshold, threshold)
	}
	if err := method.Validate(); err != nil {
		return nil, err
	}
	o := buildOptions(opts)

	numeric := t.Schema().Filter(frame.Kind.IsNumeric)
	var drop []string
	for i, a := range numeric {
		if slices.Contains(drop, a) {
			continue
		}
		ca, _ := t.Column(a)
		for _, b := range numeric[i+1:] {
			if slices.Contains(drop, b) {
				continue
			}
			cb, _ := t.Column(b)
			r, err := stats.Correlate(method, ca.Floats, cb.Floats)
			if err != nil {
				return nil, err
			}
			if math.Abs(r) >= threshold {
				drop = append(drop, b)
				o.emit(Event{
					Type:      EventFeatureDropped,
					Selector:  "correlation",
					Feature:   b,
					Score:     r,
					Threshold: threshold,
					Remaining: t.NumCols() - len(drop),
				})
			}
		}
	}

	out, err := t.Drop(drop...)
	if err != nil {
		return nil, err
	}
	o.emit(Event{Type: EventSelectionDone, Selector: "correlation", Threshold: threshold, Remaining: out.NumCols()})
	return out, nil
}
