package dataprep

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/HisDaoMaterials/data-engine/pkg/frame"
)

var ErrInvalidRatio = errors.New("missing ratio threshold must be within [0, 1]")

// DropMissingFeatures removes every column whose fraction of missing values
// exceeds threshold. Dropped columns are logged on logger (slog.Default()
// when nil).
func DropMissingFeatures(t *frame.Table, threshold float64, logger *slog.Logger) (*frame.Table, error) {
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRatio, threshold)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if t.NumRows() == 0 {
		return t.Clone(), nil
	}

	var drop []string
	for i := 0; i < t.NumCols(); i++ {
		c := t.ColumnAt(i)
		ratio := float64(c.MissingCount()) / float64(t.NumRows())
		if ratio > threshold {
			logger.Info("dropping column", "column", c.Name, "missing_pct", math.Round(ratio*10000)/100)
			drop = append(drop, c.Name)
		}
	}
	return t.Drop(drop...)
}
