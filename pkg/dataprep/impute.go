package dataprep

import (
	"errors"
	"fmt"
	"math"

	"github.com/HisDaoMaterials/data-engine/pkg/frame"
	"github.com/HisDaoMaterials/data-engine/pkg/stats"
)

// Strategy selects how missing values are filled.
type Strategy string

const (
	Mean     Strategy = "mean"
	Median   Strategy = "median"
	Mode     Strategy = "mode"
	Constant Strategy = "constant"
	None     Strategy = "none"
)

var ErrUnsupportedStrategy = errors.New("unsupported imputation strategy")

// ImputeOptions picks a strategy for numeric and for categorical columns.
// NumericConstant and CategoricalConstant feed the Constant strategy.
type ImputeOptions struct {
	Numeric             Strategy
	Categorical         Strategy
	NumericConstant     float64
	CategoricalConstant string
}

// DefaultImputeOptions fills numbers with the column mean and text with the mode.
func DefaultImputeOptions() ImputeOptions {
	return ImputeOptions{
		Numeric:             Mean,
		Categorical:         Mode,
		CategoricalConstant: "Unknown",
	}
}

// Impute returns a copy of t with missing numeric and categorical values
// filled. Bool and Datetime columns are copied unchanged.
func Impute(t *frame.Table, opts ImputeOptions) (*frame.Table, error) {
	out := t.Clone()
	for i := 0; i < out.NumCols(); i++ {
		c := out.ColumnAt(i)
		switch {
		case c.Kind.IsNumeric():
			if err := imputeNumeric(c, opts); err != nil {
				return nil, &frame.ColumnError{Column: c.Name, Kind: c.Kind, Err: err}
			}
		case c.Kind.IsCategorical():
			if err := imputeCategorical(c, opts); err != nil {
				return nil, &frame.ColumnError{Column: c.Name, Kind: c.Kind, Err: err}
			}
		}
	}
	return out, nil
}

func imputeNumeric(c *frame.Column, opts ImputeOptions) error {
	var fill float64
	switch opts.Numeric {
	case None, "":
		return nil
	case Mean:
		fill = stats.Mean(c.Floats)
	case Median:
		fill = stats.Median(c.Floats)
	case Mode:
		fill = stats.Mode(c.Floats)
	case Constant:
		fill = opts.NumericConstant
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedStrategy, opts.Numeric)
	}
	if c.Kind == frame.Int {
		fill = math.Round(fill)
	}
	for i, v := range c.Floats {
		if math.IsNaN(v) {
			c.Floats[i] = fill
		}
	}
	return nil
}

func imputeCategorical(c *frame.Column, opts ImputeOptions) error {
	var fill string
	switch opts.Categorical {
	case None, "":
		return nil
	case Mode:
		fill = stats.ModeString(c.Strings)
		if fill == "" {
			fill = opts.CategoricalConstant
		}
	case Constant:
		fill = opts.CategoricalConstant
	default:
		return fmt.Errorf("%w: %q (categorical columns take mode or constant)", ErrUnsupportedStrategy, opts.Categorical)
	}
	for i, v := range c.Strings {
		if v == "" {
			c.Strings[i] = fill
		}
	}
	return nil
}
