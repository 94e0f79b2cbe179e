package frame

import (
	"math"
	"time"
)

// Column is a named, single-kind sequence of values. Exactly one of the
// backing slices is populated, selected by Kind. Missing numeric values are
// NaN and missing text values are "".
type Column struct {
	Name string
	Kind Kind

	Floats  []float64
	Strings []string
	Bools   []bool
	Times   []time.Time
}

// NewFloat builds a Float column.
func NewFloat(name string, values []float64) *Column {
	return &Column{Name: name, Kind: Float, Floats: values}
}

// NewInt builds an Int column; values are stored as float64.
func NewInt(name string, values []int64) *Column {
	f := make([]float64, len(values))
	for i, v := range values {
		f[i] = float64(v)
	}
	return &Column{Name: name, Kind: Int, Floats: f}
}

// NewString builds a free-text column.
func NewString(name string, values []string) *Column {
	return &Column{Name: name, Kind: String, Strings: values}
}

// NewCategorical builds an explicitly category-coded column.
func NewCategorical(name string, values []string) *Column {
	return &Column{Name: name, Kind: Categorical, Strings: values}
}

func NewBool(name string, values []bool) *Column {
	return &Column{Name: name, Kind: Bool, Bools: values}
}

func NewDatetime(name string, values []time.Time) *Column {
	return &Column{Name: name, Kind: Datetime, Times: values}
}

// Len returns the number of rows held by the column.
func (c *Column) Len() int {
	switch {
	case c.Kind.IsNumeric():
		return len(c.Floats)
	case c.Kind.IsCategorical():
		return len(c.Strings)
	case c.Kind == Bool:
		return len(c.Bools)
	case c.Kind == Datetime:
		return len(c.Times)
	}
	return 0
}

// IsMissing reports whether row i holds no value.
func (c *Column) IsMissing(i int) bool {
	switch {
	case c.Kind.IsNumeric():
		return math.IsNaN(c.Floats[i])
	case c.Kind.IsCategorical():
		return c.Strings[i] == ""
	case c.Kind == Datetime:
		return c.Times[i].IsZero()
	}
	return false
}

// MissingCount returns the number of rows without a value.
func (c *Column) MissingCount() int {
	n := 0
	for i := 0; i < c.Len(); i++ {
		if c.IsMissing(i) {
			n++
		}
	}
	return n
}

// Clone deep copies the column.
func (c *Column) Clone() *Column {
	n := &Column{Name: c.Name, Kind: c.Kind}
	if c.Floats != nil {
		n.Floats = append(make([]float64, 0, len(c.Floats)), c.Floats...)
	}
	if c.Strings != nil {
		n.Strings = append(make([]string, 0, len(c.Strings)), c.Strings...)
	}
	if c.Bools != nil {
		n.Bools = append(make([]bool, 0, len(c.Bools)), c.Bools...)
	}
	if c.Times != nil {
		n.Times = append(make([]time.Time, 0, len(c.Times)), c.Times...)
	}
	return n
}
