package dataprep

import "github.com/HisDaoMaterials/data-engine/pkg/frame"

// Columns are classified by declared kind only; values are never inspected.
// Bool and Datetime columns belong to neither bucket.

// NumericalColumns returns the integer and floating point columns of t.
func NumericalColumns(t *frame.Table) *frame.Table {
	return t.Select(func(c *frame.Column) bool { return c.Kind.IsNumeric() })
}

// CategoricalColumns returns the text and category-coded columns of t.
func CategoricalColumns(t *frame.Table) *frame.Table {
	return t.Select(func(c *frame.Column) bool { return c.Kind.IsCategorical() })
}

// NumericalFeatureNames lists numerical column names in table order.
func NumericalFeatureNames(t *frame.Table) []string {
	return t.Schema().Filter(frame.Kind.IsNumeric)
}

// CategoricalFeatureNames lists categorical column names in table order.
func CategoricalFeatureNames(t *frame.Table) []string {
	return t.Schema().Filter(frame.Kind.IsCategorical)
}
