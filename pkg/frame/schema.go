package frame

// Schema describes the structure of a table.
type Schema struct {
	FeatureNames []string
	Kinds        []Kind
}

// Schema returns the table's feature names and kinds in column order.
func (t *Table) Schema() Schema {
	s := Schema{
		FeatureNames: make([]string, len(t.cols)),
		Kinds:        make([]Kind, len(t.cols)),
	}
	for i, c := range t.cols {
		s.FeatureNames[i] = c.Name
		s.Kinds[i] = c.Kind
	}
	return s
}

// Filter returns the feature names whose kind satisfies pred.
func (s Schema) Filter(pred func(Kind) bool) []string {
	names := []string{}
	for i, k := range s.Kinds {
		if pred(k) {
			names = append(names, s.FeatureNames[i])
		}
	}
	return names
}
