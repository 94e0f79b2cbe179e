package dataprep

import (
	"errors"
	"fmt"
	"math"

	"github.com/HisDaoMaterials/data-engine/pkg/frame"
)

// Encoding selects how categorical columns become numeric.
type Encoding string

const (
	Label     Encoding = "label"
	OneHot    Encoding = "onehot"
	Frequency Encoding = "freq"
)

var ErrUnsupportedEncoding = errors.New("unsupported encoding")

// Encoders maps each encoded column to its category -> code table. For
// one-hot the code is the index of the generated indicator column, for
// frequency it is the category count.
type Encoders map[string]map[string]float64

// EncodeCategorical replaces every categorical column with Float columns.
// Categories are ordered by first appearance so output is deterministic.
// Missing values ("") are encoded as NaN (label, freq) or all-zero rows (onehot).
func EncodeCategorical(t *frame.Table, method Encoding) (*frame.Table, Encoders, error) {
	switch method {
	case Label, OneHot, Frequency:
	default:
		return nil, nil, fmt.Errorf("%w: %q (want label, onehot or freq)", ErrUnsupportedEncoding, string(method))
	}

	out := t.Clone()
	encoders := Encoders{}
	for _, name := range CategoricalFeatureNames(t) {
		c, _ := t.Column(name)
		var cols []*frame.Column
		switch method {
		case OneHot:
			cols, encoders[name] = oneHot(c)
		case Frequency:
			cols, encoders[name] = frequencyEncode(c)
		default:
			cols, encoders[name] = labelEncode(c)
		}
		var err error
		if out, err = out.Replace(name, cols...); err != nil {
			return nil, nil, err
		}
	}
	return out, encoders, nil
}

func categories(values []string) ([]string, map[string]int) {
	var order []string
	index := map[string]int{}
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := index[v]; !ok {
			index[v] = len(order)
			order = append(order, v)
		}
	}
	return order, index
}

// labelEncode encodes categories as integers.
func labelEncode(c *frame.Column) ([]*frame.Column, map[string]float64) {
	_, index := categories(c.Strings)
	mapping := make(map[string]float64, len(index))
	for k, v := range index {
		mapping[k] = float64(v)
	}
	out := make([]float64, len(c.Strings))
	for i, v := range c.Strings {
		out[i] = nanIfMissing(v, mapping)
	}
	return []*frame.Column{frame.NewFloat(c.Name, out)}, mapping
}

// frequencyEncode encodes categories by their relative frequency.
func frequencyEncode(c *frame.Column) ([]*frame.Column, map[string]float64) {
	counts := map[string]float64{}
	for _, v := range c.Strings {
		if v != "" {
			counts[v]++
		}
	}
	out := make([]float64, len(c.Strings))
	for i, v := range c.Strings {
		out[i] = nanIfMissing(v, counts) / float64(len(c.Strings))
	}
	return []*frame.Column{frame.NewFloat(c.Name, out)}, counts
}

// oneHot emits one indicator column per category, named <column>_<category>.
func oneHot(c *frame.Column) ([]*frame.Column, map[string]float64) {
	order, index := categories(c.Strings)
	mapping := make(map[string]float64, len(order))
	cols := make([]*frame.Column, len(order))
	for j, cat := range order {
		mapping[cat] = float64(j)
		cols[j] = frame.NewFloat(c.Name+"_"+cat, make([]float64, len(c.Strings)))
	}
	for i, v := range c.Strings {
		if j, ok := index[v]; ok {
			cols[j].Floats[i] = 1
		}
	}
	return cols, mapping
}

func nanIfMissing(v string, mapping map[string]float64) float64 {
	if code, ok := mapping[v]; ok {
		return code
	}
	return math.NaN()
}
