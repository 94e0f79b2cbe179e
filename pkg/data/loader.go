package data

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/HisDaoMaterials/data-engine/pkg/frame"
)

var ErrNoHeader = errors.New("csv has no header row")

// missing cell markers, compared case-sensitively
var missingMarkers = []string{"", "NA", "NaN", "null"}

var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

type readOptions struct {
	categorical []string
	comma       rune
}

// ReadOption configures ReadCSV.
type ReadOption func(*readOptions)

// WithCategorical forces the named columns to the Categorical kind.
func WithCategorical(names ...string) ReadOption {
	return func(o *readOptions) { o.categorical = append(o.categorical, names...) }
}

// WithComma sets the field delimiter (default ',').
func WithComma(r rune) ReadOption {
	return func(o *readOptions) { o.comma = r }
}

// LoadCSV reads a CSV file into a table. See ReadCSV.
func LoadCSV(path string, opts ...ReadOption) (*frame.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	t, err := ReadCSV(bufio.NewReader(file), opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ReadCSV reads a header row followed by data rows and infers each column's
// kind from its non-missing cells, trying int, float, bool and datetime before
// falling back to string. Int columns with missing cells become Float so the
// gaps can be held as NaN. A column with no values at all is Float.
func ReadCSV(r io.Reader, opts ...ReadOption) (*frame.Table, error) {
	o := readOptions{comma: ','}
	for _, fn := range opts {
		fn(&o)
	}

	reader := csv.NewReader(r)
	reader.Comma = o.comma
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoHeader
	}

	headers, rows := records[0], records[1:]
	cols := make([]*frame.Column, len(headers))
	cells := make([]string, len(rows))
	for j, name := range headers {
		for i, row := range rows {
			cells[i] = strings.TrimSpace(row[j])
		}
		if slices.Contains(o.categorical, name) {
			cols[j] = frame.NewCategorical(name, textValues(cells))
			continue
		}
		cols[j] = inferColumn(name, cells)
	}
	return frame.New(cols...)
}

func isMissing(s string) bool { return slices.Contains(missingMarkers, s) }

func inferColumn(name string, cells []string) *frame.Column {
	kind := detectKind(cells)
	switch kind {
	case frame.Int, frame.Float:
		vals := make([]float64, len(cells))
		hasMissing := false
		for i, s := range cells {
			if isMissing(s) {
				vals[i] = math.NaN()
				hasMissing = true
				continue
			}
			vals[i], _ = strconv.ParseFloat(s, 64)
		}
		if kind == frame.Int && !hasMissing {
			return &frame.Column{Name: name, Kind: frame.Int, Floats: vals}
		}
		return frame.NewFloat(name, vals)
	case frame.Bool:
		vals := make([]bool, len(cells))
		for i, s := range cells {
			vals[i] = strings.EqualFold(s, "true")
		}
		return frame.NewBool(name, vals)
	case frame.Datetime:
		vals := make([]time.Time, len(cells))
		for i, s := range cells {
			if !isMissing(s) {
				vals[i], _ = parseTime(s)
			}
		}
		return frame.NewDatetime(name, vals)
	}
	return frame.NewString(name, textValues(cells))
}

// detectKind returns the narrowest kind every non-missing cell parses as.
// Bool columns cannot represent a missing cell, so a boolean column with gaps
// is read as String.
func detectKind(cells []string) frame.Kind {
	isInt, isFloat, isBool, isTime := true, true, true, true
	seen, missing := 0, 0
	for _, s := range cells {
		if isMissing(s) {
			missing++
			continue
		}
		seen++
		if isInt {
			_, err := strconv.ParseInt(s, 10, 64)
			isInt = err == nil
		}
		if isFloat {
			_, err := strconv.ParseFloat(s, 64)
			isFloat = err == nil
		}
		if isBool {
			isBool = strings.EqualFold(s, "true") || strings.EqualFold(s, "false")
		}
		if isTime {
			_, err := parseTime(s)
			isTime = err == nil
		}
	}
	switch {
	case seen == 0:
		return frame.Float
	case isInt:
		return frame.Int
	case isFloat:
		return frame.Float
	case isBool && missing == 0:
		return frame.Bool
	case isTime:
		return frame.Datetime
	}
	return frame.String
}

func parseTime(s string) (time.Time, error) {
	var err error
	for _, layout := range timeLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

func textValues(cells []string) []string {
	out := make([]string, len(cells))
	for i, s := range cells {
		if !isMissing(s) {
			out[i] = s
		}
	}
	return out
}
