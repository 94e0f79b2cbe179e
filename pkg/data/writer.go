package data

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/HisDaoMaterials/data-engine/pkg/frame"
)

// SaveCSV writes t to a new file at path.
func SaveCSV(path string, t *frame.Table) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(file)
	if err := WriteCSV(w, t); err != nil {
		file.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WriteCSV writes a header row and one record per table row. Missing values
// are written as empty cells.
func WriteCSV(w io.Writer, t *frame.Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Names()); err != nil {
		return err
	}

	record := make([]string, t.NumCols())
	for i := 0; i < t.NumRows(); i++ {
		for j := 0; j < t.NumCols(); j++ {
			record[j] = formatCell(t.ColumnAt(j), i)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatCell(c *frame.Column, i int) string {
	if c.IsMissing(i) {
		return ""
	}
	switch {
	case c.Kind.IsNumeric():
		return strconv.FormatFloat(c.Floats[i], 'f', -1, 64)
	case c.Kind.IsCategorical():
		return c.Strings[i]
	case c.Kind == frame.Bool:
		return strconv.FormatBool(c.Bools[i])
	case c.Kind == frame.Datetime:
		return c.Times[i].Format(time.RFC3339)
	}
	return ""
}
