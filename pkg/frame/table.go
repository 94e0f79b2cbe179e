package frame

import (
	"fmt"
	"slices"
)

// Table is an ordered set of uniquely named, equal-length columns.
// Every derived table (Select, Drop, Clone) is an independent deep copy;
// no method mutates its receiver.
type Table struct {
	cols  []*Column
	index map[string]int
	rows  int
}

// New builds a table from the given columns. It takes ownership of the
// columns; callers must not modify them afterwards.
func New(cols ...*Column) (*Table, error) {
	t := &Table{index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if _, ok := t.index[c.Name]; ok {
			return nil, &ColumnError{Column: c.Name, Err: ErrDuplicateColumn}
		}
		if _, ok := kindNames[c.Kind]; !ok {
			return nil, &ColumnError{Column: c.Name, Err: ErrUnsupportedKind}
		}
		if i == 0 {
			t.rows = c.Len()
		} else if c.Len() != t.rows {
			return nil, &ColumnError{
				Column: c.Name,
				Kind:   c.Kind,
				Err:    fmt.Errorf("%w: got %d rows, want %d", ErrLengthMismatch, c.Len(), t.rows),
			}
		}
		t.index[c.Name] = i
		t.cols = append(t.cols, c)
	}
	return t, nil
}

// MustNew is like New but panics on error. Meant for fixtures and tests.
func MustNew(cols ...*Column) *Table {
	t, err := New(cols...)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) NumRows() int { return t.rows }

func (t *Table) NumCols() int { return len(t.cols) }

// Names returns the column names in table order.
func (t *Table) Names() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// Column returns the named column. The returned column is shared with the
// table and must be treated as read-only.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.cols[i], true
}

// ColumnAt returns the i-th column (read-only, shared with the table).
func (t *Table) ColumnAt(i int) *Column { return t.cols[i] }

// Has reports whether the table contains the named column.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Select returns a copy holding the columns for which keep returns true,
// in their original order.
func (t *Table) Select(keep func(*Column) bool) *Table {
	out := &Table{index: map[string]int{}, rows: t.rows}
	for _, c := range t.cols {
		if keep(c) {
			out.index[c.Name] = len(out.cols)
			out.cols = append(out.cols, c.Clone())
		}
	}
	return out
}

// SelectNames returns a copy holding the named columns in table order.
func (t *Table) SelectNames(names ...string) (*Table, error) {
	for _, n := range names {
		if !t.Has(n) {
			return nil, &ColumnError{Column: n, Err: ErrColumnNotFound}
		}
	}
	return t.Select(func(c *Column) bool { return slices.Contains(names, c.Name) }), nil
}

// Drop returns a copy without the named columns.
func (t *Table) Drop(names ...string) (*Table, error) {
	for _, n := range names {
		if !t.Has(n) {
			return nil, &ColumnError{Column: n, Err: ErrColumnNotFound}
		}
	}
	return t.Select(func(c *Column) bool { return !slices.Contains(names, c.Name) }), nil
}

// Clone deep copies the table.
func (t *Table) Clone() *Table {
	return t.Select(func(*Column) bool { return true })
}

// Replace returns a copy in which the named column is swapped for the given
// replacement columns, spliced in at the same position.
func (t *Table) Replace(name string, with ...*Column) (*Table, error) {
	pos, ok := t.index[name]
	if !ok {
		return nil, &ColumnError{Column: name, Err: ErrColumnNotFound}
	}
	cols := make([]*Column, 0, len(t.cols)+len(with))
	for i, c := range t.cols {
		if i == pos {
			cols = append(cols, with...)
			continue
		}
		cols = append(cols, c.Clone())
	}
	return New(cols...)
}
