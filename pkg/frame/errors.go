package frame

import (
	"errors"
	"fmt"
)

var (
	ErrNonNumericInput = errors.New("non-numeric input")
	ErrDuplicateColumn = errors.New("duplicate column name")
	ErrLengthMismatch  = errors.New("column length mismatch")
	ErrColumnNotFound  = errors.New("column not found")
	ErrUnsupportedKind = errors.New("unsupported column kind")
)

// ColumnError ties a failure to the column that caused it.
type ColumnError struct {
	Column string
	Kind   Kind
	Err    error
}

func (e *ColumnError) Error() string {
	if e.Kind != 0 {
		return fmt.Sprintf("column %q (%s): %v", e.Column, e.Kind, e.Err)
	}
	return fmt.Sprintf("column %q: %v", e.Column, e.Err)
}

func (e *ColumnError) Unwrap() error { return e.Err }
