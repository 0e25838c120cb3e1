package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrSchemaMismatch reports a data row whose cell count differs from the schema.
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrInvalidTimestamp reports a timestamp cell that matches no known layout.
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)

// RowError locates a parse failure. Row is 1-based and counts data rows only.
type RowError struct {
	Source string
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *RowError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%s row %d: %v", e.Source, e.Row, e.Err)
	}
	return fmt.Sprintf("%s row %d column %s (%q): %v", e.Source, e.Row, e.Column, e.Value, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
