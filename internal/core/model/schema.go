package model

import (
	"errors"
	"fmt"
	"strings"
)

// TimestampColumn is the canonical name of the time column.
const TimestampColumn = "timestamp"

// DefaultFields is the numeric field set logged by the sensor station.
var DefaultFields = []string{
	"temp1", "humidity1",
	"temp2", "humidity2",
	"light1", "light2",
	"UV", "temp3", "humidity3",
	"pressure",
}

// Schema describes the positional column layout of one source.
type Schema struct {
	// Columns are the names assigned to cells by position, before renames.
	Columns []string
	// Renames maps a source specific name to its canonical name,
	// e.g. Hour_Start -> timestamp.
	Renames map[string]string
	// Timestamp is the canonical name of the time column.
	Timestamp string
}

// DefaultSchema returns the layout of the recent worksheet.
func DefaultSchema() Schema {
	return NewSchema(TimestampColumn, DefaultFields)
}

// NewSchema builds a schema whose first column is timeColumn followed by
// the numeric fields. A time column named other than "timestamp" is renamed.
func NewSchema(timeColumn string, fields []string) Schema {
	if timeColumn == "" {
		timeColumn = TimestampColumn
	}
	cols := make([]string, 0, len(fields)+1)
	cols = append(cols, timeColumn)
	cols = append(cols, fields...)

	s := Schema{Columns: cols, Timestamp: TimestampColumn}
	if timeColumn != TimestampColumn {
		s.Renames = map[string]string{timeColumn: TimestampColumn}
	}
	return s
}

func (s Schema) timestampName() string {
	if s.Timestamp == "" {
		return TimestampColumn
	}
	return s.Timestamp
}

// Canonical returns the column names after renames are applied.
func (s Schema) Canonical() []string {
	out := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		if to, ok := s.Renames[c]; ok {
			out[i] = to
		} else {
			out[i] = c
		}
	}
	return out
}

// TimestampIndex returns the position of the timestamp column.
func (s Schema) TimestampIndex() int {
	name := s.timestampName()
	for i, c := range s.Canonical() {
		if c == name {
			return i
		}
	}
	return -1
}

// Fields returns the canonical numeric field names in column order.
func (s Schema) Fields() []string {
	name := s.timestampName()
	out := make([]string, 0, len(s.Columns))
	for _, c := range s.Canonical() {
		if c != name {
			out = append(out, c)
		}
	}
	return out
}

// Validate checks that exactly one timestamp column exists and that
// canonical names are unique and non-empty.
func (s Schema) Validate() error {
	if len(s.Columns) == 0 {
		return errors.New("schema has no columns")
	}
	name := s.timestampName()
	seen := make(map[string]bool, len(s.Columns))
	stamps := 0
	for i, c := range s.Canonical() {
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("schema column %d has an empty name", i+1)
		}
		if seen[c] {
			return fmt.Errorf("schema column %q is duplicated", c)
		}
		seen[c] = true
		if c == name {
			stamps++
		}
	}
	if stamps != 1 {
		return fmt.Errorf("schema must contain exactly one %q column, found %d", name, stamps)
	}
	return nil
}

// SameFields reports whether two field lists are identical in content and order.
func SameFields(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ParseFieldList splits a comma separated list of field names.
func ParseFieldList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
