// Package parser turns worksheet grids of string cells into typed tables.
package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/penwyp/go-sensor-monitor/internal/core/model"
	"github.com/penwyp/go-sensor-monitor/internal/util"
)

// RowParser assigns cells to schema columns by position.
type RowParser struct {
	schema    model.Schema
	canonical []string
	tsIndex   int
	fields    []string
	location  *time.Location

	skipInvalid bool
}

// Option tweaks a RowParser.
type Option func(*RowParser)

// WithSkipInvalidRows makes Parse drop failing rows instead of aborting.
// Dropped rows are logged at warn level.
func WithSkipInvalidRows() Option {
	return func(p *RowParser) {
		p.skipInvalid = true
	}
}

// NewRowParser validates schema and returns a parser reading zone-less
// timestamps in loc.
func NewRowParser(schema model.Schema, loc *time.Location, opts ...Option) (*RowParser, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	if loc == nil {
		loc = util.GetTimeProvider().Location()
	}

	p := &RowParser{
		schema:    schema,
		canonical: schema.Canonical(),
		tsIndex:   schema.TimestampIndex(),
		fields:    schema.Fields(),
		location:  loc,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Fields returns the numeric field names produced by this parser.
func (p *RowParser) Fields() []string {
	return append([]string(nil), p.fields...)
}

// Parse converts data rows into a RawTable tagged with source. Row order is preserved.
func (p *RowParser) Parse(source string, header []string, rows [][]string) (model.RawTable, error) {
	table := model.EmptyTable(source, p.Fields())
	if len(rows) == 0 {
		return table, nil
	}

	p.checkHeader(source, header)

	table.Readings = make([]model.Reading, 0, len(rows))
	skipped := 0
	for i, row := range rows {
		reading, err := p.ParseRow(row)
		if err != nil {
			if rowErr, ok := err.(*RowError); ok {
				rowErr.Source = source
				rowErr.Row = i + 1
			}
			if !p.skipInvalid {
				return model.RawTable{}, err
			}
			util.LogWith(util.LevelDebug, "skipping invalid row", util.F("source", source), util.F("error", err))
			skipped++
			continue
		}
		table.Readings = append(table.Readings, reading)
	}

	util.LogDebugf("Parsed %s: %d rows, %d skipped", source, len(table.Readings), skipped)
	return table, nil
}

// ParseRow converts a single data row. Errors are *RowError without position.
func (p *RowParser) ParseRow(row []string) (model.Reading, error) {
	if len(row) != len(p.canonical) {
		return model.Reading{}, &RowError{
			Err: fmt.Errorf("%w: got %d cells, want %d", ErrSchemaMismatch, len(row), len(p.canonical)),
		}
	}

	reading := model.Reading{Values: make([]model.Value, 0, len(p.fields))}
	for i, cell := range row {
		if i == p.tsIndex {
			ts, ok := ParseTimestamp(cell, p.location)
			if !ok {
				return model.Reading{}, &RowError{Column: p.canonical[i], Value: cell, Err: ErrInvalidTimestamp}
			}
			reading.Timestamp = ts
			continue
		}
		reading.Values = append(reading.Values, parseNumber(cell))
	}
	return reading, nil
}

// checkHeader compares the header text with the configured column names.
// Assignment is positional so a difference is only reported.
func (p *RowParser) checkHeader(source string, header []string) {
	if len(header) == 0 {
		return
	}
	if len(header) != len(p.schema.Columns) {
		util.LogDebugf("Header of %s has %d columns, schema has %d", source, len(header), len(p.schema.Columns))
		return
	}
	for i, h := range header {
		if strings.TrimSpace(h) != p.schema.Columns[i] {
			util.LogDebugf("Header of %s differs at column %d: %q, schema says %q", source, i+1, h, p.schema.Columns[i])
		}
	}
}

func parseNumber(cell string) model.Value {
	s := strings.TrimSpace(cell)
	if s == "" {
		return model.Unknown
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return model.Unknown
	}
	return model.Known(f)
}
