// Package source fetches raw worksheet grids from published spreadsheets and
// local CSV exports.
package source

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNotFound is returned when a worksheet or file does not exist.
var ErrNotFound = errors.New("source not found")

// Grid is one worksheet: a header row followed by data rows of string cells.
type Grid struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// Empty reports whether the grid carries no data rows.
func (g Grid) Empty() bool {
	return len(g.Rows) == 0
}

// Source yields the current grid of one logical worksheet.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (Grid, error)
}

// ReadCSV decodes a CSV document into a Grid. Rows keep their own cell
// count so that misaligned rows surface at parse time.
func ReadCSV(r io.Reader) (Grid, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return Grid{}, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(records) == 0 {
		return Grid{}, nil
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	rows := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		if blankRecord(rec) {
			continue
		}
		rows = append(rows, rec)
	}
	return Grid{Header: header, Rows: rows}, nil
}

// ReadCSVBytes is ReadCSV over an in-memory document.
func ReadCSVBytes(data []byte) (Grid, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Grid{}, nil
	}
	return ReadCSV(bytes.NewReader(data))
}

// blankRecord matches the trailing all-empty rows spreadsheet exports pad with.
func blankRecord(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
