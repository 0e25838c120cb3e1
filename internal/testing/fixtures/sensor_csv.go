// Package fixtures writes worksheet CSV exports shaped like the ones the
// sensor station publishes.
package fixtures

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const timeLayout = "2006-01-02 15:04:05"

// SensorDataGenerator writes recent and archive exports into a directory.
type SensorDataGenerator struct {
	baseDir    string
	fields     []string
	timeColumn string
}

// NewSensorDataGenerator creates a generator for the given numeric fields.
// The archive time column is named archiveTimeColumn.
func NewSensorDataGenerator(baseDir string, fields []string, archiveTimeColumn string) *SensorDataGenerator {
	return &SensorDataGenerator{
		baseDir:    baseDir,
		fields:     append([]string(nil), fields...),
		timeColumn: archiveTimeColumn,
	}
}

// Value is the deterministic reading of field index i at t.
func Value(i int, t time.Time) float64 {
	minutes := float64(t.Hour()*60 + t.Minute())
	return math.Round((20+float64(i)*10+math.Sin(minutes/60))*100) / 100
}

// GenerateRecent writes one reading per minute in [start, start+count minutes).
func (g *SensorDataGenerator) GenerateRecent(name string, start time.Time, count int) (string, error) {
	rows := make([][]string, 0, count)
	for m := 0; m < count; m++ {
		rows = append(rows, g.row(start.Add(time.Duration(m)*time.Minute)))
	}
	return g.write(name, "timestamp", rows)
}

// GenerateArchive writes one hourly row per hour in [start, start+hours).
func (g *SensorDataGenerator) GenerateArchive(name string, start time.Time, hours int) (string, error) {
	rows := make([][]string, 0, hours)
	for h := 0; h < hours; h++ {
		rows = append(rows, g.row(start.Add(time.Duration(h)*time.Hour)))
	}
	return g.write(name, g.timeColumn, rows)
}

// GenerateRaw writes the given header and rows verbatim.
func (g *SensorDataGenerator) GenerateRaw(name string, header []string, rows [][]string) (string, error) {
	path := filepath.Join(g.baseDir, name)
	if err := os.MkdirAll(g.baseDir, 0755); err != nil {
		return "", err
	}
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return "", err
	}
	if err := w.WriteAll(rows); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return path, nil
}

func (g *SensorDataGenerator) row(t time.Time) []string {
	row := make([]string, 0, len(g.fields)+1)
	row = append(row, t.Format(timeLayout))
	for i := range g.fields {
		row = append(row, strconv.FormatFloat(Value(i, t), 'f', -1, 64))
	}
	return row
}

func (g *SensorDataGenerator) write(name, timeColumn string, rows [][]string) (string, error) {
	header := append([]string{timeColumn}, g.fields...)
	return g.GenerateRaw(name, header, rows)
}
