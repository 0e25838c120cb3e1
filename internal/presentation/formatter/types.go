// Package formatter writes a merged series as a table, JSON, CSV or a summary report.
package formatter

import (
	"fmt"
	"io"
	"time"

	"github.com/penwyp/go-sensor-monitor/internal/core/model"
)

// Formatter writes one series in a specific output format.
type Formatter interface {
	Format(w io.Writer, series model.MergedSeries) error
}

// Options are shared by all formatters.
type Options struct {
	// Location timestamps are printed in; nil means UTC.
	Location *time.Location
	// Limit keeps only the newest rows; zero keeps all. Summary ignores it.
	Limit int
	// Groups order the summary report; nil means the default chart groups.
	Groups []model.ChartGroup
}

// Formats lists the accepted format names.
var Formats = []string{"table", "json", "csv", "summary"}

// New returns the formatter registered under name.
func New(name string, opts Options) (Formatter, error) {
	switch name {
	case "table":
		return NewTableFormatter(opts), nil
	case "json":
		return NewJSONFormatter(opts), nil
	case "csv":
		return NewCSVFormatter(opts), nil
	case "summary":
		return NewSummaryFormatter(opts), nil
	}
	return nil, fmt.Errorf("unknown output format %q (want one of %v)", name, Formats)
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.UTC
	}
	return o.Location
}

func (o Options) tail(series model.MergedSeries) []model.Reading {
	if o.Limit <= 0 || o.Limit >= len(series.Readings) {
		return series.Readings
	}
	return series.Readings[len(series.Readings)-o.Limit:]
}

func (o Options) groups() []model.ChartGroup {
	if len(o.Groups) > 0 {
		return o.Groups
	}
	return model.DefaultChartGroups
}
