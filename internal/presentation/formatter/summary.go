package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-sensor-monitor/internal/core/model"
	"github.com/penwyp/go-sensor-monitor/internal/util"
)

// SummaryFormatter writes per field statistics grouped by chart group.
type SummaryFormatter struct {
	opts Options
}

// NewSummaryFormatter creates a new instance of SummaryFormatter.
func NewSummaryFormatter(opts Options) *SummaryFormatter {
	return &SummaryFormatter{opts: opts}
}

// Format outputs the summary report of the whole series.
func (f *SummaryFormatter) Format(w io.Writer, series model.MergedSeries) error {
	var b strings.Builder
	loc := f.opts.location()

	b.WriteString(strings.Repeat("=", 60) + "\n")
	b.WriteString("Sensor Data Summary Report\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	if series.IsEmpty() {
		b.WriteString("No data to summarize\n\n")
		b.WriteString(strings.Repeat("=", 60) + "\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	first := series.Readings[0].Timestamp.In(loc)
	last := series.Readings[series.Len()-1].Timestamp.In(loc)
	fmt.Fprintf(&b, "Time Range: %s to %s\n", first.Format(tableTimeLayout), last.Format(tableTimeLayout))
	fmt.Fprintf(&b, "Rows: %d (archive %d, recent %d)\n", series.Len(), series.ArchiveRows, series.RecentRows)
	if !series.Boundary.IsZero() {
		fmt.Fprintf(&b, "Archive Boundary: %s\n", series.Boundary.In(loc).Format(tableTimeLayout))
	}
	b.WriteString("\n")

	seen := make(map[string]bool, len(series.Fields))
	for _, g := range f.opts.groups() {
		fields := g.Available(series)
		if len(fields) == 0 {
			continue
		}
		title := g.Title
		if g.Unit != "" {
			title += " (" + g.Unit + ")"
		}
		b.WriteString(title + ":\n")
		for _, field := range fields {
			seen[field] = true
			f.writeField(&b, series, field)
		}
		b.WriteString("\n")
	}

	var other []string
	for _, field := range series.Fields {
		if !seen[field] {
			other = append(other, field)
		}
	}
	if len(other) > 0 {
		b.WriteString("Other:\n")
		for _, field := range other {
			f.writeField(&b, series, field)
		}
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat("=", 60) + "\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func (f *SummaryFormatter) writeField(b *strings.Builder, series model.MergedSeries, field string) {
	st, _ := series.Stats(field)
	if st.Count == 0 {
		fmt.Fprintf(b, "  %-10s no readings (%d unknown)\n", field, st.Unknown)
		return
	}
	fmt.Fprintf(b, "  %-10s latest %s  min %s  max %s  mean %s  (%d readings, %d unknown)\n",
		field,
		util.FormatValue(st.Latest, 2, unknownCell),
		util.FormatValue(st.Min, 2, unknownCell),
		util.FormatValue(st.Max, 2, unknownCell),
		util.FormatValue(st.Mean, 2, unknownCell),
		st.Count, st.Unknown)
}
