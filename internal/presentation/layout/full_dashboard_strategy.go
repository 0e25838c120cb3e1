package layout

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/penwyp/go-sensor-monitor/internal/core/model"
	"github.com/penwyp/go-sensor-monitor/internal/presentation/interaction"
	"github.com/penwyp/go-sensor-monitor/internal/util"
)

// tailRows is how many readings the full layout lists.
const tailRows = 5

// FullLayoutStrategy implements the full dashboard layout
type FullLayoutStrategy struct {
	BaseStrategy
}

func (s *FullLayoutStrategy) GetName() string {
	return "Full Dashboard"
}

func (s *FullLayoutStrategy) Render(w io.Writer, snap *model.Snapshot, param model.LayoutParam) {
	tp := util.GetTimeProvider()
	now := tp.Now()
	width := s.GetSizer().ClampWidth(param.Width)

	fmt.Fprintln(w, "╭"+strings.Repeat("─", width-2)+"╮")
	s.header(w, param, now, width)
	s.Separator(w, width)
	s.Line(w, s.SourceLine(snap.Recent, now), width)
	s.Line(w, s.SourceLine(snap.Archive, now), width)

	series := snap.Series
	if series.IsEmpty() {
		s.Separator(w, width)
		s.Line(w, "No data available this cycle", width)
		fmt.Fprintln(w, "╰"+strings.Repeat("─", width-2)+"╯")
		return
	}

	for _, g := range s.Groups(param) {
		fields := g.Available(series)
		if len(fields) == 0 {
			continue
		}
		s.Separator(w, width)
		s.groupSection(w, series, g, fields, width)
	}

	s.Separator(w, width)
	s.tailSection(w, series, param, tp, width)
	fmt.Fprintln(w, "╰"+strings.Repeat("─", width-2)+"╯")
}

func (s *FullLayoutStrategy) header(w io.Writer, param model.LayoutParam, now time.Time, width int) {
	left := "🌡  SENSOR MONITOR"
	if param.Paused {
		left += "  [PAUSED]"
	}
	right := now.Format(s.ClockLayout(param))
	gap := width - 4 - util.GetDisplayWidth(left) - util.GetDisplayWidth(right)
	if gap < 1 {
		gap = 1
	}
	s.Line(w, left+strings.Repeat(" ", gap)+right, width)
	if param.Status != "" {
		s.Line(w, "⚠ "+param.Status, width)
	}
}

func (s *FullLayoutStrategy) groupSection(w io.Writer, series model.MergedSeries, g model.ChartGroup, fields []string, width int) {
	title := strings.ToUpper(g.Title)
	if g.Unit != "" {
		title += " (" + g.Unit + ")"
	}
	s.Line(w, title, width)

	// name(10) latest(9) min(9) max(9) + spacing, remainder for the sparkline
	sparkWidth := width - 4 - 10 - 3*10 - 2
	if sparkWidth < 8 {
		sparkWidth = 8
	}
	for _, f := range fields {
		st, _ := series.Stats(f)
		values, _ := series.Column(f)
		row := util.PadRight(f, 10) +
			util.PadLeft(s.FormatUnit(st.Latest, g.Unit), 9) + " " +
			util.PadLeft("↓"+s.FormatUnit(st.Min, ""), 9) + " " +
			util.PadLeft("↑"+s.FormatUnit(st.Max, ""), 9) + "  " +
			util.Sparkline(values, sparkWidth)
		s.Line(w, row, width)
	}
}

func (s *FullLayoutStrategy) tailSection(w io.Writer, series model.MergedSeries, param model.LayoutParam, tp *util.TimeProvider, width int) {
	sorter := interaction.NewReadingSorter()
	label := "newest first"
	if param.Ascending {
		sorter.Toggle()
		label = "oldest first"
	}
	s.Line(w, fmt.Sprintf("LATEST READINGS (%s) · %d total, boundary %s",
		label, series.Len(), formatBoundary(series.Boundary, tp)), width)

	for _, r := range sorter.Tail(series.Readings, tailRows) {
		var b strings.Builder
		b.WriteString(tp.Format(r.Timestamp, "01-02 15:04"))
		for _, v := range r.Values {
			b.WriteString(" ")
			b.WriteString(util.PadLeft(util.FormatValue(v, 1, "-"), 6))
		}
		s.Line(w, b.String(), width)
	}
}

func formatBoundary(t time.Time, tp *util.TimeProvider) string {
	if t.IsZero() {
		return "none"
	}
	return tp.Format(t, "01-02 15:04")
}
