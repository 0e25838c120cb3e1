package layout

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/penwyp/go-sensor-monitor/internal/core/model"
	"github.com/penwyp/go-sensor-monitor/internal/util"
)

// BaseStrategy provides common functionality for all layout strategies
type BaseStrategy struct {
}

// GetSizer returns the shared sizer instance
func (b *BaseStrategy) GetSizer() *Sizer {
	return sharedSizer
}

// ClockLayout returns the time layout for the configured format
func (b *BaseStrategy) ClockLayout(param model.LayoutParam) string {
	if param.TimeFormat == "12h" {
		return "3:04:05 PM"
	}
	return "15:04:05"
}

// Groups returns the chart groups to render
func (b *BaseStrategy) Groups(param model.LayoutParam) []model.ChartGroup {
	if len(param.Groups) > 0 {
		return param.Groups
	}
	return model.DefaultChartGroups
}

// Line writes a boxed line padded to width
func (b *BaseStrategy) Line(w io.Writer, content string, width int) {
	inner := width - 4
	fmt.Fprintf(w, "│ %s │\n", util.PadRight(content, inner))
}

// Separator writes a box separator
func (b *BaseStrategy) Separator(w io.Writer, width int) {
	fmt.Fprintln(w, "├"+strings.Repeat("─", width-2)+"┤")
}

// FormatUnit appends a unit to a formatted value
func (b *BaseStrategy) FormatUnit(v model.Value, unit string) string {
	s := util.FormatValue(v, precisionFor(unit), "-")
	if v.IsUnknown() || unit == "" {
		return s
	}
	return s + unit
}

// SourceLine summarises one source for the status area
func (b *BaseStrategy) SourceLine(st model.SourceStatus, now time.Time) string {
	if !st.OK() {
		return fmt.Sprintf("✗ %s: %s", st.Name, st.Error)
	}
	return fmt.Sprintf("✓ %s: %s rows, %s (%s)",
		st.Name, util.FormatNumber(st.Rows), util.FormatAge(st.FetchedAt, now), util.FormatDuration(st.Duration))
}

func precisionFor(unit string) int {
	switch unit {
	case "lx", "hPa":
		return 0
	default:
		return 1
	}
}
