package layout

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-sensor-monitor/internal/core/model"
	"github.com/penwyp/go-sensor-monitor/internal/util"
)

// MinimalLayoutStrategy implements the single line dashboard layout
type MinimalLayoutStrategy struct {
	BaseStrategy
}

func (s *MinimalLayoutStrategy) GetName() string {
	return "Minimal Dashboard"
}

// Render prints the first available field of every group with its latest value.
func (s *MinimalLayoutStrategy) Render(w io.Writer, snap *model.Snapshot, param model.LayoutParam) {
	now := util.GetTimeProvider().Now()

	parts := []string{}
	if snap.Series.IsEmpty() {
		parts = append(parts, "no data")
	} else {
		for _, g := range s.Groups(param) {
			fields := g.Available(snap.Series)
			if len(fields) == 0 {
				continue
			}
			st, _ := snap.Series.Stats(fields[0])
			parts = append(parts, fmt.Sprintf("%s %s", fields[0], s.FormatUnit(st.Latest, g.Unit)))
		}
		parts = append(parts, fmt.Sprintf("%s rows", util.FormatNumber(snap.Series.Len())))
	}
	if snap.Degraded() {
		parts = append(parts, "⚠ degraded")
	}
	if param.Paused {
		parts = append(parts, "paused")
	}
	parts = append(parts, now.Format(s.ClockLayout(param)))

	fmt.Fprintln(w, "Sensors: "+strings.Join(parts, " | "))
}
