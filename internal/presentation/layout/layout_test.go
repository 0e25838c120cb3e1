package layout

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/penwyp/go-sensor-monitor/internal/core/model"
	"github.com/penwyp/go-sensor-monitor/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() *model.Snapshot {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &model.Snapshot{
		Series: model.MergedSeries{
			Fields: []string{"temp1", "humidity1", "pressure"},
			Readings: []model.Reading{
				{Timestamp: base, Values: []model.Value{model.Known(20), model.Known(40), model.Known(1012)}},
				{Timestamp: base.Add(time.Hour), Values: []model.Value{model.Known(22.5), model.Unknown, model.Known(1013)}},
			},
			Boundary:    base,
			ArchiveRows: 1,
			RecentRows:  1,
		},
		Recent:  model.SourceStatus{Name: "recent", Rows: 2, FetchedAt: base.Add(time.Hour)},
		Archive: model.SourceStatus{Name: "archive", Error: "unexpected status code 500"},
	}
}

func init() {
	_ = util.InitializeTimeProvider("UTC")
}

func TestGetLayoutStrategy(t *testing.T) {
	tests := []struct {
		name        string
		layoutStyle int
		want        string
	}{
		{name: "full_dashboard_style", layoutStyle: model.LayoutFull, want: "Full Dashboard"},
		{name: "minimal_dashboard_style", layoutStyle: model.LayoutMinimal, want: "Minimal Dashboard"},
		{name: "unknown_style_defaults_to_full", layoutStyle: 99, want: "Full Dashboard"},
		{name: "negative_style_defaults_to_full", layoutStyle: -1, want: "Full Dashboard"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strategy := GetLayoutStrategy(tt.layoutStyle)
			require.NotNil(t, strategy)
			assert.Equal(t, tt.want, strategy.GetName())
		})
	}
}

func TestFullLayoutRender(t *testing.T) {
	var buf bytes.Buffer
	(&FullLayoutStrategy{}).Render(&buf, testSnapshot(), model.LayoutParam{Width: 80, Paused: true})
	out := buf.String()

	assert.Contains(t, out, "SENSOR MONITOR")
	assert.Contains(t, out, "[PAUSED]")
	assert.Contains(t, out, "✓ recent: 2 rows")
	assert.Contains(t, out, "✗ archive: unexpected status code 500")
	assert.Contains(t, out, "TEMPERATURE (°C)")
	assert.Contains(t, out, "22.5°C")
	assert.Contains(t, out, "PRESSURE (hPa)")
	assert.NotContains(t, out, "LIGHT", "groups without fields are skipped")
	assert.Contains(t, out, "newest first")

	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		assert.Equal(t, 80, util.GetDisplayWidth(line), "line %q", line)
	}
}

func TestFullLayoutTailOrder(t *testing.T) {
	var buf bytes.Buffer
	(&FullLayoutStrategy{}).Render(&buf, testSnapshot(), model.LayoutParam{Width: 80, Ascending: true})
	out := buf.String()

	assert.Contains(t, out, "oldest first")
	first := strings.Index(out, "01-01 00:00")
	second := strings.Index(out, "01-01 01:00")
	require.True(t, first >= 0 && second >= 0)
	assert.Less(t, first, second)
}

func TestFullLayoutEmptySeries(t *testing.T) {
	snap := &model.Snapshot{
		Recent:  model.SourceStatus{Name: "recent"},
		Archive: model.SourceStatus{Name: "archive"},
	}
	var buf bytes.Buffer
	(&FullLayoutStrategy{}).Render(&buf, snap, model.LayoutParam{Width: 70})
	assert.Contains(t, buf.String(), "No data available this cycle")
}

func TestMinimalLayoutRender(t *testing.T) {
	var buf bytes.Buffer
	(&MinimalLayoutStrategy{}).Render(&buf, testSnapshot(), model.LayoutParam{TimeFormat: "12h"})
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "Sensors: temp1 22.5°C | humidity1 40.0% | pressure 1013hPa | 2 rows"))
	assert.Contains(t, out, "⚠ degraded")
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestMinimalLayoutEmpty(t *testing.T) {
	var buf bytes.Buffer
	(&MinimalLayoutStrategy{}).Render(&buf, &model.Snapshot{}, model.LayoutParam{})
	assert.Contains(t, buf.String(), "no data")
}

func TestSizer(t *testing.T) {
	s := Sizer{}
	assert.Equal(t, "ab  ", s.PadString("ab", 4, true))
	assert.Equal(t, "  ab", s.PadString("ab", 4, false))
	assert.Equal(t, "abcdef", s.PadString("abcdef", 4, true))

	assert.Equal(t, minWidth, s.ClampWidth(10))
	assert.Equal(t, maxWidth, s.ClampWidth(500))
	assert.Equal(t, 90, s.ClampWidth(90))
	assert.GreaterOrEqual(t, s.ClampWidth(0), minWidth)
}
