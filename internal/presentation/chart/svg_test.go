package chart

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/penwyp/go-sensor-monitor/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func series(values map[string][]model.Value) model.MergedSeries {
	fields := []string{"temp1", "temp2"}
	n := len(values["temp1"])
	s := model.MergedSeries{Fields: fields}
	for i := 0; i < n; i++ {
		r := model.Reading{Timestamp: base.Add(time.Duration(i) * time.Minute)}
		for _, f := range fields {
			r.Values = append(r.Values, values[f][i])
		}
		s.Readings = append(s.Readings, r)
	}
	return s
}

func temperature() model.ChartGroup {
	g, _ := model.FindChartGroup(model.DefaultChartGroups, "temperature")
	return g
}

func wellFormed(t *testing.T, data []byte) {
	t.Helper()
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			return
		}
		require.NoError(t, err, "invalid svg")
	}
}

func TestRenderPolylines(t *testing.T) {
	s := series(map[string][]model.Value{
		"temp1": {model.Known(20), model.Known(21), model.Known(22)},
		"temp2": {model.Known(18), model.Known(19), model.Known(18.5)},
	})

	out := Render(s, temperature(), Options{})
	wellFormed(t, out)

	svg := string(out)
	assert.Contains(t, svg, "Temperature (°C)")
	assert.Equal(t, 2, strings.Count(svg, "<polyline"))
	assert.Contains(t, svg, `data-field="temp1"`)
	assert.Contains(t, svg, `data-field="temp2"`)
	assert.NotContains(t, svg, `data-field="temp3"`, "missing fields are not plotted")
	assert.NotContains(t, svg, "No data available")
}

func TestRenderUnknownBreaksLine(t *testing.T) {
	s := series(map[string][]model.Value{
		"temp1": {model.Known(20), model.Known(21), model.Unknown, model.Known(23), model.Known(24), model.Unknown, model.Known(25)},
		"temp2": {model.Unknown, model.Unknown, model.Unknown, model.Unknown, model.Unknown, model.Unknown, model.Unknown},
	})

	out := string(Render(s, temperature(), Options{}))
	assert.Equal(t, 2, strings.Count(out, "<polyline"), "two multi point segments")
	assert.Equal(t, 1, strings.Count(out, "<circle"), "isolated point is a dot")
}

func TestRenderEmpty(t *testing.T) {
	t.Run("no rows", func(t *testing.T) {
		out := Render(model.MergedSeries{Fields: []string{"temp1"}}, temperature(), Options{})
		wellFormed(t, out)
		assert.Contains(t, string(out), "No data available")
		assert.NotContains(t, string(out), "<polyline")
	})

	t.Run("group fields absent", func(t *testing.T) {
		s := model.MergedSeries{
			Fields:   []string{"pressure"},
			Readings: []model.Reading{{Timestamp: base, Values: []model.Value{model.Known(1000)}}},
		}
		out := Render(s, temperature(), Options{})
		assert.Contains(t, string(out), "No data available")
	})
}

func TestRenderSinglePointAndFlatLine(t *testing.T) {
	s := series(map[string][]model.Value{
		"temp1": {model.Known(20)},
		"temp2": {model.Known(20)},
	})

	out := Render(s, temperature(), Options{Width: 400, Height: 200})
	wellFormed(t, out)
	assert.Contains(t, string(out), `width="400" height="200"`)
	assert.Equal(t, 2, strings.Count(string(out), "<circle"))
	assert.Contains(t, string(out), ">21.0<", "flat data is widened by one unit")
	assert.Contains(t, string(out), ">19.0<")
}

func TestRenderLocation(t *testing.T) {
	s := series(map[string][]model.Value{
		"temp1": {model.Known(20), model.Known(21)},
		"temp2": {model.Known(20), model.Known(21)},
	})
	out := string(Render(s, temperature(), Options{Location: time.FixedZone("UTC+2", 2*3600)}))
	assert.Contains(t, out, "03-01 02:00")
}

func TestPaddedRange(t *testing.T) {
	lo, hi := paddedRange(10, 20)
	assert.InDelta(t, 9.5, lo, 1e-9)
	assert.InDelta(t, 20.5, hi, 1e-9)

	lo, hi = paddedRange(5, 5)
	assert.Equal(t, 4.0, lo)
	assert.Equal(t, 6.0, hi)
}
