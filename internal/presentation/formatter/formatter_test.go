package formatter

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-sensor-monitor/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hhmm string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", "2024-03-01 "+hhmm)
	if err != nil {
		panic(err)
	}
	return t
}

func testSeries() model.MergedSeries {
	return model.MergedSeries{
		Fields: []string{"temp1", "humidity1", "pressure"},
		Readings: []model.Reading{
			{Timestamp: at("00:00"), Values: []model.Value{model.Known(20), model.Known(40), model.Known(1013.25)}},
			{Timestamp: at("01:00"), Values: []model.Value{model.Known(21.5), model.Unknown, model.Known(1012)}},
			{Timestamp: at("01:01"), Values: []model.Value{model.Known(22), model.Known(42), model.Unknown}},
		},
		Boundary:      at("01:00"),
		ArchiveRows:   2,
		RecentRows:    1,
		DroppedRecent: 1,
	}
}

func TestNew(t *testing.T) {
	for _, name := range Formats {
		f, err := New(name, Options{})
		require.NoError(t, err, name)
		assert.NotNil(t, f)
	}

	_, err := New("xml", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter(Options{}).Format(&buf, testSeries()))
	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	require.Len(t, lines, 8)
	assert.True(t, strings.HasPrefix(lines[0], "┌"))
	assert.Contains(t, lines[1], "Timestamp")
	assert.Contains(t, lines[1], "humidity1")
	assert.Contains(t, lines[3], "2024-03-01 00:00:00")
	assert.Contains(t, lines[3], "1013.25")
	assert.Contains(t, lines[4], "-", "unknown values print as a dash")
	assert.Equal(t, "3 of 3 rows (archive 2, recent 1, 1 recent rows already in archive)", lines[7])

	width := len([]rune(lines[0]))
	for _, l := range lines[:7] {
		assert.Equal(t, width, len([]rune(l)), "misaligned row %q", l)
	}
}

func TestTableFormatterLimitAndLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter(Options{Limit: 1, Location: loc}).Format(&buf, testSeries()))

	out := buf.String()
	assert.Contains(t, out, "2024-03-01 03:01:00")
	assert.NotContains(t, out, "2024-03-01 02:00:00")
	assert.Contains(t, out, "1 of 3 rows")
}

func TestTableFormatterEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter(Options{}).Format(&buf, model.MergedSeries{Fields: []string{"temp1"}}))
	assert.Equal(t, "No data available\n", buf.String())
}

func TestCSVFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVFormatter(Options{}).Format(&buf, testSeries()))

	want := "timestamp,temp1,humidity1,pressure\n" +
		"2024-03-01T00:00:00Z,20,40,1013.25\n" +
		"2024-03-01T01:00:00Z,21.5,,1012\n" +
		"2024-03-01T01:01:00Z,22,42,\n"
	assert.Equal(t, want, buf.String())
}

func TestCSVFormatterEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVFormatter(Options{}).Format(&buf, model.MergedSeries{Fields: []string{"temp1"}}))
	assert.Equal(t, "timestamp,temp1\n", buf.String())
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(Options{}).Format(&buf, testSeries()))

	assert.Contains(t, buf.String(), `"humidity1": [`)
	assert.Contains(t, buf.String(), "null")

	var got SeriesPayload
	require.NoError(t, sonic.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, []string{"temp1", "humidity1", "pressure"}, got.Fields)
	assert.Equal(t, 3, got.Rows)
	require.Len(t, got.Timestamp, 3)
	assert.True(t, got.Timestamp[0].Equal(at("00:00")))
	assert.True(t, got.Values["humidity1"][1].IsUnknown())
	assert.Equal(t, model.Known(1013.25), got.Values["pressure"][0])
	require.NotNil(t, got.Boundary)
	assert.True(t, got.Boundary.Equal(at("01:00")))
	assert.Equal(t, 1, got.DroppedRecent)
}

func TestSeriesPayloadEmpty(t *testing.T) {
	p := NewSeriesPayload(model.MergedSeries{Fields: []string{"temp1"}, Readings: []model.Reading{}}, Options{})
	assert.Nil(t, p.Boundary)
	assert.Equal(t, 0, p.Rows)
	assert.Empty(t, p.Values["temp1"])

	data, err := sonic.Marshal(p)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "boundary")
}

func TestSummaryFormatter(t *testing.T) {
	series := testSeries()
	series.Fields = append(series.Fields, "wind")
	for i := range series.Readings {
		series.Readings[i].Values = append(series.Readings[i].Values, model.Unknown)
	}

	var buf bytes.Buffer
	require.NoError(t, NewSummaryFormatter(Options{Limit: 1}).Format(&buf, series))
	out := buf.String()

	assert.Contains(t, out, "Time Range: 2024-03-01 00:00:00 to 2024-03-01 01:01:00")
	assert.Contains(t, out, "Rows: 3 (archive 2, recent 1)")
	assert.Contains(t, out, "Temperature (°C):")
	assert.Contains(t, out, "latest 22.00  min 20.00  max 22.00  mean 21.17  (3 readings, 0 unknown)")
	assert.Contains(t, out, "Humidity (%):")
	assert.Contains(t, out, "(2 readings, 1 unknown)")
	assert.NotContains(t, out, "Light")
	assert.Contains(t, out, "Other:")
	assert.Contains(t, out, "wind       no readings (3 unknown)")
}

func TestSummaryFormatterEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewSummaryFormatter(Options{}).Format(&buf, model.MergedSeries{}))
	assert.Contains(t, buf.String(), "No data to summarize")
}
