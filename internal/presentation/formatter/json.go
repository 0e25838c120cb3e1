package formatter

import (
	"io"
	"time"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-sensor-monitor/internal/core/model"
)

// SeriesPayload is the columnar JSON form of a series. Unknown values encode as null.
type SeriesPayload struct {
	Fields        []string                 `json:"fields"`
	Timestamp     []time.Time              `json:"timestamp"`
	Values        map[string][]model.Value `json:"values"`
	Boundary      *time.Time               `json:"boundary,omitempty"`
	Rows          int                      `json:"rows"`
	ArchiveRows   int                      `json:"archiveRows"`
	RecentRows    int                      `json:"recentRows"`
	DroppedRecent int                      `json:"droppedRecent"`
}

// NewSeriesPayload builds the columnar payload of the newest rows selected by opts.
func NewSeriesPayload(series model.MergedSeries, opts Options) SeriesPayload {
	loc := opts.location()
	tail := series
	tail.Readings = opts.tail(series)
	cols := tail.Columns()

	for i, ts := range cols.Timestamp {
		cols.Timestamp[i] = ts.In(loc)
	}

	p := SeriesPayload{
		Fields:        cols.Fields,
		Timestamp:     cols.Timestamp,
		Values:        cols.Values,
		Rows:          len(cols.Timestamp),
		ArchiveRows:   series.ArchiveRows,
		RecentRows:    series.RecentRows,
		DroppedRecent: series.DroppedRecent,
	}
	if !series.Boundary.IsZero() {
		b := series.Boundary.In(loc)
		p.Boundary = &b
	}
	return p
}

type JSONFormatter struct {
	opts Options
}

func NewJSONFormatter(opts Options) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

func (f *JSONFormatter) Format(w io.Writer, series model.MergedSeries) error {
	data, err := sonic.ConfigStd.MarshalIndent(NewSeriesPayload(series, f.opts), "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
