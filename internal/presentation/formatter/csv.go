package formatter

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/penwyp/go-sensor-monitor/internal/core/model"
)

type CSVFormatter struct {
	opts Options
}

func NewCSVFormatter(opts Options) *CSVFormatter {
	return &CSVFormatter{opts: opts}
}

// Format writes a header row and one record per reading. Unknown values are empty cells.
func (f *CSVFormatter) Format(w io.Writer, series model.MergedSeries) error {
	cw := csv.NewWriter(w)

	header := append([]string{model.TimestampColumn}, series.Fields...)
	if err := cw.Write(header); err != nil {
		return err
	}

	loc := f.opts.location()
	for _, r := range f.opts.tail(series) {
		record := make([]string, 0, len(header))
		record = append(record, r.Timestamp.In(loc).Format(time.RFC3339))
		for i := range series.Fields {
			var cell string
			if i < len(r.Values) {
				cell = r.Values[i].String()
			}
			record = append(record, cell)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
