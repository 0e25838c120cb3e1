package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-sensor-monitor/internal/core/model"
	"github.com/penwyp/go-sensor-monitor/internal/util"
)

const (
	tableTimeLayout = "2006-01-02 15:04:05"
	unknownCell     = "-"
)

type TableFormatter struct {
	opts Options
}

func NewTableFormatter(opts Options) *TableFormatter {
	return &TableFormatter{opts: opts}
}

func (f *TableFormatter) Format(w io.Writer, series model.MergedSeries) error {
	if series.IsEmpty() {
		_, err := fmt.Fprintln(w, "No data available")
		return err
	}

	headers := append([]string{"Timestamp"}, series.Fields...)
	rows := f.cells(series)
	widths := f.calculateColumnWidths(headers, rows)

	var b strings.Builder
	f.printBorder(&b, widths, "top")
	f.printRow(&b, headers, widths)
	f.printBorder(&b, widths, "middle")
	for _, row := range rows {
		f.printRow(&b, row, widths)
	}
	f.printBorder(&b, widths, "bottom")
	fmt.Fprintf(&b, "%d of %d rows (archive %d, recent %d, %d recent rows already in archive)\n",
		len(rows), series.Len(), series.ArchiveRows, series.RecentRows, series.DroppedRecent)

	_, err := io.WriteString(w, b.String())
	return err
}

func (f *TableFormatter) cells(series model.MergedSeries) [][]string {
	loc := f.opts.location()
	readings := f.opts.tail(series)

	rows := make([][]string, 0, len(readings))
	for _, r := range readings {
		row := make([]string, 0, len(series.Fields)+1)
		row = append(row, r.Timestamp.In(loc).Format(tableTimeLayout))
		for i := range series.Fields {
			cell := unknownCell
			if i < len(r.Values) && !r.Values[i].IsUnknown() {
				cell = r.Values[i].String()
			}
			row = append(row, cell)
		}
		rows = append(rows, row)
	}
	return rows
}

// calculateColumnWidths determines the width of each column based on content
func (f *TableFormatter) calculateColumnWidths(headers []string, rows [][]string) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = util.GetDisplayWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := util.GetDisplayWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

// printBorder prints table borders (top, middle, bottom)
func (f *TableFormatter) printBorder(b *strings.Builder, widths []int, borderType string) {
	var left, middle, right string
	switch borderType {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	default:
		left, middle, right = "└", "┴", "┘"
	}

	b.WriteString(left)
	for i, width := range widths {
		b.WriteString(strings.Repeat("─", width+2))
		if i < len(widths)-1 {
			b.WriteString(middle)
		}
	}
	b.WriteString(right + "\n")
}

// printRow prints a row with the timestamp left-aligned and values right-aligned
func (f *TableFormatter) printRow(b *strings.Builder, values []string, widths []int) {
	b.WriteString("│")
	for i, value := range values {
		if i == 0 {
			b.WriteString(" " + util.PadRight(value, widths[i]) + " │")
		} else {
			b.WriteString(" " + util.PadLeft(value, widths[i]) + " │")
		}
	}
	b.WriteString("\n")
}
