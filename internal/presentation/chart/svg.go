// Package chart draws sensor series as standalone SVG line charts.
package chart

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"time"

	"github.com/penwyp/go-sensor-monitor/internal/core/model"
)

const (
	marginLeft   = 60
	marginRight  = 20
	marginTop    = 40
	marginBottom = 50
	gridLines    = 5
	timeTicks    = 6
)

var palette = []string{"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd"}

// Options control chart size and axis labels.
type Options struct {
	Width    int
	Height   int
	Location *time.Location
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 800
	}
	if o.Height <= 0 {
		o.Height = 320
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	return o
}

// point is a plotted sample in data space.
type point struct {
	t time.Time
	v float64
}

// Render draws one chart group. Every field becomes a polyline; unknown
// values split the line so gaps stay visible. A series without known values
// renders an explicit no data notice.
func Render(series model.MergedSeries, group model.ChartGroup, opts Options) []byte {
	opts = opts.withDefaults()
	fields := group.Available(series)

	segments := make(map[string][][]point, len(fields))
	var (
		lo, hi         = math.Inf(1), math.Inf(-1)
		earliest, last time.Time
		found          bool
	)
	for _, f := range fields {
		values, _ := series.Column(f)
		var current []point
		for i, v := range values {
			if v.IsUnknown() {
				if len(current) > 0 {
					segments[f] = append(segments[f], current)
					current = nil
				}
				continue
			}
			ts := series.Readings[i].Timestamp
			current = append(current, point{t: ts, v: v.Float})
			lo, hi = math.Min(lo, v.Float), math.Max(hi, v.Float)
			if !found || ts.Before(earliest) {
				earliest = ts
			}
			if !found || ts.After(last) {
				last = ts
			}
			found = true
		}
		if len(current) > 0 {
			segments[f] = append(segments[f], current)
		}
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%d\" height=\"%d\" viewBox=\"0 0 %d %d\" font-family=\"sans-serif\" font-size=\"12\">\n",
		opts.Width, opts.Height, opts.Width, opts.Height)
	fmt.Fprintf(&buf, "<rect width=\"%d\" height=\"%d\" fill=\"white\"/>\n", opts.Width, opts.Height)

	title := group.Title
	if group.Unit != "" {
		title += " (" + group.Unit + ")"
	}
	fmt.Fprintf(&buf, "<text x=\"%d\" y=\"24\" font-size=\"16\" font-weight=\"bold\">%s</text>\n", marginLeft, html.EscapeString(title))

	if !found {
		fmt.Fprintf(&buf, "<text class=\"no-data\" x=\"%d\" y=\"%d\" text-anchor=\"middle\" fill=\"#888\">No data available</text>\n",
			opts.Width/2, opts.Height/2)
		buf.WriteString("</svg>\n")
		return buf.Bytes()
	}

	lo, hi = paddedRange(lo, hi)
	if !last.After(earliest) {
		earliest, last = earliest.Add(-30*time.Minute), last.Add(30*time.Minute)
	}

	plotW := float64(opts.Width - marginLeft - marginRight)
	plotH := float64(opts.Height - marginTop - marginBottom)
	span := last.Sub(earliest).Seconds()

	toX := func(t time.Time) float64 {
		return float64(marginLeft) + t.Sub(earliest).Seconds()/span*plotW
	}
	toY := func(v float64) float64 {
		return float64(marginTop) + (hi-v)/(hi-lo)*plotH
	}

	// Grid lines and axis labels
	buf.WriteString("<g stroke=\"#ddd\" stroke-width=\"1\">\n")
	for i := 0; i <= gridLines; i++ {
		y := float64(marginTop) + plotH*float64(i)/gridLines
		fmt.Fprintf(&buf, "<line x1=\"%d\" y1=\"%.1f\" x2=\"%d\" y2=\"%.1f\"/>\n", marginLeft, y, opts.Width-marginRight, y)
	}
	for i := 0; i <= timeTicks; i++ {
		x := float64(marginLeft) + plotW*float64(i)/timeTicks
		fmt.Fprintf(&buf, "<line x1=\"%.1f\" y1=\"%d\" x2=\"%.1f\" y2=\"%d\"/>\n", x, marginTop, x, opts.Height-marginBottom)
	}
	buf.WriteString("</g>\n")

	buf.WriteString("<g fill=\"#555\">\n")
	for i := 0; i <= gridLines; i++ {
		v := hi - (hi-lo)*float64(i)/gridLines
		y := float64(marginTop) + plotH*float64(i)/gridLines
		fmt.Fprintf(&buf, "<text x=\"%d\" y=\"%.1f\" text-anchor=\"end\">%s</text>\n", marginLeft-6, y+4, formatTick(v))
	}
	for i := 0; i <= timeTicks; i++ {
		t := earliest.Add(time.Duration(float64(last.Sub(earliest)) * float64(i) / timeTicks))
		x := float64(marginLeft) + plotW*float64(i)/timeTicks
		fmt.Fprintf(&buf, "<text x=\"%.1f\" y=\"%d\" text-anchor=\"middle\">%s</text>\n",
			x, opts.Height-marginBottom+16, t.In(opts.Location).Format("01-02 15:04"))
	}
	buf.WriteString("</g>\n")

	for i, f := range fields {
		color := palette[i%len(palette)]
		fmt.Fprintf(&buf, "<g class=\"series\" data-field=\"%s\" stroke=\"%s\" fill=\"%s\">\n", html.EscapeString(f), color, color)
		for _, seg := range segments[f] {
			if len(seg) == 1 {
				fmt.Fprintf(&buf, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"2\" stroke=\"none\"/>\n", toX(seg[0].t), toY(seg[0].v))
				continue
			}
			buf.WriteString("<polyline fill=\"none\" stroke-width=\"1.5\" points=\"")
			for j, p := range seg {
				if j > 0 {
					buf.WriteByte(' ')
				}
				fmt.Fprintf(&buf, "%.1f,%.1f", toX(p.t), toY(p.v))
			}
			buf.WriteString("\"/>\n")
		}
		buf.WriteString("</g>\n")

		// Legend entry
		lx := marginLeft + i*110
		ly := opts.Height - 12
		fmt.Fprintf(&buf, "<rect x=\"%d\" y=\"%d\" width=\"10\" height=\"10\" fill=\"%s\"/>\n", lx, ly-9, color)
		fmt.Fprintf(&buf, "<text x=\"%d\" y=\"%d\">%s</text>\n", lx+14, ly, html.EscapeString(f))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// paddedRange widens [lo, hi] by 5% so lines do not touch the frame.
func paddedRange(lo, hi float64) (float64, float64) {
	if hi-lo < 1e-9 {
		return lo - 1, hi + 1
	}
	pad := (hi - lo) * 0.05
	return lo - pad, hi + pad
}

func formatTick(v float64) string {
	if math.Abs(v) >= 100 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}
