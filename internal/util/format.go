package util

import (
	"fmt"
	"strconv"
	"time"

	"github.com/penwyp/go-sensor-monitor/internal/core/model"
)

// FormatNumber abbreviates row and byte counts.
func FormatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	} else if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	} else {
		return fmt.Sprintf("%.1fM", float64(n)/1000000)
	}
}

func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// FormatAge describes how long ago t happened relative to now.
func FormatAge(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := now.Sub(t)
	if d < 0 {
		d = 0
	}
	return FormatDuration(d.Truncate(time.Second)) + " ago"
}

// FormatValue prints a reading with a fixed precision; unknown values use placeholder.
func FormatValue(v model.Value, precision int, placeholder string) string {
	if v.IsUnknown() {
		return placeholder
	}
	return strconv.FormatFloat(v.Float, 'f', precision, 64)
}
