package model

import (
	"math"
	"strconv"
	"time"
)

// Value is a single numeric field of a reading. A zero Value is Unknown.
type Value struct {
	Float float64
	Valid bool
}

// Unknown marks a field that could not be parsed as a number.
var Unknown = Value{}

// Known wraps a parsed number. Non-finite numbers are reported as Unknown.
func Known(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Unknown
	}
	return Value{Float: f, Valid: true}
}

// IsUnknown reports whether the value is the unknown sentinel.
func (v Value) IsUnknown() bool {
	return !v.Valid
}

// String formats the value for plain text output; unknown values are empty.
func (v Value) String() string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatFloat(v.Float, 'f', -1, 64)
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v.Float, 'f', -1, 64), nil
}

func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Unknown
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*v = Known(f)
	return nil
}

// Reading is one timestamped sensor sample. Values follow the field order
// of the table that owns the reading.
type Reading struct {
	Timestamp time.Time `json:"timestamp"`
	Values    []Value   `json:"values"`
}

// RawTable holds the readings parsed from one source, in source order.
type RawTable struct {
	Source   string    `json:"source"`
	Fields   []string  `json:"fields"`
	Readings []Reading `json:"readings"`
}

// Len returns the number of readings in the table.
func (t RawTable) Len() int {
	return len(t.Readings)
}

// IsEmpty reports whether the table holds no readings.
func (t RawTable) IsEmpty() bool {
	return len(t.Readings) == 0
}

// MaxTimestamp returns the latest timestamp in the table. The second return
// value is false for an empty table.
func (t RawTable) MaxTimestamp() (time.Time, bool) {
	if len(t.Readings) == 0 {
		return time.Time{}, false
	}
	latest := t.Readings[0].Timestamp
	for _, r := range t.Readings[1:] {
		if r.Timestamp.After(latest) {
			latest = r.Timestamp
		}
	}
	return latest, true
}

// EmptyTable returns a table with no readings for the given source.
func EmptyTable(source string, fields []string) RawTable {
	return RawTable{Source: source, Fields: fields, Readings: []Reading{}}
}

// MergedSeries is the ordered union of an archive and a recent table.
type MergedSeries struct {
	Fields   []string  `json:"fields"`
	Readings []Reading `json:"readings"`

	// Boundary is the latest archive timestamp; zero when the archive was empty.
	Boundary      time.Time `json:"boundary"`
	ArchiveRows   int       `json:"archiveRows"`
	RecentRows    int       `json:"recentRows"`
	DroppedRecent int       `json:"droppedRecent"`
}

// Len returns the number of readings in the series.
func (s MergedSeries) Len() int {
	return len(s.Readings)
}

// IsEmpty reports the degenerate zero-row state.
func (s MergedSeries) IsEmpty() bool {
	return len(s.Readings) == 0
}

// FieldIndex returns the position of a field in Values, or -1.
func (s MergedSeries) FieldIndex(name string) int {
	for i, f := range s.Fields {
		if f == name {
			return i
		}
	}
	return -1
}

// Column returns the values of one field in series order.
func (s MergedSeries) Column(name string) ([]Value, bool) {
	idx := s.FieldIndex(name)
	if idx < 0 {
		return nil, false
	}
	out := make([]Value, len(s.Readings))
	for i, r := range s.Readings {
		if idx < len(r.Values) {
			out[i] = r.Values[idx]
		}
	}
	return out, true
}

// Timestamps returns the timestamp column.
func (s MergedSeries) Timestamps() []time.Time {
	out := make([]time.Time, len(s.Readings))
	for i, r := range s.Readings {
		out[i] = r.Timestamp
	}
	return out
}

// Latest returns the last reading of the series.
func (s MergedSeries) Latest() (Reading, bool) {
	if len(s.Readings) == 0 {
		return Reading{}, false
	}
	return s.Readings[len(s.Readings)-1], true
}

// Columns is the columnar view of a series handed to renderers.
type Columns struct {
	Timestamp []time.Time        `json:"timestamp"`
	Fields    []string           `json:"fields"`
	Values    map[string][]Value `json:"values"`
}

// Columns converts the series into its columnar form keyed by field name.
func (s MergedSeries) Columns() Columns {
	cols := Columns{
		Timestamp: s.Timestamps(),
		Fields:    append([]string(nil), s.Fields...),
		Values:    make(map[string][]Value, len(s.Fields)),
	}
	for _, f := range s.Fields {
		cols.Values[f], _ = s.Column(f)
	}
	return cols
}
