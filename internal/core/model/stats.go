package model

import "time"

// FieldStats summarises one field over a series. Unknown values are skipped.
type FieldStats struct {
	Field    string    `json:"field"`
	Count    int       `json:"count"`
	Unknown  int       `json:"unknown"`
	Min      Value     `json:"min"`
	Max      Value     `json:"max"`
	Mean     Value     `json:"mean"`
	Latest   Value     `json:"latest"`
	LatestAt time.Time `json:"latestAt"`
}

// Stats computes FieldStats for name. The second return is false when the
// series has no such field.
func (s MergedSeries) Stats(name string) (FieldStats, bool) {
	values, ok := s.Column(name)
	if !ok {
		return FieldStats{}, false
	}

	st := FieldStats{Field: name}
	var sum float64
	for i, v := range values {
		if v.IsUnknown() {
			st.Unknown++
			continue
		}
		if st.Count == 0 || v.Float < st.Min.Float {
			st.Min = v
		}
		if st.Count == 0 || v.Float > st.Max.Float {
			st.Max = v
		}
		sum += v.Float
		st.Count++
		st.Latest = v
		st.LatestAt = s.Readings[i].Timestamp
	}
	if st.Count > 0 {
		st.Mean = Known(sum / float64(st.Count))
	}
	return st, true
}

// AllStats computes FieldStats for every field in series order.
func (s MergedSeries) AllStats() []FieldStats {
	out := make([]FieldStats, 0, len(s.Fields))
	for _, f := range s.Fields {
		st, _ := s.Stats(f)
		out = append(out, st)
	}
	return out
}
