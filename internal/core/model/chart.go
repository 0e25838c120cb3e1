package model

// ChartGroup is a set of fields plotted on one chart.
type ChartGroup struct {
	Key    string   `json:"key"`
	Title  string   `json:"title"`
	Unit   string   `json:"unit,omitempty"`
	Fields []string `json:"fields"`
}

// DefaultChartGroups are the five dashboard charts.
var DefaultChartGroups = []ChartGroup{
	{Key: "temperature", Title: "Temperature", Unit: "°C", Fields: []string{"temp1", "temp2", "temp3"}},
	{Key: "humidity", Title: "Humidity", Unit: "%", Fields: []string{"humidity1", "humidity2", "humidity3"}},
	{Key: "light", Title: "Light", Unit: "lx", Fields: []string{"light1", "light2"}},
	{Key: "uv", Title: "UV", Fields: []string{"UV"}},
	{Key: "pressure", Title: "Pressure", Unit: "hPa", Fields: []string{"pressure"}},
}

// FindChartGroup looks up a chart group by key.
func FindChartGroup(groups []ChartGroup, key string) (ChartGroup, bool) {
	for _, g := range groups {
		if g.Key == key {
			return g, true
		}
	}
	return ChartGroup{}, false
}

// Available returns the group fields present in the series.
func (g ChartGroup) Available(s MergedSeries) []string {
	out := make([]string, 0, len(g.Fields))
	for _, f := range g.Fields {
		if s.FieldIndex(f) >= 0 {
			out = append(out, f)
		}
	}
	return out
}
