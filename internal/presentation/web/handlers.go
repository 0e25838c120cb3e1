package web

import (
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-sensor-monitor/internal/core/model"
	"github.com/penwyp/go-sensor-monitor/internal/presentation/chart"
	"github.com/penwyp/go-sensor-monitor/internal/presentation/formatter"
	"github.com/penwyp/go-sensor-monitor/internal/util"
)

// seriesResponse is the body of GET /api/series.
type seriesResponse struct {
	Seq         uint64                  `json:"seq"`
	RefreshedAt string                  `json:"refreshedAt"`
	Degraded    bool                    `json:"degraded"`
	Sources     []model.SourceStatus    `json:"sources"`
	Series      formatter.SeriesPayload `json:"series"`
}

type healthResponse struct {
	Status   string `json:"status"`
	Seq      uint64 `json:"seq,omitempty"`
	Degraded bool   `json:"degraded,omitempty"`
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snaps.Latest()
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no data loaded yet"})
		return
	}

	opts := formatter.Options{Location: s.cfg.Location}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a non-negative integer"})
			return
		}
		opts.Limit = limit
	}

	writeJSON(w, http.StatusOK, seriesResponse{
		Seq:         snap.Seq,
		RefreshedAt: snap.RefreshedAt.In(s.cfg.Location).Format("2006-01-02T15:04:05Z07:00"),
		Degraded:    snap.Degraded(),
		Sources:     snap.Statuses(),
		Series:      formatter.NewSeriesPayload(snap.Series, opts),
	})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	key, ok := strings.CutSuffix(r.PathValue("file"), ".svg")
	if !ok {
		http.NotFound(w, r)
		return
	}
	group, ok := model.FindChartGroup(s.cfg.Groups, key)
	if !ok {
		http.NotFound(w, r)
		return
	}

	var series model.MergedSeries
	if snap, ok := s.snaps.Latest(); ok {
		series = snap.Series
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(chart.Render(series, group, chart.Options{
		Width:    s.cfg.ChartWidth,
		Height:   s.cfg.ChartHeight,
		Location: s.cfg.Location,
	}))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snaps.Latest()
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "starting"})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Seq: snap.Seq, Degraded: snap.Degraded()})
}

type sourceView struct {
	Name  string
	Rows  int
	Error string
	Age   string
}

type indexView struct {
	Refresh     int
	Loaded      bool
	Empty       bool
	Degraded    bool
	RefreshedAt string
	Rows        int
	Sources     []sourceView
	Groups      []model.ChartGroup
	Seq         uint64
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	view := indexView{Refresh: s.cfg.RefreshSeconds, Groups: s.cfg.Groups}

	if snap, ok := s.snaps.Latest(); ok {
		now := util.GetTimeProvider().Now()
		layout := "2006-01-02 15:04:05"
		if s.cfg.TimeFormat == "12h" {
			layout = "2006-01-02 03:04:05 PM"
		}
		view.Loaded = true
		view.Seq = snap.Seq
		view.Empty = snap.Series.IsEmpty()
		view.Degraded = snap.Degraded()
		view.RefreshedAt = snap.RefreshedAt.In(s.cfg.Location).Format(layout)
		view.Rows = snap.Series.Len()
		for _, st := range snap.Statuses() {
			view.Sources = append(view.Sources, sourceView{
				Name:  st.Name,
				Rows:  st.Rows,
				Error: st.Error,
				Age:   util.FormatAge(st.FetchedAt, now),
			})
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, view); err != nil {
		util.LogErrorf("Failed to render index page: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := sonic.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<meta http-equiv="refresh" content="{{.Refresh}}">
<title>Sensor Dashboard</title>
<style>
body { font-family: sans-serif; margin: 1.5rem; color: #222; }
.status { color: #555; }
.warn { color: #b35900; }
.charts img { display: block; max-width: 100%; margin-bottom: 1rem; }
</style>
</head>
<body>
<h1>Sensor Dashboard</h1>
{{- if not .Loaded}}
<p class="status">Waiting for the first refresh...</p>
{{- else}}
<p class="status">Refreshed {{.RefreshedAt}} &middot; {{.Rows}} rows &middot; cycle {{.Seq}}</p>
<ul class="status">
{{- range .Sources}}
<li>{{.Name}}: {{if .Error}}<span class="warn">failed: {{.Error}}</span>{{else}}{{.Rows}} rows{{end}} ({{.Age}})</li>
{{- end}}
</ul>
{{- if .Degraded}}
<p class="warn">Some sources failed this cycle; charts show the remaining data.</p>
{{- end}}
{{- if .Empty}}
<p class="no-data">No data available this cycle.</p>
{{- else}}
<div class="charts">
{{- range .Groups}}
<img src="/charts/{{.Key}}.svg" alt="{{.Title}} chart">
{{- end}}
</div>
{{- end}}
{{- end}}
</body>
</html>
`))
