package web

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-sensor-monitor/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSnapshots struct {
	snap *model.Snapshot
}

func (s staticSnapshots) Latest() (*model.Snapshot, bool) {
	return s.snap, s.snap != nil
}

var base = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func testSnapshot() *model.Snapshot {
	return &model.Snapshot{
		Seq: 7,
		Series: model.MergedSeries{
			Fields: []string{"temp1", "humidity1"},
			Readings: []model.Reading{
				{Timestamp: base, Values: []model.Value{model.Known(20), model.Known(40)}},
				{Timestamp: base.Add(time.Minute), Values: []model.Value{model.Known(21), model.Unknown}},
				{Timestamp: base.Add(2 * time.Minute), Values: []model.Value{model.Known(22), model.Known(42)}},
			},
			Boundary:    base,
			ArchiveRows: 1,
			RecentRows:  2,
		},
		Recent:      model.SourceStatus{Name: "recent", Rows: 2, FetchedAt: base},
		Archive:     model.SourceStatus{Name: "archive", Error: "worksheet \"Hourly\" not found", FetchedAt: base},
		RefreshedAt: base.Add(3 * time.Minute),
	}
}

func serve(t *testing.T, snap *model.Snapshot, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	srv := NewServer(Config{}, staticSnapshots{snap: snap})
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestIndex(t *testing.T) {
	rec := serve(t, testSnapshot(), http.MethodGet, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, body, `<meta http-equiv="refresh" content="60">`)
	for _, g := range model.DefaultChartGroups {
		assert.Contains(t, body, `/charts/`+g.Key+`.svg`)
	}
	assert.Contains(t, body, "3 rows")
	assert.Contains(t, body, "Some sources failed")
	assert.Contains(t, body, "worksheet &#34;Hourly&#34; not found", "error text is escaped")
}

func TestIndexStates(t *testing.T) {
	t.Run("before first refresh", func(t *testing.T) {
		rec := serve(t, nil, http.MethodGet, "/")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Waiting for the first refresh")
	})

	t.Run("empty series", func(t *testing.T) {
		snap := testSnapshot()
		snap.Series.Readings = nil
		rec := serve(t, snap, http.MethodGet, "/")
		assert.Contains(t, rec.Body.String(), "No data available this cycle")
		assert.NotContains(t, rec.Body.String(), "/charts/")
	})

	t.Run("unknown path", func(t *testing.T) {
		rec := serve(t, testSnapshot(), http.MethodGet, "/nope")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestChart(t *testing.T) {
	rec := serve(t, testSnapshot(), http.MethodGet, "/charts/temperature.svg")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<polyline")

	rec = serve(t, testSnapshot(), http.MethodGet, "/charts/humidity.svg")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<circle", "the humidity gap isolates points")

	rec = serve(t, nil, http.MethodGet, "/charts/pressure.svg")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No data available")

	assert.Equal(t, http.StatusNotFound, serve(t, testSnapshot(), http.MethodGet, "/charts/wind.svg").Code)
	assert.Equal(t, http.StatusNotFound, serve(t, testSnapshot(), http.MethodGet, "/charts/temperature.png").Code)
}

func TestSeriesAPI(t *testing.T) {
	rec := serve(t, testSnapshot(), http.MethodGet, "/api/series")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got struct {
		Seq      uint64               `json:"seq"`
		Degraded bool                 `json:"degraded"`
		Sources  []model.SourceStatus `json:"sources"`
		Series   struct {
			Fields    []string                 `json:"fields"`
			Timestamp []time.Time              `json:"timestamp"`
			Values    map[string][]model.Value `json:"values"`
			Rows      int                      `json:"rows"`
		} `json:"series"`
	}
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, uint64(7), got.Seq)
	assert.True(t, got.Degraded)
	require.Len(t, got.Sources, 2)
	assert.Equal(t, "recent", got.Sources[0].Name)
	assert.Equal(t, 3, got.Series.Rows)
	assert.True(t, got.Series.Values["humidity1"][1].IsUnknown())
	assert.Contains(t, rec.Body.String(), "null")

	rec = serve(t, testSnapshot(), http.MethodGet, "/api/series?limit=1")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 1, got.Series.Rows)
	assert.Equal(t, []model.Value{model.Known(22)}, got.Series.Values["temp1"])
}

func TestSeriesAPIErrors(t *testing.T) {
	assert.Equal(t, http.StatusServiceUnavailable, serve(t, nil, http.MethodGet, "/api/series").Code)
	assert.Equal(t, http.StatusBadRequest, serve(t, testSnapshot(), http.MethodGet, "/api/series?limit=x").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, serve(t, testSnapshot(), http.MethodPost, "/api/series").Code)
}

func TestSeriesAPICORS(t *testing.T) {
	srv := NewServer(Config{}, staticSnapshots{snap: testSnapshot()})
	req := httptest.NewRequest(http.MethodGet, "/api/series", nil)
	req.Header.Set("Origin", "http://example.com")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHealth(t *testing.T) {
	rec := serve(t, nil, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"starting"`)

	rec = serve(t, testSnapshot(), http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.Contains(t, rec.Body.String(), `"seq":7`)
}

func TestListenAndServeShutsDown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	srv := NewServer(Config{Addr: addr}, staticSnapshots{snap: testSnapshot()})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
