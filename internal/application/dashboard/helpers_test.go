package dashboard

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/penwyp/go-sensor-monitor/internal/core/model"
	"github.com/penwyp/go-sensor-monitor/internal/data/cache"
	"github.com/penwyp/go-sensor-monitor/internal/data/parser"
	"github.com/penwyp/go-sensor-monitor/internal/data/source"
	"github.com/penwyp/go-sensor-monitor/internal/presentation/interaction"
)

var testFields = []string{"temp1", "humidity1"}

type fakeSource struct {
	name  string
	grid  source.Grid
	err   error
	block bool
	calls atomic.Int32
}

func (s *fakeSource) Name() string { return s.name }

func (s *fakeSource) Fetch(ctx context.Context) (source.Grid, error) {
	s.calls.Add(1)
	if s.block {
		<-ctx.Done()
		return source.Grid{}, ctx.Err()
	}
	return s.grid, s.err
}

func grid(timeColumn string, rows ...[]string) source.Grid {
	return source.Grid{Header: append([]string{timeColumn}, testFields...), Rows: rows}
}

func newTestParsers(t interface{ Fatalf(string, ...any) }) (*parser.RowParser, *parser.RowParser) {
	recent, err := parser.NewRowParser(model.NewSchema(model.TimestampColumn, testFields), time.UTC)
	if err != nil {
		t.Fatalf("recent parser: %v", err)
	}
	archive, err := parser.NewRowParser(model.NewSchema("Hour_Start", testFields), time.UTC)
	if err != nil {
		t.Fatalf("archive parser: %v", err)
	}
	return recent, archive
}

// stubLoader returns a fixed result, optionally waiting on release first.
type stubLoader struct {
	result  LoadResult
	release chan struct{}
	calls   atomic.Int32
}

func (l *stubLoader) Load(ctx context.Context) LoadResult {
	l.calls.Add(1)
	if l.release != nil {
		select {
		case <-l.release:
		case <-ctx.Done():
		}
	}
	return l.result
}

// stubRefresher hands out numbered snapshots or a fixed error.
type stubRefresher struct {
	mu     sync.Mutex
	err    error
	calls  int
	forced int
}

func (r *stubRefresher) Refresh(ctx context.Context) (*model.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if cache.Bypassed(ctx) {
		r.forced++
	}
	if r.err != nil {
		return nil, r.err
	}
	return &model.Snapshot{Seq: uint64(r.calls), RefreshedAt: time.Now()}, nil
}

func (r *stubRefresher) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func (r *stubRefresher) Forced() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.forced
}

type fakeDisplay struct {
	mu       sync.Mutex
	entered  bool
	exited   bool
	clears   int
	renders  int
	lastSnap *model.Snapshot
	last     model.InteractionState
}

func (d *fakeDisplay) EnterAlternateScreen() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entered = true
}

func (d *fakeDisplay) ExitAlternateScreen() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.exited = true
}

func (d *fakeDisplay) ClearScreen() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clears++
}

func (d *fakeDisplay) RenderWithState(snap *model.Snapshot, state model.InteractionState) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.renders++
	d.lastSnap = snap
	d.last = state
}

func (d *fakeDisplay) Renders() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.renders
}

type fakeKeyboard struct {
	events chan interaction.KeyEvent
}

func newFakeKeyboard() *fakeKeyboard {
	return &fakeKeyboard{events: make(chan interaction.KeyEvent, 8)}
}

func (k *fakeKeyboard) Events() <-chan interaction.KeyEvent { return k.events }
func (k *fakeKeyboard) Close() error                        { return nil }

type fakeMonitor struct {
	events chan source.FileEvent
}

func (m *fakeMonitor) Events() <-chan source.FileEvent { return m.events }
func (m *fakeMonitor) Close() error                    { return nil }
