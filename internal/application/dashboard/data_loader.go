package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/penwyp/go-sensor-monitor/internal/core/model"
	"github.com/penwyp/go-sensor-monitor/internal/data/parser"
	"github.com/penwyp/go-sensor-monitor/internal/data/source"
	"github.com/penwyp/go-sensor-monitor/internal/util"
)

// LoadResult holds both parsed tables of one cycle. A failed source is
// represented by an empty table and a status carrying the error.
type LoadResult struct {
	Recent        model.RawTable
	Archive       model.RawTable
	RecentStatus  model.SourceStatus
	ArchiveStatus model.SourceStatus
}

// DataLoader fetches and parses the recent and archive sources
type DataLoader struct {
	recent        source.Source
	archive       source.Source
	recentParser  *parser.RowParser
	archiveParser *parser.RowParser
	timeout       time.Duration
}

// NewDataLoader creates a new DataLoader instance
func NewDataLoader(recent, archive source.Source, recentParser, archiveParser *parser.RowParser) *DataLoader {
	return &DataLoader{
		recent:        recent,
		archive:       archive,
		recentParser:  recentParser,
		archiveParser: archiveParser,
	}
}

// Load fetches both sources concurrently. It never fails; see LoadResult.
func (dl *DataLoader) Load(ctx context.Context) LoadResult {
	var (
		wg     sync.WaitGroup
		result LoadResult
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		result.Recent, result.RecentStatus = dl.loadOne(ctx, dl.recent, dl.recentParser)
	}()
	go func() {
		defer wg.Done()
		result.Archive, result.ArchiveStatus = dl.loadOne(ctx, dl.archive, dl.archiveParser)
	}()
	wg.Wait()

	return result
}

func (dl *DataLoader) loadOne(ctx context.Context, src source.Source, p *parser.RowParser) (model.RawTable, model.SourceStatus) {
	name := src.Name()
	ctx = util.WithSource(ctx, name)
	if dl.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, dl.timeout)
		defer cancel()
	}

	start := time.Now()
	status := model.SourceStatus{Name: name, FetchedAt: start}
	empty := model.EmptyTable(name, p.Fields())

	grid, err := src.Fetch(ctx)
	status.Duration = time.Since(start)
	if err != nil {
		util.LogCtx(ctx, util.LevelWarn, "fetch failed, using empty table", util.F("error", err))
		status.Error = err.Error()
		return empty, status
	}

	table, err := p.Parse(name, grid.Header, grid.Rows)
	if err != nil {
		util.LogCtx(ctx, util.LevelWarn, "parse failed, using empty table", util.F("error", err))
		status.Error = err.Error()
		return empty, status
	}

	status.Rows = table.Len()
	util.LogCtx(ctx, util.LevelDebug, "source loaded", util.F("rows", status.Rows), util.F("duration", status.Duration))
	return table, status
}
