package dashboard

import (
	"fmt"
	"net/http"
	"time"

	"github.com/penwyp/go-sensor-monitor/internal/core/constants"
	"github.com/penwyp/go-sensor-monitor/internal/data/cache"
	"github.com/penwyp/go-sensor-monitor/internal/data/parser"
	"github.com/penwyp/go-sensor-monitor/internal/data/source"
	"github.com/penwyp/go-sensor-monitor/internal/util"
)

// Sources bundles what a refresh cycle reads from.
type Sources struct {
	Recent  source.Source
	Archive source.Source
	Cache   *cache.Tiered
}

// Close releases the cache store.
func (s *Sources) Close() error {
	if s.Cache == nil {
		return nil
	}
	return s.Cache.Close()
}

// OpenSources builds the recent and archive sources for cfg, wrapping them
// with the fetch cache unless caching is disabled.
func OpenSources(cfg *Config, client *http.Client) (*Sources, error) {
	if client == nil {
		client = &http.Client{Timeout: cfg.FetchTimeout}
	}

	recent := newSource(constants.SourceRecent, cfg.RecentFile, cfg, cfg.RecentWorksheet, client)
	archive := newSource(constants.SourceArchive, cfg.ArchiveFile, cfg, cfg.ArchiveWorksheet, client)

	out := &Sources{Recent: recent, Archive: archive}
	if cfg.NoCache {
		return out, nil
	}

	// Local files are re-read every cycle; only remote sheets go through the disk tier.
	var disk *cache.DiskCache
	if cfg.RecentFile == "" || cfg.ArchiveFile == "" {
		d, err := cache.OpenDiskCache(cache.DiskOptions{Dir: cfg.CacheDir})
		if err != nil {
			util.LogWarnf("Disk cache unavailable, using memory only: %v", err)
		} else {
			disk = d
		}
	}
	out.Cache = cache.NewTiered(cache.NewMemoryCache(cache.DefaultMemoryCapacity), disk)

	if cfg.RecentFile == "" {
		out.Recent = cache.NewCachedSource(recent, out.Cache, cfg.RecentTTL)
	}
	if cfg.ArchiveFile == "" {
		out.Archive = cache.NewCachedSource(archive, out.Cache, cfg.ArchiveTTL)
	}
	return out, nil
}

func newSource(name, file string, cfg *Config, worksheet string, client *http.Client) source.Source {
	if file != "" {
		return source.NewFileSource(name, file)
	}
	return source.NewSheetSource(name, cfg.SheetBaseURL, cfg.SheetID, worksheet, client)
}

// NewParsers builds the recent and archive row parsers for cfg.
func NewParsers(cfg *Config, tp *util.TimeProvider) (recent, archive *parser.RowParser, err error) {
	var opts []parser.Option
	if cfg.SkipInvalidRows {
		opts = append(opts, parser.WithSkipInvalidRows())
	}
	loc := tp.Location()

	recent, err = parser.NewRowParser(cfg.RecentSchema(), loc, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("recent schema: %w", err)
	}
	archive, err = parser.NewRowParser(cfg.ArchiveSchema(), loc, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("archive schema: %w", err)
	}
	return recent, archive, nil
}

// NewPipeline wires loader and controller for cfg.
func NewPipeline(cfg *Config, srcs *Sources, tp *util.TimeProvider) (*RefreshController, error) {
	recentParser, archiveParser, err := NewParsers(cfg, tp)
	if err != nil {
		return nil, err
	}
	loader := NewDataLoader(srcs.Recent, srcs.Archive, recentParser, archiveParser)
	loader.timeout = cfg.FetchTimeout
	ctrl := NewRefreshController(loader)
	ctrl.now = func() time.Time { return tp.Now() }
	return ctrl, nil
}
