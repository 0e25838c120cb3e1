package dashboard

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/penwyp/go-sensor-monitor/internal/core/constants"
	"github.com/penwyp/go-sensor-monitor/internal/core/model"
)

// Config contains the settings shared by the dashboard commands
type Config struct {
	// Spreadsheet location
	SheetID          string
	SheetBaseURL     string
	RecentWorksheet  string
	ArchiveWorksheet string

	// Local CSV exports, used instead of the spreadsheet when set
	RecentFile  string
	ArchiveFile string

	// Schema
	Fields            []string
	ArchiveTimeColumn string
	SkipInvalidRows   bool

	// Display settings
	Timezone   string
	TimeFormat string
	Layout     string

	// Refresh settings
	RefreshInterval time.Duration
	UIRefreshRate   float64
	FetchTimeout    time.Duration

	// Cache settings
	RecentTTL  time.Duration
	ArchiveTTL time.Duration
	CacheDir   string
	NoCache    bool
}

// Validate fills defaults and checks that every source has a location
func (c *Config) Validate() error {
	if c.RecentWorksheet == "" {
		c.RecentWorksheet = "Sheet1"
	}
	if c.ArchiveWorksheet == "" {
		c.ArchiveWorksheet = "Hourly"
	}
	if len(c.Fields) == 0 {
		c.Fields = append([]string(nil), model.DefaultFields...)
	}
	if c.ArchiveTimeColumn == "" {
		c.ArchiveTimeColumn = "Hour_Start"
	}
	if c.Timezone == "" {
		c.Timezone = "Local"
	}
	if c.TimeFormat == "" {
		c.TimeFormat = "24h"
	}
	if c.Layout == "" {
		c.Layout = "full"
	}
	if c.RefreshInterval == 0 {
		c.RefreshInterval = constants.DefaultRefreshInterval
	}
	if c.UIRefreshRate == 0 {
		c.UIRefreshRate = constants.DefaultUIRefreshRate
	}
	if c.FetchTimeout == 0 {
		c.FetchTimeout = constants.FetchTimeout
	}
	if c.RecentTTL == 0 {
		c.RecentTTL = constants.RecentTTL
	}
	if c.ArchiveTTL == 0 {
		c.ArchiveTTL = constants.ArchiveTTL
	}
	if c.CacheDir == "" {
		c.CacheDir = "~/.go-sensor-monitor/cache"
	}
	c.CacheDir = expandHome(c.CacheDir)

	var errs []error
	if c.SheetID == "" && c.RecentFile == "" {
		errs = append(errs, errors.New("recent source needs a sheet id or a csv file"))
	}
	if c.SheetID == "" && c.ArchiveFile == "" {
		errs = append(errs, errors.New("archive source needs a sheet id or a csv file"))
	}
	if c.RefreshInterval < constants.MinRefreshInterval {
		errs = append(errs, fmt.Errorf("refresh interval %s is below the minimum of %s", c.RefreshInterval, constants.MinRefreshInterval))
	}
	if c.UIRefreshRate < 0 {
		errs = append(errs, fmt.Errorf("ui refresh rate must be positive, got %v", c.UIRefreshRate))
	}
	if c.RecentTTL < 0 || c.ArchiveTTL < 0 {
		errs = append(errs, errors.New("cache ttl must not be negative"))
	}
	if c.Layout != "full" && c.Layout != "minimal" {
		errs = append(errs, fmt.Errorf("unknown layout %q (want full or minimal)", c.Layout))
	}
	if c.TimeFormat != "24h" && c.TimeFormat != "12h" {
		errs = append(errs, fmt.Errorf("unknown time format %q (want 24h or 12h)", c.TimeFormat))
	}
	for _, schema := range []model.Schema{c.RecentSchema(), c.ArchiveSchema()} {
		if err := schema.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecentSchema is the column layout of the recent worksheet.
func (c *Config) RecentSchema() model.Schema {
	return model.NewSchema(model.TimestampColumn, c.Fields)
}

// ArchiveSchema is the column layout of the archive worksheet.
func (c *Config) ArchiveSchema() model.Schema {
	return model.NewSchema(c.ArchiveTimeColumn, c.Fields)
}

// WatchedFiles returns the local CSV files backing the sources.
func (c *Config) WatchedFiles() []string {
	var files []string
	for _, f := range []string{c.RecentFile, c.ArchiveFile} {
		if f != "" {
			files = append(files, f)
		}
	}
	return files
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
