package dashboard

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/penwyp/go-sensor-monitor/internal/core/constants"
	"github.com/penwyp/go-sensor-monitor/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	cfg := &Config{SheetID: "abc123"}
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "Sheet1", cfg.RecentWorksheet)
	assert.Equal(t, "Hourly", cfg.ArchiveWorksheet)
	assert.Equal(t, model.DefaultFields, cfg.Fields)
	assert.Equal(t, "Hour_Start", cfg.ArchiveTimeColumn)
	assert.Equal(t, constants.DefaultRefreshInterval, cfg.RefreshInterval)
	assert.Equal(t, constants.RecentTTL, cfg.RecentTTL)
	assert.Equal(t, constants.ArchiveTTL, cfg.ArchiveTTL)
	assert.Equal(t, "full", cfg.Layout)
	assert.NotContains(t, cfg.CacheDir, "~")
}

func TestConfigValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr []string
	}{
		{
			name:    "no sources",
			cfg:     Config{},
			wantErr: []string{"recent source", "archive source"},
		},
		{
			name:    "archive file only",
			cfg:     Config{ArchiveFile: "hourly.csv"},
			wantErr: []string{"recent source"},
		},
		{
			name:    "refresh too fast",
			cfg:     Config{SheetID: "x", RefreshInterval: time.Second},
			wantErr: []string{"below the minimum"},
		},
		{
			name:    "bad layout",
			cfg:     Config{SheetID: "x", Layout: "compact"},
			wantErr: []string{"unknown layout"},
		},
		{
			name:    "bad time format",
			cfg:     Config{SheetID: "x", TimeFormat: "iso"},
			wantErr: []string{"unknown time format"},
		},
		{
			name:    "duplicate field",
			cfg:     Config{SheetID: "x", Fields: []string{"temp1", "temp1"}},
			wantErr: []string{"duplicated"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			require.Error(t, err)
			for _, want := range tt.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestConfigLocalFiles(t *testing.T) {
	cfg := &Config{RecentFile: "recent.csv", ArchiveFile: "hourly.csv"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{"recent.csv", "hourly.csv"}, cfg.WatchedFiles())

	assert.Empty(t, (&Config{SheetID: "x"}).WatchedFiles())
}

func TestConfigSchemas(t *testing.T) {
	cfg := &Config{SheetID: "x", Fields: testFields}
	require.NoError(t, cfg.Validate())

	assert.Equal(t, []string{"timestamp", "temp1", "humidity1"}, cfg.RecentSchema().Columns)
	archive := cfg.ArchiveSchema()
	assert.Equal(t, []string{"Hour_Start", "temp1", "humidity1"}, archive.Columns)
	assert.Equal(t, testFields, archive.Fields())
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "cache"), expandHome("~/cache"))
	assert.Equal(t, "/tmp/cache", expandHome("/tmp/cache"))
	assert.Equal(t, "~other/cache", expandHome("~other/cache"))
}
