package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/penwyp/go-sensor-monitor/internal/application/dashboard"
	"github.com/penwyp/go-sensor-monitor/internal/core/constants"
	"github.com/penwyp/go-sensor-monitor/internal/core/model"
	"github.com/penwyp/go-sensor-monitor/internal/presentation/formatter"
	"github.com/penwyp/go-sensor-monitor/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	// Logging related
	debug     bool
	logLevel  string
	logFormat string
	logFile   string
	envFile   string

	// Spreadsheet and local sources
	sheetID          string
	sheetBaseURL     string
	recentWorksheet  string
	archiveWorksheet string
	recentFile       string
	archiveFile      string

	// Schema
	fieldList         string
	archiveTimeColumn string
	skipInvalidRows   bool

	// Display
	timezone   string
	timeFormat string

	// Fetching and caching
	fetchTimeout time.Duration
	recentTTL    time.Duration
	archiveTTL   time.Duration
	cacheDir     string
	noCache      bool

	// Output related
	outputFormat string
	formatAlias  string
	limit        int

	rootCmd = &cobra.Command{
		Use:   "go-sensor-monitor [flags]",
		Short: "Sensor station dashboard for spreadsheet logged readings",
		Long: `go-sensor-monitor reads the readings a sensor station logs to a published
spreadsheet, merges the hourly archive worksheet with the recent worksheet and
prints, monitors or serves the combined series.

Settings may also come from environment variables (SENSOR_*), optionally
loaded from a .env file.

Examples:
  go-sensor-monitor --sheet-id 1AbC...                      # Print the merged series as a table
  go-sensor-monitor --sheet-id 1AbC... -o json --limit 60   # Newest 60 rows as JSON
  go-sensor-monitor --recent-file recent.csv --archive-file hourly.csv -o summary
  go-sensor-monitor top --sheet-id 1AbC...                  # Live terminal dashboard
  go-sensor-monitor serve --addr :8080                      # Web dashboard with charts`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		RunE:              runOutput,
	}
)

const (
	defaultLogFile  = "~/.go-sensor-monitor/logs/app.log"
	defaultCacheDir = "~/.go-sensor-monitor/cache"
	defaultEnvFile  = ".env"
)

// envBindings maps flags to the environment variables providing their defaults.
var envBindings = map[string]string{
	"sheet-id":            "SENSOR_SHEET_ID",
	"sheet-url":           "SENSOR_SHEET_URL",
	"recent-sheet":        "SENSOR_RECENT_SHEET",
	"archive-sheet":       "SENSOR_ARCHIVE_SHEET",
	"recent-file":         "SENSOR_RECENT_FILE",
	"archive-file":        "SENSOR_ARCHIVE_FILE",
	"fields":              "SENSOR_FIELDS",
	"archive-time-column": "SENSOR_ARCHIVE_TIME_COLUMN",
	"timezone":            "SENSOR_TIMEZONE",
	"cache-dir":           "SENSOR_CACHE_DIR",
	"log-level":           "SENSOR_LOG_LEVEL",
	"log-format":          "SENSOR_LOG_FORMAT",
	"addr":                "SENSOR_ADDR",
	"refresh-interval":    "SENSOR_REFRESH_INTERVAL",
}

func init() {
	flags := rootCmd.PersistentFlags()

	// Sources
	flags.StringVar(&sheetID, "sheet-id", "",
		"Published spreadsheet id")
	flags.StringVar(&sheetBaseURL, "sheet-url", "https://docs.google.com",
		"Spreadsheet export base URL")
	flags.StringVar(&recentWorksheet, "recent-sheet", "Sheet1",
		"Worksheet with recent readings")
	flags.StringVar(&archiveWorksheet, "archive-sheet", "Hourly",
		"Worksheet with hourly archived readings")
	flags.StringVar(&recentFile, "recent-file", "",
		"Local CSV export used instead of the recent worksheet")
	flags.StringVar(&archiveFile, "archive-file", "",
		"Local CSV export used instead of the archive worksheet")

	// Schema
	flags.StringVar(&fieldList, "fields", strings.Join(model.DefaultFields, ","),
		"Comma separated numeric field names in column order")
	flags.StringVar(&archiveTimeColumn, "archive-time-column", "Hour_Start",
		"Name of the archive worksheet time column")
	flags.BoolVar(&skipInvalidRows, "skip-invalid-rows", false,
		"Drop rows that fail to parse instead of failing the source")

	// Display
	flags.StringVar(&timezone, "timezone", "Local",
		"Timezone setting (e.g., Europe/Berlin, UTC)")
	flags.StringVar(&timeFormat, "time-format", "24h",
		"Time format (12h or 24h)")

	// Fetching and caching
	flags.DurationVar(&fetchTimeout, "fetch-timeout", constants.FetchTimeout,
		"Timeout for fetching one worksheet")
	flags.DurationVar(&recentTTL, "recent-ttl", constants.RecentTTL,
		"Cache lifetime of the recent worksheet")
	flags.DurationVar(&archiveTTL, "archive-ttl", constants.ArchiveTTL,
		"Cache lifetime of the archive worksheet")
	flags.StringVar(&cacheDir, "cache-dir", defaultCacheDir,
		"Directory of the persistent fetch cache")
	flags.BoolVar(&noCache, "no-cache", false,
		"Always fetch worksheets")

	// System and debugging
	flags.BoolVar(&debug, "debug", false,
		"Enable debug mode")
	flags.StringVar(&logLevel, "log-level", "info",
		"Log level (debug, info, warn, error)")
	flags.StringVar(&logFormat, "log-format", "text",
		"Log format (text or json)")
	flags.StringVar(&logFile, "log-file", defaultLogFile,
		"Log file path")
	flags.StringVar(&envFile, "env-file", defaultEnvFile,
		"Environment file with SENSOR_* settings")

	// Output configuration
	rootCmd.Flags().StringVarP(&outputFormat, "output", "o", "table",
		"Output format (table, json, csv, summary)")
	rootCmd.Flags().StringVar(&formatAlias, "format", "",
		"Alias for --output")
	rootCmd.Flags().IntVar(&limit, "limit", 0,
		"Print only the newest rows (0 = all)")
}

// setup loads the environment file, applies environment defaults and
// initializes logging and the time provider.
func setup(cmd *cobra.Command, args []string) error {
	if err := loadEnvFile(envFile, cmd.Flags().Changed("env-file")); err != nil {
		return err
	}
	if err := applyEnv(cmd.Flags()); err != nil {
		return err
	}

	format, err := util.ParseLogFormat(logFormat)
	if err != nil {
		return err
	}
	level := logLevel
	if debug {
		level = "debug"
	}

	path := ""
	if logFile != "" {
		path = expandPath(logFile)
		if err := ensureDir(filepath.Dir(path)); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	if err := util.InitLogger(util.LoggerOptions{
		Level:   level,
		File:    path,
		Console: debug && cmd.Name() != topCmd.Name(),
		Format:  format,
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := util.InitializeTimeProvider(timezone); err != nil {
		return fmt.Errorf("failed to initialize timezone: %w", err)
	}
	return nil
}

// loadEnvFile loads KEY=VALUE pairs without overriding the real environment.
// A missing default file is fine; a missing explicit one is an error.
func loadEnvFile(path string, explicit bool) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(expandPath(path))
	if err == nil {
		return nil
	}
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load env file %s: %w", path, err)
}

// applyEnv sets every unchanged flag that has a bound environment variable.
func applyEnv(flags *pflag.FlagSet) error {
	var errs []error
	flags.VisitAll(func(f *pflag.Flag) {
		name, ok := envBindings[f.Name]
		if !ok || f.Changed {
			return
		}
		value, ok := os.LookupEnv(name)
		if !ok || value == "" {
			return
		}
		if err := f.Value.Set(value); err != nil {
			errs = append(errs, fmt.Errorf("invalid %s=%q: %w", name, value, err))
		}
	})
	return errors.Join(errs...)
}

// buildConfig assembles the dashboard configuration from the global flags.
func buildConfig() *dashboard.Config {
	return &dashboard.Config{
		SheetID:           sheetID,
		SheetBaseURL:      sheetBaseURL,
		RecentWorksheet:   recentWorksheet,
		ArchiveWorksheet:  archiveWorksheet,
		RecentFile:        recentFile,
		ArchiveFile:       archiveFile,
		Fields:            model.ParseFieldList(fieldList),
		ArchiveTimeColumn: archiveTimeColumn,
		SkipInvalidRows:   skipInvalidRows,
		Timezone:          timezone,
		TimeFormat:        timeFormat,
		FetchTimeout:      fetchTimeout,
		RecentTTL:         recentTTL,
		ArchiveTTL:        archiveTTL,
		CacheDir:          cacheDir,
		NoCache:           noCache,
	}
}

func runOutput(cmd *cobra.Command, args []string) error {
	// Handle format alias
	if cmd.Flags().Changed("format") {
		outputFormat = formatAlias
	}

	config := buildConfig()
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	return printSeries(ctx, config, outputFormat, limit, cmd.OutOrStdout())
}

// printSeries runs one refresh and writes the merged series to w.
func printSeries(ctx context.Context, config *dashboard.Config, format string, limit int, w io.Writer) error {
	tp := util.GetTimeProvider()
	f, err := formatter.New(format, formatter.Options{Location: tp.Location(), Limit: limit})
	if err != nil {
		return err
	}

	srcs, err := dashboard.OpenSources(config, nil)
	if err != nil {
		return err
	}
	defer srcs.Close()

	ctrl, err := dashboard.NewPipeline(config, srcs, tp)
	if err != nil {
		return err
	}

	snap, err := ctrl.Refresh(ctx)
	if err != nil {
		return err
	}
	for _, st := range snap.Statuses() {
		if !st.OK() {
			util.LogWarnf("Source %s failed: %s", st.Name, st.Error)
			fmt.Fprintf(os.Stderr, "warning: %s source failed: %s\n", st.Name, st.Error)
		}
	}

	return f.Format(w, snap.Series)
}

func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
