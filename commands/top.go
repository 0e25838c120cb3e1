package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/penwyp/go-sensor-monitor/internal/application/dashboard"
	"github.com/penwyp/go-sensor-monitor/internal/core/constants"
	"github.com/penwyp/go-sensor-monitor/internal/data/source"
	"github.com/penwyp/go-sensor-monitor/internal/presentation/display"
	"github.com/penwyp/go-sensor-monitor/internal/presentation/interaction"
	"github.com/penwyp/go-sensor-monitor/internal/util"
	"github.com/spf13/cobra"
)

var (
	// Display related flags
	topRefreshInterval  time.Duration
	topRefreshPerSecond float64
	topLayout           string
)

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Monitor sensor readings in real-time",
	Long: `Similar to Linux top command, displays the merged sensor series in real-time:
the latest value, range and a sparkline of every field, grouped by chart.

Keys: q quit, r force refresh, p pause, l layout, s sort, h help.

Data refresh:
- Sources are re-read every refresh interval (default 60s)
- Remote worksheets are served from the fetch cache until their TTL ends
- Local CSV files are watched and trigger an early refresh when written`,
	RunE: runTop,
}

func init() {
	rootCmd.AddCommand(topCmd)

	topCmd.Flags().DurationVar(&topRefreshInterval, "refresh-interval", constants.DefaultRefreshInterval,
		"Data refresh interval")
	topCmd.Flags().Float64Var(&topRefreshPerSecond, "refresh-per-second", constants.DefaultUIRefreshRate,
		"Display refresh rate (0.1-20 Hz)")
	topCmd.Flags().StringVar(&topLayout, "layout", "full",
		"Layout style (full or minimal)")
}

func runTop(cmd *cobra.Command, args []string) error {
	// Validate refresh rate
	if topRefreshPerSecond < 0.1 || topRefreshPerSecond > 20 {
		return fmt.Errorf("refresh-per-second must be between 0.1 and 20")
	}

	config := buildConfig()
	config.RefreshInterval = topRefreshInterval
	config.UIRefreshRate = topRefreshPerSecond
	config.Layout = topLayout
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	tp := util.GetTimeProvider()
	srcs, err := dashboard.OpenSources(config, nil)
	if err != nil {
		return err
	}
	defer srcs.Close()

	ctrl, err := dashboard.NewPipeline(config, srcs, tp)
	if err != nil {
		return err
	}

	keyboard, err := interaction.NewKeyboardReader()
	if err != nil {
		return fmt.Errorf("failed to initialize keyboard: %w", err)
	}
	defer keyboard.Close()

	var watcher dashboard.FileMonitor
	if files := config.WatchedFiles(); len(files) > 0 {
		w, err := source.NewWatcher(files)
		if err != nil {
			util.LogWarnf("File watching disabled: %v", err)
		} else {
			watcher = w
			defer w.Close()
		}
	}

	termDisplay := display.NewTerminalDisplay(&display.DisplayConfig{
		Timezone:   config.Timezone,
		TimeFormat: config.TimeFormat,
	})
	orchestrator := dashboard.NewOrchestrator(config, ctrl, dashboard.NewStateManager(), termDisplay)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return orchestrator.Run(ctx, keyboard, watcher)
}
