package commands

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/penwyp/go-sensor-monitor/internal/application/dashboard"
	"github.com/penwyp/go-sensor-monitor/internal/core/constants"
	"github.com/penwyp/go-sensor-monitor/internal/data/source"
	"github.com/penwyp/go-sensor-monitor/internal/presentation/web"
	"github.com/penwyp/go-sensor-monitor/internal/util"
	"github.com/spf13/cobra"
)

var (
	serveAddr            string
	serveRefreshInterval time.Duration
	servePageRefresh     int
	serveCORSOrigins     string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the sensor charts over HTTP",
	Long: `Runs a headless refresh loop and serves a web dashboard:

  GET /                      page with one chart per sensor group
  GET /charts/{group}.svg    SVG line chart (temperature, humidity, light, uv, pressure)
  GET /api/series            merged series as columnar JSON
  GET /healthz               liveness and last refresh status`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:8080",
		"Listen address")
	serveCmd.Flags().DurationVar(&serveRefreshInterval, "refresh-interval", constants.DefaultRefreshInterval,
		"Data refresh interval")
	serveCmd.Flags().IntVar(&servePageRefresh, "page-refresh", 60,
		"Browser page refresh period in seconds")
	serveCmd.Flags().StringVar(&serveCORSOrigins, "cors-origins", "*",
		"Comma separated origins allowed to call /api")
}

func runServe(cmd *cobra.Command, args []string) error {
	config := buildConfig()
	config.RefreshInterval = serveRefreshInterval
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

	state := dashboard.NewStateManager()
	poller := dashboard.NewPoller(ctrl, state, config.RefreshInterval, watcher)
	server := web.NewServer(web.Config{
		Addr:           serveAddr,
		Location:       tp.Location(),
		TimeFormat:     config.TimeFormat,
		RefreshSeconds: servePageRefresh,
		AllowedOrigins: splitList(serveCORSOrigins),
	}, state)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pollDone := make(chan struct{})
	go func() {
		defer close(pollDone)
		_ = poller.Run(ctx)
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "Serving sensor dashboard on http://%s\n", serveAddr)
	err = server.ListenAndServe(ctx)
	stop()
	<-pollDone
	return err
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
