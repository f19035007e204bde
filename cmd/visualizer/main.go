// Command visualizer reads a collision extract and writes the map and chart
// artifacts to the output directory.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/nyc-collision-visualizer/internal/adapter/chart"
	"github.com/couchcryptid/nyc-collision-visualizer/internal/adapter/dataset"
	"github.com/couchcryptid/nyc-collision-visualizer/internal/adapter/leaflet"
	"github.com/couchcryptid/nyc-collision-visualizer/internal/adapter/workbook"
	"github.com/couchcryptid/nyc-collision-visualizer/internal/config"
	"github.com/couchcryptid/nyc-collision-visualizer/internal/observability"
	"github.com/couchcryptid/nyc-collision-visualizer/internal/pipeline"
	"github.com/jonboulle/clockwork"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	stages := pipeline.Stages{
		Loader: dataset.NewLoader(cfg.InputPath, logger),
		Maps: leaflet.NewRenderer(cfg.OutputDir, leaflet.Options{
			MarkerLimit:       cfg.MarkerLimit,
			HeatmapLimit:      cfg.HeatmapLimit,
			HeatmapRadius:     cfg.HeatmapRadius,
			HeatmapBlur:       cfg.HeatmapBlur,
			HeatmapMinOpacity: cfg.HeatmapMinOpacity,
		}, clock, logger),
		Charts: chart.NewRenderer(cfg.OutputDir, cfg.ChartDPI, logger),
	}
	if cfg.SummaryWorkbook {
		stages.Summary = workbook.NewWriter(cfg.OutputDir, logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("run started", "input", cfg.InputPath, "output_dir", cfg.OutputDir)
	p := pipeline.New(stages, logger, metrics, clock, os.Stdout)
	_, runErr := p.Run(ctx)

	if cfg.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Error("metrics textfile error", "error", err)
		}
	}

	if runErr != nil {
		logger.Error("pipeline error", "error", runErr)
		stop()
		os.Exit(1)
	}
}
