package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/couchcryptid/nyc-collision-visualizer/internal/domain"
	"github.com/couchcryptid/nyc-collision-visualizer/internal/observability"
	"github.com/jonboulle/clockwork"
)

// Loader reads the full collision table from the source.
type Loader interface {
	Load(ctx context.Context) (domain.Table, error)
}

// MapRenderer writes the two interactive map documents and returns their paths.
type MapRenderer interface {
	RenderClusterMap(ctx context.Context, table domain.Table) (string, error)
	RenderHeatmap(ctx context.Context, table domain.Table) (string, error)
}

// ChartRenderer writes the three aggregate charts and returns their paths.
type ChartRenderer interface {
	RenderHourChart(ctx context.Context, counts []domain.Count) (string, error)
	RenderDayChart(ctx context.Context, counts []domain.Count) (string, error)
	RenderFactorChart(ctx context.Context, counts []domain.Count) (string, error)
}

// SummaryWriter persists the chart aggregates as a spreadsheet.
type SummaryWriter interface {
	WriteSummary(ctx context.Context, summary domain.Summary) (string, error)
}

// Stages groups the pipeline's collaborators. Summary may be nil.
type Stages struct {
	Loader  Loader
	Maps    MapRenderer
	Charts  ChartRenderer
	Summary SummaryWriter
}

// Result describes a completed run.
type Result struct {
	Loaded    int
	Cleaned   int
	Unparsed  int
	Clean     domain.CleanStats
	Summary   domain.Summary
	Artifacts []string
}

// Pipeline runs load, enrich, clean, maps, charts and the optional summary
// in order. Any stage error stops the run.
type Pipeline struct {
	stages  Stages
	logger  *slog.Logger
	metrics *observability.Metrics
	clock   clockwork.Clock
	out     io.Writer
}

// New creates a Pipeline. Confirmation lines for each artifact go to out.
func New(stages Stages, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock, out io.Writer) *Pipeline {
	return &Pipeline{
		stages:  stages,
		logger:  logger,
		metrics: metrics,
		clock:   clock,
		out:     out,
	}
}

// Run executes every stage once. The context is checked between stages.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	var res Result
	runStart := p.clock.Now()

	var raw domain.Table
	err := p.stage(ctx, "load", func() error {
		var err error
		raw, err = p.stages.Loader.Load(ctx)
		if err != nil {
			return err
		}
		res.Loaded = len(raw)
		p.metrics.Records.WithLabelValues("loaded").Set(float64(len(raw)))
		p.logger.Info("collisions loaded", "rows", len(raw))
		return nil
	})
	if err != nil {
		return res, err
	}

	var enriched domain.Table
	err = p.stage(ctx, "enrich", func() error {
		enriched = domain.Enrich(raw)
		res.Unparsed = domain.CountUnparsed(enriched)
		p.metrics.Records.WithLabelValues("enriched").Set(float64(len(enriched)))
		p.metrics.UnparsedTimestamps.Set(float64(res.Unparsed))
		p.logger.Info("timestamps derived", "rows", len(enriched), "unparsed", res.Unparsed)
		return nil
	})
	if err != nil {
		return res, err
	}

	var cleaned domain.Table
	err = p.stage(ctx, "clean", func() error {
		cleaned, res.Clean = domain.CleanWithStats(enriched)
		res.Cleaned = len(cleaned)
		p.metrics.Records.WithLabelValues("cleaned").Set(float64(len(cleaned)))
		p.metrics.RecordsDropped.WithLabelValues("missing_coordinates").Set(float64(res.Clean.MissingCoordinates))
		p.metrics.RecordsDropped.WithLabelValues("out_of_bounds").Set(float64(res.Clean.OutOfBounds))
		p.logger.Info("coordinates cleaned",
			"rows", len(cleaned),
			"dropped_missing", res.Clean.MissingCoordinates,
			"dropped_out_of_bounds", res.Clean.OutOfBounds,
		)
		return nil
	})
	if err != nil {
		return res, err
	}

	err = p.stage(ctx, "maps", func() error {
		path, err := p.stages.Maps.RenderClusterMap(ctx, cleaned)
		if err != nil {
			return err
		}
		p.saved(&res, "cluster_map", path, "✅ Accident map saved to '%s'\n")

		path, err = p.stages.Maps.RenderHeatmap(ctx, cleaned)
		if err != nil {
			return err
		}
		p.saved(&res, "heatmap", path, "✅ Heatmap saved to '%s'\n")
		return nil
	})
	if err != nil {
		return res, err
	}

	res.Summary = domain.Summarize(cleaned)
	err = p.stage(ctx, "charts", func() error {
		charts := []struct {
			kind   string
			render func(context.Context, []domain.Count) (string, error)
			counts []domain.Count
		}{
			{"hour_chart", p.stages.Charts.RenderHourChart, res.Summary.ByHour},
			{"day_chart", p.stages.Charts.RenderDayChart, res.Summary.ByDay},
			{"factor_chart", p.stages.Charts.RenderFactorChart, res.Summary.TopFactors},
		}
		for _, c := range charts {
			path, err := c.render(ctx, c.counts)
			if err != nil {
				return err
			}
			p.saved(&res, c.kind, path, "✅ Saved: %s\n")
		}
		return nil
	})
	if err != nil {
		return res, err
	}

	if p.stages.Summary != nil {
		err = p.stage(ctx, "summary", func() error {
			path, err := p.stages.Summary.WriteSummary(ctx, res.Summary)
			if err != nil {
				return err
			}
			p.saved(&res, "summary_workbook", path, "✅ Saved: %s\n")
			return nil
		})
		if err != nil {
			return res, err
		}
	}

	p.logger.Info("run complete",
		"artifacts", len(res.Artifacts),
		"duration", p.clock.Since(runStart),
	)
	return res, nil
}

// stage runs fn unless ctx is already done and records its duration.
func (p *Pipeline) stage(ctx context.Context, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	start := p.clock.Now()
	err := fn()
	elapsed := p.clock.Since(start)
	p.metrics.StageDuration.WithLabelValues(name).Observe(elapsed.Seconds())

	if err != nil {
		p.logger.Error("stage failed", "stage", name, "error", err)
		return fmt.Errorf("%s: %w", name, err)
	}
	p.logger.Debug("stage finished", "stage", name, "duration", elapsed)
	return nil
}

func (p *Pipeline) saved(res *Result, kind, path, format string) {
	res.Artifacts = append(res.Artifacts, path)
	p.metrics.ArtifactsWritten.WithLabelValues(kind).Inc()
	fmt.Fprintf(p.out, format, path)
	p.logger.Info("artifact written", "kind", kind, "path", path)
}
