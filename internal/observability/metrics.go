package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus gauges, counters, and histograms for one run.
type Metrics struct {
	Records            *prometheus.GaugeVec // labels: stage={loaded,enriched,cleaned}
	RecordsDropped     *prometheus.GaugeVec // labels: reason={missing_coordinates,out_of_bounds}
	UnparsedTimestamps prometheus.Gauge
	ArtifactsWritten   *prometheus.CounterVec   // labels: kind={cluster_map,heatmap,hour_chart,day_chart,factor_chart,summary_workbook}
	StageDuration      *prometheus.HistogramVec // labels: stage

	gatherer prometheus.Gatherer
}

func newMetrics() *Metrics {
	return &Metrics{
		Records: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "collision_viz",
			Name:      "records",
			Help:      "Number of collision records after each pipeline stage.",
		}, []string{"stage"}),
		RecordsDropped: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "collision_viz",
			Name:      "records_dropped",
			Help:      "Records removed by the coordinate cleaner, by reason.",
		}, []string{"reason"}),
		UnparsedTimestamps: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "collision_viz",
			Name:      "unparsed_timestamps",
			Help:      "Records whose crash date and time could not be parsed.",
		}),
		ArtifactsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "collision_viz",
			Name:      "artifacts_written_total",
			Help:      "Output files written, by artifact kind.",
		}, []string{"kind"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "collision_viz",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"stage"}),
	}
}

func (m *Metrics) register(reg prometheus.Registerer) {
	reg.MustRegister(
		m.Records,
		m.RecordsDropped,
		m.UnparsedTimestamps,
		m.ArtifactsWritten,
		m.StageDuration,
	)
}

// NewMetrics creates and registers all run metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	m.register(prometheus.DefaultRegisterer)
	m.gatherer = prometheus.DefaultGatherer
	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	reg := prometheus.NewRegistry()
	m := newMetrics()
	m.register(reg)
	m.gatherer = reg
	return m
}

// WriteTextfile writes all gathered metrics in the text exposition format,
// for pickup by the node_exporter textfile collector. The file is replaced
// atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.gatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
