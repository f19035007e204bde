package integration_test

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/couchcryptid/nyc-collision-visualizer/internal/adapter/chart"
	"github.com/couchcryptid/nyc-collision-visualizer/internal/adapter/dataset"
	"github.com/couchcryptid/nyc-collision-visualizer/internal/adapter/leaflet"
	"github.com/couchcryptid/nyc-collision-visualizer/internal/adapter/workbook"
	"github.com/couchcryptid/nyc-collision-visualizer/internal/domain"
	"github.com/couchcryptid/nyc-collision-visualizer/internal/observability"
	"github.com/couchcryptid/nyc-collision-visualizer/internal/pipeline"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "CRASH DATE,CRASH TIME,BOROUGH,LATITUDE,LONGITUDE,NUMBER OF PERSONS INJURED,NUMBER OF PERSONS KILLED,CONTRIBUTING FACTOR VEHICLE 1"

var (
	frozen     = time.Date(2025, time.June, 26, 9, 30, 0, 0, time.UTC)
	artifacts  = []string{leaflet.ClusterMapFile, leaflet.HeatmapFile, chart.HourChartFile, chart.DayChartFile, chart.FactorChartFile}
	htmlOutput = []string{leaflet.ClusterMapFile, leaflet.HeatmapFile}
)

func writeInput(t *testing.T, rows ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "collisions.csv")
	content := header + "\n" + strings.Join(rows, "\n") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

type run struct {
	result pipeline.Result
	err    error
	out    string
	dir    string
}

func runPipeline(t *testing.T, input, outputDir string, withSummary bool) run {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := clockwork.NewFakeClockAt(frozen)

	stages := pipeline.Stages{
		Loader: dataset.NewLoader(input, logger),
		Maps:   leaflet.NewRenderer(outputDir, leaflet.DefaultOptions(), clock, logger),
		Charts: chart.NewRenderer(outputDir, 30, logger),
	}
	if withSummary {
		stages.Summary = workbook.NewWriter(outputDir, logger)
	}

	var out bytes.Buffer
	p := pipeline.New(stages, logger, observability.NewMetricsForTesting(), clock, &out)
	res, err := p.Run(context.Background())
	return run{result: res, err: err, out: out.String(), dir: outputDir}
}

func TestPipeline_EndToEnd(t *testing.T) {
	input := writeInput(t,
		"06/23/2025,8:15,MANHATTAN,40.7128,-74.0060,1,0,Unsafe Speed",
		"06/24/2025,13:40,BROOKLYN,,-73.95,0,0,Unspecified",
		"06/25/2025,17:05,QUEENS,40.7282,-73.7949,0,1,Driver Inattention/Distraction",
	)
	outputDir := filepath.Join(t.TempDir(), "images")

	r := runPipeline(t, input, outputDir, false)
	require.NoError(t, r.err)

	assert.Equal(t, 3, r.result.Loaded)
	assert.Equal(t, 2, r.result.Cleaned)
	require.Len(t, r.result.Artifacts, len(artifacts))

	for _, name := range artifacts {
		info, err := os.Stat(filepath.Join(outputDir, name))
		require.NoError(t, err, name)
		assert.Positive(t, info.Size(), name)
		assert.Contains(t, r.out, filepath.Join(outputDir, name))
	}
	assert.Equal(t, len(artifacts), strings.Count(r.out, "✅"))
}

func TestPipeline_EndToEnd_SingleHour(t *testing.T) {
	input := writeInput(t,
		"06/23/2025,8:00,MANHATTAN,40.70,-74.00,0,0,Unspecified",
		"06/24/2025,8:20,MANHATTAN,40.71,-74.01,0,0,Unspecified",
		"06/28/2025,8:59,BRONX,40.85,-73.88,2,0,Unsafe Speed",
	)

	r := runPipeline(t, input, filepath.Join(t.TempDir(), "images"), true)
	require.NoError(t, r.err)

	assert.Equal(t, []domain.Count{{Label: "8", Value: 3}}, r.result.Summary.ByHour)

	days := r.result.Summary.ByDay
	require.Len(t, days, 7)
	assert.Equal(t, domain.Count{Label: "Monday", Value: 1}, days[0])
	assert.Equal(t, domain.Count{Label: "Tuesday", Value: 1}, days[1])
	assert.Equal(t, domain.Count{Label: "Saturday", Value: 1}, days[5])
	assert.Equal(t, 0, days[6].Value)

	assert.FileExists(t, filepath.Join(r.dir, workbook.SummaryFile))
}

func TestPipeline_EndToEnd_Idempotent(t *testing.T) {
	input := writeInput(t,
		"06/23/2025,8:15,MANHATTAN,40.7128,-74.0060,1,0,Unsafe Speed",
		"06/25/2025,17:05,QUEENS,40.7282,-73.7949,0,1,Driver Inattention/Distraction",
	)
	outputDir := filepath.Join(t.TempDir(), "images")

	first := runPipeline(t, input, outputDir, false)
	require.NoError(t, first.err)
	before := map[string][]byte{}
	sizes := map[string]int64{}
	for _, name := range artifacts {
		data, err := os.ReadFile(filepath.Join(outputDir, name))
		require.NoError(t, err)
		before[name] = data
		sizes[name] = int64(len(data))
	}

	second := runPipeline(t, input, outputDir, false)
	require.NoError(t, second.err)

	for _, name := range htmlOutput {
		data, err := os.ReadFile(filepath.Join(outputDir, name))
		require.NoError(t, err)
		assert.Equal(t, before[name], data, name)
	}
	for _, name := range artifacts {
		info, err := os.Stat(filepath.Join(outputDir, name))
		require.NoError(t, err)
		assert.Equal(t, sizes[name], info.Size(), name)
	}

	entries, err := os.ReadDir(outputDir)
	require.NoError(t, err)
	assert.Len(t, entries, len(artifacts))
}

func TestPipeline_MissingInput(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "images")

	r := runPipeline(t, filepath.Join(t.TempDir(), "absent.csv"), outputDir, false)
	require.ErrorIs(t, r.err, fs.ErrNotExist)

	assert.Empty(t, r.out)
	_, err := os.Stat(outputDir)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestPipeline_SampleDataset(t *testing.T) {
	input := filepath.Join("..", "..", "data", "mock", "collisions_sample.csv")

	r := runPipeline(t, input, filepath.Join(t.TempDir(), "images"), false)
	require.NoError(t, r.err)

	res := r.result
	assert.Equal(t, 120, res.Loaded)
	assert.Equal(t, 108, res.Cleaned)
	assert.Equal(t, 1, res.Unparsed)
	assert.Equal(t, 9, res.Clean.MissingCoordinates)
	assert.Equal(t, 3, res.Clean.OutOfBounds)

	hours := map[string]int{}
	total := 0
	for _, c := range res.Summary.ByHour {
		hours[c.Label] = c.Value
		total += c.Value
	}
	assert.Len(t, res.Summary.ByHour, 23)
	assert.NotContains(t, hours, "12")
	assert.Equal(t, 15, hours["14"])
	assert.Equal(t, 107, total)

	days := map[string]int{}
	for _, c := range res.Summary.ByDay {
		days[c.Label] = c.Value
	}
	assert.Equal(t, 21, days["Tuesday"])
	assert.Equal(t, 9, days["Thursday"])

	require.Len(t, res.Summary.TopFactors, domain.TopFactorLimit)
	assert.Equal(t, domain.Count{Label: "Driver Inattention/Distraction", Value: 33}, res.Summary.TopFactors[0])
	assert.Equal(t, domain.Count{Label: "Unspecified", Value: 24}, res.Summary.TopFactors[1])
}

func TestPipeline_HeaderOnlyInput(t *testing.T) {
	input := writeInput(t)
	outputDir := filepath.Join(t.TempDir(), "images")

	r := runPipeline(t, input, outputDir, false)
	require.NoError(t, r.err)

	assert.Zero(t, r.result.Loaded)
	assert.Zero(t, r.result.Cleaned)
	for _, name := range artifacts {
		info, err := os.Stat(filepath.Join(outputDir, name))
		require.NoError(t, err, name)
		assert.Positive(t, info.Size(), name)
	}
}
