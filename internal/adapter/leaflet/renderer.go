package leaflet

import (
	"context"
	"fmt"
	"html"
	"io"
	"log/slog"
	"time"

	"github.com/couchcryptid/nyc-collision-visualizer/internal/adapter/artifact"
	"github.com/couchcryptid/nyc-collision-visualizer/internal/domain"
	"github.com/jonboulle/clockwork"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Output file names.
const (
	ClusterMapFile = "nyc_accident_map.html"
	HeatmapFile    = "nyc_accident_heatmap.html"
)

// Map view shared by both documents.
const (
	CenterLat = 40.7128
	CenterLon = -74.0060
	Zoom      = 11

	popupMaxWidth = 300
)

// Options controls how many records each map uses and the heat layer styling.
type Options struct {
	MarkerLimit       int
	HeatmapLimit      int
	HeatmapRadius     float64
	HeatmapBlur       float64
	HeatmapMinOpacity float64
}

// DefaultOptions returns the standard limits and heat styling.
func DefaultOptions() Options {
	return Options{
		MarkerLimit:       1000,
		HeatmapLimit:      10000,
		HeatmapRadius:     10,
		HeatmapBlur:       15,
		HeatmapMinOpacity: 0.4,
	}
}

// Renderer writes standalone Leaflet map documents.
// It implements pipeline.MapRenderer.
type Renderer struct {
	outputDir string
	opts      Options
	clock     clockwork.Clock
	printer   *message.Printer
	logger    *slog.Logger
}

// NewRenderer creates a Renderer writing into outputDir. The clock stamps the
// generated meta tag.
func NewRenderer(outputDir string, opts Options, clock clockwork.Clock, logger *slog.Logger) *Renderer {
	return &Renderer{
		outputDir: outputDir,
		opts:      opts,
		clock:     clock,
		printer:   message.NewPrinter(language.English),
		logger:    logger,
	}
}

// RenderClusterMap writes the clustered marker map for the first MarkerLimit
// records and returns its path.
func (r *Renderer) RenderClusterMap(_ context.Context, table domain.Table) (string, error) {
	markers := domain.Markers(table, r.opts.MarkerLimit)
	p := r.basePage("NYC Motor Vehicle Collisions", cartoPositron, len(markers), len(table))
	p.Stylesheets = []string{leafletCSS, clusterCSS, clusterDefaultCSS, fontAwesomeCSS, awesomeMarkersCSS}
	p.Scripts = []string{leafletJS, clusterJS, awesomeMarkersJS}
	p.Markers = toMarkerJSON(markers)
	p.PopupMaxWidth = popupMaxWidth

	path, err := artifact.Write(r.outputDir, ClusterMapFile, p.render)
	if err != nil {
		return "", fmt.Errorf("render cluster map: %w", err)
	}
	r.logger.Debug("cluster map rendered", "markers", len(markers), "path", path)
	return path, nil
}

// RenderHeatmap writes the density heatmap for the first HeatmapLimit
// coordinate pairs and returns its path.
func (r *Renderer) RenderHeatmap(_ context.Context, table domain.Table) (string, error) {
	points := domain.HeatPoints(table, r.opts.HeatmapLimit)
	p := r.basePage("NYC Motor Vehicle Collision Density", openStreetMap, len(points), len(table))
	p.Stylesheets = []string{leafletCSS}
	p.Scripts = []string{leafletJS, heatJS}
	p.Heat = toHeatJSON(points)
	p.HeatOptions = heatOptions{
		Radius:     r.opts.HeatmapRadius,
		Blur:       r.opts.HeatmapBlur,
		MinOpacity: r.opts.HeatmapMinOpacity,
	}

	path, err := artifact.Write(r.outputDir, HeatmapFile, p.render)
	if err != nil {
		return "", fmt.Errorf("render heatmap: %w", err)
	}
	r.logger.Debug("heatmap rendered", "points", len(points), "path", path)
	return path, nil
}

func (r *Renderer) basePage(title string, tiles Tiles, shown, total int) *page {
	return &page{
		Title:     title,
		Generated: r.clock.Now().UTC().Format(time.RFC3339),
		Caption:   r.printer.Sprintf("Showing %d of %d collisions", shown, total),
		Lat:       CenterLat,
		Lon:       CenterLon,
		Zoom:      Zoom,
		Tiles:     tiles,
	}
}

func (p *page) render(w io.Writer) error {
	return pageTemplate.Execute(w, p)
}

func toMarkerJSON(markers []domain.Marker) []markerJSON {
	out := make([]markerJSON, len(markers))
	for i, m := range markers {
		out[i] = markerJSON{Lat: m.Lat, Lon: m.Lon, Popup: popupHTML(m)}
	}
	return out
}

func toHeatJSON(points []domain.Point) [][2]float64 {
	out := make([][2]float64, len(points))
	for i, p := range points {
		out[i] = [2]float64{p.Lat, p.Lon}
	}
	return out
}

// popupHTML formats the marker popup. Field values are escaped; the markup is not.
func popupHTML(m domain.Marker) string {
	return fmt.Sprintf(
		"<b>Date:</b> %s<br><b>Time:</b> %s<br><b>Injured:</b> %s<br><b>Killed:</b> %s<br><b>Factor:</b> %s",
		html.EscapeString(m.Date),
		html.EscapeString(m.Time),
		html.EscapeString(m.Injured),
		html.EscapeString(m.Killed),
		html.EscapeString(m.Factor),
	)
}
