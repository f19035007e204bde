// Package config loads run settings from environment variables. Every
// variable is optional: with none set, a run uses the fixed input path, output
// directory, limits and styling of the standard visualizer.
package config

import (
	"errors"
	"fmt"
	"strconv"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all run settings, populated from environment variables.
// Every variable is optional; the defaults reproduce the standard run.
type Config struct {
	InputPath string
	OutputDir string
	LogLevel  string
	LogFormat string

	MarkerLimit  int
	HeatmapLimit int

	// Heatmap overlay styling.
	HeatmapRadius     float64
	HeatmapBlur       float64
	HeatmapMinOpacity float64

	ChartDPI int

	SummaryWorkbook bool
	MetricsTextfile string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	markerLimit, err := parsePositiveInt("MARKER_LIMIT", "1000")
	if err != nil {
		return nil, err
	}
	heatmapLimit, err := parsePositiveInt("HEATMAP_LIMIT", "10000")
	if err != nil {
		return nil, err
	}
	radius, err := parsePositiveFloat("HEATMAP_RADIUS", "10")
	if err != nil {
		return nil, err
	}
	blur, err := parsePositiveFloat("HEATMAP_BLUR", "15")
	if err != nil {
		return nil, err
	}
	minOpacity, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("HEATMAP_MIN_OPACITY", "0.4"), 64)
	if err != nil || minOpacity < 0 || minOpacity > 1 {
		return nil, errors.New("invalid HEATMAP_MIN_OPACITY: must be between 0 and 1")
	}
	dpi, err := parsePositiveInt("CHART_DPI", "300")
	if err != nil {
		return nil, err
	}
	summary, err := strconv.ParseBool(sharedcfg.EnvOrDefault("SUMMARY_WORKBOOK", "false"))
	if err != nil {
		return nil, errors.New("invalid SUMMARY_WORKBOOK")
	}

	cfg := &Config{
		InputPath: sharedcfg.EnvOrDefault("INPUT_PATH", "Motor_Vehicle_Collisions_-_Crashes_20250626.csv"),
		OutputDir: sharedcfg.EnvOrDefault("OUTPUT_DIR", "images"),
		LogLevel:  sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),

		MarkerLimit:  markerLimit,
		HeatmapLimit: heatmapLimit,

		HeatmapRadius:     radius,
		HeatmapBlur:       blur,
		HeatmapMinOpacity: minOpacity,

		ChartDPI: dpi,

		SummaryWorkbook: summary,
		MetricsTextfile: sharedcfg.EnvOrDefault("METRICS_TEXTFILE", ""),
	}

	return cfg, nil
}

func parsePositiveInt(key, def string) (int, error) {
	n, err := strconv.Atoi(sharedcfg.EnvOrDefault(key, def))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive integer", key)
	}
	return n, nil
}

func parsePositiveFloat(key, def string) (float64, error) {
	v, err := strconv.ParseFloat(sharedcfg.EnvOrDefault(key, def), 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive number", key)
	}
	return v, nil
}
