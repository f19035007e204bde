// Command validate checks that an output directory holds a complete,
// well-formed set of visualizer artifacts: both map documents, the three
// chart images at the expected resolution, and the summary workbook when
// present.
//
// Usage:
//
//	go run ./cmd/validate -dir images -dpi 300
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/couchcryptid/nyc-collision-visualizer/internal/adapter/chart"
	"github.com/couchcryptid/nyc-collision-visualizer/internal/adapter/leaflet"
	"github.com/couchcryptid/nyc-collision-visualizer/internal/adapter/workbook"
	"github.com/xuri/excelize/v2"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// mapCheck lists the markers a map document must contain.
type mapCheck struct {
	file    string
	markers []string
}

var mapChecks = []mapCheck{
	{file: leaflet.ClusterMapFile, markers: []string{"L.map(", "L.markerClusterGroup()", "L.AwesomeMarkers.icon("}},
	{file: leaflet.HeatmapFile, markers: []string{"L.map(", "leaflet-heat.js", "L.heatLayer("}},
}

// chartCheck gives a chart's file and its size in inches.
type chartCheck struct {
	file          string
	width, height int
}

var chartChecks = []chartCheck{
	{file: chart.HourChartFile, width: 12, height: 7},
	{file: chart.DayChartFile, width: 12, height: 7},
	{file: chart.FactorChartFile, width: 12, height: 8},
}

func main() {
	dir := flag.String("dir", "images", "output directory to validate")
	dpi := flag.Int("dpi", chart.DefaultDPI, "resolution the charts were rendered at")
	flag.Parse()

	if *dir == "" || *dpi <= 0 {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*dir, *dpi); code != 0 {
		os.Exit(code)
	}
}

func run(dir string, dpi int) int {
	fmt.Println("=== Collision Visualizer Output Validation ===")
	fmt.Println()

	info, err := os.Stat(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}
	if !info.IsDir() {
		fmt.Fprintf(os.Stderr, "FATAL: %s is not a directory\n", dir)
		return 1
	}

	phases := []*phase{
		validateMaps(dir),
		validateCharts(dir, dpi),
		validateWorkbook(dir),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: Map documents ──

func validateMaps(dir string) *phase {
	p := &phase{name: "Phase 1: Map documents (HTML)"}
	for _, c := range mapChecks {
		data, err := os.ReadFile(filepath.Join(dir, c.file))
		if err != nil {
			p.errorf("%s: %v", c.file, err)
			continue
		}
		if !bytes.HasPrefix(data, []byte("<!DOCTYPE html>")) {
			p.errorf("%s: missing doctype", c.file)
		}
		for _, m := range c.markers {
			if !bytes.Contains(data, []byte(m)) {
				p.errorf("%s: missing %q", c.file, m)
			}
		}
	}
	return p
}

// ── Phase 2: Chart images ──

func validateCharts(dir string, dpi int) *phase {
	p := &phase{name: "Phase 2: Chart images (PNG)"}
	for _, c := range chartChecks {
		w, h, err := pngSize(filepath.Join(dir, c.file))
		if err != nil {
			p.errorf("%s: %v", c.file, err)
			continue
		}
		wantW, wantH := c.width*dpi, c.height*dpi
		if abs(w-wantW) > 1 || abs(h-wantH) > 1 {
			p.errorf("%s: size %dx%d, expected %dx%d at %d dpi", c.file, w, h, wantW, wantH, dpi)
		}
	}
	return p
}

func pngSize(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decode png: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// ── Phase 3: Summary workbook (optional) ──

func validateWorkbook(dir string) *phase {
	p := &phase{name: "Phase 3: Summary workbook (optional)"}

	path := filepath.Join(dir, workbook.SummaryFile)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		fmt.Printf("  Note: %s not present, skipping\n", workbook.SummaryFile)
		return p
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		p.errorf("%s: %v", workbook.SummaryFile, err)
		return p
	}
	defer f.Close()

	sheets := f.GetSheetList()
	for _, name := range []string{workbook.HourSheet, workbook.DaySheet, workbook.FactorSheet} {
		if !slices.Contains(sheets, name) {
			p.errorf("missing sheet %q", name)
			continue
		}
		rows, err := f.GetRows(name)
		if err != nil {
			p.errorf("sheet %q: %v", name, err)
			continue
		}
		if len(rows) == 0 {
			p.errorf("sheet %q: no header row", name)
		}
		if name == workbook.DaySheet && len(rows) != 8 {
			p.errorf("sheet %q: %d rows, expected header plus 7 weekdays", name, len(rows))
		}
	}
	return p
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
