// Package workbook writes the chart aggregates to a spreadsheet.
package workbook

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/couchcryptid/nyc-collision-visualizer/internal/adapter/artifact"
	"github.com/couchcryptid/nyc-collision-visualizer/internal/domain"
	"github.com/xuri/excelize/v2"
)

// SummaryFile is the workbook file name.
const SummaryFile = "crash_summary.xlsx"

// Sheet names, in workbook order.
const (
	HourSheet   = "By Hour"
	DaySheet    = "By Day"
	FactorSheet = "Top Factors"
)

const defaultSheet = "Sheet1"

type sheet struct {
	name   string
	header [2]string
	rows   []domain.Count
}

// Writer saves a domain.Summary as an xlsx workbook.
// It implements pipeline.SummaryWriter.
type Writer struct {
	outputDir string
	logger    *slog.Logger
}

// NewWriter creates a Writer saving into outputDir.
func NewWriter(outputDir string, logger *slog.Logger) *Writer {
	return &Writer{outputDir: outputDir, logger: logger}
}

// WriteSummary writes one sheet per aggregate and returns the workbook path.
func (w *Writer) WriteSummary(_ context.Context, s domain.Summary) (string, error) {
	f, err := build(s)
	if err != nil {
		return "", fmt.Errorf("build workbook: %w", err)
	}
	defer f.Close()

	path, err := artifact.Write(w.outputDir, SummaryFile, func(out io.Writer) error {
		return f.Write(out)
	})
	if err != nil {
		return "", err
	}
	w.logger.Debug("summary workbook written", "path", path)
	return path, nil
}

func build(s domain.Summary) (*excelize.File, error) {
	sheets := []sheet{
		{name: HourSheet, header: [2]string{"Hour", "Crashes"}, rows: s.ByHour},
		{name: DaySheet, header: [2]string{"Day of Week", "Crashes"}, rows: s.ByDay},
		{name: FactorSheet, header: [2]string{"Contributing Factor", "Crashes"}, rows: s.TopFactors},
	}

	f := excelize.NewFile()
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}

	for i, sh := range sheets {
		if i == 0 {
			err = f.SetSheetName(defaultSheet, sh.name)
		} else {
			_, err = f.NewSheet(sh.name)
		}
		if err == nil {
			err = fill(f, sh, bold)
		}
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %q: %w", sh.name, err)
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

func fill(f *excelize.File, sh sheet, headerStyle int) error {
	header := []any{sh.header[0], sh.header[1]}
	if err := f.SetSheetRow(sh.name, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(sh.name, "A1", "B1", headerStyle); err != nil {
		return err
	}
	for i, c := range sh.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{c.Label, c.Value}
		if err := f.SetSheetRow(sh.name, cell, &row); err != nil {
			return err
		}
	}
	return f.SetColWidth(sh.name, "A", "A", 36)
}
