package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/couchcryptid/nyc-collision-visualizer/internal/domain"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Column names in the NYC Open Data collisions export.
const (
	ColCrashDate = "CRASH DATE"
	ColCrashTime = "CRASH TIME"
	ColLatitude  = "LATITUDE"
	ColLongitude = "LONGITUDE"
	ColInjured   = "NUMBER OF PERSONS INJURED"
	ColKilled    = "NUMBER OF PERSONS KILLED"
	ColFactor    = "CONTRIBUTING FACTOR VEHICLE 1"
)

// RequiredColumns lists the source columns the loader reads.
var RequiredColumns = []string{
	ColCrashDate, ColCrashTime, ColLatitude, ColLongitude,
	ColInjured, ColKilled, ColFactor,
}

// naValues are the cell values treated as missing.
var naValues = []string{"", "NA", "NaN", "<nil>"}

// ErrNoRows is returned by ReadFrame when the input has no data rows.
var ErrNoRows = errors.New("no data rows")

// Loader reads the collisions CSV from a fixed path.
// It implements pipeline.Loader.
type Loader struct {
	path   string
	logger *slog.Logger
}

// NewLoader creates a Loader for the given file.
func NewLoader(path string, logger *slog.Logger) *Loader {
	return &Loader{path: path, logger: logger}
}

// Load opens the file and parses it into a table in source row order.
// A missing file yields an error wrapping fs.ErrNotExist. A file with a
// header but no rows loads as an empty table.
func (l *Loader) Load(_ context.Context) (domain.Table, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open collisions file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read collisions file: %w", err)
	}

	df, err := ReadFrame(bytes.NewReader(data))
	if errors.Is(err, ErrNoRows) {
		l.logger.Warn("collisions file has no data rows", "path", l.path)
		return headerOnlyTable(data, err)
	}
	if err != nil {
		return nil, err
	}
	l.logger.Debug("collisions file parsed",
		"path", l.path,
		"rows", df.Nrow(),
		"columns", df.Ncol(),
	)
	return TableFromFrame(df)
}

// ReadFrame parses delimited text into a DataFrame with every column kept as
// strings and NA cells marked missing. Parser errors are returned as-is.
func ReadFrame(r io.Reader) (dataframe.DataFrame, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(naValues),
	)
	if df.Err != nil {
		if strings.HasSuffix(df.Err.Error(), "empty DataFrame") {
			return df, fmt.Errorf("read collisions csv: %w", ErrNoRows)
		}
		return df, fmt.Errorf("read collisions csv: %w", df.Err)
	}
	return df, nil
}

// headerOnlyTable checks the header of a file without data rows and returns
// an empty table. Input without even a header keeps noRows as its error.
func headerOnlyTable(data []byte, noRows error) (domain.Table, error) {
	header, err := csv.NewReader(bytes.NewReader(data)).Read()
	if errors.Is(err, io.EOF) {
		return nil, noRows
	}
	if err != nil {
		return nil, fmt.Errorf("read collisions csv: %w", err)
	}
	if err := checkColumns(header); err != nil {
		return nil, err
	}
	return domain.Table{}, nil
}

func checkColumns(names []string) error {
	for _, col := range RequiredColumns {
		if !slices.Contains(names, col) {
			return fmt.Errorf("read collisions csv: missing column %q", col)
		}
	}
	return nil
}

// TableFromFrame maps the required columns of a DataFrame onto collisions.
// Numeric cells that do not parse become nil, mirroring NaN coercion.
func TableFromFrame(df dataframe.DataFrame) (domain.Table, error) {
	if err := checkColumns(df.Names()); err != nil {
		return nil, err
	}

	var (
		dates   = df.Col(ColCrashDate)
		times   = df.Col(ColCrashTime)
		lats    = df.Col(ColLatitude)
		lons    = df.Col(ColLongitude)
		injured = df.Col(ColInjured)
		killed  = df.Col(ColKilled)
		factors = df.Col(ColFactor)
	)

	table := make(domain.Table, df.Nrow())
	for i := range table {
		table[i] = domain.Collision{
			CrashDate: stringAt(dates, i),
			CrashTime: stringAt(times, i),
			Latitude:  floatAt(lats, i),
			Longitude: floatAt(lons, i),
			Injured:   intAt(injured, i),
			Killed:    intAt(killed, i),
			Factor:    strings.TrimSpace(stringAt(factors, i)),
		}
	}
	return table, nil
}

func stringAt(s series.Series, i int) string {
	e := s.Elem(i)
	if e.IsNA() {
		return ""
	}
	return e.String()
}

func floatAt(s series.Series, i int) *float64 {
	raw := strings.TrimSpace(stringAt(s, i))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// intAt accepts "2" as well as "2.0", which exports produce for columns that
// contain blanks.
func intAt(s series.Series, i int) *int {
	f := floatAt(s, i)
	if f == nil {
		return nil
	}
	n := int(*f)
	return &n
}
