// Command genmock writes a deterministic synthetic collision extract in the
// NYC Open Data column layout, then runs it through the domain package and
// prints the statistics tests assert against.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -out data/mock/collisions_sample.csv \
//	  -rows 2000 \
//	  -seed 20250626
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/couchcryptid/nyc-collision-visualizer/internal/adapter/dataset"
	"github.com/couchcryptid/nyc-collision-visualizer/internal/domain"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

var (
	firstDay = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	spanDays = 177
)

type borough struct {
	name     string
	lat, lon float64
}

var boroughs = []borough{
	{"MANHATTAN", 40.7831, -73.9712},
	{"BROOKLYN", 40.6782, -73.9442},
	{"QUEENS", 40.7282, -73.7949},
	{"BRONX", 40.8448, -73.8648},
	{"STATEN ISLAND", 40.5795, -74.1502},
}

// Weighted roughly like the real dataset: "Unspecified" dominates.
var factors = []struct {
	name   string
	weight int
}{
	{"Unspecified", 30},
	{"Driver Inattention/Distraction", 22},
	{"Failure to Yield Right-of-Way", 8},
	{"Following Too Closely", 7},
	{"Backing Unsafely", 5},
	{"Passing or Lane Usage Improper", 4},
	{"Unsafe Speed", 4},
	{"Passing Too Closely", 3},
	{"Traffic Control Disregarded", 3},
	{"Other Vehicular", 3},
	{"Unsafe Lane Changing", 2},
	{"Turning Improperly", 2},
	{"Driver Inexperience", 2},
	{"Alcohol Involvement", 1},
	{"Pavement Slippery", 1},
	{"", 3},
}

// Share of rows given blank or zero coordinates, as in the published extract.
const (
	missingCoordRate = 0.06
	zeroCoordRate    = 0.01
	badTimeRate      = 0.005
)

var columns = []string{
	dataset.ColCrashDate,
	dataset.ColCrashTime,
	"BOROUGH",
	dataset.ColLatitude,
	dataset.ColLongitude,
	dataset.ColInjured,
	dataset.ColKilled,
	dataset.ColFactor,
	"COLLISION_ID",
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "data/mock/collisions_sample.csv", "output path for the synthetic CSV")
	rows := flag.Int("rows", 2000, "number of rows to generate")
	seed := flag.Uint64("seed", 20250626, "random seed")
	flag.Parse()

	if *rows <= 0 {
		flag.Usage()
		return fmt.Errorf("-rows must be positive, got %d", *rows)
	}

	df := generate(*rows, *seed)
	if df.Err != nil {
		return fmt.Errorf("build frame: %w", df.Err)
	}
	if err := writeFrame(*out, df); err != nil {
		return fmt.Errorf("write %s: %w", *out, err)
	}
	log.Printf("wrote %d rows: %s", *rows, *out)

	table, err := dataset.TableFromFrame(df)
	if err != nil {
		return fmt.Errorf("convert frame: %w", err)
	}
	printStats(table)
	return nil
}

func generate(n int, seed uint64) dataframe.DataFrame {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	cols := make([][]string, len(columns))
	for i := range cols {
		cols[i] = make([]string, n)
	}

	totalWeight := 0
	for _, f := range factors {
		totalWeight += f.weight
	}

	for i := range n {
		b := boroughs[rng.IntN(len(boroughs))]
		day := firstDay.AddDate(0, 0, rng.IntN(spanDays))

		lat := strconv.FormatFloat(b.lat+rng.NormFloat64()*0.03, 'f', 6, 64)
		lon := strconv.FormatFloat(b.lon+rng.NormFloat64()*0.03, 'f', 6, 64)
		switch r := rng.Float64(); {
		case r < missingCoordRate:
			lat, lon = "", ""
		case r < missingCoordRate+zeroCoordRate:
			lat, lon = "0", "0"
		}

		clock := fmt.Sprintf("%d:%02d", hourOfDay(rng), rng.IntN(60))
		if rng.Float64() < badTimeRate {
			clock = "99:99"
		}

		cols[0][i] = day.Format("01/02/2006")
		cols[1][i] = clock
		cols[2][i] = b.name
		cols[3][i] = lat
		cols[4][i] = lon
		cols[5][i] = strconv.Itoa(injuries(rng))
		cols[6][i] = strconv.Itoa(fatalities(rng))
		cols[7][i] = pickFactor(rng, totalWeight)
		cols[8][i] = strconv.Itoa(4700000 + i)
	}

	ss := make([]series.Series, len(columns))
	for i, name := range columns {
		ss[i] = series.New(cols[i], series.String, name)
	}
	return dataframe.New(ss...)
}

// hourOfDay skews toward the afternoon rush like the real data.
func hourOfDay(rng *rand.Rand) int {
	h := int(16 + rng.NormFloat64()*5)
	return ((h % 24) + 24) % 24
}

func injuries(rng *rand.Rand) int {
	if rng.Float64() < 0.7 {
		return 0
	}
	return 1 + rng.IntN(3)
}

func fatalities(rng *rand.Rand) int {
	if rng.Float64() < 0.998 {
		return 0
	}
	return 1
}

func pickFactor(rng *rand.Rand, total int) string {
	r := rng.IntN(total)
	for _, f := range factors {
		if r < f.weight {
			return f.name
		}
		r -= f.weight
	}
	return factors[0].name
}

func writeFrame(path string, df dataframe.DataFrame) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := df.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printStats(table domain.Table) {
	enriched := domain.Enrich(table)
	cleaned, stats := domain.CleanWithStats(enriched)
	summary := domain.Summarize(cleaned)

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d\n", stats.Input)
	fmt.Printf("Unparsed timestamps: %d\n", domain.CountUnparsed(enriched))
	fmt.Printf("Dropped: missing=%d, out_of_bounds=%d\n", stats.MissingCoordinates, stats.OutOfBounds)
	fmt.Printf("Kept: %d\n", stats.Kept)

	fmt.Print("By hour:")
	for _, c := range summary.ByHour {
		fmt.Printf(" %s=%d", c.Label, c.Value)
	}
	fmt.Print("\nBy day:")
	for _, c := range summary.ByDay {
		fmt.Printf(" %s=%d", c.Label, c.Value)
	}
	fmt.Println("\nTop factors:")
	for i, c := range summary.TopFactors {
		fmt.Printf("  %2d. %-32s %d\n", i+1, c.Label, c.Value)
	}
}
