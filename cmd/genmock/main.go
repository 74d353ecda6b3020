// Command genmock generates the bench measurement fixtures used by the test
// suite: a CSV of synthetic ADC readings tracing one solar arc per calibrated
// region, and the JSON of irradiance series the conversion must produce from
// it. It uses the actual calibration table so the expected values match real
// pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genmock -out-dir data/mock -points 24
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/openhelio/solar-motion/internal/domain"
)

// Arc peaks are staggered per region so every line in the rendered chart is
// distinguishable while staying inside the 0-1000 W/m² axis.
const (
	basePeak = 650.0
	peakStep = 20.0
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out-dir", "data/mock", "output directory for fixture files")
	points := flag.Int("points", 24, "samples per region across the 0-180 degree arc")
	flag.Parse()

	if *points < 2 {
		return fmt.Errorf("-points must be at least 2, got %d", *points)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	table := domain.DefaultTable()
	series := make(map[string][]float64, table.Len())

	csvPath := filepath.Join(*outDir, "measurements.csv")
	f, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("create CSV: %w", err)
	}
	defer f.Close()

	// Excel wants a BOM to pick up the accented header as UTF-8.
	if _, err := f.WriteString("\uFEFF"); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Região", "ADC"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for idx, name := range table.Regions() {
		coeffs, _, _ := table.Lookup(name)
		peak := basePeak + peakStep*float64(idx)

		values := make([]float64, *points)
		for j := 0; j < *points; j++ {
			// The arc: irradiance follows sin(angle) from sunrise to sunset.
			irr := peak * math.Sin(math.Pi*float64(j)/float64(*points-1))

			// Invert the calibration to get the integer count the sensor
			// would have reported, then convert it back so the expected
			// series reflects the quantized ADC, not the ideal arc.
			adc := math.Round((irr - coeffs.Intercept) / coeffs.Slope)
			values[j] = coeffs.Convert(adc)

			if err := w.Write([]string{name, strconv.FormatFloat(adc, 'f', 0, 64)}); err != nil {
				return fmt.Errorf("write row: %w", err)
			}
		}
		series[name] = values
		log.Printf("%s: %d samples, peak %.0f W/m²", name, *points, peak)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush CSV: %w", err)
	}
	log.Printf("wrote measurement fixture: %s", csvPath)

	jsonPath := filepath.Join(*outDir, "expected_series.json")
	if err := writeJSON(jsonPath, expected{Points: *points, Series: series}); err != nil {
		return fmt.Errorf("writing expected series: %w", err)
	}
	log.Printf("wrote expected series: %s", jsonPath)

	return nil
}

type expected struct {
	Points int                  `json:"points"`
	Series map[string][]float64 `json:"series"`
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", " ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
