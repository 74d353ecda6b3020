// Command validate performs integrity checks across the mock measurement
// fixtures: the bench CSV parses cleanly, every calibrated region is covered,
// the ADC counts are plausible sensor output, and the conversion of the CSV
// reproduces the expected irradiance series exactly.
//
// Usage:
//
//	go run ./cmd/validate -data-dir data/mock
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/openhelio/solar-motion/internal/dataset"
	"github.com/openhelio/solar-motion/internal/domain"
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

type expected struct {
	Points int                  `json:"points"`
	Series map[string][]float64 `json:"series"`
}

func main() {
	dataDir := flag.String("data-dir", "data/mock", "directory containing the mock fixtures")
	flag.Parse()

	if code := run(*dataDir); code != 0 {
		os.Exit(code)
	}
}

func run(dataDir string) int {
	fmt.Println("=== Solar Mock Data Validation ===")
	fmt.Println()

	csvPath := filepath.Join(dataDir, "measurements.csv")
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: open measurement CSV: %v\n", err)
		return 1
	}
	defer f.Close()

	readings, report, err := dataset.ReadCSV(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: parse measurement CSV: %v\n", err)
		return 1
	}

	want, err := loadExpected(filepath.Join(dataDir, "expected_series.json"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load expected series: %v\n", err)
		return 1
	}

	table := domain.DefaultTable()

	phases := []*phase{
		validateParse(report, table, want),
		validateCoverage(readings, table, want.Points),
		validateADCIntegrity(readings),
		validateConversion(readings, table, want),
		validateAxisFit(want),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d CSV rows, %d regions, %d samples per region\n",
		report.Rows, len(want.Series), want.Points)

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

func loadExpected(path string) (*expected, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var want expected
	if err := json.Unmarshal(data, &want); err != nil {
		return nil, err
	}
	return &want, nil
}

// validateParse checks that the fixture parses without skipped rows and has
// the row count the expected series implies.
func validateParse(report *dataset.Report, table domain.CoefficientTable, want *expected) *phase {
	p := &phase{name: "CSV parses cleanly"}

	if report.Skipped > 0 {
		p.errorf("%d rows skipped during parse", report.Skipped)
		for _, w := range report.Warnings {
			p.errorf("parser warning: %s", w)
		}
	}

	wantRows := table.Len() * want.Points
	if report.Rows != wantRows {
		p.errorf("row count mismatch: CSV has %d, table×points implies %d", report.Rows, wantRows)
	}
	return p
}

// validateCoverage checks that every calibrated region appears exactly the
// expected number of times and nothing else does.
func validateCoverage(readings []domain.Reading, table domain.CoefficientTable, points int) *phase {
	p := &phase{name: "Region coverage"}

	counts := make(map[string]int)
	for _, r := range readings {
		counts[r.Region]++
	}

	for _, name := range table.Regions() {
		switch got := counts[name]; {
		case got == 0:
			p.errorf("region %s missing from CSV", name)
		case got != points:
			p.errorf("region %s has %d samples, want %d", name, got, points)
		}
		delete(counts, name)
	}
	for name, n := range counts {
		p.errorf("unknown region %q with %d rows", name, n)
	}
	return p
}

// validateADCIntegrity checks the counts look like sensor output: integral
// and within a plausible magnitude.
func validateADCIntegrity(readings []domain.Reading) *phase {
	p := &phase{name: "ADC integrity"}

	for i, r := range readings {
		if math.Trunc(r.ADC) != r.ADC {
			p.errorf("row %d (%s): ADC %v is not integral", i+1, r.Region, r.ADC)
		}
		if math.Abs(r.ADC) > 200_000 {
			p.errorf("row %d (%s): ADC %v outside plausible range", i+1, r.Region, r.ADC)
		}
	}
	return p
}

// validateConversion recomputes every series through the calibration table
// and compares it to the expected JSON.
func validateConversion(readings []domain.Reading, table domain.CoefficientTable, want *expected) *phase {
	p := &phase{name: "Conversion parity"}

	for name, expectedValues := range want.Series {
		series, err := table.ComputeSeries(name, readings)
		if err != nil {
			p.errorf("region %s: %v", name, err)
			continue
		}
		if len(series.Values) != len(expectedValues) {
			p.errorf("region %s: %d converted samples, want %d", name, len(series.Values), len(expectedValues))
			continue
		}
		for i, v := range series.Values {
			if math.Abs(v-expectedValues[i]) > 1e-9 {
				p.errorf("region %s sample %d: converted %.9f, expected %.9f", name, i, v, expectedValues[i])
			}
		}
	}
	return p
}

// validateAxisFit checks every expected value lands inside the chart's fixed
// irradiance axis, with a little tolerance for the quantization dip below
// zero at sunrise and sunset.
func validateAxisFit(want *expected) *phase {
	p := &phase{name: "Values fit the chart axis"}

	for name, values := range want.Series {
		for i, v := range values {
			if v < -5 || v > 1000 {
				p.errorf("region %s sample %d: %.3f W/m² outside [0, 1000] axis", name, i, v)
			}
		}
	}
	return p
}
