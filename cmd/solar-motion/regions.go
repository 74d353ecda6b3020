package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openhelio/solar-motion/internal/domain"
)

func newRegionsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "regions",
		Short: "Print the calibration table",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if asJSON {
				return printRegionsJSON()
			}
			printRegionsTable()
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output the table as JSON")

	return cmd
}

func printRegionsTable() {
	table := domain.DefaultTable()
	defaults := make(map[string]bool, domain.MaxSelection)
	for _, name := range domain.DefaultSelection() {
		defaults[name] = true
	}

	fmt.Printf("%-14s %12s %12s\n", "REGION", "SLOPE", "INTERCEPT")
	for _, name := range table.Regions() {
		coeffs, _, _ := table.Lookup(name)
		marker := " "
		if defaults[name] {
			marker = "*"
		}
		fmt.Printf("%-14s %12.6f %12.2f %s\n", name, coeffs.Slope, coeffs.Intercept, marker)
	}
	fmt.Printf("\n* default selection (up to %d regions per chart)\n", domain.MaxSelection)
}

func printRegionsJSON() error {
	table := domain.DefaultTable()

	type regionJSON struct {
		Name      string  `json:"name"`
		Slope     float64 `json:"slope"`
		Intercept float64 `json:"intercept"`
	}
	regions := make([]regionJSON, 0, table.Len())
	for _, name := range table.Regions() {
		coeffs, _, _ := table.Lookup(name)
		regions = append(regions, regionJSON{Name: name, Slope: coeffs.Slope, Intercept: coeffs.Intercept})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"regions":       regions,
		"default":       domain.DefaultSelection(),
		"max_selection": domain.MaxSelection,
	})
}
