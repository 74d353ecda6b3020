// Command solar-motion runs the irradiance visualization service and its
// offline tools.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "solar-motion",
		Short: "Solar irradiance visualization from bench ADC measurements",
		Long: `solar-motion turns raw photoresistor ADC counts from the measurement bench
into per-region irradiance series and renders them as a progressive-reveal
animation of the sun's arc.

The serve subcommand runs the HTTP service; render produces the artifacts
offline from a CSV or XLSX file; regions prints the calibration table.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCmd(), newRenderCmd(), newRegionsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
