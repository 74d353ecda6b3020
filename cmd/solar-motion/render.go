package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/openhelio/solar-motion/internal/config"
	"github.com/openhelio/solar-motion/internal/domain"
	"github.com/openhelio/solar-motion/internal/export"
	"github.com/openhelio/solar-motion/internal/observability"
	"github.com/openhelio/solar-motion/internal/pipeline"
	"github.com/openhelio/solar-motion/internal/render"
	"github.com/openhelio/solar-motion/internal/report"
)

func newRenderCmd() *cobra.Command {
	var (
		out        string
		regions    []string
		fps        int
		reportPath string
		qrPath     string
	)

	cmd := &cobra.Command{
		Use:   "render <measurements.csv|measurements.xlsx>",
		Short: "Render the animation from a measurement file without the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], out, regions, fps, reportPath, qrPath)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", export.AnimationFilename, "output GIF path")
	cmd.Flags().StringSliceVarP(&regions, "regions", "r", nil, "regions to plot (default: Brasil, Alemanha, Egito)")
	cmd.Flags().IntVar(&fps, "fps", 0, "animation frames per second (default from GIF_FPS)")
	cmd.Flags().StringVar(&reportPath, "report", "", "also write the PDF report to this path")
	cmd.Flags().StringVar(&qrPath, "qr", "", "also write the share QR code PNG to this path")

	return cmd
}

func runRender(cmd *cobra.Command, input, out string, regions []string, fps int, reportPath, qrPath string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Offline runs keep quiet unless something goes wrong.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	metrics := observability.NewMetrics()

	renderer := render.NewFrameRenderer(render.DefaultStyle())
	runner := pipeline.NewRunner(domain.DefaultTable(), renderer, logger, metrics, cfg.ShareLink, cfg.GIFFPS, cfg.QRSize)

	f, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("open measurements: %w", err)
	}
	defer f.Close()

	res, err := runner.RunFile(cmd.Context(), f, filepath.Base(input), pipeline.Request{
		Regions: regions,
		FPS:     fps,
	})
	if err != nil {
		var nvr *pipeline.NoValidRegionsError
		if errors.As(err, &nvr) {
			for _, w := range nvr.Warnings {
				fmt.Fprintf(os.Stderr, "aviso: %s\n", w)
			}
		}
		return err
	}

	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "aviso: %s\n", w)
	}

	if err := os.WriteFile(out, res.GIF, 0o644); err != nil {
		return fmt.Errorf("write animation: %w", err)
	}
	fmt.Printf("wrote animation: %s (%d frames, %d KB)\n", out, res.FrameCount, len(res.GIF)/1024)
	for _, reg := range res.Regions {
		fmt.Printf("  %-14s %d samples, %.1f to %.1f W/m², mean %.1f\n",
			reg.Name, reg.Stats.Count, reg.Stats.Min, reg.Stats.Max, reg.Stats.Mean)
	}

	if qrPath != "" {
		if err := os.WriteFile(qrPath, res.QR, 0o644); err != nil {
			return fmt.Errorf("write QR code: %w", err)
		}
		fmt.Printf("wrote QR code: %s -> %s\n", qrPath, res.ShareLink)
	}

	if reportPath != "" {
		rf, err := os.Create(reportPath)
		if err != nil {
			return fmt.Errorf("create report: %w", err)
		}
		if err := report.Build(rf, report.FromResult(res)); err != nil {
			rf.Close()
			return fmt.Errorf("build report: %w", err)
		}
		if err := rf.Close(); err != nil {
			return fmt.Errorf("close report: %w", err)
		}
		fmt.Printf("wrote report: %s\n", reportPath)
	}

	return nil
}
