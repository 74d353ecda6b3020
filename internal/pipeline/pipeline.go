// Package pipeline orchestrates one visualization run: resolve the selected
// regions, compute irradiance series, sequence the reveal animation, render
// every frame, and encode the downloadable artifacts.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/openhelio/solar-motion/internal/animation"
	"github.com/openhelio/solar-motion/internal/domain"
	"github.com/openhelio/solar-motion/internal/export"
	"github.com/openhelio/solar-motion/internal/observability"
)

// Renderer draws one animation frame as an image.
type Renderer interface {
	RenderFrame(frame []animation.RegionFrame) (image.Image, error)
}

// Request describes one visualization run. An empty Regions selection falls
// back to domain.DefaultSelection; FPS <= 0 uses the runner's default.
type Request struct {
	Readings []domain.Reading
	Regions  []string
	FPS      int
}

// RegionResult is the outcome for one region that survived the run.
type RegionResult struct {
	Name         string              `json:"name"`
	Coefficients domain.Coefficients `json:"coefficients"`
	Stats        domain.Stats        `json:"stats"`
	Values       []float64           `json:"values"`
}

// Result is a completed run: the encoded artifacts plus everything the
// result page, JSON API, and PDF report present.
type Result struct {
	GIF      []byte `json:"-"`
	QR       []byte `json:"-"`
	ChartPNG []byte `json:"-"`

	Regions    []RegionResult `json:"regions"`
	Angles     []float64      `json:"angles"`
	FrameCount int            `json:"frame_count"`
	Warnings   []string       `json:"warnings,omitempty"`

	Source      string        `json:"source,omitempty"`
	ShareLink   string        `json:"share_link"`
	Elapsed     time.Duration `json:"-"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// NoValidRegionsError is returned when every selected region was dropped. It
// carries the drop warnings so callers can show why the run came up empty.
type NoValidRegionsError struct {
	Warnings []string
}

func (e *NoValidRegionsError) Error() string { return domain.ErrNoValidRegions.Error() }

func (e *NoValidRegionsError) Unwrap() error { return domain.ErrNoValidRegions }

// Runner executes visualization runs against a fixed calibration table.
type Runner struct {
	table     domain.CoefficientTable
	renderer  Renderer
	logger    *slog.Logger
	metrics   *observability.Metrics
	shareLink string
	fps       int
	qrSize    int
	ready     atomic.Bool
}

// NewRunner creates a Runner with the given renderer, observability, and
// output settings.
func NewRunner(table domain.CoefficientTable, renderer Renderer, logger *slog.Logger, metrics *observability.Metrics, shareLink string, fps, qrSize int) *Runner {
	if fps <= 0 {
		fps = export.DefaultFPS
	}
	return &Runner{
		table:     table,
		renderer:  renderer,
		logger:    logger,
		metrics:   metrics,
		shareLink: shareLink,
		fps:       fps,
		qrSize:    qrSize,
	}
}

// Table returns the calibration table runs resolve against.
func (r *Runner) Table() domain.CoefficientTable { return r.table }

// ShareLink returns the link encoded into QR codes.
func (r *Runner) ShareLink() string { return r.shareLink }

// Run executes a full visualization: compute, sequence, render, encode.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	r.metrics.RunsTotal.Inc()

	series, warnings, err := r.computeSeries(req)
	if err != nil {
		r.metrics.RunErrorsTotal.Inc()
		return nil, err
	}

	seq, err := animation.NewSequence(series)
	if err != nil {
		r.metrics.RunErrorsTotal.Inc()
		return nil, err
	}

	frames := make([]image.Image, 0, seq.FrameCount())
	for i := 0; i < seq.FrameCount(); i++ {
		if err := ctx.Err(); err != nil {
			r.metrics.RunErrorsTotal.Inc()
			return nil, err
		}

		frame, err := seq.Frame(i)
		if err != nil {
			r.metrics.RunErrorsTotal.Inc()
			return nil, err
		}
		img, err := r.renderer.RenderFrame(frame)
		if err != nil {
			r.metrics.RunErrorsTotal.Inc()
			return nil, fmt.Errorf("render frame %d: %w", i, err)
		}
		frames = append(frames, img)
		r.metrics.FramesRenderedTotal.Inc()
	}

	fps := req.FPS
	if fps <= 0 {
		fps = r.fps
	}
	gifData, err := export.EncodeGIF(frames, fps)
	if err != nil {
		r.metrics.RunErrorsTotal.Inc()
		return nil, err
	}
	qrData, err := export.EncodeQR(r.shareLink, r.qrSize)
	if err != nil {
		r.metrics.RunErrorsTotal.Inc()
		return nil, err
	}

	var chart bytes.Buffer
	if err := png.Encode(&chart, frames[len(frames)-1]); err != nil {
		r.metrics.RunErrorsTotal.Inc()
		return nil, fmt.Errorf("encode final frame: %w", err)
	}

	res := r.buildResult(series, seq, warnings)
	res.GIF = gifData
	res.QR = qrData
	res.ChartPNG = chart.Bytes()
	res.Elapsed = time.Since(start)

	r.metrics.RunDuration.Observe(res.Elapsed.Seconds())
	r.metrics.GIFBytes.Observe(float64(len(gifData)))
	r.ready.Store(true)

	r.logger.Info("run complete",
		"regions", len(res.Regions),
		"frames", res.FrameCount,
		"gif_bytes", len(gifData),
		"warnings", len(res.Warnings),
		"elapsed", res.Elapsed,
	)
	return res, nil
}

// SeriesOnly computes and aligns the selection without rendering. The JSON
// series API and the interactive chart need numbers, not frames.
func (r *Runner) SeriesOnly(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	series, warnings, err := r.computeSeries(req)
	if err != nil {
		r.metrics.RunErrorsTotal.Inc()
		return nil, err
	}
	seq, err := animation.NewSequence(series)
	if err != nil {
		r.metrics.RunErrorsTotal.Inc()
		return nil, err
	}

	res := r.buildResult(series, seq, warnings)
	res.Elapsed = time.Since(start)
	return res, nil
}

// computeSeries resolves the selection in order and computes irradiance per
// region. Dropping is graceful: unknown or empty regions become user-facing
// warnings, duplicates collapse to their first occurrence, and only an empty
// outcome fails the run.
func (r *Runner) computeSeries(req Request) ([]domain.Series, []string, error) {
	selection := req.Regions
	if len(selection) == 0 {
		selection = domain.DefaultSelection()
	}

	var (
		warnings []string
		series   []domain.Series
	)
	seen := make(map[string]bool, len(selection))

	for _, name := range selection {
		_, canonical, found := r.table.Lookup(name)
		if !found {
			warnings = append(warnings, fmt.Sprintf("Nenhuma calibração para %s", strings.TrimSpace(name)))
			r.metrics.RegionsDroppedTotal.Inc()
			r.logger.Warn("region dropped", "region", name, "reason", "unknown region")
			continue
		}
		if seen[canonical] {
			continue
		}
		seen[canonical] = true

		s, err := r.table.ComputeSeries(canonical, req.Readings)
		switch {
		case errors.Is(err, domain.ErrNoRegionData):
			warnings = append(warnings, fmt.Sprintf("Nenhum dado encontrado para %s", canonical))
			r.metrics.RegionsDroppedTotal.Inc()
			r.logger.Warn("region dropped", "region", canonical, "reason", "no data")
			continue
		case err != nil:
			return nil, nil, err
		}

		series = append(series, s)
		r.metrics.RegionSelectedTotal.WithLabelValues(canonical).Inc()
	}

	if len(series) == 0 {
		return nil, nil, &NoValidRegionsError{Warnings: warnings}
	}
	if len(series) > domain.MaxSelection {
		warnings = append(warnings, fmt.Sprintf("Mais de %d regiões selecionadas; o gráfico pode ficar carregado", domain.MaxSelection))
	}
	return series, warnings, nil
}

func (r *Runner) buildResult(series []domain.Series, seq *animation.Sequence, warnings []string) *Result {
	regions := make([]RegionResult, len(series))
	for i, s := range series {
		coeffs, _, _ := r.table.Lookup(s.Region)
		regions[i] = RegionResult{
			Name:         s.Region,
			Coefficients: coeffs,
			Stats:        domain.Summarize(s.Values),
			Values:       s.Values,
		}
	}

	return &Result{
		Regions:     regions,
		Angles:      seq.Angles(),
		FrameCount:  seq.FrameCount(),
		Warnings:    warnings,
		ShareLink:   r.shareLink,
		GeneratedAt: domain.Now(),
	}
}

// Warmup renders a synthetic one-point frame so the first user request does
// not pay the renderer's font-cache cost, then marks the service ready.
func (r *Runner) Warmup(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	seq, err := animation.NewSequence([]domain.Series{{Region: "aquecimento", Values: []float64{500}}})
	if err != nil {
		return err
	}
	frame, err := seq.Frame(0)
	if err != nil {
		return err
	}
	if _, err := r.renderer.RenderFrame(frame); err != nil {
		return fmt.Errorf("warmup render: %w", err)
	}

	r.ready.Store(true)
	r.logger.Info("renderer warmed up")
	return nil
}

// CheckReadiness returns nil once the renderer has produced at least one
// frame (warmup included), or an error describing why the service is not
// yet ready.
func (r *Runner) CheckReadiness(_ context.Context) error {
	if !r.ready.Load() {
		return errors.New("renderer has not produced a frame yet")
	}
	return nil
}
