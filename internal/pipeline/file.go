package pipeline

import (
	"context"
	"errors"
	"io"

	"github.com/openhelio/solar-motion/internal/dataset"
	"github.com/openhelio/solar-motion/internal/domain"
)

// RunFile parses a measurement file and executes a full run. Parse warnings
// (skipped rows) are merged ahead of the run's own warnings so the result
// page lists problems in file order.
func (r *Runner) RunFile(ctx context.Context, src io.Reader, filename string, req Request) (*Result, error) {
	readings, report, err := r.parse(src, filename)
	if err != nil {
		return nil, err
	}

	req.Readings = readings
	res, err := r.Run(ctx, req)
	if err != nil {
		return nil, mergeWarningsIntoError(err, report.Warnings)
	}

	res.Source = filename
	res.Warnings = mergeWarnings(report.Warnings, res.Warnings)
	return res, nil
}

// SeriesFile parses a measurement file and computes series without rendering.
func (r *Runner) SeriesFile(ctx context.Context, src io.Reader, filename string, req Request) (*Result, error) {
	readings, report, err := r.parse(src, filename)
	if err != nil {
		return nil, err
	}

	req.Readings = readings
	res, err := r.SeriesOnly(ctx, req)
	if err != nil {
		return nil, mergeWarningsIntoError(err, report.Warnings)
	}

	res.Source = filename
	res.Warnings = mergeWarnings(report.Warnings, res.Warnings)
	return res, nil
}

func (r *Runner) parse(src io.Reader, filename string) ([]domain.Reading, *dataset.Report, error) {
	readings, report, err := dataset.Read(src, filename)
	if err != nil {
		r.metrics.RunErrorsTotal.Inc()
		return nil, nil, err
	}

	r.metrics.RowsParsedTotal.Add(float64(report.Rows - report.Skipped))
	r.metrics.RowsSkippedTotal.Add(float64(report.Skipped))
	if report.Skipped > 0 {
		r.logger.Warn("rows skipped during parse", "file", filename, "skipped", report.Skipped, "rows", report.Rows)
	}
	return readings, report, nil
}

func mergeWarnings(parse, run []string) []string {
	if len(parse) == 0 {
		return run
	}
	merged := make([]string, 0, len(parse)+len(run))
	merged = append(merged, parse...)
	return append(merged, run...)
}

// mergeWarningsIntoError folds parse warnings into a NoValidRegionsError so
// the error page can still explain the skipped rows.
func mergeWarningsIntoError(err error, parseWarnings []string) error {
	var nvr *NoValidRegionsError
	if errors.As(err, &nvr) {
		nvr.Warnings = mergeWarnings(parseWarnings, nvr.Warnings)
	}
	return err
}
