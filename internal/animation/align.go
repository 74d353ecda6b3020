// Package animation turns per-region irradiance series into the frames of a
// progressive-reveal chart: frame i shows the first i+1 samples of every
// region, with the newest sample highlighted.
package animation

import (
	"gonum.org/v1/gonum/floats"

	"github.com/openhelio/solar-motion/internal/domain"
)

// The shared X axis spans one apparent solar sweep, sunrise to sunset.
const (
	angleStart = 0.0
	angleEnd   = 180.0
)

// Align computes the frame count and shared angle axis for a set of series.
// The frame count is the longest series length; shorter series simply stop
// revealing early. Returns domain.ErrNoValidRegions when there is nothing to
// animate.
func Align(series []domain.Series) (int, []float64, error) {
	frames := 0
	for _, s := range series {
		if len(s.Values) > frames {
			frames = len(s.Values)
		}
	}
	if frames == 0 {
		return 0, nil, domain.ErrNoValidRegions
	}
	return frames, angleAxis(frames), nil
}

// angleAxis spreads n samples evenly over the sweep, endpoints included.
// floats.Span requires at least two elements; a lone sample sits at sunrise.
func angleAxis(n int) []float64 {
	if n == 1 {
		return []float64{angleStart}
	}
	return floats.Span(make([]float64, n), angleStart, angleEnd)
}
