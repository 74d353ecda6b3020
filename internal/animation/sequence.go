package animation

import (
	"fmt"

	"github.com/openhelio/solar-motion/internal/domain"
)

// Point is one highlighted sample position on the chart.
type Point struct {
	Angle float64 `json:"angle"`
	Value float64 `json:"value"`
}

// RegionFrame is one region's visible portion at a given frame: the revealed
// prefix of its series plus the marker on the newest sample. Angles and
// Values are views into the sequence's data and must not be modified.
type RegionFrame struct {
	Region string
	Angles []float64
	Values []float64
	Marker Point
}

// Sequence produces animation frames from aligned series. It is immutable
// after construction: Frame is a pure function of its index, so frames can be
// rendered in any order and re-rendered to identical results.
type Sequence struct {
	series []domain.Series
	angles []float64
	frames int
}

// NewSequence aligns the series (selection order preserved) and prepares
// frame generation.
func NewSequence(series []domain.Series) (*Sequence, error) {
	frames, angles, err := Align(series)
	if err != nil {
		return nil, err
	}

	owned := make([]domain.Series, len(series))
	copy(owned, series)

	return &Sequence{series: owned, angles: angles, frames: frames}, nil
}

// FrameCount returns the number of frames in the animation.
func (s *Sequence) FrameCount() int { return s.frames }

// Angles returns a copy of the shared angle axis.
func (s *Sequence) Angles() []float64 {
	out := make([]float64, len(s.angles))
	copy(out, s.angles)
	return out
}

// Regions returns the canonical region names in rendering order.
func (s *Sequence) Regions() []string {
	out := make([]string, len(s.series))
	for i, sr := range s.series {
		out[i] = sr.Region
	}
	return out
}

// Frame returns the visible state at step i. A region with L samples shows
// min(i+1, L) points; once exhausted its marker freezes on the final sample.
func (s *Sequence) Frame(i int) ([]RegionFrame, error) {
	if i < 0 || i >= s.frames {
		return nil, fmt.Errorf("frame %d out of range [0,%d)", i, s.frames)
	}

	out := make([]RegionFrame, 0, len(s.series))
	for _, sr := range s.series {
		n := min(i+1, len(sr.Values))
		if n == 0 {
			continue
		}
		out = append(out, RegionFrame{
			Region: sr.Region,
			Angles: s.angles[:n],
			Values: sr.Values[:n],
			Marker: Point{Angle: s.angles[n-1], Value: sr.Values[n-1]},
		})
	}
	return out, nil
}
