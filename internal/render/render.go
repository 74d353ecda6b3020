// Package render draws animation frames as irradiance charts using gonum/plot.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/openhelio/solar-motion/internal/animation"
)

// FrameRenderer draws one chart per animation frame. A renderer is stateless
// and safe for reuse across runs.
type FrameRenderer struct {
	style Style
}

// NewFrameRenderer creates a renderer with the given style.
func NewFrameRenderer(style Style) *FrameRenderer {
	return &FrameRenderer{style: style}
}

// RenderFrame draws a frame and returns it decoded, ready for GIF assembly.
func (r *FrameRenderer) RenderFrame(frame []animation.RegionFrame) (image.Image, error) {
	data, err := r.RenderPNG(frame)
	if err != nil {
		return nil, err
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode rendered frame: %w", err)
	}
	return img, nil
}

// RenderPNG draws a frame as a standalone PNG, used for previews and the PDF
// report's final-frame chart.
func (r *FrameRenderer) RenderPNG(frame []animation.RegionFrame) ([]byte, error) {
	p := plot.New()
	p.Title.Text = r.style.Title
	p.X.Label.Text = r.style.XLabel
	p.Y.Label.Text = r.style.YLabel
	p.BackgroundColor = r.style.Background

	grid := plotter.NewGrid()
	grid.Vertical.Color = r.style.Grid
	grid.Vertical.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
	grid.Horizontal.Color = r.style.Grid
	grid.Horizontal.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
	p.Add(grid)

	for i, rf := range frame {
		line, err := plotter.NewLine(toXYs(rf.Angles, rf.Values))
		if err != nil {
			return nil, fmt.Errorf("line for %s: %w", rf.Region, err)
		}
		line.LineStyle.Color = r.style.Palette[i%len(r.style.Palette)]
		line.LineStyle.Width = r.style.LineWidth
		p.Add(line)
		p.Legend.Add(rf.Region, line)

		marker, err := plotter.NewScatter(plotter.XYs{{X: rf.Marker.Angle, Y: rf.Marker.Value}})
		if err != nil {
			return nil, fmt.Errorf("marker for %s: %w", rf.Region, err)
		}
		marker.GlyphStyle = draw.GlyphStyle{
			Color:  r.style.Marker,
			Radius: r.style.MarkerRadius,
			Shape:  draw.CircleGlyph{},
		}
		p.Add(marker)
	}

	p.Legend.Top = true

	// Pin the axes last: Add expands ranges from the data, and a reveal
	// animation must not rescale between frames.
	p.X.Min, p.X.Max = r.style.XMin, r.style.XMax
	p.Y.Min, p.Y.Max = r.style.YMin, r.style.YMax

	wt, err := p.WriterTo(r.style.Width, r.style.Height, "png")
	if err != nil {
		return nil, fmt.Errorf("create png writer: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("render png: %w", err)
	}
	return buf.Bytes(), nil
}

func toXYs(xs, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	return pts
}
