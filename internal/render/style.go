package render

import (
	"image/color"

	"gonum.org/v1/plot/vg"
)

// Style holds the chart's visual parameters. The defaults reproduce the look
// of the classroom tool the bench data was first plotted with: fixed axes so
// frames don't jump, a pale sky background, and a gold marker on the newest
// sample.
type Style struct {
	Title  string
	XLabel string
	YLabel string

	// Fixed axis ranges, pinned after plotters are added so autoscaling
	// never shifts them between frames.
	XMin, XMax float64
	YMin, YMax float64

	Width  vg.Length
	Height vg.Length

	Background color.Color
	Grid       color.Color

	// Palette cycles by selection position, so a region keeps its color in
	// every frame and in the legend.
	Palette []color.Color
	Marker  color.Color

	LineWidth    vg.Length
	MarkerRadius vg.Length
}

// DefaultStyle returns the standard chart appearance.
func DefaultStyle() Style {
	return Style{
		Title:  "Movimento do Sol - Irradiância Solar",
		XLabel: "Ângulo Solar (graus)",
		YLabel: "Irradiância (W/m²)",

		XMin: 0,
		XMax: 180,
		YMin: 0,
		YMax: 1000,

		Width:  12 * vg.Inch,
		Height: 6 * vg.Inch,

		Background: color.RGBA{R: 0xcc, G: 0xe6, B: 0xff, A: 0xff},
		Grid:       color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xff},

		Palette: []color.Color{
			color.RGBA{R: 0xff, G: 0xa5, A: 0xff}, // orange
			color.RGBA{G: 0x80, A: 0xff},          // green
			color.RGBA{R: 0xff, A: 0xff},          // red
			color.RGBA{B: 0xff, A: 0xff},          // blue
		},
		Marker: color.RGBA{R: 0xff, G: 0xd7, A: 0xff}, // gold

		LineWidth:    vg.Points(2),
		MarkerRadius: vg.Points(5),
	}
}
