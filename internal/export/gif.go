// Package export encodes finished visualizations for download: the animated
// GIF and the QR share code.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
)

// AnimationFilename is the download name for the animated chart.
const AnimationFilename = "movimento_solar.gif"

// DefaultFPS is the animation cadence: one newly revealed sample every 100 ms.
const DefaultFPS = 10

// EncodeGIF assembles frames into an endlessly looping animation. Each frame
// is quantized to the Plan9 palette with Floyd-Steinberg dithering. GIF
// delays count in 100ths of a second, so fps above 100 is not expressible.
func EncodeGIF(frames []image.Image, fps int) ([]byte, error) {
	if len(frames) == 0 {
		return nil, errors.New("no frames to encode")
	}
	if fps <= 0 || fps > 100 {
		return nil, fmt.Errorf("fps %d out of range [1,100]", fps)
	}
	delay := 100 / fps

	out := &gif.GIF{
		Image:     make([]*image.Paletted, 0, len(frames)),
		Delay:     make([]int, 0, len(frames)),
		LoopCount: 0,
	}
	for _, frame := range frames {
		pimg := image.NewPaletted(frame.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(pimg, pimg.Bounds(), frame, frame.Bounds().Min)
		out.Image = append(out.Image, pimg)
		out.Delay = append(out.Delay, delay)
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, out); err != nil {
		return nil, fmt.Errorf("encode gif: %w", err)
	}
	return buf.Bytes(), nil
}
