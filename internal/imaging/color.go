package imaging

import (
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/diagramlab/diagram-tools-mcp/internal/geometry"
)

// ColorSample is one sampled color in the formats element metadata carries.
type ColorSample struct {
	// Hex is "#rrggbb".
	Hex string `json:"hex"`

	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`

	// H is in [0,360), S and L in [0,100].
	H float64 `json:"h"`
	S float64 `json:"s"`
	L float64 `json:"l"`
}

// SampleColor samples the pixel at (x, y). Out-of-bounds coordinates are
// clamped to the nearest pixel.
func SampleColor(img image.Image, x, y int) ColorSample {
	b := img.Bounds()
	x = clamp(x, b.Min.X, b.Max.X-1)
	y = clamp(y, b.Min.Y, b.Max.Y-1)

	c, ok := colorful.MakeColor(img.At(x, y))
	if !ok {
		// Fully transparent pixel; report black.
		return ColorSample{Hex: "#000000"}
	}
	return toSample(c)
}

// AverageColor averages the pixels inside box (clamped to the image) and
// returns the mean color. It is used for background and fill color metadata,
// where a single-pixel sample is too noisy.
func AverageColor(img image.Image, box geometry.Box) ColorSample {
	b := img.Bounds()
	x1 := clamp(int(box.X), b.Min.X, b.Max.X)
	y1 := clamp(int(box.Y), b.Min.Y, b.Max.Y)
	x2 := clamp(int(box.Right()+0.5), b.Min.X, b.Max.X)
	y2 := clamp(int(box.Bottom()+0.5), b.Min.Y, b.Max.Y)

	if x1 >= x2 || y1 >= y2 {
		return SampleColor(img, x1, y1)
	}

	var sr, sg, sb float64
	n := 0
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			sr += float64(r >> 8)
			sg += float64(g >> 8)
			sb += float64(bl >> 8)
			n++
		}
	}

	c := colorful.Color{
		R: sr / float64(n) / 255.0,
		G: sg / float64(n) / 255.0,
		B: sb / float64(n) / 255.0,
	}
	return toSample(c)
}

func toSample(c colorful.Color) ColorSample {
	r, g, b := c.RGB255()
	h, s, l := c.Hsl()
	return ColorSample{
		Hex: c.Hex(),
		R:   r, G: g, B: b,
		H: math.Round(h*10) / 10,
		S: math.Round(s*1000) / 10,
		L: math.Round(l*1000) / 10,
	}
}
