package detect

import (
	"fmt"
	"image"
	"math"

	"github.com/diagramlab/diagram-tools-mcp/internal/element"
	"github.com/diagramlab/diagram-tools-mcp/internal/geometry"
	"github.com/diagramlab/diagram-tools-mcp/internal/imaging"
)

// Icons detects small, roughly square, visually busy regions — the
// signature of iconography as opposed to outlined shapes or text. It scans
// 32px windows and keeps those whose edge density falls in the icon band.
// Confidence is fixed at 0.7: the heuristic locates candidates, it cannot
// identify them.
func Icons(img image.Image, edges [][]bool) []element.Element {
	const window = 32
	const step = 16

	height := len(edges)
	if height == 0 {
		return nil
	}
	width := len(edges[0])

	var out []element.Element
	for y := 0; y+window <= height; y += step {
		for x := 0; x+window <= width; x += step {
			density := imaging.EdgeDensity(edges, x, y, window, window)
			if density < 0.15 || density > 0.6 {
				continue
			}

			box := geometry.Box{
				X: float64(x), Y: float64(y),
				Width: window, Height: window,
			}
			e, err := element.New(fmt.Sprintf("icon_%04d", len(out)), element.Icon, box, 0.7)
			if err != nil {
				continue
			}
			e.Metadata = element.Metadata{
				"method":       "edge_density",
				"edge_density": math.Round(density*1000) / 1000,
			}
			out = append(out, e)
		}
	}
	return out
}

// Pictures detects embedded raster images: large regions with high
// luminance variance (photographic texture) but moderate edge density.
// Confidence is fixed at 0.75.
func Pictures(img image.Image, edges [][]bool) []element.Element {
	const window = 96
	const step = 48

	b := img.Bounds()
	height := len(edges)
	if height == 0 {
		return nil
	}
	width := len(edges[0])

	var out []element.Element
	for y := 0; y+window <= height; y += step {
		for x := 0; x+window <= width; x += step {
			variance := luminanceVariance(img, x+b.Min.X, y+b.Min.Y, window)
			if variance < 800 {
				continue
			}
			if imaging.EdgeDensity(edges, x, y, window, window) > 0.5 {
				continue
			}

			box := geometry.Box{
				X: float64(x), Y: float64(y),
				Width: window, Height: window,
			}
			e, err := element.New(fmt.Sprintf("image_%04d", len(out)), element.Image, box, 0.75)
			if err != nil {
				continue
			}
			e.Metadata = element.Metadata{
				"method":   "variance",
				"variance": math.Round(variance),
			}
			out = append(out, e)
		}
	}
	return out
}

// BackgroundElement returns the single full-image background element every
// detection set carries, with the mean image color as its fill.
func BackgroundElement(img image.Image) element.Element {
	b := img.Bounds()
	box := geometry.Box{
		X: 0, Y: 0,
		Width:  float64(b.Dx()),
		Height: float64(b.Dy()),
	}

	e, _ := element.New("background_0000", element.Background, box, 1.0)
	fill := imaging.AverageColor(img, box)
	e.Metadata = element.Metadata{"fill_color": fill.Hex}
	return e
}

// luminanceVariance computes the variance of 8-bit luminance over a
// window-sized square at (x, y) in image coordinates, sampling every other
// pixel for speed.
func luminanceVariance(img image.Image, x, y, window int) float64 {
	var sum, sumSq float64
	n := 0

	for dy := 0; dy < window; dy += 2 {
		for dx := 0; dx < window; dx += 2 {
			r, g, b, _ := img.At(x+dx, y+dy).RGBA()
			l := float64(r>>8)*0.299 + float64(g>>8)*0.587 + float64(b>>8)*0.114
			sum += l
			sumSq += l * l
			n++
		}
	}
	if n == 0 {
		return 0
	}

	mean := sum / float64(n)
	return sumSq/float64(n) - mean*mean
}
