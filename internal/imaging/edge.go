package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
)

// DefaultEdgeThreshold is the gradient magnitude above which a pixel counts
// as an edge. It suits clean diagram renderings; noisy scans may need a
// higher value.
const DefaultEdgeThreshold = 30.0

// EdgeMap computes a binary edge map of img: true marks an edge pixel.
//
// The image is grayscaled and lightly Gaussian-blurred to suppress
// compression noise, then thresholded on the horizontal and vertical
// gradient magnitude. Border pixels are never edges. A threshold of 0 or
// below selects DefaultEdgeThreshold.
//
// The map is indexed [y][x] with the image's Min translated to (0,0). It is
// the shared input for the contour, Hough, and text-density detectors and
// for the refinement engine's edge-snap hook.
func EdgeMap(img image.Image, threshold float64) [][]bool {
	if threshold <= 0 {
		threshold = DefaultEdgeThreshold
	}

	gray := effect.Grayscale(img)
	smoothed := blur.Gaussian(gray, 1.0)

	b := smoothed.Bounds()
	width := b.Dx()
	height := b.Dy()

	edges := make([][]bool, height)
	for y := 0; y < height; y++ {
		edges[y] = make([]bool, width)
		for x := 0; x < width; x++ {
			if x == 0 || y == 0 || x == width-1 || y == height-1 {
				continue
			}

			c := lum(smoothed, x+b.Min.X, y+b.Min.Y)
			cx := lum(smoothed, x+1+b.Min.X, y+b.Min.Y)
			cy := lum(smoothed, x+b.Min.X, y+1+b.Min.Y)

			if math.Abs(c-cx) > threshold || math.Abs(c-cy) > threshold {
				edges[y][x] = true
			}
		}
	}

	return edges
}

// EdgeDensity returns the fraction of edge pixels inside the window
// [x, x+w) × [y, y+h), clipped to the map.
func EdgeDensity(edges [][]bool, x, y, w, h int) float64 {
	count := 0
	total := 0
	for yy := y; yy < y+h && yy < len(edges); yy++ {
		if yy < 0 {
			continue
		}
		row := edges[yy]
		for xx := x; xx < x+w && xx < len(row); xx++ {
			if xx < 0 {
				continue
			}
			total++
			if row[xx] {
				count++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total)
}

// lum returns the 8-bit luminance of a pixel using ITU-R BT.601 weights.
func lum(img image.Image, x, y int) float64 {
	r, g, b, _ := img.At(x, y).RGBA()
	return float64(r>>8)*0.299 + float64(g>>8)*0.587 + float64(b>>8)*0.114
}
