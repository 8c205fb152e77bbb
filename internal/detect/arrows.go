package detect

import (
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/diagramlab/diagram-tools-mcp/internal/element"
	"github.com/diagramlab/diagram-tools-mcp/internal/geometry"
	"github.com/diagramlab/diagram-tools-mcp/internal/imaging"
)

// arrowBoxPad widens an arrow's bounding box on every side so a thin
// horizontal or vertical connector still survives the refinement size
// filter.
const arrowBoxPad = 5.0

// maxArrowsPerImage caps the Hough peaks converted to elements.
const maxArrowsPerImage = 50

// Arrows detects straight connectors via the Hough line transform and
// probes both endpoints for arrowheads. Lines shorter than minLength pixels
// are discarded.
//
// Metadata carries the endpoints, direction, angle, pixel length, stroke
// color, and whether an arrowhead was found; the confidence is 0.9 for lines
// with a detected head and 0.75 otherwise, matching the convention that a
// headless line is still most likely a connector in diagram content.
func Arrows(img image.Image, edges [][]bool, minLength int) []element.Element {
	height := len(edges)
	if height == 0 {
		return nil
	}
	width := len(edges[0])

	peaks := houghPeaks(edges, width, height, minLength/2)

	var out []element.Element
	for _, pk := range peaks {
		if len(out) >= maxArrowsPerImage {
			break
		}

		start, end, ok := traceSegment(edges, width, height, pk, minLength)
		if !ok {
			continue
		}

		dx := float64(end.x - start.x)
		dy := float64(end.y - start.y)
		length := math.Hypot(dx, dy)
		if length < float64(minLength) {
			continue
		}
		angle := math.Atan2(dy, dx) * 180 / math.Pi

		headAtEnd := hasArrowhead(edges, end, start, width, height)
		headAtStart := hasArrowhead(edges, start, end, width, height)

		confidence := 0.75
		if headAtStart || headAtEnd {
			confidence = 0.9
		}

		box := geometry.Box{
			X:      math.Min(float64(start.x), float64(end.x)) - arrowBoxPad,
			Y:      math.Min(float64(start.y), float64(end.y)) - arrowBoxPad,
			Width:  math.Abs(dx) + 2*arrowBoxPad,
			Height: math.Abs(dy) + 2*arrowBoxPad,
		}

		e, err := element.New(fmt.Sprintf("arrow_%04d", len(out)), element.Arrow, box, confidence)
		if err != nil {
			continue
		}

		stroke := imaging.SampleColor(img, (start.x+end.x)/2, (start.y+end.y)/2)
		e.Metadata = element.Metadata{
			"start_point":   []float64{float64(start.x), float64(start.y)},
			"end_point":     []float64{float64(end.x), float64(end.y)},
			"direction":     direction(angle),
			"angle_degrees": math.Round(angle*10) / 10,
			"length":        math.Round(length*10) / 10,
			"stroke_color":  stroke.Hex,
			"has_arrowhead": headAtStart || headAtEnd,
			"head_at_start": headAtStart,
			"head_at_end":   headAtEnd,
		}

		out = append(out, e)
	}

	return out
}

// houghPeak is one local maximum in (rho, theta) Hough space.
type houghPeak struct {
	rho   int
	theta int
	votes int
}

// houghPeaks votes every edge pixel into (rho, theta) space at 1° resolution
// and returns the local maxima above threshold, strongest first.
func houghPeaks(edges [][]bool, width, height, threshold int) []houghPeak {
	maxDist := int(math.Hypot(float64(width), float64(height)))
	const numAngles = 180

	acc := make([][]int, maxDist*2)
	for i := range acc {
		acc[i] = make([]int, numAngles)
	}

	sinT := make([]float64, numAngles)
	cosT := make([]float64, numAngles)
	for t := 0; t < numAngles; t++ {
		rad := float64(t) * math.Pi / 180
		sinT[t] = math.Sin(rad)
		cosT[t] = math.Cos(rad)
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !edges[y][x] {
				continue
			}
			for t := 0; t < numAngles; t++ {
				rho := float64(x)*cosT[t] + float64(y)*sinT[t]
				idx := int(rho) + maxDist
				if idx >= 0 && idx < maxDist*2 {
					acc[idx][t]++
				}
			}
		}
	}

	var peaks []houghPeak
	for idx := 0; idx < maxDist*2; idx++ {
		for t := 0; t < numAngles; t++ {
			v := acc[idx][t]
			if v < threshold || !isLocalMax(acc, idx, t, maxDist*2, numAngles) {
				continue
			}
			peaks = append(peaks, houghPeak{rho: idx - maxDist, theta: t, votes: v})
		}
	}

	sort.Slice(peaks, func(i, j int) bool { return peaks[i].votes > peaks[j].votes })
	return peaks
}

func isLocalMax(acc [][]int, idx, t, maxIdx, numAngles int) bool {
	for dr := -2; dr <= 2; dr++ {
		for dt := -2; dt <= 2; dt++ {
			if dr == 0 && dt == 0 {
				continue
			}
			ni := idx + dr
			nt := (t + dt + numAngles) % numAngles
			if ni >= 0 && ni < maxIdx && acc[ni][nt] > acc[idx][t] {
				return false
			}
		}
	}
	return true
}

// traceSegment collects edge pixels within 2px of the peak's line and
// returns the extreme pair as the segment endpoints.
func traceSegment(edges [][]bool, width, height int, pk houghPeak, minPoints int) (start, end point, ok bool) {
	rad := float64(pk.theta) * math.Pi / 180
	cosA, sinA := math.Cos(rad), math.Sin(rad)
	rho := float64(pk.rho)

	count := 0
	minProj, maxProj := math.MaxFloat64, -math.MaxFloat64

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !edges[y][x] {
				continue
			}
			if math.Abs(float64(x)*cosA+float64(y)*sinA-rho) >= 2.0 {
				continue
			}
			count++
			// Project onto the line direction to find the extremes.
			proj := -float64(x)*sinA + float64(y)*cosA
			if proj < minProj {
				minProj = proj
				start = point{x, y}
			}
			if proj > maxProj {
				maxProj = proj
				end = point{x, y}
			}
		}
	}

	return start, end, count >= minPoints
}

// hasArrowhead reports whether the neighborhood of tip (looking back toward
// from) holds noticeably more edge pixels than a bare line would produce —
// the signature of a chevron or filled triangle.
func hasArrowhead(edges [][]bool, tip, from point, width, height int) bool {
	const radius = 8

	count := 0
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			x, y := tip.x+dx, tip.y+dy
			if x < 0 || x >= width || y < 0 || y >= height {
				continue
			}
			if edges[y][x] {
				count++
			}
		}
	}

	// A bare line contributes roughly 2*radius pixels to the window; heads
	// roughly double that.
	return count > 4*radius
}

// direction buckets an angle (degrees, y-down) into the four cardinal
// directions.
func direction(angle float64) string {
	switch {
	case angle >= -45 && angle < 45:
		return "right"
	case angle >= 45 && angle < 135:
		return "down"
	case angle >= -135 && angle < -45:
		return "up"
	default:
		return "left"
	}
}
