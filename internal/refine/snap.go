package refine

import (
	"github.com/diagramlab/diagram-tools-mcp/internal/element"
	"github.com/diagramlab/diagram-tools-mcp/internal/geometry"
)

// EdgeSnapper is a BoxRefiner that tightens a box to the smallest box
// containing the edge pixels inside it. It operates on a precomputed binary
// edge map (see the imaging package) so refinement stays pure and cheap: one
// scan of the box's pixels, no image decoding.
//
// A box containing no edge pixels is returned unchanged — an empty region is
// a detector problem, not something refinement should second-guess.
type EdgeSnapper struct {
	edges [][]bool
}

// NewEdgeSnapper wraps a row-major edge map. Rows may be nil or ragged;
// out-of-range pixels are treated as non-edges.
func NewEdgeSnapper(edges [][]bool) *EdgeSnapper {
	return &EdgeSnapper{edges: edges}
}

// RefineBox returns the tightest box around the edge pixels inside e's box,
// or the original box when the region holds no edges.
func (s *EdgeSnapper) RefineBox(e element.Element) geometry.Box {
	if len(s.edges) == 0 {
		return e.Box
	}

	y1 := clampInt(int(e.Box.Y), 0, len(s.edges))
	y2 := clampInt(int(e.Box.Bottom()+0.5), 0, len(s.edges))

	minX, minY := -1, -1
	maxX, maxY := -1, -1

	for y := y1; y < y2; y++ {
		row := s.edges[y]
		x1 := clampInt(int(e.Box.X), 0, len(row))
		x2 := clampInt(int(e.Box.Right()+0.5), 0, len(row))
		for x := x1; x < x2; x++ {
			if !row[x] {
				continue
			}
			if minX == -1 || x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if minY == -1 {
				minY = y
			}
			maxY = y
		}
	}

	if minX == -1 {
		return e.Box
	}

	return geometry.Box{
		X:      float64(minX),
		Y:      float64(minY),
		Width:  float64(maxX - minX + 1),
		Height: float64(maxY - minY + 1),
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
