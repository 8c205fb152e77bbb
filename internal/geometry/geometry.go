// Package geometry provides pure functions over axis-aligned bounding boxes.
//
// All functions are deterministic, allocate nothing, and hold no state, so
// they are safe to call concurrently without synchronization. Boxes use image
// pixel coordinates: (0,0) at the top-left corner, X increasing rightward,
// Y increasing downward.
//
// Negative widths or heights are rejected where elements are constructed
// (see the element package); the functions here assume well-formed boxes and
// absorb degenerate zero-area inputs into defined outputs rather than
// dividing by zero.
package geometry

// Box is an axis-aligned rectangle in image pixel space.
//
// X and Y locate the top-left corner. Width and Height are extents and are
// never negative for boxes that passed element construction. Derived
// quantities (area, right/bottom edge) are computed on demand, never stored.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Area returns Width × Height.
func (b Box) Area() float64 {
	return b.Width * b.Height
}

// Right returns the X coordinate of the right edge.
func (b Box) Right() float64 {
	return b.X + b.Width
}

// Bottom returns the Y coordinate of the bottom edge.
func (b Box) Bottom() float64 {
	return b.Y + b.Height
}

// IntersectionArea returns the area of the overlap between a and b,
// or 0 when they do not overlap.
func IntersectionArea(a, b Box) float64 {
	x1 := max(a.X, b.X)
	y1 := max(a.Y, b.Y)
	x2 := min(a.Right(), b.Right())
	y2 := min(a.Bottom(), b.Bottom())

	if x2 <= x1 || y2 <= y1 {
		return 0
	}
	return (x2 - x1) * (y2 - y1)
}

// UnionArea returns the area covered by a or b (inclusion-exclusion,
// not the area of the covering box).
func UnionArea(a, b Box) float64 {
	return a.Area() + b.Area() - IntersectionArea(a, b)
}

// IoU returns the intersection-over-union of a and b.
//
// The result is in [0,1]: 0 when the boxes do not overlap or when the union
// is degenerate (both boxes zero-area), 1 when the boxes coincide exactly.
func IoU(a, b Box) float64 {
	inter := IntersectionArea(a, b)
	if inter == 0 {
		return 0
	}
	union := a.Area() + b.Area() - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

// Cover returns the smallest box containing both a and b: the minimum of the
// left/top edges and the maximum of the right/bottom edges. It is the box a
// merge of overlapping detections collapses to.
func Cover(a, b Box) Box {
	x1 := min(a.X, b.X)
	y1 := min(a.Y, b.Y)
	x2 := max(a.Right(), b.Right())
	y2 := max(a.Bottom(), b.Bottom())

	return Box{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}
