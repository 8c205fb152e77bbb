package detect

import (
	"fmt"
	"image"
	"math"

	"github.com/diagramlab/diagram-tools-mcp/internal/element"
	"github.com/diagramlab/diagram-tools-mcp/internal/geometry"
	"github.com/diagramlab/diagram-tools-mcp/internal/imaging"
)

// Shapes detects closed shapes (boxes, nodes, blobs) via contour analysis
// over the edge map. Contours whose bounding area is below minArea are
// dropped as noise.
//
// The shape class is estimated from how the contour's pixel count compares
// to the perimeter of its bounding rectangle and of its inscribed ellipse: a
// near-rectangle perimeter reads as a rectangle (or square when nearly
// equilateral), a near-ellipse circumference as an ellipse, anything else as
// a blob with low confidence. Metadata carries the class, the contour size,
// and the fill color sampled at the center.
func Shapes(img image.Image, edges [][]bool, minArea int) []element.Element {
	var out []element.Element

	for _, contour := range findContours(edges) {
		minX, minY, maxX, maxY := contourBounds(contour)
		w := maxX - minX
		h := maxY - minY
		if w*h < minArea {
			continue
		}

		class, confidence := classifyShape(len(contour), w, h)

		box := geometry.Box{
			X:      float64(minX),
			Y:      float64(minY),
			Width:  float64(w),
			Height: float64(h),
		}

		e, err := element.New(fmt.Sprintf("shape_%04d", len(out)), element.Shape, box, confidence)
		if err != nil {
			continue
		}

		center := imaging.SampleColor(img, (minX+maxX)/2, (minY+maxY)/2)
		border := imaging.SampleColor(img, minX, minY)
		e.Metadata = element.Metadata{
			"shape_type":     class,
			"contour_points": len(contour),
			"fill_color":     center.Hex,
			"border_color":   border.Hex,
		}

		out = append(out, e)
	}

	return out
}

// classifyShape estimates a shape class and confidence from the contour
// pixel count and the bounding box extents.
func classifyShape(contourLen, w, h int) (string, float64) {
	rectPerimeter := float64(2 * (w + h))
	// Ramanujan's ellipse circumference approximation.
	a, b := float64(w)/2, float64(h)/2
	ellipsePerimeter := math.Pi * (3*(a+b) - math.Sqrt((3*a+b)*(a+3*b)))

	rectScore := 1.0 - math.Abs(float64(contourLen)-rectPerimeter)/rectPerimeter
	ellipseScore := 1.0 - math.Abs(float64(contourLen)-ellipsePerimeter)/ellipsePerimeter

	switch {
	case rectScore >= 0.8 && rectScore >= ellipseScore:
		if isNearSquare(w, h) {
			return "square", 0.9
		}
		return "rectangle", 0.9
	case ellipseScore >= 0.8:
		if isNearSquare(w, h) {
			return "circle", 0.85
		}
		return "ellipse", 0.8
	default:
		return "blob", 0.5
	}
}

func isNearSquare(w, h int) bool {
	if w == 0 || h == 0 {
		return false
	}
	ratio := float64(w) / float64(h)
	return ratio > 0.9 && ratio < 1.1
}
