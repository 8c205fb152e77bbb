package element

import (
	"fmt"
	"strings"

	"github.com/diagramlab/diagram-tools-mcp/internal/geometry"
)

// Category identifies what kind of diagram element a detection is.
// The set of values is closed; see the package documentation.
type Category string

// The six element categories, in no particular order. Compositing order is
// defined by LayerRank, not by these values.
const (
	Background Category = "background"
	Image      Category = "image"
	Shape      Category = "shape"
	Icon       Category = "icon"
	Text       Category = "text"
	Arrow      Category = "arrow"
)

// Valid reports whether c is one of the six known categories.
func (c Category) Valid() bool {
	switch c {
	case Background, Image, Shape, Icon, Text, Arrow:
		return true
	}
	return false
}

// CategoryForLabel maps a free-form segmentation-model label onto the closed
// category set using keyword matching. Unrecognized labels map to Shape.
func CategoryForLabel(label string) Category {
	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, "arrow"), strings.Contains(l, "line"), strings.Contains(l, "connector"):
		return Arrow
	case strings.Contains(l, "text"), strings.Contains(l, "label"), strings.Contains(l, "formula"):
		return Text
	case strings.Contains(l, "icon"), strings.Contains(l, "symbol"):
		return Icon
	case strings.Contains(l, "image"), strings.Contains(l, "picture"), strings.Contains(l, "photo"):
		return Image
	case strings.Contains(l, "background"):
		return Background
	default:
		return Shape
	}
}

// Metadata is an open mapping of string keys to detector-specific auxiliary
// data (contour points, matched template name, arrow endpoints, sampled
// colors). The refinement engine treats it as opaque: it performs key-level
// union on merge and never branches on the values.
type Metadata map[string]any

// Clone returns a shallow copy of m. A nil map clones to nil.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Element is one detected region of a diagram.
type Element struct {
	// ID is unique within a detection set. It is assigned by the producing
	// detector, or derived ("merged_" + seed ID) when the refinement engine
	// collapses overlapping detections.
	ID string `json:"id"`

	// Category is one of the six closed category values.
	Category Category `json:"category"`

	// Box is the element's bounding box in image pixel space.
	Box geometry.Box `json:"bbox"`

	// Confidence is in [0,1]. Detectors that do not estimate confidence
	// report 1.0.
	Confidence float64 `json:"confidence"`

	// Content is free text (OCR output, LaTeX, a label). Only meaningful for
	// text elements.
	Content string `json:"content,omitempty"`

	// Metadata carries detector-specific auxiliary data.
	Metadata Metadata `json:"metadata,omitempty"`
}

// New constructs an Element, validating the contract every detector must
// satisfy: non-negative box dimensions and a confidence in [0,1]. Malformed
// geometry is rejected here, at the construction boundary, so the refinement
// and evaluation engines never see it.
func New(id string, cat Category, box geometry.Box, confidence float64) (Element, error) {
	if box.Width < 0 || box.Height < 0 {
		return Element{}, fmt.Errorf("element %q: negative box dimensions %gx%g", id, box.Width, box.Height)
	}
	if confidence < 0 || confidence > 1 {
		return Element{}, fmt.Errorf("element %q: confidence %g outside [0,1]", id, confidence)
	}
	return Element{
		ID:         id,
		Category:   cat,
		Box:        box,
		Confidence: confidence,
	}, nil
}

// DetectionSet is the ordered collection of elements detected in one image,
// plus provenance and free-form set-level metadata. Insertion order carries
// no meaning of its own; compositing order is derived via SortForCompositing
// just before serialization.
type DetectionSet struct {
	// SourceImage identifies the image the elements were detected in,
	// typically a file path.
	SourceImage string `json:"source_image,omitempty"`

	Elements []Element `json:"elements"`

	Metadata Metadata `json:"metadata,omitempty"`
}

// Add appends an element to the set.
func (s *DetectionSet) Add(e Element) {
	s.Elements = append(s.Elements, e)
}

// Len returns the number of elements in the set.
func (s *DetectionSet) Len() int {
	return len(s.Elements)
}
