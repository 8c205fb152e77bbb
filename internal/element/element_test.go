package element

import (
	"testing"

	"github.com/diagramlab/diagram-tools-mcp/internal/geometry"
)

func TestNew_RejectsNegativeDimensions(t *testing.T) {
	tests := []struct {
		name string
		box  geometry.Box
	}{
		{"negative width", geometry.Box{X: 0, Y: 0, Width: -1, Height: 10}},
		{"negative height", geometry.Box{X: 0, Y: 0, Width: 10, Height: -1}},
		{"both negative", geometry.Box{X: 0, Y: 0, Width: -5, Height: -5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New("e1", Shape, tt.box, 0.5); err == nil {
				t.Error("expected error for negative dimensions, got nil")
			}
		})
	}
}

func TestNew_RejectsOutOfRangeConfidence(t *testing.T) {
	box := geometry.Box{X: 0, Y: 0, Width: 10, Height: 10}

	if _, err := New("e1", Shape, box, -0.1); err == nil {
		t.Error("expected error for confidence < 0")
	}
	if _, err := New("e1", Shape, box, 1.1); err == nil {
		t.Error("expected error for confidence > 1")
	}
}

func TestNew_AcceptsZeroAreaBox(t *testing.T) {
	// Zero-area boxes are legal input; the size filter drops them later.
	box := geometry.Box{X: 5, Y: 5, Width: 0, Height: 0}
	if _, err := New("e1", Shape, box, 1.0); err != nil {
		t.Errorf("unexpected error for zero-area box: %v", err)
	}
}

func TestCategoryValid(t *testing.T) {
	for _, c := range []Category{Background, Image, Shape, Icon, Text, Arrow} {
		if !c.Valid() {
			t.Errorf("category %q should be valid", c)
		}
	}
	if Category("sticker").Valid() {
		t.Error("unknown category should not be valid")
	}
}

func TestCategoryForLabel(t *testing.T) {
	tests := []struct {
		label string
		want  Category
	}{
		{"arrow", Arrow},
		{"connector_line", Arrow},
		{"text block", Text},
		{"math formula", Text},
		{"app icon", Icon},
		{"photo", Image},
		{"background", Background},
		{"rectangle", Shape},
		{"something else entirely", Shape},
	}

	for _, tt := range tests {
		if got := CategoryForLabel(tt.label); got != tt.want {
			t.Errorf("CategoryForLabel(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}
}

func TestMetadataClone(t *testing.T) {
	m := Metadata{"shape_type": "rectangle", "vertices": 4}
	c := m.Clone()
	c["shape_type"] = "circle"

	if m["shape_type"] != "rectangle" {
		t.Error("Clone should not share storage with the original")
	}
	if Metadata(nil).Clone() != nil {
		t.Error("nil metadata should clone to nil")
	}
}

func TestDetectionSetAdd(t *testing.T) {
	var s DetectionSet
	e, _ := New("e1", Shape, geometry.Box{Width: 10, Height: 10}, 0.9)
	s.Add(e)
	s.Add(e)
	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Len())
	}
}
