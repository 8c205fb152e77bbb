package geometry

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestIoU_IdenticalBoxes(t *testing.T) {
	b := Box{X: 0, Y: 0, Width: 100, Height: 100}
	if got := IoU(b, b); !almostEqual(got, 1.0) {
		t.Errorf("IoU(b, b) = %v, want 1.0", got)
	}
}

func TestIoU_NoOverlap(t *testing.T) {
	tests := []struct {
		name string
		a, b Box
	}{
		{"disjoint horizontal", Box{0, 0, 10, 10}, Box{20, 0, 10, 10}},
		{"disjoint vertical", Box{0, 0, 10, 10}, Box{0, 20, 10, 10}},
		{"touching edges", Box{0, 0, 10, 10}, Box{10, 0, 10, 10}},
		{"touching corners", Box{0, 0, 10, 10}, Box{10, 10, 10, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IoU(tt.a, tt.b); got != 0 {
				t.Errorf("IoU = %v, want 0", got)
			}
		})
	}
}

func TestIoU_Symmetry(t *testing.T) {
	pairs := []struct{ a, b Box }{
		{Box{0, 0, 50, 50}, Box{25, 25, 50, 50}},
		{Box{0, 0, 100, 100}, Box{0, 0, 100, 100}},
		{Box{10, 10, 30, 40}, Box{15, 5, 60, 20}},
		{Box{0, 0, 10, 10}, Box{100, 100, 10, 10}},
	}

	for _, p := range pairs {
		if IoU(p.a, p.b) != IoU(p.b, p.a) {
			t.Errorf("IoU not symmetric for %+v and %+v", p.a, p.b)
		}
	}
}

func TestIoU_Bounds(t *testing.T) {
	boxes := []Box{
		{0, 0, 100, 100},
		{50, 50, 100, 100},
		{0, 0, 1, 1},
		{0, 0, 0, 0},
		{99, 99, 2, 2},
	}

	for _, a := range boxes {
		for _, b := range boxes {
			got := IoU(a, b)
			if got < 0 || got > 1 {
				t.Errorf("IoU(%+v, %+v) = %v, outside [0,1]", a, b, got)
			}
		}
	}
}

func TestIoU_ZeroAreaBoxes(t *testing.T) {
	zero := Box{X: 5, Y: 5, Width: 0, Height: 0}

	// Degenerate inputs must produce 0, never NaN or a panic.
	if got := IoU(zero, zero); got != 0 {
		t.Errorf("IoU of zero-area boxes = %v, want 0", got)
	}
	if got := IoU(zero, Box{0, 0, 10, 10}); got != 0 {
		t.Errorf("IoU of zero-area vs normal box = %v, want 0", got)
	}
}

func TestIoU_KnownOverlap(t *testing.T) {
	// Two 50x50 boxes offset by (25,25): intersection 625, union 4375.
	a := Box{0, 0, 50, 50}
	b := Box{25, 25, 50, 50}
	want := 625.0 / 4375.0
	if got := IoU(a, b); !almostEqual(got, want) {
		t.Errorf("IoU = %v, want %v", got, want)
	}
}

func TestIntersectionArea(t *testing.T) {
	tests := []struct {
		name string
		a, b Box
		want float64
	}{
		{"full containment", Box{0, 0, 100, 100}, Box{25, 25, 50, 50}, 2500},
		{"partial overlap", Box{0, 0, 50, 50}, Box{25, 25, 50, 50}, 625},
		{"no overlap", Box{0, 0, 10, 10}, Box{50, 50, 10, 10}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IntersectionArea(tt.a, tt.b); !almostEqual(got, tt.want) {
				t.Errorf("IntersectionArea = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnionArea(t *testing.T) {
	a := Box{0, 0, 50, 50}
	b := Box{25, 25, 50, 50}
	if got := UnionArea(a, b); !almostEqual(got, 4375) {
		t.Errorf("UnionArea = %v, want 4375", got)
	}
}

func TestCover(t *testing.T) {
	a := Box{10, 20, 30, 30}
	b := Box{5, 25, 20, 40}
	got := Cover(a, b)
	want := Box{X: 5, Y: 20, Width: 35, Height: 45}
	if got != want {
		t.Errorf("Cover = %+v, want %+v", got, want)
	}

	// Covering a box with itself is the identity.
	if got := Cover(a, a); got != a {
		t.Errorf("Cover(a, a) = %+v, want %+v", got, a)
	}
}

func TestDerivedEdges(t *testing.T) {
	b := Box{X: 10, Y: 20, Width: 30, Height: 40}
	if b.Right() != 40 {
		t.Errorf("Right = %v, want 40", b.Right())
	}
	if b.Bottom() != 60 {
		t.Errorf("Bottom = %v, want 60", b.Bottom())
	}
	if b.Area() != 1200 {
		t.Errorf("Area = %v, want 1200", b.Area())
	}
}
