package element

import (
	"testing"

	"github.com/diagramlab/diagram-tools-mcp/internal/geometry"
)

func mustNew(t *testing.T, id string, cat Category) Element {
	t.Helper()
	e, err := New(id, cat, geometry.Box{Width: 20, Height: 20}, 1.0)
	if err != nil {
		t.Fatalf("New(%q): %v", id, err)
	}
	return e
}

func TestLayerRank_FixedMapping(t *testing.T) {
	tests := []struct {
		cat  Category
		want int
	}{
		{Background, 0},
		{Image, 1},
		{Shape, 2},
		{Icon, 3},
		{Text, 4},
		{Arrow, 5},
	}

	for _, tt := range tests {
		if got := LayerRank(tt.cat); got != tt.want {
			t.Errorf("LayerRank(%q) = %d, want %d", tt.cat, got, tt.want)
		}
	}
}

func TestLayerRank_UnknownDefaultsToShape(t *testing.T) {
	before := UnknownRankCount()

	if got := LayerRank(Category("sticker")); got != RankShape {
		t.Errorf("LayerRank(unknown) = %d, want shape rank %d", got, RankShape)
	}

	if got := UnknownRankCount(); got != before+1 {
		t.Errorf("UnknownRankCount = %d, want %d", got, before+1)
	}
}

func TestSortForCompositing_FullOrder(t *testing.T) {
	// One of each category, inserted out of order. The composited order must
	// be background, image, shape, icon, text, arrow.
	els := []Element{
		mustNew(t, "t", Text),
		mustNew(t, "a", Arrow),
		mustNew(t, "b", Background),
		mustNew(t, "s", Shape),
		mustNew(t, "im", Image),
		mustNew(t, "ic", Icon),
	}

	got := SortForCompositing(els)
	want := []Category{Background, Image, Shape, Icon, Text, Arrow}
	for i, cat := range want {
		if got[i].Category != cat {
			t.Fatalf("position %d: got %q, want %q", i, got[i].Category, cat)
		}
	}
}

func TestSortForCompositing_StableOnTies(t *testing.T) {
	els := []Element{
		mustNew(t, "s1", Shape),
		mustNew(t, "s2", Shape),
		mustNew(t, "s3", Shape),
	}

	got := SortForCompositing(els)
	for i, id := range []string{"s1", "s2", "s3"} {
		if got[i].ID != id {
			t.Fatalf("equal-rank elements reordered: position %d is %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestSortForCompositing_DoesNotMutateInput(t *testing.T) {
	els := []Element{
		mustNew(t, "a", Arrow),
		mustNew(t, "b", Background),
	}

	_ = SortForCompositing(els)
	if els[0].ID != "a" || els[1].ID != "b" {
		t.Error("input slice was mutated")
	}
}
