package element

import (
	"log"
	"sort"
	"sync/atomic"
)

// Compositing ranks. A diagram composites background first, then pictures,
// then content shapes, then iconography, then text labels, then connective
// arrows on top.
const (
	RankBackground = 0
	RankImage      = 1
	RankShape      = 2
	RankIcon       = 3
	RankText       = 4
	RankArrow      = 5
)

var unknownRanks atomic.Uint64

// LayerRank returns the fixed compositing rank for a category.
//
// An unrecognized category maps to the shape rank rather than failing. The
// permissive default masks category-taxonomy drift between detectors and
// this model, so every fallback is counted and logged; see UnknownRankCount.
func LayerRank(c Category) int {
	switch c {
	case Background:
		return RankBackground
	case Image:
		return RankImage
	case Shape:
		return RankShape
	case Icon:
		return RankIcon
	case Text:
		return RankText
	case Arrow:
		return RankArrow
	default:
		unknownRanks.Add(1)
		log.Printf("layer: unknown category %q, defaulting to shape rank", c)
		return RankShape
	}
}

// UnknownRankCount returns how many times LayerRank fell back to the shape
// rank for an unrecognized category since process start.
func UnknownRankCount() uint64 {
	return unknownRanks.Load()
}

// SortForCompositing returns a new slice ordered by ascending layer rank.
// Elements with equal rank keep their input order; the input is not mutated.
// The serializer must consume this order as-is and never reorder elements.
func SortForCompositing(els []Element) []Element {
	out := make([]Element, len(els))
	copy(out, els)
	sort.SliceStable(out, func(i, j int) bool {
		return LayerRank(out[i].Category) < LayerRank(out[j].Category)
	})
	return out
}
