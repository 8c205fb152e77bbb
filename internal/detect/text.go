package detect

import (
	"fmt"
	"image"
	"math"

	"github.com/diagramlab/diagram-tools-mcp/internal/element"
	"github.com/diagramlab/diagram-tools-mcp/internal/geometry"
	"github.com/diagramlab/diagram-tools-mcp/internal/imaging"
)

// textWindows are the sliding-window sizes scanned for text-like regions,
// covering small labels up to headings.
var textWindows = []struct{ w, h int }{
	{80, 25},
	{100, 30},
	{150, 40},
	{200, 50},
}

// TextRegions proposes regions likely to contain text: windows whose edge
// density sits in the band typical of glyphs and whose edge runs are mostly
// horizontal. The proposals carry no content — a recognizer (vision LLM or
// OCR) fills Element.Content downstream.
//
// Proposals overlap heavily by construction; adjacent windows are unioned
// here and the refinement engine handles whatever survives.
func TextRegions(img image.Image, edges [][]bool, minConfidence float64) []element.Element {
	height := len(edges)
	if height == 0 {
		return nil
	}
	width := len(edges[0])

	type candidate struct {
		box        geometry.Box
		confidence float64
	}
	var candidates []candidate

	for _, ws := range textWindows {
		for y := 0; y+ws.h <= height; y += ws.h / 2 {
			for x := 0; x+ws.w <= width; x += ws.w / 2 {
				density := imaging.EdgeDensity(edges, x, y, ws.w, ws.h)
				// Glyphs are neither sparse nor solid.
				if density < 0.05 || density > 0.4 {
					continue
				}

				confidence := horizontalScore(edges, x, y, ws.w, ws.h) * (1.0 - math.Abs(density-0.2)/0.2)
				if confidence < minConfidence {
					continue
				}

				candidates = append(candidates, candidate{
					box: geometry.Box{
						X: float64(x), Y: float64(y),
						Width: float64(ws.w), Height: float64(ws.h),
					},
					confidence: math.Round(confidence*1000) / 1000,
				})
			}
		}
	}

	// Union adjacent proposals so one paragraph does not become a dozen
	// elements.
	merged := make([]candidate, 0, len(candidates))
	for _, c := range candidates {
		absorbed := false
		for i := range merged {
			if geometry.IoU(c.box, merged[i].box) > 0.3 {
				merged[i].box = geometry.Cover(merged[i].box, c.box)
				merged[i].confidence = math.Max(merged[i].confidence, c.confidence)
				absorbed = true
				break
			}
		}
		if !absorbed {
			merged = append(merged, c)
		}
	}

	out := make([]element.Element, 0, len(merged))
	for _, c := range merged {
		e, err := element.New(fmt.Sprintf("text_%04d", len(out)), element.Text, c.box, c.confidence)
		if err != nil {
			continue
		}
		e.Metadata = element.Metadata{"proposed_by": "edge_density"}
		out = append(out, e)
	}
	return out
}

// horizontalScore measures how horizontal the edge structure in a window is.
// Text rows produce many short horizontal runs and comparatively few
// vertical ones.
func horizontalScore(edges [][]bool, x, y, w, h int) float64 {
	horizontal := countRuns(edges, x, y, w, h, true)
	vertical := countRuns(edges, x, y, w, h, false)
	if horizontal+vertical == 0 {
		return 0
	}
	return float64(horizontal) / float64(horizontal+vertical)
}

func countRuns(edges [][]bool, x, y, w, h int, horizontal bool) int {
	runs := 0
	outer, inner := h, w
	if !horizontal {
		outer, inner = w, h
	}

	for o := 0; o < outer; o++ {
		inRun := false
		for i := 0; i < inner; i++ {
			var on bool
			if horizontal {
				on = edges[y+o][x+i]
			} else {
				on = edges[y+i][x+o]
			}
			if on && !inRun {
				runs++
			}
			inRun = on
		}
	}
	return runs
}
