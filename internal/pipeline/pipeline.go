package pipeline

import (
	"context"
	"fmt"
	"image"
	"log"
	"math"

	"github.com/diagramlab/diagram-tools-mcp/internal/detect"
	"github.com/diagramlab/diagram-tools-mcp/internal/element"
	"github.com/diagramlab/diagram-tools-mcp/internal/geometry"
	"github.com/diagramlab/diagram-tools-mcp/internal/imaging"
	"github.com/diagramlab/diagram-tools-mcp/internal/refine"
	"github.com/diagramlab/diagram-tools-mcp/internal/vision"
)

// Defaults for the tunable detection knobs. Chosen for typical
// screen-resolution diagram exports (roughly 800x600 and up).
const (
	defaultMinShapeArea   = 400
	defaultMinArrowLength = 30
	defaultMinTextConf    = 0.4
)

// endpointTolerance is how far an arrow endpoint may sit outside an
// element's box and still count as connected to it, in pixels.
const endpointTolerance = 15.0

// Pipeline runs the full detect-then-refine sequence over diagram images.
type Pipeline struct {
	// Cache resolves image paths. Required.
	Cache *imaging.ImageCache

	// Recognizer fills in Content for detected text elements. Optional;
	// when nil, text elements keep empty content.
	Recognizer vision.Recognizer

	// RefineOptions configures the refinement pass applied to raw detections.
	RefineOptions refine.Options

	// EdgeThreshold is the gradient magnitude cutoff for the edge map.
	EdgeThreshold float64

	// MinShapeArea is the smallest contour bounding-box area (px²) kept by
	// the shape detector.
	MinShapeArea int

	// MinArrowLength is the shortest line segment (px) the arrow detector
	// will report.
	MinArrowLength int

	// MinTextConfidence is the floor for text region proposals.
	MinTextConfidence float64
}

// New returns a pipeline with default tuning over the given cache.
func New(cache *imaging.ImageCache) *Pipeline {
	return &Pipeline{
		Cache:             cache,
		RefineOptions:     refine.DefaultOptions(),
		EdgeThreshold:     imaging.DefaultEdgeThreshold,
		MinShapeArea:      defaultMinShapeArea,
		MinArrowLength:    defaultMinArrowLength,
		MinTextConfidence: defaultMinTextConf,
	}
}

// Detect loads the image at path, runs every detector, and refines the
// combined result. The returned set is ready for layer assignment, export,
// or evaluation.
func (p *Pipeline) Detect(ctx context.Context, path string) (element.DetectionSet, error) {
	img, err := p.Cache.Load(path)
	if err != nil {
		return element.DetectionSet{}, fmt.Errorf("failed to load image: %w", err)
	}

	edges := imaging.EdgeMap(img, p.EdgeThreshold)

	raw := element.DetectionSet{SourceImage: path}
	raw.Add(detect.BackgroundElement(img))
	for _, e := range detect.Shapes(img, edges, p.MinShapeArea) {
		raw.Add(e)
	}
	for _, e := range detect.Arrows(img, edges, p.MinArrowLength) {
		raw.Add(e)
	}
	for _, e := range detect.Icons(img, edges) {
		raw.Add(e)
	}
	for _, e := range detect.Pictures(img, edges) {
		raw.Add(e)
	}
	for _, e := range detect.TextRegions(img, edges, p.MinTextConfidence) {
		raw.Add(e)
	}

	if err := ctx.Err(); err != nil {
		return element.DetectionSet{}, err
	}

	refined := refine.RefineWith(raw, p.RefineOptions, refine.NewEdgeSnapper(edges))
	refined.Metadata = element.Metadata{
		"raw_count":     raw.Len(),
		"refined_count": refined.Len(),
	}

	if p.Recognizer != nil {
		p.recognizeText(ctx, img, &refined)
	}

	return refined, nil
}

// recognizeText fills Content for text elements via the recognizer.
// Recognition is best-effort: a failed region is logged and left empty.
func (p *Pipeline) recognizeText(ctx context.Context, img image.Image, set *element.DetectionSet) {
	for i, e := range set.Elements {
		if e.Category != element.Text || e.Content != "" {
			continue
		}
		if ctx.Err() != nil {
			return
		}

		region, err := imaging.CropBox(img, e.Box)
		if err != nil {
			continue
		}
		text, err := p.Recognizer.RecognizeText(ctx, region)
		if err != nil {
			log.Printf("text recognition failed for %s: %v", e.ID, err)
			continue
		}
		set.Elements[i].Content = text
	}
}

// Relationship records an arrow connecting two elements.
type Relationship struct {
	ArrowID  string `json:"arrow_id"`
	SourceID string `json:"source_id,omitempty"`
	TargetID string `json:"target_id,omitempty"`
}

// ConnectedArrows resolves which elements each arrow connects, by matching
// the arrow's endpoint metadata against the other elements' boxes. An
// endpoint connects to the nearest element whose box contains it (allowing
// endpointTolerance of slack); unresolvable endpoints are left empty.
// Arrows without endpoint metadata are skipped.
func ConnectedArrows(set element.DetectionSet) []Relationship {
	var rels []Relationship
	for _, e := range set.Elements {
		if e.Category != element.Arrow {
			continue
		}
		start, ok1 := endpointMeta(e.Metadata["start_point"])
		end, ok2 := endpointMeta(e.Metadata["end_point"])
		if !ok1 || !ok2 {
			continue
		}
		rels = append(rels, Relationship{
			ArrowID:  e.ID,
			SourceID: nearestAt(set.Elements, e.ID, start),
			TargetID: nearestAt(set.Elements, e.ID, end),
		})
	}
	return rels
}

// nearestAt returns the ID of the element whose box is closest to pt among
// those within endpointTolerance of it, skipping the arrow itself and the
// background (which contains every point).
func nearestAt(els []element.Element, arrowID string, pt [2]float64) string {
	bestID := ""
	bestDist := math.Inf(1)
	for _, cand := range els {
		if cand.ID == arrowID || cand.Category == element.Arrow || cand.Category == element.Background {
			continue
		}
		d := boxDistance(cand.Box, pt)
		if d <= endpointTolerance && d < bestDist {
			bestID = cand.ID
			bestDist = d
		}
	}
	return bestID
}

// boxDistance is the Euclidean distance from pt to the nearest point of the
// box, zero when pt lies inside it.
func boxDistance(b geometry.Box, pt [2]float64) float64 {
	dx := math.Max(math.Max(b.X-pt[0], pt[0]-b.Right()), 0)
	dy := math.Max(math.Max(b.Y-pt[1], pt[1]-b.Bottom()), 0)
	return math.Hypot(dx, dy)
}

// endpointMeta mirrors the arrow detector's metadata encoding, accepting
// both the in-process []float64 form and the []any form after a JSON
// round trip.
func endpointMeta(v any) ([2]float64, bool) {
	switch pt := v.(type) {
	case []float64:
		if len(pt) == 2 {
			return [2]float64{pt[0], pt[1]}, true
		}
	case []any:
		if len(pt) == 2 {
			x, xok := pt[0].(float64)
			y, yok := pt[1].(float64)
			if xok && yok {
				return [2]float64{x, y}, true
			}
		}
	}
	return [2]float64{}, false
}
