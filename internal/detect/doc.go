// Package detect implements the default per-category detectors that feed the
// refinement engine.
//
// Each detector consumes a decoded image plus the shared binary edge map
// (imaging.EdgeMap) and emits element.Element values for one category:
//
//   - Shapes: contour analysis over connected edge components
//   - Arrows: Hough line transform with arrowhead probing
//   - Icons / Pictures: edge-density and luminance-variance window heuristics
//   - TextRegions: sliding-window edge-density proposals (content is filled
//     in later by a recognizer, these only locate text)
//   - BackgroundElement: a single full-image background element
//
// Detectors are deliberately noisy and overlapping: they favor recall and
// rely on the refine package to collapse duplicates and drop weak
// candidates. Every emitted element satisfies the element package's
// construction invariants (non-negative dimensions, confidence in [0,1]).
//
// These detectors are replaceable collaborators, not the load-bearing part
// of the system. Anything that produces valid elements — an external
// segmentation model, a vision LLM — can substitute for them upstream of
// refinement.
package detect
