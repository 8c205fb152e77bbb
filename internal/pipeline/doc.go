// Package pipeline orchestrates end-to-end diagram analysis: it loads an
// image, builds an edge map, runs every detector over it, refines the raw
// detections, and optionally recognizes text content for text elements.
//
// The pipeline is the composition point for the lower-level packages and
// owns no detection logic of its own. Detectors run sequentially over a
// shared edge map; a single Detect call is cheap enough that parallelizing
// the detectors has not been worth the coordination cost.
package pipeline
