// Package element defines the shared model for detected diagram elements.
//
// An Element is one detected region of a raster diagram: a category from a
// closed six-value set, an axis-aligned bounding box, a confidence score in
// [0,1], optional text content, and an open metadata map for
// detector-specific auxiliary data. A DetectionSet collects the elements
// found in one source image.
//
// # Categories
//
// The category set is closed: background, image, shape, icon, text, arrow.
// Detectors must emit one of these six values. Segmentation-model labels are
// mapped onto the set with CategoryForLabel, which defaults to shape for
// anything it does not recognize.
//
// # Compositing order
//
// The order elements render in is a property of visual correctness, not of
// detection, so it is computed rather than stored: LayerRank maps each
// category to a fixed rank (background first, arrows on top) and
// SortForCompositing orders a slice by that rank, keeping input order for
// equal ranks. An unrecognized category quietly gets the shape rank; the
// fallback is counted (UnknownRankCount) and logged so category drift
// between detectors and this model stays observable without breaking the
// pipeline.
//
// # Invariants
//
// Element construction through New rejects negative box dimensions and
// confidence values outside [0,1]. Zero-area boxes are accepted as input;
// the refinement engine's size filter is responsible for removing them.
package element
