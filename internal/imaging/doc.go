// Package imaging provides the image-side support the detection pipeline
// needs: cached decoding, region cropping, color sampling, and binary edge
// maps.
//
// Coordinates follow the standard image convention: (0,0) at the top-left,
// X increasing rightward, Y increasing downward. Region boxes come from the
// geometry package and are clamped to image bounds rather than rejected,
// since refined boxes may extend fractionally past an image edge.
//
// Supported input formats are PNG, JPEG, GIF, WebP, and BMP; decoders are
// registered by this package's imports.
//
// The ImageCache type is safe for concurrent use. The remaining functions
// are stateless and may be called concurrently on different images.
package imaging
