package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"

	"github.com/diagramlab/diagram-tools-mcp/internal/geometry"
)

// CropBox extracts the region covered by box, clamped to the image bounds.
// Refined boxes can extend fractionally past an edge, so clamping is the
// contract here, not an error. A box that clamps to nothing returns an
// error.
func CropBox(img image.Image, box geometry.Box) (image.Image, error) {
	b := img.Bounds()

	x1 := clamp(int(box.X), b.Min.X, b.Max.X)
	y1 := clamp(int(box.Y), b.Min.Y, b.Max.Y)
	x2 := clamp(int(box.Right()+0.5), b.Min.X, b.Max.X)
	y2 := clamp(int(box.Bottom()+0.5), b.Min.Y, b.Max.Y)

	if x1 >= x2 || y1 >= y2 {
		return nil, fmt.Errorf("crop box %+v is empty within image bounds %v", box, b)
	}

	return imaging.Crop(img, image.Rect(x1, y1, x2, y2)), nil
}

// CropResult carries a cropped region encoded for transport over the MCP
// channel.
type CropResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// CropEncoded crops box from img, optionally rescales it, and returns the
// region as base64 PNG. A scale of 0 or 1 keeps the original size.
func CropEncoded(img image.Image, box geometry.Box, scale float64) (*CropResult, error) {
	cropped, err := CropBox(img, box)
	if err != nil {
		return nil, err
	}

	if scale > 0 && scale != 1.0 {
		w := int(float64(cropped.Bounds().Dx()) * scale)
		h := int(float64(cropped.Bounds().Dy()) * scale)
		cropped = imaging.Resize(cropped, w, h, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, cropped); err != nil {
		return nil, fmt.Errorf("failed to encode cropped region: %w", err)
	}

	return &CropResult{
		Width:       cropped.Bounds().Dx(),
		Height:      cropped.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
