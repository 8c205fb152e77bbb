//go:build !cgo

// Package ocr provides an embedded Tesseract fallback recognizer for
// deployments without a vision model. This stub build satisfies the API
// when CGO is disabled; every call reports that OCR is unavailable.
package ocr

import (
	"context"
	"fmt"
	"image"
)

// Tesseract recognizes text in cropped regions using local Tesseract OCR.
// This build was compiled without CGO, so recognition is unavailable.
type Tesseract struct {
	Language string
}

// NewTesseract returns a recognizer for the given language code.
func NewTesseract(language string) *Tesseract {
	return &Tesseract{Language: language}
}

// RecognizeText reports that OCR support was not compiled in.
func (o *Tesseract) RecognizeText(ctx context.Context, region image.Image) (string, error) {
	return "", fmt.Errorf("tesseract OCR requires a CGO build")
}

// RecognizeFormula reports that OCR support was not compiled in.
func (o *Tesseract) RecognizeFormula(ctx context.Context, region image.Image) (string, error) {
	return "", fmt.Errorf("tesseract OCR requires a CGO build")
}
