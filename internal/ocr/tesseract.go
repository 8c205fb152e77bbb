//go:build cgo

// Package ocr provides an embedded Tesseract fallback recognizer for
// deployments without a vision model. It implements the same Recognizer
// boundary as the vision package, for plain text only — formula regions
// need a vision LLM.
//
// The gosseract bindings require CGO and a system Tesseract installation;
// without CGO this package builds as a stub that reports recognition as
// unavailable.
package ocr

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract recognizes text in cropped regions using local Tesseract OCR.
type Tesseract struct {
	// Language is a Tesseract language code, e.g. "eng". The matching
	// traineddata must be installed on the system.
	Language string
}

// NewTesseract returns a recognizer for the given language code.
func NewTesseract(language string) *Tesseract {
	return &Tesseract{Language: language}
}

// RecognizeText runs Tesseract over the region. Tesseract works from file
// paths, so the region round-trips through a temporary PNG.
func (o *Tesseract) RecognizeText(ctx context.Context, region image.Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp("", "ocr-region-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := png.Encode(tmp, region); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to encode region: %w", err)
	}
	tmp.Close()

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(o.Language); err != nil {
		return "", fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImage(tmpPath); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("ocr failed: %w", err)
	}
	return text, nil
}

// RecognizeFormula is unsupported: Tesseract transcribes glyphs, it cannot
// produce LaTeX.
func (o *Tesseract) RecognizeFormula(ctx context.Context, region image.Image) (string, error) {
	return "", fmt.Errorf("formula recognition requires a vision model")
}
