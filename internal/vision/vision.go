// Package vision provides the vision-LLM collaborator that turns cropped
// text and formula regions into content strings.
//
// The Recognizer interface is the boundary the pipeline depends on; the
// Ollama-backed Client is the default implementation. Recognition is
// best-effort enrichment: a nil Recognizer simply leaves Element.Content
// empty, and per-region failures degrade to empty content rather than
// failing a whole detection run.
package vision

import (
	"context"
	"image"
	"strings"
)

// Recognizer extracts content from a cropped image region.
//
// Implementations must be safe for concurrent use; the pipeline may
// recognize regions from several images at once.
type Recognizer interface {
	// RecognizeText returns the plain text visible in the region, or an
	// empty string when the region holds none.
	RecognizeText(ctx context.Context, region image.Image) (string, error)

	// RecognizeFormula returns the region's mathematical content as LaTeX,
	// without surrounding $ delimiters.
	RecognizeFormula(ctx context.Context, region image.Image) (string, error)
}

// textPrompt instructs the model to transcribe and output nothing else.
// Vision models love to narrate; the hard rules keep replies parseable.
const textPrompt = `You are an OCR engine. Transcribe ALL text visible in this image.

HARD RULES
- Output ONLY the transcribed text, preserving line breaks.
- Do not describe the image. Do not add commentary, quotes, or markdown.
- If the image contains no text, output exactly: NONE`

// formulaPrompt requests bare LaTeX for formula regions.
const formulaPrompt = `You are a formula transcription engine. Convert the mathematical
expression in this image to LaTeX.

HARD RULES
- Output ONLY the LaTeX source, with no $ delimiters, no code fences,
  no commentary.
- If the image contains no mathematical expression, output exactly: NONE`

// cleanReply strips the wrappers vision models add despite instructions:
// code fences, surrounding quotes, the NONE sentinel.
func cleanReply(reply string) string {
	s := strings.TrimSpace(reply)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```latex")
		s = strings.TrimPrefix(s, "```text")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}

	s = strings.Trim(s, "\"'")

	if strings.EqualFold(s, "NONE") {
		return ""
	}
	return s
}
