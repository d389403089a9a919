// Package ocr wraps an external OCR service. The engine is an opaque
// collaborator: it takes a file and returns rendered text.
package ocr

import "context"

type Engine interface {
	// RecognizeImage runs OCR over a whole image file.
	RecognizeImage(ctx context.Context, path string) (string, error)

	// RecognizePDF rasterizes and OCRs a PDF with no text layer.
	RecognizePDF(ctx context.Context, path string) (string, error)
}
