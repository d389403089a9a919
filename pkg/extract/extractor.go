package extract

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"lexi-legal-be/pkg/cache"
	"lexi-legal-be/pkg/ocr"
)

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// Extractor converts an uploaded file into plain text, memoized through
// the cache under the file's content fingerprint.
type Extractor struct {
	ocrEngine ocr.Engine
	cache     *cache.RedisCache
	logger    *log.Logger

	// pdfText is swappable in tests
	pdfText func(path string) (string, error)
}

func NewExtractor(ocrEngine ocr.Engine, cacheStore *cache.RedisCache, logger *log.Logger) *Extractor {
	return &Extractor{
		ocrEngine: ocrEngine,
		cache:     cacheStore,
		logger:    logger,
		pdfText:   extractPDFText,
	}
}

// Extract returns the plain text of an image or PDF upload. A successful
// extraction is written through to the cache before returning; engine
// failures are never cached.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	fingerprint, err := cache.FileFingerprint(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	key := cache.ExtractionPrefix + fingerprint
	if cached, ok := e.cache.Get(ctx, key); ok {
		e.logger.Printf("[EXTRACT] Using cached extraction for %s", filepath.Base(path))
		return cached, nil
	}

	ext := strings.ToLower(filepath.Ext(path))

	var text string
	switch {
	case imageExtensions[ext]:
		text, err = e.ocrEngine.RecognizeImage(ctx, path)
		if err != nil {
			return "", fmt.Errorf("%w: ocr: %v", ErrExtractionFailed, err)
		}

	case ext == ".pdf":
		text, err = e.pdfText(path)
		if err != nil {
			return "", fmt.Errorf("%w: pdf: %v", ErrExtractionFailed, err)
		}
		// Scanned PDFs have no text layer; fall back to OCR over the pages.
		if strings.TrimSpace(text) == "" {
			e.logger.Printf("[EXTRACT] Empty text layer in %s, falling back to OCR", filepath.Base(path))
			text, err = e.ocrEngine.RecognizePDF(ctx, path)
			if err != nil {
				return "", fmt.Errorf("%w: pdf ocr fallback: %v", ErrExtractionFailed, err)
			}
		}

	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	e.cache.SetWithTTL(ctx, key, text, e.cache.DefaultTTL())
	e.logger.Printf("[EXTRACT] Cached new extraction for %s", filepath.Base(path))

	return text, nil
}
