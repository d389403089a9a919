package extract

import "errors"

var (
	// ErrUnsupportedFormat is returned for uploads outside the supported
	// image and PDF formats.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrExtractionFailed wraps failures from the OCR or PDF engines.
	ErrExtractionFailed = errors.New("text extraction failed")
)
