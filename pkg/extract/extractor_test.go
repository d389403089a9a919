package extract

import (
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"lexi-legal-be/pkg/cache"
)

type fakeEngine struct {
	imageCalls int
	pdfCalls   int
	imageText  string
	pdfText    string
	err        error
}

func (f *fakeEngine) RecognizeImage(ctx context.Context, path string) (string, error) {
	f.imageCalls++
	return f.imageText, f.err
}

func (f *fakeEngine) RecognizePDF(ctx context.Context, path string) (string, error) {
	f.pdfCalls++
	return f.pdfText, f.err
}

func newTestExtractor(t *testing.T, engine *fakeEngine) *Extractor {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := cache.NewRedisCache(client, time.Hour, 1024, log.New(os.Stderr, "", 0))
	return NewExtractor(engine, store, log.New(os.Stderr, "", 0))
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtractImageCachesResult(t *testing.T) {
	engine := &fakeEngine{imageText: "recognized text"}
	e := newTestExtractor(t, engine)
	path := writeTempFile(t, "scan.png", "fake png bytes")

	for i := 0; i < 3; i++ {
		text, err := e.Extract(context.Background(), path)
		if err != nil {
			t.Fatal(err)
		}
		if text != "recognized text" {
			t.Fatalf("text = %q", text)
		}
	}

	if engine.imageCalls != 1 {
		t.Errorf("engine called %d times, want 1", engine.imageCalls)
	}
}

func TestExtractPDFTextLayer(t *testing.T) {
	engine := &fakeEngine{}
	e := newTestExtractor(t, engine)
	e.pdfText = func(path string) (string, error) {
		return "text layer content", nil
	}
	path := writeTempFile(t, "doc.pdf", "fake pdf bytes")

	text, err := e.Extract(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if text != "text layer content" {
		t.Errorf("text = %q", text)
	}
	if engine.pdfCalls != 0 {
		t.Errorf("OCR fallback ran despite a text layer")
	}
}

func TestExtractPDFFallsBackToOCR(t *testing.T) {
	engine := &fakeEngine{pdfText: "ocr rendered text"}
	e := newTestExtractor(t, engine)
	e.pdfText = func(path string) (string, error) {
		return "   \n  ", nil
	}
	path := writeTempFile(t, "scanned.pdf", "fake pdf bytes")

	text, err := e.Extract(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if text != "ocr rendered text" {
		t.Errorf("text = %q, want the OCR fallback output", text)
	}
	if engine.pdfCalls != 1 {
		t.Errorf("RecognizePDF called %d times, want 1", engine.pdfCalls)
	}
}

func TestExtractUnsupportedFormat(t *testing.T) {
	e := newTestExtractor(t, &fakeEngine{})
	path := writeTempFile(t, "notes.txt", "plain text")

	_, err := e.Extract(context.Background(), path)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestExtractEngineFailureNotCached(t *testing.T) {
	engine := &fakeEngine{err: errors.New("service down")}
	e := newTestExtractor(t, engine)
	path := writeTempFile(t, "scan.jpg", "fake jpg bytes")

	_, err := e.Extract(context.Background(), path)
	if !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("err = %v, want ErrExtractionFailed", err)
	}

	// A later attempt must hit the engine again, not a cached failure.
	engine.err = nil
	engine.imageText = "recovered"
	text, err := e.Extract(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if text != "recovered" {
		t.Errorf("text = %q", text)
	}
	if engine.imageCalls != 2 {
		t.Errorf("engine called %d times, want 2", engine.imageCalls)
	}
}

func TestExtractMissingFile(t *testing.T) {
	e := newTestExtractor(t, &fakeEngine{})

	_, err := e.Extract(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	if !errors.Is(err, ErrExtractionFailed) {
		t.Errorf("err = %v, want ErrExtractionFailed", err)
	}
}
