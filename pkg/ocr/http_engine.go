package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// HTTPEngine calls an OCR sidecar service (e.g. a docTR or Tesseract
// wrapper) over its /ocr endpoint.
type HTTPEngine struct {
	baseURL string
	client  *http.Client
}

var _ Engine = &HTTPEngine{}

type ocrResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

func NewHTTPEngine(baseURL string) *HTTPEngine {
	return &HTTPEngine{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 180 * time.Second, // OCR over multi-page documents is slow
		},
	}
}

func (e *HTTPEngine) RecognizeImage(ctx context.Context, path string) (string, error) {
	return e.recognize(ctx, path, "image")
}

func (e *HTTPEngine) RecognizePDF(ctx context.Context, path string) (string, error) {
	return e.recognize(ctx, path, "pdf")
}

func (e *HTTPEngine) recognize(ctx context.Context, path, kind string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file for ocr: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("create multipart: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("copy file into multipart: %w", err)
	}
	if err := writer.WriteField("kind", kind); err != nil {
		return "", fmt.Errorf("write kind field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close multipart: %w", err)
	}

	url := e.baseURL + "/ocr"
	req, err := http.NewRequestWithContext(ctx, "POST", url, &buf)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ocr request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ocr service error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var ocrResp ocrResponse
	if err := json.Unmarshal(bodyBytes, &ocrResp); err != nil {
		return "", fmt.Errorf("decode ocr response: %w", err)
	}
	if ocrResp.Error != "" {
		return "", fmt.Errorf("ocr service returned error: %s", ocrResp.Error)
	}

	return ocrResp.Text, nil
}
