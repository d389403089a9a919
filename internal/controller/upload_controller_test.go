package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUploadApp(t *testing.T) (*fiber.App, string) {
	t.Helper()
	t.Setenv("JWT_SECRET", "upload-test-secret")

	dir := filepath.Join(t.TempDir(), "uploads")
	app := fiber.New()
	NewUploadController(dir).RegisterRoutes(app.Group("/api"))
	return app, dir
}

func bearerToken(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "11111111-1111-1111-1111-111111111111",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("upload-test-secret"))
	require.NoError(t, err)
	return "Bearer " + signed
}

func multipartUpload(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestUploadStoresFileAndReturnsPath(t *testing.T) {
	app, dir := newUploadApp(t)

	content := []byte("%PDF-1.4 fake body")
	body, contentType := multipartUpload(t, "lease agreement.pdf", content)

	req := httptest.NewRequest(http.MethodPost, "/api/files/", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", bearerToken(t))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			FilePath     string `json:"file_path"`
			OriginalName string `json:"original_name"`
		} `json:"data"`
	}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &envelope))

	assert.True(t, envelope.Success)
	assert.Equal(t, "lease agreement.pdf", envelope.Data.OriginalName)
	assert.Equal(t, dir, filepath.Dir(envelope.Data.FilePath))
	assert.Equal(t, ".pdf", filepath.Ext(envelope.Data.FilePath))

	saved, err := os.ReadFile(envelope.Data.FilePath)
	require.NoError(t, err)
	assert.Equal(t, content, saved)
}

func TestUploadUniquePathsForSameFilename(t *testing.T) {
	app, _ := newUploadApp(t)

	paths := make(map[string]bool)
	for i := 0; i < 2; i++ {
		body, contentType := multipartUpload(t, "scan.png", []byte("png bytes"))
		req := httptest.NewRequest(http.MethodPost, "/api/files/", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", bearerToken(t))

		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)

		var envelope struct {
			Data struct {
				FilePath string `json:"file_path"`
			} `json:"data"`
		}
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &envelope))
		paths[envelope.Data.FilePath] = true
	}
	assert.Len(t, paths, 2)
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	app, _ := newUploadApp(t)

	body, contentType := multipartUpload(t, "notes.txt", []byte("plain text"))
	req := httptest.NewRequest(http.MethodPost, "/api/files/", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", bearerToken(t))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestUploadRequiresFileField(t *testing.T) {
	app, _ := newUploadApp(t)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/files/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", bearerToken(t))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUploadRequiresToken(t *testing.T) {
	app, _ := newUploadApp(t)

	body, contentType := multipartUpload(t, "scan.jpg", []byte("jpg bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/files/", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
