package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexi-legal-be/internal/bootstrap"
	"lexi-legal-be/internal/config"
	"lexi-legal-be/internal/controller"
)

func TestFormsServedFromConfiguredOutputDir(t *testing.T) {
	formsDir := t.TempDir()
	content := []byte("%PDF-1.4 generated form")
	require.NoError(t, os.WriteFile(filepath.Join(formsDir, "notice_of_appeal.pdf"), content, 0o644))

	cfg := &config.Config{
		App: config.AppConfig{
			Port:               "0",
			CorsAllowedOrigins: "http://localhost:8501",
			FormOutputDir:      formsDir,
		},
	}
	container := &bootstrap.Container{
		AuthController:      controller.NewAuthController(nil),
		ChatController:      controller.NewChatController(nil),
		KnowledgeController: controller.NewKnowledgeController(nil),
		UploadController:    controller.NewUploadController(filepath.Join(formsDir, "uploads")),
	}

	srv := New(cfg, container)

	req := httptest.NewRequest(http.MethodGet, "/forms/notice_of_appeal.pdf", nil)
	resp, err := srv.GetApp().Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, content, body)
}
