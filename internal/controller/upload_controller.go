package controller

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lexi-legal-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// uploadableExtensions mirrors what the document extractor accepts.
var uploadableExtensions = map[string]bool{
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

type IUploadController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
}

type uploadController struct {
	uploadDir string
}

func NewUploadController(uploadDir string) IUploadController {
	return &uploadController{
		uploadDir: uploadDir,
	}
}

func (c *uploadController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/files", serverutils.JwtMiddleware)
	h.Post("/", c.Upload)
}

// Upload stores a document for a later chat turn and returns the server
// path the chat endpoints accept as file_path. Files are renamed under a
// fresh id so concurrent uploads never collide.
func (c *uploadController) Upload(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"code":    400,
			"message": "Missing file field",
		})
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !uploadableExtensions[ext] {
		return ctx.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
			"success": false,
			"code":    415,
			"message": fmt.Sprintf("Unsupported file type %q, expected pdf/png/jpg/jpeg", ext),
		})
	}

	if err := os.MkdirAll(c.uploadDir, 0o755); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"code":    500,
			"message": err.Error(),
		})
	}

	destPath := filepath.Join(c.uploadDir, uuid.New().String()+ext)
	if err := ctx.SaveFile(fileHeader, destPath); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"code":    500,
			"message": err.Error(),
		})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"code":    201,
		"message": "File uploaded",
		"data": fiber.Map{
			"file_path":     destPath,
			"original_name": fileHeader.Filename,
		},
	})
}
