package controller

import (
	"lexi-legal-be/internal/pkg/serverutils"
	"lexi-legal-be/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type ingestRequest struct {
	Domain   string `json:"domain" validate:"required,oneof=laws_db procedures_db"`
	Source   string `json:"source" validate:"required"`
	FilePath string `json:"file_path" validate:"required"`
}

type IKnowledgeController interface {
	RegisterRoutes(r fiber.Router)
	Ingest(ctx *fiber.Ctx) error
}

type knowledgeController struct {
	service  service.IIngestService
	validate *validator.Validate
}

func NewKnowledgeController(service service.IIngestService) IKnowledgeController {
	return &knowledgeController{
		service:  service,
		validate: validator.New(),
	}
}

func (c *knowledgeController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/knowledge", serverutils.JwtMiddleware)
	h.Post("/ingest", c.Ingest)
}

// Ingest queues a document for asynchronous indexing.
func (c *knowledgeController) Ingest(ctx *fiber.Ctx) error {
	var req ingestRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := c.validate.Struct(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"code":    400,
			"message": err.Error(),
		})
	}

	if err := c.service.PublishDocument(ctx.Context(), req.Domain, req.Source, req.FilePath); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"code":    500,
			"message": err.Error(),
		})
	}

	return ctx.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"success": true,
		"code":    202,
		"message": "Document queued for indexing",
		"data":    nil,
	})
}
