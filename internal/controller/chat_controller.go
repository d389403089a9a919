package controller

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"

	"lexi-legal-be/internal/dto"
	"lexi-legal-be/internal/pkg/serverutils"
	"lexi-legal-be/internal/service"
	"lexi-legal-be/pkg/agent"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	ChatStream(ctx *fiber.Ctx) error
	ListThreads(ctx *fiber.Ctx) error
	GetMessages(ctx *fiber.Ctx) error
	DeleteThread(ctx *fiber.Ctx) error
}

type chatController struct {
	service  service.IChatService
	validate *validator.Validate
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{
		service:  service,
		validate: validator.New(),
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat", serverutils.JwtMiddleware)
	h.Post("/", c.Chat)
	h.Post("/stream", c.ChatStream)
	h.Get("/threads", c.ListThreads)
	h.Get("/threads/:id/messages", c.GetMessages)
	h.Delete("/threads/:id", c.DeleteThread)
}

func currentUserId(ctx *fiber.Ctx) (uuid.UUID, error) {
	raw, ok := ctx.Locals("user_id").(string)
	if !ok {
		return uuid.Nil, errors.New("missing user identity")
	}
	return uuid.Parse(raw)
}

func (c *chatController) Chat(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"code":    401,
			"message": "Invalid user identity",
		})
	}

	var req dto.ChatRequest
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

	res, err := c.service.Chat(ctx.Context(), userId, &req, nil)
	if err != nil {
		return chatError(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "ok",
		"data":    res,
	})
}

// ChatStream emits the answer as server-sent events: one "token" event
// per increment, then a final "done" event carrying the full result.
func (c *chatController) ChatStream(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"code":    401,
			"message": "Invalid user identity",
		})
	}

	var req dto.ChatRequest
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

	// The fiber ctx is recycled once the handler returns; everything
	// the stream writer needs is captured up front.
	svc := c.service
	reqCtx := ctx.Context()

	ctx.Set("Content-Type", "text/event-stream")
	ctx.Set("Cache-Control", "no-cache")
	ctx.Set("Connection", "keep-alive")

	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		onToken := func(token string) {
			raw, _ := json.Marshal(token)
			fmt.Fprintf(w, "event: token\ndata: %s\n\n", raw)
			w.Flush()
		}

		res, err := svc.Chat(reqCtx, userId, &req, onToken)
		if err != nil {
			raw, _ := json.Marshal(fiber.Map{
				"message": "Sorry, something went wrong while answering.",
				"error":   err.Error(),
			})
			fmt.Fprintf(w, "event: error\ndata: %s\n\n", raw)
			w.Flush()
			return
		}

		raw, _ := json.Marshal(res)
		fmt.Fprintf(w, "event: done\ndata: %s\n\n", raw)
		w.Flush()
	}))

	return nil
}

func (c *chatController) ListThreads(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"code":    401,
			"message": "Invalid user identity",
		})
	}

	threads, err := c.service.ListThreads(ctx.Context(), userId)
	if err != nil {
		return chatError(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "ok",
		"data":    threads,
	})
}

func (c *chatController) GetMessages(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"code":    401,
			"message": "Invalid user identity",
		})
	}

	threadId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"code":    400,
			"message": "Invalid thread id",
		})
	}

	messages, err := c.service.GetMessages(ctx.Context(), userId, threadId)
	if err != nil {
		return chatError(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "ok",
		"data":    messages,
	})
}

func (c *chatController) DeleteThread(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"code":    401,
			"message": "Invalid user identity",
		})
	}

	threadId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"code":    400,
			"message": "Invalid thread id",
		})
	}

	if err := c.service.DeleteThread(ctx.Context(), userId, threadId); err != nil {
		return chatError(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Thread deleted",
		"data":    nil,
	})
}

func chatError(ctx *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Sorry, something went wrong while answering."

	switch {
	case errors.Is(err, service.ErrThreadNotFound):
		status = fiber.StatusNotFound
		message = "Thread not found"
	case errors.Is(err, agent.ErrClassificationUnavailable):
		status = fiber.StatusServiceUnavailable
		message = "Sorry, the assistant is unavailable right now."
	}

	return ctx.Status(status).JSON(fiber.Map{
		"success": false,
		"code":    status,
		"message": message,
		"error":   err.Error(),
	})
}
