package controller

import (
	"bufio"
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"vytalcare-rag-be/internal/apperror"
	"vytalcare-rag-be/internal/dto"
	"vytalcare-rag-be/internal/pkg/serverutils"
	"vytalcare-rag-be/internal/service"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	ChatStream(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	r.Post("/chat-rag", c.Chat)
	r.Post("/chat-rag/stream", c.ChatStream)
}

func (c *chatController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("missing or invalid 'message' field")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.Chat(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *chatController) ChatStream(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("missing or invalid 'message' field")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	ctx.Set("Content-Type", "text/plain; charset=utf-8")

	// The request context dies with the handler, so the stream writer
	// runs under its own background context.
	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		writeLine := func(v interface{}) error {
			line, err := json.Marshal(v)
			if err != nil {
				return err
			}
			if _, err := w.Write(append(line, '\n')); err != nil {
				return err
			}
			return w.Flush()
		}

		_ = c.chatService.ChatStream(
			context.Background(),
			&req,
			func(sources []string) error {
				return writeLine(dto.StreamSourcesLine{Type: "sources", Sources: sources})
			},
			func(token string) error {
				return writeLine(dto.StreamTokenLine{Type: "token", Token: token})
			},
		)
	}))

	return nil
}
