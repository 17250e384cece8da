package handler

import (
	"errors"
	"strings"

	"campusvibe/internal/adapter/ai"
	"campusvibe/internal/delivery/http/dto"
	"campusvibe/internal/usecase/chat"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type ChatHandler struct {
	engine *chat.Engine
}

func NewChatHandler(engine *chat.Engine) *ChatHandler {
	return &ChatHandler{engine: engine}
}

// Ask answers a question over the indexed notes. Backend trouble degrades to
// a message for the user, never to a crashed request.
func (h *ChatHandler) Ask(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}
	if strings.TrimSpace(req.Question) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "question is required"})
	}

	answer, sources, err := h.engine.Ask(c.Context(), req.Question)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrUnavailable):
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Error: "The AI senior is offline right now. Notes are still available.",
			})
		case errors.Is(err, ai.ErrModelLoading):
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Error: "The AI is waking up! Please wait a moment and ask again.",
			})
		default:
			log.Error().Err(err).Msg("chat query failed")
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: "Something went wrong answering that. Please try again.",
			})
		}
	}

	resp := dto.ChatResponse{Answer: answer}
	for _, s := range sources {
		resp.Sources = append(resp.Sources, dto.ChatSource{Document: s.DocumentID, Distance: s.Distance})
	}
	return c.JSON(resp)
}
