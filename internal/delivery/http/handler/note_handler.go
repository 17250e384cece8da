package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"

	"campusvibe/internal/delivery/http/dto"
	"campusvibe/internal/domain/entity"
	"campusvibe/internal/usecase/notes"

	"github.com/gofiber/fiber/v2"
)

type NoteHandler struct {
	notesUsecase *notes.NotesUsecase
}

func NewNoteHandler(notesUsecase *notes.NotesUsecase) *NoteHandler {
	return &NoteHandler{notesUsecase: notesUsecase}
}

func (h *NoteHandler) Trending(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "3"))

	found, err := h.notesUsecase.Trending(c.Context(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(toListResponse(found))
}

func (h *NoteHandler) List(c *fiber.Ctx) error {
	unit, _ := strconv.Atoi(c.Query("unit", "0"))
	filter := entity.NoteFilter{
		Subject:      c.Query("subject"),
		Branch:       c.Query("branch"),
		Year:         c.Query("year"),
		Semester:     c.Query("semester"),
		ResourceType: entity.ResourceType(c.Query("type")),
		Unit:         unit,
	}

	found, err := h.notesUsecase.Browse(c.Context(), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(toListResponse(found))
}

func (h *NoteHandler) GetByID(c *fiber.Ctx) error {
	note, err := h.notesUsecase.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "note not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(toNoteInfo(*note, true))
}

func (h *NoteHandler) Download(c *fiber.Ctx) error {
	url, err := h.notesUsecase.LogDownload(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "note not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(dto.DownloadResponse{
		Message:     "Download count updated",
		DownloadURL: url,
	})
}

func (h *NoteHandler) Feedback(c *fiber.Ctx) error {
	var req dto.FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	email, _ := c.Locals("email").(string)
	if err := h.notesUsecase.AddFeedback(c.Context(), c.Params("id"), email, req.Text); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "note not found"})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(dto.MessageResponse{Message: "Feedback submitted"})
}

func toListResponse(found []entity.Note) dto.ListNotesResponse {
	infos := make([]dto.NoteInfo, 0, len(found))
	for _, n := range found {
		infos = append(infos, toNoteInfo(n, false))
	}
	return dto.ListNotesResponse{Notes: infos, Total: len(infos)}
}

func toNoteInfo(n entity.Note, withFeedback bool) dto.NoteInfo {
	info := dto.NoteInfo{
		ID:           n.ID,
		Name:         n.Name,
		Subject:      n.Subject,
		Branch:       n.Branch,
		Year:         n.Year,
		Semester:     n.Semester,
		Unit:         n.Unit,
		ResourceType: string(n.ResourceType),
		DownloadURL:  n.DownloadURL,
		Downloads:    n.Downloads,
	}
	if withFeedback && len(n.Feedback) > 0 {
		var fbs []entity.NoteFeedback
		if err := json.Unmarshal(n.Feedback, &fbs); err == nil {
			for _, fb := range fbs {
				info.Feedback = append(info.Feedback, dto.FeedbackInfo{
					UserEmail:   fb.UserEmail,
					Text:        fb.Text,
					SubmittedAt: fb.SubmittedAt,
				})
			}
		}
	}
	return info
}
