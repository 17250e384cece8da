package notes

import (
	"context"
	"errors"
	"strings"
	"time"

	"campusvibe/internal/domain/entity"
	"campusvibe/internal/domain/repository"
)

const defaultTrendingLimit = 3

type NotesUsecase struct {
	noteRepo repository.NoteRepository
}

func NewNotesUsecase(noteRepo repository.NoteRepository) *NotesUsecase {
	return &NotesUsecase{noteRepo: noteRepo}
}

func (uc *NotesUsecase) GetByID(ctx context.Context, id string) (*entity.Note, error) {
	return uc.noteRepo.GetByID(ctx, id)
}

func (uc *NotesUsecase) Browse(ctx context.Context, filter entity.NoteFilter) ([]entity.Note, error) {
	return uc.noteRepo.Find(ctx, filter)
}

// Trending returns the most-downloaded notes for the dashboard.
func (uc *NotesUsecase) Trending(ctx context.Context, limit int) ([]entity.Note, error) {
	if limit <= 0 {
		limit = defaultTrendingLimit
	}
	return uc.noteRepo.Trending(ctx, limit)
}

// LogDownload bumps the download counter and returns the note's URL so the
// caller can redirect the user to the file.
func (uc *NotesUsecase) LogDownload(ctx context.Context, id string) (string, error) {
	note, err := uc.noteRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if err := uc.noteRepo.IncrementDownloads(ctx, id); err != nil {
		return "", err
	}
	return note.DownloadURL, nil
}

// AddFeedback appends a feedback entry to the note. Feedback must carry at
// least two words, matching the form validation of the legacy UI.
func (uc *NotesUsecase) AddFeedback(ctx context.Context, id, userEmail, text string) error {
	if len(strings.Fields(text)) < 2 {
		return errors.New("please provide a little more detail for feedback")
	}
	return uc.noteRepo.AppendFeedback(ctx, id, entity.NoteFeedback{
		UserEmail:   userEmail,
		Text:        text,
		SubmittedAt: time.Now(),
	})
}
