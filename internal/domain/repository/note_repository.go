package repository

import (
	"context"

	"campusvibe/internal/domain/entity"
)

// NoteRepository is the narrow document-store surface the application needs:
// get-by-id, find-with-filter, sort+limit, increment-field, append-to-array.
type NoteRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Note, error)
	Find(ctx context.Context, filter entity.NoteFilter) ([]entity.Note, error)
	Trending(ctx context.Context, limit int) ([]entity.Note, error)
	IncrementDownloads(ctx context.Context, id string) error
	AppendFeedback(ctx context.Context, id string, fb entity.NoteFeedback) error
}
