package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"campusvibe/internal/domain/entity"
	"campusvibe/internal/domain/repository"

	"github.com/jmoiron/sqlx"
)

type noteRepository struct {
	db *sqlx.DB
}

func NewNoteRepository(db *sqlx.DB) repository.NoteRepository {
	return &noteRepository{db: db}
}

const noteColumns = `id, name, subject, branch, year, semester, unit, resource_type,
	download_url, downloads, feedback, created_at, updated_at`

// get note by id
func (r *noteRepository) GetByID(ctx context.Context, id string) (*entity.Note, error) {
	var note entity.Note
	query := fmt.Sprintf(`SELECT %s FROM notes WHERE id = $1`, noteColumns)
	err := r.db.GetContext(ctx, &note, query, id)
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// Find lists notes matching the filter. Zero-valued filter fields are skipped.
func (r *noteRepository) Find(ctx context.Context, filter entity.NoteFilter) ([]entity.Note, error) {
	var conds []string
	var args []interface{}

	add := func(col, val string) {
		if val != "" {
			args = append(args, val)
			conds = append(conds, fmt.Sprintf("%s = $%d", col, len(args)))
		}
	}
	add("subject", filter.Subject)
	add("branch", filter.Branch)
	add("year", filter.Year)
	add("semester", filter.Semester)
	add("resource_type", string(filter.ResourceType))
	if filter.Unit > 0 {
		args = append(args, filter.Unit)
		conds = append(conds, fmt.Sprintf("unit = $%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM notes`, noteColumns)
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY subject, unit"

	var notes []entity.Note
	if err := r.db.SelectContext(ctx, &notes, query, args...); err != nil {
		return nil, err
	}
	return notes, nil
}

// Trending returns the most-downloaded notes.
func (r *noteRepository) Trending(ctx context.Context, limit int) ([]entity.Note, error) {
	query := fmt.Sprintf(`SELECT %s FROM notes ORDER BY downloads DESC LIMIT $1`, noteColumns)

	var notes []entity.Note
	if err := r.db.SelectContext(ctx, &notes, query, limit); err != nil {
		return nil, err
	}
	return notes, nil
}

// IncrementDownloads bumps the download counter for a note.
func (r *noteRepository) IncrementDownloads(ctx context.Context, id string) error {
	query := `UPDATE notes SET downloads = downloads + 1, updated_at = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, time.Now())
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("note not found: %s", id)
	}
	return nil
}

// AppendFeedback pushes a feedback entry onto the note's JSONB feedback array.
func (r *noteRepository) AppendFeedback(ctx context.Context, id string, fb entity.NoteFeedback) error {
	data, err := json.Marshal(fb)
	if err != nil {
		return err
	}

	query := `UPDATE notes
		SET feedback = COALESCE(feedback, '[]'::jsonb) || $2::jsonb, updated_at = $3
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, data, time.Now())
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("note not found: %s", id)
	}
	return nil
}
