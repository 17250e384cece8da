package entity

import "time"

type ResourceType string

const (
	ResourceNotes ResourceType = "notes"
	ResourcePYQ   ResourceType = "pyq"
	ResourceLab   ResourceType = "lab"
)

// NoteFeedback is a single feedback entry appended to a note's feedback array.
type NoteFeedback struct {
	UserEmail   string    `json:"userEmail"`
	Text        string    `json:"text"`
	SubmittedAt time.Time `json:"submittedAt"`
}

type Note struct {
	ID           string       `db:"id" json:"id"`
	Name         string       `db:"name" json:"name"`
	Subject      string       `db:"subject" json:"subject"`
	Branch       string       `db:"branch" json:"branch"`
	Year         string       `db:"year" json:"year"`
	Semester     string       `db:"semester" json:"semester"`
	Unit         int          `db:"unit" json:"unit"`
	ResourceType ResourceType `db:"resource_type" json:"resourceType"`
	DownloadURL  string       `db:"download_url" json:"downloadUrl"`
	Downloads    int          `db:"downloads" json:"downloads"`
	Feedback     []byte       `db:"feedback" json:"-"` // raw JSON array of NoteFeedback
	CreatedAt    time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updatedAt"`
}

// NoteFilter narrows a notes listing. Zero values mean "any".
type NoteFilter struct {
	Subject      string
	Branch       string
	Year         string
	Semester     string
	ResourceType ResourceType
	Unit         int // 0 = any
}
