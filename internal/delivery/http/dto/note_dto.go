package dto

import "time"

type FeedbackInfo struct {
	UserEmail   string    `json:"userEmail"`
	Text        string    `json:"text"`
	SubmittedAt time.Time `json:"submittedAt"`
}

type NoteInfo struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Subject      string         `json:"subject"`
	Branch       string         `json:"branch"`
	Year         string         `json:"year"`
	Semester     string         `json:"semester"`
	Unit         int            `json:"unit"`
	ResourceType string         `json:"resourceType"`
	DownloadURL  string         `json:"downloadUrl"`
	Downloads    int            `json:"downloads"`
	Feedback     []FeedbackInfo `json:"feedback,omitempty"`
}

type ListNotesResponse struct {
	Notes []NoteInfo `json:"notes"`
	Total int        `json:"total"`
}

type DownloadResponse struct {
	Message     string `json:"message"`
	DownloadURL string `json:"downloadUrl"`
}

type FeedbackRequest struct {
	Text string `json:"text"`
}
