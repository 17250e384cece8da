package dto

type ChatRequest struct {
	Question string `json:"question"`
}

type ChatSource struct {
	Document string  `json:"document"`
	Distance float32 `json:"distance"`
}

type ChatResponse struct {
	Answer  string       `json:"answer"`
	Sources []ChatSource `json:"sources,omitempty"`
}
