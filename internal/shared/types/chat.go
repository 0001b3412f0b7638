package types

import "time"

// ChatRequest is the inbound /chat payload. ReferenceImage is raw base64
// (no data-URI prefix); History is accepted for wire compatibility with the
// studio frontend but the orchestration is stateless and never reads it.
type ChatRequest struct {
	Message        string        `json:"message"`
	ReferenceImage string        `json:"referenceImage,omitempty"`
	History        []HistoryTurn `json:"conversationHistory,omitempty"`
}

// HistoryTurn is a single prior conversation entry as the frontend stores it.
type HistoryTurn struct {
	ID             string    `json:"id,omitempty"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp,omitzero"`
	ImageURL       string    `json:"imageUrl,omitempty"`
	ReferenceImage string    `json:"referenceImage,omitempty"`
}

// ChatResponse is the /chat response contract.
type ChatResponse struct {
	Content  string  `json:"content"`
	ImageURL *string `json:"imageUrl"`
	Success  bool    `json:"success"`
}

// ImageRequest is the inbound /generate-image payload.
type ImageRequest struct {
	Prompt string `json:"prompt"`
}

// ImageResponse is the /generate-image response contract.
type ImageResponse struct {
	ImageURL string `json:"imageUrl"`
	Prompt   string `json:"prompt"`
	Success  bool   `json:"success"`
}
