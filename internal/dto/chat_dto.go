package dto

type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Message string     `json:"message" validate:"required"`
	History []ChatTurn `json:"history"`
}

// ChatResponse is the uniform frontend contract. Error and Details are
// internal diagnostics attached on graceful degradation; the HTTP status
// stays 200 so the frontend always has a renderable reply.
type ChatResponse struct {
	Reply   string   `json:"reply"`
	Sources []string `json:"sources"`
	Error   string   `json:"error,omitempty"`
	Details string   `json:"details,omitempty"`
}

// Stream line frames for the chunked chat variant.
type StreamSourcesLine struct {
	Type    string   `json:"type"` // "sources"
	Sources []string `json:"sources"`
}

type StreamTokenLine struct {
	Type  string `json:"type"` // "token"
	Token string `json:"token"`
}
