package types

import (
	"time"

	"github.com/pageza/mealmind/backend/internal/models"
)

// ChatRequest is the body of POST /api/v1/chat. SessionID is empty on
// the first turn; the server creates a session and returns its id.
type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message" binding:"required"`
}

// ChatResponse carries the assistant reply plus the state the session
// ended the turn in.
type ChatResponse struct {
	SessionID string               `json:"session_id"`
	Reply     string               `json:"reply"`
	State     models.WorkflowState `json:"state"`
	TurnCount int                  `json:"turn_count"`
}

// SessionStateResponse is the body of GET /api/v1/sessions/:id.
type SessionStateResponse struct {
	SessionID          string                 `json:"session_id"`
	UserID             string                 `json:"user_id"`
	State              models.WorkflowState   `json:"state"`
	NextMissingField   models.ProfileField    `json:"next_missing_field,omitempty"`
	LastRecommendation *models.Recommendation `json:"last_recommendation,omitempty"`
	TurnCount          int                    `json:"turn_count"`
	UpdatedAt          time.Time              `json:"updated_at"`
}
