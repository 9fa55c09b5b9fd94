package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/mealmind/backend/internal/models"
	"github.com/pageza/mealmind/backend/internal/service"
	"github.com/pageza/mealmind/backend/internal/types"
)

// ChatHandler handles conversation turns and session lifecycle
type ChatHandler struct {
	orchestrator *service.Orchestrator
	sessions     service.ISessionService
}

// NewChatHandler creates a new ChatHandler instance
func NewChatHandler(orchestrator *service.Orchestrator, sessions service.ISessionService) *ChatHandler {
	return &ChatHandler{
		orchestrator: orchestrator,
		sessions:     sessions,
	}
}

// Chat processes one conversation turn. An empty session id starts a
// new session; the returned id is echoed on subsequent turns.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req types.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := authenticatedUserID(c)
	if userID == "" {
		return
	}

	state, ok := h.loadOrCreateSession(c, req.SessionID, userID)
	if !ok {
		return
	}

	reply, updated := h.orchestrator.ProcessTurn(c.Request.Context(), state, req.Message)

	if err := h.sessions.Save(c.Request.Context(), updated); err != nil {
		log.Printf("failed to save session %s: %v", updated.SessionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save session"})
		return
	}

	c.JSON(http.StatusOK, types.ChatResponse{
		SessionID: updated.SessionID,
		Reply:     reply,
		State:     updated.WorkflowState,
		TurnCount: updated.TurnCount,
	})
}

// GetSession returns the stored state of one of the caller's sessions.
func (h *ChatHandler) GetSession(c *gin.Context) {
	userID := authenticatedUserID(c)
	if userID == "" {
		return
	}

	state, ok := h.ownedSession(c, c.Param("id"), userID)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, types.SessionStateResponse{
		SessionID:          state.SessionID,
		UserID:             state.UserID,
		State:              state.WorkflowState,
		NextMissingField:   state.NextMissingField,
		LastRecommendation: state.LastRecommendation,
		TurnCount:          state.TurnCount,
		UpdatedAt:          state.UpdatedAt,
	})
}

// DeleteSession terminates a session explicitly.
func (h *ChatHandler) DeleteSession(c *gin.Context) {
	userID := authenticatedUserID(c)
	if userID == "" {
		return
	}

	if _, ok := h.ownedSession(c, c.Param("id"), userID); !ok {
		return
	}

	if err := h.sessions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		log.Printf("failed to delete session %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete session"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ChatHandler) loadOrCreateSession(c *gin.Context, sessionID, userID string) (*models.SessionState, bool) {
	if sessionID == "" {
		return models.NewSessionState(userID), true
	}

	state, err := h.sessions.Get(c.Request.Context(), sessionID)
	if errors.Is(err, service.ErrSessionNotFound) {
		// Expired or unknown; start over rather than failing the turn.
		return models.NewSessionState(userID), true
	}
	if err != nil {
		log.Printf("failed to load session %s: %v", sessionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load session"})
		return nil, false
	}
	if state.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "session belongs to another user"})
		return nil, false
	}
	return state, true
}

func (h *ChatHandler) ownedSession(c *gin.Context, sessionID, userID string) (*models.SessionState, bool) {
	state, err := h.sessions.Get(c.Request.Context(), sessionID)
	if errors.Is(err, service.ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return nil, false
	}
	if err != nil {
		log.Printf("failed to load session %s: %v", sessionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load session"})
		return nil, false
	}
	if state.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "session belongs to another user"})
		return nil, false
	}
	return state, true
}

func authenticatedUserID(c *gin.Context) string {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return ""
	}
	userID, ok := userIDVal.(string)
	if !ok || userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return ""
	}
	return userID
}
