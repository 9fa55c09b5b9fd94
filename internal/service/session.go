package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pageza/mealmind/backend/internal/models"
	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound is returned for unknown or expired sessions.
var ErrSessionNotFound = errors.New("session not found")

// SessionService persists per-session conversation state in Redis as a
// JSON record with a TTL. Only the orchestrator mutates the state; this
// service just stores whatever it is handed.
type SessionService struct {
	redis *redis.Client
	ttl   time.Duration
}

// Ensure SessionService implements ISessionService
var _ ISessionService = (*SessionService)(nil)

// NewSessionService creates a new SessionService instance
func NewSessionService(redisClient *redis.Client, ttl time.Duration) *SessionService {
	return &SessionService{redis: redisClient, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

// Get retrieves a session state by id.
func (s *SessionService) Get(ctx context.Context, sessionID string) (*models.SessionState, error) {
	data, err := s.redis.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session from Redis: %w", err)
	}

	var state models.SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &state, nil
}

// Save stores a session state, refreshing its TTL.
func (s *SessionService) Save(ctx context.Context, state *models.SessionState) error {
	state.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.redis.Set(ctx, sessionKey(state.SessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session to Redis: %w", err)
	}
	return nil
}

// Delete removes a session (explicit termination).
func (s *SessionService) Delete(ctx context.Context, sessionID string) error {
	if err := s.redis.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session from Redis: %w", err)
	}
	return nil
}
