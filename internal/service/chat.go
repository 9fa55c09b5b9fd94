package service

import (
	"context"
	"errors"
	"log"

	"github.com/pageza/mealmind/backend/internal/models"
)

const chatSystemPrompt = "You are a friendly meal-planning assistant. Chat naturally with the user. When it fits, mention that you can suggest meals tailored to their profile. Keep replies short."

// chatFallbackReply covers a failed generation; the turn still ends
// with a valid assistant message.
const chatFallbackReply = "Sorry, I lost my train of thought there. Could you say that again?"

// ChatService is the open-conversation fallback for messages that are
// not part of any in-flight task. Stateless, single turn.
type ChatService struct {
	inference IInferenceClient
}

// NewChatService creates a new ChatService instance
func NewChatService(inference IInferenceClient) *ChatService {
	return &ChatService{inference: inference}
}

// Reply generates a conversational response using recent history as
// context. Only a rate limit is returned as an error.
func (s *ChatService) Reply(ctx context.Context, state *models.SessionState, message string) (string, error) {
	reply, err := s.inference.Generate(ctx, chatSystemPrompt, state.RecentHistory(10), message)
	if err != nil {
		if errors.Is(err, ErrRateLimited) {
			return "", err
		}
		log.Printf("chat generation failed for session %s: %v", state.SessionID, err)
		return chatFallbackReply, nil
	}
	return reply, nil
}
