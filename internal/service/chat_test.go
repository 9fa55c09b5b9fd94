package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/pageza/mealmind/backend/internal/mocks"
	"github.com/pageza/mealmind/backend/internal/models"
	"github.com/pageza/mealmind/backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatService(t *testing.T) {
	ctx := context.Background()

	t.Run("should feed recent history to the generation", func(t *testing.T) {
		var seenHistory []models.Exchange
		inference := &mocks.MockInferenceClient{
			GenerateFunc: func(ctx context.Context, system string, history []models.Exchange, user string) (string, error) {
				seenHistory = history
				return "Nice to see you again!", nil
			},
		}
		chat := service.NewChatService(inference)

		state := models.NewSessionState("u1")
		state.AppendExchange(models.RoleUser, "hi")
		state.AppendExchange(models.RoleAssistant, "hello!")

		reply, err := chat.Reply(ctx, state, "how are you?")
		require.NoError(t, err)
		assert.Equal(t, "Nice to see you again!", reply)
		assert.Len(t, seenHistory, 2)
	})

	t.Run("should answer with a canned fallback on generation failure", func(t *testing.T) {
		inference := &mocks.MockInferenceClient{
			GenerateFunc: func(ctx context.Context, system string, history []models.Exchange, user string) (string, error) {
				return "", errors.New("boom")
			},
		}
		chat := service.NewChatService(inference)

		reply, err := chat.Reply(ctx, models.NewSessionState("u1"), "hello")
		require.NoError(t, err)
		assert.NotEmpty(t, reply)
	})

	t.Run("should surface a rate limit", func(t *testing.T) {
		inference := &mocks.MockInferenceClient{
			GenerateFunc: func(ctx context.Context, system string, history []models.Exchange, user string) (string, error) {
				return "", service.ErrRateLimited
			},
		}
		chat := service.NewChatService(inference)

		_, err := chat.Reply(ctx, models.NewSessionState("u1"), "hello")
		assert.ErrorIs(t, err, service.ErrRateLimited)
	})
}
