package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pageza/mealmind/backend/internal/mocks"
	"github.com/pageza/mealmind/backend/internal/models"
	"github.com/pageza/mealmind/backend/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestIntentClassifier(t *testing.T) {
	ctx := context.Background()

	t.Run("should map a meal request label", func(t *testing.T) {
		inference := &mocks.MockInferenceClient{
			ClassifyFunc: func(ctx context.Context, instruction, input string, labels []string) (string, error) {
				return "meal_request", nil
			},
		}
		classifier := service.NewIntentClassifier(inference)

		intent := classifier.Classify(ctx, models.NewSessionState("u1"), "suggest a meal")
		assert.Equal(t, models.IntentMealRequest, intent)
	})

	t.Run("should default to normal chat on unmatched output", func(t *testing.T) {
		inference := &mocks.MockInferenceClient{
			ClassifyFunc: func(ctx context.Context, instruction, input string, labels []string) (string, error) {
				return "", nil
			},
		}
		classifier := service.NewIntentClassifier(inference)

		intent := classifier.Classify(ctx, models.NewSessionState("u1"), "???")
		assert.Equal(t, models.IntentNormalChat, intent)
	})

	t.Run("should default to normal chat on a non-rate-limit error", func(t *testing.T) {
		inference := &mocks.MockInferenceClient{
			ClassifyFunc: func(ctx context.Context, instruction, input string, labels []string) (string, error) {
				return "", errors.New("boom")
			},
		}
		classifier := service.NewIntentClassifier(inference)

		intent := classifier.Classify(ctx, models.NewSessionState("u1"), "hello")
		assert.Equal(t, models.IntentNormalChat, intent)
	})

	t.Run("should signal a rate limit regardless of message content", func(t *testing.T) {
		inference := &mocks.MockInferenceClient{
			ClassifyFunc: func(ctx context.Context, instruction, input string, labels []string) (string, error) {
				return "", service.ErrRateLimited
			},
		}
		classifier := service.NewIntentClassifier(inference)

		intent := classifier.Classify(ctx, models.NewSessionState("u1"), "suggest a meal")
		assert.Equal(t, models.IntentRateLimitSignal, intent)
	})

	t.Run("should include recent history in the classification input", func(t *testing.T) {
		var seenInput string
		inference := &mocks.MockInferenceClient{
			ClassifyFunc: func(ctx context.Context, instruction, input string, labels []string) (string, error) {
				seenInput = input
				return "normal_chat", nil
			},
		}
		classifier := service.NewIntentClassifier(inference)

		state := models.NewSessionState("u1")
		state.AppendExchange(models.RoleUser, "what do you do?")
		state.AppendExchange(models.RoleAssistant, "I suggest meals.")

		classifier.Classify(ctx, state, "sounds good")
		assert.True(t, strings.Contains(seenInput, "what do you do?"))
		assert.True(t, strings.Contains(seenInput, "sounds good"))
	})
}
