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

func TestSatisfactionEvaluator(t *testing.T) {
	ctx := context.Background()

	// answers the sentiment question first, the wants-new question second
	twoPart := func(sentiment, wantsNew string) *mocks.MockInferenceClient {
		return &mocks.MockInferenceClient{
			ClassifyFunc: func(ctx context.Context, instruction, input string, labels []string) (string, error) {
				if labels[0] == string(models.SentimentDissatisfied) {
					return sentiment, nil
				}
				return wantsNew, nil
			},
		}
	}

	t.Run("should classify a satisfied reaction", func(t *testing.T) {
		evaluator := service.NewSatisfactionEvaluator(twoPart("satisfied", ""))

		result, err := evaluator.Evaluate(ctx, "perfect, thanks!")
		require.NoError(t, err)
		assert.Equal(t, models.SentimentSatisfied, result.Sentiment)
	})

	t.Run("should classify a dissatisfied reaction wanting another", func(t *testing.T) {
		evaluator := service.NewSatisfactionEvaluator(twoPart("dissatisfied", "yes"))

		result, err := evaluator.Evaluate(ctx, "no, I hate noodles")
		require.NoError(t, err)
		assert.Equal(t, models.SentimentDissatisfied, result.Sentiment)
		assert.True(t, result.WantsNew)
	})

	t.Run("should honor an explicit no to another suggestion", func(t *testing.T) {
		evaluator := service.NewSatisfactionEvaluator(twoPart("dissatisfied", "no"))

		result, err := evaluator.Evaluate(ctx, "not great, but I'll manage")
		require.NoError(t, err)
		assert.Equal(t, models.SentimentDissatisfied, result.Sentiment)
		assert.False(t, result.WantsNew)
	})

	t.Run("should default ambiguous sentiment to satisfied", func(t *testing.T) {
		evaluator := service.NewSatisfactionEvaluator(twoPart("no idea", ""))

		result, err := evaluator.Evaluate(ctx, "mmm")
		require.NoError(t, err)
		assert.Equal(t, models.SentimentSatisfied, result.Sentiment)
	})

	t.Run("should default to satisfied when classification fails", func(t *testing.T) {
		inference := &mocks.MockInferenceClient{
			ClassifyFunc: func(ctx context.Context, instruction, input string, labels []string) (string, error) {
				return "", errors.New("boom")
			},
		}
		evaluator := service.NewSatisfactionEvaluator(inference)

		result, err := evaluator.Evaluate(ctx, "hmm")
		require.NoError(t, err)
		assert.Equal(t, models.SentimentSatisfied, result.Sentiment)
	})

	t.Run("should default a dissatisfied user to wanting another suggestion", func(t *testing.T) {
		evaluator := service.NewSatisfactionEvaluator(twoPart("dissatisfied", "mumble"))

		result, err := evaluator.Evaluate(ctx, "that's awful")
		require.NoError(t, err)
		assert.Equal(t, models.SentimentDissatisfied, result.Sentiment)
		assert.True(t, result.WantsNew)
	})

	t.Run("should surface a rate limit", func(t *testing.T) {
		inference := &mocks.MockInferenceClient{
			ClassifyFunc: func(ctx context.Context, instruction, input string, labels []string) (string, error) {
				return "", service.ErrRateLimited
			},
		}
		evaluator := service.NewSatisfactionEvaluator(inference)

		_, err := evaluator.Evaluate(ctx, "hmm")
		assert.ErrorIs(t, err, service.ErrRateLimited)
	})
}
