package service

import (
	"context"
	"errors"
	"log"

	"github.com/pageza/mealmind/backend/internal/models"
)

const sentimentInstruction = `The assistant just suggested a meal. Classify the user's reaction as exactly one label:
satisfied - the user accepts or likes the suggestion
dissatisfied - the user rejects or dislikes the suggestion
Reply with the label only.`

const wantsNewInstruction = `The user was not happy with a meal suggestion. Decide whether they want another suggestion. Reply with exactly one label:
yes - they want a different suggestion
no - they do not want another suggestion
Reply with the label only.`

// SatisfactionResult is the two-part verdict on a recommendation.
// WantsNew is only meaningful when Sentiment is dissatisfied.
type SatisfactionResult struct {
	Sentiment models.Sentiment
	WantsNew  bool
}

// SatisfactionEvaluator classifies the user's reaction to the last
// recommendation. Ambiguous or failed classification defaults to
// satisfied so a bad model output can never loop the conversation.
type SatisfactionEvaluator struct {
	inference IInferenceClient
}

// NewSatisfactionEvaluator creates a new SatisfactionEvaluator instance
func NewSatisfactionEvaluator(inference IInferenceClient) *SatisfactionEvaluator {
	return &SatisfactionEvaluator{inference: inference}
}

// Evaluate classifies the message that followed a recommendation.
// Only a rate limit is returned as an error.
func (e *SatisfactionEvaluator) Evaluate(ctx context.Context, message string) (SatisfactionResult, error) {
	// dissatisfied first: it contains "satisfied" as a substring, so
	// label matching must try it before the shorter label.
	label, err := e.inference.Classify(ctx, sentimentInstruction, message,
		[]string{string(models.SentimentDissatisfied), string(models.SentimentSatisfied)})
	if err != nil {
		if errors.Is(err, ErrRateLimited) {
			return SatisfactionResult{}, err
		}
		log.Printf("sentiment classification failed, defaulting to satisfied: %v", err)
		return SatisfactionResult{Sentiment: models.SentimentSatisfied}, nil
	}
	if models.Sentiment(label) != models.SentimentDissatisfied {
		return SatisfactionResult{Sentiment: models.SentimentSatisfied}, nil
	}

	label, err = e.inference.Classify(ctx, wantsNewInstruction, message, []string{"yes", "no"})
	if err != nil {
		if errors.Is(err, ErrRateLimited) {
			return SatisfactionResult{}, err
		}
		log.Printf("wants-new classification failed, defaulting to yes: %v", err)
		return SatisfactionResult{Sentiment: models.SentimentDissatisfied, WantsNew: true}, nil
	}

	// An explicitly dissatisfied user gets another suggestion unless
	// they clearly said no.
	return SatisfactionResult{
		Sentiment: models.SentimentDissatisfied,
		WantsNew:  label != "no",
	}, nil
}
