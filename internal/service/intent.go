package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/pageza/mealmind/backend/internal/models"
)

const intentInstruction = `Classify the user's latest message as exactly one label:
meal_request - the user asks for a meal, dish, recipe, or food suggestion
normal_chat - anything else, including greetings and questions
Reply with the label only.`

// IntentClassifier maps a user message plus short conversation context
// to one of the fixed intent labels. Unrecognized or failed
// classifications default to normal chat; a rate limit becomes its own
// signal regardless of message content.
type IntentClassifier struct {
	inference IInferenceClient
}

// NewIntentClassifier creates a new IntentClassifier instance
func NewIntentClassifier(inference IInferenceClient) *IntentClassifier {
	return &IntentClassifier{inference: inference}
}

// Classify returns the intent of the given message.
func (c *IntentClassifier) Classify(ctx context.Context, state *models.SessionState, message string) models.Intent {
	input := message
	if history := state.RecentHistory(6); len(history) > 0 {
		var b strings.Builder
		b.WriteString("Recent conversation:\n")
		for _, ex := range history {
			fmt.Fprintf(&b, "%s: %s\n", ex.Role, ex.Content)
		}
		fmt.Fprintf(&b, "\nLatest user message: %s", message)
		input = b.String()
	}

	label, err := c.inference.Classify(ctx, intentInstruction, input,
		[]string{string(models.IntentMealRequest), string(models.IntentNormalChat)})
	if err != nil {
		if errors.Is(err, ErrRateLimited) {
			return models.IntentRateLimitSignal
		}
		log.Printf("intent classification failed for session %s, defaulting to normal chat: %v", state.SessionID, err)
		return models.IntentNormalChat
	}

	if models.Intent(label) == models.IntentMealRequest {
		return models.IntentMealRequest
	}
	return models.IntentNormalChat
}
