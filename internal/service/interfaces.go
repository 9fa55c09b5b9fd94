package service

import (
	"context"

	"github.com/pageza/mealmind/backend/internal/models"
)

// IInferenceClient defines the interface for language-model calls.
// Classify returns one of the given labels, or "" when the model output
// matched none of them; callers apply their own conservative default.
type IInferenceClient interface {
	Classify(ctx context.Context, instruction, input string, labels []string) (string, error)
	Generate(ctx context.Context, system string, history []models.Exchange, user string) (string, error)
}

// IToolClient defines the interface for the external recipe search.
type IToolClient interface {
	SearchRecipe(ctx context.Context, criteria models.RecommendationCriteria) (string, error)
}

// IProfileService defines the interface for the profile store.
// Profiles are keyed by the stable external user id, last-write-wins.
type IProfileService interface {
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	SaveProfile(ctx context.Context, profile *models.UserProfile) error
}

// ISessionService defines the interface for the session store.
type ISessionService interface {
	Get(ctx context.Context, sessionID string) (*models.SessionState, error)
	Save(ctx context.Context, state *models.SessionState) error
	Delete(ctx context.Context, sessionID string) error
}
