package mocks

import (
	"context"
	"fmt"

	"github.com/pageza/mealmind/backend/internal/models"
	"github.com/pageza/mealmind/backend/internal/service"
)

// MockInferenceClient is a mock implementation of the inference client.
// Unset function fields return empty output with no error.
type MockInferenceClient struct {
	ClassifyFunc  func(ctx context.Context, instruction, input string, labels []string) (string, error)
	GenerateFunc  func(ctx context.Context, system string, history []models.Exchange, user string) (string, error)
	ClassifyCalls int
	GenerateCalls int
}

func (m *MockInferenceClient) Classify(ctx context.Context, instruction, input string, labels []string) (string, error) {
	m.ClassifyCalls++
	if m.ClassifyFunc == nil {
		return "", nil
	}
	return m.ClassifyFunc(ctx, instruction, input, labels)
}

func (m *MockInferenceClient) Generate(ctx context.Context, system string, history []models.Exchange, user string) (string, error) {
	m.GenerateCalls++
	if m.GenerateFunc == nil {
		return "", nil
	}
	return m.GenerateFunc(ctx, system, history, user)
}

// MockToolClient is a mock implementation of the recipe search client
type MockToolClient struct {
	SearchRecipeFunc func(ctx context.Context, criteria models.RecommendationCriteria) (string, error)
	SearchCalls      int
	LastCriteria     models.RecommendationCriteria
}

func (m *MockToolClient) SearchRecipe(ctx context.Context, criteria models.RecommendationCriteria) (string, error) {
	m.SearchCalls++
	m.LastCriteria = criteria
	if m.SearchRecipeFunc == nil {
		return "", service.ErrRecipeNotFound
	}
	return m.SearchRecipeFunc(ctx, criteria)
}

// MockProfileService is an in-memory implementation of the profile
// store, with injectable errors for failure-path tests.
type MockProfileService struct {
	Profiles map[string]*models.UserProfile
	GetErr   error
	SaveErr  error
}

func NewMockProfileService() *MockProfileService {
	return &MockProfileService{Profiles: make(map[string]*models.UserProfile)}
}

func (m *MockProfileService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	profile, ok := m.Profiles[userID]
	if !ok {
		return nil, service.ErrProfileNotFound
	}
	return profile, nil
}

func (m *MockProfileService) SaveProfile(ctx context.Context, profile *models.UserProfile) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	if err := profile.Validate(); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}
	m.Profiles[profile.UserID] = profile
	return nil
}

// MockSessionService is an in-memory implementation of the session store
type MockSessionService struct {
	Sessions map[string]*models.SessionState
	GetErr   error
	SaveErr  error
}

func NewMockSessionService() *MockSessionService {
	return &MockSessionService{Sessions: make(map[string]*models.SessionState)}
}

func (m *MockSessionService) Get(ctx context.Context, sessionID string) (*models.SessionState, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	state, ok := m.Sessions[sessionID]
	if !ok {
		return nil, service.ErrSessionNotFound
	}
	return state, nil
}

func (m *MockSessionService) Save(ctx context.Context, state *models.SessionState) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Sessions[state.SessionID] = state
	return nil
}

func (m *MockSessionService) Delete(ctx context.Context, sessionID string) error {
	delete(m.Sessions, sessionID)
	return nil
}
