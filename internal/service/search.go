package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pageza/mealmind/backend/config"
	"github.com/pageza/mealmind/backend/internal/models"
)

// ErrRecipeNotFound is returned when the recipe search produced no
// usable result. The recommender degrades to a model-only suggestion.
var ErrRecipeNotFound = errors.New("no recipe found")

// RecipeSearchClient calls a web-search-backed completion API to fetch
// real recipes matching structured criteria.
type RecipeSearchClient struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
}

// Ensure RecipeSearchClient implements IToolClient
var _ IToolClient = (*RecipeSearchClient)(nil)

// NewRecipeSearchClient creates a new RecipeSearchClient instance
func NewRecipeSearchClient(cfg *config.Config) (*RecipeSearchClient, error) {
	if cfg.ToolAPIKey == "" {
		return nil, fmt.Errorf("tool API key must be set")
	}
	return &RecipeSearchClient{
		apiKey: cfg.ToolAPIKey,
		apiURL: cfg.ToolAPIURL,
		model:  cfg.ToolModel,
		client: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// SearchRecipe looks up a concrete recipe matching the criteria.
func (c *RecipeSearchClient) SearchRecipe(ctx context.Context, criteria models.RecommendationCriteria) (string, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: "You are a recipe search assistant. Return one real, authentic recipe matching the request: name, ingredients with quantities, and preparation steps."},
			{Role: "user", Content: searchQuery(criteria)},
		},
		Temperature: 0.2,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("recipe search failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result chatResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Choices) == 0 || strings.TrimSpace(result.Choices[0].Message.Content) == "" {
		return "", ErrRecipeNotFound
	}

	return result.Choices[0].Message.Content, nil
}

// searchQuery flattens criteria into a search request.
func searchQuery(criteria models.RecommendationCriteria) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Find a %s recipe", criteria.Cuisine)
	if criteria.SecondaryCuisine != "" {
		fmt.Fprintf(&b, " (or %s)", criteria.SecondaryCuisine)
	}
	if len(criteria.Exclusions) > 0 {
		fmt.Fprintf(&b, ". Dietary constraints: %s", strings.Join(criteria.Exclusions, "; "))
	}
	if len(criteria.Guidance) > 0 {
		fmt.Fprintf(&b, ". Preferences: %s", strings.Join(criteria.Guidance, "; "))
	}
	if criteria.ExcludeSummary != "" {
		fmt.Fprintf(&b, ". Must be a different dish than: %s", criteria.ExcludeSummary)
	}
	return b.String()
}
