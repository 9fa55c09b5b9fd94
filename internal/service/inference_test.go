package service_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pageza/mealmind/backend/config"
	"github.com/pageza/mealmind/backend/internal/models"
	"github.com/pageza/mealmind/backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func completionJSON(content string) string {
	body, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	return string(body)
}

func newTestInferenceClient(t *testing.T, url string) *service.InferenceClient {
	t.Helper()
	client, err := service.NewInferenceClient(&config.Config{
		InferenceAPIKey: "test-key",
		InferenceAPIURL: url,
		InferenceModel:  "test-model",
	})
	require.NoError(t, err)
	return client
}

func TestInferenceClient(t *testing.T) {
	ctx := context.Background()

	t.Run("should require an API key", func(t *testing.T) {
		_, err := service.NewInferenceClient(&config.Config{})
		assert.Error(t, err)
	})

	t.Run("should match a label case-insensitively", func(t *testing.T) {
		server := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			w.Write([]byte(completionJSON("Meal_Request")))
		})
		client := newTestInferenceClient(t, server.URL)

		label, err := client.Classify(ctx, "classify", "suggest a meal", []string{"meal_request", "normal_chat"})
		require.NoError(t, err)
		assert.Equal(t, "meal_request", label)
	})

	t.Run("should try labels in order so dissatisfied beats its substring", func(t *testing.T) {
		server := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(completionJSON("dissatisfied")))
		})
		client := newTestInferenceClient(t, server.URL)

		label, err := client.Classify(ctx, "classify", "nope", []string{"dissatisfied", "satisfied"})
		require.NoError(t, err)
		assert.Equal(t, "dissatisfied", label)
	})

	t.Run("should return no label for unmatched output", func(t *testing.T) {
		server := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(completionJSON("I cannot classify this.")))
		})
		client := newTestInferenceClient(t, server.URL)

		label, err := client.Classify(ctx, "classify", "???", []string{"meal_request", "normal_chat"})
		require.NoError(t, err)
		assert.Empty(t, label)
	})

	t.Run("should translate HTTP 429 into the rate limit sentinel", func(t *testing.T) {
		server := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})
		client := newTestInferenceClient(t, server.URL)

		_, err := client.Classify(ctx, "classify", "hi", []string{"meal_request"})
		assert.ErrorIs(t, err, service.ErrRateLimited)
	})

	t.Run("should treat a model-reported rate limit like a 429", func(t *testing.T) {
		server := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(completionJSON("Sorry, I am currently experiencing high demand and cannot answer.")))
		})
		client := newTestInferenceClient(t, server.URL)

		_, err := client.Generate(ctx, "chat", nil, "hello")
		assert.ErrorIs(t, err, service.ErrRateLimited)
	})

	t.Run("should send history as alternating role messages", func(t *testing.T) {
		var received struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		server := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			w.Write([]byte(completionJSON("hello back")))
		})
		client := newTestInferenceClient(t, server.URL)

		history := []models.Exchange{
			{Role: models.RoleUser, Content: "hi"},
			{Role: models.RoleAssistant, Content: "hello!"},
		}
		reply, err := client.Generate(ctx, "be nice", history, "how are you?")
		require.NoError(t, err)
		assert.Equal(t, "hello back", reply)

		require.Len(t, received.Messages, 4)
		assert.Equal(t, "system", received.Messages[0].Role)
		assert.Equal(t, "user", received.Messages[1].Role)
		assert.Equal(t, "assistant", received.Messages[2].Role)
		assert.Equal(t, "how are you?", received.Messages[3].Content)
		assert.Equal(t, "test-model", received.Model)
	})

	t.Run("should fail on an error status with the body in the message", func(t *testing.T) {
		server := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad key", http.StatusUnauthorized)
		})
		client := newTestInferenceClient(t, server.URL)

		_, err := client.Generate(ctx, "chat", nil, "hello")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "401")
	})
}

func TestRecipeSearchClient(t *testing.T) {
	ctx := context.Background()

	newClient := func(t *testing.T, url string) *service.RecipeSearchClient {
		t.Helper()
		client, err := service.NewRecipeSearchClient(&config.Config{
			ToolAPIKey: "tool-key",
			ToolAPIURL: url,
			ToolModel:  "search-model",
		})
		require.NoError(t, err)
		return client
	}

	t.Run("should return the recipe text", func(t *testing.T) {
		server := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(completionJSON("Pad Thai: noodles, tamarind...")))
		})
		client := newClient(t, server.URL)

		recipe, err := client.SearchRecipe(ctx, models.RecommendationCriteria{Cuisine: "thai"})
		require.NoError(t, err)
		assert.Contains(t, recipe, "Pad Thai")
	})

	t.Run("should report not found on empty output", func(t *testing.T) {
		server := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(completionJSON("   ")))
		})
		client := newClient(t, server.URL)

		_, err := client.SearchRecipe(ctx, models.RecommendationCriteria{Cuisine: "thai"})
		assert.ErrorIs(t, err, service.ErrRecipeNotFound)
	})
}
