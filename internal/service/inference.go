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

// ErrRateLimited is returned when the inference API reports a rate
// limit, either as an HTTP 429 or explicitly in the model output. Both
// must route to the same workflow state.
var ErrRateLimited = errors.New("inference rate limited")

// Message represents a message in the chat completion request
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest represents a request to the inference API
type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

// chatResponse is the subset of the completion response we read
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// InferenceClient calls a chat-completions style inference API. The
// orchestrator makes at most one call per decision point; the client
// never retries on its own.
type InferenceClient struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
}

// Ensure InferenceClient implements IInferenceClient
var _ IInferenceClient = (*InferenceClient)(nil)

// NewInferenceClient creates a new InferenceClient instance
func NewInferenceClient(cfg *config.Config) (*InferenceClient, error) {
	if cfg.InferenceAPIKey == "" {
		return nil, fmt.Errorf("inference API key must be set")
	}
	return &InferenceClient{
		apiKey: cfg.InferenceAPIKey,
		apiURL: cfg.InferenceAPIURL,
		model:  cfg.InferenceModel,
		client: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Classify asks the model to pick one of the given labels. Returns ""
// when the output matches no label; the caller applies its default.
func (c *InferenceClient) Classify(ctx context.Context, instruction, input string, labels []string) (string, error) {
	messages := []Message{
		{Role: "system", Content: instruction},
		{Role: "user", Content: input},
	}

	content, err := c.chatCompletion(ctx, messages, 0.0)
	if err != nil {
		return "", err
	}

	out := strings.ToLower(content)
	for _, label := range labels {
		if strings.Contains(out, strings.ToLower(label)) {
			return label, nil
		}
	}
	return "", nil
}

// Generate produces a free-form reply from the system prompt, the
// recent conversation history and the latest user message.
func (c *InferenceClient) Generate(ctx context.Context, system string, history []models.Exchange, user string) (string, error) {
	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{Role: "system", Content: system})
	for _, ex := range history {
		messages = append(messages, Message{Role: ex.Role, Content: ex.Content})
	}
	messages = append(messages, Message{Role: "user", Content: user})

	return c.chatCompletion(ctx, messages, 0.7)
}

func (c *InferenceClient) chatCompletion(ctx context.Context, messages []Message, temperature float64) (string, error) {
	reqBody := chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
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

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", ErrRateLimited
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("inference API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result chatResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no response from inference API")
	}

	content := result.Choices[0].Message.Content
	if reportsRateLimit(content) {
		return "", ErrRateLimited
	}

	return content, nil
}

// reportsRateLimit detects a model that answers with a rate-limit
// notice instead of a completion. Routed identically to an HTTP 429.
func reportsRateLimit(content string) bool {
	lower := strings.ToLower(content)
	return strings.Contains(lower, "rate limit") ||
		strings.Contains(lower, "rate-limited") ||
		strings.Contains(lower, "currently experiencing high demand")
}
