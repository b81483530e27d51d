package openrouter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	apiURL      = "https://openrouter.ai/api/v1/chat/completions"
	maxTokens   = 1000
	temperature = 0.7
	timeout     = 30 * time.Second
)

// Client defines the interface for the OpenRouter chat-completions API.
type Client interface {
	Chat(ctx context.Context, model string, messages []Message) (string, error)
}

// Message is one turn of a chat-completions conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openRouterClient struct {
	httpClient *resty.Client
	url        string
}

// NewClient creates a configured OpenRouter client.
func NewClient(apiKey string) Client {
	return NewClientWithURL(apiKey, apiURL)
}

// NewClientWithURL creates a client against a non-default endpoint. Tests
// point this at a local httptest server.
func NewClientWithURL(apiKey, url string) Client {
	client := resty.New().
		SetHeader("Authorization", "Bearer "+apiKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("HTTP-Referer", "https://cropwise.com").
		SetHeader("X-Title", "Cropwise AI Assistant").
		SetTimeout(timeout)

	return &openRouterClient{httpClient: client, url: url}
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("openrouter api error: status %d: %s", e.StatusCode, e.Body)
}

// IsAuthError reports whether err is a credentials problem. Auth failures
// abort the model fallback chain since every model shares the same key.
func IsAuthError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
}

// Chat sends one completion request for the given model.
func (c *openRouterClient) Chat(ctx context.Context, model string, messages []Message) (string, error) {
	reqBody := chatRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	var respBody chatResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&respBody).
		Post(c.url)

	if err != nil {
		return "", fmt.Errorf("openrouter api call: %w", err)
	}
	if resp.IsError() {
		return "", &APIError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	if len(respBody.Choices) == 0 {
		return "", fmt.Errorf("empty response from model %s", model)
	}

	return respBody.Choices[0].Message.Content, nil
}
