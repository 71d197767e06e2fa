package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// GroqAdapter implements Adapter against an OpenAI-compatible
// chat-completions endpoint (Groq by default).
type GroqAdapter struct {
	baseURL string
	apiKey  string
	params  Params
	client  *http.Client
}

// NewGroqAdapter creates a chat-completions adapter. timeout bounds every HTTP call.
func NewGroqAdapter(baseURL, apiKey string, params Params, timeout time.Duration) (*GroqAdapter, error) {
	if apiKey == "" {
		return nil, ErrNoCredential
	}
	if baseURL == "" {
		baseURL = "https://api.groq.com/openai/v1"
	}
	if params.Model == "" {
		params.Model = "llama3-8b-8192"
	}
	if params.ClarifyMaxTokens == 0 {
		params.ClarifyMaxTokens = DefaultClarifyMaxTokens
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GroqAdapter{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		params:  params,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

type chatCompletionRequest struct {
	Model       string  `json:"model"`
	Messages    []Turn  `json:"messages"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	Stream      bool    `json:"stream"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate sends [system, ...history, user] and returns the first choice.
func (a *GroqAdapter) Generate(ctx context.Context, systemPrompt string, history []Turn, userMessage string) (string, error) {
	messages := make([]Turn, 0, len(history)+2)
	messages = append(messages, Turn{Role: "system", Content: systemPrompt})
	messages = append(messages, history...)
	messages = append(messages, Turn{Role: "user", Content: userMessage})
	return a.complete(ctx, messages, a.params.MaxTokens)
}

// Clarify asks the model to phrase a clarifying question.
func (a *GroqAdapter) Clarify(ctx context.Context, userMessage, missingSlot string) (string, error) {
	messages := []Turn{
		{Role: "system", Content: clarifySystemPrompt},
		{Role: "user", Content: clarifyPrompt(userMessage, missingSlot)},
	}
	return a.complete(ctx, messages, a.params.ClarifyMaxTokens)
}

func (a *GroqAdapter) complete(ctx context.Context, messages []Turn, maxTokens int) (string, error) {
	reqBody := chatCompletionRequest{
		Model:       a.params.Model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: a.params.Temperature,
		Stream:      false,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling LLM API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var completion chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return completion.Choices[0].Message.Content, nil
}
