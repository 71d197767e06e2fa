package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiAdapter implements Adapter with the Gemini API.
type GeminiAdapter struct {
	Client *genai.Client
	params Params
}

// NewGeminiAdapter initializes the Gemini client.
func NewGeminiAdapter(ctx context.Context, apiKey string, params Params) (*GeminiAdapter, error) {
	if apiKey == "" {
		return nil, ErrNoCredential
	}
	if params.Model == "" {
		params.Model = "gemini-1.5-flash" // Fallback default
	}
	if params.ClarifyMaxTokens == 0 {
		params.ClarifyMaxTokens = DefaultClarifyMaxTokens
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiAdapter{Client: client, params: params}, nil
}

// Close releases the underlying client.
func (a *GeminiAdapter) Close() error {
	return a.Client.Close()
}

// Generate sends the conversation to Gemini with the system prompt as system instruction.
func (a *GeminiAdapter) Generate(ctx context.Context, systemPrompt string, history []Turn, userMessage string) (string, error) {
	model := a.model(systemPrompt, a.params.MaxTokens)

	cs := model.StartChat()
	cs.History = geminiHistory(history)

	res, err := cs.SendMessage(ctx, genai.Text(userMessage))
	if err != nil {
		return "", fmt.Errorf("error sending message: %w", err)
	}
	return responseText(res)
}

// Clarify asks Gemini to phrase a clarifying question.
func (a *GeminiAdapter) Clarify(ctx context.Context, userMessage, missingSlot string) (string, error) {
	model := a.model(clarifySystemPrompt, a.params.ClarifyMaxTokens)

	res, err := model.GenerateContent(ctx, genai.Text(clarifyPrompt(userMessage, missingSlot)))
	if err != nil {
		return "", fmt.Errorf("error generating clarifying question: %w", err)
	}
	return responseText(res)
}

func (a *GeminiAdapter) model(systemPrompt string, maxTokens int) *genai.GenerativeModel {
	model := a.Client.GenerativeModel(a.params.Model)
	model.SetTemperature(float32(a.params.Temperature))
	if maxTokens > 0 {
		model.SetMaxOutputTokens(int32(maxTokens))
	}
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}
	return model
}

// geminiHistory maps chat roles onto Gemini's "user"/"model" roles.
func geminiHistory(history []Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, turn := range history {
		role := "user"
		if turn.Role == "assistant" {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(turn.Content)},
		})
	}
	return contents
}

// responseText concatenates the text parts of the first candidate.
func responseText(res *genai.GenerateContentResponse) (string, error) {
	if res == nil || len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}
	var b strings.Builder
	for _, part := range res.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}
