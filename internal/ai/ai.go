package ai

import (
	"context"
	"errors"
	"fmt"
)

// Turn is one prior message of a conversation.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Adapter is the contract between the chat pipeline and a hosted LLM.
// Implementations must return an error (never panic) on any failure so the
// caller can fall back to rule-based answers.
type Adapter interface {
	// Generate answers userMessage given a system prompt and prior turns in
	// chronological order.
	Generate(ctx context.Context, systemPrompt string, history []Turn, userMessage string) (string, error)

	// Clarify phrases a question asking the user for missingSlot.
	Clarify(ctx context.Context, userMessage, missingSlot string) (string, error)
}

// Params are the fixed generation parameters shared by all adapters.
type Params struct {
	Model            string
	MaxTokens        int
	ClarifyMaxTokens int
	Temperature      float64
}

// DefaultClarifyMaxTokens bounds clarifying questions.
const DefaultClarifyMaxTokens = 150

var (
	// ErrNoCredential is returned when an adapter is built without an API key.
	ErrNoCredential = errors.New("LLM API key is not set")

	// ErrEmptyResponse is returned when the provider answers without any text.
	ErrEmptyResponse = errors.New("LLM returned no text")
)

// StatusError is a non-success HTTP status from the provider.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("LLM API returned status %d: %s", e.Code, e.Body)
}

const clarifySystemPrompt = "You are a helpful customer support assistant. Generate polite clarifying questions."

// clarifyPrompt is the user message sent when asking for a missing detail.
func clarifyPrompt(userMessage, missingSlot string) string {
	return fmt.Sprintf(`The user asked: "%s"

I need to ask a clarifying question because I'm missing: %s

Generate a polite, helpful clarifying question to get the missing information. Keep it short and friendly.`,
		userMessage, missingSlot)
}
