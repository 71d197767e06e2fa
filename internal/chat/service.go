package chat

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/01moynul/shopassist-golang/internal/ai"
	"github.com/01moynul/shopassist-golang/internal/models"
)

const newConversationTitle = "New Chat"

// Options tune a Service. Zero values fall back to the defaults.
type Options struct {
	HistoryLimit   int
	Timeout        time.Duration
	ClarifyTimeout time.Duration
}

// Service runs the whole chat pipeline for one message: classify, detect
// missing details, ground, generate and persist.
type Service struct {
	catalog Catalog
	store   ConversationStore
	llm     ai.Adapter
	rules   *RuleBased

	historyLimit   int
	timeout        time.Duration
	clarifyTimeout time.Duration
	now            func() time.Time
}

// NewService creates the pipeline. llm may be nil, in which case every answer
// comes from the rule-based formatters.
func NewService(catalog Catalog, store ConversationStore, llm ai.Adapter, opts Options) *Service {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 10
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.ClarifyTimeout <= 0 {
		opts.ClarifyTimeout = 15 * time.Second
	}
	return &Service{
		catalog:        catalog,
		store:          store,
		llm:            llm,
		rules:          NewRuleBased(catalog),
		historyLimit:   opts.HistoryLimit,
		timeout:        opts.Timeout,
		clarifyTimeout: opts.ClarifyTimeout,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// LLMEnabled reports whether answers are generated by an LLM.
func (s *Service) LLMEnabled() bool {
	return s.llm != nil
}

// ChatRequest is the input of ProcessMessage.
type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id"`
	UserID         string `json:"user_id"`
}

// ChatResponse is the outcome of one persisted turn.
type ChatResponse struct {
	ConversationID string    `json:"conversation_id"`
	UserMessage    string    `json:"user_message"`
	AIResponse     string    `json:"ai_response"`
	Intent         Intent    `json:"intent"`
	Timestamp      time.Time `json:"timestamp"`
}

// ProcessMessage answers req.Message and stores the user message together with
// the reply.
func (s *Service) ProcessMessage(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	// 1. --- Validate Input ---
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, &ValidationError{Message: "Message is required"}
	}

	// 2. --- Resolve Conversation ---
	conv, isNew, err := s.resolveConversation(ctx, req)
	if err != nil {
		return nil, err
	}

	// 3. --- Load History (before this turn) ---
	var history []models.Message
	if !isNew {
		history, err = s.store.RecentMessages(ctx, conv.ID, s.historyLimit)
		if err != nil {
			return nil, fmt.Errorf("loading conversation history: %w", err)
		}
	}

	// 4. --- Generate Reply ---
	intent := Classify(message)
	reply := s.Reply(ctx, message, history)

	// 5. --- Persist The Turn ---
	if _, err := s.store.SaveTurn(ctx, conv, isNew, message, reply); err != nil {
		log.Printf("Error saving chat turn for conversation %s: %v", conv.ID, err)
		return nil, &PersistenceError{Err: err}
	}

	return &ChatResponse{
		ConversationID: conv.ID,
		UserMessage:    message,
		AIResponse:     reply,
		Intent:         intent,
		Timestamp:      s.now(),
	}, nil
}

func (s *Service) resolveConversation(ctx context.Context, req ChatRequest) (*models.Conversation, bool, error) {
	if req.ConversationID != "" {
		conv, found, err := s.store.GetConversation(ctx, req.ConversationID)
		if err != nil {
			return nil, false, fmt.Errorf("getting conversation: %w", err)
		}
		if !found {
			return nil, false, ErrConversationNotFound
		}
		return conv, false, nil
	}

	if req.UserID == "" {
		return nil, false, &ValidationError{Message: "Either conversation_id or user_id is required"}
	}
	_, found, err := s.store.GetUser(ctx, req.UserID)
	if err != nil {
		return nil, false, fmt.Errorf("getting user: %w", err)
	}
	if !found {
		return nil, false, ErrUserNotFound
	}
	// Inserted by SaveTurn together with the first two messages.
	return s.store.NewConversation(req.UserID, newConversationTitle), true, nil
}

// Reply produces the assistant's answer to message given prior messages in
// chronological order. It never fails: LLM errors fall back to the
// rule-based answer for the same intent.
func (s *Service) Reply(ctx context.Context, message string, history []models.Message) string {
	intent := Classify(message)

	if slot, missing := DetectMissing(message); missing {
		return s.clarify(ctx, message, slot)
	}

	if s.llm == nil {
		return s.rules.Respond(ctx, intent, message)
	}

	grounding := BuildContext(ctx, s.catalog, message)
	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.llm.Generate(genCtx, SystemPrompt(grounding), toTurns(history), message)
	if err != nil {
		log.Printf("LLM generation failed, using rule-based answer for %s: %v", intent, err)
		return s.rules.Respond(ctx, intent, message)
	}
	return text
}

func (s *Service) clarify(ctx context.Context, message string, slot Slot) string {
	if s.llm == nil {
		return ClarifyTemplate(slot)
	}

	clarifyCtx, cancel := context.WithTimeout(ctx, s.clarifyTimeout)
	defer cancel()

	text, err := s.llm.Clarify(clarifyCtx, message, string(slot))
	if err != nil {
		log.Printf("LLM clarification failed, using template for %s: %v", slot, err)
		return ClarifyTemplate(slot)
	}
	return text
}

func toTurns(history []models.Message) []ai.Turn {
	turns := make([]ai.Turn, len(history))
	for i, m := range history {
		turns[i] = ai.Turn{Role: m.Role, Content: m.Content}
	}
	return turns
}
