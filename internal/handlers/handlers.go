package handlers

import (
	"github.com/01moynul/shopassist-golang/internal/ai"
	"github.com/01moynul/shopassist-golang/internal/auth"
	"github.com/01moynul/shopassist-golang/internal/chat"
	"github.com/01moynul/shopassist-golang/internal/database"
	"github.com/01moynul/shopassist-golang/internal/store"
)

// LLMStats reports LLM call latencies. *ai.Instrumented implements it.
type LLMStats interface {
	Stats() ai.LatencyStats
}

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	DB            *database.DB         // Primary Read/Write connection
	Catalog       *store.Catalog       // Read-only dataset queries
	Conversations *store.Conversations // Chat users, conversations and messages
	Assistant     *chat.Service        // The assistant pipeline
	LLMStats      LLMStats             // nil when no LLM is configured
	Issuer        *auth.Issuer
}
