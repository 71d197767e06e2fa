package main

import (
	"context"
	"io"
	"log"

	"github.com/01moynul/shopassist-golang/internal/ai"
	"github.com/01moynul/shopassist-golang/internal/auth"
	"github.com/01moynul/shopassist-golang/internal/chat"
	"github.com/01moynul/shopassist-golang/internal/config"
	"github.com/01moynul/shopassist-golang/internal/database"
	"github.com/01moynul/shopassist-golang/internal/handlers"
	"github.com/01moynul/shopassist-golang/internal/routes"
	"github.com/01moynul/shopassist-golang/internal/store"
)

func main() {
	ctx := context.Background()

	// 0. --- Load Configuration (.env, CONFIG_FILE, environment) ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 1. --- Main Database Connection (Read/Write) ---
	db, err := database.Open(cfg.Database.Driver, cfg.Database.PrimaryDSN)
	if err != nil {
		log.Fatalf("Failed to connect to primary database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to create database tables: %v", err)
	}

	// 2. --- Assistant Database Connection (Read-Only) ---
	dbReadOnly := db
	if cfg.Database.ReadOnlyDSN != cfg.Database.PrimaryDSN {
		dbReadOnly, err = database.Open(cfg.Database.Driver, cfg.Database.ReadOnlyDSN)
		if err != nil {
			log.Fatalf("CRITICAL ERROR: Failed to connect to read-only database: %v", err)
		}
		defer dbReadOnly.Close()
	}

	catalog := store.NewCatalog(dbReadOnly)
	conversations := store.NewConversations(db)

	// 3. --- LLM Adapter (optional) ---
	// llm stays a nil interface when disabled so the service uses rule-based answers.
	var llm ai.Adapter
	var llmStats handlers.LLMStats
	if cfg.LLMEnabled() {
		adapter, err := newAdapter(ctx, cfg.LLM)
		if err != nil {
			log.Printf("WARNING: LLM adapter unavailable, using rule-based responses: %v", err)
		} else {
			if closer, ok := adapter.(io.Closer); ok {
				defer closer.Close()
			}
			instrumented := ai.Instrument(adapter)
			llm, llmStats = instrumented, instrumented
			log.Printf("LLM enabled: provider=%s model=%s", cfg.LLM.Provider, cfg.LLM.Model)
		}
	} else {
		log.Println("WARNING: No LLM API key configured. Using rule-based responses.")
	}

	service := chat.NewService(catalog, conversations, llm, chat.Options{
		HistoryLimit:   cfg.Chat.HistoryLimit,
		Timeout:        cfg.LLM.Timeout,
		ClarifyTimeout: cfg.LLM.ClarifyTimeout,
	})

	// --- Application Setup ---
	app := &handlers.Handlers{
		DB:            db,
		Catalog:       catalog,
		Conversations: conversations,
		Assistant:     service,
		LLMStats:      llmStats,
		Issuer:        auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
	}

	// --- Router Setup ---
	router := routes.SetupRouter(app, cfg.Server.CORSAllowedOrigin)

	// --- Start Server ---
	log.Printf("Starting ShopAssist API server on port %s...", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func newAdapter(ctx context.Context, cfg config.LLM) (ai.Adapter, error) {
	params := ai.Params{
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	}
	switch cfg.Provider {
	case "gemini":
		return ai.NewGeminiAdapter(ctx, cfg.APIKey, params)
	default:
		return ai.NewGroqAdapter(cfg.BaseURL, cfg.APIKey, params, cfg.Timeout)
	}
}
