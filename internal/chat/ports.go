package chat

import (
	"context"

	"github.com/01moynul/shopassist-golang/internal/models"
	"github.com/01moynul/shopassist-golang/internal/store"
)

// Catalog is the read-only data access the assistant needs.
// *store.Catalog implements it; tests substitute a fixed fixture.
type Catalog interface {
	CountTotal(ctx context.Context, entity store.Entity) (int64, error)
	CountAvailableInventory(ctx context.Context, productID int64) (int64, error)
	CountTotalInventory(ctx context.Context, productID int64) (int64, error)
	InventorySummary(ctx context.Context) (models.InventorySummary, error)
	TopProductsBySales(ctx context.Context, limit int) ([]models.ProductSales, error)
	TopCategories(ctx context.Context, limit int) ([]models.LabelCount, error)
	TopBrands(ctx context.Context, limit int) ([]models.LabelCount, error)
	FindOrderByID(ctx context.Context, orderID int64) (models.Order, bool, error)
	FindProductByExactName(ctx context.Context, name string) (models.Product, bool, error)
	SearchProductsByNameSubstring(ctx context.Context, token string) (models.Product, bool, error)
}

// ConversationStore is the chat history persistence the pipeline needs.
type ConversationStore interface {
	GetUser(ctx context.Context, id string) (*models.User, bool, error)
	GetConversation(ctx context.Context, id string) (*models.Conversation, bool, error)
	NewConversation(userID, title string) *models.Conversation
	RecentMessages(ctx context.Context, conversationID string, n int) ([]models.Message, error)
	SaveTurn(ctx context.Context, conv *models.Conversation, isNew bool, userContent, assistantContent string) ([]models.Message, error)
}

var (
	_ Catalog           = (*store.Catalog)(nil)
	_ ConversationStore = (*store.Conversations)(nil)
)
