package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/01moynul/shopassist-golang/internal/ai"
	"github.com/01moynul/shopassist-golang/internal/models"
	"github.com/01moynul/shopassist-golang/internal/store"
	"github.com/google/uuid"
)

// fakeCatalog is a fixed in-memory dataset.
type fakeCatalog struct {
	products    []models.Product
	inventory   map[int64]models.InventoryCounts
	orders      map[int64]models.Order
	topProducts []models.ProductSales
	categories  []models.LabelCount
	brands      []models.LabelCount
	summary     models.InventorySummary
	err         error
}

func strPtr(s string) *string { return &s }

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		products: []models.Product{
			{ID: 1, Name: strPtr("Slim Fit Jeans")},
			{ID: 2, Name: strPtr("Summer Dress")},
			{ID: 3, Name: strPtr("Classic T-Shirt")},
			{ID: 4, Name: strPtr("Denim Jacket")},
		},
		inventory: map[int64]models.InventoryCounts{
			1: {Available: 2, Total: 5},
			2: {Available: 0, Total: 1},
			3: {Available: 7, Total: 10},
		},
		orders: map[int64]models.Order{},
		topProducts: []models.ProductSales{
			{Name: "Classic T-Shirt", Brand: "Basics", Category: "Tops", SalesCount: 40},
			{Name: "Summer Dress", Brand: "Basics", Category: "Dresses", SalesCount: 31},
			{Name: "Slim Fit Jeans", Brand: "Denimco", Category: "Jeans", SalesCount: 31},
			{Name: "Denim Jacket", Brand: "Denimco", Category: "Outerwear", SalesCount: 12},
			{Name: "Wool Socks", Brand: "Basics", Category: "Socks", SalesCount: 9},
			{Name: "Rain Coat", Brand: "Drizzle", Category: "Outerwear", SalesCount: 3},
		},
		categories: []models.LabelCount{
			{Label: "Tops", Count: 12}, {Label: "Jeans", Count: 8}, {Label: "Dresses", Count: 5},
		},
		brands: []models.LabelCount{
			{Label: "Basics", Count: 15}, {Label: "Denimco", Count: 10},
		},
		summary: models.InventorySummary{Products: 4, InventoryItems: 16, Available: 9},
	}
}

func (f *fakeCatalog) CountTotal(_ context.Context, entity store.Entity) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	if entity == store.EntityProducts {
		return int64(len(f.products)), nil
	}
	return 0, nil
}

func (f *fakeCatalog) CountAvailableInventory(_ context.Context, productID int64) (int64, error) {
	return f.inventory[productID].Available, f.err
}

func (f *fakeCatalog) CountTotalInventory(_ context.Context, productID int64) (int64, error) {
	return f.inventory[productID].Total, f.err
}

func (f *fakeCatalog) InventorySummary(context.Context) (models.InventorySummary, error) {
	return f.summary, f.err
}

func (f *fakeCatalog) TopProductsBySales(_ context.Context, limit int) ([]models.ProductSales, error) {
	if f.err != nil {
		return nil, f.err
	}
	return head(f.topProducts, limit), nil
}

func (f *fakeCatalog) TopCategories(_ context.Context, limit int) ([]models.LabelCount, error) {
	if f.err != nil {
		return nil, f.err
	}
	return head(f.categories, limit), nil
}

func (f *fakeCatalog) TopBrands(_ context.Context, limit int) ([]models.LabelCount, error) {
	if f.err != nil {
		return nil, f.err
	}
	return head(f.brands, limit), nil
}

func (f *fakeCatalog) FindOrderByID(_ context.Context, orderID int64) (models.Order, bool, error) {
	if f.err != nil {
		return models.Order{}, false, f.err
	}
	o, ok := f.orders[orderID]
	return o, ok, nil
}

func (f *fakeCatalog) FindProductByExactName(_ context.Context, name string) (models.Product, bool, error) {
	if f.err != nil {
		return models.Product{}, false, f.err
	}
	for _, p := range f.products {
		if p.DisplayName() == name {
			return p, true, nil
		}
	}
	return models.Product{}, false, nil
}

func (f *fakeCatalog) SearchProductsByNameSubstring(_ context.Context, token string) (models.Product, bool, error) {
	if f.err != nil {
		return models.Product{}, false, f.err
	}
	for _, p := range f.products {
		if strings.Contains(strings.ToLower(p.DisplayName()), strings.ToLower(token)) {
			return p, true, nil
		}
	}
	return models.Product{}, false, nil
}

func head[T any](items []T, n int) []T {
	if n < len(items) {
		return items[:n]
	}
	return items
}

// fakeStore keeps conversations in memory.
type fakeStore struct {
	users         map[string]bool
	conversations map[string]*models.Conversation
	messages      map[string][]models.Message
	saveErr       error
}

func newFakeStore(userIDs ...string) *fakeStore {
	s := &fakeStore{
		users:         map[string]bool{},
		conversations: map[string]*models.Conversation{},
		messages:      map[string][]models.Message{},
	}
	for _, id := range userIDs {
		s.users[id] = true
	}
	return s
}

func (s *fakeStore) GetUser(_ context.Context, id string) (*models.User, bool, error) {
	if !s.users[id] {
		return nil, false, nil
	}
	return &models.User{ID: id}, true, nil
}

func (s *fakeStore) GetConversation(_ context.Context, id string) (*models.Conversation, bool, error) {
	c, ok := s.conversations[id]
	return c, ok, nil
}

func (s *fakeStore) NewConversation(userID, title string) *models.Conversation {
	return &models.Conversation{ID: uuid.New().String(), UserID: userID, Title: title, IsActive: true}
}

func (s *fakeStore) RecentMessages(_ context.Context, conversationID string, n int) ([]models.Message, error) {
	msgs := s.messages[conversationID]
	if n < len(msgs) {
		msgs = msgs[len(msgs)-n:]
	}
	return msgs, nil
}

func (s *fakeStore) SaveTurn(_ context.Context, conv *models.Conversation, isNew bool, userContent, assistantContent string) ([]models.Message, error) {
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	if isNew {
		s.conversations[conv.ID] = conv
	}
	msgs := s.messages[conv.ID]
	turn := []models.Message{
		{ConversationID: conv.ID, Position: int64(len(msgs) + 1), Role: models.RoleUser, Content: userContent},
		{ConversationID: conv.ID, Position: int64(len(msgs) + 2), Role: models.RoleAssistant, Content: assistantContent},
	}
	s.messages[conv.ID] = append(msgs, turn...)
	return turn, nil
}

// seedConversation stores a conversation with n alternating messages.
func (s *fakeStore) seedConversation(userID string, n int) *models.Conversation {
	conv := s.NewConversation(userID, "seeded")
	s.conversations[conv.ID] = conv
	for i := 0; i < n; i++ {
		role := models.RoleUser
		if i%2 == 1 {
			role = models.RoleAssistant
		}
		s.messages[conv.ID] = append(s.messages[conv.ID], models.Message{
			ConversationID: conv.ID, Position: int64(i + 1), Role: role, Content: fmt.Sprintf("m%d", i+1),
		})
	}
	return conv
}

// stubLLM records calls and answers with fixed text or errors.
type stubLLM struct {
	generateText string
	generateErr  error
	clarifyText  string
	clarifyErr   error

	generateCalls int
	clarifyCalls  int
	systemPrompt  string
	history       []ai.Turn
	userMessage   string
	missingSlot   string
	deadline      time.Duration
}

func (s *stubLLM) Generate(ctx context.Context, systemPrompt string, history []ai.Turn, userMessage string) (string, error) {
	s.generateCalls++
	s.systemPrompt, s.history, s.userMessage = systemPrompt, history, userMessage
	if d, ok := ctx.Deadline(); ok {
		s.deadline = time.Until(d)
	}
	return s.generateText, s.generateErr
}

func (s *stubLLM) Clarify(ctx context.Context, userMessage, missingSlot string) (string, error) {
	s.clarifyCalls++
	s.userMessage, s.missingSlot = userMessage, missingSlot
	if d, ok := ctx.Deadline(); ok {
		s.deadline = time.Until(d)
	}
	return s.clarifyText, s.clarifyErr
}

var errBoom = errors.New("boom")
