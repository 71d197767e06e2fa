package models

import (
	"time"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Conversation is the model for the 'conversations' table
type Conversation struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Populated by list queries, not stored.
	MessageCount int64 `json:"message_count" db:"-"`
}

// Message is one turn in a conversation. Messages are append-only;
// Position is the 1-based insertion index and defines chronological order.
type Message struct {
	ID             string    `json:"id" db:"id"`
	ConversationID string    `json:"conversation_id" db:"conversation_id"`
	Position       int64     `json:"position" db:"position"`
	Role           string    `json:"role" db:"role"` // user or assistant
	Content        string    `json:"content" db:"content"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// ValidRole reports whether role is one the store accepts.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAssistant
}
