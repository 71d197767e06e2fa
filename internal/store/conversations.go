package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/01moynul/shopassist-golang/internal/database"
	"github.com/01moynul/shopassist-golang/internal/models"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

// ErrDuplicateEmail is returned by CreateUser when the email is already registered.
var ErrDuplicateEmail = errors.New("user with this email already exists")

// Conversations persists chat users, conversations and their messages.
// It runs on the primary (read/write) pool.
type Conversations struct {
	db  *database.DB
	now func() time.Time
}

// NewConversations creates a store on the primary connection pool.
func NewConversations(db *database.DB) *Conversations {
	return &Conversations{db: db, now: func() time.Time { return time.Now().UTC() }}
}

//
// --- Users ---
//

// CreateUser registers a new chat user.
func (s *Conversations) CreateUser(ctx context.Context, email string, firstName, lastName *string) (*models.User, error) {
	// 1. --- Check For Existing Email ---
	var exists int
	err := s.db.QueryRowContext(ctx, s.db.Rebind("SELECT COUNT(*) FROM users WHERE email = ?"), email).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking email: %w", err)
	}
	if exists > 0 {
		return nil, ErrDuplicateEmail
	}

	// 2. --- Insert ---
	now := s.now()
	user := &models.User{
		ID:        uuid.New().String(),
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	query := s.db.Rebind(`
		INSERT INTO users (id, email, first_name, last_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if _, err := s.db.ExecContext(ctx, query, user.ID, user.Email, user.FirstName, user.LastName, user.CreatedAt, user.UpdatedAt); err != nil {
		// A concurrent insert can still hit the UNIQUE constraint.
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("inserting user: %w", err)
	}
	return user, nil
}

// GetUser returns a chat user by id. found is false when it does not exist.
func (s *Conversations) GetUser(ctx context.Context, id string) (*models.User, bool, error) {
	var u models.User
	query := s.db.Rebind("SELECT id, email, first_name, last_name, created_at, updated_at FROM users WHERE id = ?")
	err := s.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("getting user %s: %w", id, err)
	}
	return &u, true, nil
}

//
// --- Conversations ---
//

// NewConversation builds an unsaved conversation for userID.
// It is persisted by CreateConversation or as part of SaveTurn.
func (s *Conversations) NewConversation(userID, title string) *models.Conversation {
	now := s.now()
	return &models.Conversation{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CreateConversation inserts a new, empty conversation.
func (s *Conversations) CreateConversation(ctx context.Context, userID, title string) (*models.Conversation, error) {
	conv := s.NewConversation(userID, title)
	if err := insertConversation(ctx, s.db, s.db, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

func insertConversation(ctx context.Context, db *database.DB, q database.Querier, conv *models.Conversation) error {
	query := db.Rebind(`
		INSERT INTO conversations (id, user_id, title, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if _, err := q.ExecContext(ctx, query, conv.ID, conv.UserID, conv.Title, conv.IsActive, conv.CreatedAt, conv.UpdatedAt); err != nil {
		return fmt.Errorf("inserting conversation: %w", err)
	}
	return nil
}

// GetConversation returns a conversation by id. found is false when it does not exist.
func (s *Conversations) GetConversation(ctx context.Context, id string) (*models.Conversation, bool, error) {
	var c models.Conversation
	var title sql.NullString
	query := s.db.Rebind("SELECT id, user_id, title, is_active, created_at, updated_at FROM conversations WHERE id = ?")
	err := s.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.UserID, &title, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("getting conversation %s: %w", id, err)
	}
	c.Title = title.String
	return &c, true, nil
}

// ListUserConversations returns a user's conversations, most recently updated first,
// each with its message count.
func (s *Conversations) ListUserConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	query := s.db.Rebind(`
		SELECT c.id, c.user_id, c.title, c.is_active, c.created_at, c.updated_at, COUNT(m.id)
		FROM conversations c
		LEFT JOIN messages m ON m.conversation_id = c.id
		WHERE c.user_id = ?
		GROUP BY c.id, c.user_id, c.title, c.is_active, c.created_at, c.updated_at
		ORDER BY c.updated_at DESC`)

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}
	defer rows.Close()

	convs := []models.Conversation{}
	for rows.Next() {
		var c models.Conversation
		var title sql.NullString
		if err := rows.Scan(&c.ID, &c.UserID, &title, &c.IsActive, &c.CreatedAt, &c.UpdatedAt, &c.MessageCount); err != nil {
			return nil, fmt.Errorf("scanning conversation: %w", err)
		}
		c.Title = title.String
		convs = append(convs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating conversations: %w", err)
	}
	return convs, nil
}

//
// --- Messages ---
//

const messageColumns = "id, conversation_id, position, role, content, created_at"

// ListMessages returns every message of a conversation in insertion order.
func (s *Conversations) ListMessages(ctx context.Context, conversationID string) ([]models.Message, error) {
	query := s.db.Rebind("SELECT " + messageColumns + " FROM messages WHERE conversation_id = ? ORDER BY position ASC")
	return s.queryMessages(ctx, query, conversationID)
}

// RecentMessages returns the last n messages of a conversation, oldest first.
func (s *Conversations) RecentMessages(ctx context.Context, conversationID string, n int) ([]models.Message, error) {
	if n <= 0 {
		return []models.Message{}, nil
	}
	query := s.db.Rebind("SELECT " + messageColumns + " FROM messages WHERE conversation_id = ? ORDER BY position DESC LIMIT ?")
	msgs, err := s.queryMessages(ctx, query, conversationID, n)
	if err != nil {
		return nil, err
	}
	// Flip newest-first into chronological order.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

func (s *Conversations) queryMessages(ctx context.Context, query string, args ...any) ([]models.Message, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	msgs := []models.Message{}
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Position, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating messages: %w", err)
	}
	return msgs, nil
}

// AppendMessage appends a single message to an existing conversation.
func (s *Conversations) AppendMessage(ctx context.Context, conversationID, role, content string) (*models.Message, error) {
	var msg *models.Message
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		msgs, err := s.appendMessages(ctx, tx, conversationID, []turnPart{{role, content}})
		if err != nil {
			return err
		}
		msg = &msgs[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// SaveTurn persists one chat turn (the user's message and the assistant's
// reply) in a single transaction. When isNew is true the conversation row is
// inserted in the same transaction. Either everything is written or nothing is.
func (s *Conversations) SaveTurn(ctx context.Context, conv *models.Conversation, isNew bool, userContent, assistantContent string) ([]models.Message, error) {
	var saved []models.Message
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		// 1. --- Create Conversation Lazily ---
		if isNew {
			if err := insertConversation(ctx, s.db, tx, conv); err != nil {
				return err
			}
		}

		// 2. --- Append Both Messages ---
		msgs, err := s.appendMessages(ctx, tx, conv.ID, []turnPart{
			{models.RoleUser, userContent},
			{models.RoleAssistant, assistantContent},
		})
		if err != nil {
			return err
		}
		saved = msgs
		return nil
	})
	if err != nil {
		return nil, err
	}
	conv.UpdatedAt = saved[len(saved)-1].CreatedAt
	return saved, nil
}

type turnPart struct {
	role    string
	content string
}

// appendMessages inserts parts after the conversation's current last position
// and bumps the conversation's updated_at. Must run inside tx.
func (s *Conversations) appendMessages(ctx context.Context, tx *sql.Tx, conversationID string, parts []turnPart) ([]models.Message, error) {
	var last int64
	err := tx.QueryRowContext(ctx,
		s.db.Rebind("SELECT COALESCE(MAX(position), 0) FROM messages WHERE conversation_id = ?"),
		conversationID).Scan(&last)
	if err != nil {
		return nil, fmt.Errorf("reading last message position: %w", err)
	}

	now := s.now()
	insert := s.db.Rebind("INSERT INTO messages (" + messageColumns + ") VALUES (?, ?, ?, ?, ?, ?)")
	msgs := make([]models.Message, 0, len(parts))
	for i, part := range parts {
		m := models.Message{
			ID:             uuid.New().String(),
			ConversationID: conversationID,
			Position:       last + int64(i) + 1,
			Role:           part.role,
			Content:        part.content,
			CreatedAt:      now,
		}
		if _, err := tx.ExecContext(ctx, insert, m.ID, m.ConversationID, m.Position, m.Role, m.Content, m.CreatedAt); err != nil {
			return nil, fmt.Errorf("inserting %s message: %w", part.role, err)
		}
		msgs = append(msgs, m)
	}

	update := s.db.Rebind("UPDATE conversations SET updated_at = ? WHERE id = ?")
	if _, err := tx.ExecContext(ctx, update, now, conversationID); err != nil {
		return nil, fmt.Errorf("touching conversation: %w", err)
	}
	return msgs, nil
}

// isUniqueViolation recognizes duplicate-key errors of the supported drivers.
func isUniqueViolation(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062 // ER_DUP_ENTRY
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique || liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
