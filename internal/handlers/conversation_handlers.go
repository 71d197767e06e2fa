package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/01moynul/shopassist-golang/internal/models"
	"github.com/gin-gonic/gin"
)

const defaultConversationTitle = "New Conversation"

// CreateConversationInput is the body of POST /api/conversations.
type CreateConversationInput struct {
	UserID string `json:"user_id"`
	Title  string `json:"title"`
}

// CreateConversation starts an empty conversation for a user.
// POST /api/conversations
func (h *Handlers) CreateConversation(c *gin.Context) {
	ctx := c.Request.Context()

	// 1. --- Bind JSON ---
	var input CreateConversationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID is required"})
		return
	}
	if strings.TrimSpace(input.Title) == "" {
		input.Title = defaultConversationTitle
	}

	// 2. --- Check User Exists ---
	_, found, err := h.Conversations.GetUser(ctx, input.UserID)
	if err != nil {
		log.Printf("Error getting user %s: %v", input.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get user"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	// 3. --- Save ---
	conv, err := h.Conversations.CreateConversation(ctx, input.UserID, input.Title)
	if err != nil {
		log.Printf("Error creating conversation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create conversation"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Conversation created successfully",
		"conversation": conv,
	})
}

// GetConversation returns a conversation with all of its messages in order.
// GET /api/conversations/:id
func (h *Handlers) GetConversation(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	conv, found, err := h.Conversations.GetConversation(ctx, id)
	if err != nil {
		log.Printf("Error getting conversation %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get conversation"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
		return
	}

	msgs, err := h.Conversations.ListMessages(ctx, id)
	if err != nil {
		log.Printf("Error listing messages of conversation %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get messages"})
		return
	}
	conv.MessageCount = int64(len(msgs))

	c.JSON(http.StatusOK, gin.H{
		"conversation": conv,
		"messages":     msgs,
	})
}

// AddMessageInput is the body of POST /api/conversations/:id/messages.
type AddMessageInput struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AddMessage appends a single message to a conversation.
// POST /api/conversations/:id/messages
func (h *Handlers) AddMessage(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	// 1. --- Bind & Validate ---
	var input AddMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Role == "" || input.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Role and content are required"})
		return
	}
	if !models.ValidRole(input.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Role must be 'user' or 'assistant'"})
		return
	}

	// 2. --- Check Conversation Exists ---
	_, found, err := h.Conversations.GetConversation(ctx, id)
	if err != nil {
		log.Printf("Error getting conversation %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get conversation"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
		return
	}

	// 3. --- Append ---
	msg, err := h.Conversations.AppendMessage(ctx, id, input.Role, input.Content)
	if err != nil {
		log.Printf("Error appending message to conversation %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add message"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Message added successfully",
		"data":    msg,
	})
}
