package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/01moynul/shopassist-golang/internal/store"
	"github.com/gin-gonic/gin"
)

// CreateUserInput is the body of POST /api/users.
type CreateUserInput struct {
	Email     string  `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// CreateUser registers a chat user and returns a bearer token for it.
// POST /api/users
func (h *Handlers) CreateUser(c *gin.Context) {
	// 1. --- Bind JSON ---
	var input CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input.Email = strings.TrimSpace(input.Email)
	if input.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}

	// 2. --- Save to Database ---
	user, err := h.Conversations.CreateUser(c.Request.Context(), input.Email, input.FirstName, input.LastName)
	if errors.Is(err, store.ErrDuplicateEmail) {
		c.JSON(http.StatusConflict, gin.H{"error": "User with this email already exists"})
		return
	}
	if err != nil {
		log.Printf("Error creating user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	// 3. --- Issue Token ---
	token, err := h.Issuer.GenerateToken(user.ID)
	if err != nil {
		log.Printf("Error generating token for user %s: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user_id": user.ID,
		"email":   user.Email,
		"token":   token,
	})
}

// GetUserConversations lists a user's conversations with their message counts.
// GET /api/users/:id/conversations
func (h *Handlers) GetUserConversations(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("id")

	// 1. --- Check User Exists ---
	_, found, err := h.Conversations.GetUser(ctx, userID)
	if err != nil {
		log.Printf("Error getting user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get user"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	// 2. --- List ---
	convs, err := h.Conversations.ListUserConversations(ctx, userID)
	if err != nil {
		log.Printf("Error listing conversations for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list conversations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":       userID,
		"conversations": convs,
	})
}
