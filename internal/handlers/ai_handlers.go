package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/01moynul/shopassist-golang/internal/chat"
	"github.com/01moynul/shopassist-golang/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Chat handles one message to the assistant.
// POST /api/chat
func (h *Handlers) Chat(c *gin.Context) {
	// 1. Parse Input
	var input chat.ChatRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. Fall back to the token's user (set by IdentifyUser)
	if input.UserID == "" {
		if userID, ok := c.Get(middleware.ContextUserID); ok {
			input.UserID, _ = userID.(string)
		}
	}

	// 3. Run the pipeline
	resp, err := h.Assistant.ProcessMessage(c.Request.Context(), input)
	if err != nil {
		var validationErr *chat.ValidationError
		switch {
		case errors.As(err, &validationErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
		case errors.Is(err, chat.ErrConversationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
		case errors.Is(err, chat.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			log.Printf("Error processing chat message: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process message"})
		}
		return
	}

	// 4. Return the Answer
	c.JSON(http.StatusOK, resp)
}
