package routes

import (
	"github.com/01moynul/shopassist-golang/internal/handlers"
	"github.com/01moynul/shopassist-golang/internal/middleware"
	"github.com/gin-gonic/gin"
)

// SetupRouter wires every endpoint under /api.
func SetupRouter(h *handlers.Handlers, corsOrigin string) *gin.Engine {
	router := gin.Default()

	// --- APPLY THE CORS GUARD ---
	// This must be the very first thing the router uses
	router.Use(middleware.CORS(corsOrigin))

	api := router.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/stats", h.Stats)

		// --- User Routes ---
		api.POST("/users", h.CreateUser)
		api.GET("/users/:id/conversations", h.GetUserConversations)

		// --- Conversation Routes ---
		api.POST("/conversations", h.CreateConversation)
		api.GET("/conversations/:id", h.GetConversation)
		api.POST("/conversations/:id/messages", h.AddMessage)

		// --- Catalog Routes (read-only) ---
		api.GET("/products/top", h.GetTopProducts)
		api.GET("/products/search", h.SearchProduct)
		api.GET("/orders/:id", h.GetOrderDetails)

		// --- Chat Route (token optional) ---
		api.POST("/chat", middleware.IdentifyUser(h.Issuer), h.Chat)
	}

	return router
}
