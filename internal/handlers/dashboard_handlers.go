package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health reports whether the API and its database are reachable.
// GET /api/health
func (h *Handlers) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status, dbStatus, code := "healthy", "connected", http.StatusOK
	if err := h.DB.PingContext(ctx); err != nil {
		log.Printf("Health check: database ping failed: %v", err)
		status, dbStatus, code = "unhealthy", "disconnected", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":      status,
		"database":    dbStatus,
		"llm_enabled": h.Assistant.LLMEnabled(),
		"timestamp":   time.Now().UTC(),
	})
}

// Stats returns row counts of every table and the LLM latency summary.
// GET /api/stats
func (h *Handlers) Stats(c *gin.Context) {
	// 1. Table counts
	counts, err := h.Catalog.Stats(c.Request.Context())
	if err != nil {
		log.Printf("Error collecting stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to collect stats"})
		return
	}

	resp := gin.H{"tables": counts}

	// 2. LLM latency, when an LLM is configured
	if h.LLMStats != nil {
		resp["llm"] = h.LLMStats.Stats()
	}

	c.JSON(http.StatusOK, resp)
}
