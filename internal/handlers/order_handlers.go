package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetOrderDetails is the handler for GET /api/orders/:id
func (h *Handlers) GetOrderDetails(c *gin.Context) {
	// 1. --- Get ID ---
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	// 2. --- Fetch Order ---
	order, found, err := h.Catalog.FindOrderByID(c.Request.Context(), orderID)
	if err != nil {
		log.Printf("Error fetching order %d: %v", orderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	c.JSON(http.StatusOK, order)
}
