package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/01moynul/shopassist-golang/internal/models"
	"github.com/gin-gonic/gin"
)

const (
	defaultTopLimit = 5
	maxTopLimit     = 50
)

// ProductDetail is a product with its stock breakdown.
type ProductDetail struct {
	models.Product
	Inventory models.InventoryCounts `json:"inventory"`
	Sold      int64                  `json:"sold"`
}

// GetTopProducts is the handler for GET /api/products/top?limit=5
func (h *Handlers) GetTopProducts(c *gin.Context) {
	ctx := c.Request.Context()

	// 1. --- Parse Limit ---
	limit := defaultTopLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxTopLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 50"})
			return
		}
		limit = n
	}

	// 2. --- Query The Aggregates ---
	products, err := h.Catalog.TopProductsBySales(ctx, limit)
	if err != nil {
		log.Printf("Error fetching top products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch top products"})
		return
	}
	categories, err := h.Catalog.TopCategories(ctx, limit)
	if err != nil {
		log.Printf("Error fetching top categories: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch top categories"})
		return
	}
	brands, err := h.Catalog.TopBrands(ctx, limit)
	if err != nil {
		log.Printf("Error fetching top brands: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch top brands"})
		return
	}

	if products == nil {
		products = []models.ProductSales{}
	}
	if categories == nil {
		categories = []models.LabelCount{}
	}
	if brands == nil {
		brands = []models.LabelCount{}
	}
	c.JSON(http.StatusOK, gin.H{
		"products":   products,
		"categories": categories,
		"brands":     brands,
	})
}

// SearchProduct is the handler for GET /api/products/search?q=shirt
// An exact name match wins over a substring match.
func (h *Handlers) SearchProduct(c *gin.Context) {
	ctx := c.Request.Context()
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'q' is required"})
		return
	}

	// 1. --- Exact Name, Then Substring ---
	product, found, err := h.Catalog.FindProductByExactName(ctx, q)
	if err == nil && !found {
		product, found, err = h.Catalog.SearchProductsByNameSubstring(ctx, q)
	}
	if err != nil {
		log.Printf("Error searching products for %q: %v", q, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search products"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	// 2. --- Stock Breakdown ---
	detail := ProductDetail{Product: product}
	detail.Inventory.Total, err = h.Catalog.CountTotalInventory(ctx, product.ID)
	if err == nil {
		detail.Inventory.Available, err = h.Catalog.CountAvailableInventory(ctx, product.ID)
	}
	if err != nil {
		log.Printf("Error counting inventory of product %d: %v", product.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inventory"})
		return
	}
	detail.Sold = detail.Inventory.Sold()

	c.JSON(http.StatusOK, detail)
}
