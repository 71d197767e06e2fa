package chat

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/01moynul/shopassist-golang/internal/models"
	"github.com/01moynul/shopassist-golang/internal/store"
)

const (
	topProductsLimit = 5
	productInfoLimit = 5
	timestampLayout  = "2006-01-02 15:04:05"
)

// HelpText is the answer to messages that match no intent.
const HelpText = `I'm your customer support assistant! I can help you with:

1. **Top Products**: "What are the top 5 most sold products?"
2. **Order Status**: "Show me the status of order ID 12345"
3. **Inventory**: "How many Classic T-Shirts are left in stock?"
4. **Product Info**: "Tell me about your products"

Please ask me any of these questions or something similar!`

// RuleBased answers messages straight from the catalog without an LLM.
// Its output for a given message and catalog snapshot is deterministic.
type RuleBased struct {
	catalog Catalog
}

// NewRuleBased creates the deterministic responder.
func NewRuleBased(catalog Catalog) *RuleBased {
	return &RuleBased{catalog: catalog}
}

type formatter struct {
	topic  string
	format func(r *RuleBased, ctx context.Context, lower string) (string, error)
}

var formatters = map[Intent]formatter{
	IntentTopProducts: {"top products", (*RuleBased).topProducts},
	IntentOrderStatus: {"order status", (*RuleBased).orderStatus},
	IntentInventory:   {"inventory information", (*RuleBased).inventory},
	IntentProductInfo: {"product information", (*RuleBased).productInfo},
}

// Respond renders the answer for intent. Query failures become an apology;
// Respond never returns an error.
func (r *RuleBased) Respond(ctx context.Context, intent Intent, message string) string {
	f, ok := formatters[intent]
	if !ok {
		return HelpText
	}
	text, err := f.format(r, ctx, strings.ToLower(message))
	if err != nil {
		log.Printf("Error retrieving %s: %v", f.topic, err)
		return fmt.Sprintf("Sorry, I encountered an error while retrieving %s. Please try again later.", f.topic)
	}
	return text
}

func (r *RuleBased) topProducts(ctx context.Context, _ string) (string, error) {
	top, err := r.catalog.TopProductsBySales(ctx, topProductsLimit)
	if err != nil {
		return "", err
	}
	if len(top) == 0 {
		return "I couldn't find any sales data for products.", nil
	}

	var b strings.Builder
	b.WriteString("Here are the top 5 most sold products:\n\n")
	for i, p := range top {
		fmt.Fprintf(&b, "%d. %s (%s) - %s - %d units sold\n", i+1, p.Name, p.Brand, p.Category, p.SalesCount)
	}
	return b.String(), nil
}

func (r *RuleBased) orderStatus(ctx context.Context, lower string) (string, error) {
	// 1. --- Extract Order ID ---
	digits, ok := ExtractOrderID(lower)
	if !ok {
		return "Please provide an order ID. For example: 'Show me the status of order ID 12345'", nil
	}
	orderID, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		// Too many digits to be a real order id.
		return fmt.Sprintf("Order ID %s not found. Please check the order ID and try again.", digits), nil
	}

	// 2. --- Look Up Order ---
	order, found, err := r.catalog.FindOrderByID(ctx, orderID)
	if err != nil {
		return "", err
	}
	if !found {
		return fmt.Sprintf("Order ID %d not found. Please check the order ID and try again.", orderID), nil
	}

	// 3. --- Render ---
	var b strings.Builder
	fmt.Fprintf(&b, "Order ID: %d\n", orderID)
	fmt.Fprintf(&b, "Status: %s\n", orOrNA(order.Status))
	fmt.Fprintf(&b, "Created: %s\n", formatTimestamp(order.CreatedAt))
	if order.NumOfItem != nil {
		fmt.Fprintf(&b, "Number of items: %d\n", *order.NumOfItem)
	} else {
		b.WriteString("Number of items: N/A\n")
	}
	if order.ShippedAt != nil {
		fmt.Fprintf(&b, "Shipped: %s\n", formatTimestamp(order.ShippedAt))
	}
	if order.DeliveredAt != nil {
		fmt.Fprintf(&b, "Delivered: %s\n", formatTimestamp(order.DeliveredAt))
	}
	if order.ReturnedAt != nil {
		fmt.Fprintf(&b, "Returned: %s\n", formatTimestamp(order.ReturnedAt))
	}
	return b.String(), nil
}

func (r *RuleBased) inventory(ctx context.Context, lower string) (string, error) {
	// 1. --- Resolve Product Name ---
	name, ok, err := ExtractProductName(ctx, r.catalog, lower)
	if err != nil {
		return "", err
	}
	if !ok {
		return "Please specify which product you'd like to check inventory for. For example: 'How many Classic T-Shirts are left in stock?'", nil
	}

	// 2. --- Look Up Product ---
	product, found, err := r.catalog.FindProductByExactName(ctx, name)
	if err != nil {
		return "", err
	}
	if !found {
		return fmt.Sprintf("Product '%s' not found in our inventory.", name), nil
	}

	// 3. --- Count Stock ---
	available, err := r.catalog.CountAvailableInventory(ctx, product.ID)
	if err != nil {
		return "", err
	}
	total, err := r.catalog.CountTotalInventory(ctx, product.ID)
	if err != nil {
		return "", err
	}
	counts := models.InventoryCounts{Available: available, Total: total}

	var b strings.Builder
	fmt.Fprintf(&b, "Inventory Status for %s:\n", name)
	fmt.Fprintf(&b, "Available in stock: %d units\n", counts.Available)
	fmt.Fprintf(&b, "Total inventory: %d units\n", counts.Total)
	fmt.Fprintf(&b, "Sold: %d units", counts.Sold())
	return b.String(), nil
}

func (r *RuleBased) productInfo(ctx context.Context, _ string) (string, error) {
	total, err := r.catalog.CountTotal(ctx, store.EntityProducts)
	if err != nil {
		return "", err
	}
	categories, err := r.catalog.TopCategories(ctx, productInfoLimit)
	if err != nil {
		return "", err
	}
	brands, err := r.catalog.TopBrands(ctx, productInfoLimit)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Product Information:\n\n")
	fmt.Fprintf(&b, "Total products: %d\n\n", total)
	b.WriteString("Product Categories:\n")
	for _, c := range categories {
		fmt.Fprintf(&b, "- %s: %d products\n", c.Label, c.Count)
	}
	b.WriteString("\nTop Brands:\n")
	for _, br := range brands {
		fmt.Fprintf(&b, "- %s: %d products\n", br.Label, br.Count)
	}
	return b.String(), nil
}

func formatTimestamp(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return t.Format(timestampLayout)
}

func orOrNA(s *string) string {
	if s == nil || *s == "" {
		return "N/A"
	}
	return *s
}
