package chat

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// Limits of the grounding fragments.
const (
	contextTopProducts = 3
	contextCategories  = 5
)

type fragmentRule struct {
	name     string
	keywords []string
	render   func(ctx context.Context, catalog Catalog) (string, error)
}

// fragmentRules re-test the message independently of Classify; every rule
// that matches contributes one fragment, in this order.
var fragmentRules = []fragmentRule{
	{"top products", []string{"top", "best", "most sold", "popular"}, topProductsFragment},
	{"categories", []string{"product", "category"}, categoriesFragment},
	{"inventory", []string{"stock", "inventory", "available"}, inventoryFragment},
}

// BuildContext assembles grounding text for the LLM system prompt.
// It returns "" when no fragment applies. A fragment whose query fails is
// logged and left out.
func BuildContext(ctx context.Context, catalog Catalog, message string) string {
	lower := strings.ToLower(message)
	var parts []string
	for _, rule := range fragmentRules {
		if !containsAny(lower, rule.keywords) {
			continue
		}
		fragment, err := rule.render(ctx, catalog)
		if err != nil {
			log.Printf("Error building %s context: %v", rule.name, err)
			continue
		}
		if fragment != "" {
			parts = append(parts, fragment)
		}
	}
	return strings.Join(parts, "; ")
}

func topProductsFragment(ctx context.Context, catalog Catalog) (string, error) {
	top, err := catalog.TopProductsBySales(ctx, contextTopProducts)
	if err != nil {
		return "", err
	}
	if len(top) == 0 {
		return "", nil
	}
	items := make([]string, len(top))
	for i, p := range top {
		items[i] = fmt.Sprintf("%s (%s) - %d sold", p.Name, p.Brand, p.SalesCount)
	}
	return "Top selling products: " + strings.Join(items, ", "), nil
}

func categoriesFragment(ctx context.Context, catalog Catalog) (string, error) {
	categories, err := catalog.TopCategories(ctx, contextCategories)
	if err != nil {
		return "", err
	}
	if len(categories) == 0 {
		return "", nil
	}
	items := make([]string, len(categories))
	for i, c := range categories {
		items[i] = fmt.Sprintf("%s (%d products)", c.Label, c.Count)
	}
	return "Product categories: " + strings.Join(items, ", "), nil
}

func inventoryFragment(ctx context.Context, catalog Catalog) (string, error) {
	s, err := catalog.InventorySummary(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Inventory summary: %d products, %d total items, %d available",
		s.Products, s.InventoryItems, s.Available), nil
}
