package chat

import (
	"context"
	"strings"
	"unicode/utf8"
)

// ExtractOrderID returns the first contiguous run of digits in the message.
func ExtractOrderID(message string) (string, bool) {
	digits := digitRun.FindString(message)
	return digits, digits != ""
}

// productAliases map literal phrases to canonical catalog names, checked in order.
var productAliases = []struct {
	phrases []string
	name    string
}{
	{[]string{"classic t-shirt", "classic tshirt"}, "Classic T-Shirt"},
	{[]string{"t-shirt", "tshirt"}, "T-Shirt"},
}

// minTokenLength is the shortest token (exclusive) tried against product names.
const minTokenLength = 3

// ExtractProductName resolves a product name from a lowercased message.
// Known aliases win; otherwise each whitespace token longer than three
// characters is matched as a case-insensitive substring of product names and
// the first token that hits anything decides. This is first-match, not best-match.
func ExtractProductName(ctx context.Context, catalog Catalog, lower string) (string, bool, error) {
	for _, alias := range productAliases {
		if containsAny(lower, alias.phrases) {
			return alias.name, true, nil
		}
	}

	for _, token := range strings.Fields(lower) {
		if utf8.RuneCountInString(token) <= minTokenLength {
			continue
		}
		product, found, err := catalog.SearchProductsByNameSubstring(ctx, token)
		if err != nil {
			return "", false, err
		}
		if found {
			return product.DisplayName(), true, nil
		}
	}
	return "", false, nil
}
