// Package chat routes customer-support messages to an answer.
//
// A message is classified into an Intent by keyword matching, checked for
// missing required details, optionally grounded with catalog context, and
// answered either by the LLM adapter or by the deterministic rule-based
// formatters in this package.
package chat

import (
	"strings"
)

// Intent is the classified purpose of a user message.
type Intent int

const (
	IntentUnknown Intent = iota
	IntentTopProducts
	IntentOrderStatus
	IntentInventory
	IntentProductInfo
)

func (i Intent) String() string {
	switch i {
	case IntentTopProducts:
		return "top_products"
	case IntentOrderStatus:
		return "order_status"
	case IntentInventory:
		return "inventory"
	case IntentProductInfo:
		return "product_info"
	default:
		return "unknown"
	}
}

// MarshalText makes intents render by name in JSON.
func (i Intent) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

type intentRule struct {
	intent   Intent
	keywords []string
}

// intentRules is evaluated top to bottom; the first rule with a keyword
// contained in the lowercased message wins.
var intentRules = []intentRule{
	{IntentTopProducts, []string{"top", "best", "most sold", "popular"}},
	{IntentOrderStatus, []string{"order", "status", "track"}},
	{IntentInventory, []string{"stock", "inventory", "available", "left"}},
	{IntentProductInfo, []string{"product", "item", "catalog"}},
}

// Classify maps a raw message to an Intent. It is a pure function of the text.
func Classify(message string) Intent {
	lower := strings.ToLower(message)
	for _, rule := range intentRules {
		if containsAny(lower, rule.keywords) {
			return rule.intent
		}
	}
	return IntentUnknown
}

// containsAny reports whether s contains any of the substrings.
func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
