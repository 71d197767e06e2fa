package chat

import (
	"regexp"
	"strings"
)

// Slot names a required detail of a request.
type Slot string

const (
	SlotOrderID     Slot = "order ID"
	SlotProductName Slot = "product name"
)

var digitRun = regexp.MustCompile(`\d+`)

type missingRule struct {
	slot     Slot
	triggers []string
	// satisfied reports whether the message already carries the slot.
	satisfied func(raw, lower string) bool
}

// missingRules keep their own keyword lists; they are not derived from
// intentRules, so the detector and the classifier can disagree.
var missingRules = []missingRule{
	{
		slot:     SlotOrderID,
		triggers: []string{"order", "status", "track"},
		satisfied: func(raw, _ string) bool {
			return digitRun.MatchString(raw)
		},
	},
	{
		slot:     SlotProductName,
		triggers: []string{"stock", "inventory", "available", "left"},
		satisfied: func(_, lower string) bool {
			return containsAny(lower, []string{"product", "item", "t-shirt", "shirt", "pants", "dress"})
		},
	},
}

// DetectMissing returns the first required slot the message triggers but
// does not provide.
func DetectMissing(message string) (Slot, bool) {
	lower := strings.ToLower(message)
	for _, rule := range missingRules {
		if containsAny(lower, rule.triggers) && !rule.satisfied(message, lower) {
			return rule.slot, true
		}
	}
	return "", false
}
