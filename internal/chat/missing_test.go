package chat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectMissing(t *testing.T) {
	tests := []struct {
		message string
		slot    Slot
		missing bool
	}{
		{"Where is my order?", SlotOrderID, true},
		{"What's the status", SlotOrderID, true},
		{"track it please", SlotOrderID, true},
		{"order 123", "", false},
		{"Show me the status of order ID 12345", "", false},
		{"Is it in stock?", SlotProductName, true},
		{"what is left in the inventory", SlotProductName, true},
		{"how many t-shirts are left", "", false},
		{"is this item available", "", false},
		{"any dresses in stock", "", false},
		{"order status and stock", SlotOrderID, true},
		{"hello", "", false},
		{"top products", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			slot, missing := DetectMissing(tt.message)
			assert.Equal(t, tt.missing, missing)
			assert.Equal(t, tt.slot, slot)
		})
	}
}

func TestDetectMissingNeverAsksForOrderIDWhenDigitsPresent(t *testing.T) {
	messages := []string{
		"order 1",
		"ORDER #42 please",
		"what happened to order 99999999",
		"track order 7 status",
		"my order number is 31337, where is it",
	}
	for _, msg := range messages {
		slot, missing := DetectMissing(msg)
		assert.False(t, missing && slot == SlotOrderID, msg)
		assert.False(t, missing, msg)
	}
}

func TestDetectMissingProductNameWithoutIndicator(t *testing.T) {
	for _, kw := range []string{"stock", "inventory", "left", "available"} {
		slot, missing := DetectMissing("how much is " + kw)
		require.True(t, missing, kw)
		assert.Equal(t, SlotProductName, slot, kw)
	}
}

func TestDetectMissingIsIndependentOfClassify(t *testing.T) {
	// Routed as top products, yet the detector still sees a bare "order".
	msg := "most popular order"
	assert.Equal(t, IntentTopProducts, Classify(msg))
	slot, missing := DetectMissing(msg)
	assert.True(t, missing)
	assert.Equal(t, SlotOrderID, slot)
}

func TestExtractOrderID(t *testing.T) {
	id, ok := ExtractOrderID("order 123 and 456")
	require.True(t, ok)
	assert.Equal(t, "123", id)

	_, ok = ExtractOrderID("no digits here")
	assert.False(t, ok)
}

func TestExtractProductName(t *testing.T) {
	catalog := newFakeCatalog()
	ctx := context.Background()

	tests := []struct {
		lower string
		want  string
		found bool
	}{
		{"how many classic t-shirts are left", "Classic T-Shirt", true},
		{"any classic tshirt left", "Classic T-Shirt", true},
		{"any t-shirt left", "T-Shirt", true},
		{"do you have a tshirt", "T-Shirt", true},
		{"is the summer dress in stock", "Summer Dress", true},
		{"denim in stock", "Denim Jacket", true},
		// First token that hits anything wins, even if a later token is more specific.
		{"jeans or dress", "Slim Fit Jeans", true},
		{"slim dress", "Slim Fit Jeans", true},
		// Tokens of three characters or fewer are ignored.
		{"fit", "", false},
		{"how many items are available", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.lower, func(t *testing.T) {
			name, found, err := ExtractProductName(ctx, catalog, tt.lower)
			require.NoError(t, err)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, name)
		})
	}
}

func TestExtractProductNameError(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.err = errBoom
	_, _, err := ExtractProductName(context.Background(), catalog, "summer dress")
	assert.ErrorIs(t, err, errBoom)
}
