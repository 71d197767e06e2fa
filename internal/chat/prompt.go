package chat

const basePrompt = `You are a helpful customer support assistant for an e-commerce clothing website. You have access to the following information:

1. **Products**: Product catalog with categories, brands, pricing, and SKUs
2. **Orders**: Customer order information and status tracking
3. **Inventory**: Stock levels and availability for all products
4. **Users**: Customer information and demographics
5. **Distribution Centers**: Warehouse locations

Your capabilities:
- Answer questions about top-selling products
- Check order status by order ID
- Provide inventory/stock information
- Give general product information
- Ask clarifying questions when needed

Always be helpful, professional, and accurate. If you need more information to answer a question, ask for it politely.`

// SystemPrompt returns the assistant persona with the grounding context appended.
func SystemPrompt(context string) string {
	if context == "" {
		return basePrompt
	}
	return basePrompt + "\n\nAdditional context: " + context
}

// ClarifyTemplate is the fixed clarifying question for slot, used when no LLM
// is configured or the LLM fails.
func ClarifyTemplate(slot Slot) string {
	switch slot {
	case SlotOrderID:
		return "Could you please provide your order ID? I need it to check the status for you."
	case SlotProductName:
		return "Which product would you like me to check? Please let me know the product name."
	default:
		return "I need a bit more information to help you properly. Could you please provide more details?"
	}
}
