package chat

// 静态应答负载。无需检索的意图直接返回固定内容。

var greetingPayload = map[string]interface{}{
	"message": "Hello! Welcome to DearHome. How can I help you furnish your space today?",
}

var returnPolicyPayload = map[string]interface{}{
	"policy": "You can return any item within 30 days of delivery for a full refund, provided it is unused and in its original packaging. Custom-made furniture is non-refundable.",
	"how_to": "Start a return from your order page or contact our support team with your order number.",
}

var paymentMethodsPayload = map[string]interface{}{
	"methods": []string{
		"Credit card (Visa, MasterCard, American Express)",
		"Debit card",
		"PayPal",
		"Bank transfer",
		"Cash on delivery",
	},
}

var shippingMethodsPayload = map[string]interface{}{
	"methods": []string{
		"Standard delivery (5-7 business days)",
		"Express delivery (2-3 business days)",
		"In-store pickup",
	},
	"note": "Large furniture items are delivered by our own fleet with a scheduled delivery window.",
}

var thankYouPayload = map[string]interface{}{
	"message": "You're welcome! Let me know if there's anything else I can help you with.",
}

var goodbyePayload = map[string]interface{}{
	"message": "Goodbye! Thank you for visiting DearHome. Have a great day!",
}

var apologyPayload = map[string]interface{}{
	"message": "Sorry, I didn't quite understand that. Could you rephrase your question? I can help with product search, orders, promotions and design advice.",
}
