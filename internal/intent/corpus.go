package intent

// DefaultCorpus 意图→示例话术的静态语料，启动时嵌入一次，之后只读
var DefaultCorpus = map[string][]string{
	"greeting": {
		"Hello",
		"Hi",
		"Good morning",
		"Good afternoon",
		"Hey there",
		"Greetings",
		"How are you?",
		"Hi, how can I help you today?",
	},
	"product_search": {
		"I'm looking for furniture",
		"Show me your products",
		"Do you have any [product_type]?",
		"Search for [product_type]",
		"I need a new [product_type], can you recommend one?",
		"What kind of [product_type] do you have?",
		"Browse [product_type]",
		"Show me [product_type] options",
		"I want to buy a [product_type]",
		"Show me [product_type] with [feature]",
		"I need a [color] [product_type]",
		"Do you have a [material] [product_type]?",
	},
	"product_information_inquiry": {
		"Tell me about this [product_type]",
		"What are the features of the [product_name]?",
		"What are the specifications of the [product_name]?",
		"What are the key features of the [product_name]?",
		"Can you give me more information about [product_name]?",
		"What can you tell me about [product_name]?",
		"I'd like to know more about [product_name]",
		"What are the details of [product_name]?",
		"Give me information about [product_name]",
		"What's special about [product_name]?",
		"What makes [product_name] unique?",
		"What are the benefits of [product_name]?",
		"What's included with [product_name]?",
		"Does [product_name] come with accessories?",
	},
	"product_dimensions": {
		"What are the dimensions of [product_name]?",
		"How big is the [product_name]?",
		"What's the size of [product_name]?",
		"How tall is the [product_name]?",
		"How wide is the [product_name]?",
		"What's the height of [product_name]?",
		"What's the width of [product_name]?",
		"What's the depth of [product_name]?",
		"What are the measurements of [product_name]?",
		"How much space does [product_name] take up?",
		"Will [product_name] fit in my space?",
		"What are the assembled dimensions of [product_name]?",
	},
	"product_material": {
		"What material is [product_name] made of?",
		"Is [product_name] made of [material]?",
		"What's the upholstery of [product_name]?",
		"What fabric is used for [product_name]?",
		"Is [product_name] made of solid wood?",
		"What type of wood is [product_name] made from?",
		"Is [product_name] made of genuine leather?",
		"What's the frame of [product_name] made of?",
		"Is [product_name] made of natural materials?",
		"Is the material of [product_name] durable?",
		"Is [product_name] made of eco-friendly materials?",
	},
	"product_color": {
		"What colors does [product_name] come in?",
		"Is [product_name] available in [color]?",
		"Do you have [product_name] in [color]?",
		"What color options are available for [product_name]?",
		"Can I get [product_name] in a different color?",
		"What's the most popular color for [product_name]?",
		"Does [product_name] come in neutral colors?",
		"Can I see all color options for [product_name]?",
	},
	"interior_design_advice": {
		"How should I arrange my living room?",
		"Can you suggest furniture placement?",
		"What is the best layout for a small space?",
		"How do I create a cozy home?",
		"What type of furniture suits a modern style?",
		"What are some space-saving ideas for small apartments?",
		"How do I make my home feel more spacious?",
		"What are the best lighting options for a warm atmosphere?",
	},
	"color_matching_advice": {
		"What colors go well with a white sofa?",
		"How do I match my furniture colors?",
		"Can you suggest a color scheme for my bedroom?",
		"What is a good color combination for a modern interior?",
		"How do I choose colors that make my space feel larger?",
		"What are the best colors for a cozy atmosphere?",
		"How do I mix warm and cool tones in a room?",
		"Can you help me find complementary colors for my decor?",
	},
	"price_inquiry": {
		"How much does this cost?",
		"What's the price?",
		"How much is the [product_type]?",
		"What's the price of [product_type]?",
		"How much does [product_name] cost?",
		"What is the price range for [product_type]?",
		"Can you tell me the price of this item?",
		"What's the cost of the [product_type]?",
	},
	"discount_inquiry": {
		"Are there any discounts?",
		"Do you have any sales?",
		"Is there a discount on [product_type]?",
		"Are there any promotions running?",
		"Do you have any special offers?",
		"Are there any coupons available?",
	},
	"order_status": {
		"Where is my order?",
		"Check my order status",
		"When will I receive my order?",
		"Track my order",
		"Has my order shipped yet?",
		"Can you give me an update on my order?",
	},
	"return_policy": {
		"How do I return a product?",
		"What's your return policy?",
		"Can I get a refund?",
		"What's the return process?",
		"How long do I have to return an item?",
		"What are the conditions for returning a product?",
		"What is your exchange policy?",
	},
	"shipping_inquiry": {
		"What are the shipping costs?",
		"When will my order arrive?",
		"What shipping methods do you offer?",
		"How long does shipping take?",
		"Do you offer free shipping?",
		"What is the estimated delivery time?",
	},
	"payment_methods": {
		"What payment methods do you accept?",
		"Can I pay with [payment_method]?",
		"Do you accept credit cards?",
		"Do you accept PayPal?",
		"Do you offer financing options?",
	},
	"product_availability": {
		"Is this [product_type] in stock?",
		"Do you have [product_name] available?",
		"Is [product_type] currently available?",
		"Can I order this item now?",
	},
	"thank_you": {
		"Thank you",
		"Thanks",
		"I appreciate your help",
		"Thanks for your assistance",
		"That was very helpful",
	},
	"goodbye": {
		"Goodbye",
		"See you later",
		"Have a good day",
		"Farewell",
	},
}
