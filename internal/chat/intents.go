package chat

// Intent 业务意图标签
type Intent string

const (
	IntentGreeting             Intent = "greeting"
	IntentProductSearch        Intent = "product_search"
	IntentProductInformation   Intent = "product_information_inquiry"
	IntentProductDimensions    Intent = "product_dimensions"
	IntentProductMaterial      Intent = "product_material"
	IntentProductColor         Intent = "product_color"
	IntentInteriorDesignAdvice Intent = "interior_design_advice"
	IntentColorMatchingAdvice  Intent = "color_matching_advice"
	IntentPriceInquiry         Intent = "price_inquiry"
	IntentDiscountInquiry      Intent = "discount_inquiry"
	IntentOrderStatus          Intent = "order_status"
	IntentReturnPolicy         Intent = "return_policy"
	IntentShippingInquiry      Intent = "shipping_inquiry"
	IntentPaymentMethods       Intent = "payment_methods"
	IntentProductAvailability  Intent = "product_availability"
	IntentThankYou             Intent = "thank_you"
	IntentGoodbye              Intent = "goodbye"
	IntentUnknown              Intent = "unknown"
)

// requiredParams 意图→必填参数的静态表
var requiredParams = map[Intent][]string{
	IntentGreeting:             {},
	IntentProductSearch:        {"query"},
	IntentProductInformation:   {"product_name"},
	IntentProductDimensions:    {"product_name"},
	IntentProductMaterial:      {"product_name"},
	IntentProductColor:         {"product_name"},
	IntentInteriorDesignAdvice: {"room_type", "style", "constraint", "goal"},
	IntentColorMatchingAdvice:  {"base_elements", "style", "atmosphere"},
	IntentPriceInquiry:         {"product_name"},
	IntentDiscountInquiry:      {"name", "code", "description", "start_date", "end_date", "is_active", "customer_level", "discount_percentage"},
	IntentOrderStatus:          {"status", "total_price", "discount", "final_price", "order_date", "shipping_address", "order_details"},
	IntentReturnPolicy:         {},
	IntentShippingInquiry:      {"order_id"},
	IntentPaymentMethods:       {},
	IntentProductAvailability:  {"product_name"},
	IntentThankYou:             {},
	IntentGoodbye:              {},
}

// RequiredParams 返回意图的必填参数名
func RequiredParams(intent Intent) []string {
	return requiredParams[intent]
}
