package chat

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/dearhome/assistant-go/internal/sync"
	"github.com/dearhome/assistant-go/internal/vectorstore"
)

const defaultSearchLimit = 5

// Handler 处理单个意图的执行单元
type Handler interface {
	// Params 返回该意图需要的参数名，空切片表示无需抽取
	Params() []string
	// Execute 执行意图并返回应答负载，负载总是可 JSON 序列化
	Execute(ctx context.Context, params map[string]string, userID string) (interface{}, error)
}

// Dispatcher 按意图路由到对应的 Handler
type Dispatcher struct {
	handlers map[Intent]Handler
	logger   *zap.Logger
}

// NewDispatcher 注册全部内置意图处理器
func NewDispatcher(
	variants *sync.VariantService,
	promotions *sync.PromotionService,
	orders *sync.OrderService,
	logger *zap.Logger,
) *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[Intent]Handler),
		logger:   logger.Named("dispatcher"),
	}

	d.Register(IntentGreeting, staticHandler{payload: greetingPayload})
	d.Register(IntentReturnPolicy, staticHandler{payload: returnPolicyPayload})
	d.Register(IntentPaymentMethods, staticHandler{payload: paymentMethodsPayload})
	d.Register(IntentThankYou, staticHandler{payload: thankYouPayload})
	d.Register(IntentGoodbye, staticHandler{payload: goodbyePayload})

	d.Register(IntentProductSearch, &productSearchHandler{variants: variants})
	d.Register(IntentProductInformation, &productInfoHandler{variants: variants})
	d.Register(IntentProductDimensions, &productFieldHandler{variants: variants, intent: IntentProductDimensions, field: "dimensions"})
	d.Register(IntentProductMaterial, &productFieldHandler{variants: variants, intent: IntentProductMaterial, field: "material"})
	d.Register(IntentProductColor, &productFieldHandler{variants: variants, intent: IntentProductColor, field: "color"})
	d.Register(IntentPriceInquiry, &productFieldHandler{variants: variants, intent: IntentPriceInquiry, field: "price"})
	d.Register(IntentProductAvailability, &availabilityHandler{variants: variants})

	d.Register(IntentInteriorDesignAdvice, interiorDesignHandler{})
	d.Register(IntentColorMatchingAdvice, colorMatchingHandler{})

	d.Register(IntentDiscountInquiry, &discountHandler{promotions: promotions})
	d.Register(IntentOrderStatus, &orderStatusHandler{orders: orders})
	d.Register(IntentShippingInquiry, shippingHandler{})

	return d
}

// Register 绑定意图处理器，重复注册时覆盖
func (d *Dispatcher) Register(intent Intent, handler Handler) {
	d.handlers[intent] = handler
}

// Handler 返回意图对应的处理器
func (d *Dispatcher) Handler(intent Intent) (Handler, bool) {
	h, ok := d.handlers[intent]
	return h, ok
}

// Dispatch 执行意图并吞掉处理器错误，调用方总是拿到可序列化的负载。
// 未注册的意图(含 unknown)统一返回致歉负载。
func (d *Dispatcher) Dispatch(ctx context.Context, intent Intent, params map[string]string, userID string) interface{} {
	handler, ok := d.handlers[intent]
	if !ok {
		d.logger.Debug("意图未注册，返回致歉应答", zap.String("intent", string(intent)))
		return apologyPayload
	}

	result, err := handler.Execute(ctx, params, userID)
	if err != nil {
		d.logger.Error("意图处理失败",
			zap.String("intent", string(intent)),
			zap.Error(err))
		return map[string]interface{}{
			"error": "Sorry, something went wrong while handling your request. Please try again.",
		}
	}
	return result
}

// staticHandler 直接返回固定负载
type staticHandler struct {
	payload interface{}
}

func (staticHandler) Params() []string { return nil }

func (h staticHandler) Execute(context.Context, map[string]string, string) (interface{}, error) {
	return h.payload, nil
}

type productSearchHandler struct {
	variants *sync.VariantService
}

func (h *productSearchHandler) Params() []string { return RequiredParams(IntentProductSearch) }

func (h *productSearchHandler) Execute(ctx context.Context, params map[string]string, _ string) (interface{}, error) {
	query := params["query"]
	if query == "" {
		return map[string]interface{}{"error": "Please tell me what kind of product you are looking for."}, nil
	}

	results, err := h.variants.Search(ctx, query, defaultSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("搜索商品失败: %w", err)
	}
	if len(results) == 0 {
		return map[string]interface{}{"error": "No products found matching your query."}, nil
	}
	return map[string]interface{}{"results": results}, nil
}

type productInfoHandler struct {
	variants *sync.VariantService
}

func (h *productInfoHandler) Params() []string { return RequiredParams(IntentProductInformation) }

func (h *productInfoHandler) Execute(ctx context.Context, params map[string]string, _ string) (interface{}, error) {
	match, payload, err := lookupProduct(ctx, h.variants, params["product_name"])
	if err != nil || match == nil {
		return payload, err
	}
	return map[string]interface{}{
		"product":          match.Metadata,
		"similarity_score": match.Similarity,
	}, nil
}

// productFieldHandler 按名称定位商品后取单个属性。
// 属性先按原名查找，再退回扁平化后的 attributes 前缀键。
type productFieldHandler struct {
	variants *sync.VariantService
	intent   Intent
	field    string
}

func (h *productFieldHandler) Params() []string { return RequiredParams(h.intent) }

func (h *productFieldHandler) Execute(ctx context.Context, params map[string]string, _ string) (interface{}, error) {
	match, payload, err := lookupProduct(ctx, h.variants, params["product_name"])
	if err != nil || match == nil {
		return payload, err
	}

	value := metaField(match.Metadata, h.field)
	if value == "" {
		value = metaField(match.Metadata, "attributes."+h.field)
	}
	if value == "" {
		return map[string]interface{}{
			"error": fmt.Sprintf("Sorry, I don't have %s information for %s.", h.field, metaField(match.Metadata, "name")),
		}, nil
	}
	return map[string]interface{}{
		"product_name": metaField(match.Metadata, "name"),
		h.field:        value,
	}, nil
}

type availabilityHandler struct {
	variants *sync.VariantService
}

func (h *availabilityHandler) Params() []string { return RequiredParams(IntentProductAvailability) }

func (h *availabilityHandler) Execute(ctx context.Context, params map[string]string, _ string) (interface{}, error) {
	match, payload, err := lookupProduct(ctx, h.variants, params["product_name"])
	if err != nil || match == nil {
		return payload, err
	}

	stockText := metaField(match.Metadata, "stock_quantity")
	stock, _ := strconv.ParseFloat(stockText, 64)
	return map[string]interface{}{
		"product_name":   metaField(match.Metadata, "name"),
		"in_stock":       stock > 0,
		"stock_quantity": stockText,
	}, nil
}

type interiorDesignHandler struct{}

func (interiorDesignHandler) Params() []string { return RequiredParams(IntentInteriorDesignAdvice) }

func (interiorDesignHandler) Execute(_ context.Context, params map[string]string, _ string) (interface{}, error) {
	room := valueOr(params["room_type"], "your room")
	style := valueOr(params["style"], "a style you love")
	advice := fmt.Sprintf(
		"For %s in %s, start with a few anchor pieces and keep the layout open. ", room, style)
	if params["constraint"] != "" {
		advice += fmt.Sprintf("Given %s, prefer multi-functional furniture and lighter visual weight. ", params["constraint"])
	}
	if params["goal"] != "" {
		advice += fmt.Sprintf("To achieve %s, layer lighting and add textiles for warmth.", params["goal"])
	}
	return map[string]interface{}{"advice": strings.TrimSpace(advice)}, nil
}

type colorMatchingHandler struct{}

func (colorMatchingHandler) Params() []string { return RequiredParams(IntentColorMatchingAdvice) }

func (colorMatchingHandler) Execute(_ context.Context, params map[string]string, _ string) (interface{}, error) {
	base := valueOr(params["base_elements"], "your existing pieces")
	style := valueOr(params["style"], "the overall style")
	advice := fmt.Sprintf(
		"Build the palette around %s and keep it consistent with %s: use a 60/30/10 split of dominant, secondary and accent colors. ", base, style)
	if params["atmosphere"] != "" {
		advice += fmt.Sprintf("For a %s atmosphere, pick accent tones in that direction and repeat them in small accessories.", params["atmosphere"])
	}
	return map[string]interface{}{"advice": strings.TrimSpace(advice)}, nil
}

type discountHandler struct {
	promotions *sync.PromotionService
}

func (h *discountHandler) Params() []string { return RequiredParams(IntentDiscountInquiry) }

func (h *discountHandler) Execute(ctx context.Context, params map[string]string, _ string) (interface{}, error) {
	query := joinParams(params, h.Params())
	if query == "" {
		query = "current promotions and discounts"
	}

	results, err := h.promotions.Search(ctx, query, defaultSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("搜索促销失败: %w", err)
	}
	if len(results) == 0 {
		return map[string]interface{}{"error": "No promotions found matching your request."}, nil
	}
	return map[string]interface{}{"promotions": results}, nil
}

type orderStatusHandler struct {
	orders *sync.OrderService
}

func (h *orderStatusHandler) Params() []string { return RequiredParams(IntentOrderStatus) }

// Execute 用调用方身份过滤订单，userID 不参与参数抽取
func (h *orderStatusHandler) Execute(ctx context.Context, params map[string]string, userID string) (interface{}, error) {
	if userID == "" {
		return map[string]interface{}{"error": "Please sign in so I can look up your orders."}, nil
	}

	query := joinParams(params, h.Params())
	if query == "" {
		query = "order status"
	}

	results, err := h.orders.SearchForUser(ctx, query, userID, defaultSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("搜索订单失败: %w", err)
	}
	if len(results) == 0 {
		return map[string]interface{}{"error": "No orders found for your account."}, nil
	}
	return map[string]interface{}{"orders": results}, nil
}

type shippingHandler struct{}

func (shippingHandler) Params() []string { return RequiredParams(IntentShippingInquiry) }

func (shippingHandler) Execute(_ context.Context, params map[string]string, _ string) (interface{}, error) {
	payload := map[string]interface{}{}
	for k, v := range shippingMethodsPayload {
		payload[k] = v
	}
	if params["order_id"] != "" {
		payload["order_id"] = params["order_id"]
	}
	return payload, nil
}

// lookupProduct 按名称检索最相近的一个商品。
// 第二返回值是可直接回给用户的负载，仅在未命中时非空。
func lookupProduct(ctx context.Context, variants *sync.VariantService, name string) (*vectorstore.SearchResult, interface{}, error) {
	if name == "" {
		return nil, map[string]interface{}{"error": "Please tell me which product you mean."}, nil
	}

	results, err := variants.Search(ctx, name, 1)
	if err != nil {
		return nil, nil, fmt.Errorf("搜索商品失败: %w", err)
	}
	if len(results) == 0 {
		return nil, map[string]interface{}{"error": fmt.Sprintf("Sorry, I couldn't find a product named %q.", name)}, nil
	}
	return &results[0], nil, nil
}

func metaField(metadata map[string]interface{}, key string) string {
	value, ok := metadata[key]
	if !ok || value == nil {
		return ""
	}
	return fmt.Sprintf("%v", value)
}

func joinParams(params map[string]string, keys []string) string {
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		if v := params[key]; v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
