package chat

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dearhome/assistant-go/internal/sync"
	"github.com/dearhome/assistant-go/internal/vectorstore"
)

type wordHashEmbedder struct {
	dims int
}

func (e wordHashEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vector := make([]float32, e.dims)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(word))
		vector[int(h.Sum32())%e.dims]++
	}
	return vector, nil
}

func (e wordHashEmbedder) Dimensions() int { return e.dims }
func (e wordHashEmbedder) Ready() bool     { return true }

type dispatcherFixture struct {
	dispatcher *Dispatcher
	variants   *sync.VariantService
	promotions *sync.PromotionService
	orders     *sync.OrderService
}

func newDispatcherFixture(t *testing.T) *dispatcherFixture {
	t.Helper()
	gateway := vectorstore.NewGateway(
		vectorstore.NewMemoryVectorStore(),
		wordHashEmbedder{dims: 32},
		vectorstore.RetryPolicy{Attempts: 1, Delay: time.Millisecond},
		false,
		zap.NewNop(),
	)
	nop := zap.NewNop()
	f := &dispatcherFixture{
		variants:   sync.NewVariantService(gateway, nop),
		promotions: sync.NewPromotionService(gateway, nop),
		orders:     sync.NewOrderService(gateway, nop),
	}
	f.dispatcher = NewDispatcher(f.variants, f.promotions, f.orders, nop)
	return f
}

func asMap(t *testing.T, payload interface{}) map[string]interface{} {
	t.Helper()
	m, ok := payload.(map[string]interface{})
	require.True(t, ok, "负载不是map: %T", payload)
	return m
}

func TestDispatcher_StaticIntents(t *testing.T) {
	f := newDispatcherFixture(t)
	ctx := context.Background()

	tests := []struct {
		intent Intent
		key    string
	}{
		{IntentGreeting, "message"},
		{IntentReturnPolicy, "policy"},
		{IntentPaymentMethods, "methods"},
		{IntentThankYou, "message"},
		{IntentGoodbye, "message"},
	}
	for _, tt := range tests {
		payload := asMap(t, f.dispatcher.Dispatch(ctx, tt.intent, nil, ""))
		assert.Contains(t, payload, tt.key, "intent %s", tt.intent)
	}
}

func TestDispatcher_UnknownReturnsApology(t *testing.T) {
	f := newDispatcherFixture(t)

	payload := f.dispatcher.Dispatch(context.Background(), IntentUnknown, nil, "")
	assert.Equal(t, apologyPayload, payload)

	// 未注册的任意标签同样兜底
	payload = f.dispatcher.Dispatch(context.Background(), Intent("nonsense"), nil, "")
	assert.Equal(t, apologyPayload, payload)
}

func TestDispatcher_ProductSearch(t *testing.T) {
	f := newDispatcherFixture(t)
	ctx := context.Background()

	require.NoError(t, f.variants.Create(ctx, map[string]interface{}{
		"id": "v1", "name": "Oak Desk", "price": 499,
	}))

	payload := asMap(t, f.dispatcher.Dispatch(ctx, IntentProductSearch,
		map[string]string{"query": "Oak Desk"}, ""))
	results, ok := payload["results"].([]vectorstore.SearchResult)
	require.True(t, ok)
	require.Len(t, results, 1)
	assert.Equal(t, "v1", results[0].ID)
}

func TestDispatcher_ProductSearchNotFound(t *testing.T) {
	f := newDispatcherFixture(t)

	payload := asMap(t, f.dispatcher.Dispatch(context.Background(), IntentProductSearch,
		map[string]string{"query": "flying carpet"}, ""))
	assert.Contains(t, payload, "error")
}

func TestDispatcher_ProductSearchMissingQuery(t *testing.T) {
	f := newDispatcherFixture(t)

	payload := asMap(t, f.dispatcher.Dispatch(context.Background(), IntentProductSearch,
		map[string]string{"query": ""}, ""))
	assert.Contains(t, payload, "error")
}

func TestDispatcher_ProductFieldLookup(t *testing.T) {
	f := newDispatcherFixture(t)
	ctx := context.Background()

	require.NoError(t, f.variants.Create(ctx, map[string]interface{}{
		"id":   "v1",
		"name": "Oak Desk",
		"attributes": map[string]interface{}{
			"material":   "solid oak",
			"dimensions": "120x60x75 cm",
			"color":      "natural",
		},
	}))

	payload := asMap(t, f.dispatcher.Dispatch(ctx, IntentProductMaterial,
		map[string]string{"product_name": "Oak Desk"}, ""))
	assert.Equal(t, "Oak Desk", payload["product_name"])
	assert.Equal(t, "solid oak", payload["material"])

	payload = asMap(t, f.dispatcher.Dispatch(ctx, IntentProductDimensions,
		map[string]string{"product_name": "Oak Desk"}, ""))
	assert.Equal(t, "120x60x75 cm", payload["dimensions"])
}

func TestDispatcher_PriceInquiry(t *testing.T) {
	f := newDispatcherFixture(t)
	ctx := context.Background()

	require.NoError(t, f.variants.Create(ctx, map[string]interface{}{
		"id": "v1", "name": "Oak Desk", "price": 499,
	}))

	payload := asMap(t, f.dispatcher.Dispatch(ctx, IntentPriceInquiry,
		map[string]string{"product_name": "Oak Desk"}, ""))
	assert.Equal(t, "499", payload["price"])
}

func TestDispatcher_FieldMissingOnProduct(t *testing.T) {
	f := newDispatcherFixture(t)
	ctx := context.Background()

	require.NoError(t, f.variants.Create(ctx, map[string]interface{}{
		"id": "v1", "name": "Oak Desk",
	}))

	payload := asMap(t, f.dispatcher.Dispatch(ctx, IntentProductMaterial,
		map[string]string{"product_name": "Oak Desk"}, ""))
	assert.Contains(t, payload, "error")
}

func TestDispatcher_Availability(t *testing.T) {
	f := newDispatcherFixture(t)
	ctx := context.Background()

	require.NoError(t, f.variants.Create(ctx, map[string]interface{}{
		"id": "v1", "name": "Oak Desk", "stock_quantity": 3,
	}))
	require.NoError(t, f.variants.Create(ctx, map[string]interface{}{
		"id": "v2", "name": "Pine Shelf", "stock_quantity": 0,
	}))

	payload := asMap(t, f.dispatcher.Dispatch(ctx, IntentProductAvailability,
		map[string]string{"product_name": "Oak Desk"}, ""))
	assert.Equal(t, true, payload["in_stock"])

	payload = asMap(t, f.dispatcher.Dispatch(ctx, IntentProductAvailability,
		map[string]string{"product_name": "Pine Shelf"}, ""))
	assert.Equal(t, false, payload["in_stock"])
}

func TestDispatcher_DiscountInquiry(t *testing.T) {
	f := newDispatcherFixture(t)
	ctx := context.Background()

	require.NoError(t, f.promotions.Create(ctx, map[string]interface{}{
		"id": "p1", "name": "Summer Sale", "code": "SUMMER20",
	}))

	payload := asMap(t, f.dispatcher.Dispatch(ctx, IntentDiscountInquiry,
		map[string]string{"name": "Summer Sale", "code": "SUMMER20"}, ""))
	assert.Contains(t, payload, "promotions")
}

func TestDispatcher_OrderStatusRequiresUser(t *testing.T) {
	f := newDispatcherFixture(t)

	payload := asMap(t, f.dispatcher.Dispatch(context.Background(), IntentOrderStatus,
		map[string]string{"status": "shipped"}, ""))
	assert.Contains(t, payload, "error")
}

func TestDispatcher_OrderStatusFiltersByUser(t *testing.T) {
	f := newDispatcherFixture(t)
	ctx := context.Background()

	require.NoError(t, f.orders.Create(ctx, map[string]interface{}{
		"id": "o1", "user_id": "u1", "status": "shipped", "order_details": "oak desk",
	}))
	require.NoError(t, f.orders.Create(ctx, map[string]interface{}{
		"id": "o2", "user_id": "u2", "status": "shipped", "order_details": "oak desk",
	}))

	payload := asMap(t, f.dispatcher.Dispatch(ctx, IntentOrderStatus,
		map[string]string{"status": "shipped", "order_details": "oak desk"}, "u1"))
	orders, ok := payload["orders"].([]vectorstore.SearchResult)
	require.True(t, ok)
	require.Len(t, orders, 1)
	assert.Equal(t, "o1", orders[0].ID)
}

func TestDispatcher_AdviceIntents(t *testing.T) {
	f := newDispatcherFixture(t)
	ctx := context.Background()

	payload := asMap(t, f.dispatcher.Dispatch(ctx, IntentInteriorDesignAdvice, map[string]string{
		"room_type": "bedroom", "style": "scandinavian", "constraint": "a small floor plan", "goal": "a calm feel",
	}, ""))
	advice, _ := payload["advice"].(string)
	assert.Contains(t, advice, "bedroom")
	assert.Contains(t, advice, "scandinavian")

	payload = asMap(t, f.dispatcher.Dispatch(ctx, IntentColorMatchingAdvice, map[string]string{
		"base_elements": "a grey sofa", "style": "modern", "atmosphere": "cozy",
	}, ""))
	advice, _ = payload["advice"].(string)
	assert.Contains(t, advice, "grey sofa")
	assert.Contains(t, advice, "cozy")
}

func TestDispatcher_ShippingInquiry(t *testing.T) {
	f := newDispatcherFixture(t)

	payload := asMap(t, f.dispatcher.Dispatch(context.Background(), IntentShippingInquiry,
		map[string]string{"order_id": "o1"}, ""))
	assert.Contains(t, payload, "methods")
	assert.Equal(t, "o1", payload["order_id"])

	payload = asMap(t, f.dispatcher.Dispatch(context.Background(), IntentShippingInquiry,
		map[string]string{"order_id": ""}, ""))
	assert.NotContains(t, payload, "order_id")
}

func TestDispatcher_AllPayloadsSerializable(t *testing.T) {
	f := newDispatcherFixture(t)
	ctx := context.Background()

	for intent := range requiredParams {
		payload := f.dispatcher.Dispatch(ctx, intent, map[string]string{}, "u1")
		_, err := json.Marshal(payload)
		assert.NoError(t, err, "intent %s 的负载不可序列化", intent)
	}
}
