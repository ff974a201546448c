package sync

import (
	"context"
	"hash/fnv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dearhome/assistant-go/internal/vectorstore"
)

// wordHashEmbedder 词袋哈希嵌入，测试中代替远端嵌入服务
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

func newTestGateway(t *testing.T) *vectorstore.Gateway {
	t.Helper()
	return vectorstore.NewGateway(
		vectorstore.NewMemoryVectorStore(),
		wordHashEmbedder{dims: 32},
		vectorstore.RetryPolicy{Attempts: 2, Delay: time.Millisecond},
		false,
		zap.NewNop(),
	)
}

func TestFieldHelpers(t *testing.T) {
	data := map[string]interface{}{
		"name":  "Oak Desk",
		"price": float64(499),
		"note":  nil,
	}

	assert.Equal(t, "Oak Desk", field(data, "name"))
	assert.Equal(t, "499", field(data, "price"))
	assert.Equal(t, "", field(data, "note"))
	assert.Equal(t, "", field(data, "missing"))

	assert.Equal(t, "a b", joinFields("a", "", "b", "  "))
	assert.Equal(t, "", joinFields("", "  "))
}

func TestVariantService_CreateSearchDelete(t *testing.T) {
	gateway := newTestGateway(t)
	service := NewVariantService(gateway, zap.NewNop())
	ctx := context.Background()

	err := service.Create(ctx, map[string]interface{}{
		"id":             "v1",
		"name":           "Oak Desk",
		"sku":            "OAK-100",
		"price":          499,
		"stock_quantity": 3,
	})
	require.NoError(t, err)

	results, err := service.Search(ctx, "Oak Desk OAK-100", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "v1", results[0].ID)
	assert.Equal(t, "Oak Desk", results[0].Metadata["name"])

	require.NoError(t, service.Delete(ctx, "v1"))
	results, err = service.Search(ctx, "Oak Desk", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestVariantService_UpdateOverwrites(t *testing.T) {
	gateway := newTestGateway(t)
	service := NewVariantService(gateway, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, service.Create(ctx, map[string]interface{}{
		"id": "v1", "name": "Oak Desk", "price": 499,
	}))
	require.NoError(t, service.Update(ctx, "v1", map[string]interface{}{
		"id": "v1", "name": "Oak Desk", "price": 459,
	}))

	results, err := service.Search(ctx, "Oak Desk", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 459, results[0].Metadata["price"])
}

func TestVariantService_Similar(t *testing.T) {
	gateway := newTestGateway(t)
	service := NewVariantService(gateway, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, service.Create(ctx, map[string]interface{}{"id": "v1", "name": "oak wooden desk"}))
	require.NoError(t, service.Create(ctx, map[string]interface{}{"id": "v2", "name": "oak wooden table"}))

	results, err := service.Similar(ctx, "v1", 3)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "v2", results[0].ID)
}

func TestPromotionService_CreateAndSearch(t *testing.T) {
	gateway := newTestGateway(t)
	service := NewPromotionService(gateway, zap.NewNop())
	ctx := context.Background()

	err := service.Create(ctx, map[string]interface{}{
		"id":                  "p1",
		"name":                "Summer Sale",
		"code":                "SUMMER20",
		"discount_percentage": 20,
	})
	require.NoError(t, err)

	results, err := service.Search(ctx, "Summer Sale SUMMER20", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "p1", results[0].ID)

	require.NoError(t, service.Delete(ctx, "p1"))
}

func TestOrderService_UpdateStatusMergesStatusData(t *testing.T) {
	gateway := newTestGateway(t)
	service := NewOrderService(gateway, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, service.Create(ctx, map[string]interface{}{
		"id": "o1", "user_id": "u1", "status": "pending",
	}))

	err := service.UpdateStatus(ctx, "o1", "shipped", map[string]interface{}{
		"user_id":          "u1",
		"shipping_address": "Main St 5",
	})
	require.NoError(t, err)

	results, err := service.SearchForUser(ctx, "u1 shipped", "u1", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "shipped", results[0].Metadata["status"])
	assert.Equal(t, "Main St 5", results[0].Metadata["shipping_address"])
}

func TestOrderService_SearchForUserFiltersOtherUsers(t *testing.T) {
	gateway := newTestGateway(t)
	service := NewOrderService(gateway, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, service.Create(ctx, map[string]interface{}{
		"id": "o1", "user_id": "u1", "status": "pending", "order_details": "oak desk",
	}))
	require.NoError(t, service.Create(ctx, map[string]interface{}{
		"id": "o2", "user_id": "u2", "status": "pending", "order_details": "oak desk",
	}))

	results, err := service.SearchForUser(ctx, "oak desk pending", "u1", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "o1", results[0].ID)
}

func TestProductService_CreateAndSearch(t *testing.T) {
	gateway := newTestGateway(t)
	service := NewProductService(gateway, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, service.Create(ctx, map[string]interface{}{
		"id": "pr1", "name": "Nordic Sofa", "category": "sofa",
	}))

	results, err := service.Search(ctx, "Nordic Sofa", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "pr1", results[0].ID)

	require.NoError(t, service.Update(ctx, "pr1", map[string]interface{}{
		"id": "pr1", "name": "Nordic Sofa", "category": "sofa", "price": 899,
	}))
	require.NoError(t, service.Delete(ctx, "pr1"))
}
