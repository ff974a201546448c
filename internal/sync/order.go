package sync

import (
	"context"

	"github.com/dearhome/assistant-go/internal/vectorstore"
	"go.uber.org/zap"
)

// OrderService 订单同步服务。订单检索始终按下单用户过滤。
type OrderService struct {
	gateway *vectorstore.Gateway
	logger  *zap.Logger
}

// NewOrderService 创建订单同步服务
func NewOrderService(gateway *vectorstore.Gateway, logger *zap.Logger) *OrderService {
	return &OrderService{
		gateway: gateway,
		logger:  logger.Named("order-service"),
	}
}

func orderEmbeddingText(order map[string]interface{}) string {
	return joinFields(
		field(order, "user_id"),
		field(order, "status"),
		field(order, "total_price"),
		field(order, "discount"),
		field(order, "final_price"),
		field(order, "order_date"),
		field(order, "shipping_address"),
		field(order, "order_details"),
	)
}

// Create 新建订单索引记录
func (s *OrderService) Create(ctx context.Context, data map[string]interface{}) error {
	id := field(data, "id")
	if err := s.gateway.Upsert(ctx, CollectionOrders, id, data, orderEmbeddingText(data)); err != nil {
		s.logger.Error("创建订单失败", zap.String("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("订单已创建", zap.String("id", id))
	return nil
}

// Update 更新订单索引记录
func (s *OrderService) Update(ctx context.Context, id string, data map[string]interface{}) error {
	if err := s.gateway.Upsert(ctx, CollectionOrders, id, data, orderEmbeddingText(data)); err != nil {
		s.logger.Error("更新订单失败", zap.String("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("订单已更新", zap.String("id", id))
	return nil
}

// UpdateStatus 更新订单状态，status与status_data一并折入元数据与嵌入文本
func (s *OrderService) UpdateStatus(ctx context.Context, id, status string, statusData map[string]interface{}) error {
	data := map[string]interface{}{
		"id":     id,
		"status": status,
	}
	for k, v := range statusData {
		data[k] = v
	}
	if err := s.gateway.Upsert(ctx, CollectionOrders, id, data, orderEmbeddingText(data)); err != nil {
		s.logger.Error("更新订单状态失败", zap.String("id", id), zap.String("status", status), zap.Error(err))
		return err
	}
	s.logger.Info("订单状态已更新", zap.String("id", id), zap.String("status", status))
	return nil
}

// Delete 删除订单索引记录
func (s *OrderService) Delete(ctx context.Context, id string) error {
	if err := s.gateway.Delete(ctx, CollectionOrders, []string{id}); err != nil {
		s.logger.Error("删除订单失败", zap.String("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("订单已删除", zap.String("id", id))
	return nil
}

// SearchForUser 按用户过滤的订单检索
func (s *OrderService) SearchForUser(ctx context.Context, query, userID string, limit int) ([]vectorstore.SearchResult, error) {
	// 先多取一些再过滤，保证过滤后仍能凑满limit
	results, err := s.gateway.Search(ctx, CollectionOrders, query, limit*4)
	if err != nil {
		s.logger.Error("检索订单失败", zap.String("query", query), zap.Error(err))
		return nil, err
	}

	filtered := make([]vectorstore.SearchResult, 0, limit)
	for _, result := range results {
		if userID != "" && field(result.Metadata, "user_id") != userID {
			continue
		}
		filtered = append(filtered, result)
		if limit > 0 && len(filtered) >= limit {
			break
		}
	}
	return filtered, nil
}
