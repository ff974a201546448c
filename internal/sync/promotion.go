package sync

import (
	"context"

	"github.com/dearhome/assistant-go/internal/vectorstore"
	"go.uber.org/zap"
)

// PromotionService 促销同步服务
type PromotionService struct {
	gateway *vectorstore.Gateway
	logger  *zap.Logger
}

// NewPromotionService 创建促销同步服务
func NewPromotionService(gateway *vectorstore.Gateway, logger *zap.Logger) *PromotionService {
	return &PromotionService{
		gateway: gateway,
		logger:  logger.Named("promotion-service"),
	}
}

func promotionEmbeddingText(promotion map[string]interface{}) string {
	return joinFields(
		field(promotion, "name"),
		field(promotion, "code"),
		field(promotion, "description"),
		field(promotion, "start_date"),
		field(promotion, "end_date"),
		field(promotion, "is_active"),
		field(promotion, "customer_level"),
		field(promotion, "discount_percentage"),
	)
}

// Create 新建促销索引记录
func (s *PromotionService) Create(ctx context.Context, data map[string]interface{}) error {
	id := field(data, "id")
	if err := s.gateway.Upsert(ctx, CollectionPromotions, id, data, promotionEmbeddingText(data)); err != nil {
		s.logger.Error("创建促销失败", zap.String("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("促销已创建", zap.String("id", id))
	return nil
}

// Update 更新促销索引记录
func (s *PromotionService) Update(ctx context.Context, id string, data map[string]interface{}) error {
	if err := s.gateway.Upsert(ctx, CollectionPromotions, id, data, promotionEmbeddingText(data)); err != nil {
		s.logger.Error("更新促销失败", zap.String("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("促销已更新", zap.String("id", id))
	return nil
}

// Delete 删除促销索引记录
func (s *PromotionService) Delete(ctx context.Context, id string) error {
	if err := s.gateway.Delete(ctx, CollectionPromotions, []string{id}); err != nil {
		s.logger.Error("删除促销失败", zap.String("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("促销已删除", zap.String("id", id))
	return nil
}

// Search 语义检索促销
func (s *PromotionService) Search(ctx context.Context, query string, limit int) ([]vectorstore.SearchResult, error) {
	results, err := s.gateway.Search(ctx, CollectionPromotions, query, limit)
	if err != nil {
		s.logger.Error("检索促销失败", zap.String("query", query), zap.Error(err))
		return nil, err
	}
	return results, nil
}
