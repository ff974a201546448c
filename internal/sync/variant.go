package sync

import (
	"context"

	"github.com/dearhome/assistant-go/internal/vectorstore"
	"go.uber.org/zap"
)

// VariantService 变体同步服务，把变体载荷翻译成网关需要的嵌入文本与元数据
type VariantService struct {
	gateway *vectorstore.Gateway
	logger  *zap.Logger
}

// NewVariantService 创建变体同步服务
func NewVariantService(gateway *vectorstore.Gateway, logger *zap.Logger) *VariantService {
	return &VariantService{
		gateway: gateway,
		logger:  logger.Named("variant-service"),
	}
}

func variantEmbeddingText(variant map[string]interface{}) string {
	return joinFields(
		field(variant, "name"),
		field(variant, "sku"),
		field(variant, "price"),
		field(variant, "stock_quantity"),
		field(variant, "attributes"),
	)
}

// Create 新建变体索引记录（幂等覆盖写）
func (s *VariantService) Create(ctx context.Context, data map[string]interface{}) error {
	id := field(data, "id")
	if err := s.gateway.Upsert(ctx, CollectionVariants, id, data, variantEmbeddingText(data)); err != nil {
		s.logger.Error("创建变体失败", zap.String("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("变体已创建", zap.String("id", id))
	return nil
}

// Update 更新变体索引记录，与Create同为覆盖写
func (s *VariantService) Update(ctx context.Context, id string, data map[string]interface{}) error {
	if err := s.gateway.Upsert(ctx, CollectionVariants, id, data, variantEmbeddingText(data)); err != nil {
		s.logger.Error("更新变体失败", zap.String("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("变体已更新", zap.String("id", id))
	return nil
}

// Delete 删除变体索引记录
func (s *VariantService) Delete(ctx context.Context, id string) error {
	if err := s.gateway.Delete(ctx, CollectionVariants, []string{id}); err != nil {
		s.logger.Error("删除变体失败", zap.String("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("变体已删除", zap.String("id", id))
	return nil
}

// Search 语义检索变体
func (s *VariantService) Search(ctx context.Context, query string, limit int) ([]vectorstore.SearchResult, error) {
	results, err := s.gateway.Search(ctx, CollectionVariants, query, limit)
	if err != nil {
		s.logger.Error("检索变体失败", zap.String("query", query), zap.Error(err))
		return nil, err
	}
	return results, nil
}

// Similar 按已有变体检索相似变体
func (s *VariantService) Similar(ctx context.Context, id string, limit int) ([]vectorstore.SearchResult, error) {
	return s.gateway.Similar(ctx, CollectionVariants, id, limit)
}
