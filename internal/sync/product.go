package sync

import (
	"context"

	"github.com/dearhome/assistant-go/internal/vectorstore"
	"go.uber.org/zap"
)

// ProductService 商品同步服务
type ProductService struct {
	gateway *vectorstore.Gateway
	logger  *zap.Logger
}

// NewProductService 创建商品同步服务
func NewProductService(gateway *vectorstore.Gateway, logger *zap.Logger) *ProductService {
	return &ProductService{
		gateway: gateway,
		logger:  logger.Named("product-service"),
	}
}

func productEmbeddingText(product map[string]interface{}) string {
	return joinFields(
		field(product, "name"),
		field(product, "category"),
		field(product, "description"),
		field(product, "placement"),
		field(product, "price"),
	)
}

// Create 新建商品索引记录
func (s *ProductService) Create(ctx context.Context, data map[string]interface{}) error {
	id := field(data, "id")
	if err := s.gateway.Upsert(ctx, CollectionProducts, id, data, productEmbeddingText(data)); err != nil {
		s.logger.Error("创建商品失败", zap.String("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("商品已创建", zap.String("id", id))
	return nil
}

// Update 更新商品索引记录
func (s *ProductService) Update(ctx context.Context, id string, data map[string]interface{}) error {
	if err := s.gateway.Upsert(ctx, CollectionProducts, id, data, productEmbeddingText(data)); err != nil {
		s.logger.Error("更新商品失败", zap.String("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("商品已更新", zap.String("id", id))
	return nil
}

// Delete 删除商品索引记录
func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.gateway.Delete(ctx, CollectionProducts, []string{id}); err != nil {
		s.logger.Error("删除商品失败", zap.String("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("商品已删除", zap.String("id", id))
	return nil
}

// Search 语义检索商品
func (s *ProductService) Search(ctx context.Context, query string, limit int) ([]vectorstore.SearchResult, error) {
	results, err := s.gateway.Search(ctx, CollectionProducts, query, limit)
	if err != nil {
		s.logger.Error("检索商品失败", zap.String("query", query), zap.Error(err))
		return nil, err
	}
	return results, nil
}
