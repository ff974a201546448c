package vectorstore

import (
	"context"
	"math"
	"time"

	"github.com/dearhome/assistant-go/internal/apperrors"
	"github.com/dearhome/assistant-go/internal/embedding"
	"github.com/dearhome/assistant-go/internal/metrics"
	"go.uber.org/zap"
)

// SearchResult 对外检索结果，相似度 = 1 - 距离/2
type SearchResult struct {
	ID         string                 `json:"id"`
	Metadata   map[string]interface{} `json:"metadata"`
	Similarity float64                `json:"similarity_score"`
}

// Gateway 向量索引网关：负责嵌入生成、元数据压平、重试与相似度换算。
// 每个实体类型对应一个逻辑集合。写入是纯覆盖，不做存在性或版本检查。
type Gateway struct {
	store      VectorStore
	embedder   embedding.Embedder
	retry      RetryPolicy
	allowReset bool
	logger     *zap.Logger
}

// NewGateway 创建向量索引网关
func NewGateway(store VectorStore, embedder embedding.Embedder, retry RetryPolicy, allowReset bool, logger *zap.Logger) *Gateway {
	return &Gateway{
		store:      store,
		embedder:   embedder,
		retry:      retry,
		allowReset: allowReset,
		logger:     logger,
	}
}

// Upsert 写入或覆盖一条索引记录。
// embeddingText非空时生成新向量；为空时保留已有向量，仅更新元数据。
func (g *Gateway) Upsert(ctx context.Context, collection, id string, metadata map[string]interface{}, embeddingText string) error {
	if id == "" {
		return apperrors.New(apperrors.ErrCodeMissingRequired, "id is required")
	}

	var vector []float32
	if embeddingText != "" {
		embedded, err := g.embedder.Embed(ctx, embeddingText)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrCodeEmbeddingFailed, "failed to generate embedding", err)
		}
		vector = embedded
	} else {
		existing, err := g.store.Get(ctx, collection, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return apperrors.Newf(apperrors.ErrCodeUpdateFailed, "no embedding text and no existing entry for id %s", id)
		}
		vector = existing.Vector
	}

	if metadata != nil {
		metadata = FlattenMetadata(metadata)
	}

	err := g.retry.Do(ctx, "upsert", g.logger, func(ctx context.Context) error {
		return g.store.Upsert(ctx, collection, id, vector, metadata)
	})
	if err != nil {
		return err
	}

	g.logger.Info("索引记录已写入", zap.String("collection", collection), zap.String("id", id))
	return nil
}

// Delete 删除若干记录，缺失的id按无操作处理
func (g *Gateway) Delete(ctx context.Context, collection string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	err := g.retry.Do(ctx, "delete", g.logger, func(ctx context.Context) error {
		return g.store.Delete(ctx, collection, ids)
	})
	if err != nil {
		return err
	}

	g.logger.Info("索引记录已删除", zap.String("collection", collection), zap.Int("count", len(ids)))
	return nil
}

// Search 语义检索，结果按相似度降序
func (g *Gateway) Search(ctx context.Context, collection, query string, limit int) ([]SearchResult, error) {
	start := time.Now()
	defer func() {
		metrics.SearchDuration.WithLabelValues(collection).Observe(time.Since(start).Seconds())
	}()

	vector, err := g.embedder.Embed(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeEmbeddingFailed, "failed to embed query", err)
	}

	var matches []Match
	err = g.retry.Do(ctx, "search", g.logger, func(ctx context.Context) error {
		var queryErr error
		matches, queryErr = g.store.Query(ctx, collection, vector, limit)
		return queryErr
	})
	if err != nil {
		return nil, err
	}

	if len(matches) == 0 {
		g.logger.Warn("查询没有命中任何记录", zap.String("collection", collection), zap.String("query", query))
		return []SearchResult{}, nil
	}

	return toSearchResults(matches), nil
}

// Similar 以已有记录自身的向量为种子检索近邻，结果中排除该记录
func (g *Gateway) Similar(ctx context.Context, collection, id string, limit int) ([]SearchResult, error) {
	var entry *Entry
	err := g.retry.Do(ctx, "similar", g.logger, func(ctx context.Context) error {
		var getErr error
		entry, getErr = g.store.Get(ctx, collection, id)
		return getErr
	})
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, apperrors.Newf(apperrors.ErrCodeQueryFailed, "entry %s not found in %s", id, collection)
	}

	var matches []Match
	err = g.retry.Do(ctx, "similar", g.logger, func(ctx context.Context) error {
		var queryErr error
		// 多取一个，种子记录本身会出现在结果里
		matches, queryErr = g.store.Query(ctx, collection, entry.Vector, limit+1)
		return queryErr
	})
	if err != nil {
		return nil, err
	}

	filtered := make([]Match, 0, len(matches))
	for _, match := range matches {
		if match.ID == id {
			continue
		}
		filtered = append(filtered, match)
	}
	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}

	return toSearchResults(filtered), nil
}

// Reset 删除并重建集合，丢弃全部记录；需要显式开启allow_reset
func (g *Gateway) Reset(ctx context.Context, collection string) error {
	if !g.allowReset {
		return apperrors.Newf(apperrors.ErrCodeResetForbidden, "reset of collection %s is not allowed", collection)
	}
	if err := g.store.Drop(ctx, collection); err != nil {
		return err
	}
	g.logger.Warn("集合已重置", zap.String("collection", collection))
	return nil
}

// Ready 检查底层存储可用性
func (g *Gateway) Ready() bool {
	return g.store.Ready()
}

// toSearchResults 距离转相似度并保持降序
func toSearchResults(matches []Match) []SearchResult {
	results := make([]SearchResult, 0, len(matches))
	for _, match := range matches {
		results = append(results, SearchResult{
			ID:         match.ID,
			Metadata:   match.Metadata,
			Similarity: roundSimilarity(1 - match.Distance/2),
		})
	}
	return results
}

func roundSimilarity(value float64) float64 {
	return math.Round(value*10000) / 10000
}
