package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CachedEmbedder 使用Redis缓存嵌入向量。
// 嵌入对相同输入是确定的，所以按(模型, 文本)哈希缓存是安全的。
// 缓存故障只记录日志，不影响嵌入调用。
type CachedEmbedder struct {
	inner  Embedder
	rdb    *redis.Client
	model  string
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedEmbedder 创建带Redis缓存的嵌入器
func NewCachedEmbedder(inner Embedder, rdb *redis.Client, model string, ttl time.Duration, logger *zap.Logger) Embedder {
	if rdb == nil {
		return inner
	}
	return &CachedEmbedder{
		inner:  inner,
		rdb:    rdb,
		model:  model,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *CachedEmbedder) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(c.model + "\x00" + text))
	return "embedding:" + hex.EncodeToString(sum[:])
}

func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := c.cacheKey(text)

	if data, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var vector []float32
		if err := json.Unmarshal(data, &vector); err == nil && len(vector) > 0 {
			return vector, nil
		}
		// 缓存内容损坏，删掉后回源
		c.rdb.Del(ctx, key)
	} else if err != redis.Nil {
		c.logger.Warn("读取嵌入缓存失败", zap.Error(err))
	}

	vector, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(vector); err == nil {
		if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn("写入嵌入缓存失败", zap.Error(err))
		}
	}

	return vector, nil
}

func (c *CachedEmbedder) Dimensions() int {
	return c.inner.Dimensions()
}

func (c *CachedEmbedder) Ready() bool {
	return c.inner.Ready()
}
