package di

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/dearhome/assistant-go/internal/chat"
	"github.com/dearhome/assistant-go/internal/config"
	"github.com/dearhome/assistant-go/internal/embedding"
	"github.com/dearhome/assistant-go/internal/handlers"
	"github.com/dearhome/assistant-go/internal/intent"
	"github.com/dearhome/assistant-go/internal/logger"
	"github.com/dearhome/assistant-go/internal/sync"
	"github.com/dearhome/assistant-go/internal/vectorstore"
)

// RegisterProviders 注册所有依赖提供者
func RegisterProviders(container *dig.Container) error {
	providers := []interface{}{
		func() (*config.Config, error) {
			cfg := config.GetAppConfig()
			if cfg == nil {
				return nil, fmt.Errorf("配置未加载")
			}
			return cfg, nil
		},
		func() *zap.Logger {
			return logger.GetLogger()
		},
		newRedisClient,
		newEmbedder,
		newVectorStore,
		newGateway,
		sync.NewVariantService,
		sync.NewProductService,
		sync.NewPromotionService,
		sync.NewOrderService,
		newAckJournal,
		newClassifier,
		newCompleter,
		chat.NewExtractor,
		newDispatcher,
		newChatbot,
	}

	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return err
		}
	}
	return nil
}

// newRedisClient 创建Redis客户端，未启用或连接失败时返回nil，调用方按可选依赖处理
func newRedisClient(cfg *config.Config, log *zap.Logger) *redis.Client {
	if !cfg.Redis.Enabled {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("Redis连接失败，缓存与应答日志降级为关闭", zap.Error(err))
		_ = rdb.Close()
		return nil
	}
	return rdb
}

func newEmbedder(cfg *config.Config, rdb *redis.Client, log *zap.Logger) embedding.Embedder {
	base := embedding.NewOpenAIEmbedder(cfg.AI.OpenAIAPIKey, cfg.Embedding.Model)
	if !cfg.Embedding.CacheEnable || rdb == nil {
		return base
	}
	ttl := time.Duration(cfg.Embedding.CacheTTL) * time.Second
	return embedding.NewCachedEmbedder(base, rdb, cfg.Embedding.Model, ttl, log)
}

func newVectorStore(cfg *config.Config, log *zap.Logger) (vectorstore.VectorStore, error) {
	if cfg.VectorStore.Provider == "milvus" {
		store, err := vectorstore.NewMilvusVectorStore(vectorstore.MilvusOptions{
			Address:    cfg.VectorStore.Milvus.Address,
			Username:   cfg.VectorStore.Milvus.Username,
			Password:   cfg.VectorStore.Milvus.Password,
			Database:   cfg.VectorStore.Milvus.Database,
			VectorSize: cfg.VectorStore.Milvus.VectorSize,
			UseTLS:     cfg.VectorStore.Milvus.TLS,
		})
		if err != nil {
			return nil, fmt.Errorf("初始化Milvus向量存储失败: %w", err)
		}
		log.Info("向量存储已就绪", zap.String("provider", "milvus"),
			zap.String("address", cfg.VectorStore.Milvus.Address))
		return store, nil
	}

	log.Info("向量存储已就绪", zap.String("provider", "memory"))
	return vectorstore.NewMemoryVectorStore(), nil
}

func newGateway(cfg *config.Config, store vectorstore.VectorStore, embedder embedding.Embedder, log *zap.Logger) *vectorstore.Gateway {
	retry := vectorstore.RetryPolicy{
		Attempts: cfg.Retry.Attempts,
		Delay:    cfg.Retry.Delay,
	}
	return vectorstore.NewGateway(store, embedder, retry, cfg.VectorStore.AllowReset, log)
}

func newAckJournal(cfg *config.Config, rdb *redis.Client, log *zap.Logger) *handlers.AckJournal {
	ttl := time.Duration(cfg.Redis.TTL) * time.Second
	return handlers.NewAckJournal(rdb, ttl, log)
}

func newClassifier(cfg *config.Config, embedder embedding.Embedder, log *zap.Logger) (*intent.Classifier, error) {
	corpus := intent.DefaultCorpus
	if !embedder.Ready() {
		// 没有嵌入服务时跳过语料嵌入，分类结果恒为unknown
		log.Warn("嵌入服务不可用，意图分类降级为unknown")
		corpus = nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	return intent.NewClassifier(ctx, embedder, corpus, intent.Options{
		K:           cfg.Intent.K,
		Threshold:   cfg.Intent.Threshold,
		MaxParallel: cfg.Intent.MaxParallel,
	}, log)
}

func newCompleter(cfg *config.Config) chat.Completer {
	return chat.NewOpenAICompleter(
		cfg.AI.OpenAIAPIKey,
		cfg.AI.ExtractionModel,
		cfg.AI.Temperature,
		cfg.AI.MaxTokens,
	)
}

func newDispatcher(variants *sync.VariantService, promotions *sync.PromotionService, orders *sync.OrderService, log *zap.Logger) *chat.Dispatcher {
	return chat.NewDispatcher(variants, promotions, orders, log)
}

func newChatbot(classifier *intent.Classifier, extractor *chat.Extractor, dispatcher *chat.Dispatcher, log *zap.Logger) *chat.Chatbot {
	return chat.NewChatbot(classifier, extractor, dispatcher, chat.JSONResponder{}, log)
}
