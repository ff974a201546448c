package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig
	Kafka       KafkaConfig
	Redis       RedisConfig
	VectorStore VectorStoreConfig
	Embedding   EmbeddingConfig
	AI          AIConfig
	Retry       RetryConfig
	Intent      IntentConfig
	Metrics     MetricsConfig
}

type ServerConfig struct {
	Env string
}

type KafkaConfig struct {
	Brokers []string
	GroupID string
	Enabled bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      int
	Enabled  bool
}

type VectorStoreConfig struct {
	Provider   string // milvus | memory
	AllowReset bool
	Milvus     MilvusConfig
}

type MilvusConfig struct {
	Address    string
	Username   string
	Password   string
	Database   string
	TLS        bool
	VectorSize int
	Distance   string
}

type EmbeddingConfig struct {
	Model       string
	CacheTTL    int // 秒，0表示不过期
	CacheEnable bool
}

type AIConfig struct {
	OpenAIAPIKey    string
	ExtractionModel string
	Temperature     float64
	MaxTokens       int
}

type RetryConfig struct {
	Attempts int
	Delay    time.Duration
}

type IntentConfig struct {
	K           int
	Threshold   float64
	MaxParallel int
}

type MetricsConfig struct {
	Port    string
	Enabled bool
}

var AppConfig *Config

// LoadConfig 加载配置（默认值 + 环境变量）
func LoadConfig() error {
	// 设置默认值
	viper.SetDefault("server.env", "development")
	viper.SetDefault("kafka.brokers", []string{"localhost:9092"})
	viper.SetDefault("kafka.group_id", "assistant-sync-group")
	viper.SetDefault("kafka.enabled", true)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", "6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.ttl", 300)
	viper.SetDefault("redis.enabled", true)
	viper.SetDefault("vector_store.provider", "memory")
	viper.SetDefault("vector_store.allow_reset", false)
	viper.SetDefault("vector_store.milvus.address", "localhost:19530")
	viper.SetDefault("vector_store.milvus.database", "default")
	viper.SetDefault("vector_store.milvus.tls", false)
	viper.SetDefault("vector_store.milvus.vector_size", 1536)
	viper.SetDefault("vector_store.milvus.distance", "cosine")
	viper.SetDefault("embedding.model", "text-embedding-3-small")
	viper.SetDefault("embedding.cache_ttl", 86400)
	viper.SetDefault("embedding.cache_enable", true)
	viper.SetDefault("ai.extraction_model", "gpt-4o-mini")
	viper.SetDefault("ai.temperature", 0.0)
	viper.SetDefault("ai.max_tokens", 512)
	viper.SetDefault("retry.attempts", 3)
	viper.SetDefault("retry.delay", "1s")
	viper.SetDefault("intent.k", 3)
	viper.SetDefault("intent.threshold", 0.5)
	viper.SetDefault("intent.max_parallel", 4)
	viper.SetDefault("metrics.port", "9102")
	viper.SetDefault("metrics.enabled", true)

	// 读取环境变量
	viper.SetEnvPrefix("ASSISTANT")
	viper.AutomaticEnv()

	if env := os.Getenv("ENV"); env != "" {
		viper.Set("server.env", env)
	}
	if kafkaBrokers := os.Getenv("KAFKA_BROKERS"); kafkaBrokers != "" {
		// 支持逗号分隔的broker列表
		brokers := strings.Split(kafkaBrokers, ",")
		for i := range brokers {
			brokers[i] = strings.TrimSpace(brokers[i])
		}
		viper.Set("kafka.brokers", brokers)
	}
	if kafkaGroupID := os.Getenv("KAFKA_GROUP_ID"); kafkaGroupID != "" {
		viper.Set("kafka.group_id", kafkaGroupID)
	}
	if kafkaEnabled := os.Getenv("KAFKA_ENABLED"); kafkaEnabled == "false" {
		viper.Set("kafka.enabled", false)
	}
	if redisHost := os.Getenv("REDIS_HOST"); redisHost != "" {
		viper.Set("redis.host", redisHost)
	}
	if redisPort := os.Getenv("REDIS_PORT"); redisPort != "" {
		viper.Set("redis.port", redisPort)
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		viper.Set("redis.password", redisPassword)
	}
	if redisEnabled := os.Getenv("REDIS_ENABLED"); redisEnabled == "false" {
		viper.Set("redis.enabled", false)
	}
	if provider := os.Getenv("VECTOR_STORE_PROVIDER"); provider != "" {
		viper.Set("vector_store.provider", provider)
	}
	if allowReset := os.Getenv("VECTOR_STORE_ALLOW_RESET"); allowReset == "true" {
		viper.Set("vector_store.allow_reset", true)
	}
	if milvusAddr := os.Getenv("MILVUS_ADDRESS"); milvusAddr != "" {
		viper.Set("vector_store.milvus.address", milvusAddr)
		viper.Set("vector_store.provider", "milvus")
	}
	if milvusUser := os.Getenv("MILVUS_USERNAME"); milvusUser != "" {
		viper.Set("vector_store.milvus.username", milvusUser)
	}
	if milvusPassword := os.Getenv("MILVUS_PASSWORD"); milvusPassword != "" {
		viper.Set("vector_store.milvus.password", milvusPassword)
	}
	if openaiKey := os.Getenv("OPENAI_API_KEY"); openaiKey != "" {
		viper.Set("ai.openai_api_key", openaiKey)
	}
	if model := os.Getenv("EMBEDDING_MODEL"); model != "" {
		viper.Set("embedding.model", model)
	}
	if model := os.Getenv("EXTRACTION_MODEL"); model != "" {
		viper.Set("ai.extraction_model", model)
	}
	if metricsPort := os.Getenv("METRICS_PORT"); metricsPort != "" {
		viper.Set("metrics.port", metricsPort)
	}
	if metricsEnabled := os.Getenv("METRICS_ENABLED"); metricsEnabled == "false" {
		viper.Set("metrics.enabled", false)
	}

	retryDelay, err := time.ParseDuration(viper.GetString("retry.delay"))
	if err != nil {
		return fmt.Errorf("解析retry.delay失败: %w", err)
	}

	AppConfig = &Config{
		Server: ServerConfig{
			Env: viper.GetString("server.env"),
		},
		Kafka: KafkaConfig{
			Brokers: viper.GetStringSlice("kafka.brokers"),
			GroupID: viper.GetString("kafka.group_id"),
			Enabled: viper.GetBool("kafka.enabled"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("redis.host"),
			Port:     viper.GetString("redis.port"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
			TTL:      viper.GetInt("redis.ttl"),
			Enabled:  viper.GetBool("redis.enabled"),
		},
		VectorStore: VectorStoreConfig{
			Provider:   viper.GetString("vector_store.provider"),
			AllowReset: viper.GetBool("vector_store.allow_reset"),
			Milvus: MilvusConfig{
				Address:    viper.GetString("vector_store.milvus.address"),
				Username:   viper.GetString("vector_store.milvus.username"),
				Password:   viper.GetString("vector_store.milvus.password"),
				Database:   viper.GetString("vector_store.milvus.database"),
				TLS:        viper.GetBool("vector_store.milvus.tls"),
				VectorSize: viper.GetInt("vector_store.milvus.vector_size"),
				Distance:   viper.GetString("vector_store.milvus.distance"),
			},
		},
		Embedding: EmbeddingConfig{
			Model:       viper.GetString("embedding.model"),
			CacheTTL:    viper.GetInt("embedding.cache_ttl"),
			CacheEnable: viper.GetBool("embedding.cache_enable"),
		},
		AI: AIConfig{
			OpenAIAPIKey:    viper.GetString("ai.openai_api_key"),
			ExtractionModel: viper.GetString("ai.extraction_model"),
			Temperature:     viper.GetFloat64("ai.temperature"),
			MaxTokens:       viper.GetInt("ai.max_tokens"),
		},
		Retry: RetryConfig{
			Attempts: viper.GetInt("retry.attempts"),
			Delay:    retryDelay,
		},
		Intent: IntentConfig{
			K:           viper.GetInt("intent.k"),
			Threshold:   viper.GetFloat64("intent.threshold"),
			MaxParallel: viper.GetInt("intent.max_parallel"),
		},
		Metrics: MetricsConfig{
			Port:    viper.GetString("metrics.port"),
			Enabled: viper.GetBool("metrics.enabled"),
		},
	}

	return nil
}

// GetAppConfig 获取全局配置实例
func GetAppConfig() *Config {
	return AppConfig
}
