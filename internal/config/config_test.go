package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	require.NoError(t, LoadConfig())
	cfg := GetAppConfig()
	require.NotNil(t, cfg)

	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "assistant-sync-group", cfg.Kafka.GroupID)
	assert.True(t, cfg.Kafka.Enabled)

	assert.Equal(t, "memory", cfg.VectorStore.Provider)
	assert.False(t, cfg.VectorStore.AllowReset)
	assert.Equal(t, 1536, cfg.VectorStore.Milvus.VectorSize)
	assert.Equal(t, "cosine", cfg.VectorStore.Milvus.Distance)

	assert.Equal(t, "text-embedding-3-small", cfg.Embedding.Model)
	assert.Equal(t, "gpt-4o-mini", cfg.AI.ExtractionModel)

	assert.Equal(t, 3, cfg.Retry.Attempts)
	assert.Equal(t, time.Second, cfg.Retry.Delay)

	assert.Equal(t, 3, cfg.Intent.K)
	assert.Equal(t, 0.5, cfg.Intent.Threshold)

	assert.Equal(t, "9102", cfg.Metrics.Port)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_GROUP_ID", "custom-group")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	require.NoError(t, LoadConfig())
	cfg := GetAppConfig()

	// 逗号分隔的broker列表会去掉空白
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "custom-group", cfg.Kafka.GroupID)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "sk-test", cfg.AI.OpenAIAPIKey)
}

func TestLoadConfig_MilvusAddressSwitchesProvider(t *testing.T) {
	t.Setenv("MILVUS_ADDRESS", "milvus.internal:19530")

	require.NoError(t, LoadConfig())
	cfg := GetAppConfig()

	assert.Equal(t, "milvus", cfg.VectorStore.Provider)
	assert.Equal(t, "milvus.internal:19530", cfg.VectorStore.Milvus.Address)
}
