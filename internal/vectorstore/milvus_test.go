package vectorstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dearhome/assistant-go/internal/apperrors"
)

// 维度校验在任何网络调用之前执行，可以不连Milvus直接测

func TestMilvusUpsert_RejectsOversizedVector(t *testing.T) {
	store := &milvusVectorStore{vectorSize: 4, ensured: make(map[string]bool)}

	err := store.Upsert(context.Background(), "variants", "v1", []float32{1, 2, 3, 4, 5}, nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeUpdateFailed, apperrors.CodeOf(err))
	assert.Contains(t, err.Error(), "dimension")
}

func TestMilvusUpsert_RejectsEmptyVector(t *testing.T) {
	store := &milvusVectorStore{vectorSize: 4, ensured: make(map[string]bool)}

	err := store.Upsert(context.Background(), "variants", "v1", nil, nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeUpdateFailed, apperrors.CodeOf(err))
}
