package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"github.com/dearhome/assistant-go/internal/apperrors"
	"github.com/dearhome/assistant-go/internal/logger"
	"go.uber.org/zap"
)

// MilvusOptions Milvus客户端配置
type MilvusOptions struct {
	Address    string
	Username   string
	Password   string
	Database   string
	VectorSize int
	UseTLS     bool
	Timeout    time.Duration
}

type milvusVectorStore struct {
	milvusClient client.Client
	vectorSize   int

	// 集合惰性创建后按名缓存
	mu      sync.Mutex
	ensured map[string]bool
}

// NewMilvusVectorStore 创建Milvus向量存储
func NewMilvusVectorStore(opts MilvusOptions) (VectorStore, error) {
	if opts.Address == "" {
		opts.Address = "localhost:19530"
	}
	if opts.VectorSize == 0 {
		opts.VectorSize = 1536
	}
	if opts.Database == "" {
		opts.Database = "default"
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	milvusClient, err := client.NewClient(ctx, client.Config{
		Address:       opts.Address,
		DBName:        opts.Database,
		Username:      opts.Username,
		Password:      opts.Password,
		EnableTLSAuth: opts.UseTLS,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeConnectionFailed, "failed to create milvus client", err)
	}

	return &milvusVectorStore{
		milvusClient: milvusClient,
		vectorSize:   opts.VectorSize,
		ensured:      make(map[string]bool),
	}, nil
}

func (s *milvusVectorStore) ensureCollection(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ensured[name] {
		return nil
	}

	hasCollection, err := s.milvusClient.HasCollection(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if !hasCollection {
		schema := &entity.Schema{
			CollectionName: name,
			Description:    fmt.Sprintf("Entity index for %s", name),
			Fields: []*entity.Field{
				{
					Name:       "id",
					DataType:   entity.FieldTypeVarChar,
					PrimaryKey: true,
					AutoID:     false,
					TypeParams: map[string]string{
						"max_length": "256",
					},
				},
				{
					Name:     "metadata",
					DataType: entity.FieldTypeVarChar,
					TypeParams: map[string]string{
						"max_length": "65535",
					},
				},
				{
					Name:     "vector",
					DataType: entity.FieldTypeFloatVector,
					TypeParams: map[string]string{
						"dim": fmt.Sprintf("%d", s.vectorSize),
					},
				},
			},
		}

		if err := s.milvusClient.CreateCollection(ctx, schema, entity.DefaultShardNumber); err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}

		var index entity.Index
		var indexErr error
		index, indexErr = entity.NewIndexHNSW(entity.COSINE, 8, 64)
		if indexErr != nil {
			// HNSW不可用时退回IVF_FLAT
			index, indexErr = entity.NewIndexIvfFlat(entity.COSINE, 128)
			if indexErr != nil {
				return fmt.Errorf("failed to create index: %w", indexErr)
			}
		}
		if err := s.milvusClient.CreateIndex(ctx, name, "vector", index, false); err != nil {
			logger.Warn("创建向量索引失败", zap.String("collection", name), zap.Error(err))
		}
	}

	if err := s.milvusClient.LoadCollection(ctx, name, false); err != nil {
		return fmt.Errorf("failed to load collection: %w", err)
	}

	s.ensured[name] = true
	return nil
}

func (s *milvusVectorStore) Upsert(ctx context.Context, collection, id string, vector []float32, metadata map[string]interface{}) error {
	if len(vector) == 0 {
		return apperrors.New(apperrors.ErrCodeUpdateFailed, "embedding is empty")
	}
	if len(vector) > s.vectorSize {
		// 截断会静默丢维度，超长向量直接拒绝
		return apperrors.Newf(apperrors.ErrCodeUpdateFailed,
			"embedding dimension %d exceeds collection dimension %d", len(vector), s.vectorSize)
	}
	if len(vector) < s.vectorSize {
		padded := make([]float32, s.vectorSize)
		copy(padded, vector)
		vector = padded
	}

	if err := s.ensureCollection(ctx, collection); err != nil {
		return err
	}

	encoded, err := json.Marshal(metadata)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeUpdateFailed, "failed to encode metadata", err)
	}

	idColumn := entity.NewColumnVarChar("id", []string{id})
	metadataColumn := entity.NewColumnVarChar("metadata", []string{string(encoded)})
	vectorColumn := entity.NewColumnFloatVector("vector", s.vectorSize, [][]float32{vector})

	if _, err := s.milvusClient.Upsert(ctx, collection, "", idColumn, metadataColumn, vectorColumn); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeUpdateFailed, "milvus upsert failed", err)
	}

	if err := s.milvusClient.Flush(ctx, collection, false); err != nil {
		logger.Warn("刷新集合失败", zap.String("collection", collection), zap.Error(err))
	}

	return nil
}

func (s *milvusVectorStore) Delete(ctx context.Context, collection string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.ensureCollection(ctx, collection); err != nil {
		return err
	}

	expr := fmt.Sprintf("id in %s", quoteList(ids))
	if err := s.milvusClient.Delete(ctx, collection, "", expr); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeUpdateFailed, "milvus delete failed", err)
	}

	if err := s.milvusClient.Flush(ctx, collection, false); err != nil {
		logger.Warn("删除后刷新集合失败", zap.String("collection", collection), zap.Error(err))
	}
	return nil
}

func quoteList(ids []string) string {
	encoded, _ := json.Marshal(ids)
	return string(encoded)
}

func (s *milvusVectorStore) Query(ctx context.Context, collection string, vector []float32, limit int) ([]Match, error) {
	if len(vector) == 0 {
		return []Match{}, nil
	}
	if err := s.ensureCollection(ctx, collection); err != nil {
		return nil, err
	}
	if limit == 0 {
		limit = 10
	}

	sp, _ := entity.NewIndexHNSWSearchParam(64)
	searchResults, err := s.milvusClient.Search(
		ctx,
		collection,
		[]string{},
		"",
		[]string{"metadata"},
		[]entity.Vector{entity.FloatVector(vector)},
		"vector",
		entity.COSINE,
		limit,
		sp,
	)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeQueryFailed, "milvus search failed", err)
	}

	if len(searchResults) == 0 {
		return []Match{}, nil
	}
	result := searchResults[0]
	if result.Err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeQueryFailed, "milvus search error", result.Err)
	}
	if result.ResultCount == 0 {
		return []Match{}, nil
	}

	var ids []string
	if idCol, ok := result.IDs.(*entity.ColumnVarChar); ok {
		ids = idCol.Data()
	}

	var metadatas []string
	for _, field := range result.Fields {
		if field.Name() == "metadata" {
			if col, ok := field.(*entity.ColumnVarChar); ok {
				metadatas = col.Data()
			}
		}
	}

	matches := make([]Match, 0, result.ResultCount)
	for i := 0; i < result.ResultCount; i++ {
		match := Match{}
		if i < len(ids) {
			match.ID = ids[i]
		}
		if i < len(metadatas) {
			metadata := make(map[string]interface{})
			if err := json.Unmarshal([]byte(metadatas[i]), &metadata); err == nil {
				match.Metadata = metadata
			}
		}
		if i < len(result.Scores) {
			// COSINE度量下score即余弦相似度
			match.Distance = 1 - float64(result.Scores[i])
		}
		matches = append(matches, match)
	}

	return matches, nil
}

func (s *milvusVectorStore) Get(ctx context.Context, collection, id string) (*Entry, error) {
	if err := s.ensureCollection(ctx, collection); err != nil {
		return nil, err
	}

	expr := fmt.Sprintf(`id == "%s"`, id)
	resultSet, err := s.milvusClient.Query(ctx, collection, nil, expr, []string{"id", "metadata", "vector"})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeQueryFailed, "milvus query failed", err)
	}

	entry := &Entry{}
	found := false
	for _, column := range resultSet {
		switch column.Name() {
		case "id":
			if col, ok := column.(*entity.ColumnVarChar); ok && len(col.Data()) > 0 {
				entry.ID = col.Data()[0]
				found = true
			}
		case "metadata":
			if col, ok := column.(*entity.ColumnVarChar); ok && len(col.Data()) > 0 {
				metadata := make(map[string]interface{})
				if err := json.Unmarshal([]byte(col.Data()[0]), &metadata); err == nil {
					entry.Metadata = metadata
				}
			}
		case "vector":
			if col, ok := column.(*entity.ColumnFloatVector); ok && len(col.Data()) > 0 {
				entry.Vector = col.Data()[0]
			}
		}
	}

	if !found {
		return nil, nil
	}
	return entry, nil
}

func (s *milvusVectorStore) Drop(ctx context.Context, collection string) error {
	hasCollection, err := s.milvusClient.HasCollection(ctx, collection)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if hasCollection {
		if err := s.milvusClient.DropCollection(ctx, collection); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeUpdateFailed, "milvus drop failed", err)
		}
	}

	s.mu.Lock()
	delete(s.ensured, collection)
	s.mu.Unlock()
	return nil
}

func (s *milvusVectorStore) Ready() bool {
	if s.milvusClient == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := s.milvusClient.ListCollections(ctx)
	return err == nil
}
