package vectorstore

import "context"

// Entry 索引中的一条记录
type Entry struct {
	ID       string
	Metadata map[string]interface{}
	Vector   []float32
}

// Match 原始检索命中，Distance为余弦距离（0-2）
type Match struct {
	ID       string
	Metadata map[string]interface{}
	Distance float64
}

// VectorStore 向量存储抽象，按集合名划分实体类型
type VectorStore interface {
	Upsert(ctx context.Context, collection, id string, vector []float32, metadata map[string]interface{}) error
	Delete(ctx context.Context, collection string, ids []string) error
	Query(ctx context.Context, collection string, vector []float32, limit int) ([]Match, error)
	Get(ctx context.Context, collection, id string) (*Entry, error)
	Drop(ctx context.Context, collection string) error
	Ready() bool
}
