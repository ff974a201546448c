package vectorstore

import (
	"context"
	"math"
	"sort"
	"sync"
)

// memoryVectorStore 进程内全扫描实现，默认provider，也用于测试
type memoryVectorStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]Entry
}

// NewMemoryVectorStore 创建内存向量存储
func NewMemoryVectorStore() VectorStore {
	return &memoryVectorStore{
		collections: make(map[string]map[string]Entry),
	}
}

func (s *memoryVectorStore) Upsert(ctx context.Context, collection, id string, vector []float32, metadata map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, ok := s.collections[collection]
	if !ok {
		entries = make(map[string]Entry)
		s.collections[collection] = entries
	}

	vectorCopy := make([]float32, len(vector))
	copy(vectorCopy, vector)

	entries[id] = Entry{
		ID:       id,
		Metadata: metadata,
		Vector:   vectorCopy,
	}
	return nil
}

func (s *memoryVectorStore) Delete(ctx context.Context, collection string, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, ok := s.collections[collection]
	if !ok {
		return nil
	}
	for _, id := range ids {
		delete(entries, id)
	}
	return nil
}

func (s *memoryVectorStore) Query(ctx context.Context, collection string, vector []float32, limit int) ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.collections[collection]
	if len(entries) == 0 {
		return []Match{}, nil
	}

	matches := make([]Match, 0, len(entries))
	for _, entry := range entries {
		matches = append(matches, Match{
			ID:       entry.ID,
			Metadata: copyMetadata(entry.Metadata),
			Distance: cosineDistance(vector, entry.Vector),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (s *memoryVectorStore) Get(ctx context.Context, collection, id string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, ok := s.collections[collection]
	if !ok {
		return nil, nil
	}
	entry, ok := entries[id]
	if !ok {
		return nil, nil
	}

	vectorCopy := make([]float32, len(entry.Vector))
	copy(vectorCopy, entry.Vector)
	return &Entry{ID: entry.ID, Metadata: copyMetadata(entry.Metadata), Vector: vectorCopy}, nil
}

// copyMetadata 读取路径返回元数据副本，调用方的修改不能落回索引
func copyMetadata(metadata map[string]interface{}) map[string]interface{} {
	if metadata == nil {
		return nil
	}
	cloned := make(map[string]interface{}, len(metadata))
	for k, v := range metadata {
		cloned[k] = v
	}
	return cloned
}

func (s *memoryVectorStore) Drop(ctx context.Context, collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections, collection)
	return nil
}

func (s *memoryVectorStore) Ready() bool {
	return true
}

// cosineDistance 余弦距离，范围[0, 2]
func cosineDistance(a, b []float32) float64 {
	var dot, normA, normB float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
