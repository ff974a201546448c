package intent

import (
	"context"
	"math"
	"sort"
	gosync "sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/dearhome/assistant-go/internal/embedding"
	"github.com/dearhome/assistant-go/internal/metrics"
)

// Unknown 置信度不足时的兜底意图
const Unknown = "unknown"

// LabeledExample 带标签的示例话术及其向量
type LabeledExample struct {
	Tag    string
	Text   string
	Vector []float32
}

// Options 分类器参数
type Options struct {
	K           int     // 近邻数量，默认3
	Threshold   float64 // 置信度阈值，默认0.5
	MaxParallel int     // 语料嵌入并发度，默认4
}

// Classifier 基于KNN+余弦相似度的意图分类器。
// 非学习型：语料启动时嵌入一次，之后对每个查询做全量扫描。
type Classifier struct {
	embedder  embedding.Embedder
	examples  []LabeledExample
	k         int
	threshold float64
	logger    *zap.Logger
}

// NewClassifier 创建分类器并嵌入语料。
// 语料嵌入在ants工作池上并发执行，任何一条失败都会使启动失败。
func NewClassifier(ctx context.Context, embedder embedding.Embedder, corpus map[string][]string, opts Options, logger *zap.Logger) (*Classifier, error) {
	if opts.K <= 0 {
		opts.K = 3
	}
	if opts.Threshold <= 0 {
		opts.Threshold = 0.5
	}
	if opts.MaxParallel <= 0 {
		opts.MaxParallel = 4
	}

	// 标签排序保证语料顺序稳定，平票时的取先策略才可复现
	tags := make([]string, 0, len(corpus))
	for tag := range corpus {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	examples := make([]LabeledExample, 0)
	for _, tag := range tags {
		for _, text := range corpus[tag] {
			examples = append(examples, LabeledExample{Tag: tag, Text: text})
		}
	}

	pool, err := ants.NewPool(opts.MaxParallel)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	var wg gosync.WaitGroup
	var mu gosync.Mutex
	var firstErr error

	for i := range examples {
		i := i
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			vector, embedErr := embedder.Embed(ctx, examples[i].Text)
			if embedErr != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = embedErr
				}
				mu.Unlock()
				return
			}
			examples[i].Vector = vector
		}); err != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	logger.Info("意图语料嵌入完成",
		zap.Int("tags", len(tags)),
		zap.Int("examples", len(examples)))

	return &Classifier{
		embedder:  embedder,
		examples:  examples,
		k:         opts.K,
		threshold: opts.Threshold,
		logger:    logger.Named("intent-classifier"),
	}, nil
}

// Classify 返回查询的意图标签，嵌入失败或置信度不足时返回unknown
func (c *Classifier) Classify(ctx context.Context, query string) string {
	tag := c.classify(ctx, query)
	metrics.IntentDecisions.WithLabelValues(tag).Inc()
	return tag
}

func (c *Classifier) classify(ctx context.Context, query string) string {
	if len(c.examples) == 0 {
		return Unknown
	}

	queryVector, err := c.embedder.Embed(ctx, query)
	if err != nil {
		c.logger.Warn("查询嵌入失败，回退到unknown", zap.Error(err))
		return Unknown
	}

	type scored struct {
		tag        string
		similarity float64
	}
	all := make([]scored, 0, len(c.examples))
	for _, example := range c.examples {
		all = append(all, scored{
			tag:        example.Tag,
			similarity: cosineSimilarity(queryVector, example.Vector),
		})
	}

	// 稳定排序保证平票取先的策略可复现
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].similarity > all[j].similarity
	})

	k := c.k
	if k > len(all) {
		k = len(all)
	}
	topK := all[:k]

	// 多数投票，首见标签优先
	counts := make(map[string]int)
	order := make([]string, 0, k)
	for _, item := range topK {
		if _, seen := counts[item.tag]; !seen {
			order = append(order, item.tag)
		}
		counts[item.tag]++
	}

	best := ""
	bestCount := 0
	for _, tag := range order {
		if counts[tag] > bestCount {
			best = tag
			bestCount = counts[tag]
		}
	}
	if best == "" {
		return Unknown
	}

	voteFraction := float64(bestCount) / float64(k)

	var similaritySum float64
	for _, item := range topK {
		if item.tag == best {
			similaritySum += item.similarity
		}
	}
	avgSimilarity := similaritySum / float64(bestCount)

	confidence := (voteFraction + avgSimilarity) / 2
	if confidence < c.threshold {
		c.logger.Info("置信度不足，回退到unknown",
			zap.String("candidate", best),
			zap.Float64("confidence", confidence))
		return Unknown
	}

	c.logger.Debug("意图分类完成",
		zap.String("intent", best),
		zap.Float64("confidence", confidence))
	return best
}

// cosineSimilarity 余弦相似度，零向量相似度为0
func cosineSimilarity(a, b []float32) float64 {
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
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
