package handlers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const journalPrefix = "ack:pending:"

// pendingAck 待补发的确认事件
type pendingAck struct {
	Topic   string          `json:"topic"`
	ID      string          `json:"id"`
	Payload json.RawMessage `json:"payload"`
}

// AckJournal 基于Redis的确认补偿日志。
// 索引写入和确认发布之间没有事务耦合，进程在两者之间被杀死时，
// 重启后用日志里遗留的记录补发确认。Redis不可用时退化为纯日志告警。
type AckJournal struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewAckJournal 创建确认补偿日志，rdb为nil时所有操作为空操作
func NewAckJournal(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *AckJournal {
	return &AckJournal{
		rdb:    rdb,
		ttl:    ttl,
		logger: logger.Named("ack-journal"),
	}
}

func (j *AckJournal) key(topic, id string) string {
	return journalPrefix + topic + ":" + id
}

// Record 在索引写入成功后、确认发布前记录待发确认
func (j *AckJournal) Record(ctx context.Context, topic, id string, payload []byte) {
	if j == nil || j.rdb == nil {
		return
	}

	entry, err := json.Marshal(pendingAck{Topic: topic, ID: id, Payload: payload})
	if err != nil {
		return
	}
	if err := j.rdb.Set(ctx, j.key(topic, id), entry, j.ttl).Err(); err != nil {
		j.logger.Warn("记录待发确认失败", zap.String("topic", topic), zap.String("id", id), zap.Error(err))
	}
}

// Clear 确认发布成功后清除记录
func (j *AckJournal) Clear(ctx context.Context, topic, id string) {
	if j == nil || j.rdb == nil {
		return
	}
	if err := j.rdb.Del(ctx, j.key(topic, id)).Err(); err != nil {
		j.logger.Warn("清除待发确认失败", zap.String("topic", topic), zap.String("id", id), zap.Error(err))
	}
}

// Replay 启动时补发所有遗留的确认事件，返回补发数量
func (j *AckJournal) Replay(ctx context.Context, publish func(topic, key string, payload []byte) error) int {
	if j == nil || j.rdb == nil {
		return 0
	}

	replayed := 0
	iter := j.rdb.Scan(ctx, 0, journalPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		data, err := j.rdb.Get(ctx, key).Bytes()
		if err != nil {
			continue
		}

		var entry pendingAck
		if err := json.Unmarshal(data, &entry); err != nil {
			j.rdb.Del(ctx, key)
			continue
		}

		if err := publish(entry.Topic, entry.ID, entry.Payload); err != nil {
			j.logger.Error("补发确认事件失败",
				zap.String("topic", entry.Topic),
				zap.String("id", entry.ID),
				zap.Error(err))
			continue
		}

		j.rdb.Del(ctx, key)
		replayed++
		j.logger.Info("已补发确认事件", zap.String("topic", entry.Topic), zap.String("id", entry.ID))
	}
	if err := iter.Err(); err != nil {
		j.logger.Warn("扫描待发确认失败", zap.Error(err))
	}

	return replayed
}
