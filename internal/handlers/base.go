package handlers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dearhome/assistant-go/internal/metrics"
)

// Publisher 确认事件发布边界，由kafka.Producer实现
type Publisher interface {
	Publish(topic, key string, payload []byte) error
}

// changeEnvelope 变更事件的最小校验外壳
type changeEnvelope struct {
	ID string `json:"id" validate:"required"`
}

// baseHandler 各实体同步处理器的公共部分。
// 每个事件走 received → validated → applied → acknowledged，
// 处理中的任何错误都转为失败确认，不会让订阅循环崩溃。
type baseHandler struct {
	entity    string
	idKey     string
	publisher Publisher
	journal   *AckJournal
	validate  *validator.Validate
	logger    *zap.Logger
}

func newBaseHandler(entity, idKey string, publisher Publisher, journal *AckJournal, logger *zap.Logger) baseHandler {
	return baseHandler{
		entity:    entity,
		idKey:     idKey,
		publisher: publisher,
		journal:   journal,
		validate:  validator.New(),
		logger:    logger.Named(entity + "-sync"),
	}
}

// decodePayload 解析事件载荷并校验id。
// id缺失时返回envelope错误：事件被丢弃且不发确认（与参考行为一致）。
func (b *baseHandler) decodePayload(data []byte) (map[string]interface{}, string, error) {
	payload := make(map[string]interface{})
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, "", err
	}

	envelope := changeEnvelope{}
	if id, ok := payload["id"]; ok && id != nil {
		envelope.ID = toString(id)
	}
	if err := b.validate.Struct(&envelope); err != nil {
		return nil, "", err
	}

	return payload, envelope.ID, nil
}

func toString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		// JSON数字id转为不带小数的字符串
		encoded, _ := json.Marshal(v)
		return string(encoded)
	default:
		encoded, _ := json.Marshal(v)
		return string(encoded)
	}
}

// acknowledge 发布确认事件，成功确认先写入日志补偿记录
func (b *baseHandler) acknowledge(ctx context.Context, op, id string, extra map[string]interface{}, procErr error) {
	topic := b.entity + "." + op + ".ack"

	ack := map[string]interface{}{
		"success":   procErr == nil,
		"timestamp": time.Now().Format(time.RFC3339),
	}
	if id != "" {
		ack[b.idKey] = id
	}
	if procErr != nil {
		ack["error"] = procErr.Error()
	}
	for k, v := range extra {
		ack[k] = v
	}

	payload, err := json.Marshal(ack)
	if err != nil {
		b.logger.Error("序列化确认事件失败", zap.Error(err))
		return
	}

	outcome := "success"
	if procErr != nil {
		outcome = "failure"
	}
	metrics.EventsProcessed.WithLabelValues(b.entity, op, outcome).Inc()

	// 写入成功后、确认发出前的空档由日志补偿：重启时重发
	if procErr == nil {
		b.journal.Record(ctx, topic, id, payload)
	}

	if err := b.publisher.Publish(topic, id, payload); err != nil {
		b.logger.Error("发布确认事件失败",
			zap.String("topic", topic),
			zap.String("id", id),
			zap.Error(err))
		metrics.AcksPublished.WithLabelValues(topic, "false").Inc()
		return
	}

	metrics.AcksPublished.WithLabelValues(topic, "true").Inc()
	if procErr == nil {
		b.journal.Clear(ctx, topic, id)
	}
}

// dropInvalid 校验失败时丢弃事件
func (b *baseHandler) dropInvalid(op string, err error) {
	b.logger.Error("事件缺少有效id，已丢弃",
		zap.String("entity", b.entity),
		zap.String("operation", op),
		zap.Error(err))
	metrics.EventsProcessed.WithLabelValues(b.entity, op, "dropped").Inc()
}
