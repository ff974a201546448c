package handlers

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/dearhome/assistant-go/internal/kafka"
	"github.com/dearhome/assistant-go/internal/sync"
)

// OrderSyncHandler 订阅订单变更事件并维护订单索引。
// 订单额外处理status_changed事件。
type OrderSyncHandler struct {
	baseHandler
	service *sync.OrderService
}

// NewOrderSyncHandler 创建订单同步处理器
func NewOrderSyncHandler(service *sync.OrderService, publisher Publisher, journal *AckJournal, logger *zap.Logger) *OrderSyncHandler {
	return &OrderSyncHandler{
		baseHandler: newBaseHandler("order", "order_id", publisher, journal, logger),
		service:     service,
	}
}

// Register 注册订单相关主题
func (h *OrderSyncHandler) Register(consumer *kafka.Consumer) {
	consumer.RegisterHandler(kafka.ChangeTopic("order", kafka.OpCreated), h.handleCreated)
	consumer.RegisterHandler(kafka.ChangeTopic("order", kafka.OpUpdated), h.handleUpdated)
	consumer.RegisterHandler(kafka.ChangeTopic("order", kafka.OpDeleted), h.handleDeleted)
	consumer.RegisterHandler(kafka.ChangeTopic("order", kafka.OpStatusChanged), h.handleStatusChanged)
	h.logger.Info("订单同步处理器已注册全部主题")
}

func (h *OrderSyncHandler) handleCreated(ctx context.Context, msg *sarama.ConsumerMessage) error {
	h.logger.Info("收到订单创建事件", zap.Int64("offset", msg.Offset))

	// 订单创建事件的载荷嵌套在result键下（上游系统的约定）
	envelope := struct {
		Result json.RawMessage `json:"result"`
	}{}
	data := msg.Value
	if err := json.Unmarshal(msg.Value, &envelope); err == nil && len(envelope.Result) > 0 {
		data = envelope.Result
	}

	payload, id, err := h.decodePayload(data)
	if err != nil {
		h.dropInvalid(kafka.OpCreated, err)
		return nil
	}

	err = h.service.Create(ctx, payload)
	h.acknowledge(ctx, kafka.OpCreated, id, nil, err)
	return nil
}

func (h *OrderSyncHandler) handleUpdated(ctx context.Context, msg *sarama.ConsumerMessage) error {
	h.logger.Info("收到订单更新事件", zap.Int64("offset", msg.Offset))

	payload, id, err := h.decodePayload(msg.Value)
	if err != nil {
		h.dropInvalid(kafka.OpUpdated, err)
		return nil
	}

	err = h.service.Update(ctx, id, payload)
	h.acknowledge(ctx, kafka.OpUpdated, id, nil, err)
	return nil
}

func (h *OrderSyncHandler) handleDeleted(ctx context.Context, msg *sarama.ConsumerMessage) error {
	h.logger.Info("收到订单删除事件", zap.Int64("offset", msg.Offset))

	_, id, err := h.decodePayload(msg.Value)
	if err != nil {
		h.dropInvalid(kafka.OpDeleted, err)
		return nil
	}

	err = h.service.Delete(ctx, id)
	h.acknowledge(ctx, kafka.OpDeleted, id, nil, err)
	return nil
}

func (h *OrderSyncHandler) handleStatusChanged(ctx context.Context, msg *sarama.ConsumerMessage) error {
	h.logger.Info("收到订单状态变更事件", zap.Int64("offset", msg.Offset))

	payload, id, err := h.decodePayload(msg.Value)
	if err != nil {
		h.dropInvalid(kafka.OpStatusChanged, err)
		return nil
	}

	status, _ := payload["status"].(string)
	statusData, _ := payload["status_data"].(map[string]interface{})

	err = h.service.UpdateStatus(ctx, id, status, statusData)

	extra := map[string]interface{}{}
	if err == nil && status != "" {
		extra["status"] = status
	}
	h.acknowledge(ctx, kafka.OpStatusChanged, id, extra, err)
	return nil
}
