package handlers

import (
	"context"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/dearhome/assistant-go/internal/kafka"
	"github.com/dearhome/assistant-go/internal/sync"
)

// VariantSyncHandler 订阅变体变更事件并维护变体索引
type VariantSyncHandler struct {
	baseHandler
	service *sync.VariantService
}

// NewVariantSyncHandler 创建变体同步处理器
func NewVariantSyncHandler(service *sync.VariantService, publisher Publisher, journal *AckJournal, logger *zap.Logger) *VariantSyncHandler {
	return &VariantSyncHandler{
		baseHandler: newBaseHandler("variant", "variant_id", publisher, journal, logger),
		service:     service,
	}
}

// Register 注册变体相关主题
func (h *VariantSyncHandler) Register(consumer *kafka.Consumer) {
	consumer.RegisterHandler(kafka.ChangeTopic("variant", kafka.OpCreated), h.handleCreated)
	consumer.RegisterHandler(kafka.ChangeTopic("variant", kafka.OpUpdated), h.handleUpdated)
	consumer.RegisterHandler(kafka.ChangeTopic("variant", kafka.OpDeleted), h.handleDeleted)
	h.logger.Info("变体同步处理器已注册全部主题")
}

func (h *VariantSyncHandler) handleCreated(ctx context.Context, msg *sarama.ConsumerMessage) error {
	h.logger.Info("收到变体创建事件", zap.Int64("offset", msg.Offset))

	payload, id, err := h.decodePayload(msg.Value)
	if err != nil {
		h.dropInvalid(kafka.OpCreated, err)
		return nil
	}

	err = h.service.Create(ctx, payload)
	h.acknowledge(ctx, kafka.OpCreated, id, nil, err)
	return nil
}

func (h *VariantSyncHandler) handleUpdated(ctx context.Context, msg *sarama.ConsumerMessage) error {
	h.logger.Info("收到变体更新事件", zap.Int64("offset", msg.Offset))

	payload, id, err := h.decodePayload(msg.Value)
	if err != nil {
		h.dropInvalid(kafka.OpUpdated, err)
		return nil
	}

	err = h.service.Update(ctx, id, payload)
	h.acknowledge(ctx, kafka.OpUpdated, id, nil, err)
	return nil
}

func (h *VariantSyncHandler) handleDeleted(ctx context.Context, msg *sarama.ConsumerMessage) error {
	h.logger.Info("收到变体删除事件", zap.Int64("offset", msg.Offset))

	_, id, err := h.decodePayload(msg.Value)
	if err != nil {
		h.dropInvalid(kafka.OpDeleted, err)
		return nil
	}

	err = h.service.Delete(ctx, id)
	h.acknowledge(ctx, kafka.OpDeleted, id, nil, err)
	return nil
}
