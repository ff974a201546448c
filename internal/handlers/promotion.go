package handlers

import (
	"context"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/dearhome/assistant-go/internal/kafka"
	"github.com/dearhome/assistant-go/internal/sync"
)

// PromotionSyncHandler 订阅促销变更事件并维护促销索引
type PromotionSyncHandler struct {
	baseHandler
	service *sync.PromotionService
}

// NewPromotionSyncHandler 创建促销同步处理器
func NewPromotionSyncHandler(service *sync.PromotionService, publisher Publisher, journal *AckJournal, logger *zap.Logger) *PromotionSyncHandler {
	return &PromotionSyncHandler{
		baseHandler: newBaseHandler("promotion", "promotion_id", publisher, journal, logger),
		service:     service,
	}
}

// Register 注册促销相关主题
func (h *PromotionSyncHandler) Register(consumer *kafka.Consumer) {
	consumer.RegisterHandler(kafka.ChangeTopic("promotion", kafka.OpCreated), h.handleCreated)
	consumer.RegisterHandler(kafka.ChangeTopic("promotion", kafka.OpUpdated), h.handleUpdated)
	consumer.RegisterHandler(kafka.ChangeTopic("promotion", kafka.OpDeleted), h.handleDeleted)
	h.logger.Info("促销同步处理器已注册全部主题")
}

func (h *PromotionSyncHandler) handleCreated(ctx context.Context, msg *sarama.ConsumerMessage) error {
	h.logger.Info("收到促销创建事件", zap.Int64("offset", msg.Offset))

	payload, id, err := h.decodePayload(msg.Value)
	if err != nil {
		h.dropInvalid(kafka.OpCreated, err)
		return nil
	}

	err = h.service.Create(ctx, payload)
	h.acknowledge(ctx, kafka.OpCreated, id, nil, err)
	return nil
}

func (h *PromotionSyncHandler) handleUpdated(ctx context.Context, msg *sarama.ConsumerMessage) error {
	h.logger.Info("收到促销更新事件", zap.Int64("offset", msg.Offset))

	payload, id, err := h.decodePayload(msg.Value)
	if err != nil {
		h.dropInvalid(kafka.OpUpdated, err)
		return nil
	}

	err = h.service.Update(ctx, id, payload)
	h.acknowledge(ctx, kafka.OpUpdated, id, nil, err)
	return nil
}

func (h *PromotionSyncHandler) handleDeleted(ctx context.Context, msg *sarama.ConsumerMessage) error {
	h.logger.Info("收到促销删除事件", zap.Int64("offset", msg.Offset))

	_, id, err := h.decodePayload(msg.Value)
	if err != nil {
		h.dropInvalid(kafka.OpDeleted, err)
		return nil
	}

	err = h.service.Delete(ctx, id)
	h.acknowledge(ctx, kafka.OpDeleted, id, nil, err)
	return nil
}
