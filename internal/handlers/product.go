package handlers

import (
	"context"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/dearhome/assistant-go/internal/kafka"
	"github.com/dearhome/assistant-go/internal/sync"
)

// ProductSyncHandler 订阅商品变更事件并维护商品索引
type ProductSyncHandler struct {
	baseHandler
	service *sync.ProductService
}

// NewProductSyncHandler 创建商品同步处理器
func NewProductSyncHandler(service *sync.ProductService, publisher Publisher, journal *AckJournal, logger *zap.Logger) *ProductSyncHandler {
	return &ProductSyncHandler{
		baseHandler: newBaseHandler("product", "product_id", publisher, journal, logger),
		service:     service,
	}
}

// Register 注册商品相关主题
func (h *ProductSyncHandler) Register(consumer *kafka.Consumer) {
	consumer.RegisterHandler(kafka.ChangeTopic("product", kafka.OpCreated), h.handleCreated)
	consumer.RegisterHandler(kafka.ChangeTopic("product", kafka.OpUpdated), h.handleUpdated)
	consumer.RegisterHandler(kafka.ChangeTopic("product", kafka.OpDeleted), h.handleDeleted)
	h.logger.Info("商品同步处理器已注册全部主题")
}

func (h *ProductSyncHandler) handleCreated(ctx context.Context, msg *sarama.ConsumerMessage) error {
	h.logger.Info("收到商品创建事件", zap.Int64("offset", msg.Offset))

	payload, id, err := h.decodePayload(msg.Value)
	if err != nil {
		h.dropInvalid(kafka.OpCreated, err)
		return nil
	}

	err = h.service.Create(ctx, payload)
	h.acknowledge(ctx, kafka.OpCreated, id, nil, err)
	return nil
}

func (h *ProductSyncHandler) handleUpdated(ctx context.Context, msg *sarama.ConsumerMessage) error {
	h.logger.Info("收到商品更新事件", zap.Int64("offset", msg.Offset))

	payload, id, err := h.decodePayload(msg.Value)
	if err != nil {
		h.dropInvalid(kafka.OpUpdated, err)
		return nil
	}

	err = h.service.Update(ctx, id, payload)
	h.acknowledge(ctx, kafka.OpUpdated, id, nil, err)
	return nil
}

func (h *ProductSyncHandler) handleDeleted(ctx context.Context, msg *sarama.ConsumerMessage) error {
	h.logger.Info("收到商品删除事件", zap.Int64("offset", msg.Offset))

	_, id, err := h.decodePayload(msg.Value)
	if err != nil {
		h.dropInvalid(kafka.OpDeleted, err)
		return nil
	}

	err = h.service.Delete(ctx, id)
	h.acknowledge(ctx, kafka.OpDeleted, id, nil, err)
	return nil
}
