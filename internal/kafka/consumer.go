package kafka

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

// MessageHandler 消息处理函数。
// 处理器自行负责错误转化（发布失败确认），返回错误只用于日志。
type MessageHandler func(ctx context.Context, message *sarama.ConsumerMessage) error

// Consumer Kafka消费者组，一个订阅内的消息按分区保序
type Consumer struct {
	consumer sarama.ConsumerGroup
	groupID  string
	handlers map[string]MessageHandler
	logger   *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	// 错误排水协程单独等待：它要到底层消费者组Close后才会退出
	errWg   sync.WaitGroup
	started bool
}

// NewConsumer 创建Kafka消费者组
func NewConsumer(brokers []string, groupID string, logger *zap.Logger) (*Consumer, error) {
	config := sarama.NewConfig()
	config.Consumer.Group.Rebalance.Strategy = sarama.NewBalanceStrategyRoundRobin()
	config.Consumer.Offsets.Initial = sarama.OffsetOldest
	config.Consumer.Return.Errors = true
	config.Version = sarama.V2_6_0_0

	consumerGroup, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		return nil, fmt.Errorf("创建Kafka消费者组失败: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Consumer{
		consumer: consumerGroup,
		groupID:  groupID,
		handlers: make(map[string]MessageHandler),
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// RegisterHandler 注册消息处理器，必须在Start之前调用
func (c *Consumer) RegisterHandler(topic string, handler MessageHandler) {
	if c == nil || c.started {
		return
	}
	c.handlers[topic] = handler
	c.logger.Info("注册Kafka消息处理器", zap.String("topic", topic))
}

// Start 启动消费循环
func (c *Consumer) Start() {
	if c == nil || c.consumer == nil || c.started {
		return
	}
	c.started = true

	topics := make([]string, 0, len(c.handlers))
	for topic := range c.handlers {
		topics = append(topics, topic)
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			select {
			case <-c.ctx.Done():
				c.logger.Info("Kafka消费者停止")
				return
			default:
				handler := &consumerGroupHandler{
					handlers: c.handlers,
					logger:   c.logger,
				}
				if err := c.consumer.Consume(c.ctx, topics, handler); err != nil {
					if c.ctx.Err() != nil {
						c.logger.Info("Kafka消费者停止")
						return
					}
					c.logger.Error("消费消息失败", zap.Error(err))
					time.Sleep(5 * time.Second)
				}
			}
		}
	}()

	c.errWg.Add(1)
	go func() {
		defer c.errWg.Done()
		for err := range c.consumer.Errors() {
			c.logger.Error("Kafka消费者错误", zap.Error(err))
		}
	}()
}

// Close 关闭消费者。
// 顺序是固定的：先停消费循环，再关底层消费者组（这一步才会关闭
// 错误通道），最后等错误排水协程退出。
func (c *Consumer) Close() error {
	if c == nil {
		return nil
	}
	c.cancel()
	c.wg.Wait()

	var err error
	if c.consumer != nil {
		err = c.consumer.Close()
	}
	c.errWg.Wait()
	return err
}

// consumerGroupHandler 消费者组处理器
type consumerGroupHandler struct {
	handlers map[string]MessageHandler
	logger   *zap.Logger
}

// Setup 会话开始
func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

// Cleanup 会话结束
func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim 消费消息。
// 处理失败不重投：失败由处理器转为失败确认，这里始终标记已处理。
func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}

			handler, ok := h.handlers[message.Topic]
			if !ok {
				h.logger.Warn("未找到消息处理器", zap.String("topic", message.Topic))
				session.MarkMessage(message, "")
				continue
			}

			if err := handler(session.Context(), message); err != nil {
				h.logger.Error("处理消息失败",
					zap.String("topic", message.Topic),
					zap.Int32("partition", message.Partition),
					zap.Int64("offset", message.Offset),
					zap.Error(err))
			}
			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}
