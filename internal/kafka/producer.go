package kafka

import (
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

// Producer Kafka生产者，用于发布确认事件
type Producer struct {
	producer sarama.SyncProducer
	logger   *zap.Logger
}

// NewProducer 创建Kafka生产者
func NewProducer(brokers []string, logger *zap.Logger) (*Producer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Timeout = 10 * time.Second

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("创建Kafka生产者失败: %w", err)
	}

	logger.Info("Kafka生产者初始化成功", zap.Strings("brokers", brokers))
	return &Producer{
		producer: producer,
		logger:   logger,
	}, nil
}

// Publish 发布消息到指定主题
func (p *Producer) Publish(topic, key string, payload []byte) error {
	if p == nil || p.producer == nil {
		return fmt.Errorf("Kafka生产者未初始化")
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(payload),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("发送消息失败: %w", err)
	}

	p.logger.Debug("消息已发布",
		zap.String("topic", topic),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset))
	return nil
}

// Close 关闭生产者
func (p *Producer) Close() error {
	if p == nil || p.producer == nil {
		return nil
	}
	return p.producer.Close()
}
