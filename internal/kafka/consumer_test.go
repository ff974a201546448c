package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeConsumerGroup 模拟sarama消费者组。
// 错误通道与真实实现一样，只在Close时才关闭。
type fakeConsumerGroup struct {
	errs   chan error
	closed bool
}

func newFakeConsumerGroup() *fakeConsumerGroup {
	return &fakeConsumerGroup{errs: make(chan error)}
}

func (f *fakeConsumerGroup) Consume(ctx context.Context, _ []string, _ sarama.ConsumerGroupHandler) error {
	<-ctx.Done()
	return ctx.Err()
}

func (f *fakeConsumerGroup) Errors() <-chan error { return f.errs }

func (f *fakeConsumerGroup) Close() error {
	if !f.closed {
		f.closed = true
		close(f.errs)
	}
	return nil
}

func (f *fakeConsumerGroup) Pause(map[string][]int32)  {}
func (f *fakeConsumerGroup) Resume(map[string][]int32) {}
func (f *fakeConsumerGroup) PauseAll()                 {}
func (f *fakeConsumerGroup) ResumeAll()                {}

func newFakeConsumer(group sarama.ConsumerGroup) *Consumer {
	ctx, cancel := context.WithCancel(context.Background())
	return &Consumer{
		consumer: group,
		groupID:  "test-group",
		handlers: make(map[string]MessageHandler),
		logger:   zap.NewNop(),
		ctx:      ctx,
		cancel:   cancel,
	}
}

func TestConsumer_CloseTerminates(t *testing.T) {
	group := newFakeConsumerGroup()
	c := newFakeConsumer(group)
	c.RegisterHandler("variant.created", func(context.Context, *sarama.ConsumerMessage) error {
		return nil
	})
	c.Start()

	// 错误通道要等底层Close才关闭，关闭流程不能在它之前死等
	done := make(chan error, 1)
	go func() { done <- c.Close() }()

	select {
	case err := <-done:
		require.NoError(t, err)
		assert.True(t, group.closed)
	case <-time.After(2 * time.Second):
		t.Fatal("关闭消费者超时")
	}
}

func TestConsumer_CloseWithoutStart(t *testing.T) {
	group := newFakeConsumerGroup()
	c := newFakeConsumer(group)

	require.NoError(t, c.Close())
	assert.True(t, group.closed)
}

func TestConsumer_RegisterAfterStartIgnored(t *testing.T) {
	group := newFakeConsumerGroup()
	c := newFakeConsumer(group)
	c.RegisterHandler("variant.created", func(context.Context, *sarama.ConsumerMessage) error {
		return nil
	})
	c.Start()
	c.RegisterHandler("variant.updated", func(context.Context, *sarama.ConsumerMessage) error {
		return nil
	})

	assert.Len(t, c.handlers, 1)
	require.NoError(t, c.Close())
}
