package vectorstore

import (
	"context"
	"time"

	"github.com/dearhome/assistant-go/internal/metrics"
	"go.uber.org/zap"
)

// RetryPolicy 固定次数、固定间隔的重试策略。
// 任意错误都会触发重试，耗尽后返回最后一次的错误；等待期间不持有锁。
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// DefaultRetryPolicy 与参考行为一致：3次尝试，间隔1秒
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, Delay: time.Second}
}

// Do 执行fn，失败时按策略重试
func (p RetryPolicy) Do(ctx context.Context, operation string, logger *zap.Logger, fn func(ctx context.Context) error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		if attempt < attempts {
			metrics.RetryAttempts.WithLabelValues(operation).Inc()
			logger.Warn("操作失败，准备重试",
				zap.String("operation", operation),
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", attempts),
				zap.Duration("delay", p.Delay),
				zap.Error(lastErr))

			timer := time.NewTimer(p.Delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		} else {
			logger.Error("操作重试次数耗尽",
				zap.String("operation", operation),
				zap.Int("attempts", attempts),
				zap.Error(lastErr))
		}
	}

	return lastErr
}
