package retry

import (
	"context"
	"time"

	"github.com/labstack/gommon/log"
)

const (
	maxRetries        = 6
	retryMultiplier   = 2
	retryInitialDelay = time.Millisecond * 100
	// При maxRetries = 6, retryMultiplier = 2, retryInitialDelay = 100ms:
	// 0-ая попытка: 0ms
	// 1-ая попытка: 100ms
	// 2-ая попытка: 200ms
	// 3-я попытка: 400ms
	// 4-ая попытка: 800ms
	// 5-ая попытка: 1600ms
	// 6-ая попытка: 3200ms, потом завершение
)

// Retry выполняет операцию с экспоненциальной задержкой между попытками.
// Возвращает nil, если операция успешна, последнюю ошибку, если все попытки завершились неудачей,
// или ошибку контекста, если он был отменён во время ожидания.
func Retry(ctx context.Context, operation func() error) error {
	return retry(ctx, maxRetries, retryInitialDelay, operation)
}

func retry(ctx context.Context, attempts int, initialDelay time.Duration, operation func() error) error {
	delay := initialDelay
	for retryCounter := 0; ; retryCounter++ {
		err := operation()
		if err == nil {
			return nil
		}
		if retryCounter >= attempts {
			return err
		}
		log.Errorf("error during retry %d: %v", retryCounter, err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= retryMultiplier
	}
}
