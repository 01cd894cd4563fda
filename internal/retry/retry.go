package retry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Policy — ограниченный повтор с экспоненциальной паузой. Оборачивает любой
// исходящий вызов провайдера. Повторяются только ошибки квоты (rate-limit),
// остальные пробрасываются сразу.
type Policy struct {
	MaxRetries int           // повторов сверх первой попытки
	BaseDelay  time.Duration // пауза перед первым повтором
	Multiplier float64       // множитель паузы на каждый следующий повтор

	Logger *zap.SugaredLogger

	// Sleep позволяет подменить ожидание в тестах. nil — ожидание по таймеру
	// с учётом отмены контекста.
	Sleep func(ctx context.Context, d time.Duration) error
}

// New возвращает политику по умолчанию: 3 повтора, 2s, ×2. Без джиттера —
// расписание детерминировано и проверяемо.
func New(logger *zap.SugaredLogger) Policy {
	return Policy{MaxRetries: 3, BaseDelay: 2 * time.Second, Multiplier: 2, Logger: logger}
}

// Маркеры исчерпания квоты в тексте ошибки провайдера. REST отдаёт
// RESOURCE_EXHAUSTED, gRPC-статус печатается как ResourceExhausted.
var rateLimitMarkers = []string{"429", "resource_exhausted", "resourceexhausted", "rate limit"}

// Retryable сообщает, стоит ли повторять вызов после данной ошибки.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, m := range rateLimitMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// Do выполняет fn, повторяя её по расписанию политики при ошибках квоты.
// После исчерпания попыток возвращается последняя ошибка без изменений.
// Отмена контекста во время паузы завершает ожидание; возвращаемая ошибка
// несёт и причину отмены, и последнюю ошибку провайдера (обе видны errors.Is).
func (p Policy) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	retries := p.MaxRetries
	if retries < 0 {
		retries = 0
	}
	delay := p.BaseDelay
	mult := p.Multiplier
	if mult <= 0 {
		mult = 2
	}

	var err error
	for attempt := 0; ; attempt++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}
		if !Retryable(err) || attempt >= retries {
			return err
		}
		if p.Logger != nil {
			p.Logger.Warnw("Провайдер ограничил запросы, ждём и повторяем",
				"op", op, "attempt", attempt+1, "delay", delay.String(), "error", err)
		}
		if serr := p.sleep(ctx, delay); serr != nil {
			return fmt.Errorf("%w: %w", serr, err)
		}
		delay = time.Duration(float64(delay) * mult)
	}
}

func (p Policy) sleep(ctx context.Context, d time.Duration) error {
	if p.Sleep != nil {
		return p.Sleep(ctx, d)
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
