package translation

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerConfig controls when a failing backend is short-circuited
type BreakerConfig struct {
	MaxFailures uint32        // consecutive failures that open the breaker, 0 disables it
	OpenTimeout time.Duration // how long the breaker stays open
}

// breakerTranslator fails fast while a backend keeps failing. It never retries.
type breakerTranslator struct {
	next Translator
	cb   *gobreaker.CircuitBreaker
}

// WithBreaker wraps next in a circuit breaker. With MaxFailures == 0 next is returned as is.
func WithBreaker(next Translator, cfg BreakerConfig, logger *zap.Logger) Translator {
	if cfg.MaxFailures == 0 {
		return next
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	settings := gobreaker.Settings{
		Name:    next.Name(),
		Timeout: cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			// caller cancellations and rejected requests say nothing about backend health
			return err == nil ||
				errors.Is(err, context.Canceled) ||
				errors.Is(err, ErrUnsupportedOperation) ||
				errors.Is(err, ErrInvalidRequest)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("translation backend breaker changed state",
				zap.String("backend", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	return &breakerTranslator{
		next: next,
		cb:   gobreaker.NewCircuitBreaker(settings),
	}
}

func (b *breakerTranslator) Name() string {
	return b.next.Name()
}

func (b *breakerTranslator) Translate(ctx context.Context, req Request) (Result, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Translate(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return Result{}, &BackendError{Backend: b.Name(), Message: "backend temporarily disabled after repeated failures", Cause: err}
		}
		return Result{}, err
	}
	return out.(Result), nil
}
