package services

import (
	"context"
	"fmt"
	"time"

	"carefoundation/internal/metrics"
	"carefoundation/pkg/logger"
)

const effectTimeout = 10 * time.Second

// Effect is a side effect that runs after a primary write has committed. Its failure
// never rolls back or fails the operation that scheduled it.
type Effect struct {
	Name string
	Run  func(ctx context.Context) error
}

type EffectRunner struct {
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewEffectRunner(log *logger.Logger, m *metrics.Metrics) *EffectRunner {
	return &EffectRunner{logger: log, metrics: m}
}

// Run executes effects in order, detached from the caller's cancellation. It reports
// how many failed.
func (r *EffectRunner) Run(ctx context.Context, effects ...Effect) int {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), effectTimeout)
	defer cancel()

	failed := 0
	for _, effect := range effects {
		if err := r.runOne(ctx, effect); err != nil {
			failed++
			r.metrics.EffectFailures.WithLabelValues(effect.Name).Inc()
			r.logger.WithContext(ctx).WithError(err).WithField("effect", effect.Name).Warn("Post-commit effect failed")
		}
	}
	return failed
}

func (r *EffectRunner) runOne(ctx context.Context, effect Effect) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return effect.Run(ctx)
}
