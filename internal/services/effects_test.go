package services

import (
	"context"
	"errors"
	"testing"

	"carefoundation/internal/metrics"
	"carefoundation/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestEffectRunner_IsolatesFailures(t *testing.T) {
	runner := NewEffectRunner(logger.NewNop(), metrics.NewNop())

	var ran []string
	failed := runner.Run(context.Background(),
		Effect{Name: "boom", Run: func(context.Context) error { panic("nil partner") }},
		Effect{Name: "error", Run: func(context.Context) error { return errors.New("smtp down") }},
		Effect{Name: "ok", Run: func(context.Context) error { ran = append(ran, "ok"); return nil }},
	)

	assert.Equal(t, 2, failed)
	assert.Equal(t, []string{"ok"}, ran)
}

func TestEffectRunner_DetachedFromCancellation(t *testing.T) {
	runner := NewEffectRunner(logger.NewNop(), metrics.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var seen error
	runner.Run(ctx, Effect{Name: "check", Run: func(ctx context.Context) error {
		seen = ctx.Err()
		return nil
	}})
	assert.NoError(t, seen)
}
