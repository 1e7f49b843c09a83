package market

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/lwilliams783/bitcoin-pro-backend/internal/metrics"
)

// Outcome is the settled result of one fallback chain.
type Outcome[T any] struct {
	Value  T
	Source string // provider that produced the value, or "default"
	Live   bool
}

type link[T any] struct {
	source string
	fetch  func(ctx context.Context) (T, error)
}

// chain tries its links in order and settles on the first success or, once
// every link has failed, on the terminal default. A chain never fails: a
// per-call timeout counts as an ordinary link failure and moves resolution
// to the next link. Link order encodes provider preference.
type chain[T any] struct {
	metric  string
	links   []link[T]
	def     T
	perCall time.Duration
	logger  zerolog.Logger
	metrics *metrics.Recorder
}

func (c chain[T]) resolve(ctx context.Context) Outcome[T] {
	for _, l := range c.links {
		callCtx, cancel := context.WithTimeout(ctx, c.perCall)
		v, err := l.fetch(callCtx)
		cancel()
		if err == nil {
			c.metrics.RecordFetch(l.source, "ok")
			return Outcome[T]{Value: v, Source: l.source, Live: true}
		}

		outcome := "error"
		if errors.Is(err, context.DeadlineExceeded) {
			outcome = "timeout"
		}
		c.metrics.RecordFetch(l.source, outcome)
		c.logger.Warn().
			Str("metric", c.metric).
			Str("source", l.source).
			Err(err).
			Msg("source failed, falling back")

		// The aggregation deadline fired; remaining links would only fail
		// the same way.
		if ctx.Err() != nil {
			break
		}
	}
	return Outcome[T]{Value: c.def, Source: "default"}
}
