package bus

import (
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

type Middleware func(next Handler) Handler

// Chain composes middlewares so that the first one given runs outermost.
func Chain(middlewares ...Middleware) Middleware {
	return func(next Handler) Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}

func Logging(logger zerolog.Logger) Middleware {
	return func(next Handler) Handler {
		return func(m *Message) {
			start := time.Now()
			next(m)
			status := m.Status()
			event := logger.Debug()
			if status != "ok" {
				event = logger.Warn()
			}
			event.
				Str("address", m.Address).
				Str("action", m.Action()).
				Str("id", m.ID).
				Str("status", status).
				Dur("duration", time.Since(start)).
				Msg("handled message")
		}
	}
}

// RateLimit answers with ErrRateLimited, without calling next, once the token
// bucket of r messages per second with the given burst is empty.
func RateLimit(r float64, burst int) Middleware {
	limiter := rate.NewLimiter(rate.Limit(r), burst)
	return func(next Handler) Handler {
		return func(m *Message) {
			if !limiter.Allow() {
				m.FailWith(ErrRateLimited)
				return
			}
			next(m)
		}
	}
}

func Metrics() Middleware {
	return func(next Handler) Handler {
		return func(m *Message) {
			start := time.Now()
			next(m)
			RecordMessage(m.Address, m.Action(), m.Status(), time.Since(start))
		}
	}
}
