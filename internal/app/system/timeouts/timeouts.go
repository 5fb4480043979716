// Package timeouts holds the deadlines used around database calls.
//
// Every store call runs under context.WithTimeout with one of four tiers.
// Ping covers health checks and Short covers single-document reads and
// writes. Medium is for lists and live snapshots, Long for startup work.
package timeouts

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Config is one set of tier deadlines.
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
}

// DefaultBase is the Short deadline used until Configure is called.
const DefaultBase = 5 * time.Second

// FromBase derives every tier from the single-document deadline.
func FromBase(base time.Duration) Config {
	ping := base / 2
	if ping < time.Second {
		ping = time.Second
	}
	return Config{Ping: ping, Short: base, Medium: 2 * base, Long: 6 * base}
}

var active atomic.Pointer[Config]

func init() { Reset() }

func current() Config { return *active.Load() }

func Ping() time.Duration   { return current().Ping }
func Short() time.Duration  { return current().Short }
func Medium() time.Duration { return current().Medium }
func Long() time.Duration   { return current().Long }

// Current returns the active tiers.
func Current() Config { return current() }

// Configure replaces the tiers. Zero fields keep their current value.
func Configure(cfg Config) {
	next := current()
	for _, f := range []struct{ dst *time.Duration; v time.Duration }{
		{&next.Ping, cfg.Ping},
		{&next.Short, cfg.Short},
		{&next.Medium, cfg.Medium},
		{&next.Long, cfg.Long},
	} {
		if f.v > 0 {
			*f.dst = f.v
		}
	}
	active.Store(&next)
}

// Reset restores FromBase(DefaultBase).
func Reset() {
	cfg := FromBase(DefaultBase)
	active.Store(&cfg)
}

// WithTimeout is context.WithTimeout whose cancel func logs when the
// deadline, rather than the caller, ended the operation.
func WithTimeout(parent context.Context, d time.Duration, log *zap.Logger, op string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, d)
	return ctx, func() {
		if log != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			log.Warn("operation timed out", zap.String("operation", op), zap.Duration("timeout", d))
		}
		cancel()
	}
}
