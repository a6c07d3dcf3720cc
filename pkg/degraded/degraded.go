// Package degraded serves cached or sample data when a live read fails.
package degraded

import (
	"context"
	"errors"
	"time"

	json "github.com/json-iterator/go"

	"github.com/watchparty/cli/pkg/logger"
)

var codec = json.ConfigCompatibleWithStandardLibrary

// DefaultTTL is how long a live value stays usable as a fallback
const DefaultTTL = 10 * time.Minute

// Source says where a Result's value came from
type Source string

const (
	Live   Source = "live"
	Cached Source = "cached"
	Sample Source = "sample"
)

// Result is a value and its provenance. Err holds the live failure when
// the value is not Live.
type Result[T any] struct {
	Value  T
	Source Source
	Err    error
}

// Degraded reports whether the value did not come from a live read
func (r Result[T]) Degraded() bool {
	return r.Source != Live
}

// Policy controls fallback behavior. The zero value falls back to sample
// data only.
type Policy struct {
	Cache    Cache
	TTL      time.Duration
	Disabled bool
}

func (p Policy) ttl() time.Duration {
	if p.TTL <= 0 {
		return DefaultTTL
	}
	return p.TTL
}

// Fetch runs load and returns its value. When load fails, Fetch returns the
// last cached value for key, then sample data, then the error. A canceled
// context is returned as an error and never degraded. sample may be nil.
func Fetch[T any](ctx context.Context, p Policy, key string, sample func() T, load func(context.Context) (T, error)) (Result[T], error) {
	value, err := load(ctx)
	if err == nil {
		store(ctx, p, key, value)
		return Result[T]{Value: value, Source: Live}, nil
	}

	if errors.Is(err, context.Canceled) || ctx.Err() != nil || p.Disabled {
		return Result[T]{Err: err}, err
	}

	if cached, ok := lookup[T](ctx, p, key); ok {
		logger.Warn("Serving cached data", "key", key, "error", err)
		return Result[T]{Value: cached, Source: Cached, Err: err}, nil
	}

	if sample != nil {
		logger.Warn("Serving sample data", "key", key, "error", err)
		return Result[T]{Value: sample(), Source: Sample, Err: err}, nil
	}

	return Result[T]{Err: err}, err
}

func store[T any](ctx context.Context, p Policy, key string, value T) {
	if p.Cache == nil {
		return
	}
	data, err := codec.Marshal(value)
	if err != nil {
		logger.Debug("Cache encode failed", "key", key, "error", err)
		return
	}
	if err := p.Cache.Set(ctx, key, data, p.ttl()); err != nil {
		logger.Debug("Cache write failed", "key", key, "error", err)
	}
}

func lookup[T any](ctx context.Context, p Policy, key string) (T, bool) {
	var zero T
	if p.Cache == nil {
		return zero, false
	}
	data, ok, err := p.Cache.Get(ctx, key)
	if err != nil {
		logger.Debug("Cache read failed", "key", key, "error", err)
		return zero, false
	}
	if !ok {
		return zero, false
	}
	var value T
	if err := codec.Unmarshal(data, &value); err != nil {
		logger.Debug("Cache decode failed", "key", key, "error", err)
		return zero, false
	}
	return value, true
}
