// Package controller holds the state behind each page: what it loads on
// mount, what it polls, and what it re-fetches after a mutation. Every
// controller is bound to a Scope; unmounting the scope cancels in-flight
// requests and stops polling.
package controller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/watchparty/cli/pkg/client"
	"github.com/watchparty/cli/pkg/config"
	"github.com/watchparty/cli/pkg/poll"
	"github.com/watchparty/cli/pkg/state"
)

// ErrUnmounted is returned by controller methods called after Unmount
var ErrUnmounted = errors.New("controller: scope unmounted")

// Scope is the lifetime of a mounted page
type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	pollers []*poll.Poller
	wg      sync.WaitGroup
}

// NewScope mounts a scope under parent
func NewScope(parent context.Context) *Scope {
	ctx, cancel := context.WithCancel(parent)
	return &Scope{ctx: ctx, cancel: cancel}
}

// Context is canceled on Unmount
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Mounted reports whether Unmount has not been called and the parent is live
func (s *Scope) Mounted() bool {
	return s.ctx.Err() == nil
}

// Go runs fn in a goroutine that Unmount waits for. It returns false without
// running fn once the scope is gone.
func (s *Scope) Go(fn func(ctx context.Context)) bool {
	s.mu.Lock()
	if s.ctx.Err() != nil {
		s.mu.Unlock()
		return false
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		fn(s.ctx)
	}()
	return true
}

// Every starts a poller owned by the scope
func (s *Scope) Every(interval time.Duration, fn func(ctx context.Context)) *poll.Poller {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := poll.Start(s.ctx, interval, fn)
	s.pollers = append(s.pollers, p)
	return p
}

// Unmount cancels in-flight requests, stops every poller and waits for
// goroutines started with Go. No request is issued by the scope afterwards.
func (s *Scope) Unmount() {
	s.mu.Lock()
	s.cancel()
	pollers := s.pollers
	s.pollers = nil
	s.mu.Unlock()

	for _, p := range pollers {
		p.Stop()
	}
	s.wg.Wait()
}

type options struct {
	interval time.Duration
	now      func() time.Time
}

// Option configures a controller
type Option func(*options)

// WithInterval sets the polling interval of live sections
func WithInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.interval = d
		}
	}
}

// WithClock replaces time.Now for age calculations
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// IntervalFromConfig reads poll.interval, falling back to the default
func IntervalFromConfig() Option {
	return WithInterval(config.GetDuration("poll.interval"))
}

func newOptions(opts []Option) options {
	o := options{interval: poll.DefaultInterval, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// track runs load under ctx and records the outcome in r. A load cut short
// by cancellation is abandoned rather than recorded as a failure.
func track[T any](ctx context.Context, r *state.Resource[T], load func(ctx context.Context) (T, error)) error {
	if ctx.Err() != nil {
		return ErrUnmounted
	}

	r.Begin()
	v, err := load(ctx)
	if err != nil && (ctx.Err() != nil || client.IsCanceled(err)) {
		r.Abandon()
		return err
	}
	r.Finish(v, err)
	return err
}
