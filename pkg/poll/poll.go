// Package poll runs a function on a fixed interval until stopped.
package poll

import (
	"context"
	"time"
)

// DefaultInterval is the refresh cadence of live views
const DefaultInterval = 30 * time.Second

// Poller is a running interval loop
type Poller struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Start calls fn every interval, first after one interval has elapsed. The
// context passed to fn is canceled when the poller stops or ctx ends. Calls
// never overlap: a slow fn delays the next tick.
func Start(ctx context.Context, interval time.Duration, fn func(context.Context)) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ctx, cancel := context.WithCancel(ctx)
	p := &Poller{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(p.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			// Both cases may be ready at once.
			if ctx.Err() != nil {
				return
			}
			fn(ctx)
		}
	}()
	return p
}

// Stop cancels the loop and waits for it to exit. fn is not called again
// once Stop returns. Stop is safe to call more than once.
func (p *Poller) Stop() {
	p.cancel()
	<-p.done
}

// Done is closed when the loop has exited
func (p *Poller) Done() <-chan struct{} {
	return p.done
}
