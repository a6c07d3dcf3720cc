package state

import (
	"fmt"
	"sync"
	"time"
)

// Status is the lifecycle stage of a Resource
type Status int

const (
	Idle Status = iota
	Loading
	Success
	Error
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "idle"
	}
}

// Snapshot is a point-in-time copy of a Resource.
type Snapshot[T any] struct {
	Status              Status
	Data                T
	HasData             bool
	Err                 error
	UpdatedAt           time.Time
	ConsecutiveFailures int
}

// IsLoading reports whether a load is in flight
func (s Snapshot[T]) IsLoading() bool {
	return s.Status == Loading
}

// IsOffline returns true when the last two or more loads failed.
func (s Snapshot[T]) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Resource holds the latest value of one remote read. The zero value is
// ready to use.
type Resource[T any] struct {
	mu       sync.RWMutex
	snapshot Snapshot[T]
	now      func() time.Time
}

func (r *Resource[T]) clock() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now()
}

// Begin marks a load as in flight. Existing data is kept.
func (r *Resource[T]) Begin() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshot.Status = Loading
}

// Succeed replaces the data and clears the error.
func (r *Resource[T]) Succeed(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.snapshot.Status = Success
	r.snapshot.Data = v
	r.snapshot.HasData = true
	r.snapshot.Err = nil
	r.snapshot.UpdatedAt = r.clock()
	r.snapshot.ConsecutiveFailures = 0
}

// Fail records err. The previous data is kept for display.
func (r *Resource[T]) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.snapshot.Status = Error
	r.snapshot.Err = err
	r.snapshot.UpdatedAt = r.clock()
	r.snapshot.ConsecutiveFailures++
}

// Finish calls Fail when err is non-nil and Succeed otherwise.
func (r *Resource[T]) Finish(v T, err error) {
	if err != nil {
		r.Fail(err)
		return
	}
	r.Succeed(v)
}

// Abandon ends an in-flight load without recording a result. Used when the
// load was canceled.
func (r *Resource[T]) Abandon() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.snapshot.Status != Loading {
		return
	}
	switch {
	case r.snapshot.Err != nil:
		r.snapshot.Status = Error
	case r.snapshot.HasData:
		r.snapshot.Status = Success
	default:
		r.snapshot.Status = Idle
	}
}

// Snapshot returns a copy of the current state.
func (r *Resource[T]) Snapshot() Snapshot[T] {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := r.snapshot
	if r.snapshot.Err != nil {
		snap.Err = fmt.Errorf("%w", r.snapshot.Err)
	}
	return snap
}

// Data returns the current value and whether one was ever loaded.
func (r *Resource[T]) Data() (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot.Data, r.snapshot.HasData
}
