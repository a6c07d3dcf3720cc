// Package service runs CLI commands: each service calls the API or a page
// controller and prints the result.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/watchparty/cli/pkg/api"
	"github.com/watchparty/cli/pkg/auth"
	"github.com/watchparty/cli/pkg/config"
	"github.com/watchparty/cli/pkg/controller"
	"github.com/watchparty/cli/pkg/degraded"
	"github.com/watchparty/cli/pkg/output"
	"github.com/watchparty/cli/pkg/prompter"
)

// Env is what every service needs to run a command
type Env struct {
	API      *api.API
	Out      *output.Printer
	Prompt   *prompter.Prompter
	Store    auth.Store
	Recovery *auth.SessionRecovery
	Now      func() time.Time
	Interval time.Duration
}

// NewEnv builds the environment from configuration: the default client,
// stored credentials and the configured output format
func NewEnv(ctx context.Context) *Env {
	a := api.NewFromConfig(ctx)
	store := auth.FileStore{Path: config.GetCredentialsPath()}
	return &Env{
		API:      a,
		Out:      output.Default(),
		Prompt:   prompter.Std(),
		Store:    store,
		Recovery: auth.NewSessionRecovery(a.Auth, store),
		Now:      time.Now,
		Interval: config.GetDuration("poll.interval"),
	}
}

// call runs fn, refreshing the session and retrying once when the access
// token was rejected
func (e *Env) call(ctx context.Context, fn func(ctx context.Context) error) error {
	if e.Recovery == nil {
		return fn(ctx)
	}
	return e.Recovery.Retry(ctx, fn)
}

func (e *Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e *Env) options() []controller.Option {
	return []controller.Option{controller.WithInterval(e.Interval), controller.WithClock(e.Now)}
}

// confirm asks before a destructive action unless force is set
func (e *Env) confirm(force bool, format string, args ...interface{}) (bool, error) {
	if force {
		return true, nil
	}
	ok, err := e.Prompt.Confirm(fmt.Sprintf(format, args...))
	if err != nil {
		return false, err
	}
	if !ok {
		e.Out.Info("Cancelled.")
	}
	return ok, nil
}

// notifyDegraded tells the user when what they see is not live data
func (e *Env) notifyDegraded(source degraded.Source, what string) {
	switch source {
	case degraded.Cached:
		e.Out.Warning("%s service unavailable, showing cached data", what)
	case degraded.Sample:
		e.Out.Warning("%s service unavailable, showing sample data", what)
	}
}

func pluralize(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func messageOr(m *api.Message, fallback string) string {
	if m != nil && m.Message != "" {
		return m.Message
	}
	return fallback
}
