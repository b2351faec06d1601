// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"storj.io/tracker/hostenv"
	"storj.io/tracker/session"
	"storj.io/tracker/tracker"
	"storj.io/tracker/transport"
)

// environment holds the collaborators of the tracker used by a command.
type environment struct {
	log       *zap.Logger
	config    Config
	sessions  session.Store
	transport transport.Transport
	errors    *hostenv.ErrorHub
	host      tracker.Host

	tracker *tracker.Tracker
}

// openEnvironment opens the session store and transport. Dev mode traces are
// written to out.
func openEnvironment(ctx context.Context, log *zap.Logger, config Config, out io.Writer) (_ *environment, err error) {
	sessions, err := session.Open(ctx, log, config.Session.Store)
	if err != nil {
		return nil, err
	}

	sender, err := transport.Open(log.Named("transport"), config.Transport)
	if err != nil {
		return nil, errs.Combine(err, sessions.Close())
	}

	errors := hostenv.NewErrorHub()
	env := &environment{
		log:       log.WithOptions(zap.Hooks(errors.Hook)),
		config:    config,
		sessions:  sessions,
		transport: sender,
		errors:    errors,
	}
	env.host = tracker.Host{
		Sessions:  sessions,
		Transport: sender,
		Clock:     hostenv.NewClock(),
		Env:       hostenv.New(config.Context),
		Errors:    errors,
		Trace: func(trace tracker.Trace) {
			payload, err := json.Marshal(trace.Payload)
			if err != nil {
				payload = []byte("{}")
			}
			_, _ = fmt.Fprintln(out, trace.Method, trace.URL, string(payload))
		},
	}
	return env, nil
}

// newTracker creates a tracker configured from the command configuration.
func (env *environment) newTracker() *tracker.Tracker {
	tr := tracker.New(env.log.Named("tracker"), env.host)
	for key, value := range env.config.Tracker.Params() {
		tr.AddQueryParam(key, value)
	}
	tr.Push(env.config.Tracker.Item())
	return tr
}

// Tracker returns the tracker of the environment, creating it on first use.
func (env *environment) Tracker() *tracker.Tracker {
	if env.tracker == nil {
		env.tracker = env.newTracker()
	}
	return env.tracker
}

// Close waits for in-flight requests and releases resources.
func (env *environment) Close(ctx context.Context) error {
	if env.tracker != nil {
		env.tracker.Close()
	}

	if env.config.CloseTimeout > 0 {
		var cancel func()
		ctx, cancel = context.WithTimeout(ctx, env.config.CloseTimeout)
		defer cancel()
	}

	return errs.Combine(
		env.transport.Close(ctx),
		env.sessions.Close(),
	)
}
