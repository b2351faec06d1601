// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package tracker_test

import (
	"context"
	"sync"
	"testing"

	"github.com/zeebo/errs"
	"go.uber.org/zap/zaptest"

	"storj.io/tracker/tracker"
)

// recorder is a transport remembering every request it was asked to send.
type recorder struct {
	mu       sync.Mutex
	requests []tracker.Request
	fail     error
}

func (recorder *recorder) Send(req tracker.Request) error {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	if recorder.fail != nil {
		return recorder.fail
	}
	recorder.requests = append(recorder.requests, req)
	return nil
}

func (recorder *recorder) Requests() []tracker.Request {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	return append([]tracker.Request(nil), recorder.requests...)
}

// memorySessions is a session store backed by a single value.
type memorySessions struct {
	id     string
	writes int
	err    error

	// unbounded counts calls made without a deadline.
	unbounded int
}

func (sessions *memorySessions) Read(ctx context.Context) (string, error) {
	sessions.checkDeadline(ctx)
	return sessions.id, sessions.err
}

func (sessions *memorySessions) Write(ctx context.Context, id string) error {
	sessions.checkDeadline(ctx)
	sessions.writes++
	sessions.id = id
	return nil
}

func (sessions *memorySessions) checkDeadline(ctx context.Context) {
	if _, ok := ctx.Deadline(); !ok {
		sessions.unbounded++
	}
}

// manualClock returns whatever time it was set to.
type manualClock struct{ now float64 }

func (clock *manualClock) Now() float64 { return clock.now }

// staticEnv returns a fixed client context.
type staticEnv struct {
	context tracker.ClientContext
	calls   int
}

func (env *staticEnv) ClientContext() tracker.ClientContext {
	env.calls++
	return env.context
}

// errorSource lets tests raise host errors.
type errorSource struct {
	mu          sync.Mutex
	next        int
	subscribers map[int]func(tracker.ErrorReport)
	subscribed  int
}

func (source *errorSource) Subscribe(fn func(tracker.ErrorReport)) func() {
	source.mu.Lock()
	defer source.mu.Unlock()
	if source.subscribers == nil {
		source.subscribers = map[int]func(tracker.ErrorReport){}
	}
	source.next++
	source.subscribed++
	id := source.next
	source.subscribers[id] = fn
	return func() {
		source.mu.Lock()
		defer source.mu.Unlock()
		delete(source.subscribers, id)
	}
}

func (source *errorSource) Raise(report tracker.ErrorReport) {
	source.mu.Lock()
	var fns []func(tracker.ErrorReport)
	for _, fn := range source.subscribers {
		fns = append(fns, fn)
	}
	source.mu.Unlock()

	for _, fn := range fns {
		fn(report)
	}
}

func (source *errorSource) Count() int {
	source.mu.Lock()
	defer source.mu.Unlock()
	return len(source.subscribers)
}

var testContext = tracker.ClientContext{
	URL:       "https://example.test/page",
	UserAgent: "test-agent",
	Platform:  "test-platform",
}

type fixture struct {
	transport *recorder
	sessions  *memorySessions
	clock     *manualClock
	env       *staticEnv
	errors    *errorSource
	traces    []tracker.Trace
}

func newFixture() *fixture {
	return &fixture{
		transport: &recorder{},
		sessions:  &memorySessions{},
		clock:     &manualClock{},
		env:       &staticEnv{context: testContext},
		errors:    &errorSource{},
	}
}

func (fixture *fixture) host() tracker.Host {
	return tracker.Host{
		Sessions:  fixture.sessions,
		Transport: fixture.transport,
		Clock:     fixture.clock,
		Env:       fixture.env,
		Errors:    fixture.errors,
		Trace: func(trace tracker.Trace) {
			fixture.traces = append(fixture.traces, trace)
		},
	}
}

func (fixture *fixture) newTracker(t *testing.T) *tracker.Tracker {
	return tracker.New(zaptest.NewLogger(t), fixture.host())
}

var errSend = errs.New("connection refused")
