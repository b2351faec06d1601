// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package tracker

import (
	"context"
	"net/http"
)

// SessionStore persists the session identifier between loads.
type SessionStore interface {
	// Read returns the stored session identifier or an empty string.
	Read(ctx context.Context) (string, error)
	// Write replaces the stored session identifier.
	Write(ctx context.Context, id string) error
}

// Request is a finalized tracking request.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte

	// Payload is the data the request was built from, including the injected
	// session identifier and client context.
	Payload Payload
}

// Transport starts sending a request. Send must not wait for the request to
// complete; the returned error only reports failures to start it.
type Transport interface {
	Send(req Request) error
}

// Clock is a monotonic high-resolution clock measured in milliseconds.
type Clock interface {
	Now() float64
}

// ClientContext describes the environment the tracker runs in.
type ClientContext struct {
	URL       string `json:"url"`
	UserAgent string `json:"userAgent"`
	Platform  string `json:"platform"`
}

// Environment provides the client context.
type Environment interface {
	ClientContext() ClientContext
}

// ErrorReport is an error observed by the host.
type ErrorReport struct {
	Message string
	Source  string
	Line    int
	Column  int
	Err     error
	// Stack overrides the stack rendered from Err.
	Stack string
}

// ErrorSource lets a tracker observe errors seen by the host.
type ErrorSource interface {
	// Subscribe registers fn and returns a function removing it again.
	// Subscribe must not call fn synchronously.
	Subscribe(fn func(ErrorReport)) (unsubscribe func())
}

// Trace describes a request that was not sent because of dev mode.
type Trace struct {
	Method  string
	URL     string
	Payload Payload
}

// Host bundles the collaborators a tracker needs from its environment.
type Host struct {
	Sessions  SessionStore
	Transport Transport
	// Clock is optional, timers are disabled without it.
	Clock Clock
	Env   Environment
	// Errors is optional, sendCaughtExceptions has nothing to observe without it.
	Errors ErrorSource
	// Trace is called for every request suppressed in dev mode. It must not
	// call back into the tracker.
	Trace func(Trace)
}
