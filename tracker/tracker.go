// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package tracker

import (
	"net/http"
	"sync"

	"github.com/spacemonkeygo/monkit/v3"
	"github.com/zeebo/errs"
	"go.uber.org/zap"
)

var (
	mon = monkit.Package()

	// Error is the error class for tracker errors.
	Error = errs.Class("tracker")
)

// Tracker coordinates configuration and outbound telemetry.
//
// architecture: Service
type Tracker struct {
	log  *zap.Logger
	host Host

	mu                   sync.Mutex
	endpoint             string
	sessionID            string
	method               string
	attachClientContext  bool
	sendCaughtExceptions bool
	devMode              bool
	clientContext        *ClientContext
	queryParams          map[string]string
	timers               map[string]float64
	unsubscribe          func()
}

// New creates a tracker with the default configuration. Until an endpoint is
// configured every tracking call is a no-op.
func New(log *zap.Logger, host Host) *Tracker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracker{
		log:                 log,
		host:                host,
		method:              http.MethodPost,
		attachClientContext: true,
		queryParams:         make(map[string]string),
		timers:              make(map[string]float64),
	}
}

// Endpoint returns the configured endpoint.
func (tracker *Tracker) Endpoint() string {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	return tracker.endpoint
}

// SessionID returns the current in-memory session identifier.
func (tracker *Tracker) SessionID() string {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	return tracker.sessionID
}

// HTTPMethod returns the method used for tracking requests.
func (tracker *Tracker) HTTPMethod() string {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	return tracker.method
}

// DevMode returns whether requests are traced instead of sent.
func (tracker *Tracker) DevMode() bool {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	return tracker.devMode
}

// AttachClientContext returns whether the client context is attached to payloads.
func (tracker *Tracker) AttachClientContext() bool {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	return tracker.attachClientContext
}

// SendCaughtExceptions returns whether host errors are reported.
func (tracker *Tracker) SendCaughtExceptions() bool {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	return tracker.sendCaughtExceptions
}

// Close stops observing host errors.
func (tracker *Tracker) Close() {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	tracker.stopObservingErrors()
}
