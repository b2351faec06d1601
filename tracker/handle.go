// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package tracker

import (
	"sync"
)

// ErrNoHandle is returned when there is no handle to publish a tracker on.
var ErrNoHandle = Error.New("no handle to install the tracker on")

// Queue is the pre-load buffer: items pushed before a tracker exists.
type Queue []any

// Resolve returns the tracker that should be published in place of existing.
// An existing tracker is reused unchanged. A queue is drained in order into a
// newly constructed tracker. Anything else results in a new tracker.
func Resolve(existing any, construct func() *Tracker) *Tracker {
	switch v := existing.(type) {
	case *Tracker:
		if v != nil {
			return v
		}
		return construct()
	case Queue:
		return drain(construct(), v)
	case []any:
		return drain(construct(), v)
	default:
		return construct()
	}
}

func drain(tracker *Tracker, queue []any) *Tracker {
	for _, item := range queue {
		tracker.Push(item)
	}
	return tracker
}

// Handle is the single injection point for a tracker. Until a tracker is
// installed, pushed items are buffered; afterwards they are forwarded.
//
// The zero value is an empty handle ready to use.
type Handle struct {
	mu      sync.Mutex
	pending Queue
	tracker *Tracker
}

// Push forwards item to the installed tracker or buffers it.
func (handle *Handle) Push(item any) {
	handle.mu.Lock()
	tracker := handle.tracker
	if tracker == nil {
		handle.pending = append(handle.pending, item)
	}
	handle.mu.Unlock()

	if tracker != nil {
		tracker.Push(item)
	}
}

// Pending returns the number of buffered items.
func (handle *Handle) Pending() int {
	handle.mu.Lock()
	defer handle.mu.Unlock()
	return len(handle.pending)
}

// Tracker returns the installed tracker, or nil.
func (handle *Handle) Tracker() *Tracker {
	handle.mu.Lock()
	defer handle.mu.Unlock()
	return handle.tracker
}

// Install resolves the handle contents into a tracker and publishes it. The
// buffered items are drained before the tracker becomes visible through the
// handle. Installing again returns the published tracker without calling
// construct.
func (handle *Handle) Install(construct func() *Tracker) (*Tracker, error) {
	if handle == nil {
		return nil, ErrNoHandle
	}

	handle.mu.Lock()
	defer handle.mu.Unlock()

	var existing any = handle.pending
	if handle.tracker != nil {
		existing = handle.tracker
	}

	tracker := Resolve(existing, construct)
	handle.pending = nil
	handle.tracker = tracker
	return tracker, nil
}
