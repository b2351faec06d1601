// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package hostenv

import (
	"sync"

	"go.uber.org/zap/zapcore"

	"storj.io/tracker/tracker"
)

// ErrorHub distributes errors observed in the process to subscribers. It
// implements tracker.ErrorSource.
type ErrorHub struct {
	mu          sync.Mutex
	next        int
	subscribers []subscriber
}

type subscriber struct {
	id int
	fn func(tracker.ErrorReport)
}

// NewErrorHub returns a hub without subscribers.
func NewErrorHub() *ErrorHub {
	return &ErrorHub{}
}

// Subscribe registers fn until the returned function is called.
func (hub *ErrorHub) Subscribe(fn func(tracker.ErrorReport)) (unsubscribe func()) {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	hub.next++
	id := hub.next
	hub.subscribers = append(hub.subscribers, subscriber{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { hub.remove(id) })
	}
}

func (hub *ErrorHub) remove(id int) {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	for i, subscriber := range hub.subscribers {
		if subscriber.id == id {
			hub.subscribers = append(hub.subscribers[:i:i], hub.subscribers[i+1:]...)
			return
		}
	}
}

// Subscribers returns the number of subscribers.
func (hub *ErrorHub) Subscribers() int {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	return len(hub.subscribers)
}

// Report calls every subscriber with report, in subscription order.
func (hub *ErrorHub) Report(report tracker.ErrorReport) {
	hub.mu.Lock()
	subscribers := append([]subscriber(nil), hub.subscribers...)
	hub.mu.Unlock()

	for _, subscriber := range subscribers {
		subscriber.fn(report)
	}
}

// ReportError reports err.
func (hub *ErrorHub) ReportError(err error) {
	if err == nil {
		return
	}
	hub.Report(tracker.ErrorReport{Message: err.Error(), Err: err})
}

// Hook reports log entries at error level or above. It is meant to be
// installed with zap.Hooks.
func (hub *ErrorHub) Hook(entry zapcore.Entry) error {
	if entry.Level < zapcore.ErrorLevel {
		return nil
	}
	hub.Report(tracker.ErrorReport{
		Message: entry.Message,
		Source:  entry.Caller.File,
		Line:    entry.Caller.Line,
		Stack:   entry.Stack,
	})
	return nil
}
