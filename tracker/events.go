// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package tracker

import (
	"fmt"
)

// Exception describes an error reported to the endpoint.
type Exception struct {
	Message string `json:"message"`
	LineNo  int    `json:"lineno"`
	ColNo   int    `json:"colno"`
	Stack   string `json:"stack"`
}

// noStack is reported when an exception carries no error value.
const noStack = "n/a"

// LogEvent sends a named event. Keys in extra are sent alongside it.
func (tracker *Tracker) LogEvent(name string, extra Payload) {
	data := extra.Clone()
	data["type"] = "event"
	data["event"] = name
	tracker.Push(data)
}

// LogException sends an exception.
func (tracker *Tracker) LogException(exception Exception) {
	tracker.Push(Payload{
		"level":     "error",
		"type":      "exception",
		"exception": exception,
	})
}

// LogMessage sends a text message at the given level, "info" when empty.
func (tracker *Tracker) LogMessage(message, level string) {
	if level == "" {
		level = "info"
	}
	tracker.Push(Payload{
		"type":    "message",
		"level":   level,
		"message": message,
	})
}

// LogMetric sends a metric value.
func (tracker *Tracker) LogMetric(name string, value float64) {
	tracker.Push(Payload{
		"type":   "metric",
		"metric": name,
		"value":  value,
	})
}

// OnError reports an error observed by the host as an exception. It is
// subscribed to the host's error source while sendCaughtExceptions is set,
// and can be called directly by hosts chaining their own error handlers.
func (tracker *Tracker) OnError(message, source string, line, col int, err error) {
	tracker.LogException(Exception{
		Message: message,
		LineNo:  line,
		ColNo:   col,
		Stack:   stackOf(err),
	})
}

func (tracker *Tracker) onErrorReport(report ErrorReport) {
	exception := Exception{
		Message: report.Message,
		LineNo:  report.Line,
		ColNo:   report.Column,
		Stack:   report.Stack,
	}
	if exception.Stack == "" {
		exception.Stack = stackOf(report.Err)
	}
	tracker.LogException(exception)
}

// stackOf renders err with its stack trace when it carries one.
func stackOf(err error) string {
	if err == nil {
		return noStack
	}
	return fmt.Sprintf("%+v", err)
}

// observeErrors subscribes to the host error source unless already
// subscribed. The caller must hold mu.
func (tracker *Tracker) observeErrors() {
	if tracker.unsubscribe != nil || tracker.host.Errors == nil {
		return
	}
	tracker.unsubscribe = tracker.host.Errors.Subscribe(tracker.onErrorReport)
}

// stopObservingErrors removes the subscription. The caller must hold mu.
func (tracker *Tracker) stopObservingErrors() {
	if tracker.unsubscribe == nil {
		return
	}
	tracker.unsubscribe()
	tracker.unsubscribe = nil
}
