// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package tracker

import (
	"math"

	"go.uber.org/zap"
)

// StartTimer records the current time for the metric name. Starting a
// running timer restarts it.
func (tracker *Tracker) StartTimer(name string) {
	if tracker.host.Clock == nil {
		return
	}

	tracker.mu.Lock()
	defer tracker.mu.Unlock()

	if _, ok := tracker.timers[name]; ok && tracker.devMode {
		tracker.log.Warn("timing metric already started", zap.String("metric", name))
	}
	tracker.log.Debug("timer started", zap.String("metric", name))
	tracker.timers[name] = tracker.host.Clock.Now()
}

// StopTimer sends the milliseconds elapsed since StartTimer as a metric.
// Stopping a timer that was not started does nothing.
func (tracker *Tracker) StopTimer(name string) {
	if tracker.host.Clock == nil {
		return
	}
	stop := tracker.host.Clock.Now()

	tracker.mu.Lock()
	start, ok := tracker.timers[name]
	if !ok {
		if tracker.devMode {
			tracker.log.Warn("timing metric was not started", zap.String("metric", name))
		}
		tracker.mu.Unlock()
		return
	}
	delete(tracker.timers, name)
	tracker.mu.Unlock()

	elapsed := roundHalfUp(stop - start)
	tracker.log.Debug("timer stopped", zap.String("metric", name), zap.Float64("elapsed", elapsed))
	tracker.LogMetric(name, elapsed)
}

// roundHalfUp rounds to the nearest integer with halves rounded towards
// positive infinity.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
