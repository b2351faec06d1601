// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

/*
Package tracker implements a client-side event tracker.

A Tracker buffers nothing: every pushed item is either configuration, data, or
both. Configuration keys are applied and stripped, whatever data remains is
decorated with the session identifier (and optionally the client context) and
handed to a Transport without waiting for the result.

Callers that need to record items before the tracker exists push them into a
Handle. Installing the tracker on the Handle drains the buffered items through
the regular intake path in their original order and publishes the tracker as
the final step. Installing again reuses the published tracker.

	var handle tracker.Handle
	handle.Push(tracker.Payload{"endpoint": "https://example.test/track"})
	handle.Push("page loaded")

	t, err := handle.Install(func() *tracker.Tracker {
		return tracker.New(log, host)
	})
*/
package tracker
