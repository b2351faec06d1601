// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package tracker_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"storj.io/tracker/tracker"
)

func queuedItems() []any {
	return []any{
		tracker.Payload{"endpoint": "E", "sessionId": "S"},
		"first",
		42,
		map[string]any{"httpMethod": "GET", "step": 2},
		tracker.Payload{},
		tracker.Payload{"devMode": true, "dropped": true},
		tracker.Payload{"devMode": false, "step": 3},
	}
}

func TestHandle_DrainMatchesDirectCalls(t *testing.T) {
	direct := newFixture()
	tr := direct.newTracker(t)
	for _, item := range queuedItems() {
		tr.Push(item)
	}

	buffered := newFixture()
	var handle tracker.Handle
	for _, item := range queuedItems() {
		handle.Push(item)
	}
	require.Equal(t, len(queuedItems()), handle.Pending())
	require.Nil(t, handle.Tracker())
	require.Empty(t, buffered.transport.Requests())

	installed, err := handle.Install(func() *tracker.Tracker { return buffered.newTracker(t) })
	require.NoError(t, err)
	require.Same(t, installed, handle.Tracker())
	require.Zero(t, handle.Pending())

	expected, actual := direct.transport.Requests(), buffered.transport.Requests()
	require.Len(t, actual, 3)
	require.Equal(t, len(expected), len(actual))
	for i := range expected {
		require.Equal(t, expected[i].Method, actual[i].Method)
		require.Equal(t, expected[i].URL, actual[i].URL)
		require.Equal(t, expected[i].Body, actual[i].Body)
		require.Equal(t, expected[i].Payload, actual[i].Payload)
	}
	require.Equal(t, "first", actual[0].Payload["text"])
	require.Equal(t, 2, actual[1].Payload["step"])
	require.Equal(t, 3, actual[2].Payload["step"])
}

func TestHandle_InstallTwice(t *testing.T) {
	fixture := newFixture()

	var handle tracker.Handle
	handle.Push(tracker.Payload{"endpoint": "E", "sessionId": "S"})
	handle.Push("buffered")

	constructed := 0
	construct := func() *tracker.Tracker {
		constructed++
		return fixture.newTracker(t)
	}

	first, err := handle.Install(construct)
	require.NoError(t, err)
	require.Len(t, fixture.transport.Requests(), 1)

	first.Push(tracker.Payload{"httpMethod": "GET"})

	second, err := handle.Install(construct)
	require.NoError(t, err)
	require.Same(t, first, second)
	require.Equal(t, 1, constructed)
	require.Len(t, fixture.transport.Requests(), 1)
	require.Equal(t, "GET", second.HTTPMethod())
	require.Equal(t, "E", second.Endpoint())
}

func TestHandle_PushAfterInstall(t *testing.T) {
	fixture := newFixture()

	var handle tracker.Handle
	_, err := handle.Install(func() *tracker.Tracker { return fixture.newTracker(t) })
	require.NoError(t, err)

	handle.Push(tracker.Payload{"endpoint": "E", "sessionId": "S"})
	handle.Push("direct")

	require.Zero(t, handle.Pending())
	requests := fixture.transport.Requests()
	require.Len(t, requests, 1)
	require.Equal(t, "direct", requests[0].Payload["text"])
}

func TestHandle_Nil(t *testing.T) {
	var handle *tracker.Handle
	installed, err := handle.Install(func() *tracker.Tracker {
		t.Fatal("constructed without a handle")
		return nil
	})
	require.Nil(t, installed)
	require.ErrorIs(t, err, tracker.ErrNoHandle)
	require.True(t, tracker.Error.Has(err))
}

func TestResolve(t *testing.T) {
	fixture := newFixture()

	constructed := 0
	construct := func() *tracker.Tracker {
		constructed++
		return fixture.newTracker(t)
	}

	existing := fixture.newTracker(t)
	existing.Push(tracker.Payload{"endpoint": "E", "sessionId": "S"})
	require.Same(t, existing, tracker.Resolve(existing, construct))
	require.Zero(t, constructed)
	require.Equal(t, "E", existing.Endpoint())

	for _, unrecognized := range []any{nil, "queue", 7, map[string]any{"endpoint": "E"}, (*tracker.Tracker)(nil)} {
		resolved := tracker.Resolve(unrecognized, construct)
		require.NotNil(t, resolved)
		require.Empty(t, resolved.Endpoint())
	}
	require.Equal(t, 5, constructed)

	resolved := tracker.Resolve(tracker.Queue{tracker.Payload{"endpoint": "Q", "sessionId": "S"}, "a"}, construct)
	require.Equal(t, "Q", resolved.Endpoint())

	resolved = tracker.Resolve([]any{tracker.Payload{"endpoint": "A", "sessionId": "S"}, "b"}, construct)
	require.Equal(t, "A", resolved.Endpoint())

	resolved = tracker.Resolve(tracker.Queue{}, construct)
	require.Empty(t, resolved.Endpoint())
	require.Equal(t, 8, constructed)

	requests := fixture.transport.Requests()
	require.Len(t, requests, 2)
	require.Equal(t, "Q", requests[0].URL)
	require.Equal(t, "A", requests[1].URL)
}
