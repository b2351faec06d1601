// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package browser_test

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"storj.io/tracker/browser"
	"storj.io/tracker/tracker"
)

// sent remembers every request handed to it.
type sent struct {
	mu     sync.Mutex
	bodies []map[string]any
}

func (sent *sent) Send(req tracker.Request) error {
	var body map[string]any
	if err := json.Unmarshal(req.Body, &body); err != nil {
		return err
	}

	sent.mu.Lock()
	defer sent.mu.Unlock()
	sent.bodies = append(sent.bodies, body)
	return nil
}

func (sent *sent) Count() int {
	sent.mu.Lock()
	defer sent.mu.Unlock()
	return len(sent.bodies)
}

// page is a window.tracker property.
type page struct {
	foreign   bool
	queue     tracker.Queue
	array     bool
	published *tracker.Tracker
	publishes int

	// sentAtPublish is the number of requests sent when the tracker was
	// published.
	sentAtPublish int
	transport     *sent
}

func (page *page) Published() bool { return page.foreign || page.published != nil }

func (page *page) Queue() (tracker.Queue, bool) { return page.queue, page.array }

func (page *page) Publish(tr *tracker.Tracker) {
	page.publishes++
	page.published = tr
	page.sentAtPublish = page.transport.Count()
}

func constructor(t *testing.T, transport *sent) (construct func() *tracker.Tracker, calls *int) {
	calls = new(int)
	return func() *tracker.Tracker {
		*calls++
		return tracker.New(zaptest.NewLogger(t), tracker.Host{Transport: transport})
	}, calls
}

func TestInstall_DrainsQueue(t *testing.T) {
	transport := &sent{}
	window := &page{
		array: true,
		queue: tracker.Queue{
			map[string]any{"endpoint": "https://example.test/track", "sessionId": "S", "attachClientContext": false},
			"hello",
			map[string]any{"a": float64(1)},
			float64(42),
		},
		transport: transport,
	}

	var installer browser.Installer
	construct, calls := constructor(t, transport)

	tr, err := installer.Install(window, construct)
	require.NoError(t, err)
	require.Equal(t, 1, *calls)
	require.Same(t, tr, window.published)
	require.Equal(t, "https://example.test/track", tr.Endpoint())

	require.Equal(t, []map[string]any{
		{"text": "hello", "sessionId": "S"},
		{"a": float64(1), "sessionId": "S"},
	}, transport.bodies)

	// the queue was fully drained before the tracker became visible
	require.Equal(t, 2, window.sentAtPublish)
}

func TestInstall_ReusesPublished(t *testing.T) {
	transport := &sent{}
	window := &page{
		array:     true,
		queue:     tracker.Queue{map[string]any{"endpoint": "https://example.test/track", "sessionId": "S"}, "hello"},
		transport: transport,
	}

	var installer browser.Installer
	construct, calls := constructor(t, transport)

	first, err := installer.Install(window, construct)
	require.NoError(t, err)
	first.Push(map[string]any{"devMode": true})

	second, err := installer.Install(window, construct)
	require.NoError(t, err)
	require.Same(t, first, second)
	require.Equal(t, 1, *calls)
	require.Equal(t, 1, window.publishes)
	require.Equal(t, 1, transport.Count())
	require.True(t, second.DevMode())
}

func TestInstall_WithoutQueue(t *testing.T) {
	transport := &sent{}
	window := &page{transport: transport}

	var installer browser.Installer
	construct, calls := constructor(t, transport)

	tr, err := installer.Install(window, construct)
	require.NoError(t, err)
	require.Equal(t, 1, *calls)
	require.Same(t, tr, window.published)
	require.Empty(t, tr.Endpoint())
	require.Equal(t, "POST", tr.HTTPMethod())
	require.Zero(t, transport.Count())
}

func TestInstall_NoWindow(t *testing.T) {
	var installer browser.Installer
	construct, calls := constructor(t, &sent{})

	_, err := installer.Install(nil, construct)
	require.ErrorIs(t, err, browser.ErrNoWindow)
	require.Zero(t, *calls)
}

func TestInstall_ForeignTracker(t *testing.T) {
	window := &page{foreign: true, transport: &sent{}}

	var installer browser.Installer
	construct, calls := constructor(t, window.transport)

	_, err := installer.Install(window, construct)
	require.Error(t, err)
	require.True(t, browser.Error.Has(err))
	require.Zero(t, *calls)
	require.Zero(t, window.publishes)
}
