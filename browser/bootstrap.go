// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package browser

import (
	"sync"

	"storj.io/tracker/tracker"
)

// HandleName is the window property holding the pre-load queue or tracker.
const HandleName = "tracker"

// ErrNoWindow is returned when there is no page to install the tracker on.
var ErrNoWindow = Error.New("no window to install the tracker on")

// Global is the page property the tracker is published on.
type Global interface {
	// Published reports whether the property holds a published tracker.
	Published() bool
	// Queue returns the items of the pre-load array held by the property.
	Queue() (tracker.Queue, bool)
	// Publish assigns tr to the property.
	Publish(tr *tracker.Tracker)
}

// Installer performs the bootstrap against a Global. The zero value is
// ready to use.
type Installer struct {
	mu        sync.Mutex
	installed *tracker.Tracker
}

// Install reuses a published tracker as is. Otherwise the items of a
// pre-load array are drained, in order, into a new tracker which is then
// published as the final step.
func (installer *Installer) Install(global Global, construct func() *tracker.Tracker) (*tracker.Tracker, error) {
	if global == nil {
		return nil, ErrNoWindow
	}

	installer.mu.Lock()
	defer installer.mu.Unlock()

	if global.Published() {
		if installer.installed == nil {
			return nil, Error.New("window.%s was installed by another runtime", HandleName)
		}
		return installer.installed, nil
	}

	var handle tracker.Handle
	if queue, ok := global.Queue(); ok {
		for _, item := range queue {
			handle.Push(item)
		}
	}

	tr, err := handle.Install(construct)
	if err != nil {
		return nil, err
	}

	installer.installed = tr
	global.Publish(tr)
	return tr, nil
}
