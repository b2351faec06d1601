// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package tracker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"storj.io/common/uuid"
)

// SetSession establishes the session identifier and returns it. An explicit
// id always wins; otherwise the in-memory id is kept, then the stored id is
// used, and finally a new random id is generated. The result is always
// written back to the session store.
func (tracker *Tracker) SetSession(id string) string {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	return tracker.setSession(id)
}

// setSession implements SetSession. The caller must hold mu.
func (tracker *Tracker) setSession(explicit string) string {
	id := explicit
	if id == "" {
		id = tracker.sessionID
	}
	if id == "" {
		id = tracker.readSession()
	}
	if id == "" {
		id = tracker.newSession()
	}

	// keep the resolved id in memory before persisting, the store is never
	// consulted again once an in-memory id exists.
	tracker.sessionID = id
	tracker.writeSession(id)
	return id
}

// sessionTimeout bounds a single session store operation.
const sessionTimeout = 5 * time.Second

func (tracker *Tracker) readSession() string {
	if tracker.host.Sessions == nil {
		return ""
	}
	ctx, cancel := context.WithTimeout(context.Background(), sessionTimeout)
	defer cancel()

	id, err := tracker.host.Sessions.Read(ctx)
	if err != nil {
		tracker.log.Debug("failed to read session", zap.Error(err))
		return ""
	}
	return id
}

func (tracker *Tracker) writeSession(id string) {
	if tracker.host.Sessions == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), sessionTimeout)
	defer cancel()

	if err := tracker.host.Sessions.Write(ctx, id); err != nil {
		tracker.log.Debug("failed to write session", zap.Error(err))
	}
}

func (tracker *Tracker) newSession() string {
	id, err := uuid.New()
	if err != nil {
		tracker.log.Debug("failed to generate session", zap.Error(err))
		return ""
	}
	return id.String()
}
