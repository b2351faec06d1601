// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package session

import (
	"github.com/spacemonkeygo/monkit/v3"
	"github.com/zeebo/errs"

	"storj.io/tracker/session/cookie"
	"storj.io/tracker/tracker"
)

var (
	mon = monkit.Package()

	// Error is the error class for session stores.
	Error = errs.Class("session")
)

// CookieName is the name the session identifier is stored under.
const CookieName = cookie.Name

// Store is a session store that holds resources.
type Store interface {
	tracker.SessionStore
	Close() error
}
