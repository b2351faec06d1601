// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package session implements stores for the tracker session identifier.
//
// Every store keeps a single identifier under the cookie name trcksesh. The
// Jar emulates a browser cookie jar, Bolt persists the identifier in a local
// file and Redis shares it between processes.
package session
