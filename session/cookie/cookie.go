// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package cookie reads and writes the session cookie. It has no storage
// dependencies so that it can be used by the browser host.
package cookie

import (
	"strings"
)

// Name is the name of the cookie holding the session identifier.
const Name = "trcksesh"

// Parse returns the value of the session cookie in a cookie header, or an
// empty string when there is none. Values are returned as written.
func Parse(header string) string {
	for _, pair := range strings.Split(header, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if ok && name == Name {
			return value
		}
	}
	return ""
}

// Format returns the cookie assignment storing id. The value is written raw,
// without expiry or path attributes.
func Format(id string) string {
	return Name + "=" + id
}
