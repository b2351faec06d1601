// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package session

import (
	"context"
	"strings"
	"sync"

	"storj.io/tracker/session/cookie"
)

// Jar is an in-memory cookie jar with the semantics of document.cookie:
// reading returns every cookie, assigning replaces a single cookie. The
// session identifier written through Write is kept verbatim.
type Jar struct {
	mu      sync.Mutex
	names   []string
	cookies map[string]string
}

// NewJar returns a jar holding the cookies in header.
func NewJar(header string) *Jar {
	jar := &Jar{cookies: map[string]string{}}
	for _, pair := range strings.Split(header, ";") {
		jar.SetCookie(pair)
	}
	return jar
}

// Cookie returns all cookies as a cookie header.
func (jar *Jar) Cookie() string {
	jar.mu.Lock()
	defer jar.mu.Unlock()

	pairs := make([]string, 0, len(jar.names))
	for _, name := range jar.names {
		pairs = append(pairs, name+"="+jar.cookies[name])
	}
	return strings.Join(pairs, "; ")
}

// SetCookie assigns a single cookie. Attributes after the first ';' are
// ignored.
func (jar *Jar) SetCookie(assignment string) {
	pair, _, _ := strings.Cut(assignment, ";")
	name, value, _ := strings.Cut(pair, "=")
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}

	jar.set(name, strings.TrimSpace(value))
}

func (jar *Jar) set(name, value string) {
	jar.mu.Lock()
	defer jar.mu.Unlock()

	if jar.cookies == nil {
		jar.cookies = map[string]string{}
	}
	if _, ok := jar.cookies[name]; !ok {
		jar.names = append(jar.names, name)
	}
	jar.cookies[name] = value
}

// Read returns the session identifier.
func (jar *Jar) Read(ctx context.Context) (string, error) {
	jar.mu.Lock()
	defer jar.mu.Unlock()
	return jar.cookies[cookie.Name], nil
}

// Write stores the session identifier as is.
func (jar *Jar) Write(ctx context.Context, id string) error {
	jar.set(cookie.Name, id)
	return nil
}

// Close does nothing.
func (jar *Jar) Close() error { return nil }
