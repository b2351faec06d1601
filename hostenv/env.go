// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package hostenv implements the tracker host environment of a Go process.
package hostenv

import (
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"storj.io/tracker/tracker"
)

// Config configures the reported client context.
type Config struct {
	URL string `help:"url reported in the client context, defaults to process://<hostname>/<executable>" default:""`
}

// Environment reports the client context of the running process.
type Environment struct {
	context tracker.ClientContext
}

// New returns the environment of the running process.
func New(config Config) *Environment {
	address := config.URL
	if address == "" {
		address = processURL()
	}
	return &Environment{
		context: tracker.ClientContext{
			URL:       address,
			UserAgent: UserAgent(),
			Platform:  Platform(),
		},
	}
}

// ClientContext implements tracker.Environment.
func (env *Environment) ClientContext() tracker.ClientContext {
	return env.context
}

// UserAgent identifies the tracker library and the Go runtime.
func UserAgent() string {
	return "storj.io/tracker (" + runtime.Version() + "; " + runtime.GOOS + "/" + runtime.GOARCH + ")"
}

// Platform describes the operating system and architecture.
func Platform() string {
	return runtime.GOOS + " " + runtime.GOARCH
}

func processURL() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "localhost"
	}

	name := "unknown"
	if executable, err := os.Executable(); err == nil {
		name = strings.TrimSuffix(filepath.Base(executable), filepath.Ext(executable))
	}

	return (&url.URL{Scheme: "process", Host: host, Path: "/" + name}).String()
}

// Clock is a monotonic clock measuring milliseconds since it was created.
type Clock struct {
	start time.Time
}

// NewClock returns a clock starting at zero.
func NewClock() *Clock {
	return &Clock{start: time.Now()}
}

// Now implements tracker.Clock.
func (clock *Clock) Now() float64 {
	return float64(time.Since(clock.start)) / float64(time.Millisecond)
}
