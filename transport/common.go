// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package transport implements the transports tracking requests are sent with.
package transport

import (
	"context"
	"net/http"
	"time"

	"github.com/spacemonkeygo/monkit/v3"
	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"storj.io/tracker/tracker"
)

var (
	mon = monkit.Package()

	// Error is the error class for transports.
	Error = errs.Class("transport")
)

// Transport is a tracker transport whose in-flight requests can be awaited.
type Transport interface {
	tracker.Transport
	// Close waits for in-flight requests until ctx is done.
	Close(ctx context.Context) error
}

// Config configures the transport.
type Config struct {
	Kind            string        `help:"transport used for tracking requests (http or segment)" default:"http"`
	Timeout         time.Duration `help:"timeout for a single tracking request" default:"10s"`
	SegmentWriteKey string        `help:"segment write key used by the segment transport" default:""`
}

// Open creates the transport selected by config.
func Open(log *zap.Logger, config Config) (Transport, error) {
	if log == nil {
		log = zap.NewNop()
	}

	client := &http.Client{Timeout: config.Timeout}
	switch config.Kind {
	case "", "http":
		return NewHTTP(log.Named("http"), client), nil
	case "segment":
		return NewSegment(log.Named("segment"), config.SegmentWriteKey, client.Transport), nil
	default:
		return nil, Error.New("unknown transport %q", config.Kind)
	}
}
