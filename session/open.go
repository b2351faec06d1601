// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package session

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Config selects the session store.
type Config struct {
	Store string `help:"session store: memory, bolt://path, redis://host:port?db=0 or a file path" default:"$CONFDIR/session.db"`
}

// Open opens the store described by address. An empty address or "memory"
// gives a Jar, redis:// addresses give a Redis store and anything else is a
// bolt database path, optionally prefixed with bolt://.
func Open(ctx context.Context, log *zap.Logger, address string) (_ Store, err error) {
	defer mon.Task()(&ctx)(&err)

	if log == nil {
		log = zap.NewNop()
	}

	var store Store
	switch {
	case address == "" || address == "memory":
		store = NewJar("")
	case strings.HasPrefix(address, "redis://"):
		store, err = OpenRedisFrom(ctx, address)
	default:
		store, err = OpenBolt(strings.TrimPrefix(address, "bolt://"))
	}
	if err != nil {
		return nil, err
	}

	return NewLogger(log.Named("session"), store), nil
}
