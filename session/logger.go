// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package session

import (
	"context"
	"strconv"
	"sync/atomic"

	"go.uber.org/zap"
)

var loggerID int64

// Logger logs every operation of the wrapped store.
type Logger struct {
	log   *zap.Logger
	store Store
}

// NewLogger wraps store with a uniquely named logger.
func NewLogger(log *zap.Logger, store Store) *Logger {
	name := strconv.FormatInt(atomic.AddInt64(&loggerID, 1), 10)
	return &Logger{log: log.Named(name), store: store}
}

// Read returns the stored session identifier.
func (store *Logger) Read(ctx context.Context) (string, error) {
	id, err := store.store.Read(ctx)
	store.log.Debug("Read", zap.String("id", id), zap.Error(err))
	return id, err
}

// Write replaces the stored session identifier.
func (store *Logger) Write(ctx context.Context, id string) error {
	store.log.Debug("Write", zap.String("id", id))
	return store.store.Write(ctx, id)
}

// Close closes the store.
func (store *Logger) Close() error {
	store.log.Debug("Close")
	return store.store.Close()
}
