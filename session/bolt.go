// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package session

import (
	"context"
	"time"

	"github.com/zeebo/errs"
	"go.etcd.io/bbolt"
)

var (
	defaultTimeout = 1 * time.Second

	bucketName = []byte("session")
)

const (
	// fileMode sets permissions so owner can read and write
	fileMode = 0600
)

// Bolt stores the session identifier in a bolt database.
type Bolt struct {
	db   *bbolt.DB
	Path string
}

// OpenBolt opens or creates the database at path.
func OpenBolt(path string) (*Bolt, error) {
	db, err := bbolt.Open(path, fileMode, &bbolt.Options{Timeout: defaultTimeout})
	if err != nil {
		return nil, Error.Wrap(err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		return nil, Error.Wrap(errs.Combine(err, db.Close()))
	}

	return &Bolt{db: db, Path: path}, nil
}

// Read returns the stored session identifier.
func (store *Bolt) Read(ctx context.Context) (id string, err error) {
	defer mon.Task()(&ctx)(&err)

	err = store.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketName)
		if bucket == nil {
			return nil
		}
		id = string(bucket.Get([]byte(CookieName)))
		return nil
	})
	return id, Error.Wrap(err)
}

// Write replaces the stored session identifier.
func (store *Bolt) Write(ctx context.Context, id string) (err error) {
	defer mon.Task()(&ctx)(&err)

	return Error.Wrap(store.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(CookieName), []byte(id))
	}))
}

// Close closes the database.
func (store *Bolt) Close() error {
	return Error.Wrap(store.db.Close())
}
