// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package session

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zeebo/errs"
)

// Redis stores the session identifier in redis.
type Redis struct {
	db *redis.Client

	// Key is the redis key holding the identifier.
	Key string
	// TTL expires the identifier when positive.
	TTL time.Duration
	// Timeout bounds every redis operation when positive.
	Timeout time.Duration
}

// OpenRedis returns a configured Redis instance, verifying a successful connection to redis.
func OpenRedis(ctx context.Context, address, password string, db int) (*Redis, error) {
	store := &Redis{
		db: redis.NewClient(&redis.Options{
			Addr:     address,
			Password: password,
			DB:       db,
		}),
		Key:     CookieName,
		Timeout: defaultTimeout,
	}

	// ping here to verify we are able to connect to redis with the initialized client.
	if err := store.db.Ping(ctx).Err(); err != nil {
		return nil, errs.Combine(Error.New("ping failed: %v", err), store.db.Close())
	}

	return store, nil
}

// OpenRedisFrom returns a configured Redis instance from a
// redis://host:port?db=0&password=&key= formatted address.
func OpenRedisFrom(ctx context.Context, address string) (*Redis, error) {
	redisurl, err := url.Parse(address)
	if err != nil {
		return nil, Error.Wrap(err)
	}

	if redisurl.Scheme != "redis" {
		return nil, Error.New("not a redis:// formatted address")
	}

	q := redisurl.Query()

	db := 0
	if value := q.Get("db"); value != "" {
		db, err = strconv.Atoi(value)
		if err != nil {
			return nil, Error.Wrap(err)
		}
	}

	store, err := OpenRedis(ctx, redisurl.Host, q.Get("password"), db)
	if err != nil {
		return nil, err
	}
	if key := q.Get("key"); key != "" {
		store.Key = key
	}
	return store, nil
}

// Read returns the stored session identifier.
func (store *Redis) Read(ctx context.Context) (_ string, err error) {
	defer mon.Task()(&ctx)(&err)
	ctx, cancel := store.withTimeout(ctx)
	defer cancel()

	id, err := store.db.Get(ctx, store.Key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return id, Error.Wrap(err)
}

// Write replaces the stored session identifier.
func (store *Redis) Write(ctx context.Context, id string) (err error) {
	defer mon.Task()(&ctx)(&err)
	ctx, cancel := store.withTimeout(ctx)
	defer cancel()

	return Error.Wrap(store.db.Set(ctx, store.Key, id, store.TTL).Err())
}

func (store *Redis) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if store.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, store.Timeout)
}

// Close closes the redis client.
func (store *Redis) Close() error {
	return Error.Wrap(store.db.Close())
}
