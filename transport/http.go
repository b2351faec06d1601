// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package transport

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"go.uber.org/zap"

	"storj.io/tracker/tracker"
)

// HTTP sends tracking requests over http without waiting for responses.
// Requests go out one at a time, in the order they were sent.
//
// architecture: Client
type HTTP struct {
	log    *zap.Logger
	client *http.Client

	queue queue
}

// NewHTTP creates a new http transport using client.
func NewHTTP(log *zap.Logger, client *http.Client) *HTTP {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTP{
		log:    log,
		client: client,
	}
}

// Send queues req for delivery in the background. Only failures to construct
// the request are returned.
func (transport *HTTP) Send(req tracker.Request) error {
	body := io.Reader(http.NoBody)
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	request, err := http.NewRequest(req.Method, req.URL, body)
	if err != nil {
		return Error.Wrap(err)
	}
	for key, values := range req.Header {
		for _, value := range values {
			request.Header.Add(key, value)
		}
	}

	transport.queue.add(func() { transport.do(request) })
	return nil
}

func (transport *HTTP) do(request *http.Request) {
	var err error
	ctx := request.Context()
	defer mon.Task()(&ctx)(&err)

	resp, err := transport.client.Do(request)
	if err != nil {
		transport.log.Debug("tracking request failed",
			zap.String("method", request.Method),
			zap.String("url", request.URL.String()),
			zap.Error(err))
		return
	}
	defer func() { _ = resp.Body.Close() }()

	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err = Error.New("unexpected status %s", resp.Status)
		transport.log.Debug("tracking request rejected",
			zap.String("method", request.Method),
			zap.String("url", request.URL.String()),
			zap.Int("status", resp.StatusCode))
	}
}

// Close waits for queued requests to finish or ctx to be done.
func (transport *HTTP) Close(ctx context.Context) error {
	return Error.Wrap(transport.queue.wait(ctx))
}
