// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package transport

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/zeebo/errs"
	"go.uber.org/zap"
	segment "gopkg.in/segmentio/analytics-go.v3"

	"storj.io/common/uuid"
	"storj.io/tracker/tracker"
)

// Segment delivers tracking requests as Segment track calls. The tracker
// endpoint is used as the Segment API endpoint and the session identifier as
// the anonymous id. A track call is enqueued only after the previous one was
// delivered or failed, so calls go out in the order they were sent.
//
// architecture: Client
type Segment struct {
	log          *zap.Logger
	writeKey     string
	roundTripper http.RoundTripper

	queue queue

	mu        sync.Mutex
	clients   map[string]segment.Client
	delivered map[string]chan struct{}
}

// NewSegment creates a Segment transport. A nil roundTripper uses the default
// http transport.
func NewSegment(log *zap.Logger, writeKey string, roundTripper http.RoundTripper) *Segment {
	return &Segment{
		log:          log,
		writeKey:     writeKey,
		roundTripper: roundTripper,
		clients:      make(map[string]segment.Client),
		delivered:    make(map[string]chan struct{}),
	}
}

// Send queues the request payload as a track call.
func (transport *Segment) Send(req tracker.Request) error {
	endpoint, err := segmentEndpoint(req.URL)
	if err != nil {
		return err
	}

	client, err := transport.client(endpoint)
	if err != nil {
		return err
	}

	track := trackMessage(req.Payload)
	if err := track.Validate(); err != nil {
		return Error.Wrap(err)
	}

	id, err := uuid.New()
	if err != nil {
		return Error.Wrap(err)
	}
	track.MessageId = id.String()

	transport.queue.add(func() { transport.deliver(client, track) })
	return nil
}

// deliver enqueues track and waits until the client reports its outcome.
func (transport *Segment) deliver(client segment.Client, track segment.Track) {
	done := make(chan struct{})

	transport.mu.Lock()
	transport.delivered[track.MessageId] = done
	transport.mu.Unlock()

	if err := client.Enqueue(track); err != nil {
		transport.mu.Lock()
		delete(transport.delivered, track.MessageId)
		transport.mu.Unlock()

		mon.Counter("segment_failed").Inc(1)
		transport.log.Debug("segment enqueue failed", zap.Error(err))
		return
	}

	<-done
}

// done releases the delivery waiting for message.
func (transport *Segment) done(message segment.Message) {
	track, ok := message.(segment.Track)
	if !ok {
		return
	}

	transport.mu.Lock()
	done, ok := transport.delivered[track.MessageId]
	delete(transport.delivered, track.MessageId)
	transport.mu.Unlock()

	if ok {
		close(done)
	}
}

// client returns the Segment client for endpoint, creating it on first use.
func (transport *Segment) client(endpoint string) (segment.Client, error) {
	transport.mu.Lock()
	defer transport.mu.Unlock()

	if client, ok := transport.clients[endpoint]; ok {
		return client, nil
	}

	client, err := segment.NewWithConfig(transport.writeKey, segment.Config{
		Endpoint:  endpoint,
		BatchSize: 1,
		Transport: transport.roundTripper,
		Logger:    segmentLogger{log: transport.log},
		Callback:  segmentCallback{transport: transport},
	})
	if err != nil {
		return nil, Error.Wrap(err)
	}
	transport.clients[endpoint] = client
	return client, nil
}

// Close waits for queued track calls, then flushes and closes every Segment
// client.
func (transport *Segment) Close(ctx context.Context) error {
	queueErr := transport.queue.wait(ctx)

	transport.mu.Lock()
	clients := transport.clients
	transport.clients = make(map[string]segment.Client)
	transport.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		var group errs.Group
		for _, client := range clients {
			group.Add(client.Close())
		}
		done <- group.Err()
	}()

	select {
	case err := <-done:
		return Error.Wrap(errs.Combine(queueErr, err))
	case <-ctx.Done():
		return Error.Wrap(ctx.Err())
	}
}

// segmentEndpoint strips the query from target.
func segmentEndpoint(target string) (string, error) {
	endpoint, err := url.Parse(target)
	if err != nil {
		return "", Error.Wrap(err)
	}
	if endpoint.Scheme == "" || endpoint.Host == "" {
		return "", Error.New("endpoint %q is not an absolute url", target)
	}
	endpoint.RawQuery = ""
	endpoint.Fragment = ""
	return strings.TrimSuffix(endpoint.String(), "/"), nil
}

// trackMessage converts a tracking payload into a track call.
func trackMessage(payload tracker.Payload) segment.Track {
	track := segment.Track{
		Event:      eventName(payload),
		Properties: segment.NewProperties(),
	}

	for key, value := range payload {
		switch key {
		case tracker.KeySessionID:
			track.AnonymousId = fmt.Sprint(value)
		case "context":
			if client, ok := value.(tracker.ClientContext); ok {
				track.Context = &segment.Context{
					Page:      segment.PageInfo{URL: client.URL},
					OS:        segment.OSInfo{Name: client.Platform},
					UserAgent: client.UserAgent,
				}
				continue
			}
			track.Properties.Set(key, value)
		default:
			track.Properties.Set(key, value)
		}
	}

	return track
}

// eventName names the track call after the event, or the payload type.
func eventName(payload tracker.Payload) string {
	for _, key := range []string{"event", "type"} {
		if name, ok := payload[key].(string); ok && name != "" {
			return name
		}
	}
	return "track"
}

type segmentLogger struct {
	log *zap.Logger
}

func (logger segmentLogger) Logf(format string, args ...interface{}) {
	logger.log.Debug(fmt.Sprintf(format, args...))
}

func (logger segmentLogger) Errorf(format string, args ...interface{}) {
	logger.log.Warn(fmt.Sprintf(format, args...))
}

type segmentCallback struct {
	transport *Segment
}

func (callback segmentCallback) Success(message segment.Message) {
	mon.Counter("segment_delivered").Inc(1)
	callback.transport.done(message)
}

func (callback segmentCallback) Failure(message segment.Message, err error) {
	mon.Counter("segment_failed").Inc(1)
	callback.transport.log.Debug("segment delivery failed", zap.Error(err))
	callback.transport.done(message)
}
