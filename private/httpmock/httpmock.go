// Copyright (C) 2025 Storj Labs, Inc.
// See LICENSE for copying information.

// Package httpmock implements an http.RoundTripper that replays canned
// responses and records every request it receives.
package httpmock

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
)

// Response represents a mocked HTTP response.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       string

	// Err fails the round trip instead of responding.
	Err error
}

// Request is a request received by the Transport.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Transport is a custom HTTP transport for handling mocked responses.
type Transport struct {
	mutex     sync.Mutex
	responses map[string][]Response
	requests  []Request
	changed   chan struct{}
}

// NewTransport creates a new instance of Transport.
func NewTransport() *Transport {
	return &Transport{
		responses: make(map[string][]Response),
		changed:   make(chan struct{}),
	}
}

// AddResponse registers a response for a given URL.
// Multiple responses for the same URL will be returned in sequence.
func (transport *Transport) AddResponse(url string, response Response) {
	transport.mutex.Lock()
	defer transport.mutex.Unlock()
	transport.responses[url] = append(transport.responses[url], response)
}

// RoundTrip implements the http.RoundTripper interface.
func (transport *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		var err error
		body, err = io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return nil, err
		}
	}

	transport.mutex.Lock()
	defer transport.mutex.Unlock()

	transport.requests = append(transport.requests, Request{
		Method: req.Method,
		URL:    req.URL.String(),
		Header: req.Header.Clone(),
		Body:   body,
	})
	close(transport.changed)
	transport.changed = make(chan struct{})

	response := Response{StatusCode: http.StatusNotFound, Body: "Not Found"}
	if responses := transport.responses[req.URL.String()]; len(responses) > 0 {
		response = responses[0]
		// Remove the first response after using it
		transport.responses[req.URL.String()] = responses[1:]
	}
	if response.Err != nil {
		return nil, response.Err
	}

	headers := make(http.Header)
	for key, value := range response.Headers {
		headers.Set(key, value)
	}

	return &http.Response{
		StatusCode: response.StatusCode,
		Header:     headers,
		Body:       io.NopCloser(strings.NewReader(response.Body)),
		Request:    req,
	}, nil
}

// Requests returns the requests received so far.
func (transport *Transport) Requests() []Request {
	transport.mutex.Lock()
	defer transport.mutex.Unlock()
	return append([]Request(nil), transport.requests...)
}

// WaitFor waits until at least n requests were received.
func (transport *Transport) WaitFor(ctx context.Context, n int) ([]Request, error) {
	for {
		transport.mutex.Lock()
		if len(transport.requests) >= n {
			requests := append([]Request(nil), transport.requests...)
			transport.mutex.Unlock()
			return requests, nil
		}
		changed := transport.changed
		transport.mutex.Unlock()

		select {
		case <-changed:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// NewClient creates an *http.Client configured to use the Transport.
func NewClient() (*http.Client, *Transport) {
	transport := NewTransport()
	client := &http.Client{Transport: transport}
	return client, transport
}
