// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package tracker

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// DataParam is the query parameter holding the payload of GET requests.
const DataParam = "data"

// track decorates data and hands it to the transport. It never fails: every
// error is logged and dropped. The caller must hold mu.
func (tracker *Tracker) track(data Payload) {
	if tracker.endpoint == "" || len(data) == 0 {
		return
	}

	data[KeySessionID] = tracker.sessionID
	if tracker.attachClientContext {
		data["context"] = tracker.getClientContext()
	}

	req, err := tracker.buildRequest(data)
	if err != nil {
		mon.Counter("tracking_request_invalid").Inc(1)
		tracker.log.Debug("failed to build tracking request", zap.Error(err), zap.Any("payload", data))
		return
	}

	if tracker.devMode {
		mon.Counter("tracking_request_suppressed").Inc(1)
		tracker.log.Info("tracking request",
			zap.String("method", req.Method),
			zap.String("url", req.URL),
			zap.Any("payload", data))
		if tracker.host.Trace != nil {
			tracker.host.Trace(Trace{Method: req.Method, URL: req.URL, Payload: data})
		}
		return
	}

	if tracker.host.Transport == nil {
		return
	}
	if err := tracker.host.Transport.Send(req); err != nil {
		mon.Counter("tracking_request_failed").Inc(1)
		tracker.log.Debug("failed to send tracking request", zap.Error(err), zap.Any("payload", data))
		return
	}
	mon.Counter("tracking_request_dispatched").Inc(1)
}

// buildRequest serializes the payload for the configured method.
func (tracker *Tracker) buildRequest(data Payload) (Request, error) {
	body, err := encodeJSON(data)
	if err != nil {
		return Request{}, Error.Wrap(err)
	}

	if tracker.method != http.MethodGet {
		return Request{
			Method:  http.MethodPost,
			URL:     tracker.endpoint,
			Header:  http.Header{"Content-Type": []string{"application/json"}},
			Body:    body,
			Payload: data,
		}, nil
	}

	target, err := url.Parse(tracker.endpoint)
	if err != nil {
		return Request{}, Error.Wrap(err)
	}

	var query []string
	if target.RawQuery != "" {
		query = append(query, target.RawQuery)
	}
	query = append(query, DataParam+"="+escapeComponent(string(body)))

	keys := make([]string, 0, len(tracker.queryParams))
	for key := range tracker.queryParams {
		if key != DataParam {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		query = append(query, escapeComponent(key)+"="+escapeComponent(tracker.queryParams[key]))
	}
	target.RawQuery = strings.Join(query, "&")

	return Request{
		Method:  http.MethodGet,
		URL:     target.String(),
		Header:  http.Header{},
		Payload: data,
	}, nil
}

// encodeJSON marshals value without escaping HTML characters.
func encodeJSON(value any) ([]byte, error) {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(value); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buffer.Bytes(), []byte("\n")), nil
}

// componentEscaper undoes the escapes url.QueryEscape applies beyond those of
// encodeURIComponent.
var componentEscaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// escapeComponent escapes value the way encodeURIComponent does.
func escapeComponent(value string) string {
	return componentEscaper.Replace(url.QueryEscape(value))
}

// getClientContext returns the cached client context, computing it once.
func (tracker *Tracker) getClientContext() ClientContext {
	if tracker.clientContext == nil {
		var context ClientContext
		if tracker.host.Env != nil {
			context = tracker.host.Env.ClientContext()
		}
		tracker.clientContext = &context
	}
	return *tracker.clientContext
}
