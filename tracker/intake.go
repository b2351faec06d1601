// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package tracker

import (
	"fmt"

	"go.uber.org/zap"
)

// Push accepts a single intake item. Strings are sent as {"text": item};
// payloads and typed items have their configuration applied and stripped
// before the remaining data is sent. Other values are ignored.
func (tracker *Tracker) Push(item any) {
	var settings Settings
	var data Payload

	switch v := item.(type) {
	case string:
		data = Payload{"text": v}
	case Payload:
		settings, data = Split(v)
	case map[string]any:
		settings, data = Split(Payload(v))
	case Item:
		settings, data = splitItem(v)
	case *Item:
		if v == nil {
			return
		}
		settings, data = splitItem(*v)
	default:
		tracker.log.Debug("ignoring unsupported item", zap.String("type", fmt.Sprintf("%T", item)))
		return
	}

	tracker.mu.Lock()
	defer tracker.mu.Unlock()

	tracker.apply(settings)
	tracker.track(data)
}

// splitItem strips configuration keys from the item data; the typed
// settings take precedence over keys found in the data.
func splitItem(item Item) (Settings, Payload) {
	settings, data := Split(item.Data)
	return settings.merge(item.Settings), data
}

// AddQueryParam registers a parameter appended to every GET request.
func (tracker *Tracker) AddQueryParam(key, value string) {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	tracker.queryParams[key] = value
}

// apply mutates the configuration. The caller must hold mu.
func (tracker *Tracker) apply(settings Settings) {
	if settings.DevMode != nil {
		tracker.devMode = *settings.DevMode
	}
	if settings.AttachClientContext != nil {
		tracker.attachClientContext = *settings.AttachClientContext
	}
	if settings.SessionID != nil {
		tracker.setSession(*settings.SessionID)
	}
	if settings.Endpoint != nil {
		if tracker.sessionID == "" {
			tracker.setSession("")
		}
		tracker.endpoint = *settings.Endpoint
	}
	if settings.HTTPMethod != nil {
		tracker.method = NormalizeMethod(*settings.HTTPMethod)
	}
	if settings.SendCaughtExceptions != nil {
		tracker.sendCaughtExceptions = *settings.SendCaughtExceptions
		if tracker.sendCaughtExceptions {
			tracker.observeErrors()
		} else {
			tracker.stopObservingErrors()
		}
	}
}
