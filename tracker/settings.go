// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package tracker

import (
	"fmt"
	"math"
	"net/http"
	"strings"
)

// Configuration keys recognized in pushed payloads.
const (
	KeyEndpoint             = "endpoint"
	KeySessionID            = "sessionId"
	KeyDevMode              = "devMode"
	KeyAttachClientContext  = "attachClientContext"
	KeySendCaughtExceptions = "sendCaughtExceptions"
	KeyHTTPMethod           = "httpMethod"

	// keySendConsoleErrors is the name sendCaughtExceptions had in early releases.
	keySendConsoleErrors = "sendConsoleErrors"
)

// Payload is opaque caller data sent to the endpoint.
type Payload map[string]any

// Clone returns a shallow copy of the payload.
func (payload Payload) Clone() Payload {
	clone := make(Payload, len(payload))
	for key, value := range payload {
		clone[key] = value
	}
	return clone
}

// Settings is a configuration patch. Nil fields are left unchanged.
type Settings struct {
	Endpoint             *string
	SessionID            *string
	DevMode              *bool
	AttachClientContext  *bool
	SendCaughtExceptions *bool
	HTTPMethod           *string
}

// IsZero returns true when the patch changes nothing.
func (settings Settings) IsZero() bool {
	return settings == Settings{}
}

// merge returns settings with every field set in override replaced.
func (settings Settings) merge(override Settings) Settings {
	if override.Endpoint != nil {
		settings.Endpoint = override.Endpoint
	}
	if override.SessionID != nil {
		settings.SessionID = override.SessionID
	}
	if override.DevMode != nil {
		settings.DevMode = override.DevMode
	}
	if override.AttachClientContext != nil {
		settings.AttachClientContext = override.AttachClientContext
	}
	if override.SendCaughtExceptions != nil {
		settings.SendCaughtExceptions = override.SendCaughtExceptions
	}
	if override.HTTPMethod != nil {
		settings.HTTPMethod = override.HTTPMethod
	}
	return settings
}

// Item is a typed intake item: a configuration patch plus data.
type Item struct {
	Settings Settings
	Data     Payload
}

// Split separates configuration keys from caller data. The returned payload
// is a copy without any recognized configuration key, whether or not the
// key's value could be applied.
func Split(payload Payload) (Settings, Payload) {
	var settings Settings
	data := payload.Clone()

	if value, ok := data[KeyDevMode]; ok {
		settings.DevMode = boolPtr(truthy(value))
		delete(data, KeyDevMode)
	}
	if value, ok := data[KeyAttachClientContext]; ok {
		settings.AttachClientContext = boolPtr(truthy(value))
		delete(data, KeyAttachClientContext)
	}
	if value, ok := data[KeySessionID]; ok {
		if truthy(value) {
			settings.SessionID = stringPtr(fmt.Sprint(value))
		}
		delete(data, KeySessionID)
	}
	if value, ok := data[KeyEndpoint]; ok {
		if endpoint, ok := value.(string); ok && endpoint != "" {
			settings.Endpoint = stringPtr(endpoint)
		}
		delete(data, KeyEndpoint)
	}
	if value, ok := data[KeyHTTPMethod]; ok {
		settings.HTTPMethod = stringPtr(NormalizeMethod(fmt.Sprint(value)))
		delete(data, KeyHTTPMethod)
	}
	for _, key := range []string{keySendConsoleErrors, KeySendCaughtExceptions} {
		if value, ok := data[key]; ok {
			settings.SendCaughtExceptions = boolPtr(truthy(value))
			delete(data, key)
		}
	}

	return settings, data
}

// NormalizeMethod maps "GET" in any case to GET and everything else to POST.
func NormalizeMethod(method string) string {
	if strings.EqualFold(strings.TrimSpace(method), http.MethodGet) {
		return http.MethodGet
	}
	return http.MethodPost
}

// truthy reports whether value would be true in a boolean context of the
// page scripts that produce these payloads.
func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0 && !math.IsNaN(v)
	case float32:
		return v != 0 && !math.IsNaN(float64(v))
	case int:
		return v != 0
	case int64:
		return v != 0
	case int32:
		return v != 0
	case uint:
		return v != 0
	case uint64:
		return v != 0
	case uint32:
		return v != 0
	default:
		return true
	}
}

func boolPtr(v bool) *bool       { return &v }
func stringPtr(v string) *string { return &v }

// Config is the initial tracker configuration.
type Config struct {
	Endpoint             string `help:"endpoint tracking requests are sent to" default:""`
	HTTPMethod           string `help:"http method used for tracking requests (GET or POST)" default:"POST"`
	SessionID            string `help:"explicit session identifier, resolved from the session store when empty" default:""`
	DevMode              bool   `help:"log tracking requests instead of sending them" default:"false"`
	AttachClientContext  bool   `help:"attach the client context to tracking requests" default:"true"`
	SendCaughtExceptions bool   `help:"report errors observed by the host as exceptions" default:"false"`
	QueryParams          string `help:"comma separated key=value pairs added to every GET request" default:""`
}

// Item renders the configuration as an intake item so that it is applied
// through the same path as pushed configuration.
func (config Config) Item() Item {
	settings := Settings{
		DevMode:              boolPtr(config.DevMode),
		AttachClientContext:  boolPtr(config.AttachClientContext),
		HTTPMethod:           stringPtr(NormalizeMethod(config.HTTPMethod)),
		SendCaughtExceptions: boolPtr(config.SendCaughtExceptions),
	}
	if config.SessionID != "" {
		settings.SessionID = stringPtr(config.SessionID)
	}
	if config.Endpoint != "" {
		settings.Endpoint = stringPtr(config.Endpoint)
	}
	return Item{Settings: settings}
}

// Params parses QueryParams. Malformed pairs are skipped.
func (config Config) Params() map[string]string {
	params := map[string]string{}
	for _, pair := range strings.Split(config.QueryParams, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || key == "" {
			continue
		}
		params[key] = value
	}
	return params
}
