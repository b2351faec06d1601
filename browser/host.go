// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

//go:build js && wasm

package browser

import (
	"context"
	"encoding/json"
	"syscall/js"

	"storj.io/tracker/session/cookie"
	"storj.io/tracker/tracker"
)

// CookieStore keeps the session identifier in document.cookie.
type CookieStore struct {
	document js.Value
}

// Read implements tracker.SessionStore.
func (store CookieStore) Read(ctx context.Context) (string, error) {
	return cookie.Parse(stringOf(store.document.Get("cookie"))), nil
}

// Write implements tracker.SessionStore.
func (store CookieStore) Write(ctx context.Context, id string) error {
	store.document.Set("cookie", cookie.Format(id))
	return nil
}

// Clock reads performance.now.
type Clock struct {
	performance js.Value
}

// NewClock returns a clock backed by window.performance, or nil when the
// page has no high resolution clock.
func NewClock(window js.Value) *Clock {
	performance := window.Get("performance")
	if !performance.Truthy() || performance.Get("now").Type() != js.TypeFunction {
		return nil
	}
	return &Clock{performance: performance}
}

// Now implements tracker.Clock.
func (clock *Clock) Now() float64 {
	return clock.performance.Call("now").Float()
}

// Environment reads the client context from the page.
type Environment struct {
	window js.Value
}

// ClientContext implements tracker.Environment.
func (env Environment) ClientContext() tracker.ClientContext {
	navigator := env.window.Get("navigator")
	return tracker.ClientContext{
		URL:       stringOf(env.window.Get("location").Get("href")),
		UserAgent: stringOf(navigator.Get("userAgent")),
		Platform:  stringOf(navigator.Get("platform")),
	}
}

// ErrorEvents reports error events dispatched on the window.
type ErrorEvents struct {
	window js.Value
}

// Subscribe adds an error event listener calling fn.
func (events ErrorEvents) Subscribe(fn func(tracker.ErrorReport)) (unsubscribe func()) {
	listener := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if len(args) == 0 {
			return nil
		}
		event := args[0]
		report := tracker.ErrorReport{
			Message: stringOf(event.Get("message")),
			Source:  stringOf(event.Get("filename")),
			Line:    intOf(event.Get("lineno")),
			Column:  intOf(event.Get("colno")),
		}
		if thrown := event.Get("error"); thrown.Truthy() {
			report.Err = scriptError(thrown, report.Message)
		}
		// the tracker may block on the transport, keep the event loop free
		go fn(report)
		return nil
	})

	events.window.Call("addEventListener", "error", listener)
	return func() {
		events.window.Call("removeEventListener", "error", listener)
		listener.Release()
	}
}

// scriptError converts a thrown value.
func scriptError(thrown js.Value, fallback string) *ScriptError {
	err := &ScriptError{Message: fallback}
	if thrown.Type() == js.TypeObject {
		if message := stringOf(thrown.Get("message")); message != "" {
			err.Message = message
		}
		err.Stack = stringOf(thrown.Get("stack"))
	}
	return err
}

// stringify encodes a page value as JSON.
func stringify(value js.Value) []byte {
	encoded := js.Global().Get("JSON").Call("stringify", value)
	if encoded.Type() != js.TypeString {
		return nil
	}
	return []byte(encoded.String())
}

// payloadOf decodes a page object, or returns nil.
func payloadOf(value js.Value) tracker.Payload {
	payload, _ := tracker.DecodeItem(stringify(value)).(tracker.Payload)
	return payload
}

func stringOf(value js.Value) string {
	if value.Type() != js.TypeString {
		return ""
	}
	return value.String()
}

// textOf converts value to a string the way String(value) does in page
// scripts.
func textOf(value js.Value) string {
	if value.Type() == js.TypeString {
		return value.String()
	}
	return js.Global().Get("String").Invoke(value).String()
}

func intOf(value js.Value) int {
	if value.Type() != js.TypeNumber {
		return 0
	}
	return value.Int()
}

// console writes dev mode traces to the browser console.
func console(trace tracker.Trace) {
	payload, err := json.Marshal(trace.Payload)
	if err != nil {
		payload = []byte("{}")
	}
	js.Global().Get("console").Call("log", "tracking request", trace.Method, trace.URL, string(payload))
}
