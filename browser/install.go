// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

//go:build js && wasm

package browser

import (
	"net/http"
	"syscall/js"

	"go.uber.org/zap"

	"storj.io/tracker/tracker"
	"storj.io/tracker/transport"
)

// marker identifies tracker objects published by Install.
const marker = "__storjTracker"

var (
	installer Installer
	facade    []js.Func
)

// Install performs the bootstrap against window.tracker. An installed
// tracker is reused as is. An array found there is drained, in order, into a
// new tracker. The tracker object is assigned to window.tracker last.
func Install(log *zap.Logger) (*tracker.Tracker, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var global Global
	window := js.Global().Get("window")
	if window.Truthy() {
		global = windowGlobal{window: window}
	}

	return installer.Install(global, func() *tracker.Tracker {
		return tracker.New(log, hostFor(log, window))
	})
}

// windowGlobal is the window.tracker property.
type windowGlobal struct {
	window js.Value
}

// Published implements Global.
func (global windowGlobal) Published() bool {
	existing := global.window.Get(HandleName)
	return existing.Type() == js.TypeObject && existing.Get(marker).Truthy()
}

// Queue implements Global.
func (global windowGlobal) Queue() (tracker.Queue, bool) {
	existing := global.window.Get(HandleName)
	if !js.Global().Get("Array").Call("isArray", existing).Bool() {
		return nil, false
	}

	queue := make(tracker.Queue, 0, existing.Length())
	for i, length := 0, existing.Length(); i < length; i++ {
		queue = append(queue, tracker.DecodeItem(stringify(existing.Index(i))))
	}
	return queue, true
}

// Publish implements Global.
func (global windowGlobal) Publish(tr *tracker.Tracker) {
	global.window.Set(HandleName, publish(tr))
}

// hostFor returns the collaborators of a tracker running in window.
func hostFor(log *zap.Logger, window js.Value) tracker.Host {
	host := tracker.Host{
		Sessions:  CookieStore{document: window.Get("document")},
		Transport: transport.NewHTTP(log.Named("http"), http.DefaultClient),
		Env:       Environment{window: window},
		Errors:    ErrorEvents{window: window},
		Trace:     console,
	}
	if clock := NewClock(window); clock != nil {
		host.Clock = clock
	}
	return host
}

// publish returns the page object exposing tr.
func publish(tr *tracker.Tracker) js.Value {
	object := js.Global().Get("Object").New()
	object.Set(marker, true)

	method := func(name string, fn func(args []js.Value)) {
		f := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
			fn(args)
			return nil
		})
		facade = append(facade, f)
		object.Set(name, f)
	}

	method("push", func(args []js.Value) {
		if len(args) > 0 {
			tr.Push(tracker.DecodeItem(stringify(args[0])))
		}
	})
	method("logEvent", func(args []js.Value) {
		if len(args) > 0 {
			var extra tracker.Payload
			if len(args) > 1 {
				extra = payloadOf(args[1])
			}
			tr.LogEvent(stringOf(args[0]), extra)
		}
	})
	method("logException", func(args []js.Value) {
		if len(args) > 0 {
			if exception, err := DecodeException(stringify(args[0])); err == nil {
				tr.LogException(exception)
			}
		}
	})
	method("logMessage", func(args []js.Value) {
		if len(args) > 0 {
			level := ""
			if len(args) > 1 {
				level = stringOf(args[1])
			}
			tr.LogMessage(stringOf(args[0]), level)
		}
	})
	method("logMetric", func(args []js.Value) {
		if len(args) > 1 && args[1].Type() == js.TypeNumber {
			tr.LogMetric(stringOf(args[0]), args[1].Float())
		}
	})
	method("startTimer", func(args []js.Value) {
		if len(args) > 0 {
			tr.StartTimer(stringOf(args[0]))
		}
	})
	method("stopTimer", func(args []js.Value) {
		if len(args) > 0 {
			tr.StopTimer(stringOf(args[0]))
		}
	})
	method("addQueryParam", func(args []js.Value) {
		if len(args) > 1 {
			tr.AddQueryParam(textOf(args[0]), textOf(args[1]))
		}
	})
	method("setSession", func(args []js.Value) {
		id := ""
		if len(args) > 0 {
			id = stringOf(args[0])
		}
		tr.SetSession(id)
	})
	method("onerror", func(args []js.Value) {
		arg := func(i int) js.Value {
			if i < len(args) {
				return args[i]
			}
			return js.Undefined()
		}
		message := stringOf(arg(0))
		var err error
		if thrown := arg(4); thrown.Truthy() {
			err = scriptError(thrown, message)
		}
		tr.OnError(message, stringOf(arg(1)), intOf(arg(2)), intOf(arg(3)), err)
	})

	return object
}
