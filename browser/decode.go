// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package browser installs the tracker on a web page when compiled to
// WebAssembly.
package browser

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/zeebo/errs"

	"storj.io/tracker/tracker"
)

// Error is the error class for the browser host.
var Error = errs.Class("browser")

// DecodeException converts a JSON encoded exception record.
func DecodeException(raw []byte) (tracker.Exception, error) {
	var exception tracker.Exception
	err := json.Unmarshal(raw, &exception)
	return exception, Error.Wrap(err)
}

// ScriptError is an error thrown by page scripts.
type ScriptError struct {
	Message string
	Stack   string
}

// Error implements error.
func (err *ScriptError) Error() string { return err.Message }

// Format prints the script stack for %+v.
func (err *ScriptError) Format(f fmt.State, verb rune) {
	if verb == 'v' && f.Flag('+') && err.Stack != "" {
		_, _ = io.WriteString(f, err.Stack)
		return
	}
	_, _ = io.WriteString(f, err.Message)
}
