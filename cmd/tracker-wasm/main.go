// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

//go:build js && wasm

// Command tracker-wasm installs the tracker on window.tracker.
package main

import (
	"go.uber.org/zap"

	"storj.io/tracker/browser"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if _, err := browser.Install(log.Named("tracker")); err != nil {
		log.Fatal("failed to install tracker", zap.Error(err))
	}

	// callbacks registered on the page need the runtime to stay alive
	select {}
}
