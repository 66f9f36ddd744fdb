// Copyright (c) 2026 Warpkeeper Authors
// Warpkeeper - local account rotation service
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for Warpkeeper.
//
// Usage:
//
//	go run . [flags]
//	./warpkeeper [flags]
//
// This launches the Warpkeeper CLI. See --help for options.
package main

import (
	"os"

	log "github.com/charmbracelet/log"

	"github.com/warpkeeper/warpkeeper/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}
