// Package main is the drill-api command: the HTTP server plus the maintenance
// commands for migrations, question import and offline deck builds.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
