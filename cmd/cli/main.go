// Package main is the entry point for the migration-cost CLI.
package main

import (
	"os"

	"migration-cost/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
