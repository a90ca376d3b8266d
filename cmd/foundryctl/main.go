// Package main is the entry point for the foundryctl CLI tool.
package main

import (
	"os"

	"github.com/foundry-social/foundry/cmd/foundryctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
