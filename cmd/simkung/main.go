// Package main is the entry point for the simkung CLI.
package main

import (
	"os"

	"github.com/simkung/simkung/cmd/simkung/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
