// Package main is the entry point for the htmlmin CLI.
package main

import (
	"os"

	"github.com/jmylchreest/htmlmin/cmd/htmlmin/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
