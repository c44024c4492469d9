package main

import (
	"os"

	"github.com/rustyeddy/analyzer/cmd/analyzer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
