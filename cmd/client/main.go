// Package main is the entry point of the gophpass command-line client.
package main

import (
	"os"

	"github.com/atinyakov/GophPass/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
