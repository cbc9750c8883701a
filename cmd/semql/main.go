// Package main is the entry point for the semql CLI binary.
package main

import (
	"os"

	cli "semql/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
