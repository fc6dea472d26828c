// Package main is the entry point for the compkit binary.
package main

import (
	"os"

	"github.com/alexanderjulianmartinez/compkit/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
