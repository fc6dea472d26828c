// Package cli implements the compkit command line tool for inspecting and
// validating manifest and schema files during component development.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "compkit",
		Short:         "Inspect and validate component data-directory artifacts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newManifestCmd())
	root.AddCommand(newSchemaCmd())
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "compkit error: %v\n", err)
		return 1
	}
	return 0
}
