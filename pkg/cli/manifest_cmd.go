package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderjulianmartinez/compkit/pkg/dao"
)

func newManifestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Work with table and file manifests",
	}
	cmd.AddCommand(newManifestShowCmd())
	cmd.AddCommand(newManifestValidateCmd())
	return cmd
}

func newManifestShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <manifest>",
		Short: "Parse a table manifest and print its reconstructed definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := dao.TableDefinitionFromManifest(args[0])
			if err != nil {
				return err
			}
			out := map[string]any{
				"name":        def.Name(),
				"stage":       def.Stage,
				"destination": def.Destination,
				"columns":     def.ColumnNames(),
				"primary_key": def.PrimaryKey(),
				"incremental": def.Incremental,
				"delimiter":   def.Delimiter,
				"enclosure":   def.Enclosure,
				"sliced":      def.IsSliced,
			}
			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func newManifestValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <dir>",
		Short: "Parse every manifest in a directory and report failures",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := os.ReadDir(args[0])
			if err != nil {
				return err
			}
			failures := 0
			checked := 0
			for _, e := range entries {
				if e.IsDir() || !strings.HasSuffix(e.Name(), dao.ManifestSuffix) {
					continue
				}
				checked++
				path := filepath.Join(args[0], e.Name())
				if _, err := dao.TableDefinitionFromManifest(path); err != nil {
					failures++
					fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s: %v\n", e.Name(), err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "OK   %s\n", e.Name())
			}
			if failures > 0 {
				return fmt.Errorf("%d of %d manifests failed validation", failures, checked)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d manifests valid\n", checked)
			return nil
		},
	}
}
