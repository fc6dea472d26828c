package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderjulianmartinez/compkit/internal/drift"
	"github.com/alexanderjulianmartinez/compkit/internal/source/mysql"
	"github.com/alexanderjulianmartinez/compkit/pkg/dao"
	"github.com/alexanderjulianmartinez/compkit/pkg/tableschema"
)

func newSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Work with declarative table schemas",
	}
	cmd.AddCommand(newSchemaCheckCmd())
	cmd.AddCommand(newSchemaDiffCmd())
	cmd.AddCommand(newSchemaInferCmd())
	return cmd
}

func newSchemaCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <schema-file>",
		Short: "Validate a table schema document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := tableschema.Load(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema %q: %d fields (%s)",
				schema.Name, len(schema.Fields), strings.Join(schema.FieldNames(), ", "))
			if len(schema.PrimaryKeys) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), ", primary key (%s)", strings.Join(schema.PrimaryKeys, ", "))
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
}

func newSchemaDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <schema-file> <manifest>",
		Short: "Compare a table schema against a manifest and report the drift",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := tableschema.Load(args[0])
			if err != nil {
				return err
			}
			def, err := dao.TableDefinitionFromManifest(args[1])
			if err != nil {
				return err
			}

			report := drift.Validate(schema, def)
			if len(report.Issues) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "schema %q matches the manifest\n", schema.Name)
				return nil
			}
			for _, issue := range report.Issues {
				column := issue.Column
				if column == "" {
					column = "-"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-5s %-20s %s\n", issue.Severity, column, issue.Message)
			}
			if report.HasBlocking() {
				return fmt.Errorf("schema %q has blocking drift against the manifest", schema.Name)
			}
			return nil
		},
	}
}

func newSchemaInferCmd() *cobra.Command {
	var dsn, database string
	cmd := &cobra.Command{
		Use:   "infer <table>",
		Short: "Infer a table schema document from a live MySQL table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inspector, err := mysql.NewInspector(cmd.Context(), dsn, database)
			if err != nil {
				return err
			}
			defer inspector.Close()

			schema, err := inspector.TableSchema(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(schema, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	cmd.Flags().StringVar(&dsn, "dsn", "", "MySQL DSN, e.g. user:pass@tcp(host:3306)/db")
	cmd.Flags().StringVar(&database, "database", "", "database to inspect")
	cmd.MarkFlagRequired("dsn")
	cmd.MarkFlagRequired("database")
	return cmd
}
