package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/mmrzaf/tabgen/internal/infra/repos/templates"
	"github.com/mmrzaf/tabgen/internal/validation"
	"github.com/spf13/cobra"
)

func templateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Manage templates",
	}

	var format string

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := templates.NewFileRepository(templatesDir).List()
			if err != nil {
				return err
			}

			if format == "json" {
				return printJSON(list)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tROWS\tCOLUMNS")
			for _, t := range list {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", t.ID, t.Name, t.Rows, len(t.Columns))
			}
			return w.Flush()
		},
	}
	listCmd.Flags().StringVar(&format, "format", "table", "Output format (table|json)")

	var showFormat string
	showCmd := &cobra.Command{
		Use:   "show <id|path>",
		Short: "Show template details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tpl, err := loadTemplate(args[0])
			if err != nil {
				return err
			}
			switch showFormat {
			case "json":
				return printJSON(tpl)
			case "csv":
				return templates.WriteCSV(os.Stdout, tpl)
			default:
				return printYAML(tpl)
			}
		},
	}
	showCmd.Flags().StringVar(&showFormat, "format", "yaml", "Output format (yaml|json|csv)")

	validateCmd := &cobra.Command{
		Use:   "validate <id|path>",
		Short: "Validate a template and lint its rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tpl, err := loadTemplate(args[0])
			if err != nil {
				return err
			}

			validator := validation.NewValidator(newRegistry())
			if err := validator.ValidateTemplate(tpl); err != nil {
				fmt.Printf("Validation failed: %v\n", err)
				return err
			}

			notices := validator.Lint(tpl)
			for _, n := range notices {
				fmt.Printf("Warning: column '%s' (%s): %s\n", n.Column, n.Kind, n.Message)
			}
			fmt.Printf("Template '%s' is valid (%d columns, %d would be left empty)\n",
				tpl.Name, len(tpl.Columns), len(notices))
			return nil
		},
	}

	cmd.AddCommand(listCmd, showCmd, validateCmd)
	return cmd
}
