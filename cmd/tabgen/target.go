package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/mmrzaf/tabgen/internal/app"
	"github.com/mmrzaf/tabgen/internal/infra/repos/targets"
	"github.com/mmrzaf/tabgen/internal/validation"
	"github.com/spf13/cobra"
)

func targetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "target",
		Short: "Manage targets",
	}

	var format string

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List targets",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := targets.NewFileRepository(targetsDir).List()
			if err != nil {
				return err
			}
			list = targets.RedactTargets(list)

			if format == "json" {
				return printJSON(list)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tKIND\tDSN")
			for _, t := range list {
				dsn := t.DSN
				if len(dsn) > 50 {
					dsn = dsn[:47] + "..."
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.ID, t.Name, t.Kind, dsn)
			}
			return w.Flush()
		},
	}
	listCmd.Flags().StringVar(&format, "format", "table", "Output format (table|json)")

	var reveal bool
	showCmd := &cobra.Command{
		Use:   "show <id|path>",
		Short: "Show target details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := loadTarget(args[0])
			if err != nil {
				return err
			}
			if !reveal {
				target = targets.RedactTarget(target)
			}
			return printYAML(target)
		},
	}
	showCmd.Flags().BoolVar(&reveal, "reveal", false, "Print secrets unredacted")

	validateCmd := &cobra.Command{
		Use:   "validate <id|path>",
		Short: "Validate a target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := loadTarget(args[0])
			if err != nil {
				return err
			}

			validator := validation.NewValidator(newRegistry())
			if err := validator.ValidateTarget(target); err != nil {
				fmt.Printf("Validation failed: %v\n", err)
				return err
			}

			fmt.Printf("Target '%s' is valid\n", target.Name)
			return nil
		},
	}

	var history int
	checkCmd := &cobra.Command{
		Use:   "check <id|path>",
		Short: "Connect to a target and probe its capabilities",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if looksLikePath(args[0]) {
				target, err := loadTarget(args[0])
				if err != nil {
					return err
				}
				check, err := app.CheckTarget(target)
				if check != nil {
					_ = printYAML(check)
				}
				return err
			}

			svc, closeSvc, err := newRunService(true)
			if err != nil {
				return err
			}
			defer closeSvc()

			check, err := svc.CheckTarget(args[0])
			if err != nil {
				return err
			}
			if err := printYAML(check); err != nil {
				return err
			}
			if history > 0 {
				past, err := svc.ListChecks(args[0], history)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "\nCHECKED\tOK\tLATENCY\tCREATE\tINSERT\tTRUNCATE")
				for _, c := range past {
					fmt.Fprintf(w, "%s\t%t\t%dms\t%t\t%t\t%t\n", c.CheckedAt.Format("2006-01-02 15:04:05"), c.OK, c.LatencyMS,
						c.Capabilities.CanCreate, c.Capabilities.CanInsert, c.Capabilities.CanTruncate)
				}
				if err := w.Flush(); err != nil {
					return err
				}
			}
			if !check.OK {
				return fmt.Errorf("target check failed: %s", check.Error)
			}
			return nil
		},
	}
	checkCmd.Flags().IntVar(&history, "history", 0, "Also print the last N recorded checks")

	cmd.AddCommand(listCmd, showCmd, validateCmd, checkCmd)
	return cmd
}
