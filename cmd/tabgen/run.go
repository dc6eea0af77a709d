package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/mmrzaf/tabgen/internal/domain"
	"github.com/spf13/cobra"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Inspect run history",
	}

	var limit int
	var status string
	var format string

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeSvc, err := newRunService(true)
			if err != nil {
				return err
			}
			defer closeSvc()

			list, err := svc.ListRuns(limit, status)
			if err != nil {
				return err
			}

			if format == "json" {
				return printJSON(list)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTEMPLATE\tTARGET\tROWS\tSTATUS\tSTARTED")
			for _, r := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
					shortID(r.ID), r.TemplateName, r.TargetName, r.Rows, r.Status, humanize.Time(r.StartedAt))
			}
			return w.Flush()
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 20, "Limit results")
	listCmd.Flags().StringVar(&status, "status", "", "Filter by status")
	listCmd.Flags().StringVar(&format, "format", "table", "Output format (table|json)")

	showCmd := &cobra.Command{
		Use:   "show <run_id>",
		Short: "Show run details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeSvc, err := newRunService(true)
			if err != nil {
				return err
			}
			defer closeSvc()

			run, err := svc.GetRun(args[0])
			if err != nil {
				return err
			}
			if err := printYAML(run); err != nil {
				return err
			}
			if len(run.Stats) == 0 {
				return nil
			}
			var stats domain.RunStats
			if err := json.Unmarshal(run.Stats, &stats); err != nil {
				return err
			}
			fmt.Println("stats:")
			return printYAML(stats)
		},
	}

	cmd.AddCommand(listCmd, showCmd)
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
