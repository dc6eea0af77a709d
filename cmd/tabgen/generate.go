package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mmrzaf/tabgen/internal/app"
	"github.com/mmrzaf/tabgen/internal/domain"
	"github.com/spf13/cobra"
)

const (
	defaultTemplatePath = "test_data_template.csv"
	defaultOutputPath   = "test_data_output.csv"
)

func generateCmd() *cobra.Command {
	var (
		templateArg    string
		output         string
		targetID       string
		targetDatabase string
		seed           int64
		rows           int64
		mode           string
		noHistory      bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a dataset from a template",
		RunE: func(cmd *cobra.Command, args []string) error {
			bar := strings.Repeat("=", 70)
			fmt.Println(bar)
			fmt.Println("TEST DATA GENERATOR TOOL")
			fmt.Println(bar)
			fmt.Printf("Template: %s\n", templateArg)
			if targetID != "" {
				fmt.Printf("Target:   %s\n", targetID)
			} else {
				fmt.Printf("Output:   %s\n", output)
			}
			fmt.Println(bar)

			tpl, err := loadTemplate(templateArg)
			if err != nil {
				return err
			}
			fmt.Printf("Template loaded: %d columns, %d rows to generate\n", len(tpl.Columns), tpl.Rows)

			req := &domain.RunRequest{Template: tpl, Mode: mode, TargetDatabase: targetDatabase}
			if targetID != "" {
				req.TargetID = targetID
			} else {
				target, err := app.TargetForOutput(output)
				if err != nil {
					return err
				}
				req.Target = target
			}
			if cmd.Flags().Changed("seed") {
				req.Seed = &seed
			}
			if cmd.Flags().Changed("rows") {
				req.Rows = &rows
			}

			svc, closeSvc, err := newRunService(!noHistory)
			if err != nil {
				return err
			}
			defer closeSvc()

			fmt.Println("\nGenerating data...")
			svc.SetProgress(func(i, total int, column string) {
				fmt.Printf("  [%d/%d] Generating '%s'...\n", i, total, column)
			})

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			res, err := svc.StartRun(ctx, req)
			if err != nil {
				return err
			}

			for _, n := range res.Dataset.Notices {
				fmt.Printf("Warning: column '%s' left empty (%s): %s\n", n.Column, n.Kind, n.Message)
			}

			dest := output
			if targetID != "" {
				dest = fmt.Sprintf("%s (table %s)", res.Run.TargetName, res.Table)
			}
			fmt.Printf("\nSuccessfully generated %d rows\n", res.Stats.TotalRows)
			fmt.Printf("Output saved to: %s\n", dest)
			fmt.Println("\nSummary:")
			fmt.Printf("   - Columns: %d (%d empty)\n", len(res.Dataset.Columns), res.Stats.ColumnsFailed)
			fmt.Printf("   - Rows: %d\n", res.Stats.TotalRows)
			if res.Stats.OutputBytes > 0 {
				fmt.Printf("   - File size: %s\n", humanize.IBytes(uint64(res.Stats.OutputBytes)))
			}
			fmt.Printf("   - Seed: %d\n", res.Run.Seed)
			if res.Run.ID != "" {
				fmt.Printf("   - Run: %s\n", res.Run.ID)
			}
			fmt.Println(bar)
			fmt.Println("Generation completed successfully!")
			fmt.Println(bar)
			return nil
		},
	}

	cmd.Flags().StringVarP(&templateArg, "template", "t", defaultTemplatePath, "Template file path or template id")
	cmd.Flags().StringVarP(&output, "output", "o", defaultOutputPath, "Output file (.csv, .jsonl, .db)")
	cmd.Flags().StringVar(&targetID, "target-id", "", "Write to a configured target instead of --output")
	cmd.Flags().StringVar(&targetDatabase, "target-database", "", "Override the target database (postgres)")
	cmd.Flags().Int64VarP(&seed, "seed", "s", 0, "Seed for reproducible output")
	cmd.Flags().Int64Var(&rows, "rows", 0, "Override the template row count")
	cmd.Flags().StringVar(&mode, "mode", "", "Table mode (create|truncate|append)")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record the run")
	return cmd
}
