package main

import (
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mmrzaf/tabgen/internal/domain"
	"github.com/mmrzaf/tabgen/internal/rule"
	"github.com/spf13/cobra"
)

func ruleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rule",
		Short: "Parse and try rule strings",
	}

	parseCmd := &cobra.Command{
		Use:   "parse <rule>",
		Short: "Show the parameters of a rule string",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := rule.Parse(args[0])
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tVALUE")
			for _, k := range p.Keys() {
				fmt.Fprintf(w, "%s\t%s\n", k, p.Get(k))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Printf("canonical: %s\n", p.String())
			if ok, msg := rule.Validate(p); !ok {
				fmt.Printf("invalid: %s\n", msg)
			}
			return nil
		},
	}

	var n int
	var seed int64
	tryCmd := &cobra.Command{
		Use:   "try <rule>",
		Short: "Generate sample values for a rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeSvc, err := newRunService(false)
			if err != nil {
				return err
			}
			defer closeSvc()

			if !cmd.Flags().Changed("seed") {
				seed = rand.New(rand.NewSource(time.Now().UnixNano())).Int63()
			}
			ds := svc.GenerateColumns([]domain.ColumnRequest{{Name: "value", Rule: args[0]}}, n, seed)
			for _, notice := range ds.Notices {
				fmt.Printf("column left empty (%s): %s\n", notice.Kind, notice.Message)
			}
			for _, v := range ds.Columns[0].Values {
				fmt.Println(domain.FormatValue(v))
			}
			return nil
		},
	}
	tryCmd.Flags().IntVarP(&n, "count", "n", 5, "Number of values")
	tryCmd.Flags().Int64VarP(&seed, "seed", "s", 0, "Seed")

	cmd.AddCommand(parseCmd, tryCmd)
	return cmd
}

func typesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List generator types and their required parameters",
		RunE: func(cmd *cobra.Command, args []string) error {
			reqs := rule.Requirements()
			names := newRegistry().List()
			sort.Strings(names)

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TYPE\tREQUIRES")
			for _, name := range names {
				fmt.Fprintf(w, "%s\t%s\n", name, strings.Join(reqs[name], ", "))
			}
			return w.Flush()
		},
	}
}
