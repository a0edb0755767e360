package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func historyCmd(configPath *string) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently archived analyses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := build(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer deps.Close()

			items, err := deps.Service.History(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("history: %w", err)
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No archived analyses.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ANALYZED\tWHITE\tBLACK\tRESULT\tPLIES\tWHITE AVG\tBLACK AVG\tRUN")
			for _, a := range items {
				fmt.Fprintf(w, "%s\t%s (%s)\t%s (%s)\t%s\t%d\t%.1f s\t%.1f s\t%s\n",
					a.AnalyzedAt.Local().Format("2006-01-02 15:04"),
					a.White, a.WhiteElo, a.Black, a.BlackElo, a.Result, a.Plies,
					a.WhiteSummary.AvgTime, a.BlackSummary.AvgTime, a.RunID)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Max entries to list")
	return cmd
}
