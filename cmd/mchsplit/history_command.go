package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"mchsplit/internal/config"
	"mchsplit/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded conversion runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(cmd, ctx, func(store *history.Store) error {
				runs, err := store.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded yet")
					return nil
				}
				fmt.Fprintln(out, renderRuns(runs))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show (0 for all)")

	cmd.AddCommand(&cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run and the games that failed in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(cmd, ctx, func(store *history.Store) error {
				run, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderRuns([]history.Run{*run}))
				if run.Error != "" {
					fmt.Fprintf(out, "Error: %s\n", run.Error)
				}
				if len(run.Failures) == 0 {
					fmt.Fprintln(out, "No failed games")
					return nil
				}
				rows := make([][]string, 0, len(run.Failures))
				for _, f := range run.Failures {
					rows = append(rows, []string{f.GameID, f.GameName, f.Kind, f.Message})
				}
				fmt.Fprintln(out, renderTable([]string{"Game ID", "Name", "Kind", "Error"}, rows, nil))
				return nil
			})
		},
	})
	return cmd
}

func withHistory(cmd *cobra.Command, ctx *commandContext, fn func(*history.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		fmt.Fprintln(cmd.OutOrStdout(), historyDisabledMessage(cfg))
		return nil
	}
	store, err := history.Open(cmd.Context(), cfg.History.Path)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func historyDisabledMessage(cfg *config.Config) string {
	return fmt.Sprintf("Run history is disabled; set [history] enabled = true (ledger path %s)", cfg.History.Path)
}

func renderRuns(runs []history.Run) string {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.RunID,
			string(r.Status),
			strconv.Itoa(r.Records),
			strconv.Itoa(r.Written),
			strconv.Itoa(r.Failed),
			strconv.Itoa(r.Waves),
			r.Duration.Round(time.Millisecond).String(),
		})
	}
	return renderTable(
		[]string{"Started", "Run", "Status", "Games", "Written", "Failed", "Waves", "Elapsed"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
	)
}
