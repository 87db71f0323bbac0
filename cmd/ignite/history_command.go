package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ignite/internal/api"
)

func newHistoryCommand(cmdCtx *commandContext) *cobra.Command {
	var local bool
	var limit int
	var refresh bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent generation runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			if limit == 0 {
				limit = cfg.History.Limit
			}
			out := cmd.OutOrStdout()

			if local {
				store, err := cmdCtx.openRunStore()
				if err != nil {
					return err
				}
				defer store.Close()
				runs, err := store.Recent(cmd.Context(), cfg.Auth.UserID, limit)
				if err != nil {
					return err
				}
				if len(runs) == 0 {
					fmt.Fprintln(out, "No local runs recorded yet.")
					return nil
				}
				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						run.RunID,
						run.Status,
						run.Title,
						formatTimestamp(run.UpdatedAt),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Run", "Status", "Title", "Updated"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
				))
				return nil
			}

			cache, err := cmdCtx.openHistoryCache()
			if err != nil {
				return err
			}
			userID := cfg.Auth.UserID

			var runs []api.Run
			fromCache := false
			if !refresh && userID != "" {
				if cached, ok := cache.Get(userID); ok {
					runs = cached
					fromCache = true
				}
			}
			if runs == nil {
				apiClient, err := cmdCtx.apiClient()
				if err != nil {
					return err
				}
				runs, err = apiClient.History(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if userID != "" {
					if err := cache.Set(userID, runs); err != nil {
						cmdCtx.logger().Warn("history cache write failed", "error", err)
					}
				}
			}

			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs yet. Start one with `ignite generate`.")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				title := run.Title
				if title == "" && run.Prompt != "" {
					title = truncate(run.Prompt, 40)
				}
				rows = append(rows, []string{
					run.RunID,
					string(api.ParseRunStatus(run.Status)),
					title,
					formatTimestamp(run.UpdatedAt),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Run", "Status", "Title", "Updated"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))
			if fromCache {
				fmt.Fprintln(out, "(cached; use --refresh for the latest)")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&local, "local", false, "Read the local run journal instead of the API")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of runs to show")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Bypass the cache and fetch fresh history")
	return cmd
}

func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format("2006-01-02 15:04")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
