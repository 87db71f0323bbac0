package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"ignite/internal/pricing"
)

func newAdminCommand(cmdCtx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Platform reporting (requires an admin token)",
	}
	cmd.AddCommand(newAdminStatsCommand(cmdCtx))
	cmd.AddCommand(newAdminRunsCommand(cmdCtx))
	cmd.AddCommand(newAdminRateLimitsCommand(cmdCtx))
	cmd.AddCommand(newAdminMarginsCommand(cmdCtx))
	return cmd
}

func newAdminStatsCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show platform-wide aggregates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := cmdCtx.apiClient()
			if err != nil {
				return err
			}
			stats, err := apiClient.AdminStats(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Runs:        %d (%d active)\n", stats.TotalRuns, stats.ActiveRuns)
			fmt.Fprintf(out, "Users:       %d\n", stats.TotalUsers)
			fmt.Fprintf(out, "Credits:     %d spent\n", stats.CreditsSpent)
			fmt.Fprintf(out, "Revenue:     %s\n", pricing.FormatAmount(stats.RevenueMinor))
			fmt.Fprintf(out, "Est. COGS:   $%.2f\n", stats.EstimatedCOGS)
			return nil
		},
	}
}

func newAdminRunsCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "runs",
		Short: "List recent runs across all users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := cmdCtx.apiClient()
			if err != nil {
				return err
			}
			runs, err := apiClient.AdminRuns(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.RunID,
					run.UserID,
					run.Status,
					strconv.Itoa(run.Credits),
					formatTimestamp(run.UpdatedAt),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Run", "User", "Status", "Credits", "Updated"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}
}

func newAdminRateLimitsCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rate-limits",
		Short: "Show per-user rate limit consumption",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := cmdCtx.apiClient()
			if err != nil {
				return err
			}
			entries, err := apiClient.AdminRateLimits(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					entry.UserID,
					entry.Window,
					strconv.Itoa(entry.Requests),
					strconv.Itoa(entry.Throttled),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"User", "Window", "Requests", "Throttled"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight},
			))
			return nil
		},
	}
}

func newAdminMarginsCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "margins",
		Short: "Show per-run cost and margin figures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := cmdCtx.apiClient()
			if err != nil {
				return err
			}
			entries, err := apiClient.AdminMargins(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					entry.RunID,
					strconv.Itoa(entry.CreditsSpent),
					fmt.Sprintf("$%.4f", entry.COGS),
					fmt.Sprintf("%.1f%%", entry.MarginPct),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Run", "Credits", "COGS", "Margin"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}
}
