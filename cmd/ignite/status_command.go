package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"ignite/internal/api"
	"ignite/internal/lifecycle"
	"ignite/internal/scenes"
)

func newStatusCommand(cmdCtx *commandContext) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "status <run-id>",
		Short: "Show the current state of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := args[0]
			apiClient, err := cmdCtx.apiClient()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if !watch {
				resp, err := apiClient.Status(cmd.Context(), runID)
				if err != nil {
					return err
				}
				printStatus(out, resp)
				return nil
			}

			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			logClient, err := cmdCtx.logClient()
			if err != nil {
				return err
			}
			store, err := cmdCtx.openRunStore()
			if err != nil {
				return err
			}
			defer store.Close()
			cache, err := cmdCtx.openHistoryCache()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ctrl, err := lifecycle.New(lifecycle.Options{
				Client:       apiClient,
				Logs:         logClient,
				Store:        store,
				HistoryCache: cache,
				Notifier:     cmdCtx.notifier(),
				Logger:       cmdCtx.logger(),
				UserID:       cfg.Auth.UserID,
				PollInterval: cfg.PollInterval(),
				PollCeiling:  cfg.PollCeiling(),
				OnEvent: func(event lifecycle.Event) {
					if event.Kind == lifecycle.EventStateChanged {
						fmt.Fprintf(out, "-> %s\n", describeState(event.State))
					}
				},
			})
			if err != nil {
				return err
			}
			if err := ctrl.Attach(runID, ""); err != nil {
				return err
			}
			ctrl.Wait()
			if ctx.Err() != nil {
				ctrl.Stop()
				fmt.Fprintln(out, "Interrupted; the run continues server-side.")
				return nil
			}
			return reportOutcome(out, ctrl.Snapshot())
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Poll until the run reaches a terminal state")
	return cmd
}

func printStatus(out io.Writer, resp api.StatusResponse) {
	fmt.Fprintf(out, "Run:    %s\n", resp.RunID)
	fmt.Fprintf(out, "Status: %s\n", api.ParseRunStatus(resp.Status))
	if resp.FailureReason != "" {
		fmt.Fprintf(out, "Reason: %s\n", resp.FailureReason)
	}
	if resp.FallbackUsed {
		fmt.Fprintln(out, "Note:   a fallback model was used for part of this run")
	}
	if url := resp.Result.FinalVideoURL(); url != "" {
		fmt.Fprintf(out, "Video:  %s\n", url)
	}

	if len(resp.Assets) > 0 {
		keys := make([]string, 0, len(resp.Assets))
		for key := range resp.Assets {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		rows := make([][]string, 0, len(keys))
		for _, key := range keys {
			scene, kind, ok := scenes.ParseAssetKey(key)
			if !ok {
				scene, kind = key, ""
			}
			rows = append(rows, []string{scene, string(kind), resp.Assets[key]})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"Scene", "Kind", "URL"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignLeft},
		))
	}
}
