package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ignite/internal/api"
	"ignite/internal/lifecycle"
	"ignite/internal/scenes"
)

func newRegenerateCommand(cmdCtx *commandContext) *cobra.Command {
	var prompt string
	var noWatch bool

	cmd := &cobra.Command{
		Use:   "regenerate <run-id> <scene>",
		Short: "Regenerate one scene of a completed run",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID, sceneID := args[0], args[1]
			if !scenes.Known(sceneID) {
				return fmt.Errorf("unknown scene %q; one of Hook, Feature, Lifestyle, Benefit, SocialProof, CTA", sceneID)
			}
			apiClient, err := cmdCtx.apiClient()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			_, err = apiClient.RegenerateScene(ctx, runID, sceneID, api.RegenerateSceneRequest{Prompt: prompt})
			if err != nil {
				switch {
				case api.IsThrottled(err):
					return fmt.Errorf("too many regenerations; wait a moment and try again")
				case api.IsForbidden(err):
					return fmt.Errorf("run %s does not accept regenerations", runID)
				case api.IsPaymentRequired(err):
					return fmt.Errorf("not enough credits to regenerate; run `ignite credits buy`")
				default:
					return err
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Scene %s of run %s is regenerating\n", sceneID, runID)
			if noWatch {
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
				fmt.Fprintln(out, "Interrupted; the regeneration continues server-side.")
				return nil
			}
			return reportOutcome(out, ctrl.Snapshot())
		},
	}

	cmd.Flags().StringVarP(&prompt, "prompt", "p", "", "Optional guidance for the regenerated scene")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Request the regeneration and exit without watching")
	return cmd
}
