package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ignite/internal/logstream"
)

func newLogsCommand(cmdCtx *commandContext) *cobra.Command {
	var friendly bool

	cmd := &cobra.Command{
		Use:   "logs <run-id>",
		Short: "Stream the live log feed of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logClient, err := cmdCtx.logClient()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			errOut := cmd.ErrOrStderr()
			last := ""
			err = logClient.Follow(ctx, args[0], func(line logstream.Line) {
				if friendly {
					if line.Friendly != "" && line.Friendly != last {
						last = line.Friendly
						fmt.Fprintln(out, line.Friendly)
					}
					return
				}
				if line.Level == logstream.LevelError {
					fmt.Fprintln(errOut, line.Text)
					return
				}
				fmt.Fprintln(out, line.Text)
			})
			if errors.Is(err, logstream.ErrPolicyViolation) {
				return fmt.Errorf("%w; refresh your token in the config", err)
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&friendly, "friendly", false, "Show condensed progress messages instead of raw logs")
	return cmd
}
