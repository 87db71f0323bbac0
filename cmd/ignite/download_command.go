package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newDownloadCommand(cmdCtx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "download <run-id>",
		Short: "Download the final video of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := args[0]
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			apiClient, err := cmdCtx.apiClient()
			if err != nil {
				return err
			}

			dest := output
			if dest == "" {
				dest = filepath.Join(cfg.Paths.DownloadDir, runID+".mp4")
			}

			written, err := apiClient.DownloadVideo(cmd.Context(), runID, dest)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d bytes)\n", dest, written)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination file (defaults to <download_dir>/<run-id>.mp4)")
	return cmd
}
