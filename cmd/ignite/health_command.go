package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Probe the API health endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := cmdCtx.apiClient()
			if err != nil {
				return err
			}
			resp, err := apiClient.Health(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "API status: %s\n", resp.Status)
			return nil
		},
	}
}
