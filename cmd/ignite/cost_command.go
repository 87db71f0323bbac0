package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ignite/internal/api"
	"ignite/internal/pricing"
	"ignite/internal/scenes"
)

func newCostCommand(cmdCtx *commandContext) *cobra.Command {
	var (
		duration   int
		genBG      bool
		premiumTTS bool
		fourK      bool
		imageModel string
	)

	cmd := &cobra.Command{
		Use:   "cost",
		Short: "Estimate the credit cost of a run without starting it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			if duration == 0 {
				duration = cfg.Generation.DefaultDuration
			}
			if imageModel == "" {
				imageModel = cfg.Generation.ImageModel
			}

			count := scenes.Count(duration)
			if count == 0 {
				return fmt.Errorf("duration %ds is shorter than one scene (%ds)", duration, scenes.SecondsPerScene)
			}
			features := api.Features{
				GenerativeBackground: genBG,
				PremiumTTS:           premiumTTS,
				HighResolution:       fourK,
			}
			cost := pricing.Cost(count, features, imageModel)
			plan := scenes.Plan(count)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Duration: %ds (%d scenes)\n", duration, count)
			fmt.Fprintf(out, "Scenes:   %s\n", strings.Join(plan, " -> "))
			fmt.Fprintf(out, "Cost:     %d credits\n", cost)
			return nil
		},
	}

	cmd.Flags().IntVarP(&duration, "duration", "d", 0, "Target duration in seconds")
	cmd.Flags().BoolVar(&genBG, "generative-background", false, "Include the generative background surcharge")
	cmd.Flags().BoolVar(&premiumTTS, "premium-tts", false, "Include the premium voice surcharge")
	cmd.Flags().BoolVar(&fourK, "4k", false, "Include the 4K surcharge")
	cmd.Flags().StringVar(&imageModel, "image-model", "", "Image model to price")
	return cmd
}
