package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ignite/internal/api"
)

func newBrandCommand(cmdCtx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "brand",
		Short: "Manage the brand kit applied to generated ads",
	}
	cmd.AddCommand(newBrandShowCommand(cmdCtx))
	cmd.AddCommand(newBrandSetCommand(cmdCtx))
	return cmd
}

func newBrandShowCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the stored brand kit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := cmdCtx.apiClient()
			if err != nil {
				return err
			}
			brand, err := apiClient.Brand(cmd.Context())
			if err != nil {
				return err
			}
			printBrand(cmd, brand)
			return nil
		},
	}
}

func newBrandSetCommand(cmdCtx *commandContext) *cobra.Command {
	var (
		name    string
		logoURL string
		colors  []string
		font    string
		tone    string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update the brand kit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := cmdCtx.apiClient()
			if err != nil {
				return err
			}
			// Merge onto the stored kit so unset flags keep their value.
			brand, err := apiClient.Brand(cmd.Context())
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("name") {
				brand.Name = name
			}
			if cmd.Flags().Changed("logo") {
				brand.LogoURL = logoURL
			}
			if cmd.Flags().Changed("color") {
				brand.Colors = colors
			}
			if cmd.Flags().Changed("font") {
				brand.Font = font
			}
			if cmd.Flags().Changed("tone") {
				brand.Tone = tone
			}
			updated, err := apiClient.UpdateBrand(cmd.Context(), brand)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Brand kit updated.")
			printBrand(cmd, updated)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Brand name")
	cmd.Flags().StringVar(&logoURL, "logo", "", "Logo URL")
	cmd.Flags().StringSliceVar(&colors, "color", nil, "Brand color (repeatable)")
	cmd.Flags().StringVar(&font, "font", "", "Preferred font")
	cmd.Flags().StringVar(&tone, "tone", "", "Voice and tone, e.g. playful")
	return cmd
}

func printBrand(cmd *cobra.Command, brand api.BrandConfig) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Name:   %s\n", orDash(brand.Name))
	fmt.Fprintf(out, "Logo:   %s\n", orDash(brand.LogoURL))
	fmt.Fprintf(out, "Colors: %s\n", orDash(strings.Join(brand.Colors, ", ")))
	fmt.Fprintf(out, "Font:   %s\n", orDash(brand.Font))
	fmt.Fprintf(out, "Tone:   %s\n", orDash(brand.Tone))
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
