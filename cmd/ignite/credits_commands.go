package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"ignite/internal/api"
	"ignite/internal/pricing"
)

func newCreditsCommand(cmdCtx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credits",
		Short: "Show the credit balance and buy more",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := cmdCtx.apiClient()
			if err != nil {
				return err
			}
			balance, err := apiClient.Credits(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Balance: %d credits\n", balance)
			return nil
		},
	}
	cmd.AddCommand(newCreditsTiersCommand())
	cmd.AddCommand(newCreditsBuyCommand(cmdCtx))
	cmd.AddCommand(newCreditsVerifyCommand(cmdCtx))
	return cmd
}

func newCreditsTiersCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "tiers",
		Short:       "List the purchasable credit packs",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, 3)
			for _, tier := range pricing.Tiers() {
				rows = append(rows, []string{
					tier.ID,
					tier.Name,
					pricing.FormatAmount(tier.AmountMinor),
					strconv.Itoa(tier.Credits),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Name", "Price", "Credits"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight},
			))
			return nil
		},
	}
}

func newCreditsBuyCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "buy <tier>",
		Short: "Open a checkout order for a credit pack",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tierID := args[0]
			if _, ok := pricing.TierByID(tierID); !ok {
				return fmt.Errorf("unknown tier %q; see `ignite credits tiers`", tierID)
			}
			apiClient, err := cmdCtx.apiClient()
			if err != nil {
				return err
			}
			order, err := apiClient.CreateOrder(cmd.Context(), tierID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Order %s created: %s for %d credits\n",
				order.ID, pricing.FormatAmount(order.Amount), order.Credits)
			fmt.Fprintln(out, "Complete the payment in your browser, then confirm with:")
			fmt.Fprintf(out, "  ignite credits verify --order %s --payment <payment-id> --signature <signature>\n", order.ID)
			return nil
		},
	}
}

func newCreditsVerifyCommand(cmdCtx *commandContext) *cobra.Command {
	var orderID, paymentID, signature string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Confirm a completed payment and credit the account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, err := cmdCtx.apiClient()
			if err != nil {
				return err
			}
			resp, err := apiClient.VerifyPayment(cmd.Context(), api.VerifyPaymentRequest{
				OrderID:   orderID,
				PaymentID: paymentID,
				Signature: signature,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: +%d credits, new balance %d\n",
				resp.Status, resp.CreditsAdded, resp.NewBalance)
			return nil
		},
	}

	cmd.Flags().StringVar(&orderID, "order", "", "Checkout order id")
	cmd.Flags().StringVar(&paymentID, "payment", "", "Payment id from the gateway")
	cmd.Flags().StringVar(&signature, "signature", "", "Gateway signature")
	_ = cmd.MarkFlagRequired("order")
	_ = cmd.MarkFlagRequired("payment")
	_ = cmd.MarkFlagRequired("signature")
	return cmd
}
