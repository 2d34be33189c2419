package main

import (
	"github.com/kevin07696/awesomesauce-gateway/internal/domain"
	domainports "github.com/kevin07696/awesomesauce-gateway/internal/domain/ports"
	"github.com/spf13/cobra"
)

var (
	amount        int64
	orderID       string
	authorization string
	card          domain.CreditCard
)

// purchaseCmd represents the purchase command
var purchaseCmd = &cobra.Command{
	Use:   "purchase",
	Short: "Authorize and capture an amount on a card",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		result, err := a.gateway.Purchase(cmd.Context(), amount, &card, options())
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), result)
	},
}

// authorizeCmd represents the authorize command
var authorizeCmd = &cobra.Command{
	Use:   "authorize",
	Short: "Place a hold for an amount on a card",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		result, err := a.gateway.Authorize(cmd.Context(), amount, &card, options())
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), result)
	},
}

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check a card with a 1.00 authorization that is voided right away",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		result, err := a.gateway.Verify(cmd.Context(), &card, options())
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), result)
	},
}

func options() *domainports.Options {
	if orderID == "" {
		return nil
	}
	return &domainports.Options{OrderID: orderID}
}

func addCardFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&card.Name, "name", "", "Card holder name")
	cmd.Flags().StringVar(&card.Number, "number", "", "Card number")
	cmd.Flags().StringVar(&card.VerificationValue, "cvv", "", "Card verification value")
	cmd.Flags().IntVar(&card.Month, "month", 0, "Expiry month (1-12)")
	cmd.Flags().IntVar(&card.Year, "year", 0, "Expiry year (four digits)")
	cmd.Flags().StringVar(&orderID, "order-id", "", "Merchant order reference, recorded in the audit trail")
	_ = cmd.MarkFlagRequired("number")
}

func init() {
	for _, cmd := range []*cobra.Command{purchaseCmd, authorizeCmd} {
		addCardFlags(cmd)
		cmd.Flags().Int64VarP(&amount, "amount", "a", 0, "Amount in cents")
		_ = cmd.MarkFlagRequired("amount")
	}
	addCardFlags(verifyCmd)

	rootCmd.AddCommand(purchaseCmd, authorizeCmd, verifyCmd)
}
