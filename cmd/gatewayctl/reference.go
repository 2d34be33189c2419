package main

import (
	"github.com/spf13/cobra"
)

// captureCmd represents the capture command
var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture a previous authorization",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		result, err := a.gateway.Capture(cmd.Context(), amount, authorization, options())
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), result)
	},
}

// voidCmd represents the void command
var voidCmd = &cobra.Command{
	Use:   "void",
	Short: "Cancel a previous authorization or purchase",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		result, err := a.gateway.Void(cmd.Context(), authorization, options())
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), result)
	},
}

// refundCmd represents the refund command
var refundCmd = &cobra.Command{
	Use:   "refund",
	Short: "Refund a previous purchase (sent to the gateway as a cancel)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		result, err := a.gateway.Refund(cmd.Context(), amount, authorization, options())
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), result)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{captureCmd, voidCmd, refundCmd} {
		cmd.Flags().StringVar(&authorization, "authorization", "", "Authorization reference returned by the gateway")
		cmd.Flags().StringVar(&orderID, "order-id", "", "Merchant order reference, recorded in the audit trail")
		_ = cmd.MarkFlagRequired("authorization")
	}
	for _, cmd := range []*cobra.Command{captureCmd, refundCmd} {
		cmd.Flags().Int64VarP(&amount, "amount", "a", 0, "Amount in cents")
	}

	rootCmd.AddCommand(captureCmd, voidCmd, refundCmd)
}
