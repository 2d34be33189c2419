package main

import (
	"fmt"
	"io"

	"github.com/kevin07696/awesomesauce-gateway/internal/adapters/awesomesauce"
	"github.com/spf13/cobra"
)

// scrubCmd represents the scrub command
var scrubCmd = &cobra.Command{
	Use:   "scrub",
	Short: "Filter credentials and card data from a transcript read on stdin",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		transcript, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read transcript: %w", err)
		}

		_, err = io.WriteString(cmd.OutOrStdout(), awesomesauce.Scrubber{}.Scrub(string(transcript)))
		return err
	},
}

func init() {
	rootCmd.AddCommand(scrubCmd)
}
