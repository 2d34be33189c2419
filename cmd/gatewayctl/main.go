package main

import (
	"github.com/spf13/cobra"
)

var configDir string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "gatewayctl",
	Short:         "Command line tool for the AwesomeSauce credit card gateway.",
	SilenceUsage:  true,
	SilenceErrors: false,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "Directory containing gateway.yaml")
}

func main() {
	cobra.CheckErr(rootCmd.Execute())
}
