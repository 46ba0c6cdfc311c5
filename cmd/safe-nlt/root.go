package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	logFormat string
}

var rootCmd = &cobra.Command{
	Use:   "safe-nlt",
	Short: "Launch local SAFE vault test networks",
	Long: "Safe-nlt bootstraps a local SAFE test network: a genesis vault first,\n" +
		"then followers joined through the contact info scraped from its log.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlags.logFormat, "log-format", "text", "Log format for diagnostics (text, json)")
	rootCmd.AddCommand(launchCmd)
	rootCmd.AddCommand(joinCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
