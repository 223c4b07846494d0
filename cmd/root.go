package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "intent-engine",
	Short: "Natural-language trading intent engine",
	Long: `Intent engine that turns plain-English trading instructions into
typed, validated, executable trade drafts.

A chat turn like "swap 1 ETH to USDC" is parsed into a structured draft,
priced against a swap aggregator, and on confirmation turned into an
unsigned transaction payload for the user's wallet to sign.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
