package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "tradewars-resolver",
	Short: "Trading-competition resolution service",
	Long: `Resolution service for wallet-vs-wallet trading competitions.

After a competition window closes, the resolver collects every relevant
on-chain transaction for each participant from two independent indexers
(Solscan primary, Shyft fallback), normalizes them into canonical
transfers, aggregates per-asset buy/sell flow, and declares the winner
by highest total profit.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
