package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tradewars/resolver/internal/app"
	"github.com/tradewars/resolver/pkg/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var snapshotCmd = &cobra.Command{
	Use:   "snapshot <wallet-address>",
	Short: "Take a priced asset snapshot of a wallet",
	Long: `Captures the wallet's current native and token balances with
best-effort USD values. Snapshots are for display and audit; winner
selection always works from the transfer ledger instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runSnapshot,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	wallet := args[0]
	if wallet == "" {
		return fmt.Errorf("wallet address cannot be empty")
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	application, err := app.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}
	defer func() {
		_ = application.Store().Close()
	}()

	snap, err := application.Snapshots().Take(context.Background(), wallet)
	if err != nil {
		return fmt.Errorf("take snapshot: %w", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	return encoder.Encode(snap)
}
