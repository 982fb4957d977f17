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
var resolveCmd = &cobra.Command{
	Use:   "resolve <competition-id>",
	Short: "Resolve one competition and print the determination",
	Args:  cobra.ExactArgs(1),
	RunE:  runResolve,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	var resolveCompetitionID int64
	_, err := fmt.Sscanf(args[0], "%d", &resolveCompetitionID)
	if err != nil || resolveCompetitionID <= 0 {
		return fmt.Errorf("competition id must be a positive integer, got %q", args[0])
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

	det, err := application.Resolver().Resolve(context.Background(), resolveCompetitionID)
	if err != nil {
		return fmt.Errorf("resolve competition %d: %w", resolveCompetitionID, err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	return encoder.Encode(det)
}
