package main

import (
	"fmt"
	"os"

	"github.com/jonathan/coldmail/internal/db"
	"github.com/jonathan/coldmail/internal/observability"
	"github.com/spf13/cobra"
)

var (
	historyDBURL string
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List sent emails",
	Long:  `List the most recently sent emails from the history store (Postgres URL or SQLite file).`,
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyDBURL, "db-url", "", "History database, Postgres URL or SQLite path (default $DATABASE_URL)")
	historyCmd.Flags().IntVar(&historyLimit, "limit", db.DefaultListLimit, "Maximum number of emails to list")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	dbURL := historyDBURL
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		return fmt.Errorf("--db-url or DATABASE_URL is required")
	}
	if historyLimit <= 0 || historyLimit > db.MaxListLimit {
		return fmt.Errorf("--limit must be between 1 and %d", db.MaxListLimit)
	}

	ctx := cmd.Context()
	store, err := db.Open(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("failed to open history store: %w", err)
	}
	defer func() { _ = store.Close() }()

	records, err := store.ListOutreach(ctx, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list sent emails: %w", err)
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintHistory(records)
	return nil
}
