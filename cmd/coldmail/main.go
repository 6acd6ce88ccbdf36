// Package main provides the entry point for the cold email generator.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "coldmail",
	Short: "Cold email generator",
	Long:  "Coldmail reads a careers page, extracts the job posting, matches work samples from a portfolio, and drafts a cold email that can be sent over SMTP.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
