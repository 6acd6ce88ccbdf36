package main

import (
	"context"
	"fmt"

	"github.com/jonathan/coldmail/internal/config"
	"github.com/jonathan/coldmail/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long:  `Start an HTTP server with the cold email form and the JSON API.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	sessionCfg, err := config.NewSessionConfig()
	if err != nil {
		return fmt.Errorf("failed to load session config: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	// The server closes the history store on shutdown.
	defer func() { _ = a.client.Close() }()

	srv, err := server.New(server.Config{
		Port:       servePort,
		Controller: a.controller,
		Session:    sessionCfg,
		History:    a.history,
	})
	if err != nil {
		if a.history != nil {
			_ = a.history.Close()
		}
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
