package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathan/coldmail/internal/composing"
	"github.com/jonathan/coldmail/internal/config"
	"github.com/jonathan/coldmail/internal/db"
	"github.com/jonathan/coldmail/internal/fetch"
	"github.com/jonathan/coldmail/internal/llm"
	"github.com/jonathan/coldmail/internal/parsing"
	"github.com/jonathan/coldmail/internal/portfolio"
	"github.com/jonathan/coldmail/internal/session"
)

// newLLMClient is swapped out in tests.
var newLLMClient = func(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}
	return llm.NewClient(ctx, llm.DefaultConfig(), cfg.GeminiAPIKey)
}

// app holds the wired pipeline shared by the serve and generate commands.
type app struct {
	controller *session.Controller
	client     llm.Client
	history    db.HistoryStore
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	client, err := newLLMClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	var history db.HistoryStore
	if cfg.DatabaseURL != "" {
		history, err = db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to open history store: %w", err)
		}
	}

	extractor := parsing.NewExtractor(client)
	extractor.Verbose = cfg.Verbose

	composer := composing.NewComposer(client, cfg.SenderName, cfg.SenderPitch)
	composer.Verbose = cfg.Verbose

	controller := &session.Controller{
		Loader:    fetch.NewHTTPLoader(cfg.FetchTimeout, cfg.UseBrowser, cfg.Verbose),
		Extractor: extractor,
		Composer:  composer,
		Portfolio: portfolio.New(cfg.PortfolioPath),
		SMTP:      config.LoadSMTP,
		Verbose:   cfg.Verbose,
	}
	if history != nil {
		controller.History = history
	}

	if cfg.Verbose {
		log.Printf("[VERBOSE] Model: %s", client.GetModel(llm.TierStandard))
	}

	return &app{controller: controller, client: client, history: history}, nil
}

// Close releases the model client and the history store.
func (a *app) Close() {
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			log.Printf("[coldmail] failed to close history store: %v", err)
		}
	}
	if err := a.client.Close(); err != nil {
		log.Printf("[coldmail] failed to close LLM client: %v", err)
	}
}
