package main

import (
	"context"
	"fmt"
	"io"

	"github.com/jonathan/coldmail/internal/config"
	"github.com/jonathan/coldmail/internal/observability"
	"github.com/jonathan/coldmail/internal/session"
	"github.com/spf13/cobra"
)

var (
	generateURL       string
	generatePortfolio string
	generateTo        string
	generateVerbose   bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Draft a cold email for a job posting URL",
	Long: `Fetch a job posting, extract the job, match portfolio links and print the drafted email.
With --to the email is also sent over SMTP.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateURL, "url", "", "URL of the job posting")
	generateCmd.Flags().StringVar(&generatePortfolio, "portfolio", "", "Portfolio file (CSV or YAML), overrides PORTFOLIO_PATH")
	generateCmd.Flags().StringVar(&generateTo, "to", "", "Send the drafted email to this address")
	generateCmd.Flags().BoolVarP(&generateVerbose, "verbose", "v", false, "Print the extracted job and matched links")

	if err := generateCmd.MarkFlagRequired("url"); err != nil {
		panic(fmt.Sprintf("failed to mark url flag as required: %v", err))
	}

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if generatePortfolio != "" {
		cfg.PortfolioPath = generatePortfolio
	}
	if generateVerbose {
		cfg.Verbose = true
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	s := session.New()
	outcome := a.controller.Submit(ctx, s, generateURL)
	printNotices(errOut, s.TakeNotices())
	if outcome.Failed() {
		return outcome.Err
	}
	if outcome.Kind == session.KindNoJobsFound {
		return nil
	}

	if cfg.Verbose {
		printer := observability.NewPrinter(errOut)
		printer.PrintJobPosting(s.JobData)
		printer.PrintLinks(s.Links)
	}

	_, _ = fmt.Fprintf(out, "Subject: %s\n\n%s\n", session.Subject(s.JobData), s.GeneratedEmail)

	if generateTo == "" {
		return nil
	}

	outcome = a.controller.Send(ctx, s, generateTo)
	printNotices(errOut, s.TakeNotices())
	if outcome.Failed() {
		return outcome.Err
	}
	return nil
}

func printNotices(w io.Writer, notices []session.Notice) {
	for _, n := range notices {
		_, _ = fmt.Fprintf(w, "[%s] %s\n", n.Level, n.Message)
	}
}
