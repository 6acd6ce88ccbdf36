package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/jonathan/coldmail/internal/config"
	"github.com/jonathan/coldmail/internal/llm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// fakeClient answers extraction calls with jobJSON and composition calls with email.
type fakeClient struct {
	jobJSON string
	email   string
}

func (f *fakeClient) GenerateContent(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	return f.email, nil
}

func (f *fakeClient) GenerateJSON(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	return f.jobJSON, nil
}

func (f *fakeClient) GetModel(tier llm.ModelTier) string { return "fake-" + string(tier) }
func (f *fakeClient) Close() error                       { return nil }

// useFakeClient replaces the model client for the duration of the test.
func useFakeClient(t *testing.T, client llm.Client) {
	t.Helper()
	prev := newLLMClient
	newLLMClient = func(context.Context, *config.Config) (llm.Client, error) { return client, nil }
	t.Cleanup(func() { newLLMClient = prev })
}

// clearEnv unsets the variables the commands read so the host environment does not leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GEMINI_API_KEY", "LLM_MODEL", "PORTFOLIO_PATH", "DATABASE_URL", "USE_BROWSER",
		"FETCH_TIMEOUT", "SENDER_NAME", "SENDER_PITCH", "VERBOSE",
		"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASSWORD", "SMTP_FROM", "SMTP_USE_TLS",
	} {
		t.Setenv(key, "")
	}
}

// execute runs the root command in process with fresh flag state.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}
