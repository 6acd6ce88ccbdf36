package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/jonathan/coldmail/internal/config"
	"github.com/jonathan/coldmail/internal/db"
	"github.com/jonathan/coldmail/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jobPage = `<html><body><main>
<h1>Senior Go Engineer</h1>
<p>We need 5 years of Go and Kubernetes experience to build platform services.</p>
</main></body></html>`

func jobServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func goJobClient() *fakeClient {
	return &fakeClient{
		jobJSON: `{"role": "Senior Go Engineer", "experience": "5 years", "skills": ["golang", "k8s"], "description": "Build platform services."}`,
		email:   "Dear Hiring Manager,\n\nI build Go platforms.\n\nBest regards,\nMohan",
	}
}

func TestGenerateCommand_PrintsEmail(t *testing.T) {
	clearEnv(t)
	useFakeClient(t, goJobClient())
	srv := jobServer(t, jobPage)

	stdout, stderr, err := execute(t, "", "generate", "--url", srv.URL+"/jobs/1")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Subject: Cold email for Senior Go Engineer")
	assert.Contains(t, stdout, "I build Go platforms.")
	assert.Contains(t, stderr, session.MsgLoaded)
}

func TestGenerateCommand_Verbose(t *testing.T) {
	clearEnv(t)
	useFakeClient(t, goJobClient())
	srv := jobServer(t, jobPage)

	_, stderr, err := execute(t, "", "generate", "--url", srv.URL, "--verbose")
	require.NoError(t, err)

	assert.Contains(t, stderr, "EXTRACTED JOB POSTING")
	assert.Contains(t, stderr, "PORTFOLIO LINKS")
	assert.Contains(t, stderr, "https://example.com/go-platform-portfolio")
}

func TestGenerateCommand_NoJobs(t *testing.T) {
	clearEnv(t)
	useFakeClient(t, &fakeClient{jobJSON: "[]"})
	srv := jobServer(t, jobPage)

	stdout, stderr, err := execute(t, "", "generate", "--url", srv.URL)
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, session.MsgNoJobs)
}

func TestGenerateCommand_InvalidURL(t *testing.T) {
	clearEnv(t)
	useFakeClient(t, goJobClient())

	_, stderr, err := execute(t, "", "generate", "--url", "not a url")
	require.Error(t, err)
	assert.Contains(t, stderr, session.MsgEnterURL)
}

func TestGenerateCommand_MissingURLFlag(t *testing.T) {
	clearEnv(t)
	useFakeClient(t, goJobClient())

	_, _, err := execute(t, "", "generate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
}

func TestGenerateCommand_MissingAPIKey(t *testing.T) {
	clearEnv(t)

	_, _, err := execute(t, "", "generate", "--url", "https://example.com/jobs")
	require.Error(t, err)

	var configErr *config.ConfigurationError
	assert.ErrorAs(t, err, &configErr)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestGenerateCommand_SendWithoutSMTP(t *testing.T) {
	clearEnv(t)
	useFakeClient(t, goJobClient())
	srv := jobServer(t, jobPage)

	stdout, stderr, err := execute(t, "", "generate", "--url", srv.URL, "--to", "hiring@acme.example")
	require.Error(t, err)

	var configErr *config.ConfigurationError
	require.ErrorAs(t, err, &configErr)
	assert.Equal(t, []string{"SMTP_HOST", "SMTP_USER", "SMTP_PASSWORD"}, configErr.Missing)

	// The draft is still printed before the send is attempted.
	assert.Contains(t, stdout, "I build Go platforms.")
	assert.Contains(t, stderr, "SMTP_HOST")
}

func TestGenerateCommand_PortfolioOverride(t *testing.T) {
	clearEnv(t)
	useFakeClient(t, goJobClient())
	srv := jobServer(t, jobPage)

	path := filepath.Join(t.TempDir(), "missing.csv")
	_, _, err := execute(t, "", "generate", "--url", srv.URL, "--portfolio", path)
	require.Error(t, err)

	var configErr *config.ConfigurationError
	assert.ErrorAs(t, err, &configErr)
}

func TestHistoryCommand(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := db.Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, store.RecordOutreach(context.Background(), &db.OutreachRecord{
		Recipient: "hiring@acme.example",
		Subject:   "Cold email for Data Engineer",
		Body:      "Hello",
	}))
	require.NoError(t, store.Close())

	stdout, _, err := execute(t, "", "history", "--db-url", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "SENT EMAILS (1)")
	assert.Contains(t, stdout, "hiring@acme.example")
}

func TestHistoryCommand_Validation(t *testing.T) {
	clearEnv(t)

	_, _, err := execute(t, "", "history")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")

	_, _, err = execute(t, "", "history", "--db-url", filepath.Join(t.TempDir(), "h.db"), "--limit", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--limit")
}
