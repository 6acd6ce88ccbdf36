package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/coldmail/internal/config"
	"github.com/jonathan/coldmail/internal/db"
	"github.com/jonathan/coldmail/internal/fetch"
	"github.com/jonathan/coldmail/internal/ingestion"
	"github.com/jonathan/coldmail/internal/mailer"
	"github.com/jonathan/coldmail/internal/types"
)

// User-facing messages.
const (
	MsgLoaded          = "Job posting loaded successfully!"
	MsgPageNotLoaded   = "Could not load the webpage. Please check the URL and try again."
	MsgNoJobs          = "No jobs found in the provided URL."
	MsgEnterURL        = "Please enter the URL of the job posting."
	MsgEnterRecipient  = "Please enter a recipient email address."
	MsgInvalidAddress  = "Please enter a valid recipient email address."
	MsgSent            = "Your email has been sent successfully!"
	MsgTroubleshooting = "Troubleshooting tips:"

	// SubjectFallback completes the subject line when the job has no role.
	SubjectFallback = "the opportunity"
)

// TroubleshootingTips are shown after a failed submission.
var TroubleshootingTips = []string{
	"1. Check your internet connection",
	"2. Try a different job posting URL",
	"3. Make sure the URL is accessible in your browser",
}

// JobExtractor turns normalized page text into job postings.
type JobExtractor interface {
	ExtractJobs(ctx context.Context, text string) ([]types.JobPosting, error)
}

// EmailWriter drafts the email for one job.
type EmailWriter interface {
	WriteEmail(ctx context.Context, job types.JobPosting, links []string) (string, error)
}

// LinkMatcher finds work samples for a list of skills.
type LinkMatcher interface {
	Load(ctx context.Context) error
	QueryLinks(skills []string) []string
}

// HistoryRecorder keeps a record of sent emails.
type HistoryRecorder interface {
	RecordOutreach(ctx context.Context, record *db.OutreachRecord) error
}

// SMTPResolver returns the SMTP settings to send with. It is called on every send.
type SMTPResolver func() (config.SMTPSettings, error)

// Controller runs the session state machine. Every action is synchronous and
// completes before it returns; nothing is retried.
type Controller struct {
	Loader    fetch.Loader
	Extractor JobExtractor
	Composer  EmailWriter
	Portfolio LinkMatcher
	SMTP      SMTPResolver
	// NewSender builds the transport for resolved settings. Nil means an SMTP sender.
	NewSender func(config.SMTPSettings) mailer.Sender
	// History is optional.
	History HistoryRecorder
	Verbose bool
}

// Submit loads the job posting at rawURL and drafts an email for its first job.
// On success the session is Extracted. Anything else leaves it Idle with no email.
func (c *Controller) Submit(ctx context.Context, s *Session, rawURL string) Outcome {
	if s.State == StateSent {
		return c.reject(s, &TransitionError{Action: "submit a URL", State: s.State})
	}

	rawURL = strings.TrimSpace(rawURL)
	s.LastURL = rawURL
	if err := (&types.SubmitRequest{URL: rawURL}).Validate(); err != nil {
		s.notify(NoticeError, MsgEnterURL)
		return c.reject(s, &ValidationError{Field: "url", Message: "a job posting URL is required", Cause: err})
	}

	s.clearEmail()
	s.State = StateLoading
	log.Printf("[session] %s: loading %s", s.ID, rawURL)

	text, err := ingestion.Ingest(ctx, c.Loader, rawURL, c.Verbose)
	if err != nil {
		if errors.Is(err, ingestion.ErrEmptyPage) {
			s.notify(NoticeError, MsgPageNotLoaded)
			return c.idle(s, KindFetch, err)
		}
		return c.submitFailed(s, KindFetch, err)
	}
	s.notify(NoticeSuccess, MsgLoaded)

	if err := c.Portfolio.Load(ctx); err != nil {
		return c.submitFailed(s, KindConfiguration, &config.ConfigurationError{Message: "failed to load portfolio", Cause: err})
	}

	jobs, err := c.Extractor.ExtractJobs(ctx, text)
	if err != nil {
		return c.submitFailed(s, KindExtraction, err)
	}
	if len(jobs) == 0 {
		s.notify(NoticeWarning, MsgNoJobs)
		return c.idle(s, KindNoJobsFound, ErrNoJobsFound)
	}

	job := jobs[0]
	links := c.Portfolio.QueryLinks(job.Skills)
	if c.Verbose {
		log.Printf("[VERBOSE] %d job(s) extracted, using %q with %d link(s)", len(jobs), job.Role, len(links))
	}

	email, err := c.Composer.WriteEmail(ctx, job, links)
	if err != nil {
		return c.submitFailed(s, KindExtraction, err)
	}
	if strings.TrimSpace(email) == "" {
		return c.submitFailed(s, KindExtraction, errors.New("generated email is empty"))
	}

	s.EmailGenerated = true
	s.GeneratedEmail = email
	s.JobData = &job
	s.SourceURL = rawURL
	s.Links = links
	s.State = StateExtracted
	log.Printf("[session] %s: email generated for %q", s.ID, job.Role)
	return Outcome{State: s.State}
}

// Send mails the generated email to recipient. A failed send keeps the session
// Extracted with the email intact so the user can retry.
func (c *Controller) Send(ctx context.Context, s *Session, recipient string) Outcome {
	if s.State != StateExtracted || !s.EmailGenerated {
		return c.reject(s, &TransitionError{Action: "send an email", State: s.State})
	}

	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		s.notify(NoticeError, MsgEnterRecipient)
		return c.reject(s, ErrEmptyRecipient)
	}
	if err := (&types.SendRequest{Recipient: recipient}).Validate(); err != nil {
		s.notify(NoticeError, MsgInvalidAddress)
		return c.reject(s, &ValidationError{Field: "recipient", Message: "not an email address", Cause: err})
	}

	settings, err := c.resolveSMTP()
	if err != nil {
		s.notify(NoticeError, err.Error())
		return Outcome{State: s.State, Err: err, Kind: KindConfiguration}
	}

	msg := mailer.Message{
		From:    settings.FromAddress(),
		To:      recipient,
		Subject: Subject(s.JobData),
		Body:    s.GeneratedEmail,
	}
	if err := c.sender(settings).Send(ctx, msg); err != nil {
		log.Printf("[session] %s: send to %s failed: %v", s.ID, recipient, err)
		s.notify(NoticeError, fmt.Sprintf("Failed to send email: %v", err))
		return Outcome{State: s.State, Err: err, Kind: KindSend}
	}

	s.EmailSent = true
	s.Recipient = recipient
	s.State = StateSent
	s.notify(NoticeSuccess, MsgSent)
	log.Printf("[session] %s: email sent to %s", s.ID, recipient)

	c.record(ctx, s, msg)
	return Outcome{State: s.State}
}

// Reset returns the session to Idle from any state.
func (c *Controller) Reset(s *Session) Outcome {
	s.Reset()
	return Outcome{State: s.State}
}

// Subject is the email subject line for a job.
func Subject(job *types.JobPosting) string {
	return fmt.Sprintf("Cold email for %s", job.RoleOr(SubjectFallback))
}

func (c *Controller) resolveSMTP() (config.SMTPSettings, error) {
	if c.SMTP == nil {
		return config.SMTPSettings{}, &config.ConfigurationError{Missing: []string{"SMTP_HOST", "SMTP_USER", "SMTP_PASSWORD"}}
	}
	settings, err := c.SMTP()
	if err != nil {
		return settings, err
	}
	if err := settings.Validate(); err != nil {
		return settings, err
	}
	return settings, nil
}

func (c *Controller) sender(settings config.SMTPSettings) mailer.Sender {
	if c.NewSender != nil {
		return c.NewSender(settings)
	}
	return &mailer.SMTPSender{
		Host:       settings.Host,
		Port:       settings.Port,
		Username:   settings.User,
		Password:   settings.Password,
		DisableTLS: !settings.UseTLS,
	}
}

// record stores the sent email. The email is already out, so failures are only logged.
func (c *Controller) record(ctx context.Context, s *Session, msg mailer.Message) {
	if c.History == nil {
		return
	}
	record := &db.OutreachRecord{
		Recipient: msg.To,
		Subject:   msg.Subject,
		Role:      s.JobData.RoleOr(""),
		SourceURL: s.SourceURL,
		Body:      msg.Body,
	}
	if err := c.History.RecordOutreach(ctx, record); err != nil {
		log.Printf("[session] %s: failed to record outreach: %v", s.ID, err)
	}
}

func (c *Controller) submitFailed(s *Session, kind ErrorKind, err error) Outcome {
	log.Printf("[session] %s: submit failed: %v", s.ID, err)
	s.notify(NoticeError, fmt.Sprintf("An Error Occurred: %v", err))
	s.notify(NoticeInfo, MsgTroubleshooting)
	for _, tip := range TroubleshootingTips {
		s.notify(NoticeInfo, tip)
	}
	return c.idle(s, kind, err)
}

func (c *Controller) idle(s *Session, kind ErrorKind, err error) Outcome {
	s.clearEmail()
	s.State = StateIdle
	return Outcome{State: s.State, Err: err, Kind: kind}
}

func (c *Controller) reject(s *Session, err error) Outcome {
	var transitionErr *TransitionError
	if errors.As(err, &transitionErr) {
		s.notify(NoticeWarning, fmt.Sprintf("Cannot %s right now.", transitionErr.Action))
	}
	return Outcome{State: s.State, Err: err, Kind: KindValidation}
}
