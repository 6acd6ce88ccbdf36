// Package session drives one user's cold email cycle: submit a job posting URL,
// review the generated email, send it, start over.
package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/coldmail/internal/types"
)

// State is a step of the session state machine.
type State string

const (
	StateIdle      State = "idle"
	StateLoading   State = "loading"
	StateExtracted State = "extracted"
	StateSent      State = "sent"
)

// NoticeLevel is the severity of a message shown to the user.
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a message shown once, on the next render.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// Session is the transient state of one user's interaction.
// EmailGenerated implies GeneratedEmail is non-empty, and EmailSent implies a
// send succeeded. Both only become true once the whole operation has succeeded.
type Session struct {
	ID             uuid.UUID         `json:"id"`
	State          State             `json:"state"`
	EmailGenerated bool              `json:"email_generated"`
	GeneratedEmail string            `json:"generated_email"`
	JobData        *types.JobPosting `json:"job_data"`
	EmailSent      bool              `json:"email_sent"`

	SourceURL string   `json:"source_url,omitempty"`
	Links     []string `json:"links,omitempty"`
	Recipient string   `json:"recipient,omitempty"`
	// LastURL is the most recently submitted URL, kept after a failed submit to refill the form.
	LastURL string `json:"last_url,omitempty"`

	Notices   []Notice  `json:"notices,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New returns an Idle session with a fresh ID.
func New() *Session {
	return &Session{ID: uuid.New(), State: StateIdle, UpdatedAt: time.Now()}
}

// Reset returns every field except the ID to its initial Idle value.
func (s *Session) Reset() {
	*s = Session{ID: s.ID, State: StateIdle, UpdatedAt: time.Now()}
}

// TakeNotices returns the pending notices and clears them.
func (s *Session) TakeNotices() []Notice {
	notices := s.Notices
	s.Notices = nil
	return notices
}

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	c := *s
	if s.JobData != nil {
		job := *s.JobData
		job.Skills = append([]string(nil), s.JobData.Skills...)
		c.JobData = &job
	}
	c.Links = append([]string(nil), s.Links...)
	c.Notices = append([]Notice(nil), s.Notices...)
	return &c
}

func (s *Session) notify(level NoticeLevel, message string) {
	s.Notices = append(s.Notices, Notice{Level: level, Message: message})
}

// clearEmail drops everything derived from a previous submission.
func (s *Session) clearEmail() {
	s.EmailGenerated = false
	s.GeneratedEmail = ""
	s.JobData = nil
	s.SourceURL = ""
	s.Links = nil
	s.Recipient = ""
}
