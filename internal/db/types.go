package db

import (
	"time"

	"github.com/google/uuid"
)

// OutreachRecord is one successfully sent cold email.
type OutreachRecord struct {
	ID        uuid.UUID `json:"id"`
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject"`
	Role      string    `json:"role"`
	SourceURL string    `json:"source_url,omitempty"`
	Body      string    `json:"body"`
	SentAt    time.Time `json:"sent_at"`
}

// DefaultListLimit caps ListOutreach when the caller passes no limit.
const DefaultListLimit = 50

// MaxListLimit is the largest page ListOutreach will return.
const MaxListLimit = 500

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}

// prepare fills in a missing ID and timestamp.
func (r *OutreachRecord) prepare() {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.SentAt.IsZero() {
		r.SentAt = time.Now().UTC()
	}
}
