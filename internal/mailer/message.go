package mailer

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
)

// Message is a single plain-text email.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Build renders msg as an RFC 5322 message with a UTF-8 text/plain body.
func Build(msg Message, now time.Time) ([]byte, error) {
	from, err := mail.ParseAddress(strings.TrimSpace(msg.From))
	if err != nil {
		return nil, fmt.Errorf("invalid from address %q: %w", msg.From, err)
	}
	to, err := mail.ParseAddress(strings.TrimSpace(msg.To))
	if err != nil {
		return nil, fmt.Errorf("invalid recipient address %q: %w", msg.To, err)
	}

	var h mail.Header
	h.SetDate(now)
	h.SetAddressList("From", []*mail.Address{from})
	h.SetAddressList("To", []*mail.Address{to})
	h.SetSubject(msg.Subject)
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	if err := h.GenerateMessageID(); err != nil {
		return nil, fmt.Errorf("failed to generate message ID: %w", err)
	}

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("failed to write message header: %w", err)
	}
	if _, err := io.WriteString(w, msg.Body); err != nil {
		return nil, fmt.Errorf("failed to write message body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish message: %w", err)
	}
	return buf.Bytes(), nil
}
