// Package mailer sends composed emails over authenticated SMTP.
package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"log"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
)

// DefaultTimeout bounds the dial and every SMTP command.
const DefaultTimeout = 10 * time.Second

// DefaultPort is the SMTP submission port.
const DefaultPort = 587

// ErrMissingCredentials is returned before connecting when no SMTP login is configured.
var ErrMissingCredentials = errors.New("SMTP username and password are required")

// Sender delivers a single message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Params is everything needed to send one email in a single call.
type Params struct {
	Subject  string
	Body     string
	To       string
	Host     string
	Port     int
	Username string
	Password string
	// From defaults to Username.
	From string
	// DisableTLS skips STARTTLS. The default session is encrypted.
	DisableTLS bool
}

// SendEmail sends one plain-text email. Failures are returned as *SendError.
func SendEmail(ctx context.Context, p Params) error {
	sender := &SMTPSender{
		Host:       p.Host,
		Port:       p.Port,
		Username:   p.Username,
		Password:   p.Password,
		DisableTLS: p.DisableTLS,
	}
	return sender.Send(ctx, Message{From: p.From, To: p.To, Subject: p.Subject, Body: p.Body})
}

// SMTPSender sends mail through one SMTP server: connect, STARTTLS unless
// disabled, PLAIN login, submit, quit. Nothing is retried.
type SMTPSender struct {
	Host       string
	Port       int
	Username   string
	Password   string
	DisableTLS bool
	// Timeout applies to the dial and to each command. Zero means DefaultTimeout.
	Timeout time.Duration
	// TLSConfig overrides the STARTTLS configuration.
	TLSConfig *tls.Config
}

// Send delivers msg. A blank From falls back to Username.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.From) == "" {
		msg.From = s.Username
	}

	raw, err := Build(msg, time.Now())
	if err != nil {
		return s.fail(stageBuild, err)
	}
	if strings.TrimSpace(s.Username) == "" || s.Password == "" {
		return s.fail(stageAuth, ErrMissingCredentials)
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(s.Host, strconv.Itoa(s.port())))
	if err != nil {
		return s.fail(stageDial, err)
	}

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	// Covers the greeting and STARTTLS, which run before CommandTimeout applies.
	_ = conn.SetDeadline(time.Now().Add(timeout))

	var client *smtp.Client
	if s.DisableTLS {
		client = smtp.NewClient(conn)
	} else {
		tlsConfig := s.TLSConfig
		if tlsConfig == nil {
			tlsConfig = &tls.Config{ServerName: s.Host, MinVersion: tls.VersionTLS12}
		}
		client, err = smtp.NewClientStartTLS(conn, tlsConfig)
		if err != nil {
			_ = conn.Close()
			return s.fail(stageTLS, err)
		}
	}
	client.CommandTimeout = timeout
	client.SubmissionTimeout = timeout
	defer func() { _ = client.Close() }()

	if err := client.Auth(sasl.NewPlainClient("", s.Username, s.Password)); err != nil {
		return s.fail(stageAuth, err)
	}

	from := addressOnly(msg.From)
	if err := client.SendMail(from, []string{addressOnly(msg.To)}, bytes.NewReader(raw)); err != nil {
		return s.fail(stageSend, err)
	}

	// The message is accepted at this point, a failed QUIT does not undo it.
	if err := client.Quit(); err != nil {
		log.Printf("[mailer] QUIT to %s failed after delivery: %v", s.Host, err)
	}
	return nil
}

func (s *SMTPSender) port() int {
	if s.Port == 0 {
		return DefaultPort
	}
	return s.Port
}

func (s *SMTPSender) fail(st stage, err error) error {
	return &SendError{Kind: classify(st, err), Host: s.Host, Port: s.port(), Err: err}
}

// addressOnly strips a display name, "Sam <sam@example.com>" becomes "sam@example.com".
func addressOnly(addr string) string {
	addr = strings.TrimSpace(addr)
	if start := strings.LastIndex(addr, "<"); start >= 0 {
		if end := strings.LastIndex(addr, ">"); end > start {
			return strings.TrimSpace(addr[start+1 : end])
		}
	}
	return addr
}
