package mailer

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/emersion/go-smtp"
)

// ErrorKind classifies a failed send.
type ErrorKind string

const (
	KindAuthentication ErrorKind = "authentication"
	KindConnection     ErrorKind = "connection"
	KindProtocol       ErrorKind = "protocol"
	KindUnexpected     ErrorKind = "unexpected"
)

// Sentinels matched by errors.Is against a *SendError of the same kind.
var (
	ErrAuthentication = errors.New("smtp authentication failed")
	ErrConnection     = errors.New("smtp connection failed")
	ErrProtocol       = errors.New("smtp protocol error")
	ErrUnexpected     = errors.New("unexpected smtp failure")
)

// SendError is returned for every failed send.
type SendError struct {
	Kind ErrorKind
	Host string
	Port int
	Err  error
}

func (e *SendError) Error() string {
	switch e.Kind {
	case KindAuthentication:
		return fmt.Sprintf("SMTP authentication failed, check your username and password: %v", e.Err)
	case KindConnection:
		return fmt.Sprintf("could not connect to SMTP server %s:%d, check your SMTP settings: %v", e.Host, e.Port, e.Err)
	case KindProtocol:
		return fmt.Sprintf("SMTP error occurred: %v", e.Err)
	default:
		return fmt.Sprintf("unexpected error while sending email: %v", e.Err)
	}
}

func (e *SendError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's kind.
func (e *SendError) Is(target error) bool {
	switch target {
	case ErrAuthentication:
		return e.Kind == KindAuthentication
	case ErrConnection:
		return e.Kind == KindConnection
	case ErrProtocol:
		return e.Kind == KindProtocol
	case ErrUnexpected:
		return e.Kind == KindUnexpected
	}
	return false
}

type stage int

const (
	stageBuild stage = iota
	stageDial
	stageTLS
	stageAuth
	stageSend
)

// classify maps a failure at a given stage of the SMTP exchange to an ErrorKind.
func classify(st stage, err error) ErrorKind {
	if st == stageBuild {
		return KindUnexpected
	}
	if st == stageDial || isConnectionError(err) {
		return KindConnection
	}

	var smtpErr *smtp.SMTPError
	if errors.As(err, &smtpErr) {
		switch smtpErr.Code {
		case 530, 534, 535:
			return KindAuthentication
		}
		if st == stageAuth {
			return KindAuthentication
		}
		return KindProtocol
	}

	switch st {
	case stageAuth:
		return KindAuthentication
	case stageTLS:
		return KindConnection
	}
	return KindUnexpected
}

func isConnectionError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var recordErr tls.RecordHeaderError
	if errors.As(err, &recordErr) {
		return true
	}
	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return true
	}
	var unknownAuthority x509.UnknownAuthorityError
	return errors.As(err, &unknownAuthority)
}
