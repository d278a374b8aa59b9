package core

import (
	"context"
	"net/mail"

	"github.com/pkg/errors"
)

var (
	ErrEmptyMessage  = errors.New("message has no recipient or no content")
	ErrNotConfigured = errors.New("channel is not configured")
)

type (
	EmailMessage struct {
		To      []mail.Address
		Cc      []mail.Address
		Bcc     []mail.Address
		Subject string
		Body    string // text/plain
	}

	// EmailService is any service that can send emails.
	EmailService interface {
		// SendMessage delivers msg synchronously and reports the provider outcome.
		SendMessage(ctx context.Context, msg *EmailMessage) error
	}

	SMSMessage struct {
		To   string // E.164
		Body string
	}

	// SMSService is any service that can send text messages.
	SMSService interface {
		SendSMS(ctx context.Context, msg SMSMessage) (sid string, err error)
	}
)

func (m *EmailMessage) HasRecipients() bool { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool    { return m.Body != "" }
