// Package mailer abstracts outbound email so the auth flow can be exercised
// without a live provider.
package mailer

import (
	"context"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/sirupsen/logrus"
)

// Mailer sends a single plain-text message.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Mailgun delivers mail through the Mailgun HTTP API.
type Mailgun struct {
	client *mailgun.MailgunImpl
	sender string
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{
		client: mailgun.NewMailgun(domain, apiKey),
		sender: sender,
	}
}

func (m *Mailgun) Send(ctx context.Context, to, subject, body string) error {
	message := m.client.NewMessage(m.sender, subject, body, to)
	_, _, err := m.client.Send(ctx, message)
	return err
}

// Log writes the message to the application log instead of sending it. Used
// when no Mailgun credentials are configured (local development).
type Log struct{}

func (Log) Send(ctx context.Context, to, subject, body string) error {
	logrus.WithFields(logrus.Fields{
		"to":      to,
		"subject": subject,
	}).Info("mail delivery disabled, logging message body")
	logrus.Info(body)
	return nil
}
