// Package mailer sends transactional email.
package mailer

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
)

type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Sender delivers a message and returns the provider's message id.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

var ErrNotConfigured = errors.New("mail sender not configured")

func validate(msg Message) error {
	if msg.From == "" || msg.To == "" {
		return errors.New("mail: from and to are required")
	}
	if msg.Subject == "" {
		return errors.New("mail: subject is required")
	}
	return nil
}

// LogSender writes messages to the log instead of delivering them.
type LogSender struct {
	Log *slog.Logger
}

func (s LogSender) Send(_ context.Context, msg Message) (string, error) {
	if err := validate(msg); err != nil {
		return "", err
	}
	log := s.Log
	if log == nil {
		log = slog.Default()
	}
	id := "log-" + uuid.NewString()
	log.Info("mail not delivered (log sender)", "id", id, "to", msg.To, "subject", msg.Subject)
	return id, nil
}
