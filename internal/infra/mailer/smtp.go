package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/google/uuid"
)

type SMTPSender struct {
	Host     string
	Port     string
	User     string
	Password string

	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPSender(host, port, user, password string) *SMTPSender {
	return &SMTPSender{Host: host, Port: port, User: user, Password: password, sendMail: smtp.SendMail}
}

func (s *SMTPSender) Send(_ context.Context, msg Message) (string, error) {
	if err := validate(msg); err != nil {
		return "", err
	}
	if s.Host == "" {
		return "", ErrNotConfigured
	}

	var auth smtp.Auth
	if s.User != "" {
		auth = smtp.PlainAuth("", s.User, s.Password, s.Host)
	}

	id := fmt.Sprintf("<%s@%s>", uuid.NewString(), s.Host)
	raw := buildMIME(msg, id)

	if err := s.sendMail(s.Host+":"+s.Port, auth, envelopeAddress(msg.From), []string{msg.To}, raw); err != nil {
		return "", fmt.Errorf("smtp: %w", err)
	}
	return id, nil
}

func buildMIME(msg Message, id string) []byte {
	var b strings.Builder
	b.WriteString("From: " + msg.From + "\r\n")
	b.WriteString("To: " + msg.To + "\r\n")
	b.WriteString("Subject: " + msg.Subject + "\r\n")
	b.WriteString("Message-ID: " + id + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)
	b.WriteString("\r\n")
	return []byte(b.String())
}

// envelopeAddress extracts "a@b" from "Name <a@b>".
func envelopeAddress(from string) string {
	if i := strings.LastIndex(from, "<"); i >= 0 {
		if j := strings.LastIndex(from, ">"); j > i {
			return from[i+1 : j]
		}
	}
	return strings.TrimSpace(from)
}
