package notification

import (
	"context"
	"fmt"
	"log"
	"net/smtp"

	"coopfin-backend/internal/domain/notify"
)

// SMTPMailer sends plain-text mail through a relay. Like the webhook
// notifier it is best-effort: sends run async and failures are only logged.
type SMTPMailer struct {
	addr string // host:port
	from string
	auth smtp.Auth
}

var _ notify.Mailer = (*SMTPMailer)(nil)

// NewSMTPMailer builds a mailer for the given relay. Empty username skips
// authentication. An empty addr yields a no-op mailer.
func NewSMTPMailer(addr, from, username, password, host string) *SMTPMailer {
	m := &SMTPMailer{addr: addr, from: from}
	if username != "" {
		m.auth = smtp.PlainAuth("", username, password, host)
	}
	return m
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) {
	if m.addr == "" {
		return
	}
	go func() {
		msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
			m.from, to, subject, body))
		if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, msg); err != nil {
			log.Printf("mailer: send to %s: %v", to, err)
		}
	}()
}
