// Package notification delivers outbound mail to users over SMTP.
package notification

import (
	"context"
	"fmt"
	"net/smtp"
)

// SMTPNotifier sends plain-text mail through a single SMTP endpoint.
type SMTPNotifier struct {
	addr string
	from string
	auth smtp.Auth
}

func NewSMTPNotifier(host string, port int, username, password, from string) *SMTPNotifier {
	return &SMTPNotifier{
		addr: fmt.Sprintf("%s:%d", host, port),
		from: from,
		auth: smtp.PlainAuth("", username, password, host),
	}
}

func (n *SMTPNotifier) Send(_ context.Context, to, subject, body string) error {
	const op = "notification.SMTPNotifier.Send"

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", n.from, to, subject, body)

	if err := smtp.SendMail(n.addr, n.auth, n.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("%s: failed to send mail: %w", op, err)
	}

	return nil
}
