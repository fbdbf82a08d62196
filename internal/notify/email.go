package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
)

// EmailNotifier implements Notifier over SMTPS. Each batch becomes one
// plain-text message; single alerts get a one-line body.
type EmailNotifier struct {
	host     string
	port     int
	username string
	password string
	from     string
	to       string
}

// NewEmailNotifier creates an EmailNotifier. An empty from falls back to
// the username.
func NewEmailNotifier(host string, port int, username, password, from, to string) *EmailNotifier {
	if from == "" {
		from = username
	}
	return &EmailNotifier{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		to:       to,
	}
}

// SendAlert sends a single pricing alert by email.
func (e *EmailNotifier) SendAlert(_ context.Context, alert *AlertPayload) error {
	body := alert.Line()
	if alert.Reason != "" {
		body += "\n" + alert.Reason
	}
	return e.send("Pricing Alert", body)
}

// SendBatchAlert sends all alerts from one pass as a single email.
func (e *EmailNotifier) SendBatchAlert(_ context.Context, alerts []AlertPayload) error {
	if len(alerts) == 0 {
		return nil
	}

	lines := make([]string, 0, len(alerts))
	for i := range alerts {
		lines = append(lines, alerts[i].Line())
	}
	return e.send("Pricing Alerts", strings.Join(lines, "\n"))
}

func (e *EmailNotifier) send(subject, body string) error {
	addr := net.JoinHostPort(e.host, strconv.Itoa(e.port))

	// Implicit TLS (SMTPS); the usual port is 465.
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: e.host, MinVersion: tls.VersionTLS12})
	if err != nil {
		return fmt.Errorf("dialing smtp server: %w", err)
	}

	client, err := smtp.NewClient(conn, e.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("starting smtp session: %w", err)
	}
	defer client.Close()

	if e.username != "" {
		auth := smtp.PlainAuth("", e.username, e.password, e.host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(e.from); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(e.to); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		e.from, e.to, subject, body)
	if _, err := w.Write([]byte(msg)); err != nil {
		w.Close()
		return fmt.Errorf("writing message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing message: %w", err)
	}

	return client.Quit()
}
