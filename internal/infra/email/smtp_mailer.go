package email

import (
	"context"
	"fmt"
	"net/smtp"

	"servihub/internal/config"
	"servihub/internal/domain/ports/adapter"
)

var _ adapter.Mailer = (*SMTPMailer)(nil)

// SMTPMailer sends verification mail over plain SMTP with STARTTLS auth.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	baseURL  string
}

func NewSMTPMailer(cfg config.SMTPConfig, baseURL string) *SMTPMailer {
	return &SMTPMailer{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		from:     cfg.From,
		baseURL:  baseURL,
	}
}

func (m *SMTPMailer) SendVerificationEmail(ctx context.Context, to, token string) error {
	link := fmt.Sprintf("%s/api/auth/verify-email/%s", m.baseURL, token)
	subject := "Verify your email address"
	body := fmt.Sprintf(
		"Welcome!\r\n\r\nPlease verify your email address by opening the link below:\r\n\r\n%s\r\n\r\nThe link can be used once.\r\n",
		link,
	)

	msg := []byte(
		fmt.Sprintf("From: %s\r\n", m.from) +
			fmt.Sprintf("To: %s\r\n", to) +
			fmt.Sprintf("Subject: %s\r\n", subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/plain; charset=\"utf-8\"\r\n" +
			"\r\n" +
			body,
	)

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	done := make(chan error, 1)
	go func() { done <- smtp.SendMail(addr, auth, m.from, []string{to}, msg) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send verification mail: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
