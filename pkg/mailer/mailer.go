package mailer

import (
	"fmt"
	"net/smtp"
)

// Mailer sends transactional mail (password-reset links).
type Mailer interface {
	Send(to, subject, body string) error
}

type smtpMailer struct {
	host     string
	port     string
	email    string
	password string
}

func NewSMTPMailer(host, port, email, password string) Mailer {
	return &smtpMailer{
		host:     host,
		port:     port,
		email:    email,
		password: password,
	}
}

func (m *smtpMailer) Send(to, subject, body string) error {
	msg := ""
	msg += "MIME-Version: 1.0\r\n"
	msg += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	msg += fmt.Sprintf("From: %s\r\n", m.email)
	msg += fmt.Sprintf("To: %s\r\n", to)
	msg += fmt.Sprintf("Subject: %s\r\n", subject)
	msg += "\r\n" + body

	err := smtp.SendMail(
		m.host+":"+m.port,
		smtp.PlainAuth("", m.email, m.password, m.host),
		m.email,
		[]string{to},
		[]byte(msg),
	)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
