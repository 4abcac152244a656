package mailer

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/campus-pulse/pulse-api/internal/config"
)

// Mailer sends transactional mail over SMTP. Callers treat delivery as
// best-effort; a failed send is logged, never surfaced to the request.
type Mailer struct {
	conf   *config.SMTPConfig
	dialer *gomail.Dialer
}

func New(conf *config.SMTPConfig) *Mailer {
	return &Mailer{
		conf:   conf,
		dialer: gomail.NewDialer(conf.Host, conf.Port, conf.Username, conf.Password),
	}
}

func (m *Mailer) send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.conf.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("m.dialer.DialAndSend -> %w", err)
	}

	return nil
}

// SendExcuseDecision notifies a student that their excuse was reviewed.
// Failures are logged and swallowed so the review itself never fails on SMTP.
func (m *Mailer) SendExcuseDecision(to, eventTitle, status, notes string) {
	subject := fmt.Sprintf("Your excuse for %q was %s", eventTitle, status)
	body := fmt.Sprintf("Your excuse request for the event %q has been %s.", eventTitle, status)
	if notes != "" {
		body += fmt.Sprintf("\n\nReviewer notes: %s", notes)
	}

	if err := m.send(to, subject, body); err != nil {
		zap.L().Warn("failed to send excuse decision email",
			zap.String("to", to),
			zap.String("status", status),
			zap.Error(err),
		)
	}
}

// SendOrganizationDecision notifies an organization creator of the admin's
// approval decision.
func (m *Mailer) SendOrganizationDecision(to, orgName, status, notes string) {
	subject := fmt.Sprintf("Organization %q was %s", orgName, status)
	body := fmt.Sprintf("Your organization %q has been %s.", orgName, status)
	if notes != "" {
		body += fmt.Sprintf("\n\nReviewer notes: %s", notes)
	}

	if err := m.send(to, subject, body); err != nil {
		zap.L().Warn("failed to send organization decision email",
			zap.String("to", to),
			zap.String("status", status),
			zap.Error(err),
		)
	}
}
