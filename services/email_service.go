package services

import (
	"encoding/json"
	"fmt"
	"log"

	mail "gopkg.in/mail.v2"

	"agency-admin-server/config"
	"agency-admin-server/models"
)

// EmailService sends transactional mail over SMTP. It is the delivery arm
// of the outbox dispatcher; nothing in the request path talks to SMTP
// directly.
type EmailService struct {
	dialer *mail.Dialer
	from   string
}

// NewEmailService creates the email service. With no SMTP host configured
// the service is disabled and deliveries become logged no-ops.
func NewEmailService() *EmailService {
	smtp := config.AppConfig.SMTP

	var dialer *mail.Dialer
	if smtp.Host != "" {
		dialer = mail.NewDialer(smtp.Host, smtp.Port, smtp.Username, smtp.Password)
	}

	return &EmailService{
		dialer: dialer,
		from:   smtp.From,
	}
}

// Enabled reports whether SMTP is configured
func (e *EmailService) Enabled() bool {
	return e.dialer != nil
}

// Deliver sends the email described by an outbox event
func (e *EmailService) Deliver(event *models.OutboxEvent) error {
	if !e.Enabled() {
		log.Printf("📭 Email disabled, skipping outbox event %s (%s)", event.EventID, event.Kind)
		return nil
	}

	switch event.Kind {
	case models.OutboxAssignmentEmail:
		var p AssignmentEmailPayload
		if err := json.Unmarshal([]byte(event.Payload), &p); err != nil {
			return fmt.Errorf("bad assignment payload: %w", err)
		}
		subject := "A review was assigned to you"
		body := fmt.Sprintf(
			"<p>Hi %s,</p><p>%s assigned you the review for <b>%s</b> (review #%d). Please follow up from the review panel.</p>",
			p.AdminName, p.AssignedByName, p.ClientName, p.ReviewID,
		)
		return e.send(p.To, subject, body)

	case models.OutboxBugResolvedEmail:
		var p BugResolvedEmailPayload
		if err := json.Unmarshal([]byte(event.Payload), &p); err != nil {
			return fmt.Errorf("bad bug-resolved payload: %w", err)
		}
		subject := fmt.Sprintf("Your report has been resolved: %s", p.Subject)
		body := fmt.Sprintf(
			"<p>Thank you for your report (ref #%d). The issue you reported has been resolved.</p>",
			p.ReportID,
		)
		return e.send(p.To, subject, body)

	case models.OutboxConfirmationEmail:
		var p ConfirmationEmailPayload
		if err := json.Unmarshal([]byte(event.Payload), &p); err != nil {
			return fmt.Errorf("bad confirmation payload: %w", err)
		}
		subject := "We received your inquiry"
		body := fmt.Sprintf(
			"<p>Hi %s,</p><p>Thanks for reaching out. Our team will get back to you shortly.</p>",
			p.FullName,
		)
		return e.send(p.To, subject, body)

	default:
		return fmt.Errorf("unknown outbox kind: %s", event.Kind)
	}
}

func (e *EmailService) send(to, subject, htmlBody string) error {
	m := mail.NewMessage()
	m.SetHeader("From", e.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := e.dialer.DialAndSend(m); err != nil {
		log.Printf("❌ Failed to send email to %s: %v", to, err)
		return err
	}

	log.Printf("📧 Email sent to %s: %s", to, subject)
	return nil
}
