package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
	portalURL string
}

func NewEmailService(apiKey, fromEmail, fromName, portalURL string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
		portalURL: portalURL,
	}
}

func (s *emailService) SendWelcome(ctx context.Context, email, name string) error {
	body := fmt.Sprintf(
		"Hello %s,\n\nYour registration has been approved. You can now sign in at %s with the email address and password you registered with.\n\nBest regards,\nThe LearnPortal Team",
		name, s.portalURL)
	return s.send(ctx, email, name, "Your LearnPortal account is ready", body)
}

func (s *emailService) SendRejection(ctx context.Context, email, name, reason string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour registration request has not been approved.", name)
	if reason != "" {
		body += fmt.Sprintf("\n\nReason: %s", reason)
	}
	body += "\n\nBest regards,\nThe LearnPortal Team"
	return s.send(ctx, email, name, "Your LearnPortal registration", body)
}

func (s *emailService) send(ctx context.Context, to, toName, subject, plainText string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, plainText)

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}
