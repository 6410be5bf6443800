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
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) SendAccountStatusNotification(ctx context.Context, email, name, status, reason string) error {
	subject := "Your membership account status has changed"
	body := fmt.Sprintf("Hello %s,\n\nYour membership account status is now: %s.", name, status)
	if reason != "" {
		body += fmt.Sprintf("\n\nReason: %s", reason)
	}
	body += "\n\nBest regards,\nThe Membership Team"
	return s.send(email, name, subject, body)
}

func (s *emailService) SendAdminReviewAlert(ctx context.Context, adminEmail, applicantName, memberID, reason string) error {
	subject := "Signup awaiting review"
	body := fmt.Sprintf(
		"A new signup needs manual verification.\n\nApplicant: %s\nMember ID: %s\nReview note: %s",
		applicantName, memberID, reason,
	)
	return s.send(adminEmail, "", subject, body)
}

func (s *emailService) send(toEmail, toName, subject, body string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, body, body)

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}
