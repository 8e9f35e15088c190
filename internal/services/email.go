package services

import (
	"context"
	"fmt"
	"log"

	"gatherly/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService creates the domain email service.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{
		mailer:   mailer,
		renderer: renderer,
	}
}

// SendEventInvite renders the invite templates and sends the result. The
// rendered bodies may embed the raw join token, so they are never logged.
func (s *emailService) SendEventInvite(ctx context.Context, data *domain.EventInviteEmailData) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	subject, htmlBody, textBody, err := s.renderer.Render("event_invite", data)
	if err != nil {
		return fmt.Errorf("render invite email: %w", err)
	}

	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("send invite email: %w", err)
	}

	log.Printf("[EMAIL] event invite sent to %s for %q", data.Email, data.EventTitle)
	return nil
}
