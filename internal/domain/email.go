package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// EventInviteEmailData holds data for the invite email. JoinLink carries the
// raw token and is set only for token-mode invites; this payload is the only
// place the raw token ever appears.
type EventInviteEmailData struct {
	Email       string
	EventTitle  string
	InviterName string
	JoinLink    string
	ExpiresAt   string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendEventInvite(ctx context.Context, data *EventInviteEmailData) error
}
