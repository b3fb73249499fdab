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

// WelcomeMessageEmailData holds data for the welcome email sent on signup.
type WelcomeMessageEmailData struct {
	Email     string
	FirstName string
}

// GuestInviteEmailData holds data for the guest invitation email.
type GuestInviteEmailData struct {
	GuestName string `json:"guest_name"`
	EventName string `json:"event_name"`
	HostName  string `json:"host_name"`
	RSVPLink  string `json:"rsvp_link"`
}

// RSVPConfirmationEmailData holds data for the guest-facing RSVP confirmation email.
type RSVPConfirmationEmailData struct {
	GuestName  string `json:"guest_name"`
	EventName  string `json:"event_name"`
	Response   string `json:"response"`
	GuestCount int    `json:"guest_count"`
}

// RSVPNotificationEmailData holds data for the organizer-facing RSVP notification email.
type RSVPNotificationEmailData struct {
	OrganizerName string `json:"organizer_name"`
	GuestName     string `json:"guest_name"`
	EventName     string `json:"event_name"`
	Response      string `json:"response"`
	GuestCount    int    `json:"guest_count"`
	Notes         string `json:"notes,omitempty"`
}

// EventReminderEmailData holds data for the pre-event reminder email.
type EventReminderEmailData struct {
	GuestName string `json:"guest_name"`
	EventName string `json:"event_name"`
	StartsAt  string `json:"starts_at"`
	Venue     string `json:"venue,omitempty"`
	PageLink  string `json:"page_link"`
}

// EmailService defines the contract for sending domain-level emails.
// Welcome mail is sent synchronously on signup; everything else goes through
// the outbox and is rendered by the sweeper.
type EmailService interface {
	SendWelcomeMessage(ctx context.Context, data *WelcomeMessageEmailData) error
}
