package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventpages/internal/domain"
)

func TestRender_GuestInvite(t *testing.T) {
	r := NewTemplateRenderer()
	data := &domain.GuestInviteEmailData{
		GuestName: "Marta",
		EventName: "Nora & Sam's Wedding",
		HostName:  "Nora",
		RSVPLink:  "https://example.com/rsvp/abc123",
	}
	subject, html, text, err := r.Render(domain.EmailTemplateGuestInvite, data)
	require.NoError(t, err)
	assert.Equal(t, "You're invited to Nora & Sam's Wedding", subject)
	assert.Contains(t, html, "https://example.com/rsvp/abc123")
	assert.Contains(t, text, "Marta")
	assert.Contains(t, text, "https://example.com/rsvp/abc123")
}

func TestRender_HTMLEscaping(t *testing.T) {
	r := NewTemplateRenderer()
	data := &domain.GuestInviteEmailData{
		GuestName: `<script>alert("x")</script>`,
		EventName: "Launch Party",
		HostName:  "Acme",
		RSVPLink:  "https://example.com/rsvp/t",
	}
	_, html, _, err := r.Render(domain.EmailTemplateGuestInvite, data)
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>", "guest-controlled fields must be escaped in HTML bodies")
}

func TestRender_AllOutboxTemplates(t *testing.T) {
	r := NewTemplateRenderer()
	cases := []struct {
		template string
		data     any
	}{
		{domain.EmailTemplateGuestInvite, &domain.GuestInviteEmailData{GuestName: "G", EventName: "E", HostName: "H", RSVPLink: "L"}},
		{domain.EmailTemplateRSVPConfirmation, &domain.RSVPConfirmationEmailData{GuestName: "G", EventName: "E", Response: "YES", GuestCount: 2}},
		{domain.EmailTemplateRSVPNotification, &domain.RSVPNotificationEmailData{OrganizerName: "O", GuestName: "G", EventName: "E", Response: "NO", GuestCount: 1, Notes: "n"}},
		{domain.EmailTemplateEventReminder, &domain.EventReminderEmailData{GuestName: "G", EventName: "E", StartsAt: "Saturday", Venue: "V", PageLink: "L"}},
		{"welcome", &domain.WelcomeMessageEmailData{Email: "a@b.com", FirstName: "A"}},
	}
	for _, tc := range cases {
		t.Run(tc.template, func(t *testing.T) {
			subject, html, text, err := r.Render(tc.template, tc.data)
			require.NoError(t, err)
			assert.NotEmpty(t, subject)
			assert.NotEmpty(t, html)
			assert.NotEmpty(t, text)
		})
	}
}

func TestRender_UnknownTemplate(t *testing.T) {
	r := NewTemplateRenderer()
	_, _, _, err := r.Render("no_such_template", nil)
	assert.Error(t, err)
}
