package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventpages/internal/domain"
)

type rsvpFixture struct {
	svc        domain.RSVPService
	eventRepo  *fakeEventRepo
	collabRepo *fakeCollabRepo
	inviteRepo *fakeInviteRepo
	rsvpRepo   *fakeRSVPRepo
	outbox     *fakeOutbox
	tokens     *fakeTokenSource
	owner      *domain.User
	event      *domain.Event
}

func newRSVPFixture(t *testing.T) *rsvpFixture {
	t.Helper()
	f := &rsvpFixture{
		eventRepo:  newFakeEventRepo(),
		collabRepo: newFakeCollabRepo(),
		inviteRepo: newFakeInviteRepo(),
		rsvpRepo:   newFakeRSVPRepo(),
		outbox:     newFakeOutbox(),
		tokens:     &fakeTokenSource{},
	}
	userRepo := newFakeUserRepo()
	f.owner = userRepo.add("owner@example.com", "Olivia")
	f.event = seedEvent(t, f.eventRepo, f.owner.ID, "Wedding", "wedding-abc123", domain.EventStatusPublished)
	f.svc = NewRSVPService(f.rsvpRepo, f.inviteRepo, f.eventRepo, f.collabRepo, userRepo,
		f.outbox, f.tokens, time.Second)
	return f
}

// addInvite stores an invite directly and returns the matching public token.
func (f *rsvpFixture) addInvite(t *testing.T, status string, maxGuests int) (*domain.Invite, string) {
	t.Helper()
	token, hash, err := f.tokens.GeneratePair()
	require.NoError(t, err)
	now := time.Now()
	inv := &domain.Invite{
		EventID:    f.event.ID,
		GuestName:  "Greta",
		GuestEmail: "greta@example.com",
		TokenHash:  hash,
		Status:     status,
		MaxGuests:  maxGuests,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, f.inviteRepo.Create(context.Background(), inv))
	return inv, token
}

func TestRSVPService_ResolveInvite(t *testing.T) {
	f := newRSVPFixture(t)
	inv, token := f.addInvite(t, domain.InviteStatusSent, 2)

	res, err := f.svc.ResolveInvite(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, inv.ID, res.Invite.ID)
	assert.Equal(t, f.event.ID, res.Event.ID)
	assert.Nil(t, res.RSVP)
}

func TestRSVPService_ResolveInvite_NotFound(t *testing.T) {
	f := newRSVPFixture(t)
	_, token := f.addInvite(t, domain.InviteStatusRevoked, 2)

	cases := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"unknown token", "tok-unknown"},
		{"revoked invite", token},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.ResolveInvite(context.Background(), tc.token)
			assert.ErrorIs(t, err, domain.ErrNotFound)
		})
	}
}

func TestRSVPService_ResolveInvite_UnpublishedEvent(t *testing.T) {
	f := newRSVPFixture(t)
	_, token := f.addInvite(t, domain.InviteStatusSent, 2)
	require.NoError(t, f.eventRepo.UpdateStatus(context.Background(), f.event.ID, domain.EventStatusDraft))

	_, err := f.svc.ResolveInvite(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRSVPService_Submit(t *testing.T) {
	f := newRSVPFixture(t)
	inv, token := f.addInvite(t, domain.InviteStatusSent, 3)
	notes := "vegetarian"

	rsvp, err := f.svc.Submit(context.Background(), token, domain.RSVPResponseYes, 2, &notes)
	require.NoError(t, err)
	assert.Equal(t, domain.RSVPResponseYes, rsvp.Response)
	assert.Equal(t, 2, rsvp.GuestCount)

	stored, err := f.inviteRepo.GetByID(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InviteStatusResponded, stored.Status)

	// Confirmation to the guest, notification to the organizer.
	require.Len(t, f.outbox.rows, 2)
	assert.Equal(t, domain.EmailTemplateRSVPConfirmation, f.outbox.rows[0].Template)
	assert.Equal(t, "greta@example.com", f.outbox.rows[0].Recipient)
	assert.Equal(t, domain.EmailTemplateRSVPNotification, f.outbox.rows[1].Template)
	assert.Equal(t, "owner@example.com", f.outbox.rows[1].Recipient)
}

func TestRSVPService_Submit_ClampsGuestCount(t *testing.T) {
	f := newRSVPFixture(t)
	_, token := f.addInvite(t, domain.InviteStatusSent, 2)

	rsvp, err := f.svc.Submit(context.Background(), token, domain.RSVPResponseYes, 10, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, rsvp.GuestCount)

	rsvp, err = f.svc.Submit(context.Background(), token, domain.RSVPResponseYes, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, rsvp.GuestCount)

	rsvp, err = f.svc.Submit(context.Background(), token, domain.RSVPResponseNo, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, rsvp.GuestCount)
}

func TestRSVPService_Submit_UpsertsInPlace(t *testing.T) {
	f := newRSVPFixture(t)
	inv, token := f.addInvite(t, domain.InviteStatusSent, 2)

	first, err := f.svc.Submit(context.Background(), token, domain.RSVPResponseMaybe, 1, nil)
	require.NoError(t, err)

	second, err := f.svc.Submit(context.Background(), token, domain.RSVPResponseYes, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	stored, err := f.rsvpRepo.GetByInviteID(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RSVPResponseYes, stored.Response)
}

func TestRSVPService_Submit_InvalidResponse(t *testing.T) {
	f := newRSVPFixture(t)
	_, token := f.addInvite(t, domain.InviteStatusSent, 2)

	_, err := f.svc.Submit(context.Background(), token, "PERHAPS", 1, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRSVPService_Summary_Access(t *testing.T) {
	f := newRSVPFixture(t)
	_, token := f.addInvite(t, domain.InviteStatusSent, 2)
	_, err := f.svc.Submit(context.Background(), token, domain.RSVPResponseYes, 2, nil)
	require.NoError(t, err)

	sum, err := f.svc.Summary(context.Background(), f.event.ID, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Yes)
	assert.Equal(t, 2, sum.ExpectedGuests)

	_, err = f.svc.Summary(context.Background(), f.event.ID, "stranger")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
