package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eventpages/internal/domain"
)

const reminderPageSize = 200

// OutboxProcessor drains the email outbox: it claims a batch of queued rows,
// renders each template with its stored payload, sends, and records the
// outcome. Failed rows stay FAILED; resends create new rows elsewhere.
type OutboxProcessor struct {
	outboxRepo domain.EmailOutboxRepository
	inviteRepo domain.InviteRepository
	rsvpRepo   domain.RSVPRepository
	eventRepo  domain.EventRepository
	renderer   domain.EmailTemplateRenderer
	mailer     domain.Mailer
	logger     *slog.Logger

	batchSize     int
	publicBaseURL string
}

func NewOutboxProcessor(outboxRepo domain.EmailOutboxRepository,
	inviteRepo domain.InviteRepository,
	rsvpRepo domain.RSVPRepository,
	eventRepo domain.EventRepository,
	renderer domain.EmailTemplateRenderer,
	mailer domain.Mailer,
	logger *slog.Logger,
	batchSize int,
	publicBaseURL string,
) *OutboxProcessor {
	if batchSize <= 0 {
		batchSize = 25
	}
	return &OutboxProcessor{
		outboxRepo:    outboxRepo,
		inviteRepo:    inviteRepo,
		rsvpRepo:      rsvpRepo,
		eventRepo:     eventRepo,
		renderer:      renderer,
		mailer:        mailer,
		logger:        logger,
		batchSize:     batchSize,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

func (p *OutboxProcessor) Run(ctx context.Context) (sent, failed int, err error) {
	rows, err := p.outboxRepo.ClaimBatch(ctx, p.batchSize)
	if err != nil {
		return 0, 0, fmt.Errorf("claim outbox batch: %w", err)
	}
	for _, row := range rows {
		if err := p.deliver(ctx, row); err != nil {
			failed++
			p.logger.Error("outbox delivery failed",
				"outbox_id", row.ID,
				"template", row.Template,
				"error", err)
			if markErr := p.outboxRepo.MarkFailed(ctx, row.ID, err.Error()); markErr != nil {
				p.logger.Error("mark outbox row failed", "outbox_id", row.ID, "error", markErr)
			}
			continue
		}
		sent++
		if markErr := p.outboxRepo.MarkSent(ctx, row.ID, time.Now()); markErr != nil {
			p.logger.Error("mark outbox row sent", "outbox_id", row.ID, "error", markErr)
		}
		p.afterSend(ctx, row)
	}
	return sent, failed, nil
}

func (p *OutboxProcessor) deliver(ctx context.Context, row *domain.EmailOutbox) error {
	data, err := decodePayload(row.Template, row.Payload)
	if err != nil {
		return err
	}
	subject, html, text, err := p.renderer.Render(row.Template, data)
	if err != nil {
		return fmt.Errorf("render %s: %w", row.Template, err)
	}
	if err := p.mailer.Send(row.Recipient, subject, html, text); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	return nil
}

// decodePayload rehydrates the typed template data stored as the row payload.
func decodePayload(template string, payload json.RawMessage) (any, error) {
	var data any
	switch template {
	case domain.EmailTemplateGuestInvite:
		data = &domain.GuestInviteEmailData{}
	case domain.EmailTemplateRSVPConfirmation:
		data = &domain.RSVPConfirmationEmailData{}
	case domain.EmailTemplateRSVPNotification:
		data = &domain.RSVPNotificationEmailData{}
	case domain.EmailTemplateEventReminder:
		data = &domain.EventReminderEmailData{}
	default:
		return nil, fmt.Errorf("unknown template %q", template)
	}
	if err := json.Unmarshal(payload, data); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", template, err)
	}
	return data, nil
}

// afterSend advances the invite from PENDING to SENT once its invitation
// email actually went out. A response recorded in the meantime wins.
func (p *OutboxProcessor) afterSend(ctx context.Context, row *domain.EmailOutbox) {
	if row.Template != domain.EmailTemplateGuestInvite || row.InviteID == nil {
		return
	}
	inv, err := p.inviteRepo.GetByID(ctx, *row.InviteID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			p.logger.Error("get invite after send", "invite_id", *row.InviteID, "error", err)
		}
		return
	}
	if inv.Status != domain.InviteStatusPending {
		return
	}
	if err := p.inviteRepo.UpdateStatus(ctx, inv.ID, domain.InviteStatusSent); err != nil {
		p.logger.Error("mark invite sent", "invite_id", inv.ID, "error", err)
	}
}

// EnqueueEventReminders queues an event_reminder email for every YES guest of
// each published event starting within the window. Invites that already have
// a reminder row are skipped, so the cron trigger is safe to repeat.
func (p *OutboxProcessor) EnqueueEventReminders(ctx context.Context, window time.Duration) (int, error) {
	now := time.Now()
	events, err := p.eventRepo.ListPublishedStartingBetween(ctx, now, now.Add(window))
	if err != nil {
		return 0, fmt.Errorf("list upcoming events: %w", err)
	}

	queued := 0
	for _, event := range events {
		already, err := p.remindedInvites(ctx, event.ID)
		if err != nil {
			return queued, err
		}
		n, err := p.enqueueRemindersForEvent(ctx, event, already)
		if err != nil {
			return queued, err
		}
		queued += n
	}
	return queued, nil
}

func (p *OutboxProcessor) remindedInvites(ctx context.Context, eventID string) (map[string]struct{}, error) {
	rows, err := p.outboxRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list outbox rows: %w", err)
	}
	already := make(map[string]struct{})
	for _, row := range rows {
		if row.Template == domain.EmailTemplateEventReminder && row.InviteID != nil {
			already[*row.InviteID] = struct{}{}
		}
	}
	return already, nil
}

func (p *OutboxProcessor) enqueueRemindersForEvent(ctx context.Context, event *domain.Event, already map[string]struct{}) (int, error) {
	queued := 0
	for page := 1; ; page++ {
		params := domain.PaginationParams{Page: page, PageSize: reminderPageSize}
		invites, total, err := p.inviteRepo.List(ctx, event.ID, "", params)
		if err != nil {
			return queued, fmt.Errorf("list invites: %w", err)
		}
		for _, inv := range invites {
			if inv.Status != domain.InviteStatusResponded {
				continue
			}
			if _, ok := already[inv.ID]; ok {
				continue
			}
			rsvp, err := p.rsvpRepo.GetByInviteID(ctx, inv.ID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					continue
				}
				return queued, fmt.Errorf("get rsvp: %w", err)
			}
			if rsvp.Response != domain.RSVPResponseYes {
				continue
			}
			if err := p.enqueueReminder(ctx, event, inv); err != nil {
				return queued, err
			}
			queued++
		}
		if page*reminderPageSize >= total || len(invites) == 0 {
			return queued, nil
		}
	}
}

func (p *OutboxProcessor) enqueueReminder(ctx context.Context, event *domain.Event, inv *domain.Invite) error {
	venue := ""
	if event.VenueName != nil {
		venue = *event.VenueName
	}
	if event.VenueAddress != nil && *event.VenueAddress != "" {
		if venue != "" {
			venue += ", "
		}
		venue += *event.VenueAddress
	}
	payload, err := json.Marshal(domain.EventReminderEmailData{
		GuestName: inv.GuestName,
		EventName: event.Name,
		StartsAt:  event.StartsAt.Format("Monday, 2 January 2006 at 15:04"),
		Venue:     venue,
		PageLink:  p.publicBaseURL + "/events/" + event.Slug,
	})
	if err != nil {
		return fmt.Errorf("marshal reminder payload: %w", err)
	}
	row := &domain.EmailOutbox{
		EventID:   &event.ID,
		InviteID:  &inv.ID,
		Recipient: inv.GuestEmail,
		Template:  domain.EmailTemplateEventReminder,
		Payload:   payload,
		Status:    domain.OutboxStatusQueued,
		CreatedAt: time.Now(),
	}
	if err := p.outboxRepo.Enqueue(ctx, row); err != nil {
		return fmt.Errorf("enqueue reminder: %w", err)
	}
	return nil
}
