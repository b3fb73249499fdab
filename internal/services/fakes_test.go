package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"eventpages/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	byID   map[string]*domain.Event
	nextID int
	err    error // if set, Create returns this error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		byID:   make(map[string]*domain.Event),
		nextID: 1,
	}
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	for _, other := range f.byID {
		if other.Slug == e.Slug {
			return domain.ErrConflict
		}
	}
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	f.nextID++
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	for _, e := range f.byID {
		if e.Slug == slug {
			return e, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) ListByOwnerID(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range f.byID {
		if e.OwnerID == ownerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) ListPublishedStartingBetween(ctx context.Context, from, to time.Time) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range f.byID {
		if e.Status != domain.EventStatusPublished {
			continue
		}
		if e.StartsAt.Before(from) || !e.StartsAt.Before(to) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, eventID string, upd domain.EventUpdate) (*domain.Event, error) {
	e, ok := f.byID[eventID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.Name != nil {
		e.Name = *upd.Name
	}
	if upd.StartsAt != nil {
		e.StartsAt = *upd.StartsAt
	}
	if upd.EndsAt != nil {
		e.EndsAt = upd.EndsAt
	}
	if upd.VenueName != nil {
		e.VenueName = upd.VenueName
	}
	if upd.VenueAddress != nil {
		e.VenueAddress = upd.VenueAddress
	}
	if upd.Description != nil {
		e.Description = upd.Description
	}
	return e, nil
}

func (f *fakeEventRepo) UpdateStatus(ctx context.Context, eventID, status string) error {
	e, ok := f.byID[eventID]
	if !ok {
		return domain.ErrNotFound
	}
	e.Status = status
	return nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeCollabRepo is an in-memory EventCollaboratorRepository for tests.
type fakeCollabRepo struct {
	roles map[string]string // eventID:userID -> role
}

func newFakeCollabRepo() *fakeCollabRepo {
	return &fakeCollabRepo{roles: make(map[string]string)}
}

func collabKey(eventID, userID string) string { return eventID + ":" + userID }

func (f *fakeCollabRepo) Add(ctx context.Context, eventID, userID, role string) error {
	key := collabKey(eventID, userID)
	if _, ok := f.roles[key]; ok {
		return domain.ErrAlreadyMember
	}
	f.roles[key] = role
	return nil
}

func (f *fakeCollabRepo) GetRole(ctx context.Context, eventID, userID string) (string, error) {
	if role, ok := f.roles[collabKey(eventID, userID)]; ok {
		return role, nil
	}
	return "", domain.ErrNotFound
}

func (f *fakeCollabRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.EventCollaborator, error) {
	var out []*domain.EventCollaborator
	for key, role := range f.roles {
		parts := strings.SplitN(key, ":", 2)
		if parts[0] != eventID {
			continue
		}
		out = append(out, &domain.EventCollaborator{EventID: eventID, UserID: parts[1], Role: role})
	}
	return out, nil
}

func (f *fakeCollabRepo) Remove(ctx context.Context, eventID, userID string) error {
	key := collabKey(eventID, userID)
	if _, ok := f.roles[key]; !ok {
		return domain.ErrNotFound
	}
	delete(f.roles, key)
	return nil
}

// fakeUserRepo is an in-memory UserRepository for tests.
type fakeUserRepo struct {
	byID   map[string]*domain.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[string]*domain.User), nextID: 1}
}

func (f *fakeUserRepo) add(email, name string) *domain.User {
	u := &domain.User{
		ID:    fmt.Sprintf("u-%d", f.nextID),
		Email: email,
		Name:  name,
	}
	f.nextID++
	f.byID[u.ID] = u
	return u
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	for _, other := range f.byID {
		if other.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	u.ID = fmt.Sprintf("u-%d", f.nextID)
	f.nextID++
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) Update(ctx context.Context, u *domain.User) error {
	if _, ok := f.byID[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	f.byID[u.ID] = u
	return nil
}

// fakeInviteRepo is an in-memory InviteRepository for tests.
type fakeInviteRepo struct {
	byID   map[string]*domain.Invite
	nextID int
}

func newFakeInviteRepo() *fakeInviteRepo {
	return &fakeInviteRepo{byID: make(map[string]*domain.Invite), nextID: 1}
}

func (f *fakeInviteRepo) Create(ctx context.Context, inv *domain.Invite) error {
	inv.ID = fmt.Sprintf("inv-%d", f.nextID)
	f.nextID++
	f.byID[inv.ID] = inv
	return nil
}

func (f *fakeInviteRepo) GetByID(ctx context.Context, id string) (*domain.Invite, error) {
	if inv, ok := f.byID[id]; ok {
		return inv, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeInviteRepo) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Invite, error) {
	for _, inv := range f.byID {
		if inv.TokenHash == tokenHash {
			return inv, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeInviteRepo) List(ctx context.Context, eventID, search string, params domain.PaginationParams) ([]*domain.Invite, int, error) {
	var all []*domain.Invite
	for _, inv := range f.byID {
		if inv.EventID != eventID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(inv.GuestName), strings.ToLower(search)) &&
			!strings.Contains(strings.ToLower(inv.GuestEmail), strings.ToLower(search)) {
			continue
		}
		all = append(all, inv)
	}
	total := len(all)
	offset := params.Offset()
	if offset > total {
		return nil, total, nil
	}
	end := offset + params.Limit(20)
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (f *fakeInviteRepo) UpdateStatus(ctx context.Context, id, status string) error {
	inv, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	inv.Status = status
	return nil
}

func (f *fakeInviteRepo) UpdateToken(ctx context.Context, id, tokenHash string) error {
	inv, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	inv.TokenHash = tokenHash
	return nil
}

func (f *fakeInviteRepo) CountByEventID(ctx context.Context, eventID string) (int, error) {
	n := 0
	for _, inv := range f.byID {
		if inv.EventID == eventID {
			n++
		}
	}
	return n, nil
}

// fakeRSVPRepo is an in-memory RSVPRepository for tests.
type fakeRSVPRepo struct {
	byInvite map[string]*domain.RSVP
	nextID   int
}

func newFakeRSVPRepo() *fakeRSVPRepo {
	return &fakeRSVPRepo{byInvite: make(map[string]*domain.RSVP), nextID: 1}
}

func (f *fakeRSVPRepo) Upsert(ctx context.Context, rsvp *domain.RSVP) error {
	if existing, ok := f.byInvite[rsvp.InviteID]; ok {
		rsvp.ID = existing.ID
		rsvp.CreatedAt = existing.CreatedAt
	} else {
		rsvp.ID = fmt.Sprintf("rsvp-%d", f.nextID)
		f.nextID++
	}
	f.byInvite[rsvp.InviteID] = rsvp
	return nil
}

func (f *fakeRSVPRepo) GetByInviteID(ctx context.Context, inviteID string) (*domain.RSVP, error) {
	if r, ok := f.byInvite[inviteID]; ok {
		return r, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRSVPRepo) Summary(ctx context.Context, eventID string) (*domain.RSVPSummary, error) {
	sum := &domain.RSVPSummary{}
	for _, r := range f.byInvite {
		if r.EventID != eventID {
			continue
		}
		switch r.Response {
		case domain.RSVPResponseYes:
			sum.Yes++
			sum.ExpectedGuests += r.GuestCount
		case domain.RSVPResponseNo:
			sum.No++
		case domain.RSVPResponseMaybe:
			sum.Maybe++
		}
	}
	return sum, nil
}

// fakePageConfigRepo is an in-memory PageConfigRepository for tests.
type fakePageConfigRepo struct {
	byEventID map[string]*domain.PageConfigRecord
	nextID    int
}

func newFakePageConfigRepo() *fakePageConfigRepo {
	return &fakePageConfigRepo{byEventID: make(map[string]*domain.PageConfigRecord), nextID: 1}
}

func (f *fakePageConfigRepo) Upsert(ctx context.Context, rec *domain.PageConfigRecord) error {
	if existing, ok := f.byEventID[rec.EventID]; ok {
		rec.ID = existing.ID
		rec.PublishedConfig = existing.PublishedConfig
		rec.PublishedAt = existing.PublishedAt
	} else {
		rec.ID = fmt.Sprintf("pc-%d", f.nextID)
		f.nextID++
	}
	f.byEventID[rec.EventID] = rec
	return nil
}

func (f *fakePageConfigRepo) GetByEventID(ctx context.Context, eventID string) (*domain.PageConfigRecord, error) {
	if rec, ok := f.byEventID[eventID]; ok {
		return rec, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakePageConfigRepo) Publish(ctx context.Context, eventID string, publishedAt time.Time) (*domain.PageConfigRecord, error) {
	rec, ok := f.byEventID[eventID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	rec.PublishedConfig = rec.Config
	rec.PublishedAt = &publishedAt
	return rec, nil
}

// fakePreviewRepo is an in-memory PreviewTokenRepository for tests.
type fakePreviewRepo struct {
	tokens []*domain.PreviewToken
	nextID int
}

func newFakePreviewRepo() *fakePreviewRepo {
	return &fakePreviewRepo{nextID: 1}
}

func (f *fakePreviewRepo) Create(ctx context.Context, tok *domain.PreviewToken) error {
	tok.ID = fmt.Sprintf("pt-%d", f.nextID)
	f.nextID++
	f.tokens = append(f.tokens, tok)
	return nil
}

func (f *fakePreviewRepo) GetValid(ctx context.Context, eventID, tokenHash string, now time.Time) (*domain.PreviewToken, error) {
	for _, tok := range f.tokens {
		if tok.EventID == eventID && tok.TokenHash == tokenHash && tok.ExpiresAt.After(now) {
			return tok, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakePreviewRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var kept []*domain.PreviewToken
	var n int64
	for _, tok := range f.tokens {
		if tok.ExpiresAt.After(now) {
			kept = append(kept, tok)
		} else {
			n++
		}
	}
	f.tokens = kept
	return n, nil
}

// fakeMediaRepo is an in-memory MediaAssetRepository for tests.
type fakeMediaRepo struct {
	byID      map[string]*domain.MediaAsset
	nextID    int
	createErr error
}

func newFakeMediaRepo() *fakeMediaRepo {
	return &fakeMediaRepo{byID: make(map[string]*domain.MediaAsset), nextID: 1}
}

func (f *fakeMediaRepo) Create(ctx context.Context, asset *domain.MediaAsset) error {
	if f.createErr != nil {
		return f.createErr
	}
	asset.ID = fmt.Sprintf("m-%d", f.nextID)
	f.nextID++
	f.byID[asset.ID] = asset
	return nil
}

func (f *fakeMediaRepo) GetByID(ctx context.Context, id string) (*domain.MediaAsset, error) {
	if a, ok := f.byID[id]; ok {
		return a, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeMediaRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.MediaAsset, error) {
	var out []*domain.MediaAsset
	for _, a := range f.byID {
		if a.EventID == eventID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeMediaRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeBlobStore records stored objects in memory.
type fakeBlobStore struct {
	objects map[string][]byte
	putErr  error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: make(map[string][]byte)}
}

func (f *fakeBlobStore) Put(ctx context.Context, objectKey string, r io.Reader, size int64, contentType string) error {
	if f.putErr != nil {
		return f.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.objects[objectKey] = data
	return nil
}

func (f *fakeBlobStore) Remove(ctx context.Context, objectKey string) error {
	delete(f.objects, objectKey)
	return nil
}

func (f *fakeBlobStore) URL(objectKey string) string {
	return "http://blobs.test/" + objectKey
}

// fakeOutbox records enqueued rows and serves them back as a batch.
type fakeOutbox struct {
	rows   []*domain.EmailOutbox
	nextID int
}

func newFakeOutbox() *fakeOutbox {
	return &fakeOutbox{nextID: 1}
}

func (f *fakeOutbox) Enqueue(ctx context.Context, row *domain.EmailOutbox) error {
	row.ID = fmt.Sprintf("ob-%d", f.nextID)
	f.nextID++
	f.rows = append(f.rows, row)
	return nil
}

func (f *fakeOutbox) ClaimBatch(ctx context.Context, limit int) ([]*domain.EmailOutbox, error) {
	var claimed []*domain.EmailOutbox
	for _, row := range f.rows {
		if len(claimed) == limit {
			break
		}
		if row.Status == domain.OutboxStatusQueued {
			row.Status = domain.OutboxStatusSending
			claimed = append(claimed, row)
		}
	}
	return claimed, nil
}

func (f *fakeOutbox) MarkSent(ctx context.Context, id string, sentAt time.Time) error {
	for _, row := range f.rows {
		if row.ID == id {
			row.Status = domain.OutboxStatusSent
			row.SentAt = &sentAt
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeOutbox) MarkFailed(ctx context.Context, id string, errMsg string) error {
	for _, row := range f.rows {
		if row.ID == id {
			row.Status = domain.OutboxStatusFailed
			row.Error = &errMsg
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeOutbox) ListByEventID(ctx context.Context, eventID string) ([]*domain.EmailOutbox, error) {
	var out []*domain.EmailOutbox
	for _, row := range f.rows {
		if row.EventID != nil && *row.EventID == eventID {
			out = append(out, row)
		}
	}
	return out, nil
}

// fakeTokenSource issues deterministic token pairs.
type fakeTokenSource struct {
	next int
}

func (f *fakeTokenSource) GeneratePair() (string, string, error) {
	f.next++
	token := fmt.Sprintf("tok-%d", f.next)
	return token, f.Hash(token), nil
}

func (f *fakeTokenSource) Hash(token string) string {
	return "hash(" + token + ")"
}

func (f *fakeTokenSource) Equal(a, b string) bool {
	return a == b
}

// fakeAnalyticsRepo is an in-memory AnalyticsRepository for tests.
type fakeAnalyticsRepo struct {
	events []*domain.PageViewEvent
	nextID int
}

func newFakeAnalyticsRepo() *fakeAnalyticsRepo {
	return &fakeAnalyticsRepo{nextID: 1}
}

func (f *fakeAnalyticsRepo) Insert(ctx context.Context, ev *domain.PageViewEvent) error {
	ev.ID = fmt.Sprintf("pv-%d", f.nextID)
	f.nextID++
	f.events = append(f.events, ev)
	return nil
}

func (f *fakeAnalyticsRepo) CountByKind(ctx context.Context, eventID, kind string) (int, error) {
	n := 0
	for _, ev := range f.events {
		if ev.EventID == eventID && ev.Kind == kind {
			n++
		}
	}
	return n, nil
}

// sentEmail captures a Mailer.Send call.
type sentEmail struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// fakeMailer records sent emails.
type fakeMailer struct {
	sent []sentEmail
	err  error
}

func (f *fakeMailer) Send(to, subject, html, text string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentEmail{To: to, Subject: subject, HTML: html, Text: text})
	return nil
}

// fakeRenderer renders template name + recipient markers instead of real templates.
type fakeRenderer struct {
	err error
}

func (f *fakeRenderer) Render(templateName string, data any) (string, string, string, error) {
	if f.err != nil {
		return "", "", "", f.err
	}
	subject := "subject:" + templateName
	body := fmt.Sprintf("%s:%+v", templateName, data)
	return subject, "<p>" + body + "</p>", body, nil
}
