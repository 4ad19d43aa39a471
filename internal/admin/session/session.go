// Package session keeps per-browser state (principal and flash messages)
// in the sessions table, addressed by a signed cookie.
package session

import (
	"context"
	"slices"
	"time"

	"github.com/aussiebroadwan/backoffice/internal/admin/domain"
	"github.com/aussiebroadwan/backoffice/pkg/idx"
)

// Session is the request-scoped handle on a domain.Session. Handlers mutate
// it and the Manager persists it before the response status is written.
type Session struct {
	data domain.Session

	persisted   bool   // a row exists for data.ID
	dirty       bool   // data changed since load
	destroyed   bool   // Destroy was called
	previousKey string // row to drop after an ID rotation
}

// New returns an empty anonymous session that expires after ttl.
func New(now time.Time, ttl time.Duration) *Session {
	return &Session{
		data: domain.Session{
			ID:        idx.NewAt(now).String(),
			CreatedAt: now,
			ExpiresAt: now.Add(ttl),
		},
	}
}

func (s *Session) ID() string { return s.data.ID }

func (s *Session) ExpiresAt() time.Time { return s.data.ExpiresAt }

// Principal returns the logged in user, or nil.
func (s *Session) Principal() *domain.Principal {
	if s == nil {
		return nil
	}
	return s.data.Principal
}

// Authenticated reports whether a principal is attached.
func (s *Session) Authenticated() bool {
	return s != nil && s.data.Authenticated()
}

// Login attaches p and gives the session a fresh ID so a token captured
// before login cannot ride along.
func (s *Session) Login(p domain.Principal) {
	if s.persisted && s.previousKey == "" {
		s.previousKey = key(s.data.ID)
	}
	s.data.ID = idx.New().String()
	s.data.Principal = &p
	s.persisted = false
	s.dirty = true
}

// Destroy drops the principal and all flashes and removes the session
// from the store when the response is committed.
func (s *Session) Destroy() {
	s.data.Principal = nil
	s.data.Flashes = nil
	s.destroyed = true
	s.dirty = true
}

// AddFlash queues a message for the next rendered page.
func (s *Session) AddFlash(kind, message string) {
	s.data.Flashes = append(s.data.Flashes, domain.Flash{Kind: kind, Message: message})
	s.dirty = true
}

// Flashes returns and clears the pending messages.
func (s *Session) Flashes() []domain.Flash {
	if s == nil || len(s.data.Flashes) == 0 {
		return nil
	}
	out := slices.Clone(s.data.Flashes)
	s.data.Flashes = nil
	s.dirty = true
	return out
}

func (s *Session) stored() domain.StoredSession {
	st := domain.StoredSession{
		Key: key(s.data.ID),
		Data: domain.SessionData{
			Principal: s.data.Principal,
			Flashes:   s.data.Flashes,
		},
		CreatedAt: s.data.CreatedAt,
		ExpiresAt: s.data.ExpiresAt,
	}
	if s.data.Principal != nil {
		st.UserID = s.data.Principal.ID
	}
	return st
}

type ctxKey struct{}

// WithContext returns a copy of ctx carrying s.
func WithContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the request's session, or nil outside the middleware.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxKey{}).(*Session)
	return s
}
