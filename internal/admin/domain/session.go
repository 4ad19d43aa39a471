package domain

import "time"

// Flash kinds understood by the templates.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Session is the server-side state behind a session cookie. ID is the
// token handed to the browser; the store only ever sees its fingerprint.
type Session struct {
	ID        string
	Principal *Principal // nil while anonymous
	Flashes   []Flash
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Authenticated reports whether a principal is attached.
func (s *Session) Authenticated() bool { return s != nil && s.Principal != nil }

// Expired reports whether the session has passed its expiry at now.
func (s *Session) Expired(now time.Time) bool { return !now.Before(s.ExpiresAt) }

// SessionData is the JSON payload persisted in the sessions.data column.
type SessionData struct {
	Principal *Principal `json:"principal,omitempty"`
	Flashes   []Flash    `json:"flashes,omitempty"`
}

// StoredSession is a session row as the store sees it.
type StoredSession struct {
	Key       string // fingerprint of Session.ID
	UserID    int64  // 0 while anonymous
	Data      SessionData
	CreatedAt time.Time
	ExpiresAt time.Time
}
