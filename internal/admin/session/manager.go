package session

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/aussiebroadwan/backoffice/internal/admin/domain"
	"github.com/aussiebroadwan/backoffice/internal/admin/store"
	"github.com/aussiebroadwan/backoffice/pkg/cryptox"
	"github.com/aussiebroadwan/backoffice/pkg/httpx"
	"github.com/aussiebroadwan/backoffice/pkg/idx"
	"github.com/aussiebroadwan/backoffice/pkg/jwtx"
	"github.com/aussiebroadwan/backoffice/pkg/slogx"
)

const DefaultCookieName = "backoffice_session"

// Tokens signs and verifies the cookie value.
type Tokens interface {
	jwtx.Signer
	jwtx.Verifier
	Issuer() string
}

type Manager struct {
	Store      store.Sessions
	Tokens     Tokens
	TTL        time.Duration
	CookieName string
	Secure     bool

	Now func() time.Time
}

func (m *Manager) now() time.Time {
	if m.Now != nil {
		return m.Now().UTC()
	}
	return time.Now().UTC()
}

func (m *Manager) cookieName() string {
	if m.CookieName == "" {
		return DefaultCookieName
	}
	return m.CookieName
}

func (m *Manager) ttl() time.Duration {
	if m.TTL <= 0 {
		return jwtx.DefaultSessionTTL
	}
	return m.TTL
}

// Middleware loads the session for every request and commits it right
// before the response status goes out.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := m.Load(r)

		cw := &commitWriter{ResponseWriter: w}
		cw.commit = func() { m.Commit(r.Context(), w, s) }

		next.ServeHTTP(cw, r.WithContext(WithContext(r.Context(), s)))
		cw.ensureCommitted()
	})
}

// Load returns the session named by the request cookie, or a new anonymous
// one when the cookie is missing, forged, expired or unknown.
func (m *Manager) Load(r *http.Request) *Session {
	now := m.now()
	log := slogx.FromContext(r.Context())

	c, err := r.Cookie(m.cookieName())
	if err != nil || c.Value == "" {
		return New(now, m.ttl())
	}

	claims, err := m.Tokens.Verify(c.Value)
	if err != nil {
		log.Debug("discarding session cookie", "error", err)
		return New(now, m.ttl())
	}

	sid, err := idx.Parse(claims.SessionID())
	if err != nil {
		log.Debug("discarding session cookie", "error", err)
		return New(now, m.ttl())
	}

	row, err := m.Store.GetSession(r.Context(), key(sid.String()))
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Error("failed to load session", "error", err)
		}
		return New(now, m.ttl())
	}

	s := &Session{
		data: domain.Session{
			ID:        sid.String(),
			Principal: row.Data.Principal,
			Flashes:   row.Data.Flashes,
			CreatedAt: row.CreatedAt,
			ExpiresAt: row.ExpiresAt,
		},
		persisted: true,
	}

	// Slide the expiry forward once half the lifetime is used up.
	if s.Authenticated() && s.data.ExpiresAt.Sub(now) < m.ttl()/2 {
		s.data.ExpiresAt = now.Add(m.ttl())
		s.dirty = true
	}
	return s
}

// Commit writes s to the store and sets or clears the cookie on w. Clean
// anonymous sessions are never stored.
func (m *Manager) Commit(ctx context.Context, w http.ResponseWriter, s *Session) {
	log := slogx.FromContext(ctx)

	if s.previousKey != "" {
		if err := m.Store.DeleteSession(ctx, s.previousKey); err != nil {
			log.Error("failed to delete rotated session", "error", err)
		}
		s.previousKey = ""
	}

	if s.destroyed {
		if s.persisted {
			if err := m.Store.DeleteSession(ctx, key(s.data.ID)); err != nil {
				log.Error("failed to delete session", "error", err)
			}
		}
		m.clearCookie(w)
		return
	}

	if !s.dirty {
		return
	}
	if !s.persisted && !s.Authenticated() && len(s.data.Flashes) == 0 {
		return
	}

	if err := m.Store.SaveSession(ctx, s.stored()); err != nil {
		log.Error("failed to save session", "error", err)
		return
	}
	s.persisted = true
	s.dirty = false

	token, err := m.Tokens.Sign(jwtx.NewSessionClaims(s.data.ID, m.Tokens.Issuer(), s.data.ExpiresAt.Sub(m.now()), m.now()))
	if err != nil {
		log.Error("failed to sign session cookie", "error", err)
		return
	}

	httpx.NoCache(w)
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName(),
		Value:    token,
		Path:     "/",
		Expires:  s.data.ExpiresAt,
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// RequireAuth sends anonymous requests to loginPath.
func RequireAuth(loginPath string) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !FromContext(r.Context()).Authenticated() {
				httpx.SeeOther(w, r, loginPath)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// key is what the store indexes a session by.
func key(id string) string { return cryptox.FingerprintToken(id) }

// commitWriter runs commit exactly once, before the first header or body
// byte is written.
type commitWriter struct {
	http.ResponseWriter
	once   sync.Once
	commit func()
}

func (c *commitWriter) ensureCommitted() { c.once.Do(c.commit) }

func (c *commitWriter) WriteHeader(code int) {
	c.ensureCommitted()
	c.ResponseWriter.WriteHeader(code)
}

func (c *commitWriter) Write(b []byte) (int, error) {
	c.ensureCommitted()
	return c.ResponseWriter.Write(b)
}

func (c *commitWriter) Unwrap() http.ResponseWriter { return c.ResponseWriter }
