package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/backoffice/internal/admin/domain"
	"github.com/aussiebroadwan/backoffice/internal/admin/store"
	"github.com/aussiebroadwan/backoffice/internal/admin/store/drivers/sqlite"
	"github.com/aussiebroadwan/backoffice/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func newTestManager(t *testing.T) (*Manager, *sqlite.Store) {
	t.Helper()

	st, err := sqlite.NewStore(sqlite.DSN(filepath.Join(t.TempDir(), "admin.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	tokens, err := jwtx.NewHS256(testKey, "backoffice")
	require.NoError(t, err)

	return &Manager{Store: st.Sessions(), Tokens: tokens, TTL: time.Hour}, st
}

func createUser(t *testing.T, st *sqlite.Store) domain.Principal {
	t.Helper()

	id, err := st.Users().CreateUser(context.Background(), domain.User{
		Email:     "a@b.com",
		Username:  "ab",
		FirstName: "Ada",
		LastName:  "Byron",
	})
	require.NoError(t, err)
	return domain.Principal{ID: id, Email: "a@b.com", FirstName: "Ada", LastName: "Byron"}
}

// serve runs h behind the session middleware, replaying cookies.
func serve(m *Manager, h http.HandlerFunc, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	m.Middleware(h).ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == DefaultCookieName {
			return c
		}
	}
	return nil
}

func TestAnonymousSessionIsNotStored(t *testing.T) {
	m, _ := newTestManager(t)

	rec := serve(m, func(w http.ResponseWriter, r *http.Request) {
		s := FromContext(r.Context())
		require.NotNil(t, s)
		require.False(t, s.Authenticated())
		w.WriteHeader(http.StatusOK)
	})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, sessionCookie(t, rec))
}

func TestLoginPersistsAndReloads(t *testing.T) {
	m, st := newTestManager(t)
	p := createUser(t, st)

	rec := serve(m, func(w http.ResponseWriter, r *http.Request) {
		s := FromContext(r.Context())
		s.Login(p)
		s.AddFlash(domain.FlashSuccess, "Login Successful")
		w.WriteHeader(http.StatusSeeOther)
	})
	c := sessionCookie(t, rec)
	require.NotNil(t, c)
	require.True(t, c.HttpOnly)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	var flashes []domain.Flash
	serve(m, func(w http.ResponseWriter, r *http.Request) {
		s := FromContext(r.Context())
		require.True(t, s.Authenticated())
		require.Equal(t, p.ID, s.Principal().ID)
		flashes = s.Flashes()
		_, _ = w.Write([]byte("ok"))
	}, c)
	require.Equal(t, []domain.Flash{{Kind: domain.FlashSuccess, Message: "Login Successful"}}, flashes)

	// Flashes were consumed on the previous request.
	serve(m, func(w http.ResponseWriter, r *http.Request) {
		s := FromContext(r.Context())
		require.True(t, s.Authenticated())
		require.Empty(t, s.Flashes())
	}, c)
}

func TestLoginRotatesSessionID(t *testing.T) {
	m, st := newTestManager(t)
	p := createUser(t, st)
	ctx := context.Background()

	// An anonymous session that got persisted because of a flash.
	rec := serve(m, func(w http.ResponseWriter, r *http.Request) {
		FromContext(r.Context()).AddFlash(domain.FlashInfo, "hello")
	})
	anon := sessionCookie(t, rec)
	require.NotNil(t, anon)

	claims, err := m.Tokens.Verify(anon.Value)
	require.NoError(t, err)
	oldID := claims.SessionID()

	var newID string
	rec = serve(m, func(w http.ResponseWriter, r *http.Request) {
		s := FromContext(r.Context())
		require.Equal(t, oldID, s.ID())
		s.Login(p)
		newID = s.ID()
	}, anon)
	require.NotEqual(t, oldID, newID)
	require.NotNil(t, sessionCookie(t, rec))

	_, err = st.Sessions().GetSession(ctx, key(oldID))
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = st.Sessions().GetSession(ctx, key(newID))
	require.NoError(t, err)
}

func TestReloginInvalidatesPreviousCookie(t *testing.T) {
	m, st := newTestManager(t)
	ada := createUser(t, st)

	graceID, err := st.Users().CreateUser(context.Background(), domain.User{
		Email:     "grace@b.com",
		Username:  "grace",
		FirstName: "Grace",
		LastName:  "Hopper",
	})
	require.NoError(t, err)
	grace := domain.Principal{ID: graceID, Email: "grace@b.com", FirstName: "Grace", LastName: "Hopper"}

	first := sessionCookie(t, serve(m, func(w http.ResponseWriter, r *http.Request) {
		FromContext(r.Context()).Login(ada)
	}))
	require.NotNil(t, first)

	second := sessionCookie(t, serve(m, func(w http.ResponseWriter, r *http.Request) {
		s := FromContext(r.Context())
		require.Equal(t, ada.ID, s.Principal().ID)
		s.Login(grace)
	}, first))
	require.NotNil(t, second)
	require.NotEqual(t, first.Value, second.Value)

	serve(m, func(w http.ResponseWriter, r *http.Request) {
		require.False(t, FromContext(r.Context()).Authenticated())
	}, first)

	serve(m, func(w http.ResponseWriter, r *http.Request) {
		s := FromContext(r.Context())
		require.True(t, s.Authenticated())
		require.Equal(t, graceID, s.Principal().ID)
	}, second)
}

func TestDestroyClearsCookieAndRow(t *testing.T) {
	m, st := newTestManager(t)
	p := createUser(t, st)

	rec := serve(m, func(w http.ResponseWriter, r *http.Request) {
		FromContext(r.Context()).Login(p)
	})
	c := sessionCookie(t, rec)
	require.NotNil(t, c)

	var id string
	rec = serve(m, func(w http.ResponseWriter, r *http.Request) {
		s := FromContext(r.Context())
		id = s.ID()
		s.Destroy()
		w.WriteHeader(http.StatusSeeOther)
	}, c)

	cleared := sessionCookie(t, rec)
	require.NotNil(t, cleared)
	require.Empty(t, cleared.Value)
	require.Negative(t, cleared.MaxAge)

	_, err := st.Sessions().GetSession(context.Background(), key(id))
	require.ErrorIs(t, err, store.ErrNotFound)

	// The old cookie no longer names a session.
	serve(m, func(w http.ResponseWriter, r *http.Request) {
		require.False(t, FromContext(r.Context()).Authenticated())
	}, c)
}

func TestForgedCookieIsIgnored(t *testing.T) {
	m, st := newTestManager(t)
	p := createUser(t, st)

	rec := serve(m, func(w http.ResponseWriter, r *http.Request) {
		FromContext(r.Context()).Login(p)
	})
	c := sessionCookie(t, rec)
	require.NotNil(t, c)

	other, err := jwtx.NewHS256([]byte("another-key-another-key-another!!"), "backoffice")
	require.NoError(t, err)
	claims, err := m.Tokens.Verify(c.Value)
	require.NoError(t, err)
	forged, err := other.Sign(claims)
	require.NoError(t, err)

	serve(m, func(w http.ResponseWriter, r *http.Request) {
		require.False(t, FromContext(r.Context()).Authenticated())
	}, &http.Cookie{Name: DefaultCookieName, Value: forged})
}

// countingSessions records store lookups.
type countingSessions struct {
	store.Sessions
	gets int
}

func (c *countingSessions) GetSession(ctx context.Context, key string) (domain.StoredSession, error) {
	c.gets++
	return c.Sessions.GetSession(ctx, key)
}

func TestMalformedSessionIDSkipsStore(t *testing.T) {
	m, _ := newTestManager(t)
	sessions := &countingSessions{Sessions: m.Store}
	m.Store = sessions

	token, err := m.Tokens.Sign(jwtx.NewSessionClaims("not-a-ulid", "backoffice", time.Hour, time.Now()))
	require.NoError(t, err)

	rec := serve(m, func(w http.ResponseWriter, r *http.Request) {
		s := FromContext(r.Context())
		require.False(t, s.Authenticated())
		require.NotEqual(t, "not-a-ulid", s.ID())
		w.WriteHeader(http.StatusOK)
	}, &http.Cookie{Name: DefaultCookieName, Value: token})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Zero(t, sessions.gets)
}

func TestDeletedUserEndsSession(t *testing.T) {
	m, st := newTestManager(t)
	p := createUser(t, st)

	rec := serve(m, func(w http.ResponseWriter, r *http.Request) {
		FromContext(r.Context()).Login(p)
	})
	c := sessionCookie(t, rec)

	n, err := st.Users().DeleteUserByID(context.Background(), p.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	serve(m, func(w http.ResponseWriter, r *http.Request) {
		require.False(t, FromContext(r.Context()).Authenticated())
	}, c)
}

func TestRequireAuth(t *testing.T) {
	m, st := newTestManager(t)
	p := createUser(t, st)

	protected := m.Middleware(RequireAuth("/login")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))

	login := serve(m, func(w http.ResponseWriter, r *http.Request) {
		FromContext(r.Context()).Login(p)
	})

	req = httptest.NewRequest(http.MethodGet, "/users", nil)
	req.AddCookie(sessionCookie(t, login))
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestFlashesOnNilSession(t *testing.T) {
	var s *Session
	require.Nil(t, s.Flashes())
	require.Nil(t, s.Principal())
	require.False(t, s.Authenticated())
	require.Nil(t, FromContext(context.Background()))
}
