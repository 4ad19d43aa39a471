package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/backoffice/internal/admin/domain"
	"github.com/aussiebroadwan/backoffice/internal/admin/service"
	"github.com/aussiebroadwan/backoffice/internal/admin/session"
	"github.com/aussiebroadwan/backoffice/pkg/httpx"
	"github.com/aussiebroadwan/backoffice/pkg/metrics"
	"github.com/aussiebroadwan/backoffice/pkg/slogx"
)

const (
	errMissingFields = "Missing fields"
	errLoginInvalid  = "Login Invalid"
)

// Authenticator checks a credential pair and returns the matching user.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (domain.User, error)
}

// AuthHandler serves the login and logout forms.
type AuthHandler struct {
	Auth     Authenticator
	Renderer Renderer
	Metrics  *metrics.AuthMetrics
}

// HandleLoginForm shows the login page, or sends a signed in user home.
func (h *AuthHandler) HandleLoginForm(w http.ResponseWriter, r *http.Request) {
	if session.FromContext(r.Context()).Authenticated() {
		httpx.SeeOther(w, r, "/")
		return
	}
	render(w, r, h.Renderer, http.StatusOK, "login", map[string]any{
		"errors": []string{},
	})
}

// HandleLogin checks userEmail and userPassword. The session is only
// touched when the credentials are good.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		h.Metrics.IncLogin(metrics.LoginMissing)
		h.loginFailed(w, r, http.StatusBadRequest, errMissingFields, "")
		return
	}

	email := strings.TrimSpace(r.PostFormValue("userEmail"))
	password := r.PostFormValue("userPassword")
	if email == "" || password == "" {
		h.Metrics.IncLogin(metrics.LoginMissing)
		h.loginFailed(w, r, http.StatusBadRequest, errMissingFields, email)
		return
	}

	user, err := h.Auth.Login(ctx, email, password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		h.Metrics.IncLogin(metrics.LoginInvalid)
		log.Info("login rejected", "email", email)
		h.loginFailed(w, r, http.StatusUnauthorized, errLoginInvalid, email)
		return
	}
	if err != nil {
		log.Error("login failed", "error", err)
		renderError(w, r, h.Renderer, http.StatusInternalServerError, "Could not log you in right now.")
		return
	}

	s := session.FromContext(ctx)
	if s == nil {
		log.Error("no session attached to request")
		renderError(w, r, h.Renderer, http.StatusInternalServerError, "Could not log you in right now.")
		return
	}

	s.Login(user.Principal())
	s.AddFlash(domain.FlashSuccess, "Login Successful")
	h.Metrics.IncLogin(metrics.LoginSuccess)
	log.Info("user logged in", "user_id", user.ID)

	httpx.SeeOther(w, r, "/")
}

func (h *AuthHandler) loginFailed(w http.ResponseWriter, r *http.Request, status int, msg, email string) {
	render(w, r, h.Renderer, status, "login", map[string]any{
		"errors": []string{msg},
		"email":  email,
	})
}

// HandleLogout ends the session whatever state it is in.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if s := session.FromContext(r.Context()); s != nil {
		s.Destroy()
	}
	httpx.SeeOther(w, r, "/")
}
