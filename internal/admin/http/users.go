package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/aussiebroadwan/backoffice/internal/admin/domain"
	"github.com/aussiebroadwan/backoffice/internal/admin/service"
	"github.com/aussiebroadwan/backoffice/internal/admin/session"
	"github.com/aussiebroadwan/backoffice/pkg/httpx"
	"github.com/aussiebroadwan/backoffice/pkg/slogx"
)

// UserRecords is the slice of service.UserService the handlers need.
type UserRecords interface {
	GetAll(ctx context.Context) ([]domain.User, error)
	GetByID(ctx context.Context, id int64) (domain.User, error)
	GetBlankEntity() domain.User
	Save(ctx context.Context, in service.UserInput) (domain.User, error)
	DeleteByID(ctx context.Context, id int64) (int64, error)
}

// LevelLister feeds the level dropdown on the edit form.
type LevelLister interface {
	ListAll(ctx context.Context) ([]domain.UserLevel, error)
}

type UsersHandler struct {
	Users    UserRecords
	Levels   LevelLister
	Renderer Renderer
}

// HandleList renders every user.
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.Users.GetAll(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list users", "error", err)
		renderError(w, r, h.Renderer, http.StatusInternalServerError, "Could not load users.")
		return
	}

	render(w, r, h.Renderer, http.StatusOK, "list", map[string]any{
		"users": users,
	})
}

// HandleEdit renders the form for user_id, or a blank one when user_id is
// missing or 0.
func (h *UsersHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id, err := parseID(r.URL.Query().Get("user_id"))
	if err != nil {
		renderError(w, r, h.Renderer, http.StatusBadRequest, "user_id must be a non-negative number.")
		return
	}

	user := h.Users.GetBlankEntity()
	if id != 0 {
		user, err = h.Users.GetByID(ctx, id)
		var nf *service.NotFoundError
		if errors.As(err, &nf) {
			renderNotFound(w, r, h.Renderer, fmt.Sprintf("No user with id %d.", id))
			return
		}
		if err != nil {
			log.Error("failed to load user", "user_id", id, "error", err)
			renderError(w, r, h.Renderer, http.StatusInternalServerError, "Could not load the user.")
			return
		}
	}

	h.renderEdit(w, r, http.StatusOK, user, map[string]string{})
}

// HandleSave creates or updates a user from the submitted form.
func (h *UsersHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		renderError(w, r, h.Renderer, http.StatusBadRequest, "Could not read the form.")
		return
	}

	in, fieldErrs := parseUserInput(r.PostForm)
	if len(fieldErrs) > 0 {
		// Report the rest of the form alongside the numbers that did not parse.
		var ve *service.ValidationError
		if errors.As(in.Validate(), &ve) {
			for field, msg := range ve.Fields {
				if _, ok := fieldErrs[field]; !ok {
					fieldErrs[field] = msg
				}
			}
		}
		h.renderEdit(w, r, http.StatusUnprocessableEntity, in.Entity(), fieldErrs)
		return
	}

	saved, err := h.Users.Save(ctx, in)

	var (
		ve *service.ValidationError
		nf *service.NotFoundError
		pe *service.PersistenceError
	)
	switch {
	case err == nil:
	case errors.As(err, &ve):
		h.renderEdit(w, r, http.StatusUnprocessableEntity, in.Entity(), ve.Fields)
		return
	case errors.As(err, &nf):
		renderNotFound(w, r, h.Renderer, fmt.Sprintf("No user with id %d.", in.ID))
		return
	case errors.As(err, &pe) && pe.IsConflict():
		field := pe.Field
		if field == "" {
			field = "form"
		}
		h.renderEdit(w, r, http.StatusConflict, in.Entity(), map[string]string{field: "is already taken"})
		return
	default:
		log.Error("failed to save user", "user_id", in.ID, "error", err)
		renderError(w, r, h.Renderer, http.StatusInternalServerError, "Could not save the user.")
		return
	}

	log.Info("user saved", "user_id", saved.ID, "created", in.IsNew())
	if s := session.FromContext(ctx); s != nil {
		s.AddFlash(domain.FlashSuccess, fmt.Sprintf("User %s saved", saved.Username))
	}
	httpx.SeeOther(w, r, "/users")
}

// HandleDelete removes user_id. Deleting yourself is refused since it would
// pull the session out from under the request.
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	s := session.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		renderError(w, r, h.Renderer, http.StatusBadRequest, "Could not read the form.")
		return
	}

	id, err := parseID(r.PostFormValue("user_id"))
	if err != nil || id == 0 {
		renderError(w, r, h.Renderer, http.StatusBadRequest, "user_id must be a positive number.")
		return
	}

	if p := s.Principal(); p != nil && p.ID == id {
		s.AddFlash(domain.FlashError, "You cannot delete yourself")
		httpx.SeeOther(w, r, "/users")
		return
	}

	n, err := h.Users.DeleteByID(ctx, id)
	if err != nil {
		log.Error("failed to delete user", "user_id", id, "error", err)
		renderError(w, r, h.Renderer, http.StatusInternalServerError, "Could not delete the user.")
		return
	}

	if s != nil {
		if n > 0 {
			s.AddFlash(domain.FlashSuccess, "User deleted")
		} else {
			s.AddFlash(domain.FlashInfo, "No user deleted")
		}
	}
	log.Info("user delete", "user_id", id, "removed", n)
	httpx.SeeOther(w, r, "/users")
}

func (h *UsersHandler) renderEdit(w http.ResponseWriter, r *http.Request, status int, user domain.User, fieldErrs map[string]string) {
	levels, err := h.Levels.ListAll(r.Context())
	if err != nil {
		slogx.FromContext(r.Context()).Error("failed to list user levels", "error", err)
		renderError(w, r, h.Renderer, http.StatusInternalServerError, "Could not load user levels.")
		return
	}

	render(w, r, h.Renderer, status, "edit", map[string]any{
		"user":   user,
		"levels": levels,
		"errors": fieldErrs,
	})
}

// parseID reads an id field; empty means 0.
func parseID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	if id < 0 {
		return 0, fmt.Errorf("negative id %d", id)
	}
	return id, nil
}

// parseUserInput maps the form onto service.UserInput. Numeric fields that
// do not parse are reported per field; everything else is left to
// UserInput validation.
func parseUserInput(form url.Values) (service.UserInput, map[string]string) {
	in := service.UserInput{
		Email:     form.Get("email"),
		Username:  form.Get("username"),
		FirstName: form.Get("firstname"),
		LastName:  form.Get("lastname"),
		Password:  form.Get("password"),
	}

	fieldErrs := map[string]string{}
	for field, dst := range map[string]*int64{
		"user_id":       &in.ID,
		"user_level_id": &in.UserLevelID,
		"company_id":    &in.CompanyID,
	} {
		v, err := parseID(form.Get(field))
		if err != nil {
			fieldErrs[field] = "must be a non-negative number"
			continue
		}
		*dst = v
	}
	return in, fieldErrs
}
