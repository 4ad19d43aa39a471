package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/backoffice/internal/admin/domain"
	"github.com/stretchr/testify/require"
)

func TestTemplateRendererViews(t *testing.T) {
	rd, err := NewTemplateRenderer()
	require.NoError(t, err)

	principal := &domain.Principal{ID: 1, Email: "admin@example.com", FirstName: "Site", LastName: "Administrator"}
	user := domain.User{ID: 2, Email: "a@b.com", Username: "ab", FirstName: "Ada", LastName: "Byron", UserLevelID: 1, UserLevelTitle: "Administrator"}
	levels := []domain.UserLevel{{ID: 1, Title: "Administrator"}}

	tests := []struct {
		view string
		data map[string]any
		want []string
	}{
		{
			view: "login",
			data: map[string]any{"errors": []string{"Login Invalid"}, "email": "a@b.com"},
			want: []string{"Login Invalid", `value="a@b.com"`, `name="userPassword"`},
		},
		{
			view: "home",
			data: map[string]any{"principal": principal, "flashes": []domain.Flash{{Kind: domain.FlashSuccess, Message: "Login Successful"}}},
			want: []string{"Welcome, Site", "flash-success", "Login Successful", "Log out"},
		},
		{
			view: "list",
			data: map[string]any{"principal": principal, "users": []domain.User{user}},
			want: []string{"Ada Byron", "a@b.com", "/users/edit?user_id=2", "Administrator"},
		},
		{
			view: "list",
			data: map[string]any{"principal": principal, "users": []domain.User{}},
			want: []string{"No users yet."},
		},
		{
			view: "edit",
			data: map[string]any{"principal": principal, "user": user, "levels": levels, "errors": map[string]string{"email": "is already taken"}},
			want: []string{"Edit ab", "Email is already taken", `value="1" selected`, "leave blank to keep"},
		},
		{
			view: "edit",
			data: map[string]any{"user": domain.User{}, "levels": levels, "errors": map[string]string{}},
			want: []string{"New user", `name="user_id" value="0"`},
		},
		{
			view: "not_found",
			data: map[string]any{"message": "No user with id 9."},
			want: []string{"No user with id 9."},
		},
		{
			view: "error",
			data: map[string]any{"message": "Could not load users."},
			want: []string{"Could not load users."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.view, func(t *testing.T) {
			rec := httptest.NewRecorder()
			require.NoError(t, rd.Render(rec, http.StatusTeapot, tt.view, tt.data))

			require.Equal(t, http.StatusTeapot, rec.Code)
			require.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
			for _, w := range tt.want {
				require.Contains(t, rec.Body.String(), w)
			}
		})
	}
}

func TestTemplateRendererEscapes(t *testing.T) {
	rd, err := NewTemplateRenderer()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	err = rd.Render(rec, http.StatusOK, "login", map[string]any{
		"errors": []string{"<script>alert(1)</script>"},
	})
	require.NoError(t, err)
	require.NotContains(t, rec.Body.String(), "<script>alert(1)</script>")
	require.Contains(t, rec.Body.String(), "&lt;script&gt;")
}

func TestTemplateRendererUnknownView(t *testing.T) {
	rd, err := NewTemplateRenderer()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.Error(t, rd.Render(rec, http.StatusOK, "nope", map[string]any{}))
	require.Zero(t, rec.Body.Len())
}
