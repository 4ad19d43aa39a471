package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/backoffice/internal/admin/domain"
	"github.com/aussiebroadwan/backoffice/internal/admin/session"
	"github.com/aussiebroadwan/backoffice/pkg/httpx"
	"github.com/aussiebroadwan/backoffice/pkg/slogx"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer turns a named view and its data into a response.
type Renderer interface {
	Render(w http.ResponseWriter, status int, view string, data map[string]any) error
}

// TemplateRenderer renders the embedded html/template views inside the
// shared layout.
type TemplateRenderer struct {
	tmpl *template.Template
}

// NewTemplateRenderer parses every view under templates/.
func NewTemplateRenderer() (*TemplateRenderer, error) {
	return newTemplateRenderer(templateFS)
}

func newTemplateRenderer(fsys fs.FS) (*TemplateRenderer, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"fullName": func(u domain.User) string { return u.FullName() },
	}).ParseFS(fsys, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &TemplateRenderer{tmpl: tmpl}, nil
}

// Render executes view into a buffer first so a template error never
// leaves a half written page behind.
func (t *TemplateRenderer) Render(w http.ResponseWriter, status int, view string, data map[string]any) error {
	var content bytes.Buffer
	if err := t.tmpl.ExecuteTemplate(&content, view+".html", data); err != nil {
		return fmt.Errorf("render %s: %w", view, err)
	}

	var page bytes.Buffer
	err := t.tmpl.ExecuteTemplate(&page, "layout.html", map[string]any{
		"Title":     titleFor(view),
		"Content":   template.HTML(content.String()),
		"Principal": data["principal"],
		"Flashes":   data["flashes"],
	})
	if err != nil {
		return fmt.Errorf("render layout: %w", err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = page.WriteTo(w)
	return err
}

func titleFor(view string) string {
	switch view {
	case "not_found":
		return "Not found"
	case "list":
		return "Users"
	case "edit":
		return "Edit user"
	}
	return strings.ToUpper(view[:1]) + view[1:]
}

// render adds the session's principal and pending flashes to data and
// hands it to rd.
func render(w http.ResponseWriter, r *http.Request, rd Renderer, status int, view string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	s := session.FromContext(r.Context())
	data["principal"] = s.Principal()
	data["flashes"] = s.Flashes()

	httpx.NoCache(w)
	if err := rd.Render(w, status, view, data); err != nil {
		slogx.FromContext(r.Context()).Error("failed to render view", "view", view, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func renderError(w http.ResponseWriter, r *http.Request, rd Renderer, status int, message string) {
	render(w, r, rd, status, "error", map[string]any{
		"status":  status,
		"message": message,
	})
}

func renderNotFound(w http.ResponseWriter, r *http.Request, rd Renderer, what string) {
	render(w, r, rd, http.StatusNotFound, "not_found", map[string]any{
		"message": what,
	})
}
