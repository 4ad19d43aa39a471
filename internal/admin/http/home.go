package http

import "net/http"

// HomeHandler renders the landing page.
type HomeHandler struct {
	Renderer Renderer
}

func (h *HomeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render(w, r, h.Renderer, http.StatusOK, "home", nil)
}
