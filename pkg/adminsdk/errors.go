package adminsdk

import (
	"errors"
	"fmt"
	"html"
	"net/http"
	"regexp"
	"strings"
)

var (
	ErrMissingFields   = errors.New("adminsdk: missing fields")
	ErrLoginInvalid    = errors.New("adminsdk: login invalid")
	ErrRateLimited     = errors.New("adminsdk: rate limited")
	ErrUnauthenticated = errors.New("adminsdk: not logged in")
	ErrNotFound        = errors.New("adminsdk: not found")
	ErrConflict        = errors.New("adminsdk: already exists")
	ErrValidation      = errors.New("adminsdk: validation failed")
	ErrBadRequest      = errors.New("adminsdk: bad request")
	ErrServer          = errors.New("adminsdk: server error")
)

// StatusError is returned when the service answered with something other
// than the expected status. Messages holds the error lines shown on the
// rendered page, if any.
type StatusError struct {
	StatusCode int
	Location   string
	Messages   []string
}

func (e *StatusError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("adminsdk: HTTP %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("adminsdk: HTTP %d: %s", e.StatusCode, strings.Join(e.Messages, "; "))
}

// Is maps the status code onto the package sentinels.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrMissingFields:
		return e.StatusCode == http.StatusBadRequest && e.has("Missing fields")
	case ErrLoginInvalid:
		return e.StatusCode == http.StatusUnauthorized
	case ErrRateLimited:
		return e.StatusCode == http.StatusTooManyRequests
	case ErrUnauthenticated:
		return e.StatusCode == http.StatusSeeOther && e.Location == "/login"
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrConflict:
		return e.StatusCode == http.StatusConflict
	case ErrValidation:
		return e.StatusCode == http.StatusUnprocessableEntity
	case ErrBadRequest:
		return e.StatusCode == http.StatusBadRequest
	case ErrServer:
		return e.StatusCode >= http.StatusInternalServerError
	}
	return false
}

func (e *StatusError) has(msg string) bool {
	for _, m := range e.Messages {
		if m == msg {
			return true
		}
	}
	return false
}

var errorLineRe = regexp.MustCompile(`<p class="error">([^<]*)</p>`)

// pageErrors pulls the error lines out of a rendered page.
func pageErrors(body []byte) []string {
	var out []string
	for _, m := range errorLineRe.FindAllSubmatch(body, -1) {
		out = append(out, html.UnescapeString(strings.TrimSpace(string(m[1]))))
	}
	return out
}
