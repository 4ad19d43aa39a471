package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/backoffice/pkg/adminsdk"
	"github.com/aussiebroadwan/backoffice/pkg/httpx"
)

// Pinger is satisfied by store.Store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReadyzHandler reports 503 while the database cannot be reached.
func ReadyzHandler(startTime time.Time, version string, db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &adminsdk.HealthChecks{Database: "ok"}
		status := "ok"
		code := http.StatusOK

		if err := db.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, adminsdk.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
