package metrics

import "github.com/prometheus/client_golang/prometheus"

// Login attempt outcomes.
const (
	LoginSuccess = "success"
	LoginInvalid = "invalid"
	LoginMissing = "missing_fields"
)

// AuthMetrics counts login attempts by outcome.
type AuthMetrics struct {
	logins *prometheus.CounterVec
}

func NewAuthMetrics(reg prometheus.Registerer) *AuthMetrics {
	if reg == nil {
		return &AuthMetrics{}
	}
	logins := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "backoffice_login_attempts_total",
		Help: "Login attempts by result.",
	}, []string{"result"})
	reg.MustRegister(logins)
	return &AuthMetrics{logins: logins}
}

// IncLogin increments the counter for result.
func (a *AuthMetrics) IncLogin(result string) {
	if a == nil || a.logins == nil {
		return
	}
	a.logins.WithLabelValues(normalizeLabel(result)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
