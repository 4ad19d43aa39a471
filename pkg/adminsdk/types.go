package adminsdk

import (
	"net/url"
	"strconv"
)

// HealthResponse is the body of /livez and /readyz.
type HealthResponse struct {
	// Status is "ok" or "degraded"
	Status string `json:"status"`

	// Uptime is the service uptime as a duration string (e.g. "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks is only set by /readyz
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of each dependency checked by /readyz.
type HealthChecks struct {
	Database string `json:"database"`
}

// UserForm mirrors the fields of the user edit form. ID 0 creates a user.
type UserForm struct {
	ID          int64
	Email       string
	Username    string
	FirstName   string
	LastName    string
	UserLevelID int64
	CompanyID   int64
	Password    string // empty keeps the current password on update
}

// Values encodes the form the way the browser would post it.
func (f UserForm) Values() url.Values {
	return url.Values{
		"user_id":       {strconv.FormatInt(f.ID, 10)},
		"email":         {f.Email},
		"username":      {f.Username},
		"firstname":     {f.FirstName},
		"lastname":      {f.LastName},
		"user_level_id": {strconv.FormatInt(f.UserLevelID, 10)},
		"company_id":    {strconv.FormatInt(f.CompanyID, 10)},
		"password":      {f.Password},
	}
}
