package domain

import "time"

type User struct {
	ID             int64 // assigned by the store; 0 until persisted
	Email          string
	Username       string
	FirstName      string
	LastName       string
	PasswordHash   string // argon2id PHC string, or a legacy bcrypt hash
	UserLevelID    int64  // 0 means no level
	UserLevelTitle string // joined from user_level, read-only
	CompanyID      int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsNew reports whether u has not been stored yet.
func (u User) IsNew() bool { return u.ID == 0 }

// FullName joins the first and last name for display.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Principal projects the fields a session needs to know about its user.
func (u User) Principal() Principal {
	return Principal{
		ID:        u.ID,
		CompanyID: u.CompanyID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// Principal is the authenticated identity attached to a session.
type Principal struct {
	ID        int64  `json:"id"`
	CompanyID int64  `json:"company_id"`
	Email     string `json:"email"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
}
