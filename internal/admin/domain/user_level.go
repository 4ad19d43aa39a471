package domain

import "time"

type UserLevel struct {
	ID        int64
	Title     string
	CreatedAt time.Time
}

// AdministratorLevel is the level created for the bootstrap admin.
const AdministratorLevel = "Administrator"
