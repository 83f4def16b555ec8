package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the slice of the identity system this service reads: enough to put
// a display name into narrative text. Authentication lives elsewhere.
type User struct {
	ID          uuid.UUID
	Username    string
	DisplayName string
	CreatedAt   time.Time
}

// BattleName returns the name used in narrative text.
func (u *User) BattleName() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}
