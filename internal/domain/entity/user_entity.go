package entity

import (
	"time"
)

// User is the aggregate root for user domain
// Passwords are stored as bcrypt hashes in Password field
type User struct {
	ID        int64
	Email     string
	Password  string
	CreatedAt time.Time
}

// PublicUser is the part of a user that may leave the service.
type PublicUser struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

func (u *User) Public() *PublicUser {
	return &PublicUser{ID: u.ID, Email: u.Email}
}
