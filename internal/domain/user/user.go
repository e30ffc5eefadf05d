package user

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("user not found")

// User accounts are created on first successful login and never mutated or
// deleted afterwards.
type User struct {
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	CreatedAt    time.Time `json:"createdAt"`
}
