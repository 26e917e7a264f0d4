package users

import "time"

// UserID identifier type
type UserID string

// User is the authenticated owner identity scenarios are scoped to.
type User struct {
	ID           UserID    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
