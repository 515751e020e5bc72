package models

import "time"

// User is the stored account. The JSON form is the public projection:
// the password hash and session tokens never leave the server. Avatar bytes
// are stored beside the row and only read through the avatar endpoint.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Age          int       `json:"age"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Token is one active session of a user.
type Token struct {
	UserID    string
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}
