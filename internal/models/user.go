package models

import "time"

// User represents a registered account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	CreatedAt    time.Time `json:"-"`
}

// PublicUser is the registration response shape.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Public strips everything but the identifier and username.
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username}
}
