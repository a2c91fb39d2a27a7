// Package model defines domain entities for the application.
package model

import "time"

// User is an account holder. Email is the identity key and is compared
// exactly as stored.
type User struct {
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Identity is the authenticated caller decoded from a session token.
type Identity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Identity returns the public identity of the user.
func (u *User) Identity() Identity {
	return Identity{Name: u.Name, Email: u.Email}
}
