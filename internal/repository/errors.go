package repository

import "errors"

// Store errors shared by every Store implementation.
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailExists   = errors.New("email already exists")
	ErrEntryNotFound = errors.New("entry not found")
)
