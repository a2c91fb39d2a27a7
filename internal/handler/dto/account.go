// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/fitlog/fitlog/internal/model"
)

// RegisterRequest represents the request body for creating an account.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the request body for logging in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ResetChallengeRequest asks for a password reset code.
type ResetChallengeRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest represents the request body for a password reset.
// Code is only read when the server requires a reset challenge.
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
	Code        string `json:"code,omitempty"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LoginResponse carries a new session token.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error   string        `json:"error"`
	Code    string        `json:"code"`
	Details []FieldDetail `json:"details,omitempty"`
}

// FieldDetail describes one rejected request field.
type FieldDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ToUserResponse converts an identity to its response form.
func ToUserResponse(id model.Identity) UserResponse {
	return UserResponse{Name: id.Name, Email: id.Email}
}
