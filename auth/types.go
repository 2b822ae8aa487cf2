package auth

import (
	"github.com/jrsteele09/lankaconnect-client/users"
)

type LoginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"rememberMe,omitempty"`
}

type RegisterRequest struct {
	Email                 string      `json:"email" validate:"required,email"`
	Password              string      `json:"password" validate:"required,min=8"`
	FirstName             string      `json:"firstName" validate:"required,max=100"`
	LastName              string      `json:"lastName" validate:"required,max=100"`
	SelectedRole          *users.Role `json:"selectedRole,omitempty"`
	PreferredMetroAreaIDs []string    `json:"preferredMetroAreaIds,omitempty" validate:"max=20"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

type VerifyEmailRequest struct {
	UserID string `json:"userId" validate:"required"`
	Token  string `json:"token" validate:"required"`
}

type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refreshToken,omitempty"`
}

// LoginResponse carries the refresh token in the body as well as the cookie the
// server sets, the client has no cookie jar to rely on.
type LoginResponse struct {
	User           users.User `json:"user"`
	AccessToken    string     `json:"accessToken"`
	RefreshToken   string     `json:"refreshToken,omitempty"`
	TokenExpiresAt string     `json:"tokenExpiresAt,omitempty"`
}

type RegisterResponse struct {
	UserID  string `json:"userId"`
	Email   string `json:"email"`
	Message string `json:"message,omitempty"`
}

type RefreshResponse struct {
	AccessToken    string `json:"accessToken"`
	RefreshToken   string `json:"refreshToken,omitempty"`
	TokenExpiresAt string `json:"tokenExpiresAt,omitempty"`
}

// MessageResponse is returned by the password and verification endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}
