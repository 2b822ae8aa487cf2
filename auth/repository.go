// Package auth talks to the /auth endpoints and owns the signed-in session.
package auth

import (
	"context"

	"github.com/jrsteele09/lankaconnect-client/internal/validation"
	"github.com/jrsteele09/lankaconnect-client/transport"
	"github.com/jrsteele09/lankaconnect-client/users"
)

const basePath = "/auth"

// Repository validates each request locally, an invalid request never reaches the network.
type Repository struct {
	api transport.API
}

func NewRepository(api transport.API) *Repository {
	return &Repository{api: api}
}

func (r *Repository) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	var out LoginResponse
	if err := r.api.Post(ctx, basePath+"/login", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Repository) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	var out RegisterResponse
	if err := r.api.Post(ctx, basePath+"/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RefreshToken exchanges refreshToken for a new access token. It never triggers
// the transport's own 401 refresh.
func (r *Repository) RefreshToken(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	var out RefreshResponse
	if err := r.api.Post(ctx, basePath+"/refresh-token", refreshTokenRequest{RefreshToken: refreshToken}, &out, transport.WithoutRefresh()); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout revokes refreshToken on the server.
func (r *Repository) Logout(ctx context.Context, refreshToken string) error {
	return r.api.Post(ctx, basePath+"/logout", refreshTokenRequest{RefreshToken: refreshToken}, nil, transport.WithoutRefresh())
}

func (r *Repository) GetProfile(ctx context.Context) (*users.User, error) {
	var out users.User
	if err := r.api.Get(ctx, basePath+"/profile", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Repository) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) (*MessageResponse, error) {
	return r.message(ctx, "/forgot-password", req)
}

func (r *Repository) ResetPassword(ctx context.Context, req ResetPasswordRequest) (*MessageResponse, error) {
	return r.message(ctx, "/reset-password", req)
}

func (r *Repository) VerifyEmail(ctx context.Context, req VerifyEmailRequest) (*MessageResponse, error) {
	return r.message(ctx, "/verify-email", req)
}

func (r *Repository) ResendVerification(ctx context.Context, req ResendVerificationRequest) (*MessageResponse, error) {
	return r.message(ctx, "/resend-verification", req)
}

func (r *Repository) message(ctx context.Context, path string, req any) (*MessageResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	var out MessageResponse
	if err := r.api.Post(ctx, basePath+path, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
