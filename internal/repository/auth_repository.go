package repository

import (
	"context"
	"net/http"

	"github.com/noah-isme/lms-student-client/internal/models"
	"github.com/noah-isme/lms-student-client/pkg/httpclient"
)

// AuthRepository talks to the authentication endpoints.
type AuthRepository struct {
	api API
}

// NewAuthRepository constructs the repository.
func NewAuthRepository(api API) *AuthRepository {
	return &AuthRepository{api: api}
}

// Login exchanges credentials for an access token.
func (r *AuthRepository) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := r.api.Do(ctx, httpclient.Request{Method: http.MethodPost, Path: "/auth/login-json", Body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account and returns its access token.
func (r *AuthRepository) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := r.api.Do(ctx, httpclient.Request{Method: http.MethodPost, Path: "/auth/register", Body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CurrentUser fetches the profile bound to the bearer token.
func (r *AuthRepository) CurrentUser(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := r.api.Do(ctx, httpclient.Request{Path: "/users/me"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
