package repository

import (
	"context"
	"net/http"

	"github.com/noah-isme/lms-student-client/internal/models"
	"github.com/noah-isme/lms-student-client/pkg/httpclient"
)

// ProfileRepository reads and edits the current user.
type ProfileRepository struct {
	api API
}

// NewProfileRepository constructs the repository.
func NewProfileRepository(api API) *ProfileRepository {
	return &ProfileRepository{api: api}
}

// Get returns the current user.
func (r *ProfileRepository) Get(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := r.api.Do(ctx, httpclient.Request{Path: "/users/me"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update patches the current user and returns the stored result.
func (r *ProfileRepository) Update(ctx context.Context, req models.UpdateProfileRequest) (*models.User, error) {
	var out models.User
	if err := r.api.Do(ctx, httpclient.Request{Method: http.MethodPatch, Path: "/users/me", Body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangePassword replaces the password of the current user.
func (r *ProfileRepository) ChangePassword(ctx context.Context, req models.ChangePasswordRequest) error {
	return r.api.Do(ctx, httpclient.Request{Method: http.MethodPost, Path: "/users/me/change-password", Body: req}, nil)
}
