package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-student-client/internal/dto"
	"github.com/noah-isme/lms-student-client/internal/models"
	"github.com/noah-isme/lms-student-client/internal/session"
	appErrors "github.com/noah-isme/lms-student-client/pkg/errors"
)

type profileRepository interface {
	Get(ctx context.Context) (*models.User, error)
	Update(ctx context.Context, req models.UpdateProfileRequest) (*models.User, error)
	ChangePassword(ctx context.Context, req models.ChangePasswordRequest) error
}

// PasswordForm is the change-password form including the confirmation
// field, which never leaves the client.
type PasswordForm struct {
	CurrentPassword string `validate:"required"`
	NewPassword     string `validate:"required,min=6"`
	Confirm         string `validate:"eqfield=NewPassword"`
}

// Password form messages.
const (
	MessagePasswordRequired = "Enter your current password."
	MessagePasswordTooShort = "The new password must be at least 6 characters."
	MessagePasswordMismatch = "The passwords do not match."
	MessagePasswordChanged  = "Password changed."
)

// ProfileService loads and edits the current account.
type ProfileService struct {
	repo      profileRepository
	store     *session.Store
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProfileService constructs the service.
func NewProfileService(repo profileRepository, store *session.Store, validate *validator.Validate, logger *zap.Logger) *ProfileService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{repo: repo, store: store, validator: validate, logger: logger}
}

// Load fetches the current user.
func (s *ProfileService) Load(ctx context.Context) (*dto.ProfilePage, error) {
	user, err := s.repo.Get(ctx)
	if err != nil {
		return nil, pageError("your profile", err)
	}
	return &dto.ProfilePage{User: *user}, nil
}

// Update saves profile changes and writes the stored user into the session
// so the header reflects them.
func (s *ProfileService) Update(ctx context.Context, req models.UpdateProfileRequest) (*models.User, error) {
	if req.FullName != nil {
		trimmed := strings.TrimSpace(*req.FullName)
		req.FullName = &trimmed
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Enter a name between 1 and 200 characters and a valid avatar URL.")
	}
	user, err := s.repo.Update(ctx, req)
	if err != nil {
		return nil, withMessage(err, "Could not save your profile.")
	}
	s.store.SetUser(user)
	return user, nil
}

// ChangePassword validates the form before sending it.
func (s *ProfileService) ChangePassword(ctx context.Context, form PasswordForm) error {
	if err := s.validator.Struct(form); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, passwordFormMessage(err))
	}
	err := s.repo.ChangePassword(ctx, models.ChangePasswordRequest{
		CurrentPassword: form.CurrentPassword,
		NewPassword:     form.NewPassword,
	})
	if err != nil {
		s.logger.Info("change password failed", zap.Error(err))
		return withMessage(err, "Could not change the password. Check your current password.")
	}
	return nil
}

func passwordFormMessage(err error) string {
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(fieldErrs) == 0 {
		return MessagePasswordTooShort
	}
	switch fieldErrs[0].Field() {
	case "CurrentPassword":
		return MessagePasswordRequired
	case "Confirm":
		return MessagePasswordMismatch
	default:
		return MessagePasswordTooShort
	}
}
