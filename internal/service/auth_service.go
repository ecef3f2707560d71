package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-student-client/internal/models"
	"github.com/noah-isme/lms-student-client/internal/session"
	appErrors "github.com/noah-isme/lms-student-client/pkg/errors"
)

// Messages shown to the user by the sign-in flows.
const (
	MessageLoginFailed    = "Could not sign in. Check your e-mail and password."
	MessageRegisterFailed = "Registration failed. Please try again later."
	MessageEmailTaken     = "This e-mail is already registered. Sign in or use a different address."
	MessageInvalidEmail   = "Enter a valid e-mail."
	MessageProfileFailed  = "Could not load your profile. Please sign in again."
)

type authRepository interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	CurrentUser(ctx context.Context) (*models.User, error)
}

// AuthService runs the login, register, profile and logout flows against the
// session store.
type AuthService struct {
	repo      authRepository
	store     *session.Store
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAuthService constructs the service.
func NewAuthService(repo authRepository, store *session.Store, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{repo: repo, store: store, validator: validate, logger: logger}
}

// Login signs in and loads the profile. A profile failure after a successful
// login leaves the session anonymous and is returned as the error.
func (s *AuthService) Login(ctx context.Context, email, password string) error {
	s.store.BeginAuth()

	req := models.LoginRequest{Email: email, Password: password}
	if err := s.validator.Struct(req); err != nil {
		s.store.AuthFailed(MessageLoginFailed)
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, MessageLoginFailed)
	}

	resp, err := s.repo.Login(ctx, req)
	if err != nil {
		s.logger.Info("login failed", zap.String("email", email), zap.Error(err))
		s.store.AuthFailed(MessageLoginFailed)
		return withMessage(err, MessageLoginFailed)
	}
	if err := s.store.TokenIssued(ctx, resp.AccessToken, resp.User); err != nil {
		s.store.AuthFailed(MessageLoginFailed)
		return err
	}
	if err := s.LoadProfile(ctx); err != nil {
		return err
	}
	s.store.AuthDone()
	return nil
}

// Register creates an account and signs in with it.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) error {
	s.store.BeginAuth()

	if req.Role == "" {
		req.Role = models.RoleStudent
	}
	if err := s.validator.Struct(req); err != nil {
		message := MessageRegisterFailed
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				if fe.Field() == "Email" {
					message = MessageInvalidEmail
				}
			}
		}
		s.store.AuthFailed(message)
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
	}

	resp, err := s.repo.Register(ctx, req)
	if err != nil {
		message := registerMessage(err)
		s.logger.Info("register failed", zap.String("email", req.Email), zap.Error(err))
		s.store.AuthFailed(message)
		return withMessage(err, message)
	}
	if err := s.store.TokenIssued(ctx, resp.AccessToken, resp.User); err != nil {
		s.store.AuthFailed(MessageRegisterFailed)
		return err
	}
	if resp.User == nil {
		if err := s.LoadProfile(ctx); err != nil {
			return err
		}
	}
	s.store.AuthDone()
	return nil
}

func registerMessage(err error) string {
	status := appErrors.StatusOf(err)
	var detail appErrors.Detail
	if e := appErrors.FromError(err); e != nil {
		detail = appErrors.ParseDetail(e.Detail)
	}
	switch {
	case status == http.StatusConflict || detail.Code == "email_taken":
		return MessageEmailTaken
	case (status == http.StatusBadRequest || status == http.StatusUnprocessableEntity) && (detail.HasLoc("email") || detail.Field == "email"):
		return MessageInvalidEmail
	default:
		return MessageRegisterFailed
	}
}

// LoadProfile fetches the current user. It is a no-op without a token; on
// failure the token is dropped and the user must sign in again.
func (s *AuthService) LoadProfile(ctx context.Context) error {
	if s.store.Token() == "" {
		return nil
	}
	user, err := s.repo.CurrentUser(ctx)
	if err != nil {
		s.logger.Warn("load profile failed", zap.Error(err))
		s.store.ProfileFailed(ctx, MessageProfileFailed)
		return withMessage(err, MessageProfileFailed)
	}
	s.store.ProfileLoaded(user)
	return nil
}

// Logout always succeeds.
func (s *AuthService) Logout(ctx context.Context) {
	s.store.LoggedOut(ctx)
}

// ClearError dismisses the last flow message.
func (s *AuthService) ClearError() {
	s.store.ClearError()
}

// withMessage keeps the classification of err but replaces the message shown
// to the user.
func withMessage(err error, message string) error {
	e := appErrors.FromError(err)
	return appErrors.Wrap(err, e.Code, e.Status, message)
}
