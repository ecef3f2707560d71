package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-student-client/internal/models"
	"github.com/noah-isme/lms-student-client/internal/session"
	appErrors "github.com/noah-isme/lms-student-client/pkg/errors"
	"github.com/noah-isme/lms-student-client/pkg/storage"
)

type fakeAuthRepo struct {
	loginResp    *models.AuthResponse
	loginErr     error
	registerResp *models.AuthResponse
	registerErr  error
	user         *models.User
	userErr      error

	registered []models.RegisterRequest
	meCalls    int
}

func (f *fakeAuthRepo) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.loginResp, nil
}

func (f *fakeAuthRepo) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	f.registered = append(f.registered, req)
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return f.registerResp, nil
}

func (f *fakeAuthRepo) CurrentUser(ctx context.Context) (*models.User, error) {
	f.meCalls++
	if f.userErr != nil {
		return nil, f.userErr
	}
	return f.user, nil
}

func newTestStore(t *testing.T) (*session.Store, *storage.MemoryTokenStore) {
	t.Helper()
	tokens := &storage.MemoryTokenStore{}
	store, err := session.NewStore(context.Background(), tokens, nil)
	require.NoError(t, err)
	return store, tokens
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	store, tokens := newTestStore(t)
	user := &models.User{ID: 7, Email: "ann@example.com", FullName: "Ann", Role: models.RoleStudent}
	repo := &fakeAuthRepo{loginResp: &models.AuthResponse{AccessToken: "tok"}, user: user}
	svc := NewAuthService(repo, store, nil, nil)

	require.NoError(t, svc.Login(context.Background(), "ann@example.com", "secret"))

	snap := store.Snapshot()
	assert.Equal(t, session.StatusAuthenticated, snap.Status())
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Error)
	assert.Equal(t, user, snap.User)
	assert.Equal(t, 1, repo.meCalls)

	persisted, err := tokens.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok", persisted)
}

func TestAuthServiceLoginRejected(t *testing.T) {
	store, _ := newTestStore(t)
	repo := &fakeAuthRepo{loginErr: appErrors.Clone(appErrors.ErrUnauthorized, "Incorrect email or password")}
	svc := NewAuthService(repo, store, nil, nil)

	err := svc.Login(context.Background(), "ann@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
	assert.Equal(t, MessageLoginFailed, appErrors.FromError(err).Message)

	snap := store.Snapshot()
	assert.Equal(t, session.StatusAnonymous, snap.Status())
	assert.Equal(t, MessageLoginFailed, snap.Error)
	assert.Zero(t, repo.meCalls)
}

func TestAuthServiceLoginInvalidEmailSkipsRequest(t *testing.T) {
	store, _ := newTestStore(t)
	repo := &fakeAuthRepo{loginErr: errors.New("must not be called")}
	svc := NewAuthService(repo, store, nil, nil)

	err := svc.Login(context.Background(), "not-an-email", "secret")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.False(t, store.Snapshot().Loading)
}

func TestAuthServiceProfileFailureDropsToken(t *testing.T) {
	store, tokens := newTestStore(t)
	repo := &fakeAuthRepo{
		loginResp: &models.AuthResponse{AccessToken: "tok"},
		userErr:   appErrors.Clone(appErrors.ErrUnauthorized, ""),
	}
	svc := NewAuthService(repo, store, nil, nil)

	err := svc.Login(context.Background(), "ann@example.com", "secret")
	require.Error(t, err)
	assert.Equal(t, MessageProfileFailed, appErrors.FromError(err).Message)

	snap := store.Snapshot()
	assert.Empty(t, snap.Token)
	assert.Equal(t, session.StatusAnonymous, snap.Status())
	assert.Equal(t, MessageProfileFailed, snap.Error)

	persisted, err := tokens.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, persisted)
}

func TestAuthServiceLoadProfileWithoutToken(t *testing.T) {
	store, _ := newTestStore(t)
	repo := &fakeAuthRepo{}
	svc := NewAuthService(repo, store, nil, nil)

	require.NoError(t, svc.LoadProfile(context.Background()))
	assert.Zero(t, repo.meCalls)
}

func TestAuthServiceRegister(t *testing.T) {
	t.Run("defaults role and uses returned user", func(t *testing.T) {
		store, _ := newTestStore(t)
		user := &models.User{ID: 3, Email: "bo@example.com", Role: models.RoleStudent}
		repo := &fakeAuthRepo{registerResp: &models.AuthResponse{AccessToken: "tok", User: user}}
		svc := NewAuthService(repo, store, nil, nil)

		err := svc.Register(context.Background(), models.RegisterRequest{Email: "bo@example.com", Password: "secret1", FullName: "Bo"})
		require.NoError(t, err)
		require.Len(t, repo.registered, 1)
		assert.Equal(t, models.RoleStudent, repo.registered[0].Role)
		assert.Zero(t, repo.meCalls)
		assert.Equal(t, user, store.User())
	})

	t.Run("fetches profile when response has no user", func(t *testing.T) {
		store, _ := newTestStore(t)
		user := &models.User{ID: 3}
		repo := &fakeAuthRepo{registerResp: &models.AuthResponse{AccessToken: "tok"}, user: user}
		svc := NewAuthService(repo, store, nil, nil)

		err := svc.Register(context.Background(), models.RegisterRequest{Email: "bo@example.com", Password: "secret1", FullName: "Bo"})
		require.NoError(t, err)
		assert.Equal(t, 1, repo.meCalls)
		assert.Equal(t, user, store.User())
	})

	cases := []struct {
		name    string
		err     error
		message string
	}{
		{name: "conflict", err: appErrors.Clone(appErrors.ErrConflict, ""), message: MessageEmailTaken},
		{name: "email taken code", err: appErrors.FromResponse(400, []byte(`{"detail":{"code":"email_taken"}}`)), message: MessageEmailTaken},
		{name: "email field error", err: appErrors.FromResponse(422, []byte(`{"detail":[{"loc":["body","email"],"msg":"value is not a valid email address"}]}`)), message: MessageInvalidEmail},
		{name: "server error", err: appErrors.FromResponse(500, nil), message: MessageRegisterFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store, _ := newTestStore(t)
			svc := NewAuthService(&fakeAuthRepo{registerErr: tc.err}, store, nil, nil)

			err := svc.Register(context.Background(), models.RegisterRequest{Email: "bo@example.com", Password: "secret1", FullName: "Bo"})
			require.Error(t, err)
			assert.Equal(t, tc.message, appErrors.FromError(err).Message)
			assert.Equal(t, tc.message, store.Snapshot().Error)
		})
	}

	t.Run("short password is left to the server", func(t *testing.T) {
		store, _ := newTestStore(t)
		repo := &fakeAuthRepo{registerResp: &models.AuthResponse{AccessToken: "tok", User: &models.User{ID: 4}}}
		svc := NewAuthService(repo, store, nil, nil)

		err := svc.Register(context.Background(), models.RegisterRequest{Email: "ann@example.com", Password: "abc", FullName: "Ann"})
		require.NoError(t, err)
		require.Len(t, repo.registered, 1)
		assert.Equal(t, "abc", repo.registered[0].Password)
		assert.Equal(t, session.StatusAuthenticated, store.Status())
	})

	t.Run("invalid email is rejected locally", func(t *testing.T) {
		store, _ := newTestStore(t)
		repo := &fakeAuthRepo{}
		svc := NewAuthService(repo, store, nil, nil)

		err := svc.Register(context.Background(), models.RegisterRequest{Email: "bo", Password: "secret1", FullName: "Bo"})
		require.Error(t, err)
		assert.Equal(t, MessageInvalidEmail, appErrors.FromError(err).Message)
		assert.Empty(t, repo.registered)
	})
}

func TestAuthServiceLogout(t *testing.T) {
	store, tokens := newTestStore(t)
	repo := &fakeAuthRepo{loginResp: &models.AuthResponse{AccessToken: "tok"}, user: &models.User{ID: 1}}
	svc := NewAuthService(repo, store, nil, nil)
	require.NoError(t, svc.Login(context.Background(), "ann@example.com", "secret"))

	svc.Logout(context.Background())

	snap := store.Snapshot()
	assert.Equal(t, session.StatusAnonymous, snap.Status())
	assert.Nil(t, snap.User)
	persisted, err := tokens.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, persisted)
}
