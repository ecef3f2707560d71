package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-student-client/internal/models"
	"github.com/noah-isme/lms-student-client/pkg/storage"
)

func TestSnapshotStatus(t *testing.T) {
	assert.Equal(t, StatusAnonymous, Snapshot{}.Status())
	assert.Equal(t, StatusAuthenticating, BeginAuth(Snapshot{}).Status())
	assert.Equal(t, StatusAuthenticated, TokenIssued(Snapshot{}, "t", nil).Status())
	assert.Equal(t, StatusAuthenticated, Snapshot{Token: "t", Loading: true}.Status())
}

func TestTransitions(t *testing.T) {
	user := &models.User{ID: 1, FullName: "Anna"}

	s := BeginAuth(Snapshot{Error: "old"})
	assert.True(t, s.Loading)
	assert.Empty(t, s.Error)

	s = TokenIssued(s, "tok", nil)
	s = ProfileLoaded(s, user)
	assert.Equal(t, "tok", s.Token)
	assert.Equal(t, user, s.User)
	assert.False(t, s.Loading)

	failed := ProfileFailed(s, "reload")
	assert.Empty(t, failed.Token)
	assert.Equal(t, "reload", failed.Error)
	assert.Equal(t, StatusAnonymous, failed.Status())

	out := LoggedOut(s)
	assert.Equal(t, Snapshot{}, out)

	assert.Empty(t, ErrorCleared(AuthFailed(Snapshot{Loading: true}, "x")).Error)
}

func TestStoreRestoresAndClearsPersistedToken(t *testing.T) {
	ctx := context.Background()
	tokens := &storage.MemoryTokenStore{}
	require.NoError(t, tokens.Save(ctx, "persisted"))

	store, err := NewStore(ctx, tokens, nil)
	require.NoError(t, err)
	assert.Equal(t, "persisted", store.Token())
	assert.Equal(t, StatusAuthenticated, store.Status())

	store.LoggedOut(ctx)
	assert.Equal(t, StatusAnonymous, store.Status())
	persisted, _ := tokens.Load(ctx)
	assert.Empty(t, persisted)

	require.NoError(t, store.TokenIssued(ctx, "fresh", nil))
	persisted, _ = tokens.Load(ctx)
	assert.Equal(t, "fresh", persisted)

	store.ProfileFailed(ctx, "sign in again")
	persisted, _ = tokens.Load(ctx)
	assert.Empty(t, persisted)
	assert.Equal(t, "sign in again", store.Snapshot().Error)
}

func TestStoreClaims(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore(ctx, nil, nil)
	require.NoError(t, err)

	_, err = store.Claims()
	require.Error(t, err)

	expires := time.Now().Add(time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "42",
		ExpiresAt: jwt.NewNumericDate(expires),
	}).SignedString([]byte("server-secret"))
	require.NoError(t, err)
	require.NoError(t, store.TokenIssued(ctx, signed, nil))

	claims, err := store.Claims()
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.True(t, claims.ExpiresAt.Time.Equal(expires))
}
