package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	backendmem "github.com/judelwin/smart-study-assistant/internal/adapters/driven/backend/memory"
	storagemem "github.com/judelwin/smart-study-assistant/internal/adapters/driven/storage/memory"
	"github.com/judelwin/smart-study-assistant/internal/core/domain"
)

func TestAuthService_LoginStoresCredential(t *testing.T) {
	backend := backendmem.NewBackend()
	backend.AddAccount("ada@example.com", "hunter2")
	store := storagemem.NewCredentialStore()
	svc := NewAuthService(context.Background(), backend, store)
	require.False(t, svc.IsAuthenticated())

	require.NoError(t, svc.Login(context.Background(), "ada@example.com", "hunter2"))

	assert.True(t, svc.IsAuthenticated())
	assert.NotEmpty(t, svc.Token(context.Background()))

	saved, err := store.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "ada@example.com", saved.Email)
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	backend := backendmem.NewBackend()
	backend.AddAccount("ada@example.com", "hunter2")
	svc := NewAuthService(context.Background(), backend, storagemem.NewCredentialStore())

	err := svc.Login(context.Background(), "ada@example.com", "wrong")

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.False(t, svc.IsAuthenticated())
}

func TestAuthService_LoginNetworkErrorPassesThrough(t *testing.T) {
	backend := backendmem.NewBackend()
	backend.LoginErr = domain.ErrBackendUnreachable
	svc := NewAuthService(context.Background(), backend, storagemem.NewCredentialStore())

	err := svc.Login(context.Background(), "ada@example.com", "hunter2")
	assert.ErrorIs(t, err, domain.ErrBackendUnreachable)
}

func TestAuthService_RegisterStoresCredential(t *testing.T) {
	backend := backendmem.NewBackend()
	store := storagemem.NewCredentialStore()
	svc := NewAuthService(context.Background(), backend, store)

	require.NoError(t, svc.Register(context.Background(), "new@example.com", "secret"))
	assert.True(t, svc.IsAuthenticated())
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	backend := backendmem.NewBackend()
	backend.AddAccount("ada@example.com", "hunter2")
	svc := NewAuthService(context.Background(), backend, storagemem.NewCredentialStore())

	err := svc.Register(context.Background(), "ada@example.com", "secret")

	apiErr, ok := domain.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, 400, apiErr.StatusCode)
	assert.False(t, svc.IsAuthenticated())
}

func TestAuthService_RestoresPersistedCredential(t *testing.T) {
	store := storagemem.NewCredentialStore()
	require.NoError(t, store.Save(context.Background(), domain.Credential{
		AccessToken: "tok", TokenType: "bearer", Email: "ada@example.com",
		ObtainedAt: time.Now(),
	}))

	svc := NewAuthService(context.Background(), backendmem.NewBackend(), store)

	assert.True(t, svc.IsAuthenticated())
	assert.Equal(t, "tok", svc.Token(context.Background()))
}

func TestAuthService_LogoutClearsEverywhere(t *testing.T) {
	backend := backendmem.NewBackend()
	backend.AddAccount("ada@example.com", "hunter2")
	store := storagemem.NewCredentialStore()
	svc := NewAuthService(context.Background(), backend, store)
	require.NoError(t, svc.Login(context.Background(), "ada@example.com", "hunter2"))

	require.NoError(t, svc.Logout(context.Background()))

	assert.False(t, svc.IsAuthenticated())
	assert.Empty(t, svc.Token(context.Background()))
	saved, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, saved)
}

func TestAuthService_MeRejectionDiscardsCredential(t *testing.T) {
	backend := backendmem.NewBackend()
	backend.AddAccount("ada@example.com", "hunter2")
	store := storagemem.NewCredentialStore()
	svc := NewAuthService(context.Background(), backend, store)
	require.NoError(t, svc.Login(context.Background(), "ada@example.com", "hunter2"))

	backend.MeErr = &domain.APIError{StatusCode: 401, Detail: "Token expired"}
	_, err := svc.Me(context.Background())

	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.False(t, svc.IsAuthenticated(), "rejected token is discarded")
	saved, loadErr := store.Load(context.Background())
	require.NoError(t, loadErr)
	assert.Nil(t, saved)
}

func TestAuthService_MeReturnsProfile(t *testing.T) {
	backend := backendmem.NewBackend()
	backend.SetProfile(domain.UserProfile{ID: "u1", Email: "ada@example.com"})
	svc := NewAuthService(context.Background(), backend, storagemem.NewCredentialStore())

	profile, err := svc.Me(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", profile.Email)
}
