package services_test

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liveballot/elect/internal/adapters/repository/memory"
	"github.com/liveballot/elect/internal/core/domain"
	"github.com/liveballot/elect/internal/core/services"
)

const testJWTSecret = "test-secret"

func newAuthService(t *testing.T) (*services.AuthService, *memory.UserStore) {
	t.Helper()
	t.Setenv("JWT_SECRET", testJWTSecret)
	store := memory.NewUserStore()
	return services.NewAuthService(store, store), store
}

func parseAccessToken(t *testing.T, token string) jwt.MapClaims {
	t.Helper()
	parsed, err := jwt.Parse(token, func(*jwt.Token) (any, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	return claims
}

func TestRegisterIssuesTokens(t *testing.T) {
	service, store := newAuthService(t)

	access, refresh, err := service.Register(context.Background(), "Alice@Example.com", "Alice", "hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	claims := parseAccessToken(t, access)
	assert.Equal(t, "alice@example.com", claims["email"])
	assert.Equal(t, string(domain.RoleVoter), claims["role"])

	user, err := store.GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.NotEqual(t, "hunter22", user.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	service, _ := newAuthService(t)

	_, _, err := service.Register(context.Background(), "alice@example.com", "Alice", "hunter22")
	require.NoError(t, err)

	_, _, err = service.Register(context.Background(), "ALICE@example.com", "Other", "password")
	require.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestRegisterValidation(t *testing.T) {
	service, _ := newAuthService(t)

	_, _, err := service.Register(context.Background(), "", "Alice", "hunter22")
	require.ErrorIs(t, err, domain.ErrValidation)

	_, _, err = service.Register(context.Background(), "alice@example.com", "Alice", "")
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestLogin(t *testing.T) {
	service, _ := newAuthService(t)

	_, _, err := service.Register(context.Background(), "alice@example.com", "Alice", "hunter22")
	require.NoError(t, err)

	access, refresh, err := service.Login(context.Background(), "alice@example.com", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)

	_, _, err = service.Login(context.Background(), "alice@example.com", "wrong")
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	_, _, err = service.Login(context.Background(), "nobody@example.com", "hunter22")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRefreshAndLogout(t *testing.T) {
	service, _ := newAuthService(t)

	_, refresh, err := service.Register(context.Background(), "alice@example.com", "Alice", "hunter22")
	require.NoError(t, err)

	access, _, err := service.RefreshAccessToken(context.Background(), refresh)
	require.NoError(t, err)
	claims := parseAccessToken(t, access)
	assert.Equal(t, "alice@example.com", claims["email"])

	require.NoError(t, service.Logout(context.Background(), refresh))

	_, _, err = service.RefreshAccessToken(context.Background(), refresh)
	require.Error(t, err)

	// Logging out an unknown token is a no-op.
	require.NoError(t, service.Logout(context.Background(), "not-a-token"))
}
