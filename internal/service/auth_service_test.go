package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/procure-core/vendor-mdm-api/internal/models"
	"github.com/procure-core/vendor-mdm-api/internal/repository"
)

func newAuthService() *AuthService {
	return NewAuthService(repository.NewMemoryUserRepository(), nil, nil, AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "vendor-mdm-api",
		Audience:           []string{"vendor-portal"},
	})
}

func TestAuthServiceLoginIssuesVendorScopedToken(t *testing.T) {
	svc := newAuthService()

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "vendor@acme-global.example.com",
		Password: "vendor123",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	require.Equal(t, models.RoleVendor, resp.User.Role)
	require.Equal(t, "100450", resp.User.SapVendorID)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	require.Equal(t, models.RoleVendor, claims.Role)
	require.Equal(t, "100450", claims.SapVendorID)
}

func TestAuthServiceLoginRejectsBadPassword(t *testing.T) {
	svc := newAuthService()

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "vendor@acme-global.example.com",
		Password: "wrong",
	})
	require.Error(t, err)

	_, err = svc.Login(context.Background(), models.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	require.Error(t, err)
}

func TestAuthServiceRefreshRotatesToken(t *testing.T) {
	svc := newAuthService()

	login, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "approver@procure.example.com",
		Password: "approver123",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{
		RefreshToken: login.RefreshToken,
	})
	require.NoError(t, err)
	require.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// The used refresh token is revoked on rotation.
	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{
		RefreshToken: login.RefreshToken,
	})
	require.Error(t, err)
}

func TestAuthServiceLogoutRevokesToken(t *testing.T) {
	svc := newAuthService()

	login, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@procure.example.com",
		Password: "admin123",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), login.RefreshToken, login.User.ID, models.LoginRequest{}))

	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{
		RefreshToken: login.RefreshToken,
	})
	require.Error(t, err)
}

func TestAuthServiceValidateTokenRejectsGarbage(t *testing.T) {
	svc := newAuthService()

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
}
