package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaikahq/zaika/app/models"
	"github.com/zaikahq/zaika/pkg/auth"
)

func TestRegisterHashesPassword(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Asha", "asha@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "password123", user.Password)
	assert.True(t, auth.CheckPassword(user.Password, "password123"))

	_, err = svc.Register(ctx, "Asha Again", "asha@example.com", "password123")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginIssuesTokens(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Asha", "asha@example.com", "password123")
	require.NoError(t, err)

	tokens, err := svc.Login(ctx, "asha@example.com", "password123")
	require.NoError(t, err)
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)

	claims, err := auth.ValidateToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleUser, claims.Role)

	_, err = svc.Login(ctx, "asha@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@example.com", "password123")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshPicksUpRoleChanges(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Asha", "asha@example.com", "password123")
	require.NoError(t, err)

	tokens, err := svc.Login(ctx, "asha@example.com", "password123")
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("role", models.RoleAdmin).Error)

	refreshed, err := svc.Refresh(ctx, tokens.RefreshToken)
	require.NoError(t, err)

	claims, err := auth.ValidateToken(refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	_, err = svc.Refresh(ctx, "not-a-token")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
