package services

import (
	"context"
	"testing"

	"github.com/Dosada05/matchday-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())
	ctx := context.Background()

	t.Run("short password", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterInput{FirstName: "Dana", Email: "dana@example.com", Password: "short"})
		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})
	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterInput{Email: "dana@example.com", Password: "long-enough"})
		assert.ErrorIs(t, err, ErrValidationFailed)
	})
	t.Run("normalizes email and defaults the role", func(t *testing.T) {
		user, err := svc.Register(ctx, RegisterInput{FirstName: "Dana", Email: "  Dana@Example.COM ", Password: "long-enough"})
		require.NoError(t, err)
		assert.Equal(t, "dana@example.com", user.Email)
		assert.Equal(t, models.RolePlayer, user.Role)
		assert.Empty(t, user.PasswordHash)
	})
	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterInput{FirstName: "Dana", Email: "dana@example.com", Password: "long-enough"})
		assert.ErrorIs(t, err, ErrUserEmailConflict)
	})
}

func TestLogin(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{FirstName: "Dana", Email: "dana@example.com", Password: "long-enough", Role: "ADMIN"})
	require.NoError(t, err)

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "long-enough"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginInput{Email: "dana@example.com", Password: "not-the-one"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
	t.Run("success clears the hash", func(t *testing.T) {
		user, err := svc.Login(ctx, LoginInput{Email: "dana@example.com", Password: "long-enough"})
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, user.Role)
		assert.Empty(t, user.PasswordHash)
	})
}
