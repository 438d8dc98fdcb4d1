package services

import (
	"context"
	"testing"

	"github.com/Zalotleh/wellness-hub-sub005/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewAuthService(db)

	user, err := svc.Register(ctx, RegisterInput{
		Email:    "  Jamie@Example.com ",
		Password: "correct-horse",
		FullName: "Jamie",
		Timezone: "America/New_York",
	})
	require.NoError(t, err)
	assert.Equal(t, "jamie@example.com", user.Email)
	assert.Equal(t, "America/New_York", user.Timezone)
	assert.NotEqual(t, "correct-horse", user.Password)

	// Duplicate email is rejected regardless of case.
	_, err = svc.Register(ctx, RegisterInput{
		Email: "JAMIE@example.com", Password: "whatever1", FullName: "J",
	})
	assert.ErrorIs(t, err, ErrValidation)

	got, token, err := svc.Authenticate(ctx, "jamie@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.NotEmpty(t, token)

	_, _, err = svc.Authenticate(ctx, "jamie@example.com", "wrong")
	assert.ErrorIs(t, err, ErrForbidden)
	_, _, err = svc.Authenticate(ctx, "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestRegisterRejectsBadTimezone(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email: "tz@example.com", Password: "longenough", FullName: "T", Timezone: "Mars/Olympus",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPasswordResetFlow(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	svc := NewAuthService(db)

	_, err := svc.Register(ctx, RegisterInput{
		Email: "reset@example.com", Password: "original-pw", FullName: "R",
	})
	require.NoError(t, err)

	// Unknown address is a silent success.
	require.NoError(t, svc.ForgotPassword(ctx, "ghost@example.com"))

	require.NoError(t, svc.ForgotPassword(ctx, "reset@example.com"))

	var user models.User
	require.NoError(t, db.Where("email = ?", "reset@example.com").First(&user).Error)
	require.NotEmpty(t, user.ResetToken)

	assert.ErrorIs(t, svc.ResetPassword(ctx, user.ResetToken, "short"), ErrValidation)
	assert.ErrorIs(t, svc.ResetPassword(ctx, "bogus-token", "new-password"), ErrValidation)

	require.NoError(t, svc.ResetPassword(ctx, user.ResetToken, "new-password"))

	_, _, err = svc.Authenticate(ctx, "reset@example.com", "new-password")
	require.NoError(t, err)
	_, _, err = svc.Authenticate(ctx, "reset@example.com", "original-pw")
	assert.ErrorIs(t, err, ErrForbidden)

	// Token is single use.
	assert.ErrorIs(t, svc.ResetPassword(ctx, user.ResetToken, "another-pass"), ErrValidation)
}
