package services

import (
	"context"
	"testing"

	"github.com/Zalotleh/wellness-hub-sub005/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestUpdateProfile(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "profile@example.com")
	svc := NewUserService(db)

	got, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{
		FullName: strPtr("New Name"),
		Timezone: strPtr("Europe/Berlin"),
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", got.FullName)
	assert.Equal(t, "Europe/Berlin", got.Timezone)

	// Partial update leaves the other field alone.
	got, err = svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{FullName: strPtr("Third Name")})
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", got.Timezone)

	_, err = svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{Timezone: strPtr("Nowhere/Atall")})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Profile(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAlertBusPersistsAndReads(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "alerts@example.com")
	other := createTestUser(t, db, "alerts2@example.com")

	bus := NewAlertBus(db, nil, nil)
	bus.RecommendationsCreated(user.ID, 2)
	bus.Info(user.ID, "welcome")

	alerts, err := bus.List(ctx, user.ID, false)
	require.NoError(t, err)
	require.Len(t, alerts, 2)

	var recAlert models.Alert
	for _, a := range alerts {
		if a.Type == AlertRecommendation {
			recAlert = a
		}
	}
	require.NotZero(t, recAlert.ID)
	assert.Contains(t, recAlert.Message, "2 new recommendations")

	assert.ErrorIs(t, bus.MarkRead(ctx, other.ID, recAlert.ID), ErrForbidden)
	require.NoError(t, bus.MarkRead(ctx, user.ID, recAlert.ID))

	unread, err := bus.List(ctx, user.ID, true)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, AlertInfo, unread[0].Type)
}
