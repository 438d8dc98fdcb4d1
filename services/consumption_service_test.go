package services

import (
	"context"
	"testing"
	"time"

	"github.com/Zalotleh/wellness-hub-sub005/models"
	"github.com/Zalotleh/wellness-hub-sub005/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogValidation(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "validate@example.com")

	svc := NewConsumptionService(db, NewScoreService(db), nil)

	cases := []struct {
		name  string
		input LogConsumptionInput
	}{
		{
			name:  "unknown meal time",
			input: LogConsumptionInput{MealTime: "BRUNCH", Items: []FoodItemInput{{Name: "Kale"}}},
		},
		{
			name:  "no items",
			input: LogConsumptionInput{MealTime: models.MealLunch},
		},
		{
			name:  "blank food name",
			input: LogConsumptionInput{MealTime: models.MealLunch, Items: []FoodItemInput{{Name: "   "}}},
		},
		{
			name: "unknown custom system",
			input: LogConsumptionInput{MealTime: models.MealLunch, Items: []FoodItemInput{
				{Name: "Mystery Stew", Systems: []string{"DIGESTION"}},
			}},
		},
		{
			name:  "bad date",
			input: LogConsumptionInput{Date: "04/10/2026", MealTime: models.MealLunch, Items: []FoodItemInput{{Name: "Kale"}}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Log(ctx, user.ID, tc.input)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestLogTagsCatalogFoods(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "catalog@example.com")

	svc := NewConsumptionService(db, NewScoreService(db), nil)

	logged, err := svc.Log(ctx, user.ID, LogConsumptionInput{
		Date:     "2026-04-10",
		MealTime: models.MealBreakfast,
		Items:    []FoodItemInput{{Name: "Tomatoes"}},
	})
	require.NoError(t, err)
	require.Len(t, logged.Items, 1)

	systems := make([]string, 0, len(logged.Items[0].Benefits))
	for _, b := range logged.Items[0].Benefits {
		assert.Equal(t, "HIGH", b.Strength)
		systems = append(systems, b.System)
	}
	assert.ElementsMatch(t, []string{utils.SystemAngiogenesis, utils.SystemDNAProtection}, systems)

	// Date lands on noon UTC of the requested calendar day.
	assert.Equal(t, time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC), logged.Date.UTC())
	// Defaults fill in quantity and unit.
	assert.Equal(t, 1.0, logged.Items[0].Quantity)
	assert.Equal(t, "serving", logged.Items[0].Unit)
}

func TestLogCustomSystemTags(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "custom@example.com")

	svc := NewConsumptionService(db, NewScoreService(db), nil)

	logged, err := svc.Log(ctx, user.ID, LogConsumptionInput{
		Date:     "2026-04-10",
		MealTime: models.MealDinner,
		Items: []FoodItemInput{
			{Name: "Grandma's Stew", Systems: []string{utils.SystemImmunity}},
			{Name: "Mystery Juice"},
		},
	})
	require.NoError(t, err)
	require.Len(t, logged.Items, 2)

	require.Len(t, logged.Items[0].Benefits, 1)
	assert.Equal(t, utils.SystemImmunity, logged.Items[0].Benefits[0].System)
	assert.Equal(t, "MEDIUM", logged.Items[0].Benefits[0].Strength)

	// Unmatched food with no custom tags carries no benefits.
	assert.Empty(t, logged.Items[1].Benefits)
}

func TestListByDateWindow(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "window@example.com")

	svc := NewConsumptionService(db, NewScoreService(db), nil)

	_, err := svc.Log(ctx, user.ID, LogConsumptionInput{
		Date:     "2026-04-10",
		MealTime: models.MealLunch,
		Items:    []FoodItemInput{{Name: "Kale"}},
	})
	require.NoError(t, err)

	day := time.Date(2026, 4, 10, 2, 0, 0, 0, time.UTC)
	got, err := svc.ListByDate(ctx, user.ID, day)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Len(t, got[0].Items, 1)
	assert.Equal(t, "Kale", got[0].Items[0].Name)

	got, err = svc.ListByDate(ctx, user.ID, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDeleteOwnership(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, db, "owner@example.com")
	intruder := createTestUser(t, db, "intruder@example.com")

	svc := NewConsumptionService(db, NewScoreService(db), nil)

	logged, err := svc.Log(ctx, owner.ID, LogConsumptionInput{
		Date:     "2026-04-10",
		MealTime: models.MealLunch,
		Items:    []FoodItemInput{{Name: "Kale"}},
	})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, intruder.ID, logged.ID), ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, owner.ID, 9999), ErrNotFound)

	require.NoError(t, svc.Delete(ctx, owner.ID, logged.ID))

	got, err := svc.ListByDate(ctx, owner.ID, logged.Date)
	require.NoError(t, err)
	assert.Empty(t, got)
}
