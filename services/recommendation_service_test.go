package services

import (
	"context"
	"testing"
	"time"

	"github.com/Zalotleh/wellness-hub-sub005/models"
	"github.com/Zalotleh/wellness-hub-sub005/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestGenerateMissedMainsChronological(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "mains@example.com")

	scores := NewScoreService(db)
	recs := NewRecommendationService(db, scores, nil)

	// A fully past day with nothing logged: all three mains are missed and
	// the cap of three is hit before snacks or suggestions.
	yesterday := time.Now().AddDate(0, 0, -1)
	created, err := recs.Generate(ctx, user.ID, yesterday, time.Now())
	require.NoError(t, err)
	require.Len(t, created, MaxNewRecommendations)

	wantSlots := []string{models.MealBreakfast, models.MealLunch, models.MealDinner}
	for i, rec := range created {
		assert.Equal(t, models.RecMissedMeal, rec.Type)
		assert.Equal(t, models.RecStatusPending, rec.Status)
		assert.Equal(t, models.PriorityHigh, rec.Priority)
		assert.Equal(t, wantSlots[i], rec.TargetMealTime)
		assert.NotEmpty(t, rec.ID)
		assert.True(t, rec.ExpiresAt.After(time.Now()))

		payload, err := models.DecodeAction(rec.ActionData)
		require.NoError(t, err)
		require.NotNil(t, payload.MissedMeal)
		assert.Equal(t, wantSlots[i], payload.MissedMeal.MealTime)
	}
}

func TestGenerateDeduplicatesAgainstActive(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "dedup@example.com")

	scores := NewScoreService(db)
	recs := NewRecommendationService(db, scores, nil)

	yesterday := time.Now().AddDate(0, 0, -1)
	first, err := recs.Generate(ctx, user.ID, yesterday, time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := recs.Generate(ctx, user.ID, yesterday, time.Now())
	require.NoError(t, err)
	assert.Empty(t, second)
}

func TestGenerateSnacksGatedOnMains(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "snacks@example.com")

	scores := NewScoreService(db)
	recs := NewRecommendationService(db, scores, nil)
	consumptions := NewConsumptionService(db, scores, nil)

	yesterday := time.Now().AddDate(0, 0, -1)
	dayStr := yesterday.Format("2006-01-02")

	// Blueberries cover every system, so after three mains no system sits
	// at zero and no food suggestion fires.
	for _, slot := range models.MainMeals {
		_, err := consumptions.Log(ctx, user.ID, LogConsumptionInput{
			Date:     dayStr,
			MealTime: slot,
			Items:    []FoodItemInput{{Name: "Blueberries"}},
		})
		require.NoError(t, err)
	}

	created, err := recs.Generate(ctx, user.ID, yesterday, time.Now())
	require.NoError(t, err)
	require.Len(t, created, 3)

	assert.Equal(t, models.RecMissedMeal, created[0].Type)
	assert.Equal(t, models.MealMorningSnack, created[0].TargetMealTime)
	assert.Equal(t, models.PriorityMedium, created[0].Priority)

	assert.Equal(t, models.RecMissedMeal, created[1].Type)
	assert.Equal(t, models.MealAfternoonSnack, created[1].TargetMealTime)

	// Every system has one food: all weak, so a meal plan closes the batch.
	assert.Equal(t, models.RecMealPlan, created[2].Type)
	assert.Equal(t, models.PriorityLow, created[2].Priority)
}

func TestGenerateOneMissedDinner(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "dinner@example.com")

	scores := NewScoreService(db)
	recs := NewRecommendationService(db, scores, nil)
	consumptions := NewConsumptionService(db, scores, nil)

	yesterday := time.Now().AddDate(0, 0, -1)
	dayStr := yesterday.Format("2006-01-02")
	for _, slot := range []string{models.MealBreakfast, models.MealLunch} {
		_, err := consumptions.Log(ctx, user.ID, LogConsumptionInput{
			Date:     dayStr,
			MealTime: slot,
			Items:    []FoodItemInput{{Name: "Kale"}},
		})
		require.NoError(t, err)
	}

	// End-of-day run with only dinner missing: exactly one recommendation,
	// for dinner, with no snack, variety or plan recommendations alongside.
	created, err := recs.Generate(ctx, user.ID, yesterday, time.Now())
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, models.RecMissedMeal, created[0].Type)
	assert.Equal(t, models.MealDinner, created[0].TargetMealTime)
	assert.Equal(t, models.PriorityHigh, created[0].Priority)
	assert.Contains(t, created[0].Title, "Dinner")
}

func TestGenerateFoodSuggestionsWhenMainsDone(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "suggest@example.com")

	scores := NewScoreService(db)
	recs := NewRecommendationService(db, scores, nil)
	consumptions := NewConsumptionService(db, scores, nil)

	yesterday := time.Now().AddDate(0, 0, -1)
	dayStr := yesterday.Format("2006-01-02")

	// Tomatoes tag ANGIOGENESIS and DNA_PROTECTION only, leaving three
	// systems uncovered.
	mealsAndSnacks := append([]string{}, models.MealTimeOrder...)
	for _, slot := range mealsAndSnacks {
		_, err := consumptions.Log(ctx, user.ID, LogConsumptionInput{
			Date:     dayStr,
			MealTime: slot,
			Items:    []FoodItemInput{{Name: "Tomatoes"}},
		})
		require.NoError(t, err)
	}

	created, err := recs.Generate(ctx, user.ID, yesterday, time.Now())
	require.NoError(t, err)
	require.Len(t, created, MaxNewRecommendations)

	for _, rec := range created {
		assert.Equal(t, models.RecFoodSuggestion, rec.Type)
		assert.NotEmpty(t, rec.TargetSystem)

		payload, err := models.DecodeAction(rec.ActionData)
		require.NoError(t, err)
		require.NotNil(t, payload.FoodSuggestion)
		assert.Equal(t, rec.TargetSystem, payload.FoodSuggestion.System)
		assert.NotEmpty(t, payload.FoodSuggestion.SuggestedFoods)
	}
}

func TestRecommendationStateMachine(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "state@example.com")
	other := createTestUser(t, db, "other@example.com")

	scores := NewScoreService(db)
	recs := NewRecommendationService(db, scores, nil)

	created, err := recs.Generate(ctx, user.ID, time.Now().AddDate(0, 0, -1), time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, created)
	id := created[0].ID

	// Another user cannot touch it.
	_, err = recs.MarkActedOn(ctx, other.ID, id)
	assert.ErrorIs(t, err, ErrForbidden)

	// Completion without an artifact is rejected.
	_, err = recs.MarkCompleted(ctx, user.ID, id, ArtifactLink{})
	assert.ErrorIs(t, err, ErrInvalidState)

	rec, err := recs.MarkActedOn(ctx, user.ID, id)
	require.NoError(t, err)
	assert.Equal(t, models.RecStatusActedOn, rec.Status)
	require.NotNil(t, rec.ActedAt)

	// ACTED_ON is not PENDING; acting twice is an invalid transition.
	_, err = recs.MarkActedOn(ctx, user.ID, id)
	assert.ErrorIs(t, err, ErrInvalidState)

	consumptionID := uint(42)
	rec, err = recs.MarkCompleted(ctx, user.ID, id, ArtifactLink{ConsumptionID: &consumptionID})
	require.NoError(t, err)
	assert.Equal(t, models.RecStatusCompleted, rec.Status)
	require.NotNil(t, rec.CompletedAt)
	require.NotNil(t, rec.LinkedConsumptionID)
	assert.Equal(t, consumptionID, *rec.LinkedConsumptionID)

	// Completed is terminal for both transitions.
	_, err = recs.MarkCompleted(ctx, user.ID, id, ArtifactLink{ConsumptionID: &consumptionID})
	assert.ErrorIs(t, err, ErrInvalidState)

	// Reset restores a clean PENDING row.
	rec, err = recs.Reset(ctx, user.ID, id)
	require.NoError(t, err)
	assert.Equal(t, models.RecStatusPending, rec.Status)
	assert.Nil(t, rec.ActedAt)
	assert.Nil(t, rec.CompletedAt)
	assert.Nil(t, rec.LinkedConsumptionID)

	_, err = recs.MarkActedOn(ctx, user.ID, "not-a-real-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoggingMealCompletesRecommendation(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "autocomplete@example.com")

	scores := NewScoreService(db)
	recs := NewRecommendationService(db, scores, nil)
	consumptions := NewConsumptionService(db, scores, recs)

	yesterday := time.Now().AddDate(0, 0, -1)
	created, err := recs.Generate(ctx, user.ID, yesterday, time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, created)
	assert.Equal(t, models.MealBreakfast, created[0].TargetMealTime)

	logged, err := consumptions.Log(ctx, user.ID, LogConsumptionInput{
		Date:     yesterday.Format("2006-01-02"),
		MealTime: models.MealBreakfast,
		Items:    []FoodItemInput{{Name: "Oats"}},
	})
	require.NoError(t, err)

	var rec models.Recommendation
	require.NoError(t, db.Where("id = ?", created[0].ID).First(&rec).Error)
	assert.Equal(t, models.RecStatusCompleted, rec.Status)
	require.NotNil(t, rec.LinkedConsumptionID)
	assert.Equal(t, logged.ID, *rec.LinkedConsumptionID)
}

func TestListActiveExpiresAndSorts(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "list@example.com")

	scores := NewScoreService(db)
	recs := NewRecommendationService(db, scores, nil)

	action, err := models.EncodeAction(models.RecMissedMeal, models.ActionPayload{
		MissedMeal: &models.MissedMealAction{MealTime: models.MealLunch},
	})
	require.NoError(t, err)

	stale := models.Recommendation{
		UserID: user.ID, Type: models.RecMissedMeal, Status: models.RecStatusPending,
		Priority: models.PriorityHigh, Title: "stale", TargetMealTime: models.MealLunch,
		ActionData: action, ExpiresAt: time.Now().Add(-time.Hour),
	}
	low := models.Recommendation{
		UserID: user.ID, Type: models.RecMealPlan, Status: models.RecStatusPending,
		Priority: models.PriorityLow, Title: "low",
		ActionData: mustPlanAction(t), ExpiresAt: time.Now().Add(time.Hour),
	}
	high := models.Recommendation{
		UserID: user.ID, Type: models.RecMissedMeal, Status: models.RecStatusActedOn,
		Priority: models.PriorityHigh, Title: "high", TargetMealTime: models.MealDinner,
		ActionData: action, ExpiresAt: time.Now().Add(time.Hour),
	}
	for _, r := range []*models.Recommendation{&stale, &low, &high} {
		require.NoError(t, db.Create(r).Error)
	}

	active, err := recs.ListActive(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "high", active[0].Title)
	assert.Equal(t, "low", active[1].Title)

	var expired models.Recommendation
	require.NoError(t, db.Where("id = ?", stale.ID).First(&expired).Error)
	assert.Equal(t, models.RecStatusExpired, expired.Status)
}

func mustPlanAction(t *testing.T) datatypes.JSON {
	t.Helper()
	action, err := models.EncodeAction(models.RecMealPlan, models.ActionPayload{
		MealPlan: &models.MealPlanAction{Systems: []string{utils.SystemImmunity, utils.SystemMicrobiome}, DurationDays: 7},
	})
	require.NoError(t, err)
	return action
}
