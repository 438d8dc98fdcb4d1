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

func TestWeeklyOverview(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "weekly@example.com")

	scores := NewScoreService(db)
	consumptions := NewConsumptionService(db, scores, nil)
	trends := NewTrendService(db, scores)

	end := time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)

	// Meals only on the last three days, heavier each day.
	logDay := func(day time.Time, items []string) {
		inputs := make([]FoodItemInput, len(items))
		for i, name := range items {
			inputs[i] = FoodItemInput{Name: name}
		}
		_, err := consumptions.Log(ctx, user.ID, LogConsumptionInput{
			Date:     day.Format("2006-01-02"),
			MealTime: models.MealLunch,
			Items:    inputs,
		})
		require.NoError(t, err)
	}
	logDay(end.AddDate(0, 0, -2), []string{"Kale"})
	logDay(end.AddDate(0, 0, -1), []string{"Kale", "Garlic"})
	logDay(end, []string{"Kale", "Garlic", "Blueberries", "Tomatoes"})

	overview, err := trends.Weekly(ctx, user.ID, end)
	require.NoError(t, err)

	assert.Equal(t, "2026-04-04", overview.Start)
	assert.Equal(t, "2026-04-10", overview.End)
	require.Len(t, overview.Points, 7)

	assert.Equal(t, 3, overview.DaysActive)
	assert.Equal(t, "2026-04-10", overview.BestDay)
	assert.Equal(t, TrendImproving, overview.Trend)
	assert.Greater(t, overview.AverageOverall, 0.0)

	// Empty leading days score zero; chronological order.
	assert.Equal(t, "2026-04-04", overview.Points[0].Date)
	assert.Zero(t, overview.Points[0].Overall)
	assert.Greater(t, overview.Points[6].Overall, overview.Points[4].Overall)

	require.Contains(t, overview.SystemAverages, utils.SystemMicrobiome)
	assert.Greater(t, overview.SystemAverages[utils.SystemMicrobiome], 0.0)
}

func TestClassifyTrend(t *testing.T) {
	mk := func(vals ...int) []TrendPoint {
		pts := make([]TrendPoint, len(vals))
		for i, v := range vals {
			pts[i] = TrendPoint{Overall: v}
		}
		return pts
	}

	assert.Equal(t, TrendImproving, classifyTrend(mk(10, 10, 10, 0, 40, 40, 40)))
	assert.Equal(t, TrendDeclining, classifyTrend(mk(50, 50, 50, 0, 10, 10, 10)))
	assert.Equal(t, TrendStable, classifyTrend(mk(30, 30, 30, 0, 32, 31, 30)))
	assert.Equal(t, TrendStable, classifyTrend(mk(10, 90)))
}
