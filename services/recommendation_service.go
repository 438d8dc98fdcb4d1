package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Zalotleh/wellness-hub-sub005/models"
	"github.com/Zalotleh/wellness-hub-sub005/utils"

	"gorm.io/gorm"
)

// MaxNewRecommendations caps how many PENDING rows one Generate call may
// create.
const MaxNewRecommendations = 3

const (
	missedMealTTL     = 12 * time.Hour
	foodSuggestionTTL = 3 * 24 * time.Hour
	mealPlanTTL       = 7 * 24 * time.Hour
)

// A meal slot only counts as "missed" once its cutoff hour (user-local) has
// passed.
var slotCutoffHour = map[string]int{
	models.MealBreakfast:      10,
	models.MealMorningSnack:   12,
	models.MealLunch:          14,
	models.MealAfternoonSnack: 17,
	models.MealDinner:         20,
}

type RecommendationService struct {
	db     *gorm.DB
	scores *ScoreService
	alerts *AlertBus
}

func NewRecommendationService(db *gorm.DB, scores *ScoreService, alerts *AlertBus) *RecommendationService {
	return &RecommendationService{db: db, scores: scores, alerts: alerts}
}

// Generate inspects the day's coverage and creates up to
// MaxNewRecommendations new PENDING recommendations, in fixed priority
// order:
//
//  1. missed main meals (breakfast, lunch, dinner), chronologically;
//  2. missed snacks, only once all three main meals are logged;
//  3. food suggestions for systems with zero coverage, only when no
//     main-meal gap remains;
//  4. a meal plan when two or more systems are weak.
//
// An active (PENDING or ACTED_ON, unexpired) recommendation with the same
// type and target suppresses re-creation.
func (g *RecommendationService) Generate(ctx context.Context, userID uint, date, now time.Time) ([]models.Recommendation, error) {
	day := utils.NormalizeToNoonUTC(date)

	bd, err := g.scores.Breakdown(ctx, userID, day)
	if err != nil {
		return nil, err
	}

	existing, err := g.activeRecommendations(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]bool, len(existing))
	for _, r := range existing {
		taken[dedupKey(r.Type, r.TargetMealTime+r.TargetSystem)] = true
	}

	expected, err := g.expectedSlots(ctx, userID, day, now)
	if err != nil {
		return nil, err
	}

	var created []models.Recommendation
	add := func(rec models.Recommendation) error {
		key := dedupKey(rec.Type, rec.TargetMealTime+rec.TargetSystem)
		if taken[key] {
			return nil
		}
		if err := g.db.WithContext(ctx).Create(&rec).Error; err != nil {
			return err
		}
		taken[key] = true
		created = append(created, rec)
		return nil
	}

	// 1. Missed main meals, in slot order.
	var missedMains []string
	for _, slot := range models.MainMeals {
		if expected[slot] && !bd.SlotLogged[slot] {
			missedMains = append(missedMains, slot)
		}
	}
	for _, slot := range missedMains {
		if len(created) >= MaxNewRecommendations {
			break
		}
		rec, err := g.missedMealRec(userID, slot, models.PriorityHigh, now)
		if err != nil {
			return nil, err
		}
		if err := add(rec); err != nil {
			return nil, err
		}
	}

	// 2. Snacks, gated on all main meals being logged.
	if bd.MainMealsLogged() {
		for _, slot := range []string{models.MealMorningSnack, models.MealAfternoonSnack} {
			if len(created) >= MaxNewRecommendations {
				break
			}
			if !expected[slot] || bd.SlotLogged[slot] {
				continue
			}
			rec, err := g.missedMealRec(userID, slot, models.PriorityMedium, now)
			if err != nil {
				return nil, err
			}
			if err := add(rec); err != nil {
				return nil, err
			}
		}
	}

	// 3. Variety suggestions, only once no main-meal gap remains.
	if len(missedMains) == 0 {
		for _, system := range utils.AllSystems {
			if len(created) >= MaxNewRecommendations {
				break
			}
			if bd.SystemCount(system) > 0 {
				continue
			}
			rec, err := g.foodSuggestionRec(userID, system, now)
			if err != nil {
				return nil, err
			}
			if err := add(rec); err != nil {
				return nil, err
			}
		}
	}

	// 4. Meal plan for multiple weak systems, also held back while a
	// main-meal gap is on the table.
	if len(missedMains) == 0 && len(created) < MaxNewRecommendations {
		var weak []string
		for _, system := range utils.AllSystems {
			if n := bd.SystemCount(system); n >= 1 && n < systemDailyGoal {
				weak = append(weak, system)
			}
		}
		if len(weak) >= 2 {
			rec, err := g.mealPlanRec(userID, weak, now)
			if err != nil {
				return nil, err
			}
			if err := add(rec); err != nil {
				return nil, err
			}
		}
	}

	if len(created) > 0 && g.alerts != nil {
		g.alerts.RecommendationsCreated(userID, len(created))
	}
	return created, nil
}

// ListActive returns the user's PENDING and ACTED_ON recommendations,
// highest priority first, lazily expiring stale PENDING rows.
func (g *RecommendationService) ListActive(ctx context.Context, userID uint) ([]models.Recommendation, error) {
	now := time.Now()
	if err := g.db.WithContext(ctx).
		Model(&models.Recommendation{}).
		Where("user_id = ? AND status = ? AND expires_at <= ?", userID, models.RecStatusPending, now).
		Update("status", models.RecStatusExpired).Error; err != nil {
		return nil, err
	}

	recs, err := g.activeRecommendations(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(recs, func(i, j int) bool {
		pi, pj := priorityRank(recs[i].Priority), priorityRank(recs[j].Priority)
		if pi != pj {
			return pi < pj
		}
		return recs[i].CreatedAt.Before(recs[j].CreatedAt)
	})
	return recs, nil
}

// MarkActedOn transitions PENDING -> ACTED_ON.
func (g *RecommendationService) MarkActedOn(ctx context.Context, userID uint, id string) (*models.Recommendation, error) {
	rec, err := g.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if rec.Status != models.RecStatusPending {
		return nil, fmt.Errorf("%w: cannot act on a %s recommendation", ErrInvalidState, rec.Status)
	}
	now := time.Now().UTC()
	rec.Status = models.RecStatusActedOn
	rec.ActedAt = &now
	if err := g.db.WithContext(ctx).Save(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

// ArtifactLink names the entity that satisfied a recommendation. Exactly
// one field should be set.
type ArtifactLink struct {
	RecipeID      *uint `json:"recipe_id"`
	ConsumptionID *uint `json:"consumption_id"`
}

func (a ArtifactLink) empty() bool { return a.RecipeID == nil && a.ConsumptionID == nil }

// MarkCompleted transitions PENDING or ACTED_ON -> COMPLETED. A completion
// without a linked artifact is the data-integrity bug the old repair
// tooling existed for, so it is rejected outright.
func (g *RecommendationService) MarkCompleted(ctx context.Context, userID uint, id string, link ArtifactLink) (*models.Recommendation, error) {
	if link.empty() {
		return nil, fmt.Errorf("%w: completion requires a linked recipe or meal log", ErrInvalidState)
	}

	rec, err := g.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if rec.Status != models.RecStatusPending && rec.Status != models.RecStatusActedOn {
		return nil, fmt.Errorf("%w: cannot complete a %s recommendation", ErrInvalidState, rec.Status)
	}

	now := time.Now().UTC()
	rec.Status = models.RecStatusCompleted
	rec.CompletedAt = &now
	rec.LinkedRecipeID = link.RecipeID
	rec.LinkedConsumptionID = link.ConsumptionID
	if err := g.db.WithContext(ctx).Save(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

// Reset forces a recommendation back to PENDING and clears timestamps and
// artifact links. Administrative escape hatch for erroneous transitions.
func (g *RecommendationService) Reset(ctx context.Context, userID uint, id string) (*models.Recommendation, error) {
	rec, err := g.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	rec.Status = models.RecStatusPending
	rec.ActedAt = nil
	rec.CompletedAt = nil
	rec.LinkedRecipeID = nil
	rec.LinkedConsumptionID = nil
	err = g.db.WithContext(ctx).
		Model(&models.Recommendation{}).
		Where("id = ?", rec.ID).
		Select("Status", "ActedAt", "CompletedAt", "LinkedRecipeID", "LinkedConsumptionID").
		Updates(rec).Error
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// CompleteForMeal closes an active missed-meal recommendation for the slot
// the user just logged, linking the new consumption as its artifact. No-op
// when there is nothing to close.
func (g *RecommendationService) CompleteForMeal(ctx context.Context, userID uint, mealTime string, day time.Time, consumptionID uint) error {
	var rec models.Recommendation
	err := g.db.WithContext(ctx).
		Where("user_id = ? AND type = ? AND target_meal_time = ? AND status IN ? AND expires_at > ?",
			userID, models.RecMissedMeal, mealTime,
			[]string{models.RecStatusPending, models.RecStatusActedOn}, time.Now()).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	_, err = g.MarkCompleted(ctx, userID, rec.ID, ArtifactLink{ConsumptionID: &consumptionID})
	return err
}

// --- builders ---

func (g *RecommendationService) missedMealRec(userID uint, slot, priority string, now time.Time) (models.Recommendation, error) {
	action, err := models.EncodeAction(models.RecMissedMeal, models.ActionPayload{
		MissedMeal: &models.MissedMealAction{MealTime: slot},
	})
	if err != nil {
		return models.Recommendation{}, err
	}

	label := mealLabel(slot)
	return models.Recommendation{
		UserID:         userID,
		Type:           models.RecMissedMeal,
		Status:         models.RecStatusPending,
		Priority:       priority,
		Title:          fmt.Sprintf("Plan Your %s", label),
		Description:    fmt.Sprintf("%s isn't logged yet. Create a healthy %s and log it!", label, strings.ToLower(label)),
		TargetMealTime: slot,
		ActionData:     action,
		ExpiresAt:      now.Add(missedMealTTL),
	}, nil
}

func (g *RecommendationService) foodSuggestionRec(userID uint, system string, now time.Time) (models.Recommendation, error) {
	suggested := utils.SuggestFoods(system, 3)
	action, err := models.EncodeAction(models.RecFoodSuggestion, models.ActionPayload{
		FoodSuggestion: &models.FoodSuggestionAction{System: system, SuggestedFoods: suggested},
	})
	if err != nil {
		return models.Recommendation{}, err
	}

	name := utils.DisplayName(system)
	return models.Recommendation{
		UserID:       userID,
		Type:         models.RecFoodSuggestion,
		Status:       models.RecStatusPending,
		Priority:     models.PriorityMedium,
		Title:        fmt.Sprintf("Start Your %s Journey", name),
		Description:  fmt.Sprintf("You haven't logged any %s foods today. Try %s.", strings.ToLower(name), strings.Join(suggested, ", ")),
		TargetSystem: system,
		ActionData:   action,
		ExpiresAt:    now.Add(foodSuggestionTTL),
	}, nil
}

func (g *RecommendationService) mealPlanRec(userID uint, weak []string, now time.Time) (models.Recommendation, error) {
	if len(weak) > 3 {
		weak = weak[:3]
	}
	action, err := models.EncodeAction(models.RecMealPlan, models.ActionPayload{
		MealPlan: &models.MealPlanAction{Systems: weak, DurationDays: 7},
	})
	if err != nil {
		return models.Recommendation{}, err
	}

	names := make([]string, len(weak))
	for i, s := range weak {
		names[i] = utils.DisplayName(s)
	}
	return models.Recommendation{
		UserID:      userID,
		Type:        models.RecMealPlan,
		Status:      models.RecStatusPending,
		Priority:    models.PriorityLow,
		Title:       "Create a Meal Plan",
		Description: fmt.Sprintf("Boost multiple defense systems (%s) with a weekly meal plan.", strings.Join(names, ", ")),
		ActionData:  action,
		ExpiresAt:   now.Add(mealPlanTTL),
	}, nil
}

// --- internals ---

func (g *RecommendationService) load(ctx context.Context, userID uint, id string) (*models.Recommendation, error) {
	var rec models.Recommendation
	if err := g.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: recommendation %s", ErrNotFound, id)
		}
		return nil, err
	}
	if rec.UserID != userID {
		return nil, fmt.Errorf("%w: recommendation %s", ErrForbidden, id)
	}
	return &rec, nil
}

func (g *RecommendationService) activeRecommendations(ctx context.Context, userID uint, now time.Time) ([]models.Recommendation, error) {
	var recs []models.Recommendation
	err := g.db.WithContext(ctx).
		Where("user_id = ? AND status IN ? AND expires_at > ?",
			userID, []string{models.RecStatusPending, models.RecStatusActedOn}, now).
		Order("created_at DESC").
		Find(&recs).Error
	return recs, err
}

// expectedSlots reports which meal slots should already have been logged by
// now. For past days every slot is expected; for future days none are.
func (g *RecommendationService) expectedSlots(ctx context.Context, userID uint, day, now time.Time) (map[string]bool, error) {
	var user models.User
	if err := g.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, err
	}
	loc := utils.LoadLocation(user.Timezone)

	expected := make(map[string]bool, len(models.MealTimeOrder))
	today := utils.LocalDateNoonUTC(now, loc)
	switch {
	case day.Before(today):
		for _, slot := range models.MealTimeOrder {
			expected[slot] = true
		}
	case day.After(today):
		// nothing expected yet
	default:
		hour := now.In(loc).Hour()
		for _, slot := range models.MealTimeOrder {
			expected[slot] = hour >= slotCutoffHour[slot]
		}
	}
	return expected, nil
}

func dedupKey(recType, target string) string { return recType + "|" + target }

func priorityRank(p string) int {
	switch p {
	case models.PriorityCritical:
		return 0
	case models.PriorityHigh:
		return 1
	case models.PriorityMedium:
		return 2
	case models.PriorityLow:
		return 3
	}
	return 4
}

func mealLabel(slot string) string {
	switch slot {
	case models.MealBreakfast:
		return "Breakfast"
	case models.MealMorningSnack:
		return "Morning Snack"
	case models.MealLunch:
		return "Lunch"
	case models.MealAfternoonSnack:
		return "Afternoon Snack"
	case models.MealDinner:
		return "Dinner"
	}
	return slot
}
