package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Zalotleh/wellness-hub-sub005/models"
	"github.com/Zalotleh/wellness-hub-sub005/utils"

	"gorm.io/gorm"
)

type ConsumptionService struct {
	db     *gorm.DB
	scores *ScoreService
	recs   *RecommendationService
}

func NewConsumptionService(db *gorm.DB, scores *ScoreService, recs *RecommendationService) *ConsumptionService {
	return &ConsumptionService{db: db, scores: scores, recs: recs}
}

type FoodItemInput struct {
	Name     string  `json:"name" binding:"required"`
	Servings float64 `json:"servings"`
	Portion  string  `json:"portion"`
	// Custom defense-system tags, used when the catalog has no match.
	Systems []string `json:"systems"`
}

type LogConsumptionInput struct {
	Date     string          `json:"date"` // YYYY-MM-DD, defaults to the user's today
	MealTime string          `json:"meal_time" binding:"required"`
	Notes    string          `json:"notes"`
	RecipeID *uint           `json:"recipe_id"`
	Items    []FoodItemInput `json:"items" binding:"required"`
}

// Log records a meal. The date is normalized to noon UTC of the user's
// local calendar date, foods are matched against the defense-system
// catalog, the day's score cache is invalidated, and a matching missed-meal
// recommendation (if any) is completed with this consumption as its
// artifact.
func (s *ConsumptionService) Log(ctx context.Context, userID uint, input LogConsumptionInput) (*models.FoodConsumption, error) {
	if !models.ValidMealTime(input.MealTime) {
		return nil, fmt.Errorf("%w: unknown meal time %q", ErrValidation, input.MealTime)
	}
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one food item is required", ErrValidation)
	}
	for _, item := range input.Items {
		if utils.NormalizeFoodName(item.Name) == "" {
			return nil, fmt.Errorf("%w: food name must not be empty", ErrValidation)
		}
		for _, sys := range item.Systems {
			if !utils.ValidSystem(sys) {
				return nil, fmt.Errorf("%w: unknown defense system %q", ErrValidation, sys)
			}
		}
	}

	day, err := s.resolveDay(ctx, userID, input.Date)
	if err != nil {
		return nil, err
	}

	consumption := models.FoodConsumption{
		UserID:   userID,
		Date:     day,
		MealTime: input.MealTime,
		RecipeID: input.RecipeID,
		Notes:    input.Notes,
	}
	for _, item := range input.Items {
		servings := item.Servings
		if servings <= 0 {
			servings = 1
		}
		unit := item.Portion
		if unit == "" {
			unit = "serving"
		}

		fi := models.FoodItem{
			Name:     item.Name,
			Quantity: servings,
			Unit:     unit,
		}
		matched := utils.MatchFood(item.Name)
		if len(matched) > 0 {
			for _, sys := range matched {
				fi.Benefits = append(fi.Benefits, models.FoodBenefit{System: sys, Strength: "HIGH"})
			}
		} else {
			for _, sys := range item.Systems {
				fi.Benefits = append(fi.Benefits, models.FoodBenefit{System: sys, Strength: "MEDIUM"})
			}
		}
		consumption.Items = append(consumption.Items, fi)
	}

	if err := s.db.WithContext(ctx).Create(&consumption).Error; err != nil {
		return nil, err
	}

	// Stale-score bugs come from skipping this step; it runs on every write.
	if err := s.scores.Invalidate(ctx, userID, day); err != nil {
		return nil, err
	}

	// Direct completion path: logging the meal is the artifact.
	if s.recs != nil {
		if err := s.recs.CompleteForMeal(ctx, userID, input.MealTime, day, consumption.ID); err != nil {
			log.Printf("complete recommendation after meal log: %v", err)
		}
	}

	var populated models.FoodConsumption
	if err := s.db.WithContext(ctx).
		Preload("Items.Benefits").
		First(&populated, consumption.ID).Error; err != nil {
		return nil, err
	}
	return &populated, nil
}

// ListByDate returns the user's consumptions for one calendar day, expanded
// with items and benefit tags. Pure read.
func (s *ConsumptionService) ListByDate(ctx context.Context, userID uint, date time.Time) ([]models.FoodConsumption, error) {
	start, end := utils.DayRangeUTC(date)
	var consumptions []models.FoodConsumption
	err := s.db.WithContext(ctx).
		Preload("Items.Benefits").
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Order("created_at ASC").
		Find(&consumptions).Error
	return consumptions, err
}

// Delete removes a consumption owned by the user and invalidates that
// day's score cache.
func (s *ConsumptionService) Delete(ctx context.Context, userID, id uint) error {
	var consumption models.FoodConsumption
	if err := s.db.WithContext(ctx).First(&consumption, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: consumption %d", ErrNotFound, id)
		}
		return err
	}
	if consumption.UserID != userID {
		return fmt.Errorf("%w: consumption %d", ErrForbidden, id)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var itemIDs []uint
		if err := tx.Model(&models.FoodItem{}).
			Where("food_consumption_id = ?", id).
			Pluck("id", &itemIDs).Error; err != nil {
			return err
		}
		if len(itemIDs) > 0 {
			if err := tx.Where("food_item_id IN ?", itemIDs).
				Delete(&models.FoodBenefit{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("food_consumption_id = ?", id).
			Delete(&models.FoodItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&consumption).Error
	})
	if err != nil {
		return err
	}

	return s.scores.Invalidate(ctx, userID, consumption.Date)
}

// resolveDay turns an optional YYYY-MM-DD parameter into the canonical noon
// UTC day value, defaulting to "today" in the user's timezone.
func (s *ConsumptionService) resolveDay(ctx context.Context, userID uint, dateStr string) (time.Time, error) {
	if dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: invalid date %q, use YYYY-MM-DD", ErrValidation, dateStr)
		}
		return utils.NormalizeToNoonUTC(parsed), nil
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return time.Time{}, err
	}
	return utils.LocalDateNoonUTC(time.Now(), utils.LoadLocation(user.Timezone)), nil
}
