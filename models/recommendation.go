package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Recommendation types.
const (
	RecMissedMeal     = "MISSED_MEAL"
	RecFoodSuggestion = "FOOD_SUGGESTION"
	RecMealPlan       = "MEAL_PLAN"
)

// Lifecycle states. PENDING -> ACTED_ON -> COMPLETED; PENDING may also
// terminate as EXPIRED.
const (
	RecStatusPending   = "PENDING"
	RecStatusActedOn   = "ACTED_ON"
	RecStatusCompleted = "COMPLETED"
	RecStatusExpired   = "EXPIRED"
)

const (
	PriorityCritical = "CRITICAL"
	PriorityHigh     = "HIGH"
	PriorityMedium   = "MEDIUM"
	PriorityLow      = "LOW"
)

type Recommendation struct {
	ID     string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uint   `gorm:"index;not null" json:"user_id"`

	Type     string `gorm:"size:32;not null" json:"type"`
	Status   string `gorm:"size:16;not null;default:PENDING;index" json:"status"`
	Priority string `gorm:"size:16;not null" json:"priority"`

	Title       string `json:"title"`
	Description string `gorm:"type:text" json:"description"`

	TargetSystem   string `gorm:"size:32" json:"target_system,omitempty"`
	TargetMealTime string `gorm:"size:24" json:"target_meal_time,omitempty"`

	// Serialized ActionPayload, validated at construction.
	ActionData datatypes.JSON `json:"action_data,omitempty"`

	ExpiresAt   time.Time  `gorm:"index" json:"expires_at"`
	ActedAt     *time.Time `json:"acted_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	LinkedRecipeID      *uint `json:"linked_recipe_id,omitempty"`
	LinkedConsumptionID *uint `json:"linked_consumption_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Recommendation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func (r *Recommendation) Active() bool {
	return (r.Status == RecStatusPending || r.Status == RecStatusActedOn) &&
		time.Now().Before(r.ExpiresAt)
}

// ActionPayload is the tagged union stored in ActionData. Exactly one
// variant is set, and it must match the recommendation type.
type ActionPayload struct {
	MissedMeal     *MissedMealAction     `json:"missed_meal,omitempty"`
	FoodSuggestion *FoodSuggestionAction `json:"food_suggestion,omitempty"`
	MealPlan       *MealPlanAction       `json:"meal_plan,omitempty"`
}

type MissedMealAction struct {
	MealTime string `json:"meal_time"`
}

type FoodSuggestionAction struct {
	System         string   `json:"system"`
	SuggestedFoods []string `json:"suggested_foods"`
}

type MealPlanAction struct {
	Systems      []string `json:"systems"`
	DurationDays int      `json:"duration_days"`
}

// EncodeAction validates the payload against the recommendation type and
// serializes it for the ActionData column.
func EncodeAction(recType string, p ActionPayload) (datatypes.JSON, error) {
	switch recType {
	case RecMissedMeal:
		if p.MissedMeal == nil || !ValidMealTime(p.MissedMeal.MealTime) {
			return nil, fmt.Errorf("missed-meal action requires a valid meal time")
		}
		if p.FoodSuggestion != nil || p.MealPlan != nil {
			return nil, fmt.Errorf("missed-meal action must carry only meal fields")
		}
	case RecFoodSuggestion:
		if p.FoodSuggestion == nil || p.FoodSuggestion.System == "" {
			return nil, fmt.Errorf("food-suggestion action requires a target system")
		}
		if p.MissedMeal != nil || p.MealPlan != nil {
			return nil, fmt.Errorf("food-suggestion action must carry only system fields")
		}
	case RecMealPlan:
		if p.MealPlan == nil || len(p.MealPlan.Systems) == 0 || p.MealPlan.DurationDays <= 0 {
			return nil, fmt.Errorf("meal-plan action requires systems and a duration")
		}
		if p.MissedMeal != nil || p.FoodSuggestion != nil {
			return nil, fmt.Errorf("meal-plan action must carry only plan fields")
		}
	default:
		return nil, fmt.Errorf("unknown recommendation type %q", recType)
	}

	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// DecodeAction parses a stored ActionData column.
func DecodeAction(raw datatypes.JSON) (ActionPayload, error) {
	var p ActionPayload
	if len(raw) == 0 {
		return p, nil
	}
	err := json.Unmarshal(raw, &p)
	return p, err
}
