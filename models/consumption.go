package models

import (
	"time"

	"gorm.io/gorm"
)

// Meal-time slots, in chronological order of a day.
const (
	MealBreakfast      = "BREAKFAST"
	MealMorningSnack   = "MORNING_SNACK"
	MealLunch          = "LUNCH"
	MealAfternoonSnack = "AFTERNOON_SNACK"
	MealDinner         = "DINNER"
)

var MealTimeOrder = []string{
	MealBreakfast,
	MealMorningSnack,
	MealLunch,
	MealAfternoonSnack,
	MealDinner,
}

var MainMeals = []string{MealBreakfast, MealLunch, MealDinner}

func ValidMealTime(mt string) bool {
	for _, m := range MealTimeOrder {
		if m == mt {
			return true
		}
	}
	return false
}

// One logged eating event (breakfast/lunch/…) with its foods.
// Immutable once created except for deletion by the owning user.
type FoodConsumption struct {
	gorm.Model
	UserID uint `gorm:"index;not null"`

	// Day of the consumption, stored at noon UTC of the user's local date.
	Date     time.Time `gorm:"index;not null"`
	MealTime string    `gorm:"size:24;not null"`

	RecipeID *uint // set when logged from a recipe
	Notes    string

	Items []FoodItem `gorm:"foreignKey:FoodConsumptionID"`
}

// A named food occurrence within one consumption.
type FoodItem struct {
	gorm.Model
	FoodConsumptionID uint `gorm:"index;not null"`

	Name     string  `gorm:"not null"`
	Quantity float64 // e.g. 1.5
	Unit     string  // e.g. "serving", "cup"

	Benefits []FoodBenefit `gorm:"foreignKey:FoodItemID"`
}

// Defense-system tag on a food item.
type FoodBenefit struct {
	ID         uint   `gorm:"primaryKey"`
	FoodItemID uint   `gorm:"index;not null"`
	System     string `gorm:"size:32;not null"` // one of utils.AllSystems
	Strength   string `gorm:"size:16"`          // HIGH | MEDIUM | LOW
}
