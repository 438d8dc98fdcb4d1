package models

import (
	"gorm.io/gorm"
)

// A user-authored recipe; the artifact that satisfies recipe-backed
// recommendations. Logging a recipe creates a FoodConsumption from its
// ingredients.
type Recipe struct {
	gorm.Model
	UserID uint `gorm:"index;not null"`

	Title       string `gorm:"not null"`
	Description string `gorm:"type:text"`
	MealTime    string `gorm:"size:24"` // suggested slot, optional
	ImageURL    string

	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID"`
}

type RecipeIngredient struct {
	ID       uint   `gorm:"primaryKey"`
	RecipeID uint   `gorm:"index;not null"`
	Name     string `gorm:"not null"`
	Quantity float64
	Unit     string
}
