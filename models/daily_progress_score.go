package models

import (
	"time"

	"gorm.io/gorm"
)

// DailyProgressScore caches the computed coverage for one user-day.
// At most one row per (user, date); fully derivable from the day's
// consumptions, so it is always safe to delete.
type DailyProgressScore struct {
	gorm.Model
	UserID uint      `gorm:"not null;uniqueIndex:idx_score_user_date"`
	Date   time.Time `gorm:"not null;uniqueIndex:idx_score_user_date"` // noon UTC

	OverallScore  int     // 0-100, weighted
	SystemScore   float64 // avg of the five per-system ladder scores
	MealTimeScore float64 // covered slots / 5 * 100
	VarietyScore  float64 // unique foods / 25 * 100, capped

	SystemsCovered  int // systems with >= 1 distinct food
	SystemsComplete int // systems at the 5-food daily goal
	TotalFoods      int // distinct food names across the day
	MealsLogged     int // distinct slots with >= 1 consumption

	AngiogenesisCount  int
	RegenerationCount  int
	MicrobiomeCount    int
	DNAProtectionCount int
	ImmunityCount      int

	// Compared against the day's latest consumption write to decide
	// whether the cache is fresh.
	ComputedAt time.Time
}
