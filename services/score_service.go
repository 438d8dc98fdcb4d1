package services

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/Zalotleh/wellness-hub-sub005/models"
	"github.com/Zalotleh/wellness-hub-sub005/utils"

	"gorm.io/gorm"
)

type ScoreService struct{ db *gorm.DB }

func NewScoreService(db *gorm.DB) *ScoreService { return &ScoreService{db: db} }

// ScoreBreakdown is the in-memory aggregation of one user-day, computed
// from the day's consumptions. The cache row is a flattened snapshot of it.
type ScoreBreakdown struct {
	Date time.Time

	SystemFoods map[string][]string // system -> distinct foods (normalized)
	SlotLogged  map[string]bool     // meal slot -> has at least one consumption

	UniqueFoods   int
	RepeatedFoods []string

	SystemScore   float64
	MealTimeScore float64
	VarietyScore  float64
	Overall       int

	SystemsCovered  int
	SystemsComplete int
	MealsLogged     int
}

func (b *ScoreBreakdown) SystemCount(system string) int {
	return len(b.SystemFoods[system])
}

// MainMealsLogged reports whether all of breakfast, lunch and dinner have
// at least one consumption.
func (b *ScoreBreakdown) MainMealsLogged() bool {
	for _, m := range models.MainMeals {
		if !b.SlotLogged[m] {
			return false
		}
	}
	return true
}

// Breakdown aggregates the day's consumptions and scores them. Pure read;
// does not touch the cache.
func (s *ScoreService) Breakdown(ctx context.Context, userID uint, date time.Time) (*ScoreBreakdown, error) {
	consumptions, err := s.dayConsumptions(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	bd := ComputeBreakdown(consumptions)
	bd.Date = utils.NormalizeToNoonUTC(date)
	return bd, nil
}

// Get returns the cached score for (user, date), recomputing and upserting
// when the cache is missing or older than the day's latest consumption
// write. The second return reports whether a recompute happened.
func (s *ScoreService) Get(ctx context.Context, userID uint, date time.Time) (*models.DailyProgressScore, bool, error) {
	day := utils.NormalizeToNoonUTC(date)
	start, end := utils.DayRangeUTC(day)

	var cached models.DailyProgressScore
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, day).
		First(&cached).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	if err == nil {
		var lastWrite sql.NullTime
		if err := s.db.WithContext(ctx).
			Model(&models.FoodConsumption{}).
			Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
			Select("MAX(updated_at)").
			Scan(&lastWrite).Error; err != nil {
			return nil, false, err
		}
		if !lastWrite.Valid || cached.ComputedAt.After(lastWrite.Time) {
			return &cached, false, nil
		}
	}

	row, err := s.Recompute(ctx, userID, day)
	if err != nil {
		return nil, false, err
	}
	return row, true, nil
}

// Recompute rebuilds the cache row for (user, date) from source data and
// upserts it. Last-writer-wins: the row is fully derivable, so concurrent
// recomputes converge.
func (s *ScoreService) Recompute(ctx context.Context, userID uint, date time.Time) (*models.DailyProgressScore, error) {
	day := utils.NormalizeToNoonUTC(date)

	bd, err := s.Breakdown(ctx, userID, day)
	if err != nil {
		return nil, err
	}

	row := models.DailyProgressScore{
		UserID: userID,
		Date:   day,

		OverallScore:  bd.Overall,
		SystemScore:   bd.SystemScore,
		MealTimeScore: bd.MealTimeScore,
		VarietyScore:  bd.VarietyScore,

		SystemsCovered:  bd.SystemsCovered,
		SystemsComplete: bd.SystemsComplete,
		TotalFoods:      bd.UniqueFoods,
		MealsLogged:     bd.MealsLogged,

		AngiogenesisCount:  bd.SystemCount(utils.SystemAngiogenesis),
		RegenerationCount:  bd.SystemCount(utils.SystemRegeneration),
		MicrobiomeCount:    bd.SystemCount(utils.SystemMicrobiome),
		DNAProtectionCount: bd.SystemCount(utils.SystemDNAProtection),
		ImmunityCount:      bd.SystemCount(utils.SystemImmunity),

		ComputedAt: time.Now().UTC(),
	}

	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, day).
		Assign(row).
		FirstOrCreate(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Invalidate drops the cache row for (user, date). Absence is fine; the
// next read recomputes.
func (s *ScoreService) Invalidate(ctx context.Context, userID uint, date time.Time) error {
	day := utils.NormalizeToNoonUTC(date)
	// Hard delete: a soft-deleted row would still hold the (user, date)
	// unique index slot and block the next upsert.
	return s.db.WithContext(ctx).
		Unscoped().
		Where("user_id = ? AND date = ?", userID, day).
		Delete(&models.DailyProgressScore{}).Error
}

// History returns all cached score rows for a user, newest first.
func (s *ScoreService) History(ctx context.Context, userID uint) ([]models.DailyProgressScore, error) {
	var rows []models.DailyProgressScore
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date desc").
		Find(&rows).Error
	return rows, err
}

func (s *ScoreService) dayConsumptions(ctx context.Context, userID uint, date time.Time) ([]models.FoodConsumption, error) {
	start, end := utils.DayRangeUTC(date)
	var consumptions []models.FoodConsumption
	err := s.db.WithContext(ctx).
		Preload("Items.Benefits").
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Order("created_at ASC").
		Find(&consumptions).Error
	return consumptions, err
}

// ComputeBreakdown scores a day's consumptions.
//
// Weights: defense systems 50%, meal-time coverage 30%, variety 20%.
// Per-system ladder rewards approaching the 5-foods-per-system daily goal.
func ComputeBreakdown(consumptions []models.FoodConsumption) *ScoreBreakdown {
	systemFoods := make(map[string]map[string]struct{})
	slotLogged := make(map[string]bool)
	occurrences := make(map[string]int)

	for _, c := range consumptions {
		slotLogged[c.MealTime] = true
		for _, item := range c.Items {
			key := utils.NormalizeFoodName(item.Name)
			if key == "" {
				continue
			}
			occurrences[key]++
			for _, b := range item.Benefits {
				if systemFoods[b.System] == nil {
					systemFoods[b.System] = make(map[string]struct{})
				}
				systemFoods[b.System][key] = struct{}{}
			}
		}
	}

	bd := &ScoreBreakdown{
		SystemFoods: make(map[string][]string, len(utils.AllSystems)),
		SlotLogged:  slotLogged,
		UniqueFoods: len(occurrences),
		MealsLogged: len(slotLogged),
	}

	for food, n := range occurrences {
		if n > 1 {
			bd.RepeatedFoods = append(bd.RepeatedFoods, food)
		}
	}

	var ladderSum float64
	for _, system := range utils.AllSystems {
		foods := make([]string, 0, len(systemFoods[system]))
		for f := range systemFoods[system] {
			foods = append(foods, f)
		}
		bd.SystemFoods[system] = foods

		n := len(foods)
		ladderSum += systemLadder(n)
		if n >= 1 {
			bd.SystemsCovered++
		}
		if n >= systemDailyGoal {
			bd.SystemsComplete++
		}
	}

	bd.SystemScore = ladderSum / float64(len(utils.AllSystems))
	bd.MealTimeScore = float64(bd.MealsLogged) / float64(len(models.MealTimeOrder)) * 100
	bd.VarietyScore = math.Min(float64(bd.UniqueFoods)/varietyGoal*100, 100)

	bd.Overall = int(math.Round(
		bd.SystemScore*0.5 + bd.MealTimeScore*0.3 + bd.VarietyScore*0.2,
	))
	return bd
}

const (
	systemDailyGoal = 5  // distinct foods per system per day
	varietyGoal     = 25 // unique foods per day for full variety score
)

// Non-linear ladder so each additional food matters most early on.
func systemLadder(foods int) float64 {
	switch {
	case foods >= 5:
		return 100
	case foods == 4:
		return 85
	case foods == 3:
		return 70
	case foods == 2:
		return 50
	case foods == 1:
		return 30
	}
	return 0
}
