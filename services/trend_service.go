package services

import (
	"context"
	"math"
	"time"

	"github.com/Zalotleh/wellness-hub-sub005/models"
	"github.com/Zalotleh/wellness-hub-sub005/utils"

	"gorm.io/gorm"
)

const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"
)

type TrendService struct {
	db     *gorm.DB
	scores *ScoreService
}

func NewTrendService(db *gorm.DB, scores *ScoreService) *TrendService {
	return &TrendService{db: db, scores: scores}
}

type TrendPoint struct {
	Date          string  `json:"date"` // YYYY-MM-DD
	Overall       int     `json:"overall"`
	SystemScore   float64 `json:"system_score"`
	MealTimeScore float64 `json:"meal_time_score"`
	VarietyScore  float64 `json:"variety_score"`
	MealsLogged   int     `json:"meals_logged"`
	TotalFoods    int     `json:"total_foods"`
}

type WeeklyOverview struct {
	Start  string       `json:"start"`
	End    string       `json:"end"`
	Points []TrendPoint `json:"points"`

	AverageOverall float64            `json:"average_overall"`
	BestDay        string             `json:"best_day"`
	DaysActive     int                `json:"days_active"`
	Trend          string             `json:"trend"`
	SystemAverages map[string]float64 `json:"system_averages"`
}

// Weekly summarizes the seven days ending at the given date. Each day's
// score goes through the cache, so stale or missing rows are recomputed on
// the way.
func (t *TrendService) Weekly(ctx context.Context, userID uint, end time.Time) (*WeeklyOverview, error) {
	endDay := utils.NormalizeToNoonUTC(end)

	overview := &WeeklyOverview{
		Start:          endDay.AddDate(0, 0, -6).Format("2006-01-02"),
		End:            endDay.Format("2006-01-02"),
		SystemAverages: make(map[string]float64, len(utils.AllSystems)),
	}

	systemTotals := make(map[string]int, len(utils.AllSystems))
	sum, best := 0, -1
	for i := 6; i >= 0; i-- {
		day := endDay.AddDate(0, 0, -i)
		row, _, err := t.scores.Get(ctx, userID, day)
		if err != nil {
			return nil, err
		}

		point := TrendPoint{
			Date:          day.Format("2006-01-02"),
			Overall:       row.OverallScore,
			SystemScore:   row.SystemScore,
			MealTimeScore: row.MealTimeScore,
			VarietyScore:  row.VarietyScore,
			MealsLogged:   row.MealsLogged,
			TotalFoods:    row.TotalFoods,
		}
		overview.Points = append(overview.Points, point)

		sum += row.OverallScore
		if row.MealsLogged > 0 {
			overview.DaysActive++
		}
		if row.OverallScore > best {
			best = row.OverallScore
			overview.BestDay = point.Date
		}
		for system, n := range systemCounts(row) {
			systemTotals[system] += n
		}
	}

	overview.AverageOverall = round1(float64(sum) / 7)
	for system, total := range systemTotals {
		overview.SystemAverages[system] = round1(float64(total) / 7)
	}
	overview.Trend = classifyTrend(overview.Points)
	return overview, nil
}

// classifyTrend compares the mean of the last three days against the first
// three; a gap under five points counts as stable.
func classifyTrend(points []TrendPoint) string {
	if len(points) < 6 {
		return TrendStable
	}
	early := float64(points[0].Overall+points[1].Overall+points[2].Overall) / 3
	late := float64(points[len(points)-3].Overall+points[len(points)-2].Overall+points[len(points)-1].Overall) / 3
	switch {
	case late-early >= 5:
		return TrendImproving
	case early-late >= 5:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func systemCounts(row *models.DailyProgressScore) map[string]int {
	return map[string]int{
		utils.SystemAngiogenesis:  row.AngiogenesisCount,
		utils.SystemRegeneration:  row.RegenerationCount,
		utils.SystemMicrobiome:    row.MicrobiomeCount,
		utils.SystemDNAProtection: row.DNAProtectionCount,
		utils.SystemImmunity:      row.ImmunityCount,
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
