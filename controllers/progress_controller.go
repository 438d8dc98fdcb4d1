package controllers

import (
	"net/http"

	"github.com/Zalotleh/wellness-hub-sub005/services"
	"github.com/Zalotleh/wellness-hub-sub005/utils"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	Svc *services.ScoreService
}

func NewProgressController(svc *services.ScoreService) *ProgressController {
	return &ProgressController{Svc: svc}
}

// GetScore serves the cached daily score, recomputing when stale.
func (h *ProgressController) GetScore(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	date, ok := dateQuery(c, "date")
	if !ok {
		return
	}

	score, recomputed, err := h.Svc.Get(c.Request.Context(), userID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"score": score, "recomputed": recomputed})
}

// GetBreakdown recomputes from raw consumptions and returns the per-system
// food lists behind the numbers.
func (h *ProgressController) GetBreakdown(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	date, ok := dateQuery(c, "date")
	if !ok {
		return
	}

	bd, err := h.Svc.Breakdown(c.Request.Context(), userID, date)
	if err != nil {
		respondError(c, err)
		return
	}

	systems := make([]gin.H, 0, len(utils.AllSystems))
	for _, system := range utils.AllSystems {
		systems = append(systems, gin.H{
			"system": system,
			"name":   utils.DisplayName(system),
			"count":  bd.SystemCount(system),
			"foods":  bd.SystemFoods[system],
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"date":             bd.Date.Format("2006-01-02"),
		"overall":          bd.Overall,
		"system_score":     bd.SystemScore,
		"meal_time_score":  bd.MealTimeScore,
		"variety_score":    bd.VarietyScore,
		"systems":          systems,
		"slots_logged":     bd.SlotLogged,
		"unique_foods":     bd.UniqueFoods,
		"repeated_foods":   bd.RepeatedFoods,
		"systems_covered":  bd.SystemsCovered,
		"systems_complete": bd.SystemsComplete,
		"meals_logged":     bd.MealsLogged,
	})
}

// Recompute forces a cache refresh for the given day.
func (h *ProgressController) Recompute(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	date, ok := dateQuery(c, "date")
	if !ok {
		return
	}

	score, err := h.Svc.Recompute(c.Request.Context(), userID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"score": score})
}

func (h *ProgressController) History(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	scores, err := h.Svc.History(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"scores": scores, "count": len(scores)})
}
