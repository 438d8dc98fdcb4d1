package controllers

import (
	"net/http"

	"github.com/Zalotleh/wellness-hub-sub005/services"

	"github.com/gin-gonic/gin"
)

type TrendController struct {
	Svc *services.TrendService
}

func NewTrendController(svc *services.TrendService) *TrendController {
	return &TrendController{Svc: svc}
}

// GetWeekly serves the seven-day overview ending at ?end= (default today).
func (h *TrendController) GetWeekly(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	end, ok := dateQuery(c, "end")
	if !ok {
		return
	}

	overview, err := h.Svc.Weekly(c.Request.Context(), userID, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}
