package controllers

import (
	"net/http"
	"strconv"

	"github.com/Zalotleh/wellness-hub-sub005/services"

	"github.com/gin-gonic/gin"
)

type ConsumptionController struct {
	Svc *services.ConsumptionService
}

func NewConsumptionController(svc *services.ConsumptionService) *ConsumptionController {
	return &ConsumptionController{Svc: svc}
}

func (h *ConsumptionController) Log(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var input services.LogConsumptionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	consumption, err := h.Svc.Log(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, consumption)
}

func (h *ConsumptionController) ListByDate(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	date, ok := dateQuery(c, "date")
	if !ok {
		return
	}

	consumptions, err := h.Svc.ListByDate(c.Request.Context(), userID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"consumptions": consumptions, "count": len(consumptions)})
}

func (h *ConsumptionController) Delete(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid consumption id"})
		return
	}

	if err := h.Svc.Delete(c.Request.Context(), userID, uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "consumption deleted"})
}
