package controllers

import (
	"net/http"
	"strconv"

	"github.com/Zalotleh/wellness-hub-sub005/services"

	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	Bus *services.AlertBus
}

func NewNotificationController(bus *services.AlertBus) *NotificationController {
	return &NotificationController{Bus: bus}
}

func (h *NotificationController) List(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	unreadOnly := c.DefaultQuery("unread", "false") == "true"
	alerts, err := h.Bus.List(c.Request.Context(), userID, unreadOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts, "count": len(alerts)})
}

func (h *NotificationController) MarkRead(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid alert id"})
		return
	}

	if err := h.Bus.MarkRead(c.Request.Context(), userID, uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "alert marked read"})
}
