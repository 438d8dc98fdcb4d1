package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/Zalotleh/wellness-hub-sub005/models"
	"github.com/Zalotleh/wellness-hub-sub005/utils"

	"gorm.io/gorm"
)

const (
	AlertRecommendation = "recommendation"
	AlertInfo           = "info"
)

// AlertBus persists in-app alerts and fans them out over websocket, push
// and email. Every delivery channel is optional and best effort; only the
// database row is authoritative.
type AlertBus struct {
	db   *gorm.DB
	rt   *RealtimeHub
	push *PushService
}

func NewAlertBus(db *gorm.DB, rt *RealtimeHub, push *PushService) *AlertBus {
	return &AlertBus{db: db, rt: rt, push: push}
}

// RecommendationsCreated notifies the user that a generation run produced
// new recommendations.
func (b *AlertBus) RecommendationsCreated(userID uint, count int) {
	noun := "recommendation"
	if count != 1 {
		noun = "recommendations"
	}
	msg := fmt.Sprintf("You have %d new %s waiting.", count, noun)
	b.emit(userID, AlertRecommendation, "New Recommendations", msg)

	var user models.User
	if err := b.db.First(&user, userID).Error; err == nil {
		if err := utils.SendRecommendationEmail(user.Email, count); err != nil {
			log.Printf("alert: recommendation email to user %d failed: %v", userID, err)
		}
	}
}

// Info sends a plain informational alert.
func (b *AlertBus) Info(userID uint, message string) {
	b.emit(userID, AlertInfo, "Wellness Hub", message)
}

func (b *AlertBus) emit(userID uint, alertType, title, message string) {
	alert := models.Alert{UserID: userID, Type: alertType, Message: message}
	if err := b.db.Create(&alert).Error; err != nil {
		log.Printf("alert: persist for user %d failed: %v", userID, err)
		return
	}
	if b.rt != nil {
		b.rt.Broadcast(userID, "alert", alert)
	}
	if b.push != nil {
		b.push.PushToUser(userID, title, message, map[string]string{"type": alertType})
	}
}

// List returns the user's alerts, newest first.
func (b *AlertBus) List(ctx context.Context, userID uint, unreadOnly bool) ([]models.Alert, error) {
	q := b.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("read = ?", false)
	}
	var alerts []models.Alert
	err := q.Order("created_at DESC").Limit(100).Find(&alerts).Error
	return alerts, err
}

// MarkRead flags a single alert as read.
func (b *AlertBus) MarkRead(ctx context.Context, userID, id uint) error {
	var alert models.Alert
	if err := b.db.WithContext(ctx).First(&alert, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: alert %d", ErrNotFound, id)
		}
		return err
	}
	if alert.UserID != userID {
		return fmt.Errorf("%w: alert %d", ErrForbidden, id)
	}
	return b.db.WithContext(ctx).Model(&alert).Update("read", true).Error
}
