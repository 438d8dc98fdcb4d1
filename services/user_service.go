package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Zalotleh/wellness-hub-sub005/models"

	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (u *UserService) Profile(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := u.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return nil, err
	}
	return &user, nil
}

type UpdateProfileInput struct {
	FullName *string `json:"full_name"`
	Timezone *string `json:"timezone"`
}

// UpdateProfile applies partial updates. Timezone changes shift which UTC
// window counts as "today" for future logs; existing rows keep their dates.
func (u *UserService) UpdateProfile(ctx context.Context, userID uint, input UpdateProfileInput) (*models.User, error) {
	user, err := u.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.FullName != nil {
		updates["full_name"] = *input.FullName
	}
	if input.Timezone != nil {
		if _, err := time.LoadLocation(*input.Timezone); err != nil {
			return nil, fmt.Errorf("%w: unknown timezone %q", ErrValidation, *input.Timezone)
		}
		updates["timezone"] = *input.Timezone
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := u.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, err
	}
	return user, nil
}
