package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Zalotleh/wellness-hub-sub005/models"
	"github.com/Zalotleh/wellness-hub-sub005/utils"

	"gorm.io/gorm"
)

type RecipeService struct {
	db           *gorm.DB
	consumptions *ConsumptionService
}

func NewRecipeService(db *gorm.DB, consumptions *ConsumptionService) *RecipeService {
	return &RecipeService{db: db, consumptions: consumptions}
}

type RecipeIngredientInput struct {
	Name     string  `json:"name" binding:"required"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

type RecipeInput struct {
	Title       string                  `json:"title" binding:"required"`
	Description string                  `json:"description"`
	MealTime    string                  `json:"meal_time"`
	ImageBase64 string                  `json:"image_base64"`
	Ingredients []RecipeIngredientInput `json:"ingredients" binding:"required"`
}

func (r *RecipeService) validate(input RecipeInput) error {
	if input.MealTime != "" && !models.ValidMealTime(input.MealTime) {
		return fmt.Errorf("%w: unknown meal time %q", ErrValidation, input.MealTime)
	}
	if len(input.Ingredients) == 0 {
		return fmt.Errorf("%w: a recipe needs at least one ingredient", ErrValidation)
	}
	for _, ing := range input.Ingredients {
		if utils.NormalizeFoodName(ing.Name) == "" {
			return fmt.Errorf("%w: ingredient name must not be empty", ErrValidation)
		}
	}
	return nil
}

func (r *RecipeService) Create(ctx context.Context, userID uint, input RecipeInput) (*models.Recipe, error) {
	if err := r.validate(input); err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		MealTime:    input.MealTime,
	}
	if input.ImageBase64 != "" {
		url, err := utils.UploadRecipeImage(input.ImageBase64, input.Title)
		if err != nil {
			return nil, fmt.Errorf("%w: image upload failed: %v", ErrValidation, err)
		}
		recipe.ImageURL = url
	}
	for _, ing := range input.Ingredients {
		recipe.Ingredients = append(recipe.Ingredients, models.RecipeIngredient{
			Name:     ing.Name,
			Quantity: ing.Quantity,
			Unit:     ing.Unit,
		})
	}

	if err := r.db.WithContext(ctx).Create(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *RecipeService) Get(ctx context.Context, userID, id uint) (*models.Recipe, error) {
	return r.load(ctx, userID, id)
}

func (r *RecipeService) List(ctx context.Context, userID uint, mealTime string) ([]models.Recipe, error) {
	q := r.db.WithContext(ctx).Preload("Ingredients").Where("user_id = ?", userID)
	if mealTime != "" {
		if !models.ValidMealTime(mealTime) {
			return nil, fmt.Errorf("%w: unknown meal time %q", ErrValidation, mealTime)
		}
		q = q.Where("meal_time = ?", mealTime)
	}
	var recipes []models.Recipe
	err := q.Order("created_at DESC").Find(&recipes).Error
	return recipes, err
}

func (r *RecipeService) Update(ctx context.Context, userID, id uint, input RecipeInput) (*models.Recipe, error) {
	if err := r.validate(input); err != nil {
		return nil, err
	}
	recipe, err := r.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	recipe.Title = input.Title
	recipe.Description = input.Description
	recipe.MealTime = input.MealTime
	if input.ImageBase64 != "" {
		url, err := utils.UploadRecipeImage(input.ImageBase64, input.Title)
		if err != nil {
			return nil, fmt.Errorf("%w: image upload failed: %v", ErrValidation, err)
		}
		recipe.ImageURL = url
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		recipe.Ingredients = nil
		for _, ing := range input.Ingredients {
			recipe.Ingredients = append(recipe.Ingredients, models.RecipeIngredient{
				RecipeID: recipe.ID,
				Name:     ing.Name,
				Quantity: ing.Quantity,
				Unit:     ing.Unit,
			})
		}
		return tx.Save(recipe).Error
	})
	if err != nil {
		return nil, err
	}
	return recipe, nil
}

func (r *RecipeService) Delete(ctx context.Context, userID, id uint) error {
	recipe, err := r.load(ctx, userID, id)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		return tx.Delete(recipe).Error
	})
}

type LogRecipeInput struct {
	Date     string `json:"date"`
	MealTime string `json:"meal_time"`
	Notes    string `json:"notes"`
}

// LogMeal records a consumption built from the recipe's ingredients. The
// meal slot defaults to the recipe's suggested one.
func (r *RecipeService) LogMeal(ctx context.Context, userID, id uint, input LogRecipeInput) (*models.FoodConsumption, error) {
	recipe, err := r.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	mealTime := input.MealTime
	if mealTime == "" {
		mealTime = recipe.MealTime
	}
	if mealTime == "" {
		return nil, fmt.Errorf("%w: meal time is required to log this recipe", ErrValidation)
	}

	items := make([]FoodItemInput, 0, len(recipe.Ingredients))
	for _, ing := range recipe.Ingredients {
		items = append(items, FoodItemInput{
			Name:     ing.Name,
			Servings: ing.Quantity,
			Portion:  ing.Unit,
		})
	}

	recipeID := recipe.ID
	return r.consumptions.Log(ctx, userID, LogConsumptionInput{
		Date:     input.Date,
		MealTime: mealTime,
		Notes:    input.Notes,
		RecipeID: &recipeID,
		Items:    items,
	})
}

func (r *RecipeService) load(ctx context.Context, userID, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := r.db.WithContext(ctx).Preload("Ingredients").First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: recipe %d", ErrNotFound, id)
		}
		return nil, err
	}
	if recipe.UserID != userID {
		return nil, fmt.Errorf("%w: recipe %d", ErrForbidden, id)
	}
	return &recipe, nil
}
