package recipes

import (
	"fmt"
	"strings"
	"time"

	"github.com/drmweyers/evofithealthprotocol-sub002/internal/storage"
	"github.com/google/uuid"
)

// RecipeDTO is the catalog recipe representation returned to clients.
type RecipeDTO struct {
	ID               uuid.UUID            `json:"id"`
	Name             string               `json:"name"`
	Description      string               `json:"description"`
	CaloriesKcal     int                  `json:"caloriesKcal"`
	ProteinGrams     string               `json:"proteinGrams"`
	CarbsGrams       string               `json:"carbsGrams"`
	FatGrams         string               `json:"fatGrams"`
	PrepTimeMinutes  int                  `json:"prepTimeMinutes"`
	CookTimeMinutes  int                  `json:"cookTimeMinutes"`
	Servings         int                  `json:"servings"`
	MealTypes        []string             `json:"mealTypes"`
	DietaryTags      []string             `json:"dietaryTags"`
	Ingredients      []storage.Ingredient `json:"ingredientsJson"`
	InstructionsText string               `json:"instructionsText"`
	ImageURL         string               `json:"imageUrl,omitempty"`
	IsApproved       bool                 `json:"isApproved"`
	CreatedAt        time.Time            `json:"createdAt"`
	UpdatedAt        time.Time            `json:"updatedAt"`
}

// CreateRecipeRequest is the payload for adding a catalog recipe. New
// recipes start unapproved and stay out of generation until approved.
type CreateRecipeRequest struct {
	Name             string               `json:"name"`
	Description      string               `json:"description"`
	CaloriesKcal     int                  `json:"caloriesKcal"`
	ProteinGrams     string               `json:"proteinGrams"`
	CarbsGrams       string               `json:"carbsGrams"`
	FatGrams         string               `json:"fatGrams"`
	PrepTimeMinutes  int                  `json:"prepTimeMinutes"`
	CookTimeMinutes  int                  `json:"cookTimeMinutes"`
	Servings         int                  `json:"servings"`
	MealTypes        []string             `json:"mealTypes"`
	DietaryTags      []string             `json:"dietaryTags"`
	Ingredients      []storage.Ingredient `json:"ingredientsJson"`
	InstructionsText string               `json:"instructionsText"`
	ImageURL         string               `json:"imageUrl,omitempty"`
}

// Validate checks the request against catalog bounds.
func (r CreateRecipeRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if len(r.Name) > 200 {
		return fmt.Errorf("name must be at most 200 characters")
	}
	if r.CaloriesKcal < 0 || r.CaloriesKcal > 5000 {
		return fmt.Errorf("caloriesKcal must be between 0 and 5000")
	}
	if r.PrepTimeMinutes < 0 || r.PrepTimeMinutes > 480 {
		return fmt.Errorf("prepTimeMinutes must be between 0 and 480")
	}
	if r.CookTimeMinutes < 0 || r.CookTimeMinutes > 480 {
		return fmt.Errorf("cookTimeMinutes must be between 0 and 480")
	}
	if r.Servings < 0 || r.Servings > 20 {
		return fmt.Errorf("servings must be between 0 and 20")
	}
	return nil
}

// SearchRecipesResponse is the paged search result.
type SearchRecipesResponse struct {
	Recipes []RecipeDTO `json:"recipes"`
	Total   int         `json:"total"`
	Page    int         `json:"page"`
	Limit   int         `json:"limit"`
}

func toDTO(r storage.Recipe) RecipeDTO {
	return RecipeDTO{
		ID:               r.ID,
		Name:             r.Name,
		Description:      r.Description,
		CaloriesKcal:     r.CaloriesKcal,
		ProteinGrams:     r.ProteinGrams,
		CarbsGrams:       r.CarbsGrams,
		FatGrams:         r.FatGrams,
		PrepTimeMinutes:  r.PrepTimeMinutes,
		CookTimeMinutes:  r.CookTimeMinutes,
		Servings:         r.Servings,
		MealTypes:        r.MealTypes,
		DietaryTags:      r.DietaryTags,
		Ingredients:      r.Ingredients,
		InstructionsText: r.InstructionsText,
		ImageURL:         r.ImageURL,
		IsApproved:       r.IsApproved,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}
