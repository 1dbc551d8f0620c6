package recipes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/drmweyers/evofithealthprotocol-sub002/internal/storage"
	"github.com/google/uuid"
)

var (
	ErrRecipeNotFound = errors.New("recipe not found")
)

// Service handles recipe catalog business logic.
type Service struct {
	storage storage.RecipesStorage
}

// NewService creates a new recipes service.
func NewService(storage storage.RecipesStorage) *Service {
	return &Service{storage: storage}
}

// Search returns recipes matching the filter with the total match count.
func (s *Service) Search(ctx context.Context, filter storage.RecipeFilter) (*SearchRecipesResponse, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	recipes, total, err := s.storage.SearchRecipes(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]RecipeDTO, len(recipes))
	for i, r := range recipes {
		items[i] = toDTO(r)
	}
	return &SearchRecipesResponse{
		Recipes: items,
		Total:   total,
		Page:    filter.Page,
		Limit:   filter.Limit,
	}, nil
}

// Get returns one recipe by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*RecipeDTO, error) {
	recipe, err := s.storage.GetRecipe(ctx, id)
	if err != nil {
		return nil, ErrRecipeNotFound
	}
	dto := toDTO(*recipe)
	return &dto, nil
}

// Create adds a new, unapproved recipe to the catalog.
func (s *Service) Create(ctx context.Context, req CreateRecipeRequest) (*RecipeDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now().UTC()
	recipe := &storage.Recipe{
		ID:               uuid.New(),
		Name:             req.Name,
		Description:      req.Description,
		CaloriesKcal:     req.CaloriesKcal,
		ProteinGrams:     defaultMacro(req.ProteinGrams),
		CarbsGrams:       defaultMacro(req.CarbsGrams),
		FatGrams:         defaultMacro(req.FatGrams),
		PrepTimeMinutes:  req.PrepTimeMinutes,
		CookTimeMinutes:  req.CookTimeMinutes,
		Servings:         defaultServings(req.Servings),
		MealTypes:        emptyIfNil(req.MealTypes),
		DietaryTags:      emptyIfNil(req.DietaryTags),
		Ingredients:      emptyIngredientsIfNil(req.Ingredients),
		InstructionsText: req.InstructionsText,
		ImageURL:         req.ImageURL,
		IsApproved:       false,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.storage.CreateRecipe(ctx, recipe); err != nil {
		return nil, err
	}

	dto := toDTO(*recipe)
	return &dto, nil
}

// SetApproval flips the approval flag; only approved recipes feed the
// generator.
func (s *Service) SetApproval(ctx context.Context, id uuid.UUID, approved bool) error {
	if err := s.storage.SetRecipeApproval(ctx, id, approved); err != nil {
		return ErrRecipeNotFound
	}
	return nil
}

// Delete removes a recipe from the catalog. Plans that embedded it keep
// their snapshots.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.storage.DeleteRecipe(ctx, id); err != nil {
		return ErrRecipeNotFound
	}
	return nil
}

func defaultMacro(s string) string {
	if s == "" {
		return "0"
	}
	return s
}

func defaultServings(n int) int {
	if n == 0 {
		return 1
	}
	return n
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func emptyIngredientsIfNil(s []storage.Ingredient) []storage.Ingredient {
	if s == nil {
		return []storage.Ingredient{}
	}
	return s
}
