package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/drmweyers/evofithealthprotocol-sub002/internal/storage"
	"github.com/google/uuid"
)

// recipesStorage — in-memory реализация RecipesStorage
type recipesStorage struct {
	mu      sync.RWMutex
	recipes map[uuid.UUID]storage.Recipe
}

func newRecipesStorage() *recipesStorage {
	return &recipesStorage{
		recipes: make(map[uuid.UUID]storage.Recipe),
	}
}

func (s *recipesStorage) CreateRecipe(ctx context.Context, recipe *storage.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if recipe.ID == uuid.Nil {
		recipe.ID = uuid.New()
	}

	now := time.Now()
	recipe.CreatedAt = now
	recipe.UpdatedAt = now

	s.recipes[recipe.ID] = *recipe

	return nil
}

func (s *recipesStorage) GetRecipe(ctx context.Context, id uuid.UUID) (*storage.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[id]
	if !ok {
		return nil, ErrRecipeNotFound
	}

	return &r, nil
}

func (s *recipesStorage) SearchRecipes(ctx context.Context, filter storage.RecipeFilter) ([]storage.Recipe, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var filtered []storage.Recipe
	for _, r := range s.recipes {
		if filter.Approved != nil && r.IsApproved != *filter.Approved {
			continue
		}
		if filter.MealType != "" && !containsFold(r.MealTypes, filter.MealType) {
			continue
		}
		if filter.DietaryTag != "" && !containsFold(r.DietaryTags, filter.DietaryTag) {
			continue
		}
		if filter.MaxPrepTime > 0 && r.PrepTimeMinutes > filter.MaxPrepTime {
			continue
		}

		filtered = append(filtered, r)
	}

	// Stable order: newest first, name as tie-breaker
	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].CreatedAt.Equal(filtered[j].CreatedAt) {
			return filtered[i].Name < filtered[j].Name
		}
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	total := len(filtered)

	// Apply pagination
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * limit
	if start > len(filtered) {
		return []storage.Recipe{}, total, nil
	}
	end := start + limit
	if end > len(filtered) {
		end = len(filtered)
	}

	return filtered[start:end], total, nil
}

func (s *recipesStorage) SetRecipeApproval(ctx context.Context, id uuid.UUID, approved bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.recipes[id]
	if !ok {
		return ErrRecipeNotFound
	}

	r.IsApproved = approved
	r.UpdatedAt = time.Now()
	s.recipes[id] = r

	return nil
}

func (s *recipesStorage) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[id]; !ok {
		return ErrRecipeNotFound
	}

	delete(s.recipes, id)

	return nil
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}
