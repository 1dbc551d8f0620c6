package mealplan

import (
	"context"
	"log"

	"github.com/drmweyers/evofithealthprotocol-sub002/internal/storage"
)

// RecipeSource is the slice of the recipe catalog the engine depends on.
// Identifiers are opaque strings; a source backed by UUID storage resolves
// them itself.
type RecipeSource interface {
	// SearchRecipes returns recipes matching the filter.
	SearchRecipes(ctx context.Context, filter storage.RecipeFilter) ([]storage.Recipe, error)

	// GetRecipe returns the recipe with the given id, or nil when unknown.
	GetRecipe(ctx context.Context, id string) (*storage.Recipe, error)
}

// Enrich resolves meals that reference only a recipe identifier against the
// recipe store and fills missing optional fields with defaults. A failed
// per-meal fetch is logged and the meal keeps its partial data; enrichment
// never fails the whole plan.
func Enrich(ctx context.Context, source RecipeSource, plan PlanInput) PlanInput {
	meals := make([]MealInput, len(plan.Meals))
	for i, meal := range plan.Meals {
		meals[i] = enrichMeal(ctx, source, meal)
	}
	plan.Meals = meals
	return plan
}

func enrichMeal(ctx context.Context, source RecipeSource, meal MealInput) MealInput {
	if isCompleteRecipe(meal.Recipe) {
		snap := *meal.Recipe
		fillRecipeDefaults(&snap)
		meal.Recipe = &snap
		return meal
	}

	id := meal.RecipeID
	if id == "" && meal.Recipe != nil {
		id = meal.Recipe.ID
	}
	if id == "" {
		// Neither a complete recipe nor an identifier: pass through.
		return meal
	}

	recipe, err := source.GetRecipe(ctx, id)
	if err != nil || recipe == nil {
		log.Printf("WARN mealplan: recipe %s fetch failed during enrichment, keeping partial meal data: %v", id, err)
		return meal
	}

	snap := SnapshotFromRecipe(recipe)
	fillRecipeDefaults(&snap)
	meal.Recipe = &snap
	return meal
}

// isCompleteRecipe mirrors the normalizer's notion of completeness: a name
// plus an ingredient list (possibly empty, but present).
func isCompleteRecipe(r *RecipeSnapshot) bool {
	return r != nil && r.Name != "" && r.Ingredients != nil
}

// fillRecipeDefaults fills missing optional fields only; present values are
// never overwritten.
func fillRecipeDefaults(r *RecipeSnapshot) {
	if r.DietaryTags == nil {
		r.DietaryTags = []string{}
	}
	if r.MealTypes == nil {
		r.MealTypes = []string{}
	}
	if r.Ingredients == nil {
		r.Ingredients = []Ingredient{}
	}
	if r.ProteinGrams == "" {
		r.ProteinGrams = "0"
	}
	if r.CarbsGrams == "" {
		r.CarbsGrams = "0"
	}
	if r.FatGrams == "" {
		r.FatGrams = "0"
	}
	if r.Servings == 0 {
		r.Servings = 1
	}
}

// SnapshotFromRecipe copies a catalog recipe into the embedded snapshot
// shape.
func SnapshotFromRecipe(r *storage.Recipe) RecipeSnapshot {
	ingredients := make([]Ingredient, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		ingredients[i] = Ingredient{Name: ing.Name, Amount: ing.Amount, Unit: ing.Unit}
	}

	return RecipeSnapshot{
		ID:               r.ID.String(),
		Name:             r.Name,
		Description:      r.Description,
		CaloriesKcal:     r.CaloriesKcal,
		ProteinGrams:     r.ProteinGrams,
		CarbsGrams:       r.CarbsGrams,
		FatGrams:         r.FatGrams,
		PrepTimeMinutes:  r.PrepTimeMinutes,
		CookTimeMinutes:  r.CookTimeMinutes,
		Servings:         r.Servings,
		MealTypes:        append([]string{}, r.MealTypes...),
		DietaryTags:      append([]string{}, r.DietaryTags...),
		Ingredients:      ingredients,
		InstructionsText: r.InstructionsText,
		ImageURL:         r.ImageURL,
	}
}
