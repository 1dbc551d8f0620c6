package mealplan

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/drmweyers/evofithealthprotocol-sub002/internal/storage"
	"github.com/google/uuid"
)

// ErrNoRecipes is the single fatal generation failure: the catalog has no
// approved recipes even after dropping all filters.
var ErrNoRecipes = errors.New("no approved recipes available for meal plan generation")

const (
	// defaultPoolLimit caps the candidate pool fetched from the store.
	defaultPoolLimit = 100

	// calorieBand is the tolerated deviation around the per-meal target.
	calorieBand = 0.20

	// scoredPickFraction bounds the random pick to the best-scoring slice
	// of candidates when an ingredient budget is active.
	scoredPickFraction = 0.30
)

// Generator builds new meal plans from catalog recipes. The random source
// is injected so tests can pin selections.
type Generator struct {
	store          RecipeSource
	rng            *rand.Rand
	poolLimit      int
	placeholderURL string
}

// NewGenerator creates a generator over the given recipe source.
func NewGenerator(store RecipeSource, src rand.Source, poolLimit int, placeholderURL string) *Generator {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	if poolLimit <= 0 {
		poolLimit = defaultPoolLimit
	}
	return &Generator{
		store:          store,
		rng:            rand.New(src),
		poolLimit:      poolLimit,
		placeholderURL: placeholderURL,
	}
}

// Generate produces a plan for the given parameters. Shortages at any
// filtering stage degrade gracefully; only an empty candidate pool after the
// unfiltered retry is fatal.
func (g *Generator) Generate(ctx context.Context, params GenerateParams, requesterID string) (*MealPlan, error) {
	pool, err := g.fetchCandidates(ctx, params)
	if err != nil {
		return nil, err
	}

	plan := &MealPlan{
		ID:                 uuid.New().String(),
		PlanName:           params.PlanName,
		FitnessGoal:        params.FitnessGoal,
		Description:        params.Description,
		DailyCalorieTarget: params.DailyCalorieTarget,
		Days:               params.Days,
		MealsPerDay:        params.MealsPerDay,
		GeneratedBy:        requesterID,
		CreatedAt:          time.Now().UTC(),
	}

	caloriesPerMeal := int(math.Round(float64(params.DailyCalorieTarget) / float64(params.MealsPerDay)))

	// Distinct lowercased ingredient names used anywhere in the plan so
	// far; only consulted when an ingredient budget is set.
	usedIngredients := make(map[string]bool)

	for day := 1; day <= params.Days; day++ {
		for mealNumber := 1; mealNumber <= params.MealsPerDay; mealNumber++ {
			mealType := mealTypeForSlot(params.MealsPerDay, mealNumber, params.MealType)

			candidates := g.candidatesForSlot(pool, params, mealType, caloriesPerMeal)

			var recipe storage.Recipe
			if params.MaxIngredients > 0 {
				recipe = g.pickScored(candidates, usedIngredients, params.MaxIngredients)
			} else {
				recipe = g.pickRandom(candidates, plan.Meals, params.MealsPerDay)
			}

			for _, ing := range recipe.Ingredients {
				usedIngredients[strings.ToLower(ing.Name)] = true
			}

			plan.Meals = append(plan.Meals, MealSlot{
				Day:        day,
				MealNumber: mealNumber,
				MealType:   mealType,
				Recipe:     g.snapshot(recipe),
			})
		}
	}

	if params.GenerateMealPrep == nil || *params.GenerateMealPrep {
		plan.StartOfWeekMealPrep = SynthesizeMealPrep(plan)
	}

	return plan, nil
}

// fetchCandidates queries the store with the caller's filters, then retries
// approved-only when nothing matches.
func (g *Generator) fetchCandidates(ctx context.Context, params GenerateParams) ([]storage.Recipe, error) {
	approved := true
	filter := storage.RecipeFilter{
		Approved:    &approved,
		MealType:    params.MealType,
		DietaryTag:  params.DietaryTag,
		MaxPrepTime: params.MaxPrepTime,
		Limit:       g.poolLimit,
		Page:        1,
	}

	recipes, err := g.store.SearchRecipes(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("recipe search failed: %w", err)
	}

	if len(recipes) == 0 && (params.MealType != "" || params.DietaryTag != "" || params.MaxPrepTime > 0) {
		log.Printf("mealplan: no recipes matched filters, retrying without filters")
		recipes, err = g.store.SearchRecipes(ctx, storage.RecipeFilter{
			Approved: &approved,
			Limit:    g.poolLimit,
			Page:     1,
		})
		if err != nil {
			return nil, fmt.Errorf("recipe search failed: %w", err)
		}
	}

	if len(recipes) == 0 {
		return nil, ErrNoRecipes
	}

	return recipes, nil
}

// mealTypeForSlot assigns meal types deterministically by plan density.
func mealTypeForSlot(mealsPerDay, mealNumber int, requestedType string) string {
	switch {
	case mealsPerDay == 1:
		if requestedType != "" {
			return requestedType
		}
		return "lunch"
	case mealsPerDay == 2:
		return []string{"breakfast", "dinner"}[mealNumber-1]
	case mealsPerDay == 3:
		return []string{"breakfast", "lunch", "dinner"}[mealNumber-1]
	default:
		return []string{"breakfast", "lunch", "dinner", "snack"}[(mealNumber-1)%4]
	}
}

// candidatesForSlot narrows the pool by meal type and calorie band, falling
// back to the wider set whenever a stage comes up empty.
func (g *Generator) candidatesForSlot(pool []storage.Recipe, params GenerateParams, mealType string, caloriesPerMeal int) []storage.Recipe {
	candidates := pool

	// The store already filtered by meal type when the caller asked for
	// one explicitly.
	if params.MealType == "" {
		byType := filterRecipes(candidates, func(r storage.Recipe) bool {
			return containsFold(r.MealTypes, mealType)
		})
		if len(byType) > 0 {
			candidates = byType
		}
	}

	minCalories := int(float64(caloriesPerMeal) * (1 - calorieBand))
	maxCalories := int(float64(caloriesPerMeal) * (1 + calorieBand))
	inBand := filterRecipes(candidates, func(r storage.Recipe) bool {
		return r.CaloriesKcal >= minCalories && r.CaloriesKcal <= maxCalories
	})
	if len(inBand) > 0 {
		candidates = inBand
	}

	return candidates
}

// pickRandom excludes recently used recipes for variety, then picks
// uniformly.
func (g *Generator) pickRandom(candidates []storage.Recipe, mealsSoFar []MealSlot, mealsPerDay int) storage.Recipe {
	window := 2 * mealsPerDay
	if window > len(mealsSoFar) {
		window = len(mealsSoFar)
	}

	recent := make(map[string]bool, window)
	for _, slot := range mealsSoFar[len(mealsSoFar)-window:] {
		recent[slot.Recipe.ID] = true
	}

	fresh := filterRecipes(candidates, func(r storage.Recipe) bool {
		return !recent[r.ID.String()]
	})
	if len(fresh) > 0 {
		candidates = fresh
	}

	return candidates[g.rng.Intn(len(candidates))]
}

// pickScored ranks candidates by ingredient reuse against the budget and
// picks randomly among the top scorers, keeping some variety near the
// optimum.
func (g *Generator) pickScored(candidates []storage.Recipe, usedIngredients map[string]bool, maxIngredients int) storage.Recipe {
	remaining := maxIngredients - len(usedIngredients)

	type scored struct {
		recipe   storage.Recipe
		score    int
		newCount int
	}

	all := make([]scored, 0, len(candidates))
	feasible := make([]scored, 0, len(candidates))

	for _, r := range candidates {
		reuse, newCount := 0, 0
		seen := make(map[string]bool, len(r.Ingredients))
		for _, ing := range r.Ingredients {
			name := strings.ToLower(ing.Name)
			if seen[name] {
				continue
			}
			seen[name] = true
			if usedIngredients[name] {
				reuse++
			} else {
				newCount++
			}
		}

		penalty := 0
		if over := newCount - remaining; over > 0 {
			penalty = 10 * over
		}

		entry := scored{
			recipe:   r,
			score:    2*reuse - newCount - penalty,
			newCount: newCount,
		}
		all = append(all, entry)
		if newCount <= remaining {
			feasible = append(feasible, entry)
		}
	}

	ranked := feasible
	if len(ranked) == 0 {
		// No candidate fits the budget; fall back to the full set so
		// generation still succeeds.
		ranked = all
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	top := int(math.Ceil(float64(len(ranked)) * scoredPickFraction))
	if top < 1 {
		top = 1
	}

	return ranked[g.rng.Intn(top)].recipe
}

// snapshot embeds the recipe with safe defaults for macros and image.
func (g *Generator) snapshot(r storage.Recipe) RecipeSnapshot {
	snap := SnapshotFromRecipe(&r)
	fillRecipeDefaults(&snap)
	if snap.ImageURL == "" {
		snap.ImageURL = g.placeholderURL
	}
	return snap
}

func filterRecipes(recipes []storage.Recipe, keep func(storage.Recipe) bool) []storage.Recipe {
	out := make([]storage.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}
