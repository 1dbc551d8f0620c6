package mealplan

import (
	"time"
)

// Ingredient is one ingredient of a recipe snapshot. Amount is a string:
// usually numeric ("1.5") but free text like "pinch" passes through.
type Ingredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
}

// RecipeSnapshot is the recipe copy embedded into a meal slot. Macro grams
// are decimal strings, matching the catalog representation.
type RecipeSnapshot struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Description      string       `json:"description"`
	CaloriesKcal     int          `json:"caloriesKcal"`
	ProteinGrams     string       `json:"proteinGrams"`
	CarbsGrams       string       `json:"carbsGrams"`
	FatGrams         string       `json:"fatGrams"`
	PrepTimeMinutes  int          `json:"prepTimeMinutes"`
	CookTimeMinutes  int          `json:"cookTimeMinutes"`
	Servings         int          `json:"servings"`
	MealTypes        []string     `json:"mealTypes"`
	DietaryTags      []string     `json:"dietaryTags"`
	Ingredients      []Ingredient `json:"ingredientsJson"`
	InstructionsText string       `json:"instructionsText"`
	ImageURL         string       `json:"imageUrl,omitempty"`
}

// MealSlot is one (day, mealNumber) position of a plan, filled with exactly
// one recipe snapshot.
type MealSlot struct {
	Day        int            `json:"day"`
	MealNumber int            `json:"mealNumber"`
	MealType   string         `json:"mealType"`
	Recipe     RecipeSnapshot `json:"recipe"`
}

// MealPlan is a fully validated or freshly generated plan. It is constructed
// once and not mutated afterwards.
type MealPlan struct {
	ID                  string        `json:"id"`
	PlanName            string        `json:"planName"`
	FitnessGoal         string        `json:"fitnessGoal"`
	Description         string        `json:"description"`
	DailyCalorieTarget  int           `json:"dailyCalorieTarget"`
	Days                int           `json:"days"`
	MealsPerDay         int           `json:"mealsPerDay"`
	Meals               []MealSlot    `json:"meals"`
	GeneratedBy         string        `json:"generatedBy,omitempty"`
	CreatedAt           time.Time     `json:"createdAt"`
	StartOfWeekMealPrep *MealPrepPlan `json:"startOfWeekMealPrep,omitempty"`
}

// PlanInput is the canonical pre-validation shape produced by Normalize.
// Meals may still carry only a recipe identifier; Enrich resolves those
// against the recipe store before validation.
type PlanInput struct {
	ID                 string
	PlanName           string
	FitnessGoal        string
	Description        string
	DailyCalorieTarget int
	Days               int
	MealsPerDay        int
	Meals              []MealInput
}

// MealInput is one meal of a PlanInput.
type MealInput struct {
	Day        int
	MealNumber int
	MealType   string
	RecipeID   string
	Recipe     *RecipeSnapshot
}

// GenerateParams are the caller-supplied knobs for plan generation.
type GenerateParams struct {
	PlanName           string `json:"planName"`
	FitnessGoal        string `json:"fitnessGoal"`
	Description        string `json:"description,omitempty"`
	DailyCalorieTarget int    `json:"dailyCalorieTarget"`
	Days               int    `json:"days"`
	MealsPerDay        int    `json:"mealsPerDay"`
	MealType           string `json:"mealType,omitempty"`
	DietaryTag         string `json:"dietaryTag,omitempty"`
	MaxPrepTime        int    `json:"maxPrepTime,omitempty"`
	MaxIngredients     int    `json:"maxIngredients,omitempty"`
	GenerateMealPrep   *bool  `json:"generateMealPrep,omitempty"` // default true
}

// NutritionTotals holds summed calories and parsed macro grams.
type NutritionTotals struct {
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// DailyNutrition is the per-day rollup.
type DailyNutrition struct {
	Day      int     `json:"day"`
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// AverageNutrition is the arithmetic mean across calendar days, rounded to
// the nearest integer.
type AverageNutrition struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fat      int `json:"fat"`
}

// NutritionSummary is the aggregation result; derived, never stored.
type NutritionSummary struct {
	Total        NutritionTotals  `json:"total"`
	Daily        []DailyNutrition `json:"daily"`
	AverageDaily AverageNutrition `json:"averageDaily"`
}

// ShoppingItem is one consolidated ingredient of a meal-prep plan.
type ShoppingItem struct {
	Ingredient    string   `json:"ingredient"`
	TotalAmount   string   `json:"totalAmount"`
	Unit          string   `json:"unit"`
	UsedInRecipes []string `json:"usedInRecipes"`
}

// PrepStep is one ordered preparation instruction.
type PrepStep struct {
	Step          int      `json:"step"`
	Instruction   string   `json:"instruction"`
	EstimatedTime int      `json:"estimatedTime"` // minutes
	Ingredients   []string `json:"ingredients"`
}

// StorageInstruction tells how to store one consolidated ingredient.
type StorageInstruction struct {
	Ingredient string `json:"ingredient"`
	Method     string `json:"method"`
	Duration   string `json:"duration"`
}

// MealPrepPlan is the weekly prep/shopping output; ephemeral, recomputed on
// demand from a plan's meals.
type MealPrepPlan struct {
	TotalPrepTime       int                  `json:"totalPrepTime"` // minutes
	ShoppingList        []ShoppingItem       `json:"shoppingList"`
	PrepInstructions    []PrepStep           `json:"prepInstructions"`
	StorageInstructions []StorageInstruction `json:"storageInstructions"`
}
