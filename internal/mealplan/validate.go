package mealplan

import (
	"fmt"
	"log"
	"strconv"
	"strings"
)

// FieldError is a single validation finding addressed by field path.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every offending field of one validation run.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return strings.Join(parts, "; ")
}

// ValidationOutcome tags which pass of the pipeline accepted the input.
type ValidationOutcome int

const (
	// StrictOK — the input satisfied the schema as supplied.
	StrictOK ValidationOutcome = iota
	// LenientOK — the input was accepted after representational fixes
	// (missing meal types, empty macro strings, zero servings).
	LenientOK
)

func (o ValidationOutcome) String() string {
	if o == LenientOK {
		return "lenient"
	}
	return "strict"
}

// recognizedMealTypes is the advisory set; unknown types warn, never fail.
var recognizedMealTypes = map[string]bool{
	"breakfast":    true,
	"lunch":        true,
	"dinner":       true,
	"snack":        true,
	"pre-workout":  true,
	"post-workout": true,
	"brunch":       true,
	"supper":       true,
	"dessert":      true,
	"appetizer":    true,
}

// Validate runs the two-stage schema pipeline: a strict pass over the input
// as-is, then a lenient pass over a copy with representational defaults
// filled in. Ranges are identical in both passes — leniency never widens a
// bound. On failure the lenient pass's findings are returned, since those
// are the ones a caller must actually fix.
func Validate(input PlanInput) (*MealPlan, ValidationOutcome, error) {
	if errs := checkSchema(input); len(errs) == 0 {
		return buildPlan(input), StrictOK, nil
	}

	relaxed := applyLenientDefaults(input)
	if errs := checkSchema(relaxed); len(errs) > 0 {
		return nil, 0, &ValidationError{Fields: errs}
	}

	return buildPlan(relaxed), LenientOK, nil
}

func checkSchema(p PlanInput) []FieldError {
	var errs []FieldError

	add := func(field, message string) {
		errs = append(errs, FieldError{Field: field, Message: message})
	}

	if p.PlanName == "" {
		add("planName", "plan name is required")
	} else if len(p.PlanName) > 100 {
		add("planName", "plan name must be at most 100 characters")
	}

	if p.FitnessGoal == "" {
		add("fitnessGoal", "fitness goal is required")
	}

	if p.DailyCalorieTarget < 500 || p.DailyCalorieTarget > 10000 {
		add("dailyCalorieTarget", "daily calorie target must be between 500 and 10000")
	}

	if p.Days < 1 || p.Days > 365 {
		add("days", "days must be between 1 and 365")
	}

	if p.MealsPerDay < 1 || p.MealsPerDay > 10 {
		add("mealsPerDay", "meals per day must be between 1 and 10")
	}

	if len(p.Meals) == 0 {
		add("meals", "At least one meal is required")
	}

	for i, meal := range p.Meals {
		prefix := fmt.Sprintf("meals[%d]", i)

		if meal.Day < 1 || meal.Day > 365 {
			add(prefix+".day", "day must be between 1 and 365")
		}
		if meal.MealNumber < 1 || meal.MealNumber > 10 {
			add(prefix+".mealNumber", "meal number must be between 1 and 10")
		}
		if meal.MealType == "" {
			add(prefix+".mealType", "meal type is required")
		}

		if meal.Recipe == nil {
			add(prefix+".recipe", "recipe is required")
			continue
		}

		r := meal.Recipe
		if r.Name == "" {
			add(prefix+".recipe.name", "recipe name is required")
		}
		if r.CaloriesKcal < 0 || r.CaloriesKcal > 5000 {
			add(prefix+".recipe.caloriesKcal", "calories must be between 0 and 5000")
		}
		if r.PrepTimeMinutes < 0 || r.PrepTimeMinutes > 480 {
			add(prefix+".recipe.prepTimeMinutes", "prep time must be between 0 and 480 minutes")
		}
		if r.Servings < 1 || r.Servings > 20 {
			add(prefix+".recipe.servings", "servings must be between 1 and 20")
		}

		macros := []struct {
			field string
			value string
		}{
			{"proteinGrams", r.ProteinGrams},
			{"carbsGrams", r.CarbsGrams},
			{"fatGrams", r.FatGrams},
		}
		for _, m := range macros {
			if !isNonNegativeNumber(m.value) {
				add(prefix+".recipe."+m.field, "must be a non-negative number")
			}
		}
	}

	return errs
}

// applyLenientDefaults fixes representation only: it never changes a value
// that is already present and never widens a numeric range.
func applyLenientDefaults(p PlanInput) PlanInput {
	meals := make([]MealInput, len(p.Meals))
	for i, meal := range p.Meals {
		if meal.MealType == "" {
			meal.MealType = "meal"
		}
		if meal.Recipe != nil {
			r := *meal.Recipe
			if r.Servings == 0 {
				r.Servings = 1
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
			meal.Recipe = &r
		}
		meals[i] = meal
	}
	p.Meals = meals
	return p
}

func buildPlan(p PlanInput) *MealPlan {
	meals := make([]MealSlot, 0, len(p.Meals))
	for _, m := range p.Meals {
		slot := MealSlot{
			Day:        m.Day,
			MealNumber: m.MealNumber,
			MealType:   m.MealType,
		}
		if m.Recipe != nil {
			slot.Recipe = *m.Recipe
		}
		if slot.Recipe.ID == "" {
			slot.Recipe.ID = m.RecipeID
		}
		meals = append(meals, slot)
	}

	return &MealPlan{
		ID:                 p.ID,
		PlanName:           p.PlanName,
		FitnessGoal:        p.FitnessGoal,
		Description:        p.Description,
		DailyCalorieTarget: p.DailyCalorieTarget,
		Days:               p.Days,
		MealsPerDay:        p.MealsPerDay,
		Meals:              meals,
	}
}

// CheckBusinessRules applies post-schema semantic checks. Only meal days
// beyond the plan duration are a hard failure; everything else is logged.
func CheckBusinessRules(plan *MealPlan) error {
	var errs []FieldError

	dayCalories := make(map[int]int)
	for i, meal := range plan.Meals {
		if meal.Day > plan.Days {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("meals[%d].day", i),
				Message: fmt.Sprintf("meal day %d exceeds plan duration of %d days", meal.Day, plan.Days),
			})
		}

		dayCalories[meal.Day] += meal.Recipe.CaloriesKcal

		if meal.MealType != "" && !recognizedMealTypes[strings.ToLower(meal.MealType)] {
			log.Printf("WARN mealplan %q: unrecognized meal type %q on day %d", plan.PlanName, meal.MealType, meal.Day)
		}
	}

	for day, calories := range dayCalories {
		if calories < 800 || calories > 6000 {
			log.Printf("WARN mealplan %q: day %d total of %d kcal is outside the 800-6000 range", plan.PlanName, day, calories)
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}

	return nil
}

func isNonNegativeNumber(s string) bool {
	if s == "" {
		return false
	}
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && f >= 0
}
