package mealplan

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// mealsShape tags the recognized shapes of the "meals" field. Detection is
// ordered: canonical wins over legacy, legacy over day-object.
type mealsShape int

const (
	shapeNone mealsShape = iota
	shapeCanonical
	shapeLegacyArray
	shapeDayObject
)

var weekDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// mealTypeOrder fixes the within-day ordering when expanding day-object
// input, so meal numbers are deterministic.
var mealTypeOrder = map[string]int{
	"breakfast": 0,
	"lunch":     1,
	"dinner":    2,
	"snack":     3,
}

// Normalize converts meal-plan-like data in any of the recognized shapes to
// the canonical PlanInput. Unknown day names and day-object entries without
// a recipe identifier are dropped; each drop is reported as a warning rather
// than an error.
func Normalize(raw any) (PlanInput, []string, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		// Caller-input fault, surfaced as a validation failure.
		return PlanInput{}, nil, &ValidationError{Fields: []FieldError{
			{Field: "mealPlan", Message: "Meal plan data must be a JSON object"},
		}}
	}

	// Unwrap a { mealPlanData: {...} } envelope first.
	if inner, ok := obj["mealPlanData"].(map[string]any); ok {
		obj = inner
	}

	var warnings []string

	plan := PlanInput{
		ID:                 asString(obj["id"]),
		PlanName:           asString(obj["planName"]),
		FitnessGoal:        asString(obj["fitnessGoal"]),
		Description:        asString(obj["description"]),
		DailyCalorieTarget: asInt(obj["dailyCalorieTarget"]),
		Days:               asInt(obj["days"]),
		MealsPerDay:        asInt(obj["mealsPerDay"]),
	}

	// Frontend-shaped objects carry "name" instead of "planName".
	frontendShaped := plan.PlanName == "" && asString(obj["name"]) != ""
	if frontendShaped {
		plan.PlanName = asString(obj["name"])
		if plan.FitnessGoal == "" {
			plan.FitnessGoal = asString(obj["description"])
		}
		if plan.FitnessGoal == "" {
			plan.FitnessGoal = "General Fitness"
		}
	}

	meals, mealWarnings := normalizeMeals(obj["meals"])
	warnings = append(warnings, mealWarnings...)
	plan.Meals = meals

	// Derivation rules apply only when the corresponding field is absent.
	if plan.DailyCalorieTarget == 0 {
		plan.DailyCalorieTarget = deriveCalorieTarget(meals)
	}
	if plan.Days == 0 {
		plan.Days = deriveDays(meals)
	}
	if plan.MealsPerDay == 0 {
		plan.MealsPerDay = deriveMealsPerDay(meals)
	}

	if plan.ID == "" {
		plan.ID = "generated-plan"
	}

	return plan, warnings, nil
}

// detectMealsShape inspects the discriminating fields of the meals value.
func detectMealsShape(v any) mealsShape {
	switch meals := v.(type) {
	case []any:
		if len(meals) == 0 {
			return shapeCanonical
		}
		if first, ok := meals[0].(map[string]any); ok {
			_, hasDay := first["day"]
			_, hasMealNumber := first["mealNumber"]
			if hasDay && hasMealNumber {
				return shapeCanonical
			}
		}
		return shapeLegacyArray
	case map[string]any:
		return shapeDayObject
	default:
		return shapeNone
	}
}

func normalizeMeals(v any) ([]MealInput, []string) {
	switch detectMealsShape(v) {
	case shapeCanonical:
		return normalizeCanonicalMeals(v.([]any)), nil
	case shapeLegacyArray:
		return normalizeLegacyMeals(v.([]any)), nil
	case shapeDayObject:
		return normalizeDayObjectMeals(v.(map[string]any))
	default:
		return nil, nil
	}
}

// normalizeCanonicalMeals passes an already-correct array through unchanged.
func normalizeCanonicalMeals(entries []any) []MealInput {
	meals := make([]MealInput, 0, len(entries))
	for _, e := range entries {
		entry, ok := e.(map[string]any)
		if !ok {
			continue
		}
		meals = append(meals, mealFromEntry(entry, asInt(entry["day"]), asInt(entry["mealNumber"])))
	}
	return meals
}

// normalizeLegacyMeals assigns day/mealNumber by index for arrays that lack
// them (three meals per day assumed by the legacy layout).
func normalizeLegacyMeals(entries []any) []MealInput {
	meals := make([]MealInput, 0, len(entries))
	for i, e := range entries {
		entry, ok := e.(map[string]any)
		if !ok {
			continue
		}

		day := asInt(entry["day"])
		if day == 0 {
			day = i/3 + 1
		}
		mealNumber := asInt(entry["mealNumber"])
		if mealNumber == 0 {
			mealNumber = i%3 + 1
		}

		meal := mealFromEntry(entry, day, mealNumber)
		if meal.MealType == "" {
			meal.MealType = "meal"
		}
		meals = append(meals, meal)
	}
	return meals
}

// normalizeDayObjectMeals expands { Monday: { breakfast: {...} } } input to a
// flat list. Unknown day names and entries without a recipe identifier emit
// no meals.
func normalizeDayObjectMeals(byDay map[string]any) ([]MealInput, []string) {
	var meals []MealInput
	var warnings []string

	dayIndex := make(map[string]int, len(weekDays))
	for i, name := range weekDays {
		dayIndex[name] = i + 1
	}

	// Iterate days in calendar order for determinism.
	for _, dayName := range weekDays {
		dayValue, ok := byDay[dayName]
		if !ok {
			continue
		}
		byType, ok := dayValue.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("day %q: expected an object of meals, skipped", dayName))
			continue
		}

		types := make([]string, 0, len(byType))
		for mealType := range byType {
			types = append(types, mealType)
		}
		sort.Slice(types, func(i, j int) bool {
			oi, iOK := mealTypeOrder[types[i]]
			oj, jOK := mealTypeOrder[types[j]]
			switch {
			case iOK && jOK:
				return oi < oj
			case iOK:
				return true
			case jOK:
				return false
			default:
				return types[i] < types[j]
			}
		})

		mealNumber := 0
		for _, mealType := range types {
			entry, ok := byType[mealType].(map[string]any)
			if !ok {
				warnings = append(warnings, fmt.Sprintf("day %q meal %q: not an object, skipped", dayName, mealType))
				continue
			}

			meal := mealFromEntry(entry, dayIndex[dayName], 0)
			if meal.RecipeID == "" {
				warnings = append(warnings, fmt.Sprintf("day %q meal %q: no recipe id, skipped", dayName, mealType))
				continue
			}

			mealNumber++
			meal.MealNumber = mealNumber
			meal.MealType = mealType
			meals = append(meals, meal)
		}
	}

	for dayName := range byDay {
		if _, ok := dayIndex[dayName]; !ok {
			warnings = append(warnings, fmt.Sprintf("unknown day name %q, skipped", dayName))
		}
	}

	return meals, warnings
}

func mealFromEntry(entry map[string]any, day, mealNumber int) MealInput {
	meal := MealInput{
		Day:        day,
		MealNumber: mealNumber,
		MealType:   asString(entry["mealType"]),
		RecipeID:   asString(entry["recipeId"]),
	}

	if recipeRaw, ok := entry["recipe"].(map[string]any); ok {
		if meal.RecipeID == "" {
			meal.RecipeID = asString(recipeRaw["id"])
		}
		meal.Recipe = snapshotFromMap(recipeRaw)
	}

	return meal
}

// snapshotFromMap re-decodes a dynamic recipe object into a typed snapshot.
// Amounts that arrive as JSON numbers are stringified on the way.
func snapshotFromMap(raw map[string]any) *RecipeSnapshot {
	data, err := json.Marshal(coerceRecipeFields(raw))
	if err != nil {
		return nil
	}

	var snap RecipeSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil
	}

	return &snap
}

// coerceRecipeFields turns numeric macro/amount values into the string
// representation the snapshot expects. Everything else passes through.
func coerceRecipeFields(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		out[k] = v
	}

	for _, field := range []string{"proteinGrams", "carbsGrams", "fatGrams"} {
		if n, ok := out[field].(float64); ok {
			out[field] = formatFloat(n)
		}
	}

	if ingredients, ok := out["ingredientsJson"].([]any); ok {
		coerced := make([]any, 0, len(ingredients))
		for _, ing := range ingredients {
			entry, ok := ing.(map[string]any)
			if !ok {
				continue
			}
			if n, ok := entry["amount"].(float64); ok {
				copied := make(map[string]any, len(entry))
				for k, v := range entry {
					copied[k] = v
				}
				copied["amount"] = formatFloat(n)
				entry = copied
			}
			coerced = append(coerced, entry)
		}
		out["ingredientsJson"] = coerced
	}

	return out
}

func deriveCalorieTarget(meals []MealInput) int {
	if len(meals) == 0 {
		return 2000
	}

	total := 0
	days := make(map[int]bool)
	for _, m := range meals {
		if m.Recipe != nil {
			total += m.Recipe.CaloriesKcal
		}
		days[m.Day] = true
	}
	if len(days) == 0 || total == 0 {
		return 2000
	}

	return int(math.Round(float64(total) / float64(len(days))))
}

func deriveDays(meals []MealInput) int {
	days := make(map[int]bool)
	for _, m := range meals {
		days[m.Day] = true
	}
	if len(days) == 0 {
		return 7
	}
	return len(days)
}

func deriveMealsPerDay(meals []MealInput) int {
	perDay := make(map[int]int)
	max := 0
	for _, m := range meals {
		perDay[m.Day]++
		if perDay[m.Day] > max {
			max = perDay[m.Day]
		}
	}
	if max < 3 {
		max = 3
	}
	return max
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return formatFloat(s)
	default:
		return ""
	}
}

func asInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(math.Round(n))
	case string:
		if parsed, err := strconv.Atoi(n); err == nil {
			return parsed
		}
	}
	return 0
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
