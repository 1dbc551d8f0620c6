package mealplan

import (
	"errors"
	"strings"
	"testing"
)

func validInput() PlanInput {
	return PlanInput{
		ID:                 "p1",
		PlanName:           "Test Plan",
		FitnessGoal:        "maintenance",
		DailyCalorieTarget: 2000,
		Days:               1,
		MealsPerDay:        1,
		Meals: []MealInput{
			{
				Day:        1,
				MealNumber: 1,
				MealType:   "lunch",
				Recipe: &RecipeSnapshot{
					ID:           "r1",
					Name:         "Bowl",
					CaloriesKcal: 500,
					ProteinGrams: "30",
					CarbsGrams:   "50",
					FatGrams:     "15",
					Servings:     1,
					Ingredients:  []Ingredient{},
				},
			},
		},
	}
}

func TestValidateStrictPass(t *testing.T) {
	plan, outcome, err := Validate(validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != StrictOK {
		t.Errorf("expected strict outcome, got %v", outcome)
	}
	if plan.PlanName != "Test Plan" || len(plan.Meals) != 1 {
		t.Errorf("built plan mismatch: %+v", plan)
	}
}

func TestValidateLenientFillsRepresentationalGaps(t *testing.T) {
	input := validInput()
	input.Meals[0].MealType = ""
	input.Meals[0].Recipe.Servings = 0
	input.Meals[0].Recipe.ProteinGrams = ""

	plan, outcome, err := Validate(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != LenientOK {
		t.Errorf("expected lenient outcome, got %v", outcome)
	}
	if plan.Meals[0].MealType != "meal" {
		t.Errorf("expected defaulted meal type, got %q", plan.Meals[0].MealType)
	}
	if plan.Meals[0].Recipe.Servings != 1 {
		t.Errorf("expected defaulted servings 1, got %d", plan.Meals[0].Recipe.Servings)
	}
	if plan.Meals[0].Recipe.ProteinGrams != "0" {
		t.Errorf("expected defaulted protein '0', got %q", plan.Meals[0].Recipe.ProteinGrams)
	}
}

func TestValidateLeniencyNeverWidensRanges(t *testing.T) {
	input := validInput()
	input.DailyCalorieTarget = 200 // below hard floor in both passes

	_, _, err := Validate(input)
	if err == nil {
		t.Fatal("expected error for out-of-range calorie target")
	}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
}

func TestValidateRequiresAtLeastOneMeal(t *testing.T) {
	input := validInput()
	input.Meals = nil

	_, _, err := Validate(input)
	if err == nil {
		t.Fatal("expected error for empty meals")
	}
	if !strings.Contains(err.Error(), "At least one meal is required") {
		t.Errorf("expected 'At least one meal is required' in error, got %q", err.Error())
	}
}

func TestValidateCollectsAllFieldErrors(t *testing.T) {
	input := validInput()
	input.PlanName = ""
	input.FitnessGoal = ""
	input.Meals[0].Recipe.CaloriesKcal = 9000

	_, _, err := Validate(input)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(verr.Fields) < 3 {
		t.Errorf("expected at least 3 field errors, got %d: %v", len(verr.Fields), verr.Fields)
	}
}

func TestValidateOutcomeString(t *testing.T) {
	if StrictOK.String() != "strict" {
		t.Errorf("unexpected strict label %q", StrictOK.String())
	}
	if LenientOK.String() != "lenient" {
		t.Errorf("unexpected lenient label %q", LenientOK.String())
	}
}

func TestCheckBusinessRulesDayBeyondDuration(t *testing.T) {
	input := validInput()
	input.Days = 3
	input.Meals[0].Day = 5

	plan := buildPlan(input)
	err := CheckBusinessRules(plan)
	if err == nil {
		t.Fatal("expected error for meal day beyond plan duration")
	}
	if !strings.Contains(err.Error(), "exceeds plan duration") {
		t.Errorf("unexpected error message: %q", err.Error())
	}
}

func TestCheckBusinessRulesUnusualCaloriesOnlyWarn(t *testing.T) {
	input := validInput()
	input.Meals[0].Recipe.CaloriesKcal = 100 // day total far below 800

	plan := buildPlan(input)
	if err := CheckBusinessRules(plan); err != nil {
		t.Errorf("low day total must warn, not fail: %v", err)
	}
}
