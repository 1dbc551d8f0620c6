package mealplan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/drmweyers/evofithealthprotocol-sub002/internal/storage"
	"github.com/google/uuid"
)

var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrPlanNotFound     = errors.New("meal plan not found")
	ErrCustomerNotFound = errors.New("customer not found")
)

// Service wires the generation and validation pipelines to persistence.
type Service struct {
	generator *Generator
	recipes   RecipeSource
	plans     storage.MealPlansStorage
	customers storage.CustomersStorage
}

// NewService creates a new meal plan service.
func NewService(generator *Generator, recipes RecipeSource, plans storage.MealPlansStorage, customers storage.CustomersStorage) *Service {
	return &Service{
		generator: generator,
		recipes:   recipes,
		plans:     plans,
		customers: customers,
	}
}

// GenerateResult is what a successful generation returns to the caller.
type GenerateResult struct {
	MealPlan  *MealPlan        `json:"mealPlan"`
	Nutrition NutritionSummary `json:"nutrition"`
}

// GenerateMealPlan validates the parameters, generates a plan and computes
// its nutrition summary. ErrNoRecipes is the only non-validation failure.
func (s *Service) GenerateMealPlan(ctx context.Context, params GenerateParams, requesterID string) (*GenerateResult, error) {
	if requesterID == "" {
		return nil, ErrUnauthorized
	}
	if err := validateGenerateParams(params); err != nil {
		return nil, err
	}

	plan, err := s.generator.Generate(ctx, params, requesterID)
	if err != nil {
		return nil, err
	}

	return &GenerateResult{
		MealPlan:  plan,
		Nutrition: CalculateNutrition(plan),
	}, nil
}

// ValidateResult carries a validated plan together with its pipeline
// outcome, nutrition summary and any normalization warnings.
type ValidateResult struct {
	MealPlan  *MealPlan         `json:"mealPlan"`
	Outcome   ValidationOutcome `json:"outcome"`
	Nutrition NutritionSummary  `json:"nutrition"`
	Warnings  []string          `json:"warnings,omitempty"`
}

// ValidateMealPlanData runs the full pipeline over caller-supplied JSON:
// normalize, enrich, validate, business rules. A *ValidationError return
// means the input is at fault; anything else is internal.
func (s *Service) ValidateMealPlanData(ctx context.Context, raw any) (*ValidateResult, error) {
	input, warnings, err := Normalize(raw)
	if err != nil {
		return nil, err
	}

	input = Enrich(ctx, s.recipes, input)

	plan, outcome, err := Validate(input)
	if err != nil {
		return nil, err
	}

	if err := CheckBusinessRules(plan); err != nil {
		return nil, err
	}

	return &ValidateResult{
		MealPlan:  plan,
		Outcome:   outcome,
		Nutrition: CalculateNutrition(plan),
		Warnings:  warnings,
	}, nil
}

// SaveMealPlan persists a generated or validated plan for the trainer.
func (s *Service) SaveMealPlan(ctx context.Context, ownerUserID string, plan *MealPlan, customerID *uuid.UUID) (*storage.MealPlanRecord, error) {
	if ownerUserID == "" {
		return nil, ErrUnauthorized
	}
	if customerID != nil {
		if err := s.ensureCustomerOwned(ctx, ownerUserID, *customerID); err != nil {
			return nil, err
		}
	}

	body, err := json.Marshal(plan)
	if err != nil {
		return nil, fmt.Errorf("marshal plan: %w", err)
	}

	record := &storage.MealPlanRecord{
		ID:          uuid.New(),
		OwnerUserID: ownerUserID,
		CustomerID:  customerID,
		PlanName:    plan.PlanName,
		FitnessGoal: plan.FitnessGoal,
		Days:        plan.Days,
		MealsPerDay: plan.MealsPerDay,
		PlanJSON:    body,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	if err := s.plans.CreateMealPlan(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// GetMealPlan returns a stored plan; only its owner sees it.
func (s *Service) GetMealPlan(ctx context.Context, ownerUserID string, id uuid.UUID) (*storage.MealPlanRecord, error) {
	record, err := s.plans.GetMealPlan(ctx, id)
	if err != nil {
		return nil, ErrPlanNotFound
	}
	if record.OwnerUserID != ownerUserID {
		return nil, ErrPlanNotFound
	}
	return record, nil
}

// ListMealPlans returns the trainer's stored plans, optionally narrowed to
// one customer.
func (s *Service) ListMealPlans(ctx context.Context, ownerUserID string, customerID *uuid.UUID, limit, offset int) ([]storage.MealPlanRecord, error) {
	if ownerUserID == "" {
		return nil, ErrUnauthorized
	}
	return s.plans.ListMealPlans(ctx, ownerUserID, customerID, limit, offset)
}

// AssignMealPlan links a stored plan to one of the trainer's customers.
func (s *Service) AssignMealPlan(ctx context.Context, ownerUserID string, planID, customerID uuid.UUID) error {
	if _, err := s.GetMealPlan(ctx, ownerUserID, planID); err != nil {
		return err
	}
	if err := s.ensureCustomerOwned(ctx, ownerUserID, customerID); err != nil {
		return err
	}
	return s.plans.AssignMealPlan(ctx, planID, customerID)
}

// DeleteMealPlan removes a stored plan.
func (s *Service) DeleteMealPlan(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	if _, err := s.GetMealPlan(ctx, ownerUserID, id); err != nil {
		return err
	}
	return s.plans.DeleteMealPlan(ctx, id)
}

func (s *Service) ensureCustomerOwned(ctx context.Context, ownerUserID string, customerID uuid.UUID) error {
	customer, err := s.customers.GetCustomer(ctx, customerID)
	if err != nil {
		return ErrCustomerNotFound
	}
	if customer.OwnerUserID != ownerUserID {
		return ErrCustomerNotFound
	}
	return nil
}

// validateGenerateParams checks generation knobs against the same ranges the
// schema validator enforces on finished plans.
func validateGenerateParams(params GenerateParams) error {
	var errs []FieldError
	if params.PlanName == "" {
		errs = append(errs, FieldError{Field: "planName", Message: "Plan name is required"})
	}
	if params.FitnessGoal == "" {
		errs = append(errs, FieldError{Field: "fitnessGoal", Message: "Fitness goal is required"})
	}
	if params.DailyCalorieTarget < 500 || params.DailyCalorieTarget > 10000 {
		errs = append(errs, FieldError{Field: "dailyCalorieTarget", Message: "Daily calorie target must be between 500 and 10000"})
	}
	if params.Days < 1 || params.Days > 365 {
		errs = append(errs, FieldError{Field: "days", Message: "Days must be between 1 and 365"})
	}
	if params.MealsPerDay < 1 || params.MealsPerDay > 10 {
		errs = append(errs, FieldError{Field: "mealsPerDay", Message: "Meals per day must be between 1 and 10"})
	}
	if params.MaxIngredients < 0 {
		errs = append(errs, FieldError{Field: "maxIngredients", Message: "Max ingredients must not be negative"})
	}
	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// StoreSource adapts the storage recipe catalog to the engine's RecipeSource.
// Engine-side identifiers are opaque strings; anything that does not parse
// as a UUID is treated as unknown.
type StoreSource struct {
	store storage.RecipesStorage
}

// NewStoreSource wraps a recipes storage as a RecipeSource.
func NewStoreSource(store storage.RecipesStorage) *StoreSource {
	return &StoreSource{store: store}
}

func (s *StoreSource) SearchRecipes(ctx context.Context, filter storage.RecipeFilter) ([]storage.Recipe, error) {
	recipes, _, err := s.store.SearchRecipes(ctx, filter)
	return recipes, err
}

func (s *StoreSource) GetRecipe(ctx context.Context, id string) (*storage.Recipe, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}
	return s.store.GetRecipe(ctx, parsed)
}
