package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/drmweyers/evofithealthprotocol-sub002/internal/storage"
	"github.com/google/uuid"
)

// mealPlansStorage — Postgres реализация MealPlansStorage
type mealPlansStorage struct {
	pool *pgxpool.Pool
}

func newMealPlansStorage(pool *pgxpool.Pool) *mealPlansStorage {
	return &mealPlansStorage{pool: pool}
}

func (s *mealPlansStorage) CreateMealPlan(ctx context.Context, plan *storage.MealPlanRecord) error {
	query := `
		INSERT INTO meal_plans (
			id, owner_user_id, customer_id, plan_name, fitness_goal,
			days, meals_per_day, plan_json, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}

	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	_, err := s.pool.Exec(ctx, query,
		plan.ID,
		plan.OwnerUserID,
		plan.CustomerID,
		plan.PlanName,
		plan.FitnessGoal,
		plan.Days,
		plan.MealsPerDay,
		plan.PlanJSON,
		plan.CreatedAt,
		plan.UpdatedAt,
	)

	return err
}

func (s *mealPlansStorage) GetMealPlan(ctx context.Context, id uuid.UUID) (*storage.MealPlanRecord, error) {
	query := `
		SELECT id, owner_user_id, customer_id, plan_name, fitness_goal,
		       days, meals_per_day, plan_json, created_at, updated_at
		FROM meal_plans
		WHERE id = $1
	`

	var p storage.MealPlanRecord
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.OwnerUserID,
		&p.CustomerID,
		&p.PlanName,
		&p.FitnessGoal,
		&p.Days,
		&p.MealsPerDay,
		&p.PlanJSON,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMealPlanNotFound
		}
		return nil, err
	}

	return &p, nil
}

func (s *mealPlansStorage) ListMealPlans(ctx context.Context, ownerUserID string, customerID *uuid.UUID, limit, offset int) ([]storage.MealPlanRecord, error) {
	where := "WHERE owner_user_id = $1"
	args := []interface{}{ownerUserID}
	argNum := 2

	if customerID != nil {
		where += fmt.Sprintf(" AND customer_id = $%d", argNum)
		args = append(args, *customerID)
		argNum++
	}

	if limit <= 0 {
		limit = 50
	}

	query := fmt.Sprintf(`
		SELECT id, owner_user_id, customer_id, plan_name, fitness_goal,
		       days, meals_per_day, plan_json, created_at, updated_at
		FROM meal_plans
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, argNum, argNum+1)
	args = append(args, limit, offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := make([]storage.MealPlanRecord, 0)
	for rows.Next() {
		var p storage.MealPlanRecord
		if err := rows.Scan(
			&p.ID,
			&p.OwnerUserID,
			&p.CustomerID,
			&p.PlanName,
			&p.FitnessGoal,
			&p.Days,
			&p.MealsPerDay,
			&p.PlanJSON,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}

	return plans, rows.Err()
}

func (s *mealPlansStorage) AssignMealPlan(ctx context.Context, id uuid.UUID, customerID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE meal_plans SET customer_id = $2, updated_at = NOW() WHERE id = $1",
		id, customerID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrMealPlanNotFound
	}
	return nil
}

func (s *mealPlansStorage) DeleteMealPlan(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM meal_plans WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrMealPlanNotFound
	}
	return nil
}
