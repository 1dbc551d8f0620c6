package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/drmweyers/evofithealthprotocol-sub002/internal/storage"
	"github.com/google/uuid"
)

// recipesStorage — Postgres реализация RecipesStorage
type recipesStorage struct {
	pool *pgxpool.Pool
}

func newRecipesStorage(pool *pgxpool.Pool) *recipesStorage {
	return &recipesStorage{pool: pool}
}

func (s *recipesStorage) CreateRecipe(ctx context.Context, recipe *storage.Recipe) error {
	query := `
		INSERT INTO recipes (
			id, name, description, calories_kcal, protein_grams, carbs_grams, fat_grams,
			prep_time_minutes, cook_time_minutes, servings, meal_types, dietary_tags,
			ingredients_json, instructions_text, image_url, is_approved, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18
		)
	`

	if recipe.ID == uuid.Nil {
		recipe.ID = uuid.New()
	}

	now := time.Now()
	recipe.CreatedAt = now
	recipe.UpdatedAt = now

	ingredientsJSON, err := json.Marshal(recipe.Ingredients)
	if err != nil {
		return fmt.Errorf("marshal ingredients: %w", err)
	}

	_, err = s.pool.Exec(ctx, query,
		recipe.ID,
		recipe.Name,
		recipe.Description,
		recipe.CaloriesKcal,
		recipe.ProteinGrams,
		recipe.CarbsGrams,
		recipe.FatGrams,
		recipe.PrepTimeMinutes,
		recipe.CookTimeMinutes,
		recipe.Servings,
		recipe.MealTypes,
		recipe.DietaryTags,
		ingredientsJSON,
		recipe.InstructionsText,
		recipe.ImageURL,
		recipe.IsApproved,
		recipe.CreatedAt,
		recipe.UpdatedAt,
	)

	return err
}

func (s *recipesStorage) GetRecipe(ctx context.Context, id uuid.UUID) (*storage.Recipe, error) {
	query := `
		SELECT id, name, description, calories_kcal, protein_grams, carbs_grams, fat_grams,
		       prep_time_minutes, cook_time_minutes, servings, meal_types, dietary_tags,
		       ingredients_json, instructions_text, image_url, is_approved, created_at, updated_at
		FROM recipes
		WHERE id = $1
	`

	recipe, err := scanRecipe(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	return recipe, nil
}

func (s *recipesStorage) SearchRecipes(ctx context.Context, filter storage.RecipeFilter) ([]storage.Recipe, int, error) {
	// Build dynamic query with optional filters
	baseWhere := "WHERE 1=1"
	args := []interface{}{}
	argNum := 1

	if filter.Approved != nil {
		baseWhere += fmt.Sprintf(" AND is_approved = $%d", argNum)
		args = append(args, *filter.Approved)
		argNum++
	}

	if filter.MealType != "" {
		baseWhere += fmt.Sprintf(" AND $%d ILIKE ANY(meal_types)", argNum)
		args = append(args, filter.MealType)
		argNum++
	}

	if filter.DietaryTag != "" {
		baseWhere += fmt.Sprintf(" AND $%d ILIKE ANY(dietary_tags)", argNum)
		args = append(args, filter.DietaryTag)
		argNum++
	}

	if filter.MaxPrepTime > 0 {
		baseWhere += fmt.Sprintf(" AND prep_time_minutes <= $%d", argNum)
		args = append(args, filter.MaxPrepTime)
		argNum++
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM recipes " + baseWhere
	if err := s.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	query := fmt.Sprintf(`
		SELECT id, name, description, calories_kcal, protein_grams, carbs_grams, fat_grams,
		       prep_time_minutes, cook_time_minutes, servings, meal_types, dietary_tags,
		       ingredients_json, instructions_text, image_url, is_approved, created_at, updated_at
		FROM recipes
		%s
		ORDER BY created_at DESC, name ASC
		LIMIT $%d OFFSET $%d
	`, baseWhere, argNum, argNum+1)
	args = append(args, limit, offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	recipes := make([]storage.Recipe, 0)
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, 0, err
		}
		recipes = append(recipes, *recipe)
	}

	return recipes, total, rows.Err()
}

func (s *recipesStorage) SetRecipeApproval(ctx context.Context, id uuid.UUID, approved bool) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE recipes SET is_approved = $2, updated_at = NOW() WHERE id = $1",
		id, approved,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRecipeNotFound
	}
	return nil
}

func (s *recipesStorage) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM recipes WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRecipeNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecipe(row rowScanner) (*storage.Recipe, error) {
	var r storage.Recipe
	var ingredientsJSON []byte

	err := row.Scan(
		&r.ID,
		&r.Name,
		&r.Description,
		&r.CaloriesKcal,
		&r.ProteinGrams,
		&r.CarbsGrams,
		&r.FatGrams,
		&r.PrepTimeMinutes,
		&r.CookTimeMinutes,
		&r.Servings,
		&r.MealTypes,
		&r.DietaryTags,
		&ingredientsJSON,
		&r.InstructionsText,
		&r.ImageURL,
		&r.IsApproved,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(ingredientsJSON) > 0 {
		if err := json.Unmarshal(ingredientsJSON, &r.Ingredients); err != nil {
			return nil, fmt.Errorf("unmarshal ingredients: %w", err)
		}
	}

	return &r, nil
}
