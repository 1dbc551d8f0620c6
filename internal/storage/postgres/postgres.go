package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/drmweyers/evofithealthprotocol-sub002/internal/storage"
)

var (
	ErrRecipeNotFound   = errors.New("recipe not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrMealPlanNotFound = errors.New("meal plan not found")
	ErrExportNotFound   = errors.New("export not found")
)

// PostgresStorage — Postgres реализация Storage
type PostgresStorage struct {
	pool *pgxpool.Pool
	*recipesStorage
	*customersStorage
	*mealPlansStorage
	*exportsStorage
}

// New создаёт PostgresStorage и проверяет соединение
func New(ctx context.Context, databaseURL string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	return &PostgresStorage{
		pool:             pool,
		recipesStorage:   newRecipesStorage(pool),
		customersStorage: newCustomersStorage(pool),
		mealPlansStorage: newMealPlansStorage(pool),
		exportsStorage:   newExportsStorage(pool),
	}, nil
}

// Close закрывает пул соединений
func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

var _ storage.Storage = (*PostgresStorage)(nil)
