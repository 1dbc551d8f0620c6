package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/drmweyers/evofithealthprotocol-sub002/internal/storage"
	"github.com/google/uuid"
)

// customersStorage — Postgres реализация CustomersStorage
type customersStorage struct {
	pool *pgxpool.Pool
}

func newCustomersStorage(pool *pgxpool.Pool) *customersStorage {
	return &customersStorage{pool: pool}
}

func (s *customersStorage) ListCustomers(ctx context.Context, ownerUserID string) ([]storage.Customer, error) {
	query := `
		SELECT id, owner_user_id, name, email, fitness_goal, created_at, updated_at
		FROM customers
		WHERE owner_user_id = $1
		ORDER BY created_at ASC
	`

	rows, err := s.pool.Query(ctx, query, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := make([]storage.Customer, 0)
	for rows.Next() {
		var c storage.Customer
		if err := rows.Scan(&c.ID, &c.OwnerUserID, &c.Name, &c.Email, &c.FitnessGoal, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}

	return customers, rows.Err()
}

func (s *customersStorage) GetCustomer(ctx context.Context, id uuid.UUID) (*storage.Customer, error) {
	query := `
		SELECT id, owner_user_id, name, email, fitness_goal, created_at, updated_at
		FROM customers
		WHERE id = $1
	`

	var c storage.Customer
	err := s.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.OwnerUserID, &c.Name, &c.Email, &c.FitnessGoal, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	return &c, nil
}

func (s *customersStorage) CreateCustomer(ctx context.Context, customer *storage.Customer) error {
	query := `
		INSERT INTO customers (id, owner_user_id, name, email, fitness_goal, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}

	now := time.Now()
	customer.CreatedAt = now
	customer.UpdatedAt = now

	_, err := s.pool.Exec(ctx, query,
		customer.ID,
		customer.OwnerUserID,
		customer.Name,
		customer.Email,
		customer.FitnessGoal,
		customer.CreatedAt,
		customer.UpdatedAt,
	)

	return err
}

func (s *customersStorage) UpdateCustomer(ctx context.Context, customer *storage.Customer) error {
	query := `
		UPDATE customers
		SET name = $2, email = $3, fitness_goal = $4, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := s.pool.Exec(ctx, query, customer.ID, customer.Name, customer.Email, customer.FitnessGoal)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCustomerNotFound
	}

	return nil
}

func (s *customersStorage) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM customers WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCustomerNotFound
	}
	return nil
}
