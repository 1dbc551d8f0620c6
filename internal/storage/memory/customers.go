package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/drmweyers/evofithealthprotocol-sub002/internal/storage"
	"github.com/google/uuid"
)

// customersStorage — in-memory реализация CustomersStorage
type customersStorage struct {
	mu        sync.RWMutex
	customers map[uuid.UUID]storage.Customer
}

func newCustomersStorage() *customersStorage {
	return &customersStorage{
		customers: make(map[uuid.UUID]storage.Customer),
	}
}

func (s *customersStorage) ListCustomers(ctx context.Context, ownerUserID string) ([]storage.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	customers := make([]storage.Customer, 0)
	for _, c := range s.customers {
		if c.OwnerUserID == ownerUserID {
			customers = append(customers, c)
		}
	}

	sort.Slice(customers, func(i, j int) bool {
		return customers[i].CreatedAt.Before(customers[j].CreatedAt)
	})

	return customers, nil
}

func (s *customersStorage) GetCustomer(ctx context.Context, id uuid.UUID) (*storage.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.customers[id]
	if !ok {
		return nil, ErrCustomerNotFound
	}

	return &c, nil
}

func (s *customersStorage) CreateCustomer(ctx context.Context, customer *storage.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}

	now := time.Now()
	customer.CreatedAt = now
	customer.UpdatedAt = now

	s.customers[customer.ID] = *customer

	return nil
}

func (s *customersStorage) UpdateCustomer(ctx context.Context, customer *storage.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.customers[customer.ID]
	if !ok {
		return ErrCustomerNotFound
	}

	customer.CreatedAt = existing.CreatedAt
	customer.UpdatedAt = time.Now()
	s.customers[customer.ID] = *customer

	return nil
}

func (s *customersStorage) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers[id]; !ok {
		return ErrCustomerNotFound
	}

	delete(s.customers, id)

	return nil
}
