package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/drmweyers/evofithealthprotocol-sub002/internal/storage"
	"github.com/google/uuid"
)

// mealPlansStorage — in-memory реализация MealPlansStorage
type mealPlansStorage struct {
	mu    sync.RWMutex
	plans map[uuid.UUID]storage.MealPlanRecord
	// index for owner lookups
	byOwner map[string][]uuid.UUID
}

func newMealPlansStorage() *mealPlansStorage {
	return &mealPlansStorage{
		plans:   make(map[uuid.UUID]storage.MealPlanRecord),
		byOwner: make(map[string][]uuid.UUID),
	}
}

func (s *mealPlansStorage) CreateMealPlan(ctx context.Context, plan *storage.MealPlanRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}

	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	s.plans[plan.ID] = *plan
	s.byOwner[plan.OwnerUserID] = append(s.byOwner[plan.OwnerUserID], plan.ID)

	return nil
}

func (s *mealPlansStorage) GetMealPlan(ctx context.Context, id uuid.UUID) (*storage.MealPlanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.plans[id]
	if !ok {
		return nil, ErrMealPlanNotFound
	}

	return &p, nil
}

func (s *mealPlansStorage) ListMealPlans(ctx context.Context, ownerUserID string, customerID *uuid.UUID, limit, offset int) ([]storage.MealPlanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var filtered []storage.MealPlanRecord
	for _, id := range s.byOwner[ownerUserID] {
		p, ok := s.plans[id]
		if !ok {
			continue
		}
		if customerID != nil {
			if p.CustomerID == nil || *p.CustomerID != *customerID {
				continue
			}
		}
		filtered = append(filtered, p)
	}

	// Most recent first
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	if limit <= 0 {
		limit = 50
	}
	if offset > len(filtered) {
		return []storage.MealPlanRecord{}, nil
	}
	end := offset + limit
	if end > len(filtered) {
		end = len(filtered)
	}

	return filtered[offset:end], nil
}

func (s *mealPlansStorage) AssignMealPlan(ctx context.Context, id uuid.UUID, customerID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.plans[id]
	if !ok {
		return ErrMealPlanNotFound
	}

	p.CustomerID = &customerID
	p.UpdatedAt = time.Now().UTC()
	s.plans[id] = p

	return nil
}

func (s *mealPlansStorage) DeleteMealPlan(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.plans[id]
	if !ok {
		return ErrMealPlanNotFound
	}

	delete(s.plans, id)

	ids := s.byOwner[p.OwnerUserID]
	for i, pid := range ids {
		if pid == id {
			s.byOwner[p.OwnerUserID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}

	return nil
}
