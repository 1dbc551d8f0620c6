package memory

import (
	"errors"

	"github.com/drmweyers/evofithealthprotocol-sub002/internal/storage"
)

var (
	ErrRecipeNotFound   = errors.New("recipe not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrMealPlanNotFound = errors.New("meal plan not found")
	ErrExportNotFound   = errors.New("export not found")
)

// MemoryStorage — in-memory реализация Storage
type MemoryStorage struct {
	*recipesStorage
	*customersStorage
	*mealPlansStorage
	*exportsStorage
}

// New создаёт новый MemoryStorage
func New() *MemoryStorage {
	return &MemoryStorage{
		recipesStorage:   newRecipesStorage(),
		customersStorage: newCustomersStorage(),
		mealPlansStorage: newMealPlansStorage(),
		exportsStorage:   newExportsStorage(),
	}
}

// Close — no-op для памяти
func (m *MemoryStorage) Close() error {
	return nil
}

var _ storage.Storage = (*MemoryStorage)(nil)
