package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Ingredient is one entry of a recipe's ingredient list.
// Amount is kept as a string: it is usually numeric ("1.5") but free text
// like "pinch" is allowed.
type Ingredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
}

// Recipe is a catalog recipe. Macro grams are stored as decimal strings
// (the catalog importer feeds them through as-is).
type Recipe struct {
	ID               uuid.UUID
	Name             string
	Description      string
	CaloriesKcal     int
	ProteinGrams     string
	CarbsGrams       string
	FatGrams         string
	PrepTimeMinutes  int
	CookTimeMinutes  int
	Servings         int
	MealTypes        []string
	DietaryTags      []string
	Ingredients      []Ingredient
	InstructionsText string
	ImageURL         string
	IsApproved       bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// RecipeFilter describes a recipe search. Zero values mean "no filter".
type RecipeFilter struct {
	Approved    *bool
	MealType    string
	DietaryTag  string
	MaxPrepTime int // minutes, 0 = unlimited
	Limit       int
	Page        int // 1-based
}

// RecipesStorage — интерфейс для работы с каталогом рецептов
type RecipesStorage interface {
	// CreateRecipe создаёт новый рецепт
	CreateRecipe(ctx context.Context, recipe *Recipe) error

	// GetRecipe возвращает рецепт по ID
	GetRecipe(ctx context.Context, id uuid.UUID) (*Recipe, error)

	// SearchRecipes возвращает рецепты по фильтру и общее количество
	SearchRecipes(ctx context.Context, filter RecipeFilter) ([]Recipe, int, error)

	// SetRecipeApproval обновляет флаг одобрения
	SetRecipeApproval(ctx context.Context, id uuid.UUID, approved bool) error

	// DeleteRecipe удаляет рецепт
	DeleteRecipe(ctx context.Context, id uuid.UUID) error
}

// Customer is a trainer-owned client profile. OwnerUserID is the trainer's
// user id from the auth token.
type Customer struct {
	ID          uuid.UUID
	OwnerUserID string
	Name        string
	Email       string
	FitnessGoal string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CustomersStorage — интерфейс для работы с клиентами тренера
type CustomersStorage interface {
	// ListCustomers возвращает клиентов тренера
	ListCustomers(ctx context.Context, ownerUserID string) ([]Customer, error)

	// GetCustomer возвращает клиента по ID
	GetCustomer(ctx context.Context, id uuid.UUID) (*Customer, error)

	// CreateCustomer создаёт нового клиента
	CreateCustomer(ctx context.Context, customer *Customer) error

	// UpdateCustomer обновляет клиента
	UpdateCustomer(ctx context.Context, customer *Customer) error

	// DeleteCustomer удаляет клиента
	DeleteCustomer(ctx context.Context, id uuid.UUID) error
}

// MealPlanRecord is a persisted generated/validated meal plan. The plan body
// itself is stored as JSON — the engine owns its shape, storage does not
// look inside it.
type MealPlanRecord struct {
	ID          uuid.UUID
	OwnerUserID string
	CustomerID  *uuid.UUID // nil until assigned
	PlanName    string
	FitnessGoal string
	Days        int
	MealsPerDay int
	PlanJSON    []byte
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MealPlansStorage — интерфейс для работы с сохранёнными планами питания
type MealPlansStorage interface {
	// CreateMealPlan сохраняет план
	CreateMealPlan(ctx context.Context, plan *MealPlanRecord) error

	// GetMealPlan возвращает план по ID
	GetMealPlan(ctx context.Context, id uuid.UUID) (*MealPlanRecord, error)

	// ListMealPlans возвращает планы тренера (опционально по клиенту) с пагинацией
	ListMealPlans(ctx context.Context, ownerUserID string, customerID *uuid.UUID, limit, offset int) ([]MealPlanRecord, error)

	// AssignMealPlan привязывает план к клиенту
	AssignMealPlan(ctx context.Context, id uuid.UUID, customerID uuid.UUID) error

	// DeleteMealPlan удаляет план
	DeleteMealPlan(ctx context.Context, id uuid.UUID) error
}

// ExportMeta — метаданные экспортированного документа
type ExportMeta struct {
	ID          uuid.UUID
	OwnerUserID string
	MealPlanID  *uuid.UUID
	Format      string // "pdf" or "csv"
	PlanName    string
	ObjectKey   *string // S3 object key (NULL for memory mode)
	SizeBytes   int64
	Status      string // "ready" or "failed"
	Error       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Data        []byte // Only used in memory mode (not stored in DB)
}

// ExportsStorage — интерфейс для работы с экспортами
type ExportsStorage interface {
	// CreateExport создаёт запись экспорта (metadata + optional data for memory mode)
	CreateExport(ctx context.Context, export *ExportMeta) error

	// GetExport возвращает экспорт по ID
	GetExport(ctx context.Context, id uuid.UUID) (*ExportMeta, error)

	// ListExports возвращает список экспортов тренера с пагинацией
	ListExports(ctx context.Context, ownerUserID string, limit, offset int) ([]ExportMeta, error)

	// DeleteExport удаляет экспорт (metadata и данные)
	DeleteExport(ctx context.Context, id uuid.UUID) error
}

// Storage объединяет все хранилища приложения
type Storage interface {
	RecipesStorage
	CustomersStorage
	MealPlansStorage
	ExportsStorage

	// Close закрывает соединение (для Postgres)
	Close() error
}
