package customers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/drmweyers/evofithealthprotocol-sub002/internal/storage"
	"github.com/drmweyers/evofithealthprotocol-sub002/internal/userctx"
	"github.com/google/uuid"
)

var (
	ErrEmptyName    = errors.New("name cannot be empty")
	ErrInvalidEmail = errors.New("invalid email")
	ErrNotFound     = errors.New("customer not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// Service содержит бизнес-логику клиентов тренера
type Service struct {
	storage storage.CustomersStorage
}

// NewService создаёт новый сервис
func NewService(st storage.CustomersStorage) *Service {
	return &Service{storage: st}
}

// ListCustomers возвращает клиентов текущего тренера
func (s *Service) ListCustomers(ctx context.Context) ([]CustomerDTO, error) {
	userID := userIDFromContext(ctx)
	if userID == "" {
		return nil, ErrUnauthorized
	}

	customers, err := s.storage.ListCustomers(ctx, userID)
	if err != nil {
		return nil, err
	}

	dtos := make([]CustomerDTO, 0, len(customers))
	for _, c := range customers {
		dtos = append(dtos, toDTO(c))
	}
	return dtos, nil
}

// GetCustomer возвращает клиента по ID
func (s *Service) GetCustomer(ctx context.Context, id uuid.UUID) (*CustomerDTO, error) {
	userID := userIDFromContext(ctx)
	if userID == "" {
		return nil, ErrUnauthorized
	}

	customer, err := s.storage.GetCustomer(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if customer.OwnerUserID != userID {
		return nil, ErrNotFound
	}

	dto := toDTO(*customer)
	return &dto, nil
}

// CreateCustomer создаёт нового клиента
func (s *Service) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*CustomerDTO, error) {
	userID := userIDFromContext(ctx)
	if userID == "" {
		return nil, ErrUnauthorized
	}

	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}
	if req.Email != "" && !strings.Contains(req.Email, "@") {
		return nil, ErrInvalidEmail
	}

	now := time.Now().UTC()
	customer := &storage.Customer{
		ID:          uuid.New(),
		OwnerUserID: userID,
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.TrimSpace(req.Email),
		FitnessGoal: strings.TrimSpace(req.FitnessGoal),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.storage.CreateCustomer(ctx, customer); err != nil {
		return nil, err
	}

	dto := toDTO(*customer)
	return &dto, nil
}

// UpdateCustomer обновляет данные клиента
func (s *Service) UpdateCustomer(ctx context.Context, id uuid.UUID, req UpdateCustomerRequest) (*CustomerDTO, error) {
	userID := userIDFromContext(ctx)
	if userID == "" {
		return nil, ErrUnauthorized
	}

	customer, err := s.storage.GetCustomer(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if customer.OwnerUserID != userID {
		return nil, ErrNotFound
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrEmptyName
		}
		customer.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		if *req.Email != "" && !strings.Contains(*req.Email, "@") {
			return nil, ErrInvalidEmail
		}
		customer.Email = strings.TrimSpace(*req.Email)
	}
	if req.FitnessGoal != nil {
		customer.FitnessGoal = strings.TrimSpace(*req.FitnessGoal)
	}
	customer.UpdatedAt = time.Now().UTC()

	if err := s.storage.UpdateCustomer(ctx, customer); err != nil {
		return nil, err
	}

	dto := toDTO(*customer)
	return &dto, nil
}

// DeleteCustomer удаляет клиента
func (s *Service) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	userID := userIDFromContext(ctx)
	if userID == "" {
		return ErrUnauthorized
	}

	customer, err := s.storage.GetCustomer(ctx, id)
	if err != nil {
		return ErrNotFound
	}
	if customer.OwnerUserID != userID {
		return ErrNotFound
	}

	return s.storage.DeleteCustomer(ctx, id)
}

// toDTO конвертирует storage.Customer в CustomerDTO
func toDTO(c storage.Customer) CustomerDTO {
	return CustomerDTO{
		ID:          c.ID,
		Name:        c.Name,
		Email:       c.Email,
		FitnessGoal: c.FitnessGoal,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func userIDFromContext(ctx context.Context) string {
	if userID, ok := userctx.GetUserID(ctx); ok && strings.TrimSpace(userID) != "" {
		return userID
	}
	return ""
}
