package customers

import (
	"time"

	"github.com/google/uuid"
)

// CustomerDTO — DTO для API
type CustomerDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	FitnessGoal string    `json:"fitnessGoal"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CustomersResponse — ответ для GET /v1/customers
type CustomersResponse struct {
	Customers []CustomerDTO `json:"customers"`
}

// CreateCustomerRequest — запрос для POST /v1/customers
type CreateCustomerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	FitnessGoal string `json:"fitnessGoal"`
}

// UpdateCustomerRequest — запрос для PATCH /v1/customers/{id}
type UpdateCustomerRequest struct {
	Name        *string `json:"name,omitempty"`
	Email       *string `json:"email,omitempty"`
	FitnessGoal *string `json:"fitnessGoal,omitempty"`
}
