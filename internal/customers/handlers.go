package customers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
)

// Handler содержит HTTP обработчики для клиентов
type Handler struct {
	service *Service
}

// NewHandler создаёт новый handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleList обрабатывает GET /v1/customers
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	customers, err := h.service.ListCustomers(r.Context())
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			h.sendError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
			return
		}
		h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to list customers")
		return
	}

	h.sendJSON(w, http.StatusOK, CustomersResponse{Customers: customers})
}

// HandleGet обрабатывает GET /v1/customers/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_id", "Invalid customer ID")
		return
	}

	customer, err := h.service.GetCustomer(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, "Failed to get customer")
		return
	}

	h.sendJSON(w, http.StatusOK, customer)
}

// HandleCreate обрабатывает POST /v1/customers
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	customer, err := h.service.CreateCustomer(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, err, "Failed to create customer")
		return
	}

	h.sendJSON(w, http.StatusCreated, customer)
}

// HandleUpdate обрабатывает PATCH /v1/customers/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_id", "Invalid customer ID")
		return
	}

	var req UpdateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	customer, err := h.service.UpdateCustomer(r.Context(), id, req)
	if err != nil {
		h.handleServiceError(w, err, "Failed to update customer")
		return
	}

	h.sendJSON(w, http.StatusOK, customer)
}

// HandleDelete обрабатывает DELETE /v1/customers/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_id", "Invalid customer ID")
		return
	}

	if err := h.service.DeleteCustomer(r.Context(), id); err != nil {
		h.handleServiceError(w, err, "Failed to delete customer")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		h.sendError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
	case errors.Is(err, ErrNotFound):
		h.sendError(w, http.StatusNotFound, "not_found", "Customer not found")
	case errors.Is(err, ErrEmptyName):
		h.sendError(w, http.StatusBadRequest, "empty_name", "Name cannot be empty")
	case errors.Is(err, ErrInvalidEmail):
		h.sendError(w, http.StatusBadRequest, "invalid_email", "Email must contain @")
	default:
		h.sendError(w, http.StatusInternalServerError, "internal_error", fallback)
	}
}

func (h *Handler) sendJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (h *Handler) sendError(w http.ResponseWriter, status int, code, message string) {
	h.sendJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
