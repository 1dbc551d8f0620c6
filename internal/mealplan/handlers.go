package mealplan

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/drmweyers/evofithealthprotocol-sub002/internal/storage"
	"github.com/drmweyers/evofithealthprotocol-sub002/internal/userctx"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for meal plan generation, validation and
// persistence.
type Handler struct {
	service *Service
}

// NewHandler creates a new meal plan handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleGenerate handles POST /v1/meal-plans/generate
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := userctx.GetUserID(ctx)
	if !ok || userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var params GenerateParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	result, err := h.service.GenerateMealPlan(ctx, params, userID)
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			writeError(w, http.StatusBadRequest, "invalid_request", verr.Error())
		case errors.Is(err, ErrNoRecipes):
			writeGenerationFailure(w, err)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to generate meal plan")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"mealPlan":  result.MealPlan,
		"nutrition": result.Nutrition,
		"message":   "Meal plan generated successfully",
		"completed": true,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleValidate handles POST /v1/meal-plans/validate
func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var raw any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	result, err := h.service.ValidateMealPlanData(ctx, raw)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, "invalid_request", verr.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to validate meal plan")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"mealPlan":  result.MealPlan,
		"outcome":   result.Outcome.String(),
		"nutrition": result.Nutrition,
		"warnings":  result.Warnings,
	})
}

// HandleSave handles POST /v1/meal-plans
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := userctx.GetUserID(ctx)
	if !ok || userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var req struct {
		MealPlan   json.RawMessage `json:"mealPlan"`
		CustomerID *uuid.UUID      `json:"customerId,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.MealPlan) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	// Stored plans go through the same pipeline as uploaded ones.
	var raw any
	if err := json.Unmarshal(req.MealPlan, &raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid meal plan JSON")
		return
	}
	validated, err := h.service.ValidateMealPlanData(ctx, raw)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, "invalid_request", verr.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to save meal plan")
		return
	}

	record, err := h.service.SaveMealPlan(ctx, userID, validated.MealPlan, req.CustomerID)
	if err != nil {
		if errors.Is(err, ErrCustomerNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "Customer not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to save meal plan")
		return
	}

	writeJSON(w, http.StatusCreated, toRecordDTO(record))
}

// HandleList handles GET /v1/meal-plans?customer_id=&limit=&offset=
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := userctx.GetUserID(ctx)
	if !ok || userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var customerID *uuid.UUID
	if raw := r.URL.Query().Get("customer_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "customer_id must be a UUID")
			return
		}
		customerID = &parsed
	}

	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	records, err := h.service.ListMealPlans(ctx, userID, customerID, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to list meal plans")
		return
	}

	items := make([]MealPlanRecordDTO, len(records))
	for i := range records {
		items[i] = toRecordDTO(&records[i])
	}
	writeJSON(w, http.StatusOK, map[string]any{"mealPlans": items})
}

// HandleGet handles GET /v1/meal-plans/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := userctx.GetUserID(ctx)
	if !ok || userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "id must be a UUID")
		return
	}

	record, err := h.service.GetMealPlan(ctx, userID, id)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "Meal plan not found")
		return
	}

	dto := toRecordDTO(record)
	dto.MealPlan = json.RawMessage(record.PlanJSON)
	writeJSON(w, http.StatusOK, dto)
}

// HandleAssign handles POST /v1/meal-plans/{id}/assign
func (h *Handler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := userctx.GetUserID(ctx)
	if !ok || userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	planID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "id must be a UUID")
		return
	}

	var req struct {
		CustomerID uuid.UUID `json:"customerId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CustomerID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "customerId is required")
		return
	}

	if err := h.service.AssignMealPlan(ctx, userID, planID, req.CustomerID); err != nil {
		switch {
		case errors.Is(err, ErrPlanNotFound):
			writeError(w, http.StatusNotFound, "not_found", "Meal plan not found")
		case errors.Is(err, ErrCustomerNotFound):
			writeError(w, http.StatusNotFound, "not_found", "Customer not found")
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to assign meal plan")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete handles DELETE /v1/meal-plans/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := userctx.GetUserID(ctx)
	if !ok || userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "id must be a UUID")
		return
	}

	if err := h.service.DeleteMealPlan(ctx, userID, id); err != nil {
		if errors.Is(err, ErrPlanNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "Meal plan not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to delete meal plan")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MealPlanRecordDTO is the persisted-plan view returned to clients.
type MealPlanRecordDTO struct {
	ID          uuid.UUID       `json:"id"`
	CustomerID  *uuid.UUID      `json:"customerId,omitempty"`
	PlanName    string          `json:"planName"`
	FitnessGoal string          `json:"fitnessGoal"`
	Days        int             `json:"days"`
	MealsPerDay int             `json:"mealsPerDay"`
	MealPlan    json.RawMessage `json:"mealPlan,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func toRecordDTO(record *storage.MealPlanRecord) MealPlanRecordDTO {
	return MealPlanRecordDTO{
		ID:          record.ID,
		CustomerID:  record.CustomerID,
		PlanName:    record.PlanName,
		FitnessGoal: record.FitnessGoal,
		Days:        record.Days,
		MealsPerDay: record.MealsPerDay,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

// writeGenerationFailure is the catalog-problem response shape, distinct
// from validation failures.
func writeGenerationFailure(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, map[string]any{
		"error":   "Meal plan generation failed",
		"details": err.Error(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
