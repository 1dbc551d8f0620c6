package recipes

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/drmweyers/evofithealthprotocol-sub002/internal/storage"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for the recipe catalog.
type Handler struct {
	service *Service
}

// NewHandler creates a new recipes handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleSearch handles GET /v1/recipes?approved=&meal_type=&dietary_tag=&max_prep_time=&limit=&page=
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	filter := storage.RecipeFilter{
		MealType:   strings.TrimSpace(q.Get("meal_type")),
		DietaryTag: strings.TrimSpace(q.Get("dietary_tag")),
	}

	if raw := q.Get("approved"); raw != "" {
		approved, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "approved must be true or false")
			return
		}
		filter.Approved = &approved
	}
	if raw := q.Get("max_prep_time"); raw != "" {
		maxPrep, err := strconv.Atoi(raw)
		if err != nil || maxPrep < 0 {
			writeError(w, http.StatusBadRequest, "invalid_request", "max_prep_time must be a non-negative integer")
			return
		}
		filter.MaxPrepTime = maxPrep
	}
	if raw := q.Get("limit"); raw != "" {
		filter.Limit, _ = strconv.Atoi(raw)
	}
	if raw := q.Get("page"); raw != "" {
		filter.Page, _ = strconv.Atoi(raw)
	}

	result, err := h.service.Search(ctx, filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to search recipes")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleGet handles GET /v1/recipes/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "id must be a UUID")
		return
	}

	recipe, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "Recipe not found")
		return
	}

	writeJSON(w, http.StatusOK, recipe)
}

// HandleCreate handles POST /v1/recipes
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	recipe, err := h.service.Create(r.Context(), req)
	if err != nil {
		errMsg := err.Error()
		if strings.HasPrefix(errMsg, "validation failed: ") {
			writeError(w, http.StatusBadRequest, "invalid_request", strings.TrimPrefix(errMsg, "validation failed: "))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to create recipe")
		return
	}

	writeJSON(w, http.StatusCreated, recipe)
}

// HandleApprove handles PATCH /v1/recipes/{id}/approve
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "id must be a UUID")
		return
	}

	// Default is approve; {"approved": false} revokes.
	approved := true
	if r.Body != nil {
		var req struct {
			Approved *bool `json:"approved"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.Approved != nil {
			approved = *req.Approved
		}
	}

	if err := h.service.SetApproval(r.Context(), id, approved); err != nil {
		if errors.Is(err, ErrRecipeNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "Recipe not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to update recipe approval")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete handles DELETE /v1/recipes/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "id must be a UUID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrRecipeNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "Recipe not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to delete recipe")
		return
	}

	w.WriteHeader(http.StatusNoContent)
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
