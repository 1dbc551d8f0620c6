package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/drmweyers/evofithealthprotocol-sub002/internal/mealplan"
	"github.com/google/uuid"
)

// Handlers handles HTTP requests for exports
type Handlers struct {
	service *Service
}

// NewHandlers creates new handlers
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleCreate handles POST /v1/exports
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON")
		return
	}

	exp, err := h.service.CreateExport(r.Context(), req)
	if err != nil {
		var verr *mealplan.ValidationError
		switch {
		case errors.As(err, &verr):
			writeError(w, http.StatusBadRequest, "invalid_meal_plan", verr.Error())
		case errors.Is(err, ErrInvalidFormat):
			writeError(w, http.StatusBadRequest, "invalid_format", "Format must be 'pdf' or 'csv'")
		case errors.Is(err, ErrMissingPlan):
			writeError(w, http.StatusBadRequest, "missing_plan", "Either mealPlanId or mealPlanData is required")
		case errors.Is(err, ErrPlanNotFound):
			writeError(w, http.StatusNotFound, "plan_not_found", "Meal plan not found")
		case errors.Is(err, ErrUnauthorized):
			writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		}
		return
	}

	baseURL := getBaseURL(r)
	downloadURL, err := h.service.GetExportDownloadURL(r.Context(), exp.ID, baseURL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to generate download URL")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toDTO(exp, downloadURL))
}

// HandleList handles GET /v1/exports
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	offset := 0
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	exports, err := h.service.ListExports(r.Context(), limit, offset)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	baseURL := getBaseURL(r)
	dtos := make([]ExportDTO, len(exports))
	for i := range exports {
		downloadURL, _ := h.service.GetExportDownloadURL(r.Context(), exports[i].ID, baseURL)
		dtos[i] = toDTO(&exports[i], downloadURL)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ExportsResponse{Exports: dtos})
}

// HandleDownload handles GET /v1/exports/{id}/download
func (h *Handlers) HandleDownload(w http.ResponseWriter, r *http.Request) {
	exportID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid export ID")
		return
	}

	exp, err := h.service.GetExport(r.Context(), exportID)
	if err != nil {
		writeExportError(w, err)
		return
	}

	if h.service.localMode {
		data, contentType, err := h.service.GetExportData(r.Context(), exportID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		filename := fmt.Sprintf("meal_plan_%s.%s", exp.CreatedAt.Format("2006-01-02"), exp.Format)
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
		w.Header().Set("Content-Length", strconv.FormatInt(int64(len(data)), 10))
		w.Write(data)
		return
	}

	// S3 mode: redirect to presigned URL
	presignedURL, err := h.service.GetExportDownloadURL(r.Context(), exportID, getBaseURL(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to generate download URL")
		return
	}
	http.Redirect(w, r, presignedURL, http.StatusFound)
}

// HandleDelete handles DELETE /v1/exports/{id}
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	exportID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid export ID")
		return
	}

	if err := h.service.DeleteExport(r.Context(), exportID); err != nil {
		writeExportError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Helper functions

func toDTO(exp *Export, downloadURL string) ExportDTO {
	return ExportDTO{
		ID:          exp.ID,
		MealPlanID:  exp.MealPlanID,
		Format:      exp.Format,
		PlanName:    exp.PlanName,
		DownloadURL: downloadURL,
		SizeBytes:   exp.SizeBytes,
		Status:      exp.Status,
		CreatedAt:   exp.CreatedAt,
	}
}

func writeExportError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrExportNotFound):
		writeError(w, http.StatusNotFound, "export_not_found", "Export not found")
	case errors.Is(err, ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

func getBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, r.Host)
}
