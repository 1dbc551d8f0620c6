package export

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Export represents a generated meal plan document
type Export struct {
	ID         uuid.UUID
	MealPlanID *uuid.UUID
	Format     string // "pdf" or "csv"
	PlanName   string
	ObjectKey  *string
	SizeBytes  int64
	Status     string // "ready" or "failed"
	Error      *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Data       []byte // Only used in memory mode
}

// CreateExportRequest is the request to export a meal plan. Exactly one of
// MealPlanID (a stored plan) or MealPlanData (inline JSON, validated on the
// way in) must be set.
type CreateExportRequest struct {
	Format       string          `json:"format"` // "pdf" or "csv"
	MealPlanID   *uuid.UUID      `json:"mealPlanId,omitempty"`
	MealPlanData json.RawMessage `json:"mealPlanData,omitempty"`
}

// ExportDTO is the response representation of an export
type ExportDTO struct {
	ID          uuid.UUID  `json:"id"`
	MealPlanID  *uuid.UUID `json:"mealPlanId,omitempty"`
	Format      string     `json:"format"`
	PlanName    string     `json:"planName"`
	DownloadURL string     `json:"downloadUrl"`
	SizeBytes   int64      `json:"sizeBytes"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// ExportsResponse is the list response
type ExportsResponse struct {
	Exports []ExportDTO `json:"exports"`
}

// Constants for validation
const (
	FormatPDF = "pdf"
	FormatCSV = "csv"

	StatusReady  = "ready"
	StatusFailed = "failed"
)
