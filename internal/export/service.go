package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/drmweyers/evofithealthprotocol-sub002/internal/blob"
	"github.com/drmweyers/evofithealthprotocol-sub002/internal/mealplan"
	"github.com/drmweyers/evofithealthprotocol-sub002/internal/storage"
	"github.com/drmweyers/evofithealthprotocol-sub002/internal/userctx"
	"github.com/google/uuid"
)

// Errors
var (
	ErrInvalidFormat  = fmt.Errorf("invalid format")
	ErrMissingPlan    = fmt.Errorf("either mealPlanId or mealPlanData is required")
	ErrPlanNotFound   = fmt.Errorf("meal plan not found")
	ErrExportNotFound = fmt.Errorf("export not found")
	ErrUnauthorized   = fmt.Errorf("unauthorized")
)

// Service handles export business logic
type Service struct {
	exportsStorage  storage.ExportsStorage
	plansStorage    storage.MealPlansStorage
	planService     *mealplan.Service
	generator       *Generator
	blobStore       blob.Store
	presignTTL      int
	localMode       bool   // true if no S3 configured
	publicBaseURL   string // S3 public base URL (if prefer_public_url mode)
	preferPublicURL bool   // if true, use public URLs instead of presigned
}

// NewService creates a new export service
func NewService(
	exportsStorage storage.ExportsStorage,
	plansStorage storage.MealPlansStorage,
	planService *mealplan.Service,
	blobStore blob.Store,
	presignTTL int,
	publicBaseURL string,
	preferPublicURL bool,
) *Service {
	return &Service{
		exportsStorage:  exportsStorage,
		plansStorage:    plansStorage,
		planService:     planService,
		generator:       NewGenerator(),
		blobStore:       blobStore,
		presignTTL:      presignTTL,
		localMode:       blobStore == nil,
		publicBaseURL:   publicBaseURL,
		preferPublicURL: preferPublicURL,
	}
}

// CreateExport renders a meal plan document and stores it. Inline plan data
// goes through the full validation pipeline first; stored plans were
// validated when they were saved.
func (s *Service) CreateExport(ctx context.Context, req CreateExportRequest) (*Export, error) {
	userID := userIDFromContext(ctx)
	if userID == "" {
		return nil, ErrUnauthorized
	}

	if req.Format != FormatPDF && req.Format != FormatCSV {
		return nil, ErrInvalidFormat
	}

	plan, err := s.resolvePlan(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	data, err := s.generator.Generate(plan, req.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to generate document: %w", err)
	}

	now := time.Now().UTC()
	meta := &storage.ExportMeta{
		ID:          uuid.New(),
		OwnerUserID: userID,
		MealPlanID:  req.MealPlanID,
		Format:      req.Format,
		PlanName:    plan.PlanName,
		SizeBytes:   int64(len(data)),
		Status:      StatusReady,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if s.localMode {
		meta.Data = data
	} else {
		objectKey := fmt.Sprintf("exports/%s/%s_%s.%s",
			userID,
			now.Format("2006-01-02"),
			meta.ID.String(),
			req.Format,
		)

		if _, err := s.blobStore.PutObject(ctx, objectKey, data, contentTypeFor(req.Format)); err != nil {
			return nil, fmt.Errorf("failed to upload to S3: %w", err)
		}

		meta.ObjectKey = &objectKey
	}

	if err := s.exportsStorage.CreateExport(ctx, meta); err != nil {
		return nil, fmt.Errorf("failed to save export metadata: %w", err)
	}

	return s.toExport(meta), nil
}

// resolvePlan produces the validated plan to render: load by ID or validate
// the inline payload.
func (s *Service) resolvePlan(ctx context.Context, userID string, req CreateExportRequest) (*mealplan.MealPlan, error) {
	switch {
	case req.MealPlanID != nil:
		record, err := s.planService.GetMealPlan(ctx, userID, *req.MealPlanID)
		if err != nil {
			return nil, ErrPlanNotFound
		}
		var plan mealplan.MealPlan
		if err := json.Unmarshal(record.PlanJSON, &plan); err != nil {
			return nil, fmt.Errorf("stored plan is corrupt: %w", err)
		}
		return &plan, nil

	case len(req.MealPlanData) > 0:
		var raw any
		if err := json.Unmarshal(req.MealPlanData, &raw); err != nil {
			return nil, fmt.Errorf("invalid meal plan JSON: %w", err)
		}
		result, err := s.planService.ValidateMealPlanData(ctx, raw)
		if err != nil {
			return nil, err
		}
		return result.MealPlan, nil

	default:
		return nil, ErrMissingPlan
	}
}

// GetExport retrieves an export by ID
func (s *Service) GetExport(ctx context.Context, id uuid.UUID) (*Export, error) {
	meta, err := s.ownedExport(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toExport(meta), nil
}

// ListExports lists the trainer's exports
func (s *Service) ListExports(ctx context.Context, limit, offset int) ([]Export, error) {
	userID := userIDFromContext(ctx)
	if userID == "" {
		return nil, ErrUnauthorized
	}

	metaList, err := s.exportsStorage.ListExports(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list exports: %w", err)
	}

	exports := make([]Export, len(metaList))
	for i, meta := range metaList {
		exports[i] = *s.toExport(&meta)
	}
	return exports, nil
}

// DeleteExport deletes an export
func (s *Service) DeleteExport(ctx context.Context, id uuid.UUID) error {
	meta, err := s.ownedExport(ctx, id)
	if err != nil {
		return err
	}

	if !s.localMode && meta.ObjectKey != nil {
		if err := s.blobStore.DeleteObject(ctx, *meta.ObjectKey); err != nil {
			// Log but don't fail - metadata deletion is more important
			log.Printf("WARN export: failed to delete S3 object for export %s: %v", id, err)
		}
	}

	if err := s.exportsStorage.DeleteExport(ctx, id); err != nil {
		return fmt.Errorf("failed to delete export metadata: %w", err)
	}
	return nil
}

// GetExportDownloadURL generates a download URL for an export
func (s *Service) GetExportDownloadURL(ctx context.Context, id uuid.UUID, baseURL string) (string, error) {
	meta, err := s.ownedExport(ctx, id)
	if err != nil {
		return "", err
	}

	if s.localMode {
		return fmt.Sprintf("%s/v1/exports/%s/download", strings.TrimSuffix(baseURL, "/"), id.String()), nil
	}

	if meta.ObjectKey == nil {
		return "", fmt.Errorf("object key is missing")
	}

	if s.preferPublicURL && s.publicBaseURL != "" {
		return strings.TrimSuffix(s.publicBaseURL, "/") + "/" + *meta.ObjectKey, nil
	}

	presignedURL, err := s.blobStore.PresignGet(ctx, *meta.ObjectKey, s.presignTTL)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return presignedURL, nil
}

// GetExportData retrieves the raw document data (for local mode download)
func (s *Service) GetExportData(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	meta, err := s.ownedExport(ctx, id)
	if err != nil {
		return nil, "", err
	}

	if s.localMode {
		return meta.Data, contentTypeFor(meta.Format), nil
	}

	if meta.ObjectKey == nil {
		return nil, "", fmt.Errorf("object key is missing")
	}

	data, err := s.blobStore.GetObject(ctx, *meta.ObjectKey)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch object: %w", err)
	}
	return data, contentTypeFor(meta.Format), nil
}

func (s *Service) ownedExport(ctx context.Context, id uuid.UUID) (*storage.ExportMeta, error) {
	userID := userIDFromContext(ctx)
	if userID == "" {
		return nil, ErrUnauthorized
	}

	meta, err := s.exportsStorage.GetExport(ctx, id)
	if err != nil {
		return nil, ErrExportNotFound
	}
	if meta.OwnerUserID != userID {
		return nil, ErrExportNotFound
	}
	return meta, nil
}

// toExport converts ExportMeta to the Export model
func (s *Service) toExport(meta *storage.ExportMeta) *Export {
	return &Export{
		ID:         meta.ID,
		MealPlanID: meta.MealPlanID,
		Format:     meta.Format,
		PlanName:   meta.PlanName,
		ObjectKey:  meta.ObjectKey,
		SizeBytes:  meta.SizeBytes,
		Status:     meta.Status,
		Error:      meta.Error,
		CreatedAt:  meta.CreatedAt,
		UpdatedAt:  meta.UpdatedAt,
		Data:       meta.Data,
	}
}

func contentTypeFor(format string) string {
	if format == FormatCSV {
		return "text/csv"
	}
	return "application/pdf"
}

func userIDFromContext(ctx context.Context) string {
	if userID, ok := userctx.GetUserID(ctx); ok && strings.TrimSpace(userID) != "" {
		return userID
	}
	return ""
}
