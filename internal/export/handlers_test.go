package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/drmweyers/evofithealthprotocol-sub002/internal/mealplan"
	"github.com/drmweyers/evofithealthprotocol-sub002/internal/storage/memory"
	"github.com/drmweyers/evofithealthprotocol-sub002/internal/userctx"
	"github.com/google/uuid"
)

// newLocalHandlers builds the export stack in local mode (no blob store):
// documents live in export metadata and downloads are served directly.
func newLocalHandlers() (*Handlers, *mealplan.Service) {
	store := memory.New()
	source := mealplan.NewStoreSource(store)
	generator := mealplan.NewGenerator(source, rand.NewSource(3), 0, "")
	planService := mealplan.NewService(generator, source, store, store)
	service := NewService(store, store, planService, nil, 0, "", false)
	return NewHandlers(service), planService
}

func authedRequest(method, target string, body []byte, userID string) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if userID != "" {
		req = req.WithContext(userctx.WithUserID(req.Context(), userID))
	}
	return req
}

const inlinePlanJSON = `{
	"planName": "Inline Plan",
	"fitnessGoal": "maintenance",
	"dailyCalorieTarget": 2000,
	"days": 1,
	"mealsPerDay": 1,
	"meals": [
		{"day": 1, "mealNumber": 1, "mealType": "lunch",
		 "recipe": {"id": "r1", "name": "Bowl", "caloriesKcal": 500,
		   "proteinGrams": "30", "carbsGrams": "50", "fatGrams": "15",
		   "servings": 1, "ingredientsJson": []}}
	]
}`

func createExport(t *testing.T, handlers *Handlers, userID, body string) ExportDTO {
	t.Helper()

	req := authedRequest(http.MethodPost, "/v1/exports", []byte(body), userID)
	w := httptest.NewRecorder()
	handlers.HandleCreate(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("create export: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var dto ExportDTO
	if err := json.NewDecoder(w.Body).Decode(&dto); err != nil {
		t.Fatalf("decode export response: %v", err)
	}
	return dto
}

func TestHandleCreateInlinePlanCSV(t *testing.T) {
	handlers, _ := newLocalHandlers()

	body := fmt.Sprintf(`{"format": "csv", "mealPlanData": %s}`, inlinePlanJSON)
	dto := createExport(t, handlers, "trainer-1", body)

	if dto.Status != StatusReady {
		t.Errorf("expected ready status, got %q", dto.Status)
	}
	if dto.Format != FormatCSV || dto.PlanName != "Inline Plan" {
		t.Errorf("unexpected export: %+v", dto)
	}
	if dto.SizeBytes == 0 {
		t.Error("expected a non-empty document")
	}
	if !strings.Contains(dto.DownloadURL, "/v1/exports/"+dto.ID.String()+"/download") {
		t.Errorf("local mode should hand out a local download URL, got %q", dto.DownloadURL)
	}
}

func TestHandleCreateStoredPlanPDF(t *testing.T) {
	handlers, planService := newLocalHandlers()

	ctx := userctx.WithUserID(httptest.NewRequest("GET", "/", nil).Context(), "trainer-1")
	var raw any
	if err := json.Unmarshal([]byte(inlinePlanJSON), &raw); err != nil {
		t.Fatalf("fixture: %v", err)
	}
	validated, err := planService.ValidateMealPlanData(ctx, raw)
	if err != nil {
		t.Fatalf("validate fixture: %v", err)
	}
	record, err := planService.SaveMealPlan(ctx, "trainer-1", validated.MealPlan, nil)
	if err != nil {
		t.Fatalf("save fixture plan: %v", err)
	}

	body := fmt.Sprintf(`{"format": "pdf", "mealPlanId": %q}`, record.ID)
	dto := createExport(t, handlers, "trainer-1", body)

	if dto.Format != FormatPDF || dto.MealPlanID == nil || *dto.MealPlanID != record.ID {
		t.Errorf("unexpected export: %+v", dto)
	}
}

func TestHandleCreateRejectsBadFormat(t *testing.T) {
	handlers, _ := newLocalHandlers()

	body := fmt.Sprintf(`{"format": "docx", "mealPlanData": %s}`, inlinePlanJSON)
	req := authedRequest(http.MethodPost, "/v1/exports", []byte(body), "trainer-1")
	w := httptest.NewRecorder()
	handlers.HandleCreate(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestHandleCreateRequiresPlan(t *testing.T) {
	handlers, _ := newLocalHandlers()

	req := authedRequest(http.MethodPost, "/v1/exports", []byte(`{"format": "csv"}`), "trainer-1")
	w := httptest.NewRecorder()
	handlers.HandleCreate(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestHandleCreateUnknownPlan(t *testing.T) {
	handlers, _ := newLocalHandlers()

	body := fmt.Sprintf(`{"format": "csv", "mealPlanId": %q}`, uuid.New())
	req := authedRequest(http.MethodPost, "/v1/exports", []byte(body), "trainer-1")
	w := httptest.NewRecorder()
	handlers.HandleCreate(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestHandleCreateRequiresAuth(t *testing.T) {
	handlers, _ := newLocalHandlers()

	body := fmt.Sprintf(`{"format": "csv", "mealPlanData": %s}`, inlinePlanJSON)
	req := authedRequest(http.MethodPost, "/v1/exports", []byte(body), "")
	w := httptest.NewRecorder()
	handlers.HandleCreate(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestHandleDownloadLocalMode(t *testing.T) {
	handlers, _ := newLocalHandlers()

	body := fmt.Sprintf(`{"format": "csv", "mealPlanData": %s}`, inlinePlanJSON)
	dto := createExport(t, handlers, "trainer-1", body)

	req := authedRequest(http.MethodGet, "/v1/exports/"+dto.ID.String()+"/download", nil, "trainer-1")
	req.SetPathValue("id", dto.ID.String())
	w := httptest.NewRecorder()
	handlers.HandleDownload(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("expected text/csv, got %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Errorf("expected attachment disposition, got %q", cd)
	}
	if w.Body.Len() == 0 {
		t.Error("expected document bytes")
	}
	if !strings.Contains(w.Body.String(), "Bowl") {
		t.Error("document should contain the plan's recipe")
	}
}

func TestHandleDownloadForeignExport(t *testing.T) {
	handlers, _ := newLocalHandlers()

	body := fmt.Sprintf(`{"format": "csv", "mealPlanData": %s}`, inlinePlanJSON)
	dto := createExport(t, handlers, "trainer-1", body)

	req := authedRequest(http.MethodGet, "/v1/exports/"+dto.ID.String()+"/download", nil, "trainer-2")
	req.SetPathValue("id", dto.ID.String())
	w := httptest.NewRecorder()
	handlers.HandleDownload(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for foreign export, got %d", w.Code)
	}
}

func TestHandleListScopedToTrainer(t *testing.T) {
	handlers, _ := newLocalHandlers()

	body := fmt.Sprintf(`{"format": "csv", "mealPlanData": %s}`, inlinePlanJSON)
	createExport(t, handlers, "trainer-1", body)
	createExport(t, handlers, "trainer-2", body)

	req := authedRequest(http.MethodGet, "/v1/exports", nil, "trainer-1")
	w := httptest.NewRecorder()
	handlers.HandleList(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp ExportsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Exports) != 1 {
		t.Errorf("expected 1 export for trainer-1, got %d", len(resp.Exports))
	}
}

func TestHandleDeleteExport(t *testing.T) {
	handlers, _ := newLocalHandlers()

	body := fmt.Sprintf(`{"format": "csv", "mealPlanData": %s}`, inlinePlanJSON)
	dto := createExport(t, handlers, "trainer-1", body)

	req := authedRequest(http.MethodDelete, "/v1/exports/"+dto.ID.String(), nil, "trainer-1")
	req.SetPathValue("id", dto.ID.String())
	w := httptest.NewRecorder()
	handlers.HandleDelete(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}

	getReq := authedRequest(http.MethodGet, "/v1/exports/"+dto.ID.String()+"/download", nil, "trainer-1")
	getReq.SetPathValue("id", dto.ID.String())
	getW := httptest.NewRecorder()
	handlers.HandleDownload(getW, getReq)

	if getW.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", getW.Code)
	}
}
