package recipes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/drmweyers/evofithealthprotocol-sub002/internal/storage/memory"
)

func newTestHandler() *Handler {
	return NewHandler(NewService(memory.New()))
}

func createRecipe(t *testing.T, handler *Handler, body string) RecipeDTO {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/v1/recipes", bytes.NewReader([]byte(body)))
	w := httptest.NewRecorder()
	handler.HandleCreate(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var dto RecipeDTO
	if err := json.NewDecoder(w.Body).Decode(&dto); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	return dto
}

func TestHandleCreateFillsDefaults(t *testing.T) {
	handler := newTestHandler()

	dto := createRecipe(t, handler, `{"name": "Plain Oats", "caloriesKcal": 300}`)

	if dto.IsApproved {
		t.Error("new recipes must start unapproved")
	}
	if dto.ProteinGrams != "0" || dto.CarbsGrams != "0" || dto.FatGrams != "0" {
		t.Errorf("missing macros should default to 0: %+v", dto)
	}
	if dto.Servings != 1 {
		t.Errorf("servings should default to 1, got %d", dto.Servings)
	}
	if dto.MealTypes == nil || dto.DietaryTags == nil || dto.Ingredients == nil {
		t.Error("slice fields should be empty, not null")
	}
}

func TestHandleCreateValidation(t *testing.T) {
	handler := newTestHandler()

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"caloriesKcal": 300}`},
		{"blank name", `{"name": "   "}`},
		{"calories out of range", `{"name": "X", "caloriesKcal": 9000}`},
		{"negative prep time", `{"name": "X", "prepTimeMinutes": -5}`},
		{"too many servings", `{"name": "X", "servings": 50}`},
		{"bad json", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/recipes", bytes.NewReader([]byte(tt.body)))
			w := httptest.NewRecorder()
			handler.HandleCreate(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestHandleApproveDefaultsToTrue(t *testing.T) {
	handler := newTestHandler()
	dto := createRecipe(t, handler, `{"name": "Oats", "caloriesKcal": 300}`)

	req := httptest.NewRequest(http.MethodPatch, "/v1/recipes/"+dto.ID.String()+"/approve", nil)
	req.SetPathValue("id", dto.ID.String())
	w := httptest.NewRecorder()
	handler.HandleApprove(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
	}

	getReq := httptest.NewRequest(http.MethodGet, "/v1/recipes/"+dto.ID.String(), nil)
	getReq.SetPathValue("id", dto.ID.String())
	getW := httptest.NewRecorder()
	handler.HandleGet(getW, getReq)

	var got RecipeDTO
	if err := json.NewDecoder(getW.Body).Decode(&got); err != nil {
		t.Fatalf("decode get: %v", err)
	}
	if !got.IsApproved {
		t.Error("bare approve request should set isApproved=true")
	}
}

func TestHandleApproveRevoke(t *testing.T) {
	handler := newTestHandler()
	dto := createRecipe(t, handler, `{"name": "Oats", "caloriesKcal": 300}`)

	body := bytes.NewReader([]byte(`{"approved": false}`))
	req := httptest.NewRequest(http.MethodPatch, "/v1/recipes/"+dto.ID.String()+"/approve", body)
	req.SetPathValue("id", dto.ID.String())
	w := httptest.NewRecorder()
	handler.HandleApprove(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
}

func TestHandleApproveUnknownRecipe(t *testing.T) {
	handler := newTestHandler()

	id := "3f1d3471-9d3a-4b2e-9a65-000000000000"
	req := httptest.NewRequest(http.MethodPatch, "/v1/recipes/"+id+"/approve", nil)
	req.SetPathValue("id", id)
	w := httptest.NewRecorder()
	handler.HandleApprove(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestHandleSearchApprovedFilter(t *testing.T) {
	handler := newTestHandler()

	first := createRecipe(t, handler, `{"name": "Approved One", "caloriesKcal": 300, "mealTypes": ["breakfast"]}`)
	createRecipe(t, handler, `{"name": "Pending One", "caloriesKcal": 300}`)

	approveReq := httptest.NewRequest(http.MethodPatch, "/v1/recipes/"+first.ID.String()+"/approve", nil)
	approveReq.SetPathValue("id", first.ID.String())
	handler.HandleApprove(httptest.NewRecorder(), approveReq)

	req := httptest.NewRequest(http.MethodGet, "/v1/recipes?approved=true", nil)
	w := httptest.NewRecorder()
	handler.HandleSearch(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp SearchRecipesResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 1 || len(resp.Recipes) != 1 {
		t.Fatalf("expected exactly the approved recipe, got total=%d len=%d", resp.Total, len(resp.Recipes))
	}
	if resp.Recipes[0].Name != "Approved One" {
		t.Errorf("unexpected recipe: %q", resp.Recipes[0].Name)
	}
	if resp.Page != 1 || resp.Limit != 50 {
		t.Errorf("expected default paging 1/50, got %d/%d", resp.Page, resp.Limit)
	}
}

func TestHandleSearchRejectsBadApprovedValue(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/v1/recipes?approved=maybe", nil)
	w := httptest.NewRecorder()
	handler.HandleSearch(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestHandleGetBadID(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/v1/recipes/not-a-uuid", nil)
	req.SetPathValue("id", "not-a-uuid")
	w := httptest.NewRecorder()
	handler.HandleGet(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestHandleDeleteThenGone(t *testing.T) {
	handler := newTestHandler()
	dto := createRecipe(t, handler, `{"name": "Temp", "caloriesKcal": 100}`)

	req := httptest.NewRequest(http.MethodDelete, "/v1/recipes/"+dto.ID.String(), nil)
	req.SetPathValue("id", dto.ID.String())
	w := httptest.NewRecorder()
	handler.HandleDelete(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}

	getReq := httptest.NewRequest(http.MethodGet, "/v1/recipes/"+dto.ID.String(), nil)
	getReq.SetPathValue("id", dto.ID.String())
	getW := httptest.NewRecorder()
	handler.HandleGet(getW, getReq)

	if getW.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", getW.Code)
	}
}
