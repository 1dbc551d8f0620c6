package customers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/drmweyers/evofithealthprotocol-sub002/internal/storage/memory"
	"github.com/drmweyers/evofithealthprotocol-sub002/internal/userctx"
)

func newTestHandler() *Handler {
	return NewHandler(NewService(memory.New()))
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

func createCustomer(t *testing.T, handler *Handler, userID, body string) CustomerDTO {
	t.Helper()

	req := authedRequest(http.MethodPost, "/v1/customers", []byte(body), userID)
	w := httptest.NewRecorder()
	handler.HandleCreate(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var dto CustomerDTO
	if err := json.NewDecoder(w.Body).Decode(&dto); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	return dto
}

func TestHandleCreateTrimsFields(t *testing.T) {
	handler := newTestHandler()

	dto := createCustomer(t, handler, "trainer-1", `{"name": "  Alice  ", "email": " alice@example.com ", "fitnessGoal": " weight_loss "}`)

	if dto.Name != "Alice" || dto.Email != "alice@example.com" || dto.FitnessGoal != "weight_loss" {
		t.Errorf("fields not trimmed: %+v", dto)
	}
}

func TestHandleCreateRequiresAuth(t *testing.T) {
	handler := newTestHandler()

	req := authedRequest(http.MethodPost, "/v1/customers", []byte(`{"name": "Alice"}`), "")
	w := httptest.NewRecorder()
	handler.HandleCreate(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestHandleCreateRejectsEmptyName(t *testing.T) {
	handler := newTestHandler()

	req := authedRequest(http.MethodPost, "/v1/customers", []byte(`{"name": "   "}`), "trainer-1")
	w := httptest.NewRecorder()
	handler.HandleCreate(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for blank name, got %d", w.Code)
	}
}

func TestHandleCreateRejectsBadEmail(t *testing.T) {
	handler := newTestHandler()

	req := authedRequest(http.MethodPost, "/v1/customers", []byte(`{"name": "Alice", "email": "not-an-email"}`), "trainer-1")
	w := httptest.NewRecorder()
	handler.HandleCreate(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad email, got %d", w.Code)
	}
}

func TestHandleListScopedToTrainer(t *testing.T) {
	handler := newTestHandler()

	createCustomer(t, handler, "trainer-1", `{"name": "Alice"}`)
	createCustomer(t, handler, "trainer-1", `{"name": "Bob"}`)
	createCustomer(t, handler, "trainer-2", `{"name": "Carol"}`)

	req := authedRequest(http.MethodGet, "/v1/customers", nil, "trainer-1")
	w := httptest.NewRecorder()
	handler.HandleList(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp CustomersResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Customers) != 2 {
		t.Errorf("expected 2 customers for trainer-1, got %d", len(resp.Customers))
	}
}

func TestHandleGetForeignCustomerIs404(t *testing.T) {
	handler := newTestHandler()

	dto := createCustomer(t, handler, "trainer-1", `{"name": "Alice"}`)

	req := authedRequest(http.MethodGet, "/v1/customers/"+dto.ID.String(), nil, "trainer-2")
	req.SetPathValue("id", dto.ID.String())
	w := httptest.NewRecorder()
	handler.HandleGet(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for foreign customer, got %d", w.Code)
	}
}

func TestHandleUpdatePartial(t *testing.T) {
	handler := newTestHandler()

	dto := createCustomer(t, handler, "trainer-1", `{"name": "Alice", "email": "alice@example.com", "fitnessGoal": "maintenance"}`)

	body := []byte(`{"fitnessGoal": "muscle_gain"}`)
	req := authedRequest(http.MethodPatch, "/v1/customers/"+dto.ID.String(), body, "trainer-1")
	req.SetPathValue("id", dto.ID.String())
	w := httptest.NewRecorder()
	handler.HandleUpdate(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var updated CustomerDTO
	if err := json.NewDecoder(w.Body).Decode(&updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.FitnessGoal != "muscle_gain" {
		t.Errorf("expected updated goal, got %q", updated.FitnessGoal)
	}
	if updated.Name != "Alice" || updated.Email != "alice@example.com" {
		t.Errorf("untouched fields must survive a partial update: %+v", updated)
	}
}

func TestHandleUpdateRejectsBlankName(t *testing.T) {
	handler := newTestHandler()

	dto := createCustomer(t, handler, "trainer-1", `{"name": "Alice"}`)

	body := []byte(`{"name": "  "}`)
	req := authedRequest(http.MethodPatch, "/v1/customers/"+dto.ID.String(), body, "trainer-1")
	req.SetPathValue("id", dto.ID.String())
	w := httptest.NewRecorder()
	handler.HandleUpdate(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for blank name, got %d", w.Code)
	}
}

func TestHandleDeleteOwnerOnly(t *testing.T) {
	handler := newTestHandler()

	dto := createCustomer(t, handler, "trainer-1", `{"name": "Alice"}`)

	foreign := authedRequest(http.MethodDelete, "/v1/customers/"+dto.ID.String(), nil, "trainer-2")
	foreign.SetPathValue("id", dto.ID.String())
	fw := httptest.NewRecorder()
	handler.HandleDelete(fw, foreign)
	if fw.Code != http.StatusNotFound {
		t.Errorf("foreign delete should be 404, got %d", fw.Code)
	}

	own := authedRequest(http.MethodDelete, "/v1/customers/"+dto.ID.String(), nil, "trainer-1")
	own.SetPathValue("id", dto.ID.String())
	ow := httptest.NewRecorder()
	handler.HandleDelete(ow, own)
	if ow.Code != http.StatusNoContent {
		t.Errorf("owner delete should be 204, got %d", ow.Code)
	}
}

func TestHandleGetBadID(t *testing.T) {
	handler := newTestHandler()

	req := authedRequest(http.MethodGet, "/v1/customers/nope", nil, "trainer-1")
	req.SetPathValue("id", "nope")
	w := httptest.NewRecorder()
	handler.HandleGet(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}
