package dispatch

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dialer_backend/internal/contacted"
	"dialer_backend/internal/leadsource"
	"dialer_backend/platform/logger"
	"dialer_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

func newTestHandler(source LeadSource, store LeadStore) (*gin.Engine, *fakePlacer) {
	gin.SetMode(gin.TestMode)

	placer := &fakePlacer{}
	svc := NewService(source, placer, store, &recordingBus{}, defaultSettings(), logger.New("development"))
	h := NewHandler(svc, store, validator.New())

	r := gin.New()
	r.POST("/api/v1/dispatch", h.HandleSync)
	r.POST("/api/v1/leads/log", h.HandleLogLead)
	return r, placer
}

func TestHandleSync_ReturnsPlacedCount(t *testing.T) {
	source := &fakeSource{pages: [][]leadsource.Property{{
		ownerLead("1", "A",
			leadsource.Phone{Number: "+14155550100"},
			leadsource.Phone{Number: "+14155550101"},
		),
	}}}
	r, placer := newTestHandler(source, &fakeStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/dispatch?limit=2", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp SyncResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Placed != 2 {
		t.Fatalf("expected 2 placed, got %d", resp.Placed)
	}
	if resp.Message != "Called 2 leads" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
	if len(placer.dialed) != 2 {
		t.Fatalf("expected 2 dials, got %d", len(placer.dialed))
	}
}

func TestHandleSync_InvalidLimitFallsBackToDefault(t *testing.T) {
	source := &fakeSource{pages: [][]leadsource.Property{{
		ownerLead("1", "A",
			leadsource.Phone{Number: "+14155550100"},
			leadsource.Phone{Number: "+14155550101"},
			leadsource.Phone{Number: "+14155550102"},
			leadsource.Phone{Number: "+14155550103"},
		),
	}}}
	r, _ := newTestHandler(source, &fakeStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/dispatch?limit=abc", nil)
	r.ServeHTTP(w, req)

	var resp SyncResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Placed != 3 {
		t.Fatalf("expected default limit of 3, got %d", resp.Placed)
	}
}

func TestHandleSync_UpstreamFailureMapsTo502(t *testing.T) {
	r, _ := newTestHandler(nil, &fakeStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/dispatch", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", w.Code, w.Body.String())
	}
}

func TestHandleLogLead_CreatesRecord(t *testing.T) {
	store := &fakeStore{}
	r, _ := newTestHandler(&fakeSource{}, store)

	payload := `{"phone": "(415) 555-0100", "address": "12 Main St", "tags": ["Follow Up Needed"]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/leads/log", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if len(store.inserted) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(store.inserted))
	}

	rec := store.inserted[0]
	if rec.Phone != "+14155550100" {
		t.Fatalf("expected normalized phone, got %q", rec.Phone)
	}
	if rec.Status != contacted.StatusNotContacted {
		t.Fatalf("expected default status, got %q", rec.Status)
	}
}

func TestHandleLogLead_RejectsInvalidPhone(t *testing.T) {
	store := &fakeStore{}
	r, _ := newTestHandler(&fakeSource{}, store)

	payload := `{"phone": "not-a-number"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/leads/log", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if len(store.inserted) != 0 {
		t.Fatalf("expected no insert for invalid payload")
	}
}

func TestHandleLogLead_RejectsMalformedJSON(t *testing.T) {
	store := &fakeStore{}
	r, _ := newTestHandler(&fakeSource{}, store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/leads/log", strings.NewReader(`{"phone":`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
