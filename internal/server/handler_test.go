package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nshaw/adminapi/internal/domain"
	"github.com/nshaw/adminapi/internal/engine"
	"github.com/nshaw/adminapi/internal/storage"
)

func newTestHandler(t *testing.T) (http.Handler, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	cfg := domain.ResourceConfig{
		AllowedSearchFields: []string{"title"},
		AllowedSortFields:   []string{"title"},
		MaxLimit:            100,
		RequiredFields:      []string{"title"},
		DefaultSort:         domain.SortSpec{Field: "title", Direction: domain.SortDirectionAsc},
		StatsGroupFields:    []string{"status"},
	}
	engines := map[string]*engine.Engine{
		"todos": engine.New("todos", cfg, store),
	}
	return NewHTTPHandler(engines), store
}

func seedRecord(t *testing.T, store *storage.MemoryStore, record domain.Record) string {
	t.Helper()
	created, err := store.CreateOne(context.Background(), "todos", record)
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	id, _ := created.ID()
	return id
}

func TestHandler_List(t *testing.T) {
	handler, store := newTestHandler(t)
	seedRecord(t, store, domain.Record{"title": "fix bug", "status": "open"})
	seedRecord(t, store, domain.Record{"title": "write docs", "status": "open"})

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/todos?search=fix", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	if ct := recorder.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type: %q", ct)
	}
	var body struct {
		Data       []map[string]any      `json:"data"`
		Pagination domain.PaginationMeta `json:"pagination"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(body.Data) != 1 || body.Pagination.Total != 1 {
		t.Fatalf("expected 1 filtered record, got %+v", body)
	}
}

func TestHandler_UnknownResource(t *testing.T) {
	handler, _ := newTestHandler(t)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/users", nil))
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", recorder.Code)
	}
}

func TestHandler_ConflictingQueryIsBadRequest(t *testing.T) {
	handler, _ := newTestHandler(t)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/todos?sort=title&sort=status", nil))
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", recorder.Code, recorder.Body.String())
	}
}

func TestHandler_ExportDefaultsToCSV(t *testing.T) {
	handler, store := newTestHandler(t)
	seedRecord(t, store, domain.Record{"title": "fix bug"})

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/todos/export", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	if ct := recorder.Header().Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("unexpected content type: %q", ct)
	}
	disposition := recorder.Header().Get("Content-Disposition")
	if !strings.HasPrefix(disposition, "attachment;") || !strings.Contains(disposition, "todos-") {
		t.Fatalf("unexpected disposition: %q", disposition)
	}
}

func TestHandler_ExportUnknownFormat(t *testing.T) {
	handler, _ := newTestHandler(t)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/todos/export?format=pdf", nil))
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
}

func TestHandler_Stats(t *testing.T) {
	handler, store := newTestHandler(t)
	seedRecord(t, store, domain.Record{"title": "a", "status": "open"})
	seedRecord(t, store, domain.Record{"title": "b", "status": "open"})
	seedRecord(t, store, domain.Record{"title": "c", "status": "closed"})

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/todos/stats", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	var body engine.StatsResult
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if body.ByGroup["open"] != 2 || body.ByGroup["closed"] != 1 {
		t.Fatalf("unexpected groups: %v", body.ByGroup)
	}
}

func TestHandler_StatsGroupByOverride(t *testing.T) {
	handler, store := newTestHandler(t)
	seedRecord(t, store, domain.Record{"title": "a", "status": "open", "owner": "ana"})
	seedRecord(t, store, domain.Record{"title": "b", "status": "open", "owner": "bo"})

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/todos/stats?group_by=owner", nil))

	var body engine.StatsResult
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if body.ByGroup["ana"] != 1 || body.ByGroup["bo"] != 1 {
		t.Fatalf("expected grouping by owner, got %v", body.ByGroup)
	}
}

func TestHandler_BulkCreate(t *testing.T) {
	handler, _ := newTestHandler(t)
	payload := `{"items":[{"title":"one"},{"title":"two"}]}`
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/todos/bulk/create", strings.NewReader(payload)))

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	var body domain.BulkResult
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !body.Success || body.Summary.Successful != 2 {
		t.Fatalf("unexpected result: %+v", body.Summary)
	}
}

func TestHandler_BulkPartialFailureIsMultiStatus(t *testing.T) {
	handler, store := newTestHandler(t)
	id := seedRecord(t, store, domain.Record{"title": "a"})

	payload := `{"items":["` + id + `","missing"]}`
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/todos/bulk/delete", strings.NewReader(payload)))

	if recorder.Code != http.StatusMultiStatus {
		t.Fatalf("expected 207, got %d: %s", recorder.Code, recorder.Body.String())
	}
	var body domain.BulkResult
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if body.Success || body.Summary.Failed != 1 {
		t.Fatalf("unexpected result: %+v", body.Summary)
	}
	if body.Results[1].Error == nil || body.Results[1].Error.Kind != domain.BulkErrorNotFound {
		t.Fatalf("expected NotFound on second item, got %+v", body.Results[1])
	}
}

func TestHandler_BulkUnknownOperation(t *testing.T) {
	handler, _ := newTestHandler(t)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/todos/bulk/upsert", strings.NewReader(`{"items":[]}`)))
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
}

func TestHandler_BulkMalformedBody(t *testing.T) {
	handler, _ := newTestHandler(t)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/todos/bulk/create", strings.NewReader("{not json")))
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
}

func TestHandler_MethodNotRouted(t *testing.T) {
	handler, _ := newTestHandler(t)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodDelete, "/api/todos", nil))
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", recorder.Code)
	}
}
