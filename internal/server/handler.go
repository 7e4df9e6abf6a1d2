package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/nshaw/adminapi/internal/domain"
	"github.com/nshaw/adminapi/internal/engine"
	"github.com/nshaw/adminapi/internal/export"
)

// Handler routes admin API requests to per-resource engines. It owns no query
// or mutation logic beyond decoding payloads and mapping results onto status
// codes.
type Handler struct {
	engines map[string]*engine.Engine
}

// NewHTTPHandler builds the handler from the configured engines.
func NewHTTPHandler(engines map[string]*engine.Engine) http.Handler {
	return &Handler{engines: engines}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api"), "/")
	if path == "" {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	segments := strings.Split(path, "/")
	eng, ok := h.engines[segments[0]]
	if !ok {
		http.Error(w, fmt.Sprintf("unknown resource %q", segments[0]), http.StatusNotFound)
		return
	}

	switch {
	case r.Method == http.MethodGet && len(segments) == 1:
		h.handleList(w, r, eng)
	case r.Method == http.MethodGet && len(segments) == 2 && segments[1] == "export":
		h.handleExport(w, r, eng)
	case r.Method == http.MethodGet && len(segments) == 2 && segments[1] == "stats":
		h.handleStats(w, r, eng)
	case r.Method == http.MethodPost && len(segments) == 3 && segments[1] == "bulk":
		h.handleBulk(w, r, eng, segments[2])
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request, eng *engine.Engine) {
	result, err := eng.List(r.Context(), r.URL.Query())
	if err != nil {
		if errors.Is(err, engine.ErrInvalidQuery) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, fmt.Sprintf("list %s: %v", eng.Resource(), err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request, eng *engine.Engine) {
	query := r.URL.Query()
	format := query.Get("format")
	if strings.TrimSpace(format) == "" {
		format = string(export.FormatCSV)
	}
	result, err := eng.Export(r.Context(), format, query)
	if err != nil {
		if errors.Is(err, export.ErrUnsupportedFormat) || errors.Is(err, engine.ErrInvalidQuery) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, fmt.Sprintf("export %s: %v", eng.Resource(), err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", result.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Data)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request, eng *engine.Engine) {
	query := r.URL.Query()
	opts := engine.StatsOptions{}
	if raw := strings.TrimSpace(query.Get("group_by")); raw != "" {
		for _, field := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(field); trimmed != "" {
				opts.GroupFields = append(opts.GroupFields, trimmed)
			}
		}
	}
	result, err := eng.Stats(r.Context(), opts)
	if err != nil {
		http.Error(w, fmt.Sprintf("stats %s: %v", eng.Resource(), err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type bulkPayload struct {
	Items []any `json:"items"`
}

func (h *Handler) handleBulk(w http.ResponseWriter, r *http.Request, eng *engine.Engine, rawOp string) {
	defer r.Body.Close()
	op, err := domain.ParseBulkOperation(strings.ToLower(strings.TrimSpace(rawOp)))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var payload bulkPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, fmt.Sprintf("invalid payload: %v", err), http.StatusBadRequest)
		return
	}
	result, err := eng.Bulk(r.Context(), op, payload.Items)
	if err != nil {
		if errors.Is(err, engine.ErrUnsupportedOperation) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, fmt.Sprintf("bulk %s: %v", eng.Resource(), err), http.StatusInternalServerError)
		return
	}
	// Partial failure surfaces as 207 so clients inspect per-item results.
	status := http.StatusOK
	if !result.Success {
		status = http.StatusMultiStatus
	}
	writeJSON(w, status, result)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
