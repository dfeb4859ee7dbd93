package records

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Handler serves the records REST endpoints over a Store.
type Handler struct {
	store  Store
	logger *slog.Logger
}

// NewHandler creates a records handler.
func NewHandler(store Store, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{store: store, logger: logger}
}

// Mount registers the records routes on the mux.
func (h *Handler) Mount(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/records", h.list)
	mux.HandleFunc("POST /api/records", h.create)
	mux.HandleFunc("GET /api/records/{id}", h.get)
	mux.HandleFunc("PUT /api/records/{id}", h.update)
	mux.HandleFunc("DELETE /api/records/{id}", h.delete)
}

type recordRequest struct {
	Kind    string          `json:"kind"`
	Day     string          `json:"day"`
	Payload json.RawMessage `json:"payload"`
}

// readRecordRequest reads and validates a record body, writing the error
// response itself on failure.
func readRecordRequest(w http.ResponseWriter, r *http.Request) (recordRequest, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "body too large or unreadable")
		return recordRequest{}, false
	}

	var req recordRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return recordRequest{}, false
	}
	if req.Kind == "" {
		writeError(w, http.StatusBadRequest, "missing kind")
		return recordRequest{}, false
	}
	if _, err := time.Parse("2006-01-02", req.Day); err != nil {
		writeError(w, http.StatusBadRequest, "day must be YYYY-MM-DD")
		return recordRequest{}, false
	}
	if len(req.Payload) == 0 {
		req.Payload = json.RawMessage("{}")
	}
	return req, true
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	req, ok := readRecordRequest(w, r)
	if !ok {
		return
	}

	rec, err := h.store.Create(r.Context(), req.Kind, req.Day, req.Payload)
	if err != nil {
		h.logger.Error("create record failed", "err", err)
		writeError(w, http.StatusInternalServerError, "create failed")
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	rec, err := h.store.Get(r.Context(), id)
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "record not found")
	case err != nil:
		h.logger.Error("get record failed", "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "lookup failed")
	default:
		writeJSON(w, http.StatusOK, rec)
	}
}

// update replaces the record wholesale; the body carries the same shape as
// create.
func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	req, ok := readRecordRequest(w, r)
	if !ok {
		return
	}

	rec, err := h.store.Update(r.Context(), id, req.Kind, req.Day, req.Payload)
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "record not found")
	case err != nil:
		h.logger.Error("update record failed", "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "update failed")
	default:
		writeJSON(w, http.StatusOK, rec)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	err := h.store.Delete(r.Context(), id)
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "record not found")
	case err != nil:
		h.logger.Error("delete record failed", "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "delete failed")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")
	if kind == "" {
		writeError(w, http.StatusBadRequest, "missing kind")
		return
	}

	recs, err := h.store.List(r.Context(), kind, r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		h.logger.Error("list records failed", "kind", kind, "err", err)
		writeError(w, http.StatusInternalServerError, "list failed")
		return
	}
	if recs == nil {
		recs = []Record{}
	}

	writeJSON(w, http.StatusOK, recs)
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed record id")
		return uuid.Nil, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
