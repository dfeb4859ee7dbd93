package records

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
)

// memStore is an in-memory Store for handler tests.
type memStore struct {
	recs map[uuid.UUID]Record
}

func newMemStore() *memStore {
	return &memStore{recs: make(map[uuid.UUID]Record)}
}

func (m *memStore) Create(ctx context.Context, kind, day string, payload json.RawMessage) (Record, error) {
	rec := Record{
		ID:        uuid.New(),
		Kind:      kind,
		Day:       day,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	m.recs[rec.ID] = rec
	return rec, nil
}

func (m *memStore) Get(ctx context.Context, id uuid.UUID) (Record, error) {
	rec, ok := m.recs[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (m *memStore) Update(ctx context.Context, id uuid.UUID, kind, day string, payload json.RawMessage) (Record, error) {
	rec, ok := m.recs[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	rec.Kind = kind
	rec.Day = day
	rec.Payload = payload
	rec.UpdatedAt = time.Now().UTC()
	m.recs[id] = rec
	return rec, nil
}

func (m *memStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.recs[id]; !ok {
		return ErrNotFound
	}
	delete(m.recs, id)
	return nil
}

func (m *memStore) List(ctx context.Context, kind, fromDay, toDay string) ([]Record, error) {
	var out []Record
	for _, rec := range m.recs {
		if rec.Kind != kind {
			continue
		}
		if fromDay != "" && rec.Day < fromDay {
			continue
		}
		if toDay != "" && rec.Day > toDay {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func newTestMux() (*http.ServeMux, *memStore) {
	store := newMemStore()
	mux := http.NewServeMux()
	NewHandler(store, nil).Mount(mux)
	return mux, store
}

func TestCreateAndGetRecord(t *testing.T) {
	mux, _ := newTestMux()

	body := `{"kind":"habit","day":"2025-06-01","payload":{"name":"run","done":true}}`
	req := httptest.NewRequest(http.MethodPost, "/api/records", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body)
	}

	var created Record
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.ID == uuid.Nil || created.Kind != "habit" || created.Day != "2025-06-01" {
		t.Errorf("created = %+v", created)
	}

	getReq := httptest.NewRequest(http.MethodGet, "/api/records/"+created.ID.String(), nil)
	getRec := httptest.NewRecorder()
	mux.ServeHTTP(getRec, getReq)

	if getRec.Code != http.StatusOK {
		t.Fatalf("get status = %d, want 200", getRec.Code)
	}
	var got Record
	if err := json.Unmarshal(getRec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.ID != created.ID || string(got.Payload) != `{"name":"run","done":true}` {
		t.Errorf("got = %+v", got)
	}
}

func TestCreateRecordValidation(t *testing.T) {
	mux, _ := newTestMux()

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{kind:`},
		{"missing kind", `{"day":"2025-06-01"}`},
		{"bad day", `{"kind":"habit","day":"June 1st"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/records", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestUpdateRecordReplacesWholesale(t *testing.T) {
	mux, store := newTestMux()
	rec, _ := store.Create(context.Background(), "habit", "2025-06-01", json.RawMessage(`{"done":false}`))

	body := `{"kind":"note","day":"2025-06-02","payload":{"done":true}}`
	req := httptest.NewRequest(http.MethodPut, "/api/records/"+rec.ID.String(), bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body)
	}
	var updated Record
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatal(err)
	}
	if updated.Kind != "note" || updated.Day != "2025-06-02" {
		t.Errorf("kind/day = %s/%s, want note/2025-06-02", updated.Kind, updated.Day)
	}
	if string(updated.Payload) != `{"done":true}` {
		t.Errorf("payload = %s", updated.Payload)
	}
}

func TestUpdateRecordValidation(t *testing.T) {
	mux, store := newTestMux()
	rec, _ := store.Create(context.Background(), "habit", "2025-06-01", json.RawMessage(`{}`))

	// Same body rules as create: kind and a valid day are required.
	req := httptest.NewRequest(http.MethodPut, "/api/records/"+rec.ID.String(), bytes.NewBufferString(`{"payload":{"done":true}}`))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestUpdateMissingRecord(t *testing.T) {
	mux, _ := newTestMux()

	body := `{"kind":"habit","day":"2025-06-01"}`
	req := httptest.NewRequest(http.MethodPut, "/api/records/"+uuid.NewString(), bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestDeleteRecord(t *testing.T) {
	mux, store := newTestMux()
	rec, _ := store.Create(context.Background(), "habit", "2025-06-01", json.RawMessage(`{}`))

	req := httptest.NewRequest(http.MethodDelete, "/api/records/"+rec.ID.String(), nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}

	if _, err := store.Get(context.Background(), rec.ID); err != ErrNotFound {
		t.Errorf("record still present after delete: %v", err)
	}
}

func TestListRecordsByKindAndRange(t *testing.T) {
	mux, store := newTestMux()
	ctx := context.Background()
	store.Create(ctx, "habit", "2025-06-01", json.RawMessage(`{}`))
	store.Create(ctx, "habit", "2025-06-15", json.RawMessage(`{}`))
	store.Create(ctx, "note", "2025-06-01", json.RawMessage(`{}`))

	req := httptest.NewRequest(http.MethodGet, "/api/records?kind=habit&from=2025-06-10", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var recs []Record
	if err := json.Unmarshal(w.Body.Bytes(), &recs); err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].Day != "2025-06-15" {
		t.Errorf("recs = %+v", recs)
	}
}

func TestListRequiresKind(t *testing.T) {
	mux, _ := newTestMux()

	req := httptest.NewRequest(http.MethodGet, "/api/records", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestMalformedRecordID(t *testing.T) {
	mux, _ := newTestMux()

	req := httptest.NewRequest(http.MethodGet, "/api/records/not-a-uuid", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
