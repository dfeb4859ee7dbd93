package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound means no record exists under the given ID.
var ErrNotFound = errors.New("records: not found")

// Record is one user entry. Payload is opaque to the store.
type Record struct {
	ID        uuid.UUID       `json:"id"`
	Kind      string          `json:"kind"`
	Day       string          `json:"day"` // ISO date, e.g. "2025-06-01"
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Store is the persistence surface the HTTP handlers use.
type Store interface {
	Create(ctx context.Context, kind, day string, payload json.RawMessage) (Record, error)
	Get(ctx context.Context, id uuid.UUID) (Record, error)
	Update(ctx context.Context, id uuid.UUID, kind, day string, payload json.RawMessage) (Record, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, kind, fromDay, toDay string) ([]Record, error)
}

// PGStore is the Postgres-backed Store.
type PGStore struct {
	db *pgxpool.Pool
}

// NewPGStore wraps a connection pool as a record store.
func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

// EnsureSchema creates the records table if it does not exist.
func (s *PGStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS records (
			id         UUID PRIMARY KEY,
			kind       TEXT NOT NULL,
			day        DATE NOT NULL,
			payload    JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS records_kind_day_idx ON records (kind, day);
	`)
	if err != nil {
		return fmt.Errorf("ensure records schema: %w", err)
	}
	return nil
}

func (s *PGStore) Create(ctx context.Context, kind, day string, payload json.RawMessage) (Record, error) {
	now := time.Now().UTC()
	rec := Record{
		ID:        uuid.New(),
		Kind:      kind,
		Day:       day,
		Payload:   payload,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO records (id, kind, day, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, rec.ID, rec.Kind, rec.Day, rec.Payload, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return Record{}, fmt.Errorf("insert record: %w", err)
	}

	return rec, nil
}

func (s *PGStore) Get(ctx context.Context, id uuid.UUID) (Record, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, kind, day::text, payload, created_at, updated_at
		FROM records WHERE id = $1
	`, id)

	var rec Record
	err := row.Scan(&rec.ID, &rec.Kind, &rec.Day, &rec.Payload, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("select record: %w", err)
	}

	return rec, nil
}

// Update replaces kind, day, and payload wholesale.
func (s *PGStore) Update(ctx context.Context, id uuid.UUID, kind, day string, payload json.RawMessage) (Record, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE records SET kind = $2, day = $3, payload = $4, updated_at = $5
		WHERE id = $1
		RETURNING id, kind, day::text, payload, created_at, updated_at
	`, id, kind, day, payload, time.Now().UTC())

	var rec Record
	err := row.Scan(&rec.ID, &rec.Kind, &rec.Day, &rec.Payload, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("update record: %w", err)
	}

	return rec, nil
}

func (s *PGStore) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := s.db.Exec(ctx, `DELETE FROM records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns records of one kind, optionally bounded to a day range.
// Empty bounds are open.
func (s *PGStore) List(ctx context.Context, kind, fromDay, toDay string) ([]Record, error) {
	query := `
		SELECT id, kind, day::text, payload, created_at, updated_at
		FROM records WHERE kind = $1
	`
	args := []any{kind}

	if fromDay != "" {
		args = append(args, fromDay)
		query += fmt.Sprintf(" AND day >= $%d", len(args))
	}
	if toDay != "" {
		args = append(args, toDay)
		query += fmt.Sprintf(" AND day <= $%d", len(args))
	}
	query += " ORDER BY day DESC, created_at DESC"

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Kind, &rec.Day, &rec.Payload, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
