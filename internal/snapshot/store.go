package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrEmptyData rejects a fresh write that carries no entries. Empty passes
// go through CarryOver instead, so consumers never see their data wiped.
var ErrEmptyData = errors.New("snapshot: refusing to write empty data")

// Envelope is the on-disk form of one aggregation pass.
type Envelope struct {
	UpdatedAt     time.Time       `json:"updatedAt"`
	LastAttemptAt *time.Time      `json:"lastAttemptAt,omitempty"`
	Error         string          `json:"error,omitempty"`
	Data          json.RawMessage `json:"data"`
}

// Store writes dataset snapshots under a single directory. Each dataset maps
// to <dir>/<dataset>.json plus an optional <dir>/<dataset>.txt tabular
// rendering. Loops own disjoint datasets, so the store needs no locking.
type Store struct {
	dir    string
	logger *slog.Logger
	now    func() time.Time
}

// NewStore creates the snapshot directory if needed and returns a store
// over it.
func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	return &Store{dir: dir, logger: logger, now: time.Now}, nil
}

// WriteFresh persists a new snapshot for the dataset. data must be non-empty;
// an empty result set is treated as a failed pass and rejected with
// ErrEmptyData.
func (s *Store) WriteFresh(dataset string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s data: %w", dataset, err)
	}
	if isEmptyJSON(raw) {
		return ErrEmptyData
	}

	env := Envelope{
		UpdatedAt: s.now().UTC(),
		Data:      raw,
	}
	return s.writeEnvelope(dataset, env)
}

// CarryOver re-writes the existing snapshot annotated with the failed
// attempt, preserving its data and updatedAt. Returns false when there is no
// existing snapshot to carry over.
func (s *Store) CarryOver(dataset, errMsg string) (bool, error) {
	env, ok := s.ReadExisting(dataset)
	if !ok {
		return false, nil
	}

	attempt := s.now().UTC()
	env.LastAttemptAt = &attempt
	env.Error = errMsg

	if err := s.writeEnvelope(dataset, *env); err != nil {
		return false, err
	}

	s.logger.Warn("pass failed, carried over previous snapshot",
		"dataset", dataset,
		"err", errMsg,
	)
	return true, nil
}

// ReadExisting reads the current snapshot for the dataset. Missing files and
// parse failures both report absence; this path must never fail a pass.
func (s *Store) ReadExisting(dataset string) (*Envelope, bool) {
	raw, err := os.ReadFile(s.jsonPath(dataset))
	if err != nil {
		return nil, false
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		s.logger.Warn("corrupt snapshot file ignored",
			"dataset", dataset,
			"err", err,
		)
		return nil, false
	}

	return &env, true
}

// WriteTable writes the tab-separated rendering for datasets that define
// one, a single row per symbol.
func (s *Store) WriteTable(dataset string, rows [][]string) error {
	var b strings.Builder
	for _, row := range rows {
		b.WriteString(strings.Join(row, "\t"))
		b.WriteByte('\n')
	}
	return s.writeFile(filepath.Join(s.dir, dataset+".txt"), []byte(b.String()))
}

func (s *Store) jsonPath(dataset string) string {
	return filepath.Join(s.dir, dataset+".json")
}

func (s *Store) writeEnvelope(dataset string, env Envelope) error {
	raw, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s snapshot: %w", dataset, err)
	}
	return s.writeFile(s.jsonPath(dataset), raw)
}

// writeFile writes via a temp file and rename so readers never observe a
// partially written snapshot.
func (s *Store) writeFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// isEmptyJSON reports whether raw encodes null, an empty array, or an empty
// object.
func isEmptyJSON(raw []byte) bool {
	switch string(raw) {
	case "null", "[]", "{}":
		return true
	}
	return false
}
