// Package store keeps computed insight results in SQLite so a restarted
// server does not recompute them, and exports results as CSV.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/stockinsight/insight"
	"github.com/rustyeddy/stockinsight/pkg/id"
)

// Entry describes one cached result.
type Entry struct {
	ID          string
	Fingerprint string
	Year        int
	Kind        insight.Kind
	N           int
	Points      int
	Created     time.Time
}

// SQLite is an insight.Cache backed by a SQLite database.
type SQLite struct {
	db *sql.DB
	mu sync.Mutex
}

var _ insight.Cache = (*SQLite)(nil)

// NewSQLite opens (or creates) the database at path and applies Schema.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Get returns the cached result for k, if any.
func (s *SQLite) Get(ctx context.Context, k insight.Key) (insight.Result, bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT payload FROM results
		WHERE fingerprint = ? AND year = ? AND kind = ? AND n = ?`,
		k.Fingerprint, k.Year, k.Kind.String(), k.N,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	r, err := Decode(payload)
	if err != nil {
		return nil, false, err
	}
	return r, true, nil
}

// Put stores r under k, replacing any previous entry.
func (s *SQLite) Put(ctx context.Context, k insight.Key, r insight.Result) error {
	payload, err := Encode(r)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO results
		(id, fingerprint, year, kind, n, points, payload, created)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id.NewAt(now), k.Fingerprint, k.Year, k.Kind.String(), k.N, r.Len(), payload, now,
	)
	return err
}

// List returns the entries cached for a dataset, oldest first.
func (s *SQLite) List(ctx context.Context, fingerprint string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, fingerprint, year, kind, n, points, created
		FROM results
		WHERE fingerprint = ?
		ORDER BY id ASC`, fingerprint)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var kind string
		if err := rows.Scan(&e.ID, &e.Fingerprint, &e.Year, &kind, &e.N, &e.Points, &e.Created); err != nil {
			return nil, err
		}
		if e.Kind, err = insight.ParseKind(kind); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Purge removes every entry not belonging to keep and returns how many
// rows were deleted. Serving a new dataset makes older entries unreachable.
func (s *SQLite) Purge(ctx context.Context, keep string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM results WHERE fingerprint <> ?`, keep)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
