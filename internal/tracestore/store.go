// Package tracestore persists movement traces and mining results in SQLite.
//
// Traces are stored one row per point with the coordinates as a JSON array,
// so any dimensionality fits the same schema. The schema is managed by
// golang-migrate from migrations embedded in the binary.
package tracestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/roimine/internal/monitoring"
	"github.com/banshee-data/roimine/internal/roi/ndgrid"
	"github.com/banshee-data/roimine/internal/roi/space"
)

// ErrRunNotFound indicates a run id with no stored record.
var ErrRunNotFound = errors.New("tracestore: run not found")

// Store wraps a SQLite database holding traces and mining runs.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and migrates it to
// the latest schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL; PRAGMA busy_timeout = 5000;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	// One connection keeps the foreign_keys pragma in force for every query.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// InsertTraces stores every trace under a new batch id, replacing any trace
// already stored for the same entity. It returns the batch id.
func (s *Store) InsertTraces(ctx context.Context, traces space.Traces) (string, error) {
	batch := uuid.NewString()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin insert traces: %w", err)
	}
	defer tx.Rollback()

	pointStmt, err := tx.PrepareContext(ctx, `INSERT INTO trace_points (entity_id, seq, coords) VALUES (?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare insert point: %w", err)
	}
	defer pointStmt.Close()

	points := 0
	for _, id := range traces.EntityIDs() {
		pts := traces[id]
		dims := 0
		if len(pts) > 0 {
			dims = len(pts[0])
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM traces WHERE entity_id = ?`, id); err != nil {
			return "", fmt.Errorf("replace trace %q: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO traces (entity_id, batch_id, dims, point_count) VALUES (?, ?, ?, ?)`,
			id, batch, dims, len(pts)); err != nil {
			return "", fmt.Errorf("insert trace %q: %w", id, err)
		}
		for seq, p := range pts {
			if len(p) != dims {
				return "", fmt.Errorf("trace %q point %d: %w", id, seq, ndgrid.ErrDimensionMismatch)
			}
			coords, err := json.Marshal(p)
			if err != nil {
				return "", fmt.Errorf("encode trace %q point %d: %w", id, seq, err)
			}
			if _, err := pointStmt.ExecContext(ctx, id, seq, string(coords)); err != nil {
				return "", fmt.Errorf("insert trace %q point %d: %w", id, seq, err)
			}
		}
		points += len(pts)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit traces: %w", err)
	}
	monitoring.Logf("[TraceStore] Stored %d traces (%d points) as batch %s", len(traces), points, batch)
	return batch, nil
}

// LoadTraces returns every stored trace with points in sequence order.
func (s *Store) LoadTraces(ctx context.Context) (space.Traces, error) {
	return s.loadTraces(ctx, `SELECT entity_id, coords FROM trace_points ORDER BY entity_id, seq`)
}

// LoadBatch returns the traces stored under one batch id.
func (s *Store) LoadBatch(ctx context.Context, batchID string) (space.Traces, error) {
	return s.loadTraces(ctx, `
		SELECT p.entity_id, p.coords
		FROM trace_points p JOIN traces t ON t.entity_id = p.entity_id
		WHERE t.batch_id = ?
		ORDER BY p.entity_id, p.seq`, batchID)
}

func (s *Store) loadTraces(ctx context.Context, query string, args ...any) (space.Traces, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query traces: %w", err)
	}
	defer rows.Close()

	out := space.Traces{}
	for rows.Next() {
		var id, coords string
		if err := rows.Scan(&id, &coords); err != nil {
			return nil, fmt.Errorf("scan trace point: %w", err)
		}
		var p []float64
		if err := json.Unmarshal([]byte(coords), &p); err != nil {
			return nil, fmt.Errorf("decode trace %q point: %w", id, err)
		}
		out[id] = append(out[id], p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trace points: %w", err)
	}
	return out, nil
}

// EntityIDs lists the stored entity ids in ascending order.
func (s *Store) EntityIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT entity_id FROM traces ORDER BY entity_id`)
	if err != nil {
		return nil, fmt.Errorf("query entity ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
