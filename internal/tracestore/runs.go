package tracestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/roimine/internal/monitoring"
	"github.com/banshee-data/roimine/internal/roi/space"
)

// RunRecord is one stored mining run and the regions it produced.
type RunRecord struct {
	ID         uuid.UUID       `json:"run_id"`
	Algorithm  string          `json:"algorithm"`
	MinDensity int             `json:"min_density"`
	Radius     int             `json:"radius"`
	Grid       string          `json:"grid"`
	CreatedAt  time.Time       `json:"created_at"`
	Regions    []space.Summary `json:"regions"`
}

// SaveRun stores rec. A zero ID is replaced by a new random one and a zero
// CreatedAt by the current time; the stored id is returned.
func (s *Store) SaveRun(ctx context.Context, rec RunRecord) (uuid.UUID, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin save run: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO mining_runs (run_id, algorithm, min_density, radius, grid, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID.String(), rec.Algorithm, rec.MinDensity, rec.Radius, rec.Grid,
		rec.CreatedAt.UTC().Format(time.RFC3339Nano)); err != nil {
		return uuid.Nil, fmt.Errorf("insert run %s: %w", rec.ID, err)
	}
	for _, r := range rec.Regions {
		body, err := json.Marshal(r)
		if err != nil {
			return uuid.Nil, fmt.Errorf("encode region %d: %w", r.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_regions (run_id, region_id, density, cells) VALUES (?, ?, ?, ?)`,
			rec.ID.String(), r.ID, r.Density, string(body)); err != nil {
			return uuid.Nil, fmt.Errorf("insert region %d: %w", r.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("commit run: %w", err)
	}
	monitoring.Logf("[TraceStore] Saved run %s (%s, %d regions)", rec.ID, rec.Algorithm, len(rec.Regions))
	return rec.ID, nil
}

// Run loads one stored run with its regions ordered by region id.
func (s *Store) Run(ctx context.Context, id uuid.UUID) (RunRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT run_id, algorithm, min_density, radius, grid, created_at FROM mining_runs WHERE run_id = ?`,
		id.String())
	rec, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, fmt.Errorf("%s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return RunRecord{}, err
	}
	if rec.Regions, err = s.regions(ctx, id); err != nil {
		return RunRecord{}, err
	}
	return rec, nil
}

// Runs lists stored runs, newest first, without their regions.
func (s *Store) Runs(ctx context.Context) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, algorithm, min_density, radius, grid, created_at FROM mining_runs ORDER BY created_at DESC, run_id`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (RunRecord, error) {
	var (
		rec         RunRecord
		id, created string
	)
	if err := row.Scan(&id, &rec.Algorithm, &rec.MinDensity, &rec.Radius, &rec.Grid, &created); err != nil {
		return RunRecord{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return RunRecord{}, fmt.Errorf("stored run id %q: %w", id, err)
	}
	rec.ID = parsed
	if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return RunRecord{}, fmt.Errorf("run %s created_at %q: %w", id, created, err)
	}
	return rec, nil
}

func (s *Store) regions(ctx context.Context, id uuid.UUID) ([]space.Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT cells FROM run_regions WHERE run_id = ? ORDER BY region_id`, id.String())
	if err != nil {
		return nil, fmt.Errorf("query regions of %s: %w", id, err)
	}
	defer rows.Close()

	var out []space.Summary
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		var sum space.Summary
		if err := json.Unmarshal([]byte(body), &sum); err != nil {
			return nil, fmt.Errorf("decode region of %s: %w", id, err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}
