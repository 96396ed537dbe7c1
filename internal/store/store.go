package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"panic-buying/internal/model"
	"panic-buying/internal/simulate"
)

// ErrNotFound is returned when a run ID is unknown.
var ErrNotFound = errors.New("run not found")

// createdAtLayout is fixed width so created_at sorts correctly as text.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// RunInfo is the metadata row of a stored run.
type RunInfo struct {
	ID        string
	Name      string
	Policy    string
	Params    model.Params
	Points    int
	CreatedAt time.Time
}

// DB wraps the database connection
type DB struct {
	conn *sql.DB
	now  func() time.Time
}

// New opens (or creates) the SQLite file and initializes the schema.
// Use ":memory:" for a throwaway store.
func New(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection keeps ":memory:" databases alive and serializes writers.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn, now: time.Now}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) initSchema() error {
	schema := `
	PRAGMA foreign_keys = ON;
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		policy TEXT NOT NULL,
		params TEXT NOT NULL,
		points INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS series (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		idx INTEGER NOT NULL,
		time REAL NOT NULL,
		stock REAL NOT NULL,
		local_storage REAL NOT NULL,
		usage REAL NOT NULL,
		wanted_level REAL NOT NULL,
		consumption REAL NOT NULL,
		demand REAL NOT NULL,
		PRIMARY KEY (run_id, idx)
	);
	CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

type paramsJSON struct {
	Day           float64 `json:"day"`
	Week          float64 `json:"week"`
	Duration      float64 `json:"duration"`
	StockCapacity float64 `json:"stock_capacity"`
	InitialStock  float64 `json:"initial_stock"`
	InitialLocal  float64 `json:"initial_local"`
}

func encodeParams(p model.Params) (string, error) {
	raw, err := json.Marshal(paramsJSON(p))
	return string(raw), err
}

func decodeParams(s string) (model.Params, error) {
	var pj paramsJSON
	if err := json.Unmarshal([]byte(s), &pj); err != nil {
		return model.Params{}, err
	}
	return model.Params(pj), nil
}

// SaveRun stores a result under a fresh ID and returns it.
func (db *DB) SaveRun(ctx context.Context, name string, r *simulate.Result) (string, error) {
	id := uuid.NewString()
	params, err := encodeParams(r.Params())
	if err != nil {
		return "", fmt.Errorf("encoding params: %w", err)
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, name, policy, params, points, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, name, r.Policy(), params, r.Len(), db.now().UTC().Format(createdAtLayout))
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO series (run_id, idx, time, stock, local_storage, usage, wanted_level, consumption, demand)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing series insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range r.Rows() {
		if _, err := stmt.ExecContext(ctx, id, row.Index, row.Time, row.Stock, row.Local,
			row.Usage, row.Wanted, row.Consumption, row.Demand); err != nil {
			return "", fmt.Errorf("inserting series row %d: %w", row.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return id, nil
}

// GetRunInfo returns the metadata of one run.
func (db *DB) GetRunInfo(ctx context.Context, id string) (*RunInfo, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, name, policy, params, points, created_at FROM runs WHERE id = ?`, id)
	info, err := scanRunInfo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return info, err
}

// LoadRun rebuilds the stored result.
func (db *DB) LoadRun(ctx context.Context, id string) (*RunInfo, *simulate.Result, error) {
	info, err := db.GetRunInfo(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	rows, err := db.conn.QueryContext(ctx, `
	SELECT idx, time, stock, local_storage, usage, wanted_level, consumption, demand
	FROM series WHERE run_id = ? ORDER BY idx`, id)
	if err != nil {
		return nil, nil, fmt.Errorf("querying series: %w", err)
	}
	defer rows.Close()

	series := make([]simulate.Row, 0, info.Points)
	for rows.Next() {
		var r simulate.Row
		if err := rows.Scan(&r.Index, &r.Time, &r.Stock, &r.Local, &r.Usage, &r.Wanted, &r.Consumption, &r.Demand); err != nil {
			return nil, nil, fmt.Errorf("scanning series row: %w", err)
		}
		series = append(series, r)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	res, err := simulate.FromRows(info.Params, info.Policy, series)
	if err != nil {
		return nil, nil, fmt.Errorf("rebuilding run %s: %w", id, err)
	}
	return info, res, nil
}

// ListRuns returns the most recent runs first. limit <= 0 means all.
func (db *DB) ListRuns(ctx context.Context, limit int) ([]RunInfo, error) {
	query := `SELECT id, name, policy, params, points, created_at FROM runs ORDER BY created_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []RunInfo
	for rows.Next() {
		info, err := scanRunInfo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *info)
	}
	return out, rows.Err()
}

// DeleteRun removes a run and its series.
func (db *DB) DeleteRun(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRunInfo(s scanner) (*RunInfo, error) {
	var (
		info      RunInfo
		params    string
		createdAt string
	)
	if err := s.Scan(&info.ID, &info.Name, &info.Policy, &params, &info.Points, &createdAt); err != nil {
		return nil, err
	}
	p, err := decodeParams(params)
	if err != nil {
		return nil, fmt.Errorf("decoding params of run %s: %w", info.ID, err)
	}
	info.Params = p
	t, err := time.Parse(createdAtLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at of run %s: %w", info.ID, err)
	}
	info.CreatedAt = t
	return &info, nil
}
