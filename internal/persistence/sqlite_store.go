package persistence

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mkotlarz/streampulse/internal/analytics"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &SQLiteStore{db: db}
	if err := store.init(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA journal_mode = WAL;"); err != nil {
		return fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "PRAGMA busy_timeout = 5000;"); err != nil {
		return fmt.Errorf("set busy timeout: %w", err)
	}
	// Bootstrap schema_migrations table so we can track applied versions.
	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	entries, err := migrationFiles.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		version := migrationVersion(entry.Name())
		if version <= 0 {
			continue
		}
		var exists int
		if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations WHERE version = ?`, version).Scan(&exists); err != nil {
			return fmt.Errorf("check migration %s: %w", entry.Name(), err)
		}
		if exists > 0 {
			continue
		}
		content, err := migrationFiles.ReadFile(filepath.Join("migrations", entry.Name()))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}
		if _, err := s.db.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("apply migration %s: %w", entry.Name(), err)
		}
		if _, err := s.db.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
			return fmt.Errorf("record migration %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// migrationVersion extracts the leading integer from a migration filename (e.g. "001_init.sql" → 1).
func migrationVersion(name string) int {
	for i, c := range name {
		if c < '0' || c > '9' {
			if i == 0 {
				return 0
			}
			n, _ := strconv.Atoi(name[:i])
			return n
		}
	}
	n, _ := strconv.Atoi(name)
	return n
}

// SaveDataset inserts a dataset. When d.Active is set, every other dataset
// is deactivated in the same transaction.
func (s *SQLiteStore) SaveDataset(ctx context.Context, d Dataset) error {
	if d.ID == "" {
		return fmt.Errorf("dataset id is required")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if d.Active {
		if _, err := tx.ExecContext(ctx, `UPDATE datasets SET active = 0`); err != nil {
			return fmt.Errorf("deactivate datasets: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO datasets (id, name, source, csv, row_count, uploaded_at, active)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Name, d.Source, d.CSV, d.RowCount, d.UploadedAt.UTC().Format(time.RFC3339), boolToInt(d.Active)); err != nil {
		return fmt.Errorf("insert dataset: %w", err)
	}
	return tx.Commit()
}

// SetActiveDataset marks the dataset as active and all others inactive.
func (s *SQLiteStore) SetActiveDataset(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `UPDATE datasets SET active = 0`); err != nil {
		return fmt.Errorf("deactivate datasets: %w", err)
	}
	res, err := tx.ExecContext(ctx, `UPDATE datasets SET active = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("activate dataset: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("dataset %s not found", id)
	}
	return tx.Commit()
}

// GetDataset loads a dataset including its raw CSV bytes.
func (s *SQLiteStore) GetDataset(ctx context.Context, id string) (*Dataset, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, source, csv, row_count, uploaded_at, active
		FROM datasets WHERE id = ?`, id)
	return scanDataset(row)
}

// ActiveDataset returns the active dataset, or nil when none is stored.
func (s *SQLiteStore) ActiveDataset(ctx context.Context) (*Dataset, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, source, csv, row_count, uploaded_at, active
		FROM datasets WHERE active = 1 LIMIT 1`)
	d, err := scanDataset(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return d, err
}

// ListDatasets returns dataset descriptors without the CSV payloads, newest
// first.
func (s *SQLiteStore) ListDatasets(ctx context.Context) ([]Dataset, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, source, row_count, uploaded_at, active
		FROM datasets ORDER BY uploaded_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	defer rows.Close()

	var out []Dataset
	for rows.Next() {
		var d Dataset
		var uploaded string
		var active int
		if err := rows.Scan(&d.ID, &d.Name, &d.Source, &d.RowCount, &uploaded, &active); err != nil {
			return nil, fmt.Errorf("scan dataset: %w", err)
		}
		d.UploadedAt, _ = time.Parse(time.RFC3339, uploaded)
		d.Active = active != 0
		out = append(out, d)
	}
	return out, rows.Err()
}

// UpdateDatasetCSV replaces the stored CSV bytes and row count of a
// dataset, used when the scheduled reload picks up a changed bundled file.
func (s *SQLiteStore) UpdateDatasetCSV(ctx context.Context, id string, csv []byte, rowCount int) error {
	res, err := s.db.ExecContext(ctx, `UPDATE datasets SET csv = ?, row_count = ?, uploaded_at = ? WHERE id = ?`,
		csv, rowCount, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("update dataset: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("dataset %s not found", id)
	}
	return nil
}

// SavePreset stores a named filter preset.
func (s *SQLiteStore) SavePreset(ctx context.Context, p FilterPreset) error {
	if p.ID == "" {
		return fmt.Errorf("preset id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("preset name is required")
	}
	predicate, err := json.Marshal(p.Filter)
	if err != nil {
		return fmt.Errorf("encode predicate: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `INSERT INTO filter_presets (id, name, predicate, created_at)
		VALUES (?, ?, ?, ?)`,
		p.ID, p.Name, string(predicate), p.CreatedAt.UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("insert preset: %w", err)
	}
	return nil
}

// ListPresets returns saved presets, newest first.
func (s *SQLiteStore) ListPresets(ctx context.Context) ([]FilterPreset, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, predicate, created_at
		FROM filter_presets ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	defer rows.Close()

	var out []FilterPreset
	for rows.Next() {
		var p FilterPreset
		var predicate, created string
		if err := rows.Scan(&p.ID, &p.Name, &predicate, &created); err != nil {
			return nil, fmt.Errorf("scan preset: %w", err)
		}
		var f analytics.Filter
		if err := json.Unmarshal([]byte(predicate), &f); err != nil {
			return nil, fmt.Errorf("decode predicate for %s: %w", p.ID, err)
		}
		p.Filter = f
		p.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanDataset(row *sql.Row) (*Dataset, error) {
	var d Dataset
	var uploaded string
	var active int
	if err := row.Scan(&d.ID, &d.Name, &d.Source, &d.CSV, &d.RowCount, &uploaded, &active); err != nil {
		return nil, err
	}
	d.UploadedAt, _ = time.Parse(time.RFC3339, uploaded)
	d.Active = active != 0
	return &d, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
