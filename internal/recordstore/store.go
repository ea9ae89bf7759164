// Package recordstore persists assembled column records, keyed by
// project. Synchronizing a project is a replace, not a merge: one
// transaction deletes every row whose project reference matches and
// inserts the new set, so the store always mirrors the latest
// processed file, and stale columns from earlier revisions cannot
// linger.
package recordstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/lfarruda/ifctakeoff/pkg/types"
)

const defaultDBFile = "takeoff.db"

// Store manages the takeoff SQLite database.
type Store struct {
	db        *sql.DB
	exportDir string
}

// NewStore opens or creates the database named by cfg.DBPath and
// creates the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = defaultDBFile
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	exportDir := cfg.ExportDir
	if exportDir == "" {
		exportDir = "."
	}

	s := &Store{db: db, exportDir: exportDir}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS columns (
			unique_id TEXT PRIMARY KEY,
			project_ref TEXT NOT NULL,
			nome TEXT NOT NULL,
			secao TEXT NOT NULL,
			armadura TEXT NOT NULL,
			pavimento TEXT NOT NULL,
			status TEXT NOT NULL,
			data_conferencia TEXT NOT NULL DEFAULT '',
			responsavel TEXT NOT NULL DEFAULT '',
			altura_estimada REAL NOT NULL DEFAULT 0,
			volume_estimado REAL NOT NULL DEFAULT 0,
			material TEXT NOT NULL DEFAULT '',
			centro_x REAL NOT NULL DEFAULT 0,
			centro_y REAL NOT NULL DEFAULT 0,
			position INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_columns_project ON columns(project_ref)`,
		`CREATE TABLE IF NOT EXISTS sync_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			project_ref TEXT NOT NULL,
			synced_at TEXT NOT NULL,
			records INTEGER NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Upsert replaces every record of the project with the given set and
// appends a sync_log entry.
func (s *Store) Upsert(ctx context.Context, projectRef string, records []types.ColumnRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM columns WHERE project_ref = ?`, projectRef,
	); err != nil {
		return fmt.Errorf("deleting previous records: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO columns (unique_id, project_ref, nome, secao, armadura,
			pavimento, status, data_conferencia, responsavel,
			altura_estimada, volume_estimado, material, centro_x, centro_y,
			position)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		if _, err := stmt.ExecContext(ctx,
			rec.UniqueID, rec.ProjectRef, rec.Name, rec.Section,
			rec.Reinforcement, rec.Floor, rec.Status, rec.ReviewDate,
			rec.Reviewer, rec.Height, rec.Volume, rec.Material,
			rec.CentroidX, rec.CentroidY, i,
		); err != nil {
			return fmt.Errorf("inserting record %s: %w", rec.UniqueID, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sync_log (project_ref, synced_at, records) VALUES (?, ?, ?)`,
		projectRef, time.Now().UTC().Format(time.RFC3339), len(records),
	); err != nil {
		return fmt.Errorf("logging sync: %w", err)
	}

	return tx.Commit()
}

// Records returns the project's records in their stored (assembly)
// order.
func (s *Store) Records(ctx context.Context, projectRef string) ([]types.ColumnRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT unique_id, project_ref, nome, secao, armadura, pavimento,
			status, data_conferencia, responsavel,
			altura_estimada, volume_estimado, material, centro_x, centro_y
		 FROM columns WHERE project_ref = ? ORDER BY position`, projectRef)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var records []types.ColumnRecord
	for rows.Next() {
		var rec types.ColumnRecord
		if err := rows.Scan(
			&rec.UniqueID, &rec.ProjectRef, &rec.Name, &rec.Section,
			&rec.Reinforcement, &rec.Floor, &rec.Status, &rec.ReviewDate,
			&rec.Reviewer, &rec.Height, &rec.Volume, &rec.Material,
			&rec.CentroidX, &rec.CentroidY,
		); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Projects lists the distinct project references present in the store.
func (s *Store) Projects(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT project_ref FROM columns ORDER BY project_ref`)
	if err != nil {
		return nil, fmt.Errorf("querying projects: %w", err)
	}
	defer rows.Close()

	var projects []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// LastSync returns the most recent sync_log entry for the project, or
// a zero time when the project has never been synced.
func (s *Store) LastSync(ctx context.Context, projectRef string) (time.Time, int, error) {
	var syncedAt string
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT synced_at, records FROM sync_log
		 WHERE project_ref = ? ORDER BY id DESC LIMIT 1`, projectRef,
	).Scan(&syncedAt, &count)
	if err == sql.ErrNoRows {
		return time.Time{}, 0, nil
	}
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("querying sync log: %w", err)
	}
	ts, err := time.Parse(time.RFC3339, syncedAt)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("parsing sync timestamp: %w", err)
	}
	return ts, count, nil
}
