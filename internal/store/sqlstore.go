package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// nowUTC returns the current UTC time as an ISO 8601 string.
func nowUTC() string { return time.Now().UTC().Format(time.RFC3339) }

// nullStr converts a sql.NullString to a plain string (empty if null).
func nullStr(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// currentSchemaVersion is the target schema version for this build.
const currentSchemaVersion = schemaVersionV1

// SqlStore implements Store with SQLite.
type SqlStore struct {
	db *sql.DB
}

// Open opens or creates a SQLite DB at path and runs migrations.
// Creates the parent directory (e.g. .safe-nlt) if it does not exist.
func Open(path string) (*SqlStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	s := &SqlStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SqlStore) migrate() error {
	// Check if schema_version table exists to detect database state.
	var tableCount int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableCount)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableCount == 0 {
		// Fresh database.
		if _, err := s.db.Exec(schemaV1); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_version(version) VALUES(?)", currentSchemaVersion); err != nil {
			return fmt.Errorf("set schema version: %w", err)
		}
		return nil
	}

	var v int
	err = s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		if _, err := s.db.Exec("INSERT INTO schema_version(version) VALUES(?)", currentSchemaVersion); err != nil {
			return fmt.Errorf("set schema version: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if v != currentSchemaVersion {
		return fmt.Errorf("unknown schema version %d", v)
	}
	return nil
}

// Close closes the database connection.
func (s *SqlStore) Close() error {
	return s.db.Close()
}

// CreateRun inserts a new run in StatusRunning and returns its id.
func (s *SqlStore) CreateRun(run *Run) (int64, error) {
	if run == nil {
		return 0, errors.New("run is nil")
	}
	startedAt := run.StartedAt
	if startedAt == "" {
		startedAt = nowUTC()
	}
	res, err := s.db.Exec(
		`INSERT INTO runs(kind, status, vaults, interval_secs, vaults_dir, contact, started_at)
		 VALUES(?, ?, ?, ?, ?, ?, ?)`,
		run.Kind, StatusRunning, run.Vaults, run.IntervalSecs, run.VaultsDir, run.Contact, startedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// FinishRun closes a run with the final status, stamping finished_at.
func (s *SqlStore) FinishRun(id int64, status, contact, errMsg string) error {
	res, err := s.db.Exec(
		`UPDATE runs SET status = ?, finished_at = ?,
		        contact = CASE WHEN ? != '' THEN ? ELSE contact END,
		        error = CASE WHEN ? != '' THEN ? ELSE error END
		 WHERE id = ?`,
		status, nowUTC(), contact, contact, errMsg, errMsg, id,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finish run: no run with id %d", id)
	}
	return nil
}

// GetRun returns the run by id, or nil if absent.
func (s *SqlStore) GetRun(id int64) (*Run, error) {
	var r Run
	var contact, errText, finishedAt sql.NullString
	err := s.db.QueryRow(
		`SELECT id, kind, status, vaults, interval_secs, vaults_dir, contact, error, started_at, finished_at
		 FROM runs WHERE id = ?`,
		id,
	).Scan(&r.ID, &r.Kind, &r.Status, &r.Vaults, &r.IntervalSecs, &r.VaultsDir,
		&contact, &errText, &r.StartedAt, &finishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	r.Contact = nullStr(contact)
	r.Error = nullStr(errText)
	r.FinishedAt = nullStr(finishedAt)
	return &r, nil
}

// ListRuns returns up to limit runs, newest first.
func (s *SqlStore) ListRuns(limit int) ([]*Run, error) {
	q := `SELECT id, kind, status, vaults, interval_secs, vaults_dir, contact, error, started_at, finished_at
	      FROM runs ORDER BY id DESC`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = s.db.Query(q+" LIMIT ?", limit)
	} else {
		rows, err = s.db.Query(q)
	}
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var list []*Run
	for rows.Next() {
		var r Run
		var contact, errText, finishedAt sql.NullString
		if err := rows.Scan(&r.ID, &r.Kind, &r.Status, &r.Vaults, &r.IntervalSecs, &r.VaultsDir,
			&contact, &errText, &r.StartedAt, &finishedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Contact = nullStr(contact)
		r.Error = nullStr(errText)
		r.FinishedAt = nullStr(finishedAt)
		list = append(list, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return list, nil
}
