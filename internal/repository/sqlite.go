package repository

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

type SQLiteDB struct {
	db *sql.DB
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteDB{
		db: db,
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("error while migrating to database: %w", err)
	}

	return s, nil
}

func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS alerts (
			id TEXT PRIMARY KEY,
			opened_at TEXT NOT NULL,
			closed_at TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			severity TEXT NOT NULL,
			category TEXT NOT NULL,
			detail TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT NOT NULL,
			closed_by TEXT NOT NULL DEFAULT '',
			comment TEXT NOT NULL DEFAULT '',
			conversation_id TEXT NOT NULL DEFAULT '',
			meeting_ids TEXT NOT NULL DEFAULT '[]'
		);

		CREATE TABLE IF NOT EXISTS error_catalog (
			error_code INTEGER PRIMARY KEY,
			severity TEXT NOT NULL,
			category TEXT NOT NULL,
			alert_detail TEXT NOT NULL,
			invoke_condition TEXT NOT NULL,
			tag_name TEXT NOT NULL,
			tag_description TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS measurements (
			loop_name TEXT NOT NULL,
			measure_name TEXT NOT NULL,
			timestamp TEXT NOT NULL,
			value TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_alerts_status_opened_at ON alerts(status, opened_at);
		CREATE INDEX IF NOT EXISTS idx_measurements_loop_time ON measurements(loop_name, timestamp);
  	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}
