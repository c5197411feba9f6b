package storage

import (
	"database/sql"
	"errors"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"

	"notestack/internal/service"
)

// ErrNotFound is returned when a record is not found. It aliases the shared
// service sentinel so handlers can map it with errors.Is.
var ErrNotFound = service.ErrNotFound

// New opens a SQLite database connection at the given path.
// It enables foreign keys and sets connection pool settings.
func New(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	// Enable foreign keys (disabled by default in SQLite)
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate runs database migrations to create the required tables.
// It is idempotent and can be run multiple times safely.
func Migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS subjects (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			slug TEXT UNIQUE,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS topics (
			id TEXT PRIMARY KEY,
			subject_id TEXT NOT NULL,
			name TEXT NOT NULL,
			slug TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (subject_id) REFERENCES subjects(id),
			UNIQUE (subject_id, name),
			UNIQUE (subject_id, slug)
		);`,
		`CREATE TABLE IF NOT EXISTS notes (
			id TEXT PRIMARY KEY,
			subject_id TEXT,
			topic_id TEXT,
			title TEXT NOT NULL,
			slug TEXT NOT NULL,
			markdown TEXT NOT NULL,
			tags TEXT,
			summary TEXT,
			sources TEXT,
			chatworthy_note_id TEXT,
			chatworthy_chat_id TEXT,
			chatworthy_chat_title TEXT,
			chatworthy_file_name TEXT,
			chatworthy_turn_index INTEGER,
			chatworthy_total_turns INTEGER,
			import_batch_id TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (subject_id) REFERENCES subjects(id),
			FOREIGN KEY (topic_id) REFERENCES topics(id)
		);`,
		// Note slugs are unique per topic; notes without a topic form their own scope.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_notes_topic_slug
			ON notes (COALESCE(topic_id, ''), slug);`,
		`CREATE TABLE IF NOT EXISTS import_batches (
			id TEXT PRIMARY KEY,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			imported_count INTEGER NOT NULL,
			remaining_count INTEGER NOT NULL,
			source_type TEXT NOT NULL
		);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}

// IsUniqueViolation reports whether err is a SQLite unique-constraint failure.
// The slug allocator's probe-then-create sequence is not atomic, so inserts
// can still lose a race; callers use this to decide whether to re-allocate.
func IsUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// parseSQLiteTime parses a DATETIME string as written by SQLite.
func parseSQLiteTime(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err == nil {
		return t, nil
	}
	// SQLite might use RFC3339 depending on how the value was written
	return time.Parse(time.RFC3339, s)
}
