// Package db keeps the batch history in a local sqlite database.
package db

import (
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

func Open(dataDir string) (*sql.DB, error) {
	dbDir := filepath.Join(dataDir, "db")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	dsn := filepath.Join(dbDir, "wmstudio.db") + "?_pragma=busy_timeout(5000)"
	database, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := database.Exec(pragma); err != nil {
			database.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	database.SetMaxOpenConns(1)

	return database, nil
}

// Migrate brings the schema up to date. Embedded migration files apply in
// lexical order, each in its own transaction, with applied filenames tracked
// in a _migrations table so reruns are no-ops.
func Migrate(database *sql.DB, migrationFS fs.FS) error {
	if _, err := database.Exec(`CREATE TABLE IF NOT EXISTS _migrations (
		filename   TEXT PRIMARY KEY,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	applied := map[string]bool{}
	rows, err := database.Query("SELECT filename FROM _migrations")
	if err != nil {
		return fmt.Errorf("read applied migrations: %w", err)
	}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return fmt.Errorf("read applied migrations: %w", err)
		}
		applied[name] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read applied migrations: %w", err)
	}

	// Glob returns the files already sorted.
	files, err := fs.Glob(migrationFS, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}

	for _, file := range files {
		name := path.Base(file)
		if applied[name] {
			continue
		}
		if err := applyMigration(database, migrationFS, file, name); err != nil {
			return err
		}
		slog.Info("applied migration", "file", name)
	}
	return nil
}

func applyMigration(database *sql.DB, migrationFS fs.FS, file, name string) error {
	content, err := fs.ReadFile(migrationFS, file)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", name, err)
	}

	tx, err := database.Begin()
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", name, err)
	}
	if _, err := tx.Exec(string(content)); err != nil {
		tx.Rollback()
		return fmt.Errorf("apply migration %s: %w", name, err)
	}
	if _, err := tx.Exec("INSERT INTO _migrations (filename, applied_at) VALUES (?, ?)",
		name, formatTime(time.Now())); err != nil {
		tx.Rollback()
		return fmt.Errorf("record migration %s: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %s: %w", name, err)
	}
	return nil
}

// timeText is the layout timestamps are stored with. Lexical order on the
// stored strings matches chronological order, which the listing and prune
// queries rely on.
const timeText = "2006-01-02T15:04:05.000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeText)
}

// scanTime reads a timestamp column back into a time.Time. The driver hands
// TEXT columns over as string; empty and NULL both scan to the zero time.
type scanTime struct {
	Time time.Time
}

func (st *scanTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		st.Time = time.Time{}
		return nil
	case string:
		if v == "" {
			st.Time = time.Time{}
			return nil
		}
		for _, layout := range []string{timeText, time.RFC3339} {
			if t, err := time.Parse(layout, v); err == nil {
				st.Time = t
				return nil
			}
		}
		return fmt.Errorf("scan time: cannot parse %q", v)
	case time.Time:
		st.Time = v
		return nil
	default:
		return fmt.Errorf("scan time: unsupported type %T", src)
	}
}
