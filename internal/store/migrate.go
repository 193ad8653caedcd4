// Copyright (c) 2025 Berik Ashimov

package store

import (
	"context"
	"database/sql"
	"embed"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

//go:embed migrations/*.sql
var migFS embed.FS

// migrate applies every embedded migration newer than the recorded schema
// version, in file name order.
func migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TEXT NOT NULL
		)
	`); err != nil {
		return errors.Wrap(err, "create schema_migrations")
	}
	files, err := migrationFiles()
	if err != nil {
		return err
	}
	var current sql.NullInt64
	if err := db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_migrations`).Scan(&current); err != nil {
		return errors.Wrap(err, "read schema version")
	}
	latest := 0
	if n := len(files); n > 0 {
		latest = files[n-1].version
	}
	if int(current.Int64) > latest {
		return errors.Errorf("database schema is newer (%d) than this binary supports (%d)", current.Int64, latest)
	}
	for _, f := range files {
		if int64(f.version) <= current.Int64 {
			continue
		}
		body, err := migFS.ReadFile(f.name)
		if err != nil {
			return errors.Wrap(err, f.name)
		}
		if err := execStatements(ctx, db, string(body)); err != nil {
			return errors.Wrap(err, f.name)
		}
		if _, err := db.ExecContext(ctx, `INSERT INTO schema_migrations(version, applied_at) VALUES(?, ?)`,
			f.version, time.Now().UTC().Format(time.RFC3339)); err != nil {
			return errors.Wrap(err, f.name)
		}
	}
	return nil
}

type migration struct {
	name    string
	version int
}

func migrationFiles() ([]migration, error) {
	entries, err := migFS.ReadDir("migrations")
	if err != nil {
		return nil, errors.Wrap(err, "list migrations")
	}
	var out []migration
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".sql" {
			continue
		}
		v, err := migrationVersion(e.Name())
		if err != nil {
			return nil, err
		}
		out = append(out, migration{name: "migrations/" + e.Name(), version: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	return out, nil
}

func migrationVersion(name string) (int, error) {
	end := 0
	for end < len(name) && name[end] >= '0' && name[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, errors.Errorf("invalid migration name: %s", name)
	}
	return strconv.Atoi(name[:end])
}

func execStatements(ctx context.Context, db *sql.DB, body string) error {
	for _, part := range strings.Split(body, ";") {
		stmt := strings.TrimSpace(part)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "duplicate column name") {
				continue
			}
			return err
		}
	}
	return nil
}
