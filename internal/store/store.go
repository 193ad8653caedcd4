// Copyright (c) 2025 Berik Ashimov

// Package store keeps the one problem each session is currently answering
// per slot, plus the session's answer streak. A graded problem is cleared;
// no history is kept.
package store

import (
	"context"
	crand "crypto/rand"
	"database/sql"
	"encoding/hex"
	stderrors "errors"
	"strings"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"subnetlab/internal/problem"
)

var (
	ErrNotFound  = stderrors.New("store: no pending problem")
	ErrStale     = stderrors.New("store: problem was replaced by a newer one")
	ErrNoSession = stderrors.New("store: unknown session")
)

type Store struct {
	db *sql.DB
}

// Open connects to the sqlite database at dsn and brings its schema up to
// date.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", sqliteDSN(dsn))
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	// A single connection keeps a ":memory:" database alive between calls.
	db.SetMaxOpenConns(1)
	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "migrate")
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func sqliteDSN(raw string) string {
	if strings.Contains(raw, "_pragma=foreign_keys") {
		return raw
	}
	sep := "?"
	if strings.Contains(raw, "?") {
		sep = "&"
	}
	return raw + sep + "_pragma=foreign_keys(1)"
}

// timeLayout has a fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000Z"

func now() string { return time.Now().UTC().Format(timeLayout) }

func (s *Store) CreateSession(ctx context.Context) (string, error) {
	var b [16]byte
	if _, err := crand.Read(b[:]); err != nil {
		return "", errors.Wrap(err, "session id")
	}
	id := hex.EncodeToString(b[:])
	ts := now()
	if _, err := s.db.ExecContext(ctx, `INSERT INTO sessions(id, created_at, seen_at) VALUES(?, ?, ?)`, id, ts, ts); err != nil {
		return "", errors.Wrap(err, "create session")
	}
	return id, nil
}

func (s *Store) SessionExists(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM sessions WHERE id=?`, id).Scan(&n); err != nil {
		return false, errors.Wrap(err, "lookup session")
	}
	return n > 0, nil
}

// Put makes p the pending problem of slot and returns its generation. Each
// call bumps the generation, so an answer to an earlier problem in the same
// slot is rejected as stale.
func (s *Store) Put(ctx context.Context, session, slot string, p problem.Problem) (int64, error) {
	payload, err := problem.Encode(p)
	if err != nil {
		return 0, err
	}
	ts := now()
	var gen int64
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO pending(session_id, slot, generation, kind, payload, created_at)
		SELECT id, ?, 1, ?, ?, ? FROM sessions WHERE id=?
		ON CONFLICT(session_id, slot) DO UPDATE SET
			generation = generation + 1,
			kind = excluded.kind,
			payload = excluded.payload,
			created_at = excluded.created_at
		RETURNING generation`,
		slot, string(p.Kind()), string(payload), ts, session,
	).Scan(&gen)
	if stderrors.Is(err, sql.ErrNoRows) {
		return 0, ErrNoSession
	}
	if err != nil {
		return 0, errors.Wrap(err, "store pending problem")
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE sessions SET seen_at=? WHERE id=?`, ts, session); err != nil {
		return 0, errors.Wrap(err, "touch session")
	}
	return gen, nil
}

// Take returns the pending problem of slot and clears it. gen must be the
// generation Put returned for it.
func (s *Store) Take(ctx context.Context, session, slot string, gen int64) (problem.Problem, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "begin")
	}
	defer tx.Rollback()

	payload, err := loadPending(ctx, tx, session, slot, gen)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE pending SET kind=NULL, payload=NULL WHERE session_id=? AND slot=?`, session, slot); err != nil {
		return nil, errors.Wrap(err, "clear pending problem")
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit")
	}
	return problem.Decode(payload)
}

// Peek is Take without clearing the slot. The problem stays pending until a
// later Put replaces it.
func (s *Store) Peek(ctx context.Context, session, slot string, gen int64) (problem.Problem, error) {
	payload, err := loadPending(ctx, s.db, session, slot, gen)
	if err != nil {
		return nil, err
	}
	return problem.Decode(payload)
}

type rowQueryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func loadPending(ctx context.Context, q rowQueryer, session, slot string, gen int64) ([]byte, error) {
	var current int64
	var payload sql.NullString
	err := q.QueryRowContext(ctx, `SELECT generation, payload FROM pending WHERE session_id=? AND slot=?`, session, slot).
		Scan(&current, &payload)
	if stderrors.Is(err, sql.ErrNoRows) || err == nil && !payload.Valid {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "load pending problem")
	}
	if gen != current {
		return nil, ErrStale
	}
	return []byte(payload.String), nil
}

func (s *Store) Streak(ctx context.Context, session string) (int, error) {
	var streak int
	err := s.db.QueryRowContext(ctx, `SELECT streak FROM sessions WHERE id=?`, session).Scan(&streak)
	if stderrors.Is(err, sql.ErrNoRows) {
		return 0, ErrNoSession
	}
	return streak, errors.Wrap(err, "read streak")
}

func (s *Store) BumpStreak(ctx context.Context, session string) (int, error) {
	return s.setStreak(ctx, session, `UPDATE sessions SET streak = streak + 1 WHERE id=? RETURNING streak`)
}

func (s *Store) ResetStreak(ctx context.Context, session string) error {
	_, err := s.setStreak(ctx, session, `UPDATE sessions SET streak = 0 WHERE id=? RETURNING streak`)
	return err
}

func (s *Store) setStreak(ctx context.Context, session, query string) (int, error) {
	var streak int
	err := s.db.QueryRowContext(ctx, query, session).Scan(&streak)
	if stderrors.Is(err, sql.ErrNoRows) {
		return 0, ErrNoSession
	}
	if err != nil {
		return 0, errors.Wrap(err, "update streak")
	}
	return streak, nil
}

// Prune deletes sessions idle for longer than maxIdle together with their
// pending problems.
func (s *Store) Prune(ctx context.Context, maxIdle time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-maxIdle).Format(timeLayout)
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE COALESCE(seen_at, created_at) < ?`, cutoff)
	if err != nil {
		return 0, errors.Wrap(err, "prune sessions")
	}
	return res.RowsAffected()
}
