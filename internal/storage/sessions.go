package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/industry-atlas/internal/common"
)

// SessionStore keeps short-lived values for one session. It satisfies
// handoff.Store.
type SessionStore struct {
	db        *sql.DB
	sessionID string
}

// Session returns the value store scoped to sessionID.
func (s *SQLiteStorage) Session(sessionID string) (*SessionStore, error) {
	if err := validateString(sessionID, "sessionID"); err != nil {
		return nil, err
	}
	return &SessionStore{db: s.db, sessionID: sessionID}, nil
}

// ID returns the session id.
func (ss *SessionStore) ID() string {
	return ss.sessionID
}

// Put stores value under key, replacing any previous value.
func (ss *SessionStore) Put(ctx context.Context, key string, value []byte) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(key, "key"); err != nil {
		return err
	}
	if value == nil {
		value = []byte{}
	}

	_, err := ss.db.ExecContext(ctx, `
		INSERT INTO session_values (session_id, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, ss.sessionID, key, value, time.Now().UTC())
	if err != nil {
		return common.NewStoreError("put session value", err)
	}
	return nil
}

// Take returns the value under key and deletes it in the same transaction.
func (ss *SessionStore) Take(ctx context.Context, key string) ([]byte, bool, error) {
	if err := validateContext(ctx); err != nil {
		return nil, false, err
	}
	if err := validateString(key, "key"); err != nil {
		return nil, false, err
	}

	tx, err := ss.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, common.NewStoreError("take session value", fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	var value []byte
	err = tx.QueryRowContext(ctx,
		"SELECT value FROM session_values WHERE session_id = ? AND key = ?",
		ss.sessionID, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, common.NewStoreError("take session value", err)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM session_values WHERE session_id = ? AND key = ?",
		ss.sessionID, key); err != nil {
		return nil, false, common.NewStoreError("take session value", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, false, common.NewStoreError("take session value", err)
	}
	return value, true, nil
}

// PurgeSessions deletes values not written since before. It returns the
// number of values removed.
func (s *SQLiteStorage) PurgeSessions(ctx context.Context, before time.Time) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM session_values WHERE updated_at < ?", before.UTC())
	if err != nil {
		return 0, common.NewStoreError("purge sessions", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, common.NewStoreError("purge sessions", err)
	}
	return n, nil
}
