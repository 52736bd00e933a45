package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"gymdesk/internal/adapters/storage"
	"gymdesk/internal/domain/user"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SessionStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get retrieves a session Record by token.
// PRE: token is non-empty
// POST: Returns (record, true) when a readable session exists.
// A row whose identity payload fails to decode is dropped and
// reported as absent.
func (s *SQLiteStore) Get(ctx context.Context, token string) (Record, bool, error) {
	query := "SELECT token, identity, created_at, expires_at FROM sessions WHERE token = ?"
	row := s.db.QueryRowContext(ctx, query, token)

	var record Record
	var identityJSON string
	var createdAt, expiresAt string
	err := row.Scan(&record.Token, &identityJSON, &createdAt, &expiresAt)
	if err == sql.ErrNoRows {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}

	var identity user.Identity
	if err := json.Unmarshal([]byte(identityJSON), &identity); err != nil {
		slog.Warn("session_discarded",
			slog.String("reason", "corrupt_identity"),
			slog.String("error", err.Error()))
		_ = s.Delete(ctx, token)
		return Record{}, false, nil
	}
	record.Identity = identity
	record.CreatedAt, _ = storage.ParseTime(createdAt)
	record.ExpiresAt, _ = storage.ParseTime(expiresAt)
	return record, true, nil
}

// Save persists a session Record.
// PRE: record has a non-empty token and identity
// POST: Record is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, record Record) error {
	identityJSON, err := json.Marshal(record.Identity)
	if err != nil {
		return err
	}

	query := `INSERT INTO sessions (token, identity, created_at, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(token) DO UPDATE SET
			identity=excluded.identity,
			expires_at=excluded.expires_at`

	_, err = s.db.ExecContext(ctx, query,
		record.Token,
		string(identityJSON),
		storage.FormatTime(record.CreatedAt),
		storage.FormatTime(record.ExpiresAt),
	)
	return err
}

// Delete removes a session Record.
// PRE: token is non-empty
// POST: Record with given token is removed
func (s *SQLiteStore) Delete(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE token = ?", token)
	return err
}

// DeleteExpired removes all sessions whose expiry is at or before now.
// POST: Returns the number of sessions removed
func (s *SQLiteStore) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM sessions WHERE expires_at <= ?", storage.FormatTime(now))
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	return int(affected), err
}

var _ Store = (*SQLiteStore)(nil)
