package user

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"gymdesk/internal/adapters/storage"
	domain "gymdesk/internal/domain/user"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new UserStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const userColumns = "id, username, password_hash, name, role, created_at"

// GetByID retrieves a User by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE id = ?"
	row := s.db.QueryRowContext(ctx, query, id)

	entity, err := scanUser(row.Scan)
	if err == sql.ErrNoRows {
		return domain.User{}, fmt.Errorf("user not found: %w", err)
	}
	return entity, err
}

// GetByUsername retrieves a User by username.
// PRE: username is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE username = ?"
	row := s.db.QueryRowContext(ctx, query, username)

	entity, err := scanUser(row.Scan)
	if err == sql.ErrNoRows {
		return domain.User{}, fmt.Errorf("user not found: %w", err)
	}
	return entity, err
}

// Save persists a User to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.User) error {
	query := `INSERT INTO users (id, username, password_hash, name, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			username=excluded.username,
			password_hash=excluded.password_hash,
			name=excluded.name,
			role=excluded.role`

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.Username,
		entity.PasswordHash,
		entity.Name,
		entity.Role,
		storage.FormatTime(entity.CreatedAt),
	)
	return err
}

// Delete removes a User from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	return err
}

// List retrieves Users based on the filter.
// PRE: filter has valid parameters
// POST: Returns matching entities ordered by creation time
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.User, error) {
	var queryBuilder strings.Builder
	var args []any

	queryBuilder.WriteString("SELECT " + userColumns + " FROM users")
	if filter.Role != "" {
		queryBuilder.WriteString(" WHERE role = ?")
		args = append(args, filter.Role)
	}
	queryBuilder.WriteString(" ORDER BY created_at DESC")
	if filter.Limit > 0 {
		queryBuilder.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.User
	for rows.Next() {
		entity, err := scanUser(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Count returns the total number of users.
// PRE: none
// POST: Returns total user count
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

// scanUser extracts a User from a row scanner function.
func scanUser(scan func(dest ...any) error) (domain.User, error) {
	var entity domain.User
	var createdAt string
	err := scan(
		&entity.ID,
		&entity.Username,
		&entity.PasswordHash,
		&entity.Name,
		&entity.Role,
		&createdAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	entity.CreatedAt, _ = storage.ParseTime(createdAt)
	return entity, nil
}
