package member

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"gymdesk/internal/adapters/storage"
	domain "gymdesk/internal/domain/member"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new MemberStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const memberColumns = "id, admission_number, name, phone, address, gym_plan, created_by, created_at"

// GetByID retrieves a Member by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Member, error) {
	query := "SELECT " + memberColumns + " FROM members WHERE id = ?"
	row := s.db.QueryRowContext(ctx, query, id)

	entity, err := scanMember(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Member{}, fmt.Errorf("member not found: %w", err)
	}
	return entity, err
}

// GetByAdmissionNumber retrieves a Member by admission number.
// PRE: admissionNumber is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByAdmissionNumber(ctx context.Context, admissionNumber string) (domain.Member, error) {
	query := "SELECT " + memberColumns + " FROM members WHERE admission_number = ?"
	row := s.db.QueryRowContext(ctx, query, admissionNumber)

	entity, err := scanMember(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Member{}, fmt.Errorf("member not found: %w", err)
	}
	return entity, err
}

// Save persists a Member to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Member) error {
	query := `INSERT INTO members (id, admission_number, name, phone, address, gym_plan, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			admission_number=excluded.admission_number,
			name=excluded.name,
			phone=excluded.phone,
			address=excluded.address,
			gym_plan=excluded.gym_plan`

	var createdBy any
	if entity.CreatedBy != "" {
		createdBy = entity.CreatedBy
	}

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.AdmissionNumber,
		entity.Name,
		entity.Phone,
		entity.Address,
		entity.GymPlan,
		createdBy,
		storage.FormatTime(entity.CreatedAt),
	)
	return err
}

// Delete removes a Member from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM members WHERE id = ?", id)
	return err
}

// List retrieves Members based on the filter, newest first.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Member, error) {
	var queryBuilder strings.Builder
	var args []any

	queryBuilder.WriteString("SELECT " + memberColumns + " FROM members")
	if filter.Search != "" {
		queryBuilder.WriteString(" WHERE name LIKE ? OR admission_number LIKE ?")
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern)
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

	var results []domain.Member
	for rows.Next() {
		entity, err := scanMember(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Count returns the total number of members.
// PRE: none
// POST: Returns total member count
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM members").Scan(&count)
	return count, err
}

// scanMember extracts a Member from a row scanner function.
func scanMember(scan func(dest ...any) error) (domain.Member, error) {
	var entity domain.Member
	var createdBy sql.NullString
	var createdAt string
	err := scan(
		&entity.ID,
		&entity.AdmissionNumber,
		&entity.Name,
		&entity.Phone,
		&entity.Address,
		&entity.GymPlan,
		&createdBy,
		&createdAt,
	)
	if err != nil {
		return domain.Member{}, err
	}
	if createdBy.Valid {
		entity.CreatedBy = createdBy.String
	}
	entity.CreatedAt, _ = storage.ParseTime(createdAt)
	return entity, nil
}
