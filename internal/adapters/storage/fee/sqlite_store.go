package fee

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"gymdesk/internal/adapters/storage"
	domain "gymdesk/internal/domain/fee"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new FeeStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const feeColumns = "id, member_id, amount_paid, payment_date, due_date, status, created_by, created_at"

// GetByID retrieves a Fee by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Fee, error) {
	query := "SELECT " + feeColumns + " FROM fees WHERE id = ?"
	row := s.db.QueryRowContext(ctx, query, id)

	entity, err := scanFee(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Fee{}, fmt.Errorf("fee not found: %w", err)
	}
	return entity, err
}

// Save persists a Fee to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Fee) error {
	query := `INSERT INTO fees (id, member_id, amount_paid, payment_date, due_date, status, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			amount_paid=excluded.amount_paid,
			payment_date=excluded.payment_date,
			due_date=excluded.due_date,
			status=excluded.status`

	var createdBy any
	if entity.CreatedBy != "" {
		createdBy = entity.CreatedBy
	}

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.MemberID,
		entity.AmountPaid,
		storage.FormatDate(entity.PaymentDate),
		storage.FormatDate(entity.DueDate),
		entity.Status,
		createdBy,
		storage.FormatTime(entity.CreatedAt),
	)
	return err
}

// Delete removes a Fee from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM fees WHERE id = ?", id)
	return err
}

// List retrieves Fees based on the filter, most recent due date first.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Fee, error) {
	where, args := listWhereClause(filter)

	var queryBuilder strings.Builder
	queryBuilder.WriteString("SELECT " + feeColumns + " FROM fees")
	queryBuilder.WriteString(where)
	queryBuilder.WriteString(" ORDER BY due_date DESC")
	if filter.Limit > 0 {
		queryBuilder.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Fee
	for rows.Next() {
		entity, err := scanFee(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Count returns the number of fees matching the filter.
// PRE: filter has valid parameters
// POST: Returns matching fee count
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := listWhereClause(filter)
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM fees"+where, args...).Scan(&count)
	return count, err
}

// listWhereClause builds the WHERE clause shared by List and Count.
func listWhereClause(filter ListFilter) (string, []any) {
	var conds []string
	var args []any
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.MemberID != "" {
		conds = append(conds, "member_id = ?")
		args = append(args, filter.MemberID)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// scanFee extracts a Fee from a row scanner function.
func scanFee(scan func(dest ...any) error) (domain.Fee, error) {
	var entity domain.Fee
	var createdBy sql.NullString
	var paymentDate, dueDate, createdAt string
	err := scan(
		&entity.ID,
		&entity.MemberID,
		&entity.AmountPaid,
		&paymentDate,
		&dueDate,
		&entity.Status,
		&createdBy,
		&createdAt,
	)
	if err != nil {
		return domain.Fee{}, err
	}
	if createdBy.Valid {
		entity.CreatedBy = createdBy.String
	}
	entity.PaymentDate, _ = storage.ParseTime(paymentDate)
	entity.DueDate, _ = storage.ParseTime(dueDate)
	entity.CreatedAt, _ = storage.ParseTime(createdAt)
	return entity, nil
}
