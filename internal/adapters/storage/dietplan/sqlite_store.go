package dietplan

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"gymdesk/internal/adapters/storage"
	domain "gymdesk/internal/domain/dietplan"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new DietPlanStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const planColumns = "id, member_id, plan_date, created_by, created_at"
const mealColumns = "id, plan_id, time_slot, name, category, quantity"

// GetByID retrieves a Plan with its meals.
// PRE: id is non-empty
// POST: Returns the plan with meals loaded, or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Plan, error) {
	query := "SELECT " + planColumns + " FROM diet_plans WHERE id = ?"
	row := s.db.QueryRowContext(ctx, query, id)

	plan, err := scanPlan(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Plan{}, fmt.Errorf("diet plan not found: %w", err)
	}
	if err != nil {
		return domain.Plan{}, err
	}

	plan.Meals, err = s.mealsForPlans(ctx, []string{plan.ID})
	return plan, err
}

// Save persists a Plan and its meals in a single transaction.
// Existing meals for the plan are replaced.
// PRE: plan has been validated
// POST: Plan row and all meal rows are persisted, or nothing is
func (s *SQLiteStore) Save(ctx context.Context, plan domain.Plan) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	planQuery := `INSERT INTO diet_plans (id, member_id, plan_date, created_by, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			member_id=excluded.member_id,
			plan_date=excluded.plan_date`

	var createdBy any
	if plan.CreatedBy != "" {
		createdBy = plan.CreatedBy
	}

	_, err = tx.ExecContext(ctx, planQuery,
		plan.ID,
		plan.MemberID,
		storage.FormatDate(plan.Date),
		createdBy,
		storage.FormatTime(plan.CreatedAt),
	)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM diet_meals WHERE plan_id = ?", plan.ID); err != nil {
		return err
	}

	mealQuery := `INSERT INTO diet_meals (id, plan_id, time_slot, name, category, quantity)
		VALUES (?, ?, ?, ?, ?, ?)`
	for _, meal := range plan.Meals {
		_, err := tx.ExecContext(ctx, mealQuery,
			meal.ID,
			plan.ID,
			meal.TimeSlot,
			meal.Name,
			meal.Category,
			meal.Quantity,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Delete removes a Plan and its meals.
// PRE: id is non-empty
// POST: Plan and dependent meal rows are removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM diet_meals WHERE plan_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM diet_plans WHERE id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}

// List retrieves Plans with meals, newest plan date first.
// PRE: filter has valid parameters
// POST: Returns matching plans with their meals loaded
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Plan, error) {
	var queryBuilder strings.Builder
	var args []any

	queryBuilder.WriteString("SELECT " + planColumns + " FROM diet_plans")
	if filter.MemberID != "" {
		queryBuilder.WriteString(" WHERE member_id = ?")
		args = append(args, filter.MemberID)
	}
	queryBuilder.WriteString(" ORDER BY plan_date DESC, created_at DESC")
	if filter.Limit > 0 {
		queryBuilder.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []domain.Plan
	var planIDs []string
	for rows.Next() {
		plan, err := scanPlan(rows.Scan)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
		planIDs = append(planIDs, plan.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(plans) == 0 {
		return plans, nil
	}

	meals, err := s.mealsForPlans(ctx, planIDs)
	if err != nil {
		return nil, err
	}
	byPlan := make(map[string][]domain.Meal, len(plans))
	for _, meal := range meals {
		byPlan[meal.PlanID] = append(byPlan[meal.PlanID], meal)
	}
	for i := range plans {
		plans[i].Meals = byPlan[plans[i].ID]
	}
	return plans, nil
}

// Count returns the total number of diet plans.
// PRE: none
// POST: Returns total plan count
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM diet_plans").Scan(&count)
	return count, err
}

// mealsForPlans loads all meals belonging to the given plan IDs,
// ordered by time slot insertion order within each plan.
func (s *SQLiteStore) mealsForPlans(ctx context.Context, planIDs []string) ([]domain.Meal, error) {
	placeholders := strings.Repeat("?,", len(planIDs))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, len(planIDs))
	for i, id := range planIDs {
		args[i] = id
	}

	query := "SELECT " + mealColumns + " FROM diet_meals WHERE plan_id IN (" + placeholders + ") ORDER BY rowid"
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meals []domain.Meal
	for rows.Next() {
		var meal domain.Meal
		err := rows.Scan(
			&meal.ID,
			&meal.PlanID,
			&meal.TimeSlot,
			&meal.Name,
			&meal.Category,
			&meal.Quantity,
		)
		if err != nil {
			return nil, err
		}
		meals = append(meals, meal)
	}
	return meals, rows.Err()
}

// scanPlan extracts a Plan from a row scanner function. Meals are
// loaded separately.
func scanPlan(scan func(dest ...any) error) (domain.Plan, error) {
	var plan domain.Plan
	var createdBy sql.NullString
	var planDate, createdAt string
	err := scan(
		&plan.ID,
		&plan.MemberID,
		&planDate,
		&createdBy,
		&createdAt,
	)
	if err != nil {
		return domain.Plan{}, err
	}
	if createdBy.Valid {
		plan.CreatedBy = createdBy.String
	}
	plan.Date, _ = storage.ParseTime(planDate)
	plan.CreatedAt, _ = storage.ParseTime(createdAt)
	return plan, nil
}
