package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/michaelkatsweb/Heronix-Application-sub017/internal/models"
)

var withdrawalColumns = func() []string {
	cols := []string{
		"id", "withdrawal_number", "student_id", "status", "reason", "withdrawal_date",
		"last_attendance_date", "effective_date", "expiration_date", "destination_school",
		"notes", "completed_at",
	}
	cols = append(cols, models.ClearanceKeys()...)
	cols = append(cols, "total_items", "cleared_items", "all_cleared")
	return append(cols, auditColumns...)
}()

var (
	withdrawalSelect = "SELECT " + strings.Join(withdrawalColumns, ", ") + " FROM withdrawal_records"
	withdrawalInsert = namedInsert("withdrawal_records", without(withdrawalColumns, "id"))
	withdrawalUpdate = "UPDATE withdrawal_records SET " +
		namedSet(without(withdrawalColumns, "id", "withdrawal_number", "student_id", "created_by", "created_at")) +
		" WHERE id = :id"
	withdrawalStatusUpdate = `UPDATE withdrawal_records SET status = $2, completed_at = $3, updated_by = COALESCE($4, updated_by), updated_at = $5 WHERE id = $1`
	studentStatusUpdate    = `UPDATE students SET status = $2, updated_by = COALESCE($3, updated_by), updated_at = $4 WHERE id = $1`
)

// WithdrawalRepository persists withdrawal cases and their clearance flags.
type WithdrawalRepository struct {
	db *sqlx.DB
}

// NewWithdrawalRepository constructs a WithdrawalRepository.
func NewWithdrawalRepository(db *sqlx.DB) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

// withdrawalNumberAttempts bounds retries when a concurrent create takes the same number.
const withdrawalNumberAttempts = 5

// NextWithdrawalNumber returns the number after the highest one issued for year.
// Numbers below the current highest are never handed out again.
func (r *WithdrawalRepository) NextWithdrawalNumber(ctx context.Context, year int) (string, error) {
	const query = `SELECT COALESCE(MAX(CAST(SUBSTRING(withdrawal_number FROM 9) AS INTEGER)), 0) FROM withdrawal_records WHERE withdrawal_number LIKE $1`
	var last int
	if err := r.db.GetContext(ctx, &last, query, fmt.Sprintf("WD-%d-%%", year)); err != nil {
		return "", fmt.Errorf("max withdrawal number: %w", err)
	}
	return models.FormatWithdrawalNumber(year, last+1), nil
}

// Create inserts the record and assigns its numeric id. Cached clearance totals
// are refreshed first. When WithdrawalNumber is empty a number is allocated for
// the year of CreatedAt, retrying if another insert claims it first.
func (r *WithdrawalRepository) Create(ctx context.Context, record *models.WithdrawalRecord) error {
	record.RecalculateClearance()
	if record.WithdrawalNumber != "" {
		return r.insert(ctx, record)
	}

	year := record.CreatedAt.Year()
	var err error
	for attempt := 0; attempt < withdrawalNumberAttempts; attempt++ {
		if record.WithdrawalNumber, err = r.NextWithdrawalNumber(ctx, year); err != nil {
			record.WithdrawalNumber = ""
			return fmt.Errorf("create withdrawal: %w", err)
		}
		if err = r.insert(ctx, record); !isUniqueViolation(err) {
			if err != nil {
				record.WithdrawalNumber = ""
			}
			return err
		}
	}
	record.WithdrawalNumber = ""
	return fmt.Errorf("create withdrawal: number allocation kept colliding: %w", err)
}

func (r *WithdrawalRepository) insert(ctx context.Context, record *models.WithdrawalRecord) error {
	id, err := insertReturningID(ctx, r.db, withdrawalInsert, record)
	if err != nil {
		return fmt.Errorf("create withdrawal: %w", err)
	}
	record.ID = id
	return nil
}

// FindByID loads a withdrawal by surrogate key.
func (r *WithdrawalRepository) FindByID(ctx context.Context, id int64) (*models.WithdrawalRecord, error) {
	var record models.WithdrawalRecord
	if err := r.db.GetContext(ctx, &record, withdrawalSelect+" WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &record, nil
}

// FindByNumber loads a withdrawal by its natural key.
func (r *WithdrawalRepository) FindByNumber(ctx context.Context, number string) (*models.WithdrawalRecord, error) {
	var record models.WithdrawalRecord
	if err := r.db.GetContext(ctx, &record, withdrawalSelect+" WHERE withdrawal_number = $1", number); err != nil {
		return nil, err
	}
	return &record, nil
}

// List returns withdrawals matching filter together with the total count.
func (r *WithdrawalRepository) List(ctx context.Context, filter models.WithdrawalFilter) ([]models.WithdrawalRecord, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.StudentID != nil {
		args = append(args, *filter.StudentID)
		conditions = append(conditions, fmt.Sprintf("student_id = $%d", len(args)))
	}
	if len(filter.Status) > 0 {
		placeholders := make([]string, len(filter.Status))
		for i, s := range filter.Status {
			args = append(args, s)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		conditions = append(conditions, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ", ")))
	}
	if filter.Reason != "" {
		args = append(args, filter.Reason)
		conditions = append(conditions, fmt.Sprintf("reason = $%d", len(args)))
	}
	if filter.FromDate != nil {
		args = append(args, *filter.FromDate)
		conditions = append(conditions, fmt.Sprintf("withdrawal_date >= $%d", len(args)))
	}
	if filter.ToDate != nil {
		args = append(args, *filter.ToDate)
		conditions = append(conditions, fmt.Sprintf("withdrawal_date <= $%d", len(args)))
	}

	where := " WHERE " + strings.Join(conditions, " AND ")
	order := sortClause(filter.SortBy, filter.SortOrder, map[string]string{
		"withdrawal_date":   "withdrawal_date",
		"withdrawal_number": "withdrawal_number",
		"cleared_items":     "cleared_items",
		"created_at":        "created_at",
	}, "created_at")
	_, size, offset := pageBounds(filter.Page, filter.PageSize)

	query := fmt.Sprintf("%s%s ORDER BY %s LIMIT %d OFFSET %d", withdrawalSelect, where, order, size, offset)
	var records []models.WithdrawalRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list withdrawals: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM withdrawal_records"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count withdrawals: %w", err)
	}
	return records, total, nil
}

// Update writes every mutable column, recomputing clearance totals before the write.
func (r *WithdrawalRepository) Update(ctx context.Context, record *models.WithdrawalRecord) error {
	record.RecalculateClearance()
	if _, err := r.db.NamedExecContext(ctx, withdrawalUpdate, record); err != nil {
		return fmt.Errorf("update withdrawal: %w", err)
	}
	return nil
}

// UpdateStatus changes only the status columns.
func (r *WithdrawalRepository) UpdateStatus(ctx context.Context, id int64, status models.WithdrawalStatus, completedAt *time.Time, actor *int64, now time.Time) error {
	res, err := r.db.ExecContext(ctx, withdrawalStatusUpdate, id, status, completedAt, actor, now)
	if err != nil {
		return fmt.Errorf("update withdrawal status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update withdrawal status: %w", sql.ErrNoRows)
	}
	return nil
}

// Complete marks the case COMPLETED and moves the student to studentStatus in
// one transaction. Either both rows change or neither does.
func (r *WithdrawalRepository) Complete(ctx context.Context, id, studentID int64, studentStatus models.StudentStatus, completedAt time.Time, actor *int64) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin complete withdrawal tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, withdrawalStatusUpdate, id, models.WithdrawalStatusCompleted, completedAt, actor, completedAt)
	if err != nil {
		return fmt.Errorf("complete withdrawal: %w", err)
	}
	if n, rowsErr := res.RowsAffected(); rowsErr == nil && n == 0 {
		return fmt.Errorf("complete withdrawal: %w", sql.ErrNoRows)
	}

	res, err = tx.ExecContext(ctx, studentStatusUpdate, studentID, studentStatus, actor, completedAt)
	if err != nil {
		return fmt.Errorf("update student status: %w", err)
	}
	if n, rowsErr := res.RowsAffected(); rowsErr == nil && n == 0 {
		return fmt.Errorf("update student status: %w", sql.ErrNoRows)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit complete withdrawal tx: %w", err)
	}
	return nil
}
