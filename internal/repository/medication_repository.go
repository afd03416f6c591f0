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

var medicationColumns = append([]string{
	"id", "student_id", "name", "dosage", "route", "frequency", "prescribing_doctor",
	"start_date", "end_date", "expiration_date", "quantity_on_hand", "parent_consent",
	"self_administer", "status",
}, auditColumns...)

var (
	medicationSelect = "SELECT " + strings.Join(medicationColumns, ", ") + " FROM medications"
	medicationInsert = namedInsert("medications", without(medicationColumns, "id"))
)

// MedicationRepository persists health office prescriptions.
type MedicationRepository struct {
	db *sqlx.DB
}

// NewMedicationRepository constructs a MedicationRepository.
func NewMedicationRepository(db *sqlx.DB) *MedicationRepository {
	return &MedicationRepository{db: db}
}

// Create inserts a medication and assigns its id.
func (r *MedicationRepository) Create(ctx context.Context, med *models.Medication) error {
	id, err := insertReturningID(ctx, r.db, medicationInsert, med)
	if err != nil {
		return fmt.Errorf("create medication: %w", err)
	}
	med.ID = id
	return nil
}

// FindByID loads one medication.
func (r *MedicationRepository) FindByID(ctx context.Context, id int64) (*models.Medication, error) {
	var med models.Medication
	if err := r.db.GetContext(ctx, &med, medicationSelect+" WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &med, nil
}

// ListByStudent returns every medication on file for a student, newest first.
func (r *MedicationRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.Medication, error) {
	var meds []models.Medication
	if err := r.db.SelectContext(ctx, &meds, medicationSelect+" WHERE student_id = $1 ORDER BY created_at DESC", studentID); err != nil {
		return nil, fmt.Errorf("list medications: %w", err)
	}
	return meds, nil
}

// ListActiveOn returns medications in force on day, applying the validity window in SQL.
// A nil studentID lists the whole school.
func (r *MedicationRepository) ListActiveOn(ctx context.Context, studentID *int64, day time.Time) ([]models.Medication, error) {
	query := medicationSelect + ` WHERE status = $1 AND parent_consent = TRUE
        AND (start_date IS NULL OR start_date <= $2)
        AND (end_date IS NULL OR end_date >= $2)
        AND (expiration_date IS NULL OR expiration_date >= $2)`
	args := []interface{}{models.MedicationStatusActive, models.DayOf(day)}
	if studentID != nil {
		query += " AND student_id = $3"
		args = append(args, *studentID)
	}
	query += " ORDER BY student_id, name"

	var meds []models.Medication
	if err := r.db.SelectContext(ctx, &meds, query, args...); err != nil {
		return nil, fmt.Errorf("list active medications: %w", err)
	}
	return meds, nil
}

// UpdateStatus changes the administration status.
func (r *MedicationRepository) UpdateStatus(ctx context.Context, id int64, status models.MedicationStatus, actor *int64, now time.Time) error {
	const query = `UPDATE medications SET status = $2, updated_by = COALESCE($3, updated_by), updated_at = $4 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status, actor, now)
	if err != nil {
		return fmt.Errorf("update medication status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update medication status: %w", sql.ErrNoRows)
	}
	return nil
}
