package repository

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/michaelkatsweb/Heronix-Application-sub017/internal/models"
)

var studentColumns = append([]string{
	"id", "student_number", "first_name", "middle_name", "last_name", "preferred_name",
	"birth_date", "grade_level", "status",
}, auditColumns...)

var studentSelect = "SELECT " + strings.Join(studentColumns, ", ") + " FROM students"

// StudentRepository reads students. Student records are owned by the
// enrollment system; the only status change made here happens inside
// WithdrawalRepository.Complete.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindByID fetches a student by id.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	var student models.Student
	if err := r.db.GetContext(ctx, &student, studentSelect+" WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &student, nil
}
