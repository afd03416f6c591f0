package models

import (
	"strings"
	"time"
)

// StudentStatus is the enrollment state of a learner.
type StudentStatus string

const (
	StudentStatusActive      StudentStatus = "ACTIVE"
	StudentStatusInactive    StudentStatus = "INACTIVE"
	StudentStatusWithdrawn   StudentStatus = "WITHDRAWN"
	StudentStatusTransferred StudentStatus = "TRANSFERRED"
	StudentStatusGraduated   StudentStatus = "GRADUATED"
)

var studentStatusDisplay = newDisplayTable(
	entry(StudentStatusActive, "Active", "green"),
	entry(StudentStatusInactive, "Inactive", "gray"),
	entry(StudentStatusWithdrawn, "Withdrawn", "red"),
	entry(StudentStatusTransferred, "Transferred", "blue"),
	entry(StudentStatusGraduated, "Graduated", "purple"),
)

func (s StudentStatus) Label() string { return studentStatusDisplay.lookup(s).Label }
func (s StudentStatus) Color() string { return studentStatusDisplay.lookup(s).Color }
func (s StudentStatus) Valid() bool   { return studentStatusDisplay.valid(s) }

// Student represents a learner registered in the district.
type Student struct {
	ID            int64         `db:"id" json:"id"`
	StudentNumber string        `db:"student_number" json:"student_number"`
	FirstName     string        `db:"first_name" json:"first_name"`
	MiddleName    *string       `db:"middle_name" json:"middle_name,omitempty"`
	LastName      string        `db:"last_name" json:"last_name"`
	PreferredName *string       `db:"preferred_name" json:"preferred_name,omitempty"`
	BirthDate     *time.Time    `db:"birth_date" json:"birth_date,omitempty"`
	GradeLevel    string        `db:"grade_level" json:"grade_level"`
	Status        StudentStatus `db:"status" json:"status"`
	AuditFields
}

// FullName joins first, middle and last names, skipping blanks.
func (s *Student) FullName() string {
	parts := []string{s.FirstName}
	if s.MiddleName != nil {
		parts = append(parts, *s.MiddleName)
	}
	parts = append(parts, s.LastName)
	return joinNonEmpty(parts, " ")
}

// DisplayName prefers the preferred name as "Last, Preferred".
func (s *Student) DisplayName() string {
	first := s.FirstName
	if s.PreferredName != nil && strings.TrimSpace(*s.PreferredName) != "" {
		first = *s.PreferredName
	}
	if s.LastName == "" {
		return first
	}
	if first == "" {
		return s.LastName
	}
	return s.LastName + ", " + first
}

// Age returns whole years at now, or 0 when the birth date is unknown.
func (s *Student) Age(now time.Time) int {
	if s.BirthDate == nil {
		return 0
	}
	b := *s.BirthDate
	years := now.Year() - b.Year()
	if now.Month() < b.Month() || (now.Month() == b.Month() && now.Day() < b.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// IsEnrolled is true while the student is active.
func (s *Student) IsEnrolled() bool {
	return s.Status == StudentStatusActive
}

func joinNonEmpty(parts []string, sep string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			kept = append(kept, t)
		}
	}
	return strings.Join(kept, sep)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
