package models

import "time"

// ELLProficiencyLevel is the English language proficiency band.
type ELLProficiencyLevel string

const (
	ELLProficiencyEntering   ELLProficiencyLevel = "ENTERING"
	ELLProficiencyEmerging   ELLProficiencyLevel = "EMERGING"
	ELLProficiencyDeveloping ELLProficiencyLevel = "DEVELOPING"
	ELLProficiencyExpanding  ELLProficiencyLevel = "EXPANDING"
	ELLProficiencyBridging   ELLProficiencyLevel = "BRIDGING"
	ELLProficiencyReaching   ELLProficiencyLevel = "REACHING"
)

var ellProficiencyDisplay = newDisplayTable(
	described(ELLProficiencyEntering, "Level 1 - Entering", "red", ""),
	described(ELLProficiencyEmerging, "Level 2 - Emerging", "orange", ""),
	described(ELLProficiencyDeveloping, "Level 3 - Developing", "yellow", ""),
	described(ELLProficiencyExpanding, "Level 4 - Expanding", "blue", ""),
	described(ELLProficiencyBridging, "Level 5 - Bridging", "teal", ""),
	described(ELLProficiencyReaching, "Level 6 - Reaching", "green", "Eligible for exit"),
)

func (l ELLProficiencyLevel) Label() string { return ellProficiencyDisplay.lookup(l).Label }
func (l ELLProficiencyLevel) Valid() bool   { return ellProficiencyDisplay.valid(l) }

// ELLServiceStatus is the state of a language support service.
type ELLServiceStatus string

const (
	ELLServiceStatusActive       ELLServiceStatus = "ACTIVE"
	ELLServiceStatusCompleted    ELLServiceStatus = "COMPLETED"
	ELLServiceStatusDiscontinued ELLServiceStatus = "DISCONTINUED"
)

var ellServiceStatusDisplay = newDisplayTable(
	entry(ELLServiceStatusActive, "Active", "green"),
	entry(ELLServiceStatusCompleted, "Completed", "blue"),
	entry(ELLServiceStatusDiscontinued, "Discontinued", "gray"),
)

func (s ELLServiceStatus) Label() string { return ellServiceStatusDisplay.lookup(s).Label }
func (s ELLServiceStatus) Valid() bool   { return ellServiceStatusDisplay.valid(s) }

// ELLStudent is the English learner profile linking to a student.
type ELLStudent struct {
	ID               int64               `db:"id" json:"id"`
	StudentID        int64               `db:"student_id" json:"student_id"`
	HomeLanguage     string              `db:"home_language" json:"home_language"`
	ProficiencyLevel ELLProficiencyLevel `db:"proficiency_level" json:"proficiency_level"`
	IdentifiedDate   *time.Time          `db:"identified_date" json:"identified_date,omitempty"`
	ExitDate         *time.Time          `db:"exit_date" json:"exit_date,omitempty"`
	Student          *Student            `db:"-" json:"student,omitempty"`
	AuditFields
}

// ELLService is a scheduled language support service, optionally linked to a profile.
type ELLService struct {
	ID             int64            `db:"id" json:"id"`
	ELLStudentID   *int64           `db:"ell_student_id" json:"ell_student_id,omitempty"`
	ServiceType    string           `db:"service_type" json:"service_type"`
	ProviderID     *int64           `db:"provider_id" json:"provider_id,omitempty"`
	MinutesPerWeek int              `db:"minutes_per_week" json:"minutes_per_week"`
	StartDate      *time.Time       `db:"start_date" json:"start_date,omitempty"`
	EndDate        *time.Time       `db:"end_date" json:"end_date,omitempty"`
	Status         ELLServiceStatus `db:"status" json:"status"`
	ELLStudent     *ELLStudent      `db:"-" json:"ell_student,omitempty"`
	AuditFields
}

// Student walks service -> profile -> student. ok is false when any link is missing.
func (s *ELLService) Student() (student *Student, ok bool) {
	if s.ELLStudent == nil || s.ELLStudent.Student == nil {
		return nil, false
	}
	return s.ELLStudent.Student, true
}

// IsActive applies the shared validity predicate.
func (s *ELLService) IsActive(now time.Time) bool {
	return IsValidOn(s.Status == ELLServiceStatusActive, Window{Start: s.StartDate, End: s.EndDate}, now)
}
