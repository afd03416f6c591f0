package models

import (
	"fmt"
	"time"
)

// WithdrawalStatus tracks a withdrawal through clearance.
type WithdrawalStatus string

const (
	WithdrawalStatusDraft            WithdrawalStatus = "DRAFT"
	WithdrawalStatusPendingClearance WithdrawalStatus = "PENDING_CLEARANCE"
	WithdrawalStatusCleared          WithdrawalStatus = "CLEARED"
	WithdrawalStatusCompleted        WithdrawalStatus = "COMPLETED"
	WithdrawalStatusCancelled        WithdrawalStatus = "CANCELLED"
)

var withdrawalStatusDisplay = newDisplayTable(
	entry(WithdrawalStatusDraft, "Draft", "gray"),
	entry(WithdrawalStatusPendingClearance, "Pending Clearance", "orange"),
	entry(WithdrawalStatusCleared, "Cleared", "blue"),
	entry(WithdrawalStatusCompleted, "Completed", "green"),
	entry(WithdrawalStatusCancelled, "Cancelled", "red"),
)

func (s WithdrawalStatus) Label() string { return withdrawalStatusDisplay.lookup(s).Label }
func (s WithdrawalStatus) Color() string { return withdrawalStatusDisplay.lookup(s).Color }
func (s WithdrawalStatus) Valid() bool   { return withdrawalStatusDisplay.valid(s) }

// Terminal is true once the workflow can no longer move.
func (s WithdrawalStatus) Terminal() bool {
	return s == WithdrawalStatusCompleted || s == WithdrawalStatusCancelled
}

// WithdrawalReason is why the student is leaving.
type WithdrawalReason string

const (
	WithdrawalReasonTransfer   WithdrawalReason = "TRANSFER"
	WithdrawalReasonRelocation WithdrawalReason = "RELOCATION"
	WithdrawalReasonHomeschool WithdrawalReason = "HOMESCHOOL"
	WithdrawalReasonMedical    WithdrawalReason = "MEDICAL"
	WithdrawalReasonDropout    WithdrawalReason = "DROPOUT"
	WithdrawalReasonExpulsion  WithdrawalReason = "EXPULSION"
	WithdrawalReasonGraduation WithdrawalReason = "EARLY_GRADUATION"
	WithdrawalReasonOther      WithdrawalReason = "OTHER"
)

var withdrawalReasonDisplay = newDisplayTable(
	entry(WithdrawalReasonTransfer, "Transfer to Another School", "blue"),
	entry(WithdrawalReasonRelocation, "Family Relocation", "blue"),
	entry(WithdrawalReasonHomeschool, "Homeschool", "teal"),
	entry(WithdrawalReasonMedical, "Medical", "orange"),
	entry(WithdrawalReasonDropout, "Dropout", "red"),
	entry(WithdrawalReasonExpulsion, "Expulsion", "red"),
	entry(WithdrawalReasonGraduation, "Early Graduation", "green"),
	entry(WithdrawalReasonOther, "Other", "gray"),
)

func (r WithdrawalReason) Label() string { return withdrawalReasonDisplay.lookup(r).Label }
func (r WithdrawalReason) Valid() bool   { return withdrawalReasonDisplay.valid(r) }

// Clearance categories.
const (
	ClearanceAcademic       = "Academic"
	ClearanceLibrary        = "Library & Materials"
	ClearanceFacilities     = "Facilities"
	ClearanceFinancial      = "Financial"
	ClearanceAdministrative = "Administrative"
)

// WithdrawalRecord is the withdrawal case for one student.
type WithdrawalRecord struct {
	ID                 int64            `db:"id" json:"id"`
	WithdrawalNumber   string           `db:"withdrawal_number" json:"withdrawal_number"`
	StudentID          int64            `db:"student_id" json:"student_id"`
	Status             WithdrawalStatus `db:"status" json:"status"`
	Reason             WithdrawalReason `db:"reason" json:"reason"`
	WithdrawalDate     time.Time        `db:"withdrawal_date" json:"withdrawal_date"`
	LastAttendanceDate *time.Time       `db:"last_attendance_date" json:"last_attendance_date,omitempty"`
	EffectiveDate      *time.Time       `db:"effective_date" json:"effective_date,omitempty"`
	ExpirationDate     *time.Time       `db:"expiration_date" json:"expiration_date,omitempty"`
	DestinationSchool  *string          `db:"destination_school" json:"destination_school,omitempty"`
	Notes              *string          `db:"notes" json:"notes,omitempty"`
	CompletedAt        *time.Time       `db:"completed_at" json:"completed_at,omitempty"`

	// Academic
	FinalGradesRecorded *bool `db:"final_grades_recorded" json:"final_grades_recorded"`
	TranscriptPrepared  *bool `db:"transcript_prepared" json:"transcript_prepared"`
	CourseworkReturned  *bool `db:"coursework_returned" json:"coursework_returned"`
	TeacherSignoffs     *bool `db:"teacher_signoffs" json:"teacher_signoffs"`

	// Library & materials
	LibraryBooksReturned *bool `db:"library_books_returned" json:"library_books_returned"`
	TextbooksReturned    *bool `db:"textbooks_returned" json:"textbooks_returned"`
	LaptopReturned       *bool `db:"laptop_returned" json:"laptop_returned"`
	ChargerReturned      *bool `db:"charger_returned" json:"charger_returned"`
	CalculatorReturned   *bool `db:"calculator_returned" json:"calculator_returned"`
	InstrumentReturned   *bool `db:"instrument_returned" json:"instrument_returned"`

	// Facilities
	LockerCleared         *bool `db:"locker_cleared" json:"locker_cleared"`
	LockReturned          *bool `db:"lock_returned" json:"lock_returned"`
	IDCardReturned        *bool `db:"id_card_returned" json:"id_card_returned"`
	ParkingPermitReturned *bool `db:"parking_permit_returned" json:"parking_permit_returned"`

	// Financial
	FeesPaid             *bool `db:"fees_paid" json:"fees_paid"`
	LibraryFinesPaid     *bool `db:"library_fines_paid" json:"library_fines_paid"`
	CafeteriaSettled     *bool `db:"cafeteria_settled" json:"cafeteria_settled"`
	DamageChargesSettled *bool `db:"damage_charges_settled" json:"damage_charges_settled"`

	// Administrative
	ParentNotified         *bool `db:"parent_notified" json:"parent_notified"`
	ExitInterviewCompleted *bool `db:"exit_interview_completed" json:"exit_interview_completed"`
	RecordsRequestReceived *bool `db:"records_request_received" json:"records_request_received"`
	CounselorSignoff       *bool `db:"counselor_signoff" json:"counselor_signoff"`
	HealthRecordsForwarded *bool `db:"health_records_forwarded" json:"health_records_forwarded"`
	PrincipalApproval      *bool `db:"principal_approval" json:"principal_approval"`

	// Cached aggregates, refreshed only by RecalculateClearance.
	TotalItems   int  `db:"total_items" json:"total_items"`
	ClearedItems int  `db:"cleared_items" json:"cleared_items"`
	AllCleared   bool `db:"all_cleared" json:"all_cleared"`

	AuditFields
}

type clearanceField struct {
	key      string
	label    string
	category string
	flag     **bool
}

func (w *WithdrawalRecord) clearanceFields() []clearanceField {
	return []clearanceField{
		{"final_grades_recorded", "Final grades recorded", ClearanceAcademic, &w.FinalGradesRecorded},
		{"transcript_prepared", "Transcript prepared", ClearanceAcademic, &w.TranscriptPrepared},
		{"coursework_returned", "Coursework returned", ClearanceAcademic, &w.CourseworkReturned},
		{"teacher_signoffs", "Teacher sign-offs", ClearanceAcademic, &w.TeacherSignoffs},

		{"library_books_returned", "Library books returned", ClearanceLibrary, &w.LibraryBooksReturned},
		{"textbooks_returned", "Textbooks returned", ClearanceLibrary, &w.TextbooksReturned},
		{"laptop_returned", "Laptop returned", ClearanceLibrary, &w.LaptopReturned},
		{"charger_returned", "Charger returned", ClearanceLibrary, &w.ChargerReturned},
		{"calculator_returned", "Calculator returned", ClearanceLibrary, &w.CalculatorReturned},
		{"instrument_returned", "Instrument returned", ClearanceLibrary, &w.InstrumentReturned},

		{"locker_cleared", "Locker cleared", ClearanceFacilities, &w.LockerCleared},
		{"lock_returned", "Lock returned", ClearanceFacilities, &w.LockReturned},
		{"id_card_returned", "ID card returned", ClearanceFacilities, &w.IDCardReturned},
		{"parking_permit_returned", "Parking permit returned", ClearanceFacilities, &w.ParkingPermitReturned},

		{"fees_paid", "Fees paid", ClearanceFinancial, &w.FeesPaid},
		{"library_fines_paid", "Library fines paid", ClearanceFinancial, &w.LibraryFinesPaid},
		{"cafeteria_settled", "Cafeteria balance settled", ClearanceFinancial, &w.CafeteriaSettled},
		{"damage_charges_settled", "Damage charges settled", ClearanceFinancial, &w.DamageChargesSettled},

		{"parent_notified", "Parent notified", ClearanceAdministrative, &w.ParentNotified},
		{"exit_interview_completed", "Exit interview completed", ClearanceAdministrative, &w.ExitInterviewCompleted},
		{"records_request_received", "Records request received", ClearanceAdministrative, &w.RecordsRequestReceived},
		{"counselor_signoff", "Counselor sign-off", ClearanceAdministrative, &w.CounselorSignoff},
		{"health_records_forwarded", "Health records forwarded", ClearanceAdministrative, &w.HealthRecordsForwarded},
		{"principal_approval", "Principal approval", ClearanceAdministrative, &w.PrincipalApproval},
	}
}

// WithdrawalClearanceItemCount is the number of clearance items on every withdrawal.
const WithdrawalClearanceItemCount = 24

// Checklist enumerates the clearance items in display order.
func (w *WithdrawalRecord) Checklist() Checklist {
	fields := w.clearanceFields()
	out := make(Checklist, 0, len(fields))
	for _, f := range fields {
		out = append(out, ChecklistItem{Key: f.key, Label: f.label, Category: f.category, Done: *f.flag})
	}
	return out
}

// ClearanceKeys lists every valid clearance item key.
func ClearanceKeys() []string {
	var w WithdrawalRecord
	fields := w.clearanceFields()
	keys := make([]string, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, f.key)
	}
	return keys
}

// SetClearanceItem sets one flag by key. It reports false for unknown keys.
// The cached aggregates are not refreshed; call RecalculateClearance afterwards.
func (w *WithdrawalRecord) SetClearanceItem(key string, done bool) bool {
	for _, f := range w.clearanceFields() {
		if f.key == key {
			v := done
			*f.flag = &v
			return true
		}
	}
	return false
}

// RecalculateClearance refreshes TotalItems, ClearedItems and AllCleared from the flags.
func (w *WithdrawalRecord) RecalculateClearance() Completion {
	c := w.Checklist().Completion()
	w.TotalItems = c.Total
	w.ClearedItems = c.Completed
	w.AllCleared = c.AllComplete
	return c
}

// ClearanceInSync reports whether the cached aggregates match the flags.
func (w *WithdrawalRecord) ClearanceInSync() bool {
	c := w.Checklist().Completion()
	return w.TotalItems == c.Total && w.ClearedItems == c.Completed && w.AllCleared == c.AllComplete
}

// Window is the period during which the withdrawal authorisation is in force.
func (w *WithdrawalRecord) Window() Window {
	return Window{Start: w.EffectiveDate, End: w.ExpirationDate}
}

// IsValid reports whether the case is open and inside its window on now's date.
func (w *WithdrawalRecord) IsValid(now time.Time) bool {
	return IsValidOn(!w.Status.Terminal(), w.Window(), now)
}

// CanComplete is true when every item is cleared and the case is in CLEARED.
func (w *WithdrawalRecord) CanComplete() bool {
	return w.Status == WithdrawalStatusCleared && w.Checklist().Completion().AllComplete
}

// QuickSummary is a one-line status for lists and documents.
func (w *WithdrawalRecord) QuickSummary() string {
	c := w.Checklist().Completion()
	number := w.WithdrawalNumber
	if number == "" {
		number = "N/A"
	}
	return fmt.Sprintf("%s | %s | %d/%d cleared (%.0f%%)", number, w.Status.Label(), c.Completed, c.Total, c.Percentage())
}

// FormatWithdrawalNumber renders the natural key, e.g. WD-2025-001234.
func FormatWithdrawalNumber(year, seq int) string {
	return fmt.Sprintf("WD-%d-%06d", year, seq)
}

// WithdrawalFilter constrains withdrawal listings.
type WithdrawalFilter struct {
	StudentID *int64
	Status    []WithdrawalStatus
	Reason    WithdrawalReason
	FromDate  *time.Time
	ToDate    *time.Time
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// WithdrawalSummary is the cached read model for the presentation layer.
type WithdrawalSummary struct {
	ID               int64               `json:"id"`
	WithdrawalNumber string              `json:"withdrawal_number"`
	StudentID        int64               `json:"student_id"`
	Status           WithdrawalStatus    `json:"status"`
	StatusLabel      string              `json:"status_label"`
	StatusColor      string              `json:"status_color"`
	Reason           string              `json:"reason"`
	Valid            bool                `json:"valid"`
	Completion       Completion          `json:"completion"`
	Percentage       float64             `json:"percentage"`
	Categories       []ChecklistCategory `json:"categories"`
	Summary          string              `json:"summary"`
	GeneratedAt      time.Time           `json:"generated_at"`
}

// Summarize builds the read model at now.
func (w *WithdrawalRecord) Summarize(now time.Time) WithdrawalSummary {
	list := w.Checklist()
	c := list.Completion()
	return WithdrawalSummary{
		ID:               w.ID,
		WithdrawalNumber: w.WithdrawalNumber,
		StudentID:        w.StudentID,
		Status:           w.Status,
		StatusLabel:      w.Status.Label(),
		StatusColor:      w.Status.Color(),
		Reason:           w.Reason.Label(),
		Valid:            w.IsValid(now),
		Completion:       c,
		Percentage:       c.Percentage(),
		Categories:       list.ByCategory(),
		Summary:          w.QuickSummary(),
		GeneratedAt:      now,
	}
}
