package models

import "time"

// IEPStatus is the lifecycle of an individualized education program.
type IEPStatus string

const (
	IEPStatusDraft           IEPStatus = "DRAFT"
	IEPStatusPendingApproval IEPStatus = "PENDING_APPROVAL"
	IEPStatusActive          IEPStatus = "ACTIVE"
	IEPStatusExpired         IEPStatus = "EXPIRED"
	IEPStatusArchived        IEPStatus = "ARCHIVED"
)

var iepStatusDisplay = newDisplayTable(
	entry(IEPStatusDraft, "Draft", "gray"),
	entry(IEPStatusPendingApproval, "Pending Approval", "orange"),
	entry(IEPStatusActive, "Active", "green"),
	entry(IEPStatusExpired, "Expired", "red"),
	entry(IEPStatusArchived, "Archived", "gray"),
)

func (s IEPStatus) Label() string { return iepStatusDisplay.lookup(s).Label }
func (s IEPStatus) Color() string { return iepStatusDisplay.lookup(s).Color }
func (s IEPStatus) Valid() bool   { return iepStatusDisplay.valid(s) }

// IEPReviewThresholdDays is the due-soon window for annual reviews.
const IEPReviewThresholdDays = 30

// IEP is an individualized education program.
type IEP struct {
	ID                int64        `db:"id" json:"id"`
	IEPNumber         string       `db:"iep_number" json:"iep_number"`
	StudentID         int64        `db:"student_id" json:"student_id"`
	CaseManagerID     *int64       `db:"case_manager_id" json:"case_manager_id,omitempty"`
	PrimaryDisability string       `db:"primary_disability" json:"primary_disability"`
	StartDate         *time.Time   `db:"start_date" json:"start_date,omitempty"`
	EndDate           *time.Time   `db:"end_date" json:"end_date,omitempty"`
	AnnualReviewDate  *time.Time   `db:"annual_review_date" json:"annual_review_date,omitempty"`
	ReevaluationDate  *time.Time   `db:"reevaluation_date" json:"reevaluation_date,omitempty"`
	Status            IEPStatus    `db:"status" json:"status"`
	Services          []IEPService `db:"-" json:"services,omitempty"`
	AuditFields
}

// IsActive reports whether the IEP is in force on now's date.
func (i *IEP) IsActive(now time.Time) bool {
	return IsValidOn(i.Status == IEPStatusActive, Window{Start: i.StartDate, End: i.EndDate}, now)
}

// AnnualReviewStatus classifies the review. An IEP without a review date needs immediate attention.
func (i *IEP) AnnualReviewStatus(now time.Time) DueStatus {
	return i.AnnualReviewStatusWithin(now, IEPReviewThresholdDays)
}

// AnnualReviewStatusWithin is AnnualReviewStatus with a custom due-soon window.
func (i *IEP) AnnualReviewStatusWithin(now time.Time, days int) DueStatus {
	return ClassifyDue(i.AnnualReviewDate, now, days, DueStatusOverdue)
}

// TotalWeeklyServiceMinutes sums minutes across services active on now's date.
func (i *IEP) TotalWeeklyServiceMinutes(now time.Time) int {
	total := 0
	for _, s := range i.Services {
		if s.IsActive(now) {
			total += s.MinutesPerWeek
		}
	}
	return total
}

// IEPService is one related service (speech, OT, resource room) on an IEP.
type IEPService struct {
	ID             int64      `db:"id" json:"id"`
	IEPID          int64      `db:"iep_id" json:"iep_id"`
	ServiceType    string     `db:"service_type" json:"service_type"`
	ProviderID     *int64     `db:"provider_id" json:"provider_id,omitempty"`
	MinutesPerWeek int        `db:"minutes_per_week" json:"minutes_per_week"`
	StartDate      *time.Time `db:"start_date" json:"start_date,omitempty"`
	EndDate        *time.Time `db:"end_date" json:"end_date,omitempty"`
	Active         bool       `db:"active" json:"active"`
}

// IsActive applies the shared validity predicate.
func (s IEPService) IsActive(now time.Time) bool {
	return IsValidOn(s.Active, Window{Start: s.StartDate, End: s.EndDate}, now)
}
