package models

import "time"

// Plan504Status is the lifecycle of a Section 504 plan.
type Plan504Status string

const (
	Plan504StatusDraft      Plan504Status = "DRAFT"
	Plan504StatusActive     Plan504Status = "ACTIVE"
	Plan504StatusExpired    Plan504Status = "EXPIRED"
	Plan504StatusTerminated Plan504Status = "TERMINATED"
)

var plan504StatusDisplay = newDisplayTable(
	entry(Plan504StatusDraft, "Draft", "gray"),
	entry(Plan504StatusActive, "Active", "green"),
	entry(Plan504StatusExpired, "Expired", "orange"),
	entry(Plan504StatusTerminated, "Terminated", "red"),
)

func (s Plan504Status) Label() string { return plan504StatusDisplay.lookup(s).Label }
func (s Plan504Status) Color() string { return plan504StatusDisplay.lookup(s).Color }
func (s Plan504Status) Valid() bool   { return plan504StatusDisplay.valid(s) }

// AccommodationCategory groups 504 accommodations.
type AccommodationCategory string

const (
	AccommodationTesting       AccommodationCategory = "TESTING"
	AccommodationInstructional AccommodationCategory = "INSTRUCTIONAL"
	AccommodationEnvironmental AccommodationCategory = "ENVIRONMENTAL"
	AccommodationBehavioral    AccommodationCategory = "BEHAVIORAL"
	AccommodationHealth        AccommodationCategory = "HEALTH"
)

var accommodationCategoryDisplay = newDisplayTable(
	described(AccommodationTesting, "Testing", "blue", "Extended time, separate setting, read aloud"),
	described(AccommodationInstructional, "Instructional", "teal", "Notes, chunked assignments, preferential seating"),
	entry(AccommodationEnvironmental, "Environmental", "green"),
	entry(AccommodationBehavioral, "Behavioral", "orange"),
	entry(AccommodationHealth, "Health", "red"),
)

func (c AccommodationCategory) Label() string { return accommodationCategoryDisplay.lookup(c).Label }
func (c AccommodationCategory) Valid() bool   { return accommodationCategoryDisplay.valid(c) }

// Plan504ReviewThresholdDays is the due-soon window for 504 reviews.
const Plan504ReviewThresholdDays = 30

// Plan504 is a Section 504 plan for one student.
type Plan504 struct {
	ID             int64                  `db:"id" json:"id"`
	PlanNumber     string                 `db:"plan_number" json:"plan_number"`
	StudentID      int64                  `db:"student_id" json:"student_id"`
	CoordinatorID  *int64                 `db:"coordinator_id" json:"coordinator_id,omitempty"`
	Disability     string                 `db:"disability" json:"disability"`
	StartDate      *time.Time             `db:"start_date" json:"start_date,omitempty"`
	EndDate        *time.Time             `db:"end_date" json:"end_date,omitempty"`
	NextReviewDate *time.Time             `db:"next_review_date" json:"next_review_date,omitempty"`
	Status         Plan504Status          `db:"status" json:"status"`
	Accommodations []Plan504Accommodation `db:"-" json:"accommodations,omitempty"`
	AuditFields
}

// IsActive reports whether the plan is in force on now's date.
func (p *Plan504) IsActive(now time.Time) bool {
	return IsValidOn(p.Status == Plan504StatusActive, Window{Start: p.StartDate, End: p.EndDate}, now)
}

// ReviewStatus classifies the next review. A plan with no review date is overdue.
func (p *Plan504) ReviewStatus(now time.Time) DueStatus {
	return p.ReviewStatusWithin(now, Plan504ReviewThresholdDays)
}

// ReviewStatusWithin is ReviewStatus with a custom due-soon window.
func (p *Plan504) ReviewStatusWithin(now time.Time, days int) DueStatus {
	return ClassifyDue(p.NextReviewDate, now, days, DueStatusOverdue)
}

// CurrentAccommodations returns the accommodations in force on now's date.
func (p *Plan504) CurrentAccommodations(now time.Time) []Plan504Accommodation {
	out := make([]Plan504Accommodation, 0, len(p.Accommodations))
	if !p.IsActive(now) {
		return out
	}
	for _, a := range p.Accommodations {
		if a.IsCurrentlyActive(now) {
			out = append(out, a)
		}
	}
	return out
}

// Plan504Accommodation is one accommodation on a plan.
type Plan504Accommodation struct {
	ID            int64                 `db:"id" json:"id"`
	PlanID        int64                 `db:"plan_id" json:"plan_id"`
	Category      AccommodationCategory `db:"category" json:"category"`
	Description   string                `db:"description" json:"description"`
	Active        bool                  `db:"active" json:"active"`
	EffectiveDate *time.Time            `db:"effective_date" json:"effective_date,omitempty"`
	EndDate       *time.Time            `db:"end_date" json:"end_date,omitempty"`
	AuditFields
}

// IsCurrentlyActive applies the shared validity predicate at day granularity.
func (a *Plan504Accommodation) IsCurrentlyActive(now time.Time) bool {
	return IsValidOn(a.Active, Window{Start: a.EffectiveDate, End: a.EndDate}, now)
}
