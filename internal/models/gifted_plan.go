package models

import "time"

// GiftedPlanStatus is the lifecycle of a gifted education plan.
type GiftedPlanStatus string

const (
	GiftedPlanStatusDraft    GiftedPlanStatus = "DRAFT"
	GiftedPlanStatusActive   GiftedPlanStatus = "ACTIVE"
	GiftedPlanStatusInactive GiftedPlanStatus = "INACTIVE"
	GiftedPlanStatusExited   GiftedPlanStatus = "EXITED"
)

var giftedPlanStatusDisplay = newDisplayTable(
	entry(GiftedPlanStatusDraft, "Draft", "gray"),
	entry(GiftedPlanStatusActive, "Active", "green"),
	entry(GiftedPlanStatusInactive, "Inactive", "orange"),
	entry(GiftedPlanStatusExited, "Exited Program", "red"),
)

func (s GiftedPlanStatus) Label() string { return giftedPlanStatusDisplay.lookup(s).Label }
func (s GiftedPlanStatus) Valid() bool   { return giftedPlanStatusDisplay.valid(s) }

// GiftedReviewThresholdDays is the due-soon window for gifted plan reviews.
const GiftedReviewThresholdDays = 30

// GiftedEducationPlan is a written plan for an identified gifted student.
type GiftedEducationPlan struct {
	ID              int64            `db:"id" json:"id"`
	StudentID       int64            `db:"student_id" json:"student_id"`
	CaseManagerID   *int64           `db:"case_manager_id" json:"case_manager_id,omitempty"`
	AreasOfStrength string           `db:"areas_of_strength" json:"areas_of_strength"`
	Goals           *string          `db:"goals" json:"goals,omitempty"`
	PlanStartDate   *time.Time       `db:"plan_start_date" json:"plan_start_date,omitempty"`
	PlanEndDate     *time.Time       `db:"plan_end_date" json:"plan_end_date,omitempty"`
	NextReviewDate  *time.Time       `db:"next_review_date" json:"next_review_date,omitempty"`
	ParentApproved  bool             `db:"parent_approved" json:"parent_approved"`
	Status          GiftedPlanStatus `db:"status" json:"status"`
	AuditFields
}

// IsActive is true for an active, parent-approved plan inside its window.
func (g *GiftedEducationPlan) IsActive(now time.Time) bool {
	active := g.Status == GiftedPlanStatusActive && g.ParentApproved
	return IsValidOn(active, Window{Start: g.PlanStartDate, End: g.PlanEndDate}, now)
}

// ReviewStatus classifies the next review. A plan with no review date is not scheduled.
func (g *GiftedEducationPlan) ReviewStatus(now time.Time) DueStatus {
	return g.ReviewStatusWithin(now, GiftedReviewThresholdDays)
}

// ReviewStatusWithin is ReviewStatus with a custom due-soon window.
func (g *GiftedEducationPlan) ReviewStatusWithin(now time.Time, days int) DueStatus {
	return ClassifyDue(g.NextReviewDate, now, days, DueStatusNotScheduled)
}
