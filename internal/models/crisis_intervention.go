package models

import (
	"fmt"
	"time"
)

// CrisisStatus tracks a crisis intervention case.
type CrisisStatus string

const (
	CrisisStatusOpen       CrisisStatus = "OPEN"
	CrisisStatusInProgress CrisisStatus = "IN_PROGRESS"
	CrisisStatusResolved   CrisisStatus = "RESOLVED"
	CrisisStatusClosed     CrisisStatus = "CLOSED"
)

var crisisStatusDisplay = newDisplayTable(
	entry(CrisisStatusOpen, "Open", "red"),
	entry(CrisisStatusInProgress, "In Progress", "orange"),
	entry(CrisisStatusResolved, "Resolved", "green"),
	entry(CrisisStatusClosed, "Closed", "gray"),
)

func (s CrisisStatus) Label() string { return crisisStatusDisplay.lookup(s).Label }
func (s CrisisStatus) Valid() bool   { return crisisStatusDisplay.valid(s) }

// CrisisSeverity ranks an incident.
type CrisisSeverity string

const (
	CrisisSeverityLow      CrisisSeverity = "LOW"
	CrisisSeverityModerate CrisisSeverity = "MODERATE"
	CrisisSeverityHigh     CrisisSeverity = "HIGH"
	CrisisSeverityCritical CrisisSeverity = "CRITICAL"
)

var crisisSeverityDisplay = newDisplayTable(
	described(CrisisSeverityLow, "Low", "green", "Monitor; no immediate risk"),
	described(CrisisSeverityModerate, "Moderate", "yellow", "Counselor follow-up within days"),
	described(CrisisSeverityHigh, "High", "orange", "Same-day follow-up and parent contact"),
	described(CrisisSeverityCritical, "Critical", "red", "Immediate safety response"),
)

func (s CrisisSeverity) Label() string { return crisisSeverityDisplay.lookup(s).Label }
func (s CrisisSeverity) Color() string { return crisisSeverityDisplay.lookup(s).Color }
func (s CrisisSeverity) Valid() bool   { return crisisSeverityDisplay.valid(s) }

// CrisisFollowUpThresholdDays is the due-soon window for follow-ups.
const CrisisFollowUpThresholdDays = 3

// CrisisIntervention records a counseling crisis response.
type CrisisIntervention struct {
	ID              int64          `db:"id" json:"id"`
	IncidentNumber  string         `db:"incident_number" json:"incident_number"`
	StudentID       int64          `db:"student_id" json:"student_id"`
	CounselorID     *int64         `db:"counselor_id" json:"counselor_id,omitempty"`
	IncidentAt      time.Time      `db:"incident_at" json:"incident_at"`
	Severity        CrisisSeverity `db:"severity" json:"severity"`
	Description     string         `db:"description" json:"description"`
	ParentContacted bool           `db:"parent_contacted" json:"parent_contacted"`
	SafetyPlan      bool           `db:"safety_plan" json:"safety_plan"`
	FollowUpDate    *time.Time     `db:"follow_up_date" json:"follow_up_date,omitempty"`
	ResolvedAt      *time.Time     `db:"resolved_at" json:"resolved_at,omitempty"`
	Status          CrisisStatus   `db:"status" json:"status"`
	AuditFields
}

// IsResolved is true once resolved or closed.
func (c *CrisisIntervention) IsResolved() bool {
	return c.Status == CrisisStatusResolved || c.Status == CrisisStatusClosed
}

// FollowUpStatus classifies the follow-up date for open cases. Resolved cases are on track.
func (c *CrisisIntervention) FollowUpStatus(now time.Time) DueStatus {
	return c.FollowUpStatusWithin(now, CrisisFollowUpThresholdDays)
}

// FollowUpStatusWithin is FollowUpStatus with a custom due-soon window.
func (c *CrisisIntervention) FollowUpStatusWithin(now time.Time, days int) DueStatus {
	if c.IsResolved() {
		return DueStatusOnTrack
	}
	return ClassifyDue(c.FollowUpDate, now, days, DueStatusNotScheduled)
}

// RequiresParentContact is true for high or critical cases where no contact is recorded.
func (c *CrisisIntervention) RequiresParentContact() bool {
	high := c.Severity == CrisisSeverityHigh || c.Severity == CrisisSeverityCritical
	return high && !c.ParentContacted
}

// QuickSummary renders a one-line case summary.
func (c *CrisisIntervention) QuickSummary(now time.Time) string {
	number := c.IncidentNumber
	if number == "" {
		number = "N/A"
	}
	return fmt.Sprintf("%s | %s severity | %s | follow-up %s", number, c.Severity.Label(), c.Status.Label(), c.FollowUpStatus(now).Label())
}
