package models

import "time"

// PeriodType distinguishes instructional from non-instructional periods.
type PeriodType string

const (
	PeriodTypeClass    PeriodType = "CLASS"
	PeriodTypeLab      PeriodType = "LAB"
	PeriodTypeAdvisory PeriodType = "ADVISORY"
	PeriodTypeLunch    PeriodType = "LUNCH"
	PeriodTypePassing  PeriodType = "PASSING"
	PeriodTypeRecess   PeriodType = "RECESS"
)

var periodTypeDisplay = newDisplayTable(
	entry(PeriodTypeClass, "Class", "blue"),
	entry(PeriodTypeLab, "Lab", "teal"),
	entry(PeriodTypeAdvisory, "Advisory", "purple"),
	entry(PeriodTypeLunch, "Lunch", "gray"),
	entry(PeriodTypePassing, "Passing", "gray"),
	entry(PeriodTypeRecess, "Recess", "gray"),
)

func (t PeriodType) Label() string { return periodTypeDisplay.lookup(t).Label }
func (t PeriodType) Valid() bool   { return periodTypeDisplay.valid(t) }

// Instructional reports whether the period counts toward instructional minutes.
func (t PeriodType) Instructional() bool {
	return t == PeriodTypeClass || t == PeriodTypeLab || t == PeriodTypeAdvisory
}

// InstructionalSchedule is a bell schedule for a school day type.
type InstructionalSchedule struct {
	ID            int64                 `db:"id" json:"id"`
	Name          string                `db:"name" json:"name"`
	SchoolYear    string                `db:"school_year" json:"school_year"`
	EffectiveDate *time.Time            `db:"effective_date" json:"effective_date,omitempty"`
	EndDate       *time.Time            `db:"end_date" json:"end_date,omitempty"`
	Active        bool                  `db:"active" json:"active"`
	Periods       []InstructionalPeriod `db:"-" json:"periods,omitempty"`
	AuditFields
}

// InstructionalPeriod is one block of the bell schedule. Times are minutes after midnight.
type InstructionalPeriod struct {
	ID          int64      `db:"id" json:"id"`
	ScheduleID  int64      `db:"schedule_id" json:"schedule_id"`
	Name        string     `db:"name" json:"name"`
	Type        PeriodType `db:"type" json:"type"`
	StartMinute int        `db:"start_minute" json:"start_minute"`
	EndMinute   int        `db:"end_minute" json:"end_minute"`
}

// Minutes is the period length, zero when the bounds are inverted.
func (p InstructionalPeriod) Minutes() int {
	if p.EndMinute <= p.StartMinute {
		return 0
	}
	return p.EndMinute - p.StartMinute
}

// TotalInstructionalMinutes sums instructional periods.
func (s *InstructionalSchedule) TotalInstructionalMinutes() int {
	total := 0
	for _, p := range s.Periods {
		if p.Type.Instructional() {
			total += p.Minutes()
		}
	}
	return total
}

// TotalMinutes sums every period.
func (s *InstructionalSchedule) TotalMinutes() int {
	total := 0
	for _, p := range s.Periods {
		total += p.Minutes()
	}
	return total
}

// IsInEffect applies the shared validity predicate.
func (s *InstructionalSchedule) IsInEffect(now time.Time) bool {
	return IsValidOn(s.Active, Window{Start: s.EffectiveDate, End: s.EndDate}, now)
}

// MeetsMinimum reports whether instructional minutes reach the required daily minimum.
func (s *InstructionalSchedule) MeetsMinimum(required int) bool {
	return s.TotalInstructionalMinutes() >= required
}
