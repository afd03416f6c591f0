package models

import "time"

// DueStatus classifies a record against a single target date.
type DueStatus string

const (
	DueStatusOverdue      DueStatus = "OVERDUE"
	DueStatusDueSoon      DueStatus = "DUE_SOON"
	DueStatusOnTrack      DueStatus = "ON_TRACK"
	DueStatusNotScheduled DueStatus = "NOT_SCHEDULED"
)

var dueStatusDisplay = newDisplayTable(
	described(DueStatusOverdue, "Overdue", "red", "Target date has passed"),
	described(DueStatusDueSoon, "Due Soon", "orange", "Target date falls inside the warning window"),
	described(DueStatusOnTrack, "On Track", "green", "Target date is beyond the warning window"),
	described(DueStatusNotScheduled, "Not Scheduled", "gray", "No target date recorded"),
)

// Label returns the display label.
func (s DueStatus) Label() string { return dueStatusDisplay.lookup(s).Label }

// Color returns the display color.
func (s DueStatus) Color() string { return dueStatusDisplay.lookup(s).Color }

// NeedsAttention is true for overdue and due-soon records.
func (s DueStatus) NeedsAttention() bool {
	return s == DueStatusOverdue || s == DueStatusDueSoon
}

// ClassifyDue compares target with now at calendar-day granularity.
// A nil target yields missing, which each record type chooses deliberately.
func ClassifyDue(target *time.Time, now time.Time, thresholdDays int, missing DueStatus) DueStatus {
	if target == nil {
		return missing
	}
	today := DayOf(now)
	day := DayOf(target.In(now.Location()))
	if today.After(day) {
		return DueStatusOverdue
	}
	if !day.After(today.AddDate(0, 0, thresholdDays)) {
		return DueStatusDueSoon
	}
	return DueStatusOnTrack
}

// DueItem is one row on a review board.
type DueItem struct {
	RecordType string     `json:"record_type"`
	RecordID   int64      `json:"record_id"`
	StudentID  *int64     `json:"student_id,omitempty"`
	Title      string     `json:"title"`
	TargetDate *time.Time `json:"target_date,omitempty"`
	Status     DueStatus  `json:"status"`
	Label      string     `json:"label"`
	Color      string     `json:"color"`
}

// NewDueItem fills display fields from the status.
func NewDueItem(recordType string, id int64, studentID *int64, title string, target *time.Time, status DueStatus) DueItem {
	return DueItem{
		RecordType: recordType,
		RecordID:   id,
		StudentID:  studentID,
		Title:      title,
		TargetDate: target,
		Status:     status,
		Label:      status.Label(),
		Color:      status.Color(),
	}
}
