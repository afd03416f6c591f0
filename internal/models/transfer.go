package models

import "time"

// TransferStatus tracks an outbound records transfer.
type TransferStatus string

const (
	TransferStatusRequested   TransferStatus = "REQUESTED"
	TransferStatusRecordsSent TransferStatus = "RECORDS_SENT"
	TransferStatusCompleted   TransferStatus = "COMPLETED"
	TransferStatusCancelled   TransferStatus = "CANCELLED"
)

var transferStatusDisplay = newDisplayTable(
	entry(TransferStatusRequested, "Requested", "orange"),
	entry(TransferStatusRecordsSent, "Records Sent", "blue"),
	entry(TransferStatusCompleted, "Completed", "green"),
	entry(TransferStatusCancelled, "Cancelled", "gray"),
)

func (s TransferStatus) Label() string { return transferStatusDisplay.lookup(s).Label }
func (s TransferStatus) Valid() bool   { return transferStatusDisplay.valid(s) }

// StudentTransfer is a request to send a student's records to another school.
type StudentTransfer struct {
	ID                int64          `db:"id" json:"id"`
	TransferNumber    string         `db:"transfer_number" json:"transfer_number"`
	StudentID         int64          `db:"student_id" json:"student_id"`
	WithdrawalID      *int64         `db:"withdrawal_id" json:"withdrawal_id,omitempty"`
	ReceivingSchool   string         `db:"receiving_school" json:"receiving_school"`
	ReceivingDistrict *string        `db:"receiving_district" json:"receiving_district,omitempty"`
	RequestedAt       time.Time      `db:"requested_at" json:"requested_at"`
	RecordsSentAt     *time.Time     `db:"records_sent_at" json:"records_sent_at,omitempty"`
	CompletedAt       *time.Time     `db:"completed_at" json:"completed_at,omitempty"`
	Status            TransferStatus `db:"status" json:"status"`
	AuditFields
}

// IsComplete is true once the receiving school has confirmed.
func (t *StudentTransfer) IsComplete() bool {
	return t.Status == TransferStatusCompleted
}

// DaysPending counts days since the request for open transfers, 0 otherwise.
func (t *StudentTransfer) DaysPending(now time.Time) int {
	if t.Status == TransferStatusCompleted || t.Status == TransferStatusCancelled || t.RequestedAt.IsZero() {
		return 0
	}
	if d := DaysBetween(t.RequestedAt, now); d > 0 {
		return d
	}
	return 0
}
