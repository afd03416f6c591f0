package models

import (
	"fmt"
	"time"
)

// FeeStatus is the payment state of a student charge.
type FeeStatus string

const (
	FeeStatusUnpaid    FeeStatus = "UNPAID"
	FeeStatusPartial   FeeStatus = "PARTIAL"
	FeeStatusPaid      FeeStatus = "PAID"
	FeeStatusWaived    FeeStatus = "WAIVED"
	FeeStatusCancelled FeeStatus = "CANCELLED"
)

var feeStatusDisplay = newDisplayTable(
	entry(FeeStatusUnpaid, "Unpaid", "red"),
	entry(FeeStatusPartial, "Partially Paid", "orange"),
	entry(FeeStatusPaid, "Paid", "green"),
	entry(FeeStatusWaived, "Waived", "blue"),
	entry(FeeStatusCancelled, "Cancelled", "gray"),
)

func (s FeeStatus) Label() string { return feeStatusDisplay.lookup(s).Label }
func (s FeeStatus) Color() string { return feeStatusDisplay.lookup(s).Color }
func (s FeeStatus) Valid() bool   { return feeStatusDisplay.valid(s) }

// Settled is true when nothing more is owed.
func (s FeeStatus) Settled() bool {
	return s == FeeStatusPaid || s == FeeStatusWaived || s == FeeStatusCancelled
}

// FeeDueThresholdDays is the due-soon window for fees.
const FeeDueThresholdDays = 7

// StudentFee is a charge billed to a student. Amounts are in cents.
type StudentFee struct {
	ID            int64      `db:"id" json:"id"`
	InvoiceNumber string     `db:"invoice_number" json:"invoice_number"`
	StudentID     int64      `db:"student_id" json:"student_id"`
	Description   string     `db:"description" json:"description"`
	AmountCents   int64      `db:"amount_cents" json:"amount_cents"`
	PaidCents     int64      `db:"paid_cents" json:"paid_cents"`
	DueDate       *time.Time `db:"due_date" json:"due_date,omitempty"`
	PaidAt        *time.Time `db:"paid_at" json:"paid_at,omitempty"`
	Status        FeeStatus  `db:"status" json:"status"`
	AuditFields
}

// BalanceCents returns what is still owed, never negative.
func (f *StudentFee) BalanceCents() int64 {
	if f.Status.Settled() {
		return 0
	}
	if b := f.AmountCents - f.PaidCents; b > 0 {
		return b
	}
	return 0
}

// PaymentPercentage returns paid/amount as 0..100.
func (f *StudentFee) PaymentPercentage() float64 {
	if f.AmountCents <= 0 {
		return 0
	}
	p := float64(f.PaidCents) * 100 / float64(f.AmountCents)
	if p > 100 {
		return 100
	}
	return p
}

// DueStatus classifies the due date. Settled fees are always on track; a missing due date is not scheduled.
func (f *StudentFee) DueStatus(now time.Time) DueStatus {
	return f.DueStatusWithin(now, FeeDueThresholdDays)
}

// DueStatusWithin is DueStatus with a custom due-soon window.
func (f *StudentFee) DueStatusWithin(now time.Time, days int) DueStatus {
	if f.BalanceCents() == 0 {
		return DueStatusOnTrack
	}
	return ClassifyDue(f.DueDate, now, days, DueStatusNotScheduled)
}

// IsOverdue is true when a balance remains past the due date.
func (f *StudentFee) IsOverdue(now time.Time) bool {
	return f.DueStatus(now) == DueStatusOverdue
}

// ApplyPayment records a payment and derives the status.
func (f *StudentFee) ApplyPayment(cents int64, now time.Time) {
	if cents <= 0 || f.Status.Settled() {
		return
	}
	f.PaidCents += cents
	if f.PaidCents >= f.AmountCents {
		f.Status = FeeStatusPaid
		f.PaidAt = &now
		return
	}
	f.Status = FeeStatusPartial
}

// FormatAmount renders cents as dollars.
func FormatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
