package models

import (
	"fmt"
	"time"
)

// VerificationStatus is the state of an enrollment verification letter.
type VerificationStatus string

const (
	VerificationStatusPending  VerificationStatus = "PENDING"
	VerificationStatusVerified VerificationStatus = "VERIFIED"
	VerificationStatusRejected VerificationStatus = "REJECTED"
	VerificationStatusExpired  VerificationStatus = "EXPIRED"
)

var verificationStatusDisplay = newDisplayTable(
	entry(VerificationStatusPending, "Pending", "orange"),
	entry(VerificationStatusVerified, "Verified", "green"),
	entry(VerificationStatusRejected, "Rejected", "red"),
	entry(VerificationStatusExpired, "Expired", "gray"),
)

func (s VerificationStatus) Label() string { return verificationStatusDisplay.lookup(s).Label }
func (s VerificationStatus) Valid() bool   { return verificationStatusDisplay.valid(s) }

// VerificationPurpose is why the letter was requested.
type VerificationPurpose string

const (
	VerificationPurposeInsurance      VerificationPurpose = "INSURANCE"
	VerificationPurposeSocialSecurity VerificationPurpose = "SOCIAL_SECURITY"
	VerificationPurposeDriversLicense VerificationPurpose = "DRIVERS_LICENSE"
	VerificationPurposeScholarship    VerificationPurpose = "SCHOLARSHIP"
	VerificationPurposeOther          VerificationPurpose = "OTHER"
)

var verificationPurposeDisplay = newDisplayTable(
	entry(VerificationPurposeInsurance, "Insurance", ""),
	entry(VerificationPurposeSocialSecurity, "Social Security Benefits", ""),
	entry(VerificationPurposeDriversLicense, "Driver's License", ""),
	entry(VerificationPurposeScholarship, "Scholarship", ""),
	entry(VerificationPurposeOther, "Other", ""),
)

func (p VerificationPurpose) Label() string { return verificationPurposeDisplay.lookup(p).Label }
func (p VerificationPurpose) Valid() bool   { return verificationPurposeDisplay.valid(p) }

// VerificationExpiringThresholdDays is the expiring-soon window.
const VerificationExpiringThresholdDays = 30

// EnrollmentVerification is a letter confirming a student's enrollment for a third party.
type EnrollmentVerification struct {
	ID                 int64               `db:"id" json:"id"`
	VerificationNumber string              `db:"verification_number" json:"verification_number"`
	StudentID          int64               `db:"student_id" json:"student_id"`
	Purpose            VerificationPurpose `db:"purpose" json:"purpose"`
	RequestedBy        string              `db:"requested_by" json:"requested_by"`
	VerifiedBy         *int64              `db:"verified_by" json:"verified_by,omitempty"`
	IssueDate          *time.Time          `db:"issue_date" json:"issue_date,omitempty"`
	ValidUntil         *time.Time          `db:"valid_until" json:"valid_until,omitempty"`
	Status             VerificationStatus  `db:"status" json:"status"`
	AuditFields
}

// IsValid is true for a verified letter inside [IssueDate, ValidUntil].
func (v *EnrollmentVerification) IsValid(now time.Time) bool {
	return IsValidOn(v.Status == VerificationStatusVerified, Window{Start: v.IssueDate, End: v.ValidUntil}, now)
}

// IsExpiringSoon is true for a valid letter that lapses within the threshold.
func (v *EnrollmentVerification) IsExpiringSoon(now time.Time) bool {
	if !v.IsValid(now) || v.ValidUntil == nil {
		return false
	}
	return ClassifyDue(v.ValidUntil, now, VerificationExpiringThresholdDays, DueStatusNotScheduled) == DueStatusDueSoon
}

// FormatVerificationNumber renders EV-YYYY-NNNNNN.
func FormatVerificationNumber(year, seq int) string {
	return fmt.Sprintf("EV-%d-%06d", year, seq)
}
