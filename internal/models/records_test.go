package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMedicationActiveToday(t *testing.T) {
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	m := &Medication{
		Name:          "Albuterol",
		Dosage:        "90mcg",
		Route:         MedicationRouteInhaled,
		Frequency:     "as needed",
		Status:        MedicationStatusActive,
		ParentConsent: true,
		StartDate:     TimePtr(Date(2026, 9, 1)),
		EndDate:       TimePtr(Date(2026, 10, 14)),
	}
	assert.True(t, m.IsActiveToday(now))
	assert.Equal(t, "Albuterol 90mcg (Inhaled, as needed)", m.DisplayDose())

	m.ParentConsent = false
	assert.False(t, m.IsActiveToday(now))

	m.ParentConsent = true
	m.ExpirationDate = TimePtr(Date(2026, 10, 13))
	assert.True(t, m.IsExpired(now))
	assert.False(t, m.IsActiveToday(now))
}

func TestMedicationNeedsRefill(t *testing.T) {
	now := Date(2026, 10, 14)
	m := &Medication{Status: MedicationStatusActive}
	assert.Equal(t, -1, m.DaysUntilExpiration(now))
	assert.False(t, m.NeedsRefill(now, 5, 14))

	qty := 3
	m.QuantityOnHand = &qty
	assert.True(t, m.NeedsRefill(now, 5, 14))

	qty = 30
	m.ExpirationDate = TimePtr(Date(2026, 10, 20))
	assert.Equal(t, 6, m.DaysUntilExpiration(now))
	assert.True(t, m.NeedsRefill(now, 5, 14))

	m.Status = MedicationStatusDiscontinued
	assert.False(t, m.NeedsRefill(now, 5, 14))
}

func TestAPIKeyValidity(t *testing.T) {
	issued := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	k := &APIKey{KeyPrefix: "hx_ab12", Status: APIKeyStatusActive, IssuedAt: issued, Scopes: "withdrawals:read, medications:read", ExpiresAt: TimePtr(issued.AddDate(1, 0, 0))}

	assert.True(t, k.IsValid(issued.Add(time.Hour)))
	assert.False(t, k.IsValid(issued.Add(-time.Hour)))
	assert.False(t, k.IsValid(issued.AddDate(1, 0, 1)))
	assert.True(t, k.HasScope("medications:read"))
	assert.False(t, k.HasScope("withdrawals:write"))
	assert.Equal(t, "hx_ab12_********", k.MaskedKey())

	k.RevokedAt = TimePtr(issued.Add(time.Minute))
	assert.False(t, k.IsValid(issued.Add(time.Hour)))
	assert.Equal(t, "N/A", (&APIKey{}).MaskedKey())
}

func TestStudentFee(t *testing.T) {
	now := Date(2026, 10, 14)
	f := &StudentFee{AmountCents: 5000, Status: FeeStatusUnpaid, DueDate: TimePtr(Date(2026, 10, 10))}
	assert.True(t, f.IsOverdue(now))
	assert.Equal(t, "$50.00", FormatAmount(f.BalanceCents()))

	f.ApplyPayment(2000, now)
	assert.Equal(t, FeeStatusPartial, f.Status)
	assert.InDelta(t, 40.0, f.PaymentPercentage(), 0.001)

	f.ApplyPayment(4000, now)
	assert.Equal(t, FeeStatusPaid, f.Status)
	assert.Equal(t, int64(0), f.BalanceCents())
	assert.InDelta(t, 100.0, f.PaymentPercentage(), 0.001)
	assert.Equal(t, DueStatusOnTrack, f.DueStatus(now))
	assert.NotNil(t, f.PaidAt)

	assert.Equal(t, DueStatusNotScheduled, (&StudentFee{AmountCents: 100, Status: FeeStatusUnpaid}).DueStatus(now))
	assert.Equal(t, "-$1.05", FormatAmount(-105))
}

func TestBusRouteCapacity(t *testing.T) {
	b := &BusRoute{Capacity: 40, AssignedRiders: 30, Status: BusRouteStatusActive}
	assert.InDelta(t, 75.0, b.OccupancyPercentage(), 0.001)
	assert.Equal(t, 10, b.AvailableSeats())
	assert.False(t, b.IsFull())

	b.AssignedRiders = 45
	assert.Equal(t, 0, b.AvailableSeats())
	assert.True(t, b.IsFull())
	assert.Equal(t, 0.0, (&BusRoute{}).OccupancyPercentage())
	assert.True(t, b.IsOperating(Date(2026, 10, 14)))
}

func TestCrisisIntervention(t *testing.T) {
	now := Date(2026, 10, 14)
	c := &CrisisIntervention{IncidentNumber: "CI-9", Severity: CrisisSeverityHigh, Status: CrisisStatusOpen, FollowUpDate: TimePtr(Date(2026, 10, 16))}
	assert.True(t, c.RequiresParentContact())
	assert.Equal(t, DueStatusDueSoon, c.FollowUpStatus(now))
	assert.Contains(t, c.QuickSummary(now), "CI-9")

	c.Status = CrisisStatusResolved
	assert.Equal(t, DueStatusOnTrack, c.FollowUpStatus(now))
}

func TestELLServiceStudentChain(t *testing.T) {
	s := &ELLService{}
	_, ok := s.Student()
	assert.False(t, ok)

	s.ELLStudent = &ELLStudent{}
	_, ok = s.Student()
	assert.False(t, ok)

	s.ELLStudent.Student = &Student{FirstName: "Ana", LastName: "Ruiz"}
	st, ok := s.Student()
	assert.True(t, ok)
	assert.Equal(t, "Ana Ruiz", st.FullName())
}

func TestEnrollmentVerification(t *testing.T) {
	now := Date(2026, 10, 14)
	v := &EnrollmentVerification{Status: VerificationStatusVerified, IssueDate: TimePtr(Date(2026, 10, 1)), ValidUntil: TimePtr(Date(2026, 11, 1))}
	assert.True(t, v.IsValid(now))
	assert.True(t, v.IsExpiringSoon(now))
	assert.Equal(t, "EV-2026-000042", FormatVerificationNumber(2026, 42))

	v.Status = VerificationStatusPending
	assert.False(t, v.IsValid(now))
	assert.False(t, v.IsExpiringSoon(now))
}

func TestRecordLock(t *testing.T) {
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	l := &RecordLock{HolderID: 7, Status: LockStatusActive, ExpiresAt: TimePtr(now.Add(10 * time.Minute))}
	assert.True(t, l.HeldBy(7, now))
	assert.False(t, l.HeldBy(8, now))
	assert.Equal(t, 10*time.Minute, l.RemainingTime(now))
	assert.False(t, l.IsHeld(now.Add(11*time.Minute)))

	l.ReleasedAt = &now
	assert.False(t, l.IsHeld(now))
	assert.Equal(t, time.Duration(0), l.RemainingTime(now))
}

func TestStudentNames(t *testing.T) {
	s := &Student{FirstName: "Robert", MiddleName: stringPtr(" "), LastName: "Lee", PreferredName: stringPtr("Bobby"), BirthDate: TimePtr(Date(2010, 10, 15))}
	assert.Equal(t, "Robert Lee", s.FullName())
	assert.Equal(t, "Lee, Bobby", s.DisplayName())
	assert.Equal(t, 15, s.Age(Date(2026, 10, 14)))
	assert.Equal(t, 16, s.Age(Date(2026, 10, 15)))
	assert.Equal(t, 0, (&Student{}).Age(Date(2026, 1, 1)))
}

func TestScheduleMinutes(t *testing.T) {
	s := &InstructionalSchedule{
		Active: true,
		Periods: []InstructionalPeriod{
			{Type: PeriodTypeClass, StartMinute: 480, EndMinute: 530},
			{Type: PeriodTypePassing, StartMinute: 530, EndMinute: 535},
			{Type: PeriodTypeLab, StartMinute: 535, EndMinute: 625},
			{Type: PeriodTypeLunch, StartMinute: 625, EndMinute: 655},
			{Type: PeriodTypeClass, StartMinute: 700, EndMinute: 690},
		},
	}
	assert.Equal(t, 140, s.TotalInstructionalMinutes())
	assert.Equal(t, 175, s.TotalMinutes())
	assert.True(t, s.MeetsMinimum(140))
	assert.False(t, s.MeetsMinimum(141))
	assert.True(t, s.IsInEffect(Date(2026, 10, 14)))
}

func TestTransferDaysPending(t *testing.T) {
	tr := &StudentTransfer{Status: TransferStatusRequested, RequestedAt: Date(2026, 10, 4)}
	assert.False(t, tr.IsComplete())
	assert.Equal(t, 10, tr.DaysPending(Date(2026, 10, 14)))

	tr.Status = TransferStatusCompleted
	assert.True(t, tr.IsComplete())
	assert.Equal(t, 0, tr.DaysPending(Date(2026, 10, 14)))
}

func stringPtr(s string) *string { return &s }
