package models

import "time"

// MedicationStatus is the administration state of a prescription.
type MedicationStatus string

const (
	MedicationStatusActive       MedicationStatus = "ACTIVE"
	MedicationStatusOnHold       MedicationStatus = "ON_HOLD"
	MedicationStatusDiscontinued MedicationStatus = "DISCONTINUED"
	MedicationStatusExpired      MedicationStatus = "EXPIRED"
)

var medicationStatusDisplay = newDisplayTable(
	entry(MedicationStatusActive, "Active", "green"),
	entry(MedicationStatusOnHold, "On Hold", "orange"),
	entry(MedicationStatusDiscontinued, "Discontinued", "gray"),
	entry(MedicationStatusExpired, "Expired", "red"),
)

func (s MedicationStatus) Label() string { return medicationStatusDisplay.lookup(s).Label }
func (s MedicationStatus) Color() string { return medicationStatusDisplay.lookup(s).Color }
func (s MedicationStatus) Valid() bool   { return medicationStatusDisplay.valid(s) }

// MedicationRoute is how a dose is given.
type MedicationRoute string

const (
	MedicationRouteOral       MedicationRoute = "ORAL"
	MedicationRouteInhaled    MedicationRoute = "INHALED"
	MedicationRouteInjection  MedicationRoute = "INJECTION"
	MedicationRouteTopical    MedicationRoute = "TOPICAL"
	MedicationRouteNasal      MedicationRoute = "NASAL"
	MedicationRouteOphthalmic MedicationRoute = "OPHTHALMIC"
)

var medicationRouteDisplay = newDisplayTable(
	entry(MedicationRouteOral, "Oral", ""),
	entry(MedicationRouteInhaled, "Inhaled", ""),
	described(MedicationRouteInjection, "Injection", "red", "Includes epinephrine auto-injectors"),
	entry(MedicationRouteTopical, "Topical", ""),
	entry(MedicationRouteNasal, "Nasal", ""),
	entry(MedicationRouteOphthalmic, "Eye Drops", ""),
)

func (r MedicationRoute) Label() string { return medicationRouteDisplay.lookup(r).Label }
func (r MedicationRoute) Valid() bool   { return medicationRouteDisplay.valid(r) }

// Medication is a prescription the health office administers at school.
type Medication struct {
	ID                int64            `db:"id" json:"id"`
	StudentID         int64            `db:"student_id" json:"student_id"`
	Name              string           `db:"name" json:"name"`
	Dosage            string           `db:"dosage" json:"dosage"`
	Route             MedicationRoute  `db:"route" json:"route"`
	Frequency         string           `db:"frequency" json:"frequency"`
	PrescribingDoctor *string          `db:"prescribing_doctor" json:"prescribing_doctor,omitempty"`
	StartDate         *time.Time       `db:"start_date" json:"start_date,omitempty"`
	EndDate           *time.Time       `db:"end_date" json:"end_date,omitempty"`
	ExpirationDate    *time.Time       `db:"expiration_date" json:"expiration_date,omitempty"`
	QuantityOnHand    *int             `db:"quantity_on_hand" json:"quantity_on_hand,omitempty"`
	ParentConsent     bool             `db:"parent_consent" json:"parent_consent"`
	SelfAdminister    bool             `db:"self_administer" json:"self_administer"`
	Status            MedicationStatus `db:"status" json:"status"`
	AuditFields
}

// Window is the prescribed administration period.
func (m *Medication) Window() Window {
	return Window{Start: m.StartDate, End: m.EndDate}
}

// IsExpired reports whether the stock itself has passed its expiration date.
func (m *Medication) IsExpired(now time.Time) bool {
	if m.ExpirationDate == nil {
		return false
	}
	return DayOf(*m.ExpirationDate).Before(DayOf(now))
}

// IsActiveToday is true when the prescription is active, consented, inside its window and not expired.
func (m *Medication) IsActiveToday(now time.Time) bool {
	active := m.Status == MedicationStatusActive && m.ParentConsent && !m.IsExpired(now)
	return IsValidOn(active, m.Window(), now)
}

// DaysUntilExpiration returns days left on the stock, or -1 when no expiration is recorded.
func (m *Medication) DaysUntilExpiration(now time.Time) int {
	if m.ExpirationDate == nil {
		return -1
	}
	return DaysBetween(now, *m.ExpirationDate)
}

// NeedsRefill is true when stock is at or below minDoses or expires within days.
func (m *Medication) NeedsRefill(now time.Time, minDoses, days int) bool {
	if m.Status != MedicationStatusActive {
		return false
	}
	if m.QuantityOnHand != nil && *m.QuantityOnHand <= minDoses {
		return true
	}
	if m.ExpirationDate != nil {
		left := m.DaysUntilExpiration(now)
		return left >= 0 && left <= days
	}
	return false
}

// DisplayDose renders "Name Dosage (Route, Frequency)".
func (m *Medication) DisplayDose() string {
	detail := joinNonEmpty([]string{m.Route.Label(), m.Frequency}, ", ")
	head := joinNonEmpty([]string{m.Name, m.Dosage}, " ")
	if detail == "" {
		return head
	}
	return head + " (" + detail + ")"
}
