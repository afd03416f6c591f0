package models

import "time"

// LockStatus is the state of a record lock request.
type LockStatus string

const (
	LockStatusActive   LockStatus = "ACTIVE"
	LockStatusReleased LockStatus = "RELEASED"
	LockStatusExpired  LockStatus = "EXPIRED"
)

var lockStatusDisplay = newDisplayTable(
	entry(LockStatusActive, "Locked", "red"),
	entry(LockStatusReleased, "Released", "green"),
	entry(LockStatusExpired, "Expired", "gray"),
)

func (s LockStatus) Label() string { return lockStatusDisplay.lookup(s).Label }
func (s LockStatus) Valid() bool   { return lockStatusDisplay.valid(s) }

// RecordLock models a request to edit a record exclusively. It is not a
// mutual-exclusion primitive; callers decide whether to honour it.
type RecordLock struct {
	ID           int64      `db:"id" json:"id"`
	LockToken    string     `db:"lock_token" json:"lock_token"`
	ResourceType string     `db:"resource_type" json:"resource_type"`
	ResourceID   int64      `db:"resource_id" json:"resource_id"`
	HolderID     int64      `db:"holder_id" json:"holder_id"`
	Reason       *string    `db:"reason" json:"reason,omitempty"`
	AcquiredAt   time.Time  `db:"acquired_at" json:"acquired_at"`
	ExpiresAt    *time.Time `db:"expires_at" json:"expires_at,omitempty"`
	ReleasedAt   *time.Time `db:"released_at" json:"released_at,omitempty"`
	Status       LockStatus `db:"status" json:"status"`
	AuditFields
}

// IsHeld is true for an active, unreleased lock that has not expired at now.
func (l *RecordLock) IsHeld(now time.Time) bool {
	return IsValid(l.Status == LockStatusActive && l.ReleasedAt == nil, Window{End: l.ExpiresAt}, now)
}

// HeldBy reports whether actor holds the lock at now.
func (l *RecordLock) HeldBy(actor int64, now time.Time) bool {
	return l.IsHeld(now) && l.HolderID == actor
}

// RemainingTime returns time left on a held lock, zero otherwise. Locks without expiry report zero.
func (l *RecordLock) RemainingTime(now time.Time) time.Duration {
	if !l.IsHeld(now) || l.ExpiresAt == nil {
		return 0
	}
	return l.ExpiresAt.Sub(now)
}
