package models

import "time"

// AuditFields is embedded in every record. Actor ids come from the caller.
type AuditFields struct {
	CreatedBy *int64    `db:"created_by" json:"created_by,omitempty"`
	UpdatedBy *int64    `db:"updated_by" json:"updated_by,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// StampCreate sets creation metadata once. Calling it again leaves CreatedAt and CreatedBy untouched.
func (a *AuditFields) StampCreate(actor *int64, now time.Time) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.CreatedBy == nil {
		a.CreatedBy = actor
	}
	a.StampUpdate(actor, now)
}

// StampUpdate refreshes modification metadata. UpdatedAt never moves backwards.
func (a *AuditFields) StampUpdate(actor *int64, now time.Time) {
	if now.After(a.UpdatedAt) {
		a.UpdatedAt = now
	}
	if a.UpdatedAt.Before(a.CreatedAt) {
		a.UpdatedAt = a.CreatedAt
	}
	if actor != nil {
		a.UpdatedBy = actor
	}
}

// Audited is implemented by every record embedding AuditFields.
type Audited interface {
	Audit() *AuditFields
}

// Audit exposes the embedded fields.
func (a *AuditFields) Audit() *AuditFields {
	return a
}

// AuditAction constants describe action log entries.
const (
	AuditActionCreate      = "CREATE"
	AuditActionUpdate      = "UPDATE"
	AuditActionTransition  = "TRANSITION"
	AuditActionChecklist   = "CHECKLIST_UPDATE"
	AuditActionLockAcquire = "LOCK_ACQUIRE"
	AuditActionLockRelease = "LOCK_RELEASE"
	AuditActionKeyIssue    = "API_KEY_ISSUE"
	AuditActionKeyRevoke   = "API_KEY_REVOKE"
	AuditActionExport      = "EXPORT"
)

// AuditLog is an action log row, separate from the per-record audit fields.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	UserID     *int64    `db:"user_id" json:"user_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *int64    `db:"resource_id" json:"resource_id,omitempty"`
	OldValues  []byte    `db:"old_values" json:"old_values,omitempty"`
	NewValues  []byte    `db:"new_values" json:"new_values,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	UserAgent  string    `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Int64Ptr returns a pointer to v.
func Int64Ptr(v int64) *int64 {
	return &v
}
