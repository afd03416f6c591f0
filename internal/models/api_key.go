package models

import (
	"strings"
	"time"
)

// APIKeyStatus is the lifecycle state of an integration key.
type APIKeyStatus string

const (
	APIKeyStatusActive  APIKeyStatus = "ACTIVE"
	APIKeyStatusRevoked APIKeyStatus = "REVOKED"
)

var apiKeyStatusDisplay = newDisplayTable(
	entry(APIKeyStatusActive, "Active", "green"),
	entry(APIKeyStatusRevoked, "Revoked", "red"),
)

func (s APIKeyStatus) Label() string { return apiKeyStatusDisplay.lookup(s).Label }
func (s APIKeyStatus) Valid() bool   { return apiKeyStatusDisplay.valid(s) }

// APIKey grants a third-party integration access. Only hashes of the secret are stored.
type APIKey struct {
	ID         int64        `db:"id" json:"id"`
	Name       string       `db:"name" json:"name"`
	KeyPrefix  string       `db:"key_prefix" json:"key_prefix"`
	KeyHash    string       `db:"key_hash" json:"-"`
	SecretHash string       `db:"secret_hash" json:"-"`
	Scopes     string       `db:"scopes" json:"scopes"`
	OwnerID    *int64       `db:"owner_id" json:"owner_id,omitempty"`
	Status     APIKeyStatus `db:"status" json:"status"`
	IssuedAt   time.Time    `db:"issued_at" json:"issued_at"`
	ExpiresAt  *time.Time   `db:"expires_at" json:"expires_at,omitempty"`
	LastUsedAt *time.Time   `db:"last_used_at" json:"last_used_at,omitempty"`
	RevokedAt  *time.Time   `db:"revoked_at" json:"revoked_at,omitempty"`
	AuditFields
}

// IsExpired reports whether ExpiresAt is strictly before now.
func (k *APIKey) IsExpired(now time.Time) bool {
	return Window{End: k.ExpiresAt}.Expired(now)
}

// IsValid is true for an active, unrevoked key inside [IssuedAt, ExpiresAt].
func (k *APIKey) IsValid(now time.Time) bool {
	issued := k.IssuedAt
	w := Window{Start: &issued, End: k.ExpiresAt}
	if k.IssuedAt.IsZero() {
		w.Start = nil
	}
	return IsValid(k.Status == APIKeyStatusActive && k.RevokedAt == nil, w, now)
}

// ScopeList splits the comma-separated scopes.
func (k *APIKey) ScopeList() []string {
	out := make([]string, 0)
	for _, s := range strings.Split(k.Scopes, ",") {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// HasScope checks a single scope; "*" grants all.
func (k *APIKey) HasScope(scope string) bool {
	for _, s := range k.ScopeList() {
		if s == "*" || s == scope {
			return true
		}
	}
	return false
}

// MaskedKey renders the public prefix followed by a fixed mask.
func (k *APIKey) MaskedKey() string {
	if k.KeyPrefix == "" {
		return "N/A"
	}
	return k.KeyPrefix + "_********"
}
