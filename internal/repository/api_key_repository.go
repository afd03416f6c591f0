package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/michaelkatsweb/Heronix-Application-sub017/internal/models"
)

var apiKeyColumns = append([]string{
	"id", "name", "key_prefix", "key_hash", "secret_hash", "scopes", "owner_id", "status",
	"issued_at", "expires_at", "last_used_at", "revoked_at",
}, auditColumns...)

var (
	apiKeySelect = "SELECT " + strings.Join(apiKeyColumns, ", ") + " FROM api_keys"
	apiKeyInsert = namedInsert("api_keys", without(apiKeyColumns, "id"))
)

// APIKeyRepository persists integration keys. Only digests are stored.
type APIKeyRepository struct {
	db *sqlx.DB
}

// NewAPIKeyRepository constructs an APIKeyRepository.
func NewAPIKeyRepository(db *sqlx.DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

// Create inserts a key and assigns its id.
func (r *APIKeyRepository) Create(ctx context.Context, key *models.APIKey) error {
	id, err := insertReturningID(ctx, r.db, apiKeyInsert, key)
	if err != nil {
		return fmt.Errorf("create api key: %w", err)
	}
	key.ID = id
	return nil
}

// FindByID loads a key by id.
func (r *APIKeyRepository) FindByID(ctx context.Context, id int64) (*models.APIKey, error) {
	var key models.APIKey
	if err := r.db.GetContext(ctx, &key, apiKeySelect+" WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &key, nil
}

// FindByHash loads a key by its lookup digest.
func (r *APIKeyRepository) FindByHash(ctx context.Context, keyHash string) (*models.APIKey, error) {
	var key models.APIKey
	if err := r.db.GetContext(ctx, &key, apiKeySelect+" WHERE key_hash = $1", keyHash); err != nil {
		return nil, err
	}
	return &key, nil
}

// Revoke marks a key revoked. Already revoked keys are left untouched.
func (r *APIKeyRepository) Revoke(ctx context.Context, id int64, actor *int64, at time.Time) error {
	const query = `UPDATE api_keys SET status = $2, revoked_at = $3, updated_by = COALESCE($4, updated_by), updated_at = $3 WHERE id = $1 AND revoked_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, id, models.APIKeyStatusRevoked, at, actor)
	if err != nil {
		return fmt.Errorf("revoke api key: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("revoke api key: %w", sql.ErrNoRows)
	}
	return nil
}

// TouchLastUsed records a successful verification.
func (r *APIKeyRepository) TouchLastUsed(ctx context.Context, id int64, at time.Time) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE api_keys SET last_used_at = $2 WHERE id = $1`, id, at); err != nil {
		return fmt.Errorf("touch api key: %w", err)
	}
	return nil
}
