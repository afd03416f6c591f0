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

var recordLockColumns = append([]string{
	"id", "lock_token", "resource_type", "resource_id", "holder_id", "reason",
	"acquired_at", "expires_at", "released_at", "status",
}, auditColumns...)

var (
	recordLockSelect = "SELECT " + strings.Join(recordLockColumns, ", ") + " FROM record_locks"
	recordLockInsert = namedInsert("record_locks", without(recordLockColumns, "id"))
)

// RecordLockRepository persists edit lock requests.
type RecordLockRepository struct {
	db *sqlx.DB
}

// NewRecordLockRepository constructs a RecordLockRepository.
func NewRecordLockRepository(db *sqlx.DB) *RecordLockRepository {
	return &RecordLockRepository{db: db}
}

// Create inserts a lock and assigns its id.
func (r *RecordLockRepository) Create(ctx context.Context, lock *models.RecordLock) error {
	id, err := insertReturningID(ctx, r.db, recordLockInsert, lock)
	if err != nil {
		return fmt.Errorf("create record lock: %w", err)
	}
	lock.ID = id
	return nil
}

// FindActive returns the newest unexpired lock on a resource.
func (r *RecordLockRepository) FindActive(ctx context.Context, resourceType string, resourceID int64, now time.Time) (*models.RecordLock, error) {
	query := recordLockSelect + ` WHERE resource_type = $1 AND resource_id = $2 AND status = $3
        AND released_at IS NULL AND (expires_at IS NULL OR expires_at >= $4)
        ORDER BY acquired_at DESC LIMIT 1`
	var lock models.RecordLock
	if err := r.db.GetContext(ctx, &lock, query, resourceType, resourceID, models.LockStatusActive, now); err != nil {
		return nil, err
	}
	return &lock, nil
}

// FindByToken loads a lock by its token.
func (r *RecordLockRepository) FindByToken(ctx context.Context, token string) (*models.RecordLock, error) {
	var lock models.RecordLock
	if err := r.db.GetContext(ctx, &lock, recordLockSelect+" WHERE lock_token = $1", token); err != nil {
		return nil, err
	}
	return &lock, nil
}

// Release marks the lock released.
func (r *RecordLockRepository) Release(ctx context.Context, token string, actor *int64, at time.Time) error {
	const query = `UPDATE record_locks SET status = $2, released_at = $3, updated_by = COALESCE($4, updated_by), updated_at = $3 WHERE lock_token = $1 AND released_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, token, models.LockStatusReleased, at, actor)
	if err != nil {
		return fmt.Errorf("release record lock: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("release record lock: %w", sql.ErrNoRows)
	}
	return nil
}

// ExpireStale flips active locks past their expiry to EXPIRED and returns how many changed.
func (r *RecordLockRepository) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	const query = `UPDATE record_locks SET status = $1, updated_at = $2 WHERE status = $3 AND released_at IS NULL AND expires_at IS NOT NULL AND expires_at < $2`
	res, err := r.db.ExecContext(ctx, query, models.LockStatusExpired, now, models.LockStatusActive)
	if err != nil {
		return 0, fmt.Errorf("expire record locks: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("expire record locks: %w", err)
	}
	return n, nil
}
