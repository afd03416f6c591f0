package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/michaelkatsweb/Heronix-Application-sub017/internal/models"
	"github.com/michaelkatsweb/Heronix-Application-sub017/internal/validation"
	appErrors "github.com/michaelkatsweb/Heronix-Application-sub017/pkg/errors"
)

const recordLockResource = "record_lock"

type recordLockRepository interface {
	Create(ctx context.Context, lock *models.RecordLock) error
	FindActive(ctx context.Context, resourceType string, resourceID int64, now time.Time) (*models.RecordLock, error)
	FindByToken(ctx context.Context, token string) (*models.RecordLock, error)
	Release(ctx context.Context, token string, actor *int64, at time.Time) error
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
}

// AcquireLockRequest asks for exclusive editing of one record.
type AcquireLockRequest struct {
	ResourceType string  `json:"resource_type" validate:"required,oneof=withdrawal medication iep plan504 gifted_plan crisis transfer student"`
	ResourceID   int64   `json:"resource_id" validate:"required,gt=0"`
	TTLSeconds   int     `json:"ttl_seconds" validate:"omitempty,min=0"`
	Reason       *string `json:"reason" validate:"omitempty,max=500"`
}

// LockConfig tunes lock lifetimes.
type LockConfig struct {
	DefaultTTL time.Duration
	MaxTTL     time.Duration
}

// RecordLockService records edit lock requests. Callers decide whether to
// honour a lock; nothing here blocks writes to the locked record.
type RecordLockService struct {
	repo      recordLockRepository
	metrics   *MetricsService
	audit     *AuditService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       LockConfig
	now       Clock
}

// NewRecordLockService constructs a RecordLockService.
func NewRecordLockService(repo recordLockRepository, metrics *MetricsService, audit *AuditService, validate *validator.Validate, logger *zap.Logger, cfg LockConfig) *RecordLockService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = 15 * time.Minute
	}
	if cfg.MaxTTL < cfg.DefaultTTL {
		cfg.MaxTTL = cfg.DefaultTTL
	}
	return &RecordLockService{repo: repo, metrics: metrics, audit: audit, validator: validate, logger: logger, cfg: cfg, now: systemClock}
}

// WithClock overrides the time source.
func (s *RecordLockService) WithClock(now Clock) *RecordLockService {
	if now != nil {
		s.now = now
	}
	return s
}

// Acquire takes a lock for holder. Re-acquiring a lock already held by the
// same user returns it unchanged; a lock held by someone else yields ErrLockHeld.
// The lookup and insert are not atomic, so two simultaneous requests can both
// succeed; a lock is advisory and callers must not treat it as a mutex.
func (s *RecordLockService) Acquire(ctx context.Context, req AcquireLockRequest, holder int64) (*models.RecordLock, error) {
	if err := validation.Struct(s.validator, req); err != nil {
		return nil, err
	}
	now := s.now()

	existing, err := s.repo.FindActive(ctx, req.ResourceType, req.ResourceID, now)
	switch {
	case err == nil && existing.IsHeld(now):
		if existing.HolderID == holder {
			return existing, nil
		}
		s.metrics.RecordLockConflict()
		return nil, appErrors.Clone(appErrors.ErrLockHeld,
			fmt.Sprintf("%s %d is locked by user %d for another %s", req.ResourceType, req.ResourceID, existing.HolderID, existing.RemainingTime(now).Round(time.Second)))
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return nil, appErrors.Internal(err, "failed to check record lock")
	}

	ttl := s.lockTTL(req.TTLSeconds)

	actor := models.Int64Ptr(holder)
	lock := &models.RecordLock{
		LockToken:    uuid.NewString(),
		ResourceType: req.ResourceType,
		ResourceID:   req.ResourceID,
		HolderID:     holder,
		Reason:       req.Reason,
		AcquiredAt:   now,
		ExpiresAt:    models.TimePtr(now.Add(ttl)),
		Status:       models.LockStatusActive,
	}
	lock.StampCreate(actor, now)
	if err := validation.Struct(s.validator, lock); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, lock); err != nil {
		return nil, appErrors.Internal(err, "failed to create record lock")
	}
	s.audit.Record(ctx, AuditEntry{
		Actor:      actor,
		Action:     models.AuditActionLockAcquire,
		Resource:   recordLockResource,
		ResourceID: lock.ID,
		New:        map[string]interface{}{"resource_type": lock.ResourceType, "resource_id": lock.ResourceID, "expires_at": lock.ExpiresAt},
	})
	return lock, nil
}

// Release frees a lock. Only the holder may release unless override is set.
func (s *RecordLockService) Release(ctx context.Context, token string, actor int64, override bool) error {
	lock, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		return lookupError(err, "record lock")
	}
	if lock.HolderID != actor && !override {
		return appErrors.Clone(appErrors.ErrForbidden, "lock is held by another user")
	}
	if err := validation.LockTransitions.CheckTransition(lock.Status, models.LockStatusReleased); err != nil {
		return err
	}
	if err := s.repo.Release(ctx, token, models.Int64Ptr(actor), s.now()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrConflict, "lock already released")
		}
		return appErrors.Internal(err, "failed to release record lock")
	}
	s.audit.Record(ctx, AuditEntry{Actor: models.Int64Ptr(actor), Action: models.AuditActionLockRelease, Resource: recordLockResource, ResourceID: lock.ID})
	return nil
}

// Sweep marks overdue locks expired.
func (s *RecordLockService) Sweep(ctx context.Context) (int64, error) {
	n, err := s.repo.ExpireStale(ctx, s.now())
	if err != nil {
		return 0, appErrors.Internal(err, "failed to expire record locks")
	}
	if n > 0 {
		s.logger.Info("expired stale record locks", zap.Int64("count", n))
	}
	return n, nil
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *RecordLockService) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				s.logger.Warn("record lock sweep failed", zap.Error(err))
			}
		}
	}
}

// lockTTL converts the requested seconds to a lifetime capped at MaxTTL.
// The cap is applied before converting so huge values cannot overflow.
func (s *RecordLockService) lockTTL(seconds int) time.Duration {
	if seconds <= 0 {
		return s.cfg.DefaultTTL
	}
	if int64(seconds) >= int64(s.cfg.MaxTTL/time.Second) {
		return s.cfg.MaxTTL
	}
	return time.Duration(seconds) * time.Second
}
