package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/michaelkatsweb/Heronix-Application-sub017/internal/models"
	appErrors "github.com/michaelkatsweb/Heronix-Application-sub017/pkg/errors"
)

type stubLockRepo struct {
	locks   map[string]models.RecordLock
	nextID  int64
	expired int64
}

func newStubLockRepo() *stubLockRepo {
	return &stubLockRepo{locks: map[string]models.RecordLock{}}
}

func (r *stubLockRepo) Create(ctx context.Context, lock *models.RecordLock) error {
	r.nextID++
	lock.ID = r.nextID
	r.locks[lock.LockToken] = *lock
	return nil
}

func (r *stubLockRepo) FindActive(ctx context.Context, resourceType string, resourceID int64, now time.Time) (*models.RecordLock, error) {
	for _, lock := range r.locks {
		if lock.ResourceType == resourceType && lock.ResourceID == resourceID && lock.Status == models.LockStatusActive {
			l := lock
			return &l, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *stubLockRepo) FindByToken(ctx context.Context, token string) (*models.RecordLock, error) {
	lock, ok := r.locks[token]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &lock, nil
}

func (r *stubLockRepo) Release(ctx context.Context, token string, actor *int64, at time.Time) error {
	lock, ok := r.locks[token]
	if !ok || lock.Status != models.LockStatusActive {
		return sql.ErrNoRows
	}
	lock.Status = models.LockStatusReleased
	lock.ReleasedAt = &at
	r.locks[token] = lock
	return nil
}

func (r *stubLockRepo) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	for token, lock := range r.locks {
		if lock.Status == models.LockStatusActive && lock.ExpiresAt != nil && lock.ExpiresAt.Before(now) {
			lock.Status = models.LockStatusExpired
			r.locks[token] = lock
			n++
		}
	}
	r.expired += n
	return n, nil
}

func newLockServiceForTest(repo *stubLockRepo, metrics *MetricsService) *RecordLockService {
	return NewRecordLockService(repo, metrics, nil, nil, zap.NewNop(), LockConfig{DefaultTTL: 10 * time.Minute, MaxTTL: time.Hour}).WithClock(fixedClock)
}

func TestRecordLockServiceAcquire(t *testing.T) {
	repo := newStubLockRepo()
	metrics := NewMetricsService()
	svc := newLockServiceForTest(repo, metrics)
	req := AcquireLockRequest{ResourceType: "withdrawal", ResourceID: 12}

	lock, err := svc.Acquire(context.Background(), req, 3)
	require.NoError(t, err)
	assert.NotEmpty(t, lock.LockToken)
	assert.Equal(t, models.LockStatusActive, lock.Status)
	require.NotNil(t, lock.ExpiresAt)
	assert.Equal(t, fixedNow.Add(10*time.Minute), *lock.ExpiresAt)

	again, err := svc.Acquire(context.Background(), req, 3)
	require.NoError(t, err)
	assert.Equal(t, lock.LockToken, again.LockToken)
	assert.Len(t, repo.locks, 1)

	_, err = svc.Acquire(context.Background(), req, 4)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrLockHeld))
	assert.Contains(t, err.Error(), "locked by user 3 for another 10m0s")
}

func TestRecordLockServiceAcquireCapsTTL(t *testing.T) {
	repo := newStubLockRepo()
	svc := newLockServiceForTest(repo, nil)

	lock, err := svc.Acquire(context.Background(), AcquireLockRequest{ResourceType: "iep", ResourceID: 1, TTLSeconds: 86400}, 3)
	require.NoError(t, err)
	assert.Equal(t, fixedNow.Add(time.Hour), *lock.ExpiresAt)

	_, err = svc.Acquire(context.Background(), AcquireLockRequest{ResourceType: "timetable", ResourceID: 1}, 3)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestRecordLockServiceAcquireCapsOverflowingTTL(t *testing.T) {
	repo := newStubLockRepo()
	svc := newLockServiceForTest(repo, nil)

	lock, err := svc.Acquire(context.Background(), AcquireLockRequest{ResourceType: "withdrawal", ResourceID: 2, TTLSeconds: 10_000_000_000}, 3)
	require.NoError(t, err)
	require.NotNil(t, lock.ExpiresAt)
	assert.Equal(t, fixedNow.Add(time.Hour), *lock.ExpiresAt)

	exact, err := svc.Acquire(context.Background(), AcquireLockRequest{ResourceType: "withdrawal", ResourceID: 3, TTLSeconds: 3600}, 3)
	require.NoError(t, err)
	assert.Equal(t, fixedNow.Add(time.Hour), *exact.ExpiresAt)

	short, err := svc.Acquire(context.Background(), AcquireLockRequest{ResourceType: "withdrawal", ResourceID: 4, TTLSeconds: 90}, 3)
	require.NoError(t, err)
	assert.Equal(t, fixedNow.Add(90*time.Second), *short.ExpiresAt)
}

func TestRecordLockServiceAcquireAfterExpiry(t *testing.T) {
	repo := newStubLockRepo()
	svc := newLockServiceForTest(repo, nil)
	req := AcquireLockRequest{ResourceType: "medication", ResourceID: 5}

	first, err := svc.Acquire(context.Background(), req, 3)
	require.NoError(t, err)

	svc.WithClock(func() time.Time { return fixedNow.Add(11 * time.Minute) })
	n, err := svc.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	second, err := svc.Acquire(context.Background(), req, 4)
	require.NoError(t, err)
	assert.NotEqual(t, first.LockToken, second.LockToken)
	assert.Equal(t, int64(4), second.HolderID)
}

func TestRecordLockServiceRelease(t *testing.T) {
	repo := newStubLockRepo()
	svc := newLockServiceForTest(repo, nil)
	lock, err := svc.Acquire(context.Background(), AcquireLockRequest{ResourceType: "student", ResourceID: 9}, 3)
	require.NoError(t, err)

	err = svc.Release(context.Background(), lock.LockToken, 4, false)
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))

	require.NoError(t, svc.Release(context.Background(), lock.LockToken, 3, false))
	assert.Equal(t, models.LockStatusReleased, repo.locks[lock.LockToken].Status)

	err = svc.Release(context.Background(), lock.LockToken, 3, false)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidTransition))

	err = svc.Release(context.Background(), "missing", 3, true)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestRecordLockServiceOverrideRelease(t *testing.T) {
	repo := newStubLockRepo()
	svc := newLockServiceForTest(repo, nil)
	lock, err := svc.Acquire(context.Background(), AcquireLockRequest{ResourceType: "crisis", ResourceID: 2}, 3)
	require.NoError(t, err)

	require.NoError(t, svc.Release(context.Background(), lock.LockToken, 1, true))
	assert.Equal(t, models.LockStatusReleased, repo.locks[lock.LockToken].Status)
}
