package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/michaelkatsweb/Heronix-Application-sub017/internal/models"
	"github.com/michaelkatsweb/Heronix-Application-sub017/pkg/jobs"
)

func TestAuditServiceRecordSynchronous(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo, jobs.QueueConfig{}, zap.NewNop()).WithClock(fixedClock)
	ctx := WithRequestMeta(context.Background(), RequestMeta{IPAddress: "10.0.0.8", UserAgent: "clearance-desk"})

	svc.Record(ctx, AuditEntry{
		Actor:      models.Int64Ptr(3),
		Action:     models.AuditActionTransition,
		Resource:   withdrawalResource,
		ResourceID: 12,
		Old:        map[string]string{"status": "DRAFT"},
		New:        map[string]string{"status": "PENDING_CLEARANCE"},
	})

	require.Len(t, repo.logs, 1)
	log := repo.logs[0]
	assert.NotEmpty(t, log.ID)
	assert.Equal(t, int64(3), *log.UserID)
	assert.Equal(t, int64(12), *log.ResourceID)
	assert.Equal(t, "10.0.0.8", log.IPAddress)
	assert.Equal(t, "clearance-desk", log.UserAgent)
	assert.Equal(t, fixedNow, log.CreatedAt)

	var newValues map[string]string
	require.NoError(t, json.Unmarshal(log.NewValues, &newValues))
	assert.Equal(t, "PENDING_CLEARANCE", newValues["status"])

	history, err := svc.History(context.Background(), withdrawalResource, 12, 10)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestAuditServiceRecordThroughQueue(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo, jobs.QueueConfig{Workers: 2}, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)
	defer svc.Stop()

	for i := int64(1); i <= 5; i++ {
		svc.Record(context.Background(), AuditEntry{Action: models.AuditActionCreate, Resource: medicationResource, ResourceID: i})
	}

	assert.Eventually(t, func() bool { return len(repo.actions()) == 5 }, time.Second, 10*time.Millisecond)
}

func TestAuditServiceNeverFailsCaller(t *testing.T) {
	repo := &stubAuditRepo{err: errors.New("disk full")}
	svc := NewAuditService(repo, jobs.QueueConfig{}, zap.NewNop())

	assert.NotPanics(t, func() {
		svc.Record(context.Background(), AuditEntry{Action: models.AuditActionCreate, Resource: "x", New: make(chan int)})
	})
	assert.Empty(t, repo.logs)

	var nilSvc *AuditService
	assert.NotPanics(t, func() { nilSvc.Record(context.Background(), AuditEntry{Action: "noop"}) })
}
