package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/michaelkatsweb/Heronix-Application-sub017/internal/models"
	"github.com/michaelkatsweb/Heronix-Application-sub017/pkg/jobs"
)

type auditLogRepository interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
	ListByResource(ctx context.Context, resource string, resourceID int64, limit int) ([]models.AuditLog, error)
}

// AuditEntry describes one action to log. Old and New are marshalled to JSON.
type AuditEntry struct {
	Actor      *int64
	Action     string
	Resource   string
	ResourceID int64
	Old        interface{}
	New        interface{}
}

// AuditService writes action log rows through a background queue.
// Before Start, or after Stop, entries are written synchronously.
type AuditService struct {
	repo   auditLogRepository
	queue  *jobs.Queue[models.AuditLog]
	logger *zap.Logger
	now    Clock
}

// NewAuditService constructs an AuditService. cfg tunes the worker pool.
func NewAuditService(repo auditLogRepository, cfg jobs.QueueConfig, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Logger == nil {
		cfg.Logger = logger
	}
	s := &AuditService{repo: repo, logger: logger, now: systemClock}
	s.queue = jobs.NewQueue[models.AuditLog]("audit-log", s.write, cfg)
	return s
}

// WithClock overrides the time source.
func (s *AuditService) WithClock(now Clock) *AuditService {
	if now != nil {
		s.now = now
	}
	return s
}

// Start launches queue workers.
func (s *AuditService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains workers.
func (s *AuditService) Stop() {
	s.queue.Stop()
}

// Record logs entry. Failures are logged, never returned, so they cannot fail the caller's write.
func (s *AuditService) Record(ctx context.Context, entry AuditEntry) {
	if s == nil {
		return
	}
	meta := RequestMetaFrom(ctx)
	log := models.AuditLog{
		ID:        uuid.NewString(),
		UserID:    entry.Actor,
		Action:    entry.Action,
		Resource:  entry.Resource,
		OldValues: s.marshal(entry.Old),
		NewValues: s.marshal(entry.New),
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		CreatedAt: s.now(),
	}
	if entry.ResourceID != 0 {
		log.ResourceID = models.Int64Ptr(entry.ResourceID)
	}

	if err := s.queue.Enqueue(jobs.Job[models.AuditLog]{ID: log.ID, Payload: log}); err == nil {
		return
	}
	if err := s.repo.CreateAuditLog(ctx, &log); err != nil {
		s.logger.Warn("failed to record audit log", zap.String("action", log.Action), zap.String("resource", log.Resource), zap.Error(err))
	}
}

// History returns the newest log rows for a record.
func (s *AuditService) History(ctx context.Context, resource string, resourceID int64, limit int) ([]models.AuditLog, error) {
	logs, err := s.repo.ListByResource(ctx, resource, resourceID, limit)
	if err != nil {
		return nil, lookupError(err, "audit history")
	}
	return logs, nil
}

func (s *AuditService) write(ctx context.Context, job jobs.Job[models.AuditLog]) error {
	log := job.Payload
	return s.repo.CreateAuditLog(ctx, &log)
}

func (s *AuditService) marshal(v interface{}) []byte {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		s.logger.Warn("failed to encode audit values", zap.Error(err))
		return nil
	}
	return raw
}
