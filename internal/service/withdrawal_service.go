package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/michaelkatsweb/Heronix-Application-sub017/internal/models"
	"github.com/michaelkatsweb/Heronix-Application-sub017/internal/validation"
	appErrors "github.com/michaelkatsweb/Heronix-Application-sub017/pkg/errors"
)

const withdrawalResource = "withdrawal"

type withdrawalRepository interface {
	Create(ctx context.Context, record *models.WithdrawalRecord) error
	FindByID(ctx context.Context, id int64) (*models.WithdrawalRecord, error)
	FindByNumber(ctx context.Context, number string) (*models.WithdrawalRecord, error)
	List(ctx context.Context, filter models.WithdrawalFilter) ([]models.WithdrawalRecord, int, error)
	Update(ctx context.Context, record *models.WithdrawalRecord) error
	UpdateStatus(ctx context.Context, id int64, status models.WithdrawalStatus, completedAt *time.Time, actor *int64, now time.Time) error
	Complete(ctx context.Context, id, studentID int64, studentStatus models.StudentStatus, completedAt time.Time, actor *int64) error
}

type withdrawalStudentRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Student, error)
}

// CreateWithdrawalRequest opens a withdrawal case.
type CreateWithdrawalRequest struct {
	StudentID          int64                   `json:"student_id" validate:"required,gt=0"`
	Reason             models.WithdrawalReason `json:"reason" validate:"required,enum"`
	WithdrawalDate     time.Time               `json:"withdrawal_date" validate:"required"`
	LastAttendanceDate *time.Time              `json:"last_attendance_date"`
	EffectiveDate      *time.Time              `json:"effective_date"`
	ExpirationDate     *time.Time              `json:"expiration_date"`
	DestinationSchool  *string                 `json:"destination_school" validate:"omitempty,max=200"`
	Notes              *string                 `json:"notes" validate:"omitempty,max=2000"`
}

// ChecklistUpdateRequest ticks or unticks clearance items by key.
type ChecklistUpdateRequest struct {
	Items map[string]bool `json:"items" validate:"required,min=1"`
}

// TransitionRequest moves a case to a new status.
type TransitionRequest struct {
	Status models.WithdrawalStatus `json:"status" validate:"required,enum"`
	Notes  *string                 `json:"notes" validate:"omitempty,max=2000"`
}

// WithdrawalService runs the withdrawal clearance workflow.
type WithdrawalService struct {
	repo      withdrawalRepository
	students  withdrawalStudentRepository
	cache     *CacheService
	metrics   *MetricsService
	audit     *AuditService
	validator *validator.Validate
	logger    *zap.Logger
	now       Clock
	cacheTTL  time.Duration
}

// NewWithdrawalService constructs the withdrawal service. cache, metrics and audit may be nil.
func NewWithdrawalService(repo withdrawalRepository, students withdrawalStudentRepository, cache *CacheService, metrics *MetricsService, audit *AuditService, validate *validator.Validate, logger *zap.Logger) *WithdrawalService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WithdrawalService{
		repo:      repo,
		students:  students,
		cache:     cache,
		metrics:   metrics,
		audit:     audit,
		validator: validate,
		logger:    logger,
		now:       systemClock,
	}
}

// WithClock overrides the time source.
func (s *WithdrawalService) WithClock(now Clock) *WithdrawalService {
	if now != nil {
		s.now = now
	}
	return s
}

// WithCacheTTL sets how long summaries stay cached.
func (s *WithdrawalService) WithCacheTTL(ttl time.Duration) *WithdrawalService {
	s.cacheTTL = ttl
	return s
}

// Create opens a DRAFT case for an enrolled student with every clearance item unset.
func (s *WithdrawalService) Create(ctx context.Context, req CreateWithdrawalRequest, actor *int64) (*models.WithdrawalRecord, error) {
	if err := validation.Struct(s.validator, req); err != nil {
		return nil, err
	}
	student, err := s.students.FindByID(ctx, req.StudentID)
	if err != nil {
		return nil, lookupError(err, "student")
	}
	if !student.IsEnrolled() {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, fmt.Sprintf("student is %s", student.Status.Label()))
	}

	now := s.now()
	record := &models.WithdrawalRecord{
		StudentID:          req.StudentID,
		Status:             models.WithdrawalStatusDraft,
		Reason:             req.Reason,
		WithdrawalDate:     req.WithdrawalDate,
		LastAttendanceDate: req.LastAttendanceDate,
		EffectiveDate:      req.EffectiveDate,
		ExpirationDate:     req.ExpirationDate,
		DestinationSchool:  req.DestinationSchool,
		Notes:              req.Notes,
	}
	record.StampCreate(actor, now)
	record.RecalculateClearance()
	if err := validation.Struct(s.validator, record); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, appErrors.Internal(err, "failed to create withdrawal")
	}

	s.audit.Record(ctx, AuditEntry{Actor: actor, Action: models.AuditActionCreate, Resource: withdrawalResource, ResourceID: record.ID, New: record})
	s.logger.Info("withdrawal opened",
		zap.Int64("withdrawal_id", record.ID),
		zap.String("withdrawal_number", record.WithdrawalNumber),
		zap.Int64("student_id", record.StudentID),
	)
	return record, nil
}

// Get loads one case.
func (s *WithdrawalService) Get(ctx context.Context, id int64) (*models.WithdrawalRecord, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "withdrawal")
	}
	return record, nil
}

// GetByNumber loads one case by its WD-YYYY-NNNNNN number.
func (s *WithdrawalService) GetByNumber(ctx context.Context, number string) (*models.WithdrawalRecord, error) {
	record, err := s.repo.FindByNumber(ctx, strings.ToUpper(strings.TrimSpace(number)))
	if err != nil {
		return nil, lookupError(err, "withdrawal")
	}
	return record, nil
}

// List returns cases and pagination metadata.
func (s *WithdrawalService) List(ctx context.Context, filter models.WithdrawalFilter) ([]models.WithdrawalRecord, *models.Pagination, error) {
	for _, status := range filter.Status {
		if !status.Valid() {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", status))
		}
	}
	records, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list withdrawals")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return records, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// UpdateChecklist applies item changes and moves the case along the workflow:
// the first cleared item opens clearance, clearing all 24 marks the case
// cleared, and unticking an item on a cleared case sends it back.
func (s *WithdrawalService) UpdateChecklist(ctx context.Context, id int64, req ChecklistUpdateRequest, actor *int64) (*models.WithdrawalRecord, error) {
	if err := validation.Struct(s.validator, req); err != nil {
		return nil, err
	}
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Status.Terminal() {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, fmt.Sprintf("withdrawal is %s", record.Status.Label()))
	}

	categories := make(map[string]string, models.WithdrawalClearanceItemCount)
	current := make(map[string]bool, models.WithdrawalClearanceItemCount)
	for _, item := range record.Checklist() {
		categories[item.Key] = item.Category
		current[item.Key] = item.IsDone()
	}
	keys := make([]string, 0, len(req.Items))
	for key := range req.Items {
		if _, ok := categories[key]; !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown clearance item %q", key))
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	before := record.Checklist().Completion()
	fromStatus := record.Status
	for _, key := range keys {
		done := req.Items[key]
		record.SetClearanceItem(key, done)
		if current[key] != done {
			s.metrics.RecordChecklistItem(categories[key], done)
		}
	}
	after := record.RecalculateClearance()

	for _, next := range advanceWithdrawal(record.Status, after) {
		if err := validation.WithdrawalTransitions.CheckTransition(record.Status, next); err != nil {
			return nil, err
		}
		s.metrics.RecordTransition(record.Status, next)
		record.Status = next
	}

	now := s.now()
	record.StampUpdate(actor, now)
	if err := validation.Struct(s.validator, record); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, record); err != nil {
		return nil, appErrors.Internal(err, "failed to update checklist")
	}

	s.cache.Evict(ctx, summaryCacheKey(id))
	s.audit.Record(ctx, AuditEntry{
		Actor:      actor,
		Action:     models.AuditActionChecklist,
		Resource:   withdrawalResource,
		ResourceID: id,
		Old:        map[string]interface{}{"status": fromStatus, "cleared_items": before.Completed},
		New:        map[string]interface{}{"status": record.Status, "cleared_items": after.Completed, "items": req.Items},
	})
	if fromStatus != record.Status {
		s.logger.Info("withdrawal advanced",
			zap.Int64("withdrawal_id", id),
			zap.String("from", string(fromStatus)),
			zap.String("to", string(record.Status)),
			zap.Int("cleared_items", after.Completed),
		)
	}
	return record, nil
}

// studentOutcome is the enrollment status a completed withdrawal leaves behind.
func studentOutcome(reason models.WithdrawalReason) models.StudentStatus {
	if reason == models.WithdrawalReasonTransfer {
		return models.StudentStatusTransferred
	}
	return models.StudentStatusWithdrawn
}

// advanceWithdrawal returns the automatic status moves implied by a checklist change.
func advanceWithdrawal(status models.WithdrawalStatus, c models.Completion) []models.WithdrawalStatus {
	var steps []models.WithdrawalStatus
	if status == models.WithdrawalStatusDraft && c.Completed > 0 {
		status = models.WithdrawalStatusPendingClearance
		steps = append(steps, status)
	}
	switch {
	case status == models.WithdrawalStatusPendingClearance && c.AllComplete:
		steps = append(steps, models.WithdrawalStatusCleared)
	case status == models.WithdrawalStatusCleared && !c.AllComplete:
		steps = append(steps, models.WithdrawalStatusPendingClearance)
	}
	return steps
}

// Transition moves a case to req.Status. Completing requires every item cleared
// and marks the student withdrawn, or transferred when that is the reason.
func (s *WithdrawalService) Transition(ctx context.Context, id int64, req TransitionRequest, actor *int64) (*models.WithdrawalRecord, error) {
	if err := validation.Struct(s.validator, req); err != nil {
		return nil, err
	}
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	from := record.Status
	if err := validation.WithdrawalTransitions.CheckTransition(from, req.Status); err != nil {
		return nil, err
	}
	c := record.Checklist().Completion()
	switch req.Status {
	case models.WithdrawalStatusCleared:
		if !c.AllComplete {
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, fmt.Sprintf("%d clearance items outstanding", c.Remaining()))
		}
	case models.WithdrawalStatusCompleted:
		if !record.CanComplete() {
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "every clearance item must be cleared before completion")
		}
	}

	now := s.now()
	var completedAt *time.Time
	if req.Status == models.WithdrawalStatusCompleted {
		completedAt = models.TimePtr(now)
		err = s.repo.Complete(ctx, id, record.StudentID, studentOutcome(record.Reason), now, actor)
	} else {
		err = s.repo.UpdateStatus(ctx, id, req.Status, nil, actor, now)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "withdrawal or student not found")
		}
		return nil, appErrors.Internal(err, "failed to update withdrawal status")
	}
	record.Status = req.Status
	record.CompletedAt = completedAt
	record.StampUpdate(actor, now)

	s.metrics.RecordTransition(from, req.Status)
	s.cache.Evict(ctx, summaryCacheKey(id))
	s.audit.Record(ctx, AuditEntry{
		Actor:      actor,
		Action:     models.AuditActionTransition,
		Resource:   withdrawalResource,
		ResourceID: id,
		Old:        map[string]interface{}{"status": from},
		New:        map[string]interface{}{"status": req.Status, "notes": req.Notes},
	})
	s.logger.Info("withdrawal transitioned",
		zap.Int64("withdrawal_id", id),
		zap.String("from", string(from)),
		zap.String("to", string(req.Status)),
	)
	return record, nil
}

// AllowedTransitions lists the statuses a case may move to next.
func (s *WithdrawalService) AllowedTransitions(ctx context.Context, id int64) ([]models.WithdrawalStatus, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return validation.WithdrawalTransitions.AllowedTransitions(record.Status), nil
}

// Summary returns the display read model, served from cache when possible.
func (s *WithdrawalService) Summary(ctx context.Context, id int64) (*models.WithdrawalSummary, bool, error) {
	key := summaryCacheKey(id)
	var cached models.WithdrawalSummary
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, true, nil
	}

	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}
	summary := record.Summarize(s.now())
	if err := s.cache.Set(ctx, key, summary, s.cacheTTL); err != nil {
		s.logger.Debug("summary not cached", zap.Int64("withdrawal_id", id), zap.Error(err))
	}
	return &summary, false, nil
}

func summaryCacheKey(id int64) string {
	return fmt.Sprintf("withdrawals:summary:%d", id)
}
