package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/michaelkatsweb/Heronix-Application-sub017/internal/models"
	appErrors "github.com/michaelkatsweb/Heronix-Application-sub017/pkg/errors"
	"github.com/michaelkatsweb/Heronix-Application-sub017/pkg/jobs"
)

func activeStudent(id int64) models.Student {
	return models.Student{ID: id, StudentNumber: "S-0042", FirstName: "Maya", LastName: "Lopez", GradeLevel: "10", Status: models.StudentStatusActive}
}

func withdrawalFixture(id int64, status models.WithdrawalStatus, cleared int) models.WithdrawalRecord {
	record := models.WithdrawalRecord{
		ID:               id,
		WithdrawalNumber: models.FormatWithdrawalNumber(2026, int(id)),
		StudentID:        7,
		Status:           status,
		Reason:           models.WithdrawalReasonRelocation,
		WithdrawalDate:   time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
	}
	for i, key := range models.ClearanceKeys() {
		if i < cleared {
			record.SetClearanceItem(key, true)
		}
	}
	record.RecalculateClearance()
	record.StampCreate(models.Int64Ptr(1), fixedNow.Add(-48*time.Hour))
	return record
}

type withdrawalHarness struct {
	svc      *WithdrawalService
	repo     *stubWithdrawalRepo
	students *stubStudentRepo
	cache    *memoryCache
	metrics  *MetricsService
	audit    *stubAuditRepo
}

func newWithdrawalHarness(records ...models.WithdrawalRecord) *withdrawalHarness {
	h := &withdrawalHarness{
		repo:     newStubWithdrawalRepo(records...),
		students: newStubStudentRepo(activeStudent(7)),
		cache:    newMemoryCache(),
		metrics:  NewMetricsService(),
		audit:    &stubAuditRepo{},
	}
	h.repo.students = h.students
	cache := NewCacheService(h.cache, h.metrics, time.Minute, zap.NewNop(), true)
	audit := NewAuditService(h.audit, jobs.QueueConfig{}, zap.NewNop()).WithClock(fixedClock)
	h.svc = NewWithdrawalService(h.repo, h.students, cache, h.metrics, audit, nil, zap.NewNop()).WithClock(fixedClock)
	return h
}

func errorCode(t *testing.T, err error) string {
	t.Helper()
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr), "expected app error, got %v", err)
	return appErr.Code
}

func TestWithdrawalServiceCreate(t *testing.T) {
	h := newWithdrawalHarness()
	actor := models.Int64Ptr(3)

	record, err := h.svc.Create(context.Background(), CreateWithdrawalRequest{
		StudentID:         7,
		Reason:            models.WithdrawalReasonTransfer,
		WithdrawalDate:    time.Date(2026, time.March, 12, 0, 0, 0, 0, time.UTC),
		DestinationSchool: strPtr("Lincoln High"),
	}, actor)
	require.NoError(t, err)

	assert.Equal(t, int64(101), record.ID)
	assert.Equal(t, "WD-2026-000001", record.WithdrawalNumber)
	assert.Equal(t, models.WithdrawalStatusDraft, record.Status)
	assert.Equal(t, models.WithdrawalClearanceItemCount, record.TotalItems)
	assert.Zero(t, record.ClearedItems)
	assert.Equal(t, fixedNow, record.CreatedAt)
	assert.Equal(t, actor, record.CreatedBy)
	assert.Equal(t, []string{models.AuditActionCreate}, h.audit.actions())
}

func TestWithdrawalServiceCreateRequiresEnrolledStudent(t *testing.T) {
	h := newWithdrawalHarness()
	graduated := activeStudent(8)
	graduated.Status = models.StudentStatusGraduated
	h.students.students[8] = graduated

	_, err := h.svc.Create(context.Background(), CreateWithdrawalRequest{StudentID: 8, Reason: models.WithdrawalReasonOther, WithdrawalDate: fixedNow}, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, errorCode(t, err))
	assert.Contains(t, err.Error(), "Graduated")

	_, err = h.svc.Create(context.Background(), CreateWithdrawalRequest{StudentID: 99, Reason: models.WithdrawalReasonOther, WithdrawalDate: fixedNow}, nil)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestWithdrawalServiceCreateValidatesRequest(t *testing.T) {
	h := newWithdrawalHarness()

	_, err := h.svc.Create(context.Background(), CreateWithdrawalRequest{StudentID: 7, Reason: "MOVED_AWAY", WithdrawalDate: fixedNow}, nil)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = h.svc.Create(context.Background(), CreateWithdrawalRequest{
		StudentID:      7,
		Reason:         models.WithdrawalReasonMedical,
		WithdrawalDate: fixedNow,
		EffectiveDate:  dayPtr(2026, time.April, 1),
		ExpirationDate: dayPtr(2026, time.March, 1),
	}, nil)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Empty(t, h.repo.records)
}

func TestWithdrawalServiceListRejectsUnknownStatus(t *testing.T) {
	h := newWithdrawalHarness(withdrawalFixture(1, models.WithdrawalStatusDraft, 0))

	_, _, err := h.svc.List(context.Background(), models.WithdrawalFilter{Status: []models.WithdrawalStatus{"ARCHIVED"}})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	records, page, err := h.svc.List(context.Background(), models.WithdrawalFilter{PageSize: 500})
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.PageSize)
	assert.Equal(t, 1, page.TotalCount)
}

func TestWithdrawalServiceUpdateChecklistOpensClearance(t *testing.T) {
	h := newWithdrawalHarness(withdrawalFixture(1, models.WithdrawalStatusDraft, 0))

	record, err := h.svc.UpdateChecklist(context.Background(), 1, ChecklistUpdateRequest{Items: map[string]bool{"fees_paid": true, "locker_cleared": false}}, models.Int64Ptr(4))
	require.NoError(t, err)

	assert.Equal(t, models.WithdrawalStatusPendingClearance, record.Status)
	assert.Equal(t, 1, record.ClearedItems)
	require.NotNil(t, record.LockerCleared)
	assert.False(t, *record.LockerCleared)
	assert.Equal(t, fixedNow, record.UpdatedAt)

	snap := h.metrics.Snapshot()
	assert.Equal(t, uint64(1), snap.ChecklistUpdates)
	assert.Equal(t, uint64(1), snap.Transitions)
	assert.Contains(t, h.cache.deleted, "withdrawals:summary:1")
	assert.Equal(t, []string{models.AuditActionChecklist}, h.audit.actions())
}

func TestWithdrawalServiceUpdateChecklistClearsAndReopens(t *testing.T) {
	h := newWithdrawalHarness(withdrawalFixture(1, models.WithdrawalStatusPendingClearance, 23))
	last := models.ClearanceKeys()[23]

	record, err := h.svc.UpdateChecklist(context.Background(), 1, ChecklistUpdateRequest{Items: map[string]bool{last: true}}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalStatusCleared, record.Status)
	assert.True(t, record.AllCleared)

	record, err = h.svc.UpdateChecklist(context.Background(), 1, ChecklistUpdateRequest{Items: map[string]bool{"fees_paid": false}}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalStatusPendingClearance, record.Status)
	assert.False(t, record.AllCleared)
	assert.Equal(t, 23, record.ClearedItems)
}

func TestWithdrawalServiceUpdateChecklistFromDraftToCleared(t *testing.T) {
	h := newWithdrawalHarness(withdrawalFixture(1, models.WithdrawalStatusDraft, 0))
	items := map[string]bool{}
	for _, key := range models.ClearanceKeys() {
		items[key] = true
	}

	record, err := h.svc.UpdateChecklist(context.Background(), 1, ChecklistUpdateRequest{Items: items}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalStatusCleared, record.Status)
	assert.Equal(t, uint64(2), h.metrics.Snapshot().Transitions)
}

func TestWithdrawalServiceUpdateChecklistRejects(t *testing.T) {
	h := newWithdrawalHarness(
		withdrawalFixture(1, models.WithdrawalStatusDraft, 0),
		withdrawalFixture(2, models.WithdrawalStatusCancelled, 0),
	)

	_, err := h.svc.UpdateChecklist(context.Background(), 1, ChecklistUpdateRequest{Items: map[string]bool{"pet_returned": true}}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Contains(t, err.Error(), "pet_returned")

	_, err = h.svc.UpdateChecklist(context.Background(), 2, ChecklistUpdateRequest{Items: map[string]bool{"fees_paid": true}}, nil)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, errorCode(t, err))

	_, err = h.svc.UpdateChecklist(context.Background(), 1, ChecklistUpdateRequest{}, nil)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = h.svc.UpdateChecklist(context.Background(), 404, ChecklistUpdateRequest{Items: map[string]bool{"fees_paid": true}}, nil)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	assert.Zero(t, h.repo.updates)
}

func TestWithdrawalServiceTransitionGuards(t *testing.T) {
	h := newWithdrawalHarness(
		withdrawalFixture(1, models.WithdrawalStatusPendingClearance, 20),
		withdrawalFixture(2, models.WithdrawalStatusDraft, 0),
	)

	_, err := h.svc.Transition(context.Background(), 1, TransitionRequest{Status: models.WithdrawalStatusCleared}, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, errorCode(t, err))
	assert.Contains(t, err.Error(), "4 clearance items outstanding")

	_, err = h.svc.Transition(context.Background(), 2, TransitionRequest{Status: models.WithdrawalStatusCompleted}, nil)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, errorCode(t, err))

	_, err = h.svc.Transition(context.Background(), 2, TransitionRequest{Status: "SHELVED"}, nil)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestWithdrawalServiceCompleteMarksStudent(t *testing.T) {
	cleared := withdrawalFixture(1, models.WithdrawalStatusCleared, models.WithdrawalClearanceItemCount)
	transfer := withdrawalFixture(2, models.WithdrawalStatusCleared, models.WithdrawalClearanceItemCount)
	transfer.Reason = models.WithdrawalReasonTransfer
	transfer.StudentID = 8
	h := newWithdrawalHarness(cleared, transfer)
	h.students.students[8] = activeStudent(8)

	record, err := h.svc.Transition(context.Background(), 1, TransitionRequest{Status: models.WithdrawalStatusCompleted}, models.Int64Ptr(2))
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalStatusCompleted, record.Status)
	require.NotNil(t, record.CompletedAt)
	assert.Equal(t, fixedNow, *record.CompletedAt)
	assert.Equal(t, models.StudentStatusWithdrawn, h.students.statuses[7])

	_, err = h.svc.Transition(context.Background(), 2, TransitionRequest{Status: models.WithdrawalStatusCompleted}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StudentStatusTransferred, h.students.statuses[8])
	assert.Equal(t, models.WithdrawalStatusCompleted, h.repo.records[2].Status)
}

func TestWithdrawalServiceCompleteLeavesCaseClearedWhenStudentUpdateFails(t *testing.T) {
	h := newWithdrawalHarness(withdrawalFixture(1, models.WithdrawalStatusCleared, models.WithdrawalClearanceItemCount))
	h.students.updateErr = errors.New("db down")

	_, err := h.svc.Transition(context.Background(), 1, TransitionRequest{Status: models.WithdrawalStatusCompleted}, nil)
	assert.Equal(t, appErrors.ErrInternal.Code, errorCode(t, err))

	stored := h.repo.records[1]
	assert.Equal(t, models.WithdrawalStatusCleared, stored.Status)
	assert.Nil(t, stored.CompletedAt)
	assert.NotContains(t, h.students.statuses, int64(7))
	assert.Empty(t, h.audit.actions())

	h.students.updateErr = nil
	record, err := h.svc.Transition(context.Background(), 1, TransitionRequest{Status: models.WithdrawalStatusCompleted}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalStatusCompleted, record.Status)
	assert.Equal(t, models.StudentStatusWithdrawn, h.students.statuses[7])
}

func TestWithdrawalServiceGetByNumber(t *testing.T) {
	h := newWithdrawalHarness(withdrawalFixture(3, models.WithdrawalStatusDraft, 0))

	record, err := h.svc.GetByNumber(context.Background(), " wd-2026-000003 ")
	require.NoError(t, err)
	assert.Equal(t, int64(3), record.ID)

	_, err = h.svc.GetByNumber(context.Background(), "WD-2026-999999")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestWithdrawalServiceAllowedTransitions(t *testing.T) {
	h := newWithdrawalHarness(withdrawalFixture(1, models.WithdrawalStatusCleared, models.WithdrawalClearanceItemCount))

	next, err := h.svc.AllowedTransitions(context.Background(), 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []models.WithdrawalStatus{models.WithdrawalStatusCompleted, models.WithdrawalStatusPendingClearance, models.WithdrawalStatusCancelled}, next)
}

func TestWithdrawalServiceSummaryUsesCache(t *testing.T) {
	h := newWithdrawalHarness(withdrawalFixture(1, models.WithdrawalStatusPendingClearance, 12))

	summary, hit, err := h.svc.Summary(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 12, summary.Completion.Completed)
	assert.InDelta(t, 50.0, summary.Percentage, 0.001)
	assert.Len(t, summary.Categories, 5)
	assert.True(t, summary.Valid)

	cached, hit, err := h.svc.Summary(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, summary.WithdrawalNumber, cached.WithdrawalNumber)

	_, err = h.svc.UpdateChecklist(context.Background(), 1, ChecklistUpdateRequest{Items: map[string]bool{"parent_notified": true}}, nil)
	require.NoError(t, err)
	_, hit, err = h.svc.Summary(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, hit)
}

func strPtr(s string) *string { return &s }
