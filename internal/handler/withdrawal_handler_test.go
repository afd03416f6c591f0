package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelkatsweb/Heronix-Application-sub017/internal/middleware"
	"github.com/michaelkatsweb/Heronix-Application-sub017/internal/models"
	"github.com/michaelkatsweb/Heronix-Application-sub017/internal/service"
	appErrors "github.com/michaelkatsweb/Heronix-Application-sub017/pkg/errors"
	"github.com/michaelkatsweb/Heronix-Application-sub017/pkg/export"
)

type withdrawalServiceMock struct {
	record      *models.WithdrawalRecord
	filter      models.WithdrawalFilter
	transition  service.TransitionRequest
	actor       *int64
	summaryHit  bool
	transitionE error
}

func (m *withdrawalServiceMock) Create(ctx context.Context, req service.CreateWithdrawalRequest, actor *int64) (*models.WithdrawalRecord, error) {
	m.actor = actor
	return &models.WithdrawalRecord{ID: 1, StudentID: req.StudentID, Status: models.WithdrawalStatusDraft}, nil
}

func (m *withdrawalServiceMock) Get(ctx context.Context, id int64) (*models.WithdrawalRecord, error) {
	if m.record == nil || m.record.ID != id {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "withdrawal not found")
	}
	return m.record, nil
}

func (m *withdrawalServiceMock) GetByNumber(ctx context.Context, number string) (*models.WithdrawalRecord, error) {
	if m.record == nil || m.record.WithdrawalNumber != number {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "withdrawal not found")
	}
	return m.record, nil
}

func (m *withdrawalServiceMock) List(ctx context.Context, filter models.WithdrawalFilter) ([]models.WithdrawalRecord, *models.Pagination, error) {
	m.filter = filter
	return []models.WithdrawalRecord{}, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize}, nil
}

func (m *withdrawalServiceMock) UpdateChecklist(ctx context.Context, id int64, req service.ChecklistUpdateRequest, actor *int64) (*models.WithdrawalRecord, error) {
	return m.record, nil
}

func (m *withdrawalServiceMock) Transition(ctx context.Context, id int64, req service.TransitionRequest, actor *int64) (*models.WithdrawalRecord, error) {
	m.transition = req
	if m.transitionE != nil {
		return nil, m.transitionE
	}
	return m.record, nil
}

func (m *withdrawalServiceMock) AllowedTransitions(ctx context.Context, id int64) ([]models.WithdrawalStatus, error) {
	return []models.WithdrawalStatus{models.WithdrawalStatusPendingClearance, models.WithdrawalStatusCancelled}, nil
}

func (m *withdrawalServiceMock) Summary(ctx context.Context, id int64) (*models.WithdrawalSummary, bool, error) {
	return &models.WithdrawalSummary{ID: id}, m.summaryHit, nil
}

type exporterMock struct {
	format export.Format
}

func (m *exporterMock) WithdrawalClearance(ctx context.Context, id int64, format export.Format, actor *int64) (*service.ExportResult, error) {
	m.format = format
	return &service.ExportResult{Token: "tok", URL: "/api/v1/exports/tok", Format: format}, nil
}

type historyMock struct{}

func (historyMock) History(ctx context.Context, resource string, resourceID int64, limit int) ([]models.AuditLog, error) {
	return []models.AuditLog{{Action: models.AuditActionCreate, Resource: resource}}, nil
}

func newTestContext(method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestWithdrawalHandlerListParsesFilters(t *testing.T) {
	svc := &withdrawalServiceMock{}
	handler := NewWithdrawalHandler(svc, &exporterMock{}, historyMock{})
	c, w := newTestContext(http.MethodGet, "/withdrawals?student_id=7&status=draft,pending_clearance&reason=transfer&from=2026-01-01&page=2&limit=5", nil)

	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.filter.StudentID)
	assert.Equal(t, int64(7), *svc.filter.StudentID)
	assert.Equal(t, []models.WithdrawalStatus{models.WithdrawalStatusDraft, models.WithdrawalStatusPendingClearance}, svc.filter.Status)
	assert.Equal(t, models.WithdrawalReason("TRANSFER"), svc.filter.Reason)
	require.NotNil(t, svc.filter.FromDate)
	assert.Nil(t, svc.filter.ToDate)
	assert.Equal(t, 2, svc.filter.Page)
	assert.Equal(t, 5, svc.filter.PageSize)
}

func TestWithdrawalHandlerListRejectsBadDate(t *testing.T) {
	handler := NewWithdrawalHandler(&withdrawalServiceMock{}, &exporterMock{}, historyMock{})
	c, w := newTestContext(http.MethodGet, "/withdrawals?from=03/01/2026", nil)

	handler.List(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWithdrawalHandlerCreateUsesActor(t *testing.T) {
	svc := &withdrawalServiceMock{}
	handler := NewWithdrawalHandler(svc, &exporterMock{}, historyMock{})
	body, _ := json.Marshal(map[string]interface{}{"student_id": 7, "reason": "RELOCATION", "withdrawal_date": "2026-03-20T00:00:00Z"})
	c, w := newTestContext(http.MethodPost, "/withdrawals", body)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: 10, Role: models.RoleRegistrar})

	handler.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, svc.actor)
	assert.Equal(t, int64(10), *svc.actor)
}

func TestWithdrawalHandlerCreateInvalidBody(t *testing.T) {
	handler := NewWithdrawalHandler(&withdrawalServiceMock{}, &exporterMock{}, historyMock{})
	c, w := newTestContext(http.MethodPost, "/withdrawals", []byte(`invalid`))

	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWithdrawalHandlerGetIncludesAllowedTransitions(t *testing.T) {
	svc := &withdrawalServiceMock{record: &models.WithdrawalRecord{ID: 4, WithdrawalNumber: "WD-2026-000004", Status: models.WithdrawalStatusDraft}}
	handler := NewWithdrawalHandler(svc, &exporterMock{}, historyMock{})

	c, w := newTestContext(http.MethodGet, "/withdrawals/4", nil)
	c.Params = gin.Params{{Key: "id", Value: "4"}}
	handler.Get(c)
	require.Equal(t, http.StatusOK, w.Code)
	meta := decodeEnvelope(t, w)["meta"].(map[string]interface{})
	assert.Equal(t, []interface{}{"PENDING_CLEARANCE", "CANCELLED"}, meta["allowed_transitions"])

	c, w = newTestContext(http.MethodGet, "/withdrawals/WD-2026-000004", nil)
	c.Params = gin.Params{{Key: "id", Value: "WD-2026-000004"}}
	handler.Get(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = newTestContext(http.MethodGet, "/withdrawals/abc", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	handler.Get(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newTestContext(http.MethodGet, "/withdrawals/9", nil)
	c.Params = gin.Params{{Key: "id", Value: "9"}}
	handler.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWithdrawalHandlerSummaryReportsCache(t *testing.T) {
	handler := NewWithdrawalHandler(&withdrawalServiceMock{summaryHit: true}, &exporterMock{}, historyMock{})
	c, w := newTestContext(http.MethodGet, "/withdrawals/4/summary", nil)
	c.Params = gin.Params{{Key: "id", Value: "4"}}

	handler.Summary(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	meta := decodeEnvelope(t, w)["meta"].(map[string]interface{})
	assert.Equal(t, true, meta["cache_hit"])
}

func TestWithdrawalHandlerTransitionNormalisesStatus(t *testing.T) {
	svc := &withdrawalServiceMock{record: &models.WithdrawalRecord{ID: 4}}
	handler := NewWithdrawalHandler(svc, &exporterMock{}, historyMock{})
	c, w := newTestContext(http.MethodPost, "/withdrawals/4/transition", []byte(`{"status":"cancelled"}`))
	c.Params = gin.Params{{Key: "id", Value: "4"}}

	handler.Transition(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.WithdrawalStatusCancelled, svc.transition.Status)

	svc.transitionE = appErrors.Clone(appErrors.ErrInvalidTransition, "cannot move")
	c, w = newTestContext(http.MethodPost, "/withdrawals/4/transition", []byte(`{"status":"completed"}`))
	c.Params = gin.Params{{Key: "id", Value: "4"}}
	handler.Transition(c)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestWithdrawalHandlerExportFormats(t *testing.T) {
	exporter := &exporterMock{}
	handler := NewWithdrawalHandler(&withdrawalServiceMock{}, exporter, historyMock{})

	c, w := newTestContext(http.MethodGet, "/withdrawals/4/export?format=PDF", nil)
	c.Params = gin.Params{{Key: "id", Value: "4"}}
	handler.Export(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, export.FormatPDF, exporter.format)

	c, w = newTestContext(http.MethodGet, "/withdrawals/4/export?format=xlsx", nil)
	c.Params = gin.Params{{Key: "id", Value: "4"}}
	handler.Export(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWithdrawalHandlerHistory(t *testing.T) {
	handler := NewWithdrawalHandler(&withdrawalServiceMock{}, &exporterMock{}, historyMock{})
	c, w := newTestContext(http.MethodGet, "/withdrawals/4/history", nil)
	c.Params = gin.Params{{Key: "id", Value: "4"}}

	handler.History(c)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w)["data"].([]interface{})
	assert.Len(t, data, 1)
}
