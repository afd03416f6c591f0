package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/michaelkatsweb/Heronix-Application-sub017/internal/middleware"
	"github.com/michaelkatsweb/Heronix-Application-sub017/internal/models"
	"github.com/michaelkatsweb/Heronix-Application-sub017/internal/service"
	appErrors "github.com/michaelkatsweb/Heronix-Application-sub017/pkg/errors"
	"github.com/michaelkatsweb/Heronix-Application-sub017/pkg/export"
	"github.com/michaelkatsweb/Heronix-Application-sub017/pkg/response"
)

type withdrawalUseCases interface {
	Create(ctx context.Context, req service.CreateWithdrawalRequest, actor *int64) (*models.WithdrawalRecord, error)
	Get(ctx context.Context, id int64) (*models.WithdrawalRecord, error)
	GetByNumber(ctx context.Context, number string) (*models.WithdrawalRecord, error)
	List(ctx context.Context, filter models.WithdrawalFilter) ([]models.WithdrawalRecord, *models.Pagination, error)
	UpdateChecklist(ctx context.Context, id int64, req service.ChecklistUpdateRequest, actor *int64) (*models.WithdrawalRecord, error)
	Transition(ctx context.Context, id int64, req service.TransitionRequest, actor *int64) (*models.WithdrawalRecord, error)
	AllowedTransitions(ctx context.Context, id int64) ([]models.WithdrawalStatus, error)
	Summary(ctx context.Context, id int64) (*models.WithdrawalSummary, bool, error)
}

type clearanceExporter interface {
	WithdrawalClearance(ctx context.Context, id int64, format export.Format, actor *int64) (*service.ExportResult, error)
}

type auditHistory interface {
	History(ctx context.Context, resource string, resourceID int64, limit int) ([]models.AuditLog, error)
}

// WithdrawalHandler exposes the withdrawal clearance workflow.
type WithdrawalHandler struct {
	withdrawals withdrawalUseCases
	exports     clearanceExporter
	audit       auditHistory
}

// NewWithdrawalHandler constructs WithdrawalHandler.
func NewWithdrawalHandler(withdrawals withdrawalUseCases, exports clearanceExporter, audit auditHistory) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawals: withdrawals, exports: exports, audit: audit}
}

// List godoc
// @Summary List withdrawals
// @Tags Withdrawals
// @Produce json
// @Param student_id query int false "Filter by student"
// @Param status query string false "Comma separated statuses"
// @Param reason query string false "Withdrawal reason"
// @Param from query string false "Withdrawal date from (YYYY-MM-DD)"
// @Param to query string false "Withdrawal date to (YYYY-MM-DD)"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /withdrawals [get]
func (h *WithdrawalHandler) List(c *gin.Context) {
	var filter models.WithdrawalFilter
	var err error
	if filter.StudentID, err = optionalQueryID(c, "student_id"); err != nil {
		response.Error(c, err)
		return
	}
	if filter.FromDate, err = optionalQueryDate(c, "from"); err != nil {
		response.Error(c, err)
		return
	}
	if filter.ToDate, err = optionalQueryDate(c, "to"); err != nil {
		response.Error(c, err)
		return
	}
	for _, s := range splitQuery(c, "status") {
		filter.Status = append(filter.Status, models.WithdrawalStatus(strings.ToUpper(s)))
	}
	filter.Reason = models.WithdrawalReason(strings.ToUpper(c.Query("reason")))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	records, pagination, err := h.withdrawals.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, pagination)
}

// Create godoc
// @Summary Open a withdrawal case
// @Tags Withdrawals
// @Accept json
// @Produce json
// @Param payload body service.CreateWithdrawalRequest true "Withdrawal payload"
// @Success 201 {object} response.Envelope
// @Router /withdrawals [post]
func (h *WithdrawalHandler) Create(c *gin.Context) {
	var req service.CreateWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	record, err := h.withdrawals.Create(c.Request.Context(), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// Get godoc
// @Summary Get withdrawal detail
// @Tags Withdrawals
// @Produce json
// @Param id path string true "Withdrawal ID or number (WD-2026-000001)"
// @Success 200 {object} response.Envelope
// @Router /withdrawals/{id} [get]
func (h *WithdrawalHandler) Get(c *gin.Context) {
	var (
		record *models.WithdrawalRecord
		err    error
	)
	if raw := c.Param("id"); strings.HasPrefix(strings.ToUpper(raw), "WD-") {
		record, err = h.withdrawals.GetByNumber(c.Request.Context(), raw)
	} else {
		var id int64
		if id, err = pathID(c, "id"); err == nil {
			record, err = h.withdrawals.Get(c.Request.Context(), id)
		}
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	next, err := h.withdrawals.AllowedTransitions(c.Request.Context(), record.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, "allowed_transitions", next)
	response.JSON(c, http.StatusOK, record, nil, middleware.ExtractMeta(c))
}

// Summary godoc
// @Summary Withdrawal clearance summary
// @Tags Withdrawals
// @Produce json
// @Param id path int true "Withdrawal ID"
// @Success 200 {object} response.Envelope
// @Router /withdrawals/{id}/summary [get]
func (h *WithdrawalHandler) Summary(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	summary, hit, err := h.withdrawals.Summary(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, summary, nil, middleware.ExtractMeta(c))
}

// UpdateChecklist godoc
// @Summary Tick or untick clearance items
// @Tags Withdrawals
// @Accept json
// @Produce json
// @Param id path int true "Withdrawal ID"
// @Param payload body service.ChecklistUpdateRequest true "Item flags by key"
// @Success 200 {object} response.Envelope
// @Router /withdrawals/{id}/checklist [patch]
func (h *WithdrawalHandler) UpdateChecklist(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.ChecklistUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	record, err := h.withdrawals.UpdateChecklist(c.Request.Context(), id, req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, record)
}

// Transition godoc
// @Summary Move a withdrawal to a new status
// @Tags Withdrawals
// @Accept json
// @Produce json
// @Param id path int true "Withdrawal ID"
// @Param payload body service.TransitionRequest true "Target status"
// @Success 200 {object} response.Envelope
// @Router /withdrawals/{id}/transition [post]
func (h *WithdrawalHandler) Transition(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	req.Status = models.WithdrawalStatus(strings.ToUpper(string(req.Status)))
	record, err := h.withdrawals.Transition(c.Request.Context(), id, req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, record)
}

// Export godoc
// @Summary Generate the clearance sheet
// @Tags Withdrawals
// @Produce json
// @Param id path int true "Withdrawal ID"
// @Param format query string false "csv or pdf"
// @Success 201 {object} response.Envelope
// @Router /withdrawals/{id}/export [get]
func (h *WithdrawalHandler) Export(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	format, err := export.ParseFormat(strings.ToLower(c.Query("format")))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	result, err := h.exports.WithdrawalClearance(c.Request.Context(), id, format, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// History returns the action log for one case.
func (h *WithdrawalHandler) History(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	logs, err := h.audit.History(c.Request.Context(), "withdrawal", id, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, logs)
}
