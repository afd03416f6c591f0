package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/michaelkatsweb/Heronix-Application-sub017/internal/models"
	"github.com/michaelkatsweb/Heronix-Application-sub017/internal/service"
	appErrors "github.com/michaelkatsweb/Heronix-Application-sub017/pkg/errors"
	"github.com/michaelkatsweb/Heronix-Application-sub017/pkg/response"
)

type lockUseCases interface {
	Acquire(ctx context.Context, req service.AcquireLockRequest, holder int64) (*models.RecordLock, error)
	Release(ctx context.Context, token string, actor int64, override bool) error
}

// LockHandler manages edit lock requests.
type LockHandler struct {
	locks lockUseCases
}

// NewLockHandler constructs LockHandler.
func NewLockHandler(locks lockUseCases) *LockHandler {
	return &LockHandler{locks: locks}
}

// Acquire godoc
// @Summary Request an edit lock
// @Tags Locks
// @Accept json
// @Produce json
// @Param payload body service.AcquireLockRequest true "Lock payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /locks [post]
func (h *LockHandler) Acquire(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.AcquireLockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	lock, err := h.locks.Acquire(c.Request.Context(), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, lock)
}

// Release godoc
// @Summary Release an edit lock
// @Tags Locks
// @Param token path string true "Lock token"
// @Param override query bool false "Admin override"
// @Success 204
// @Router /locks/{token} [delete]
func (h *LockHandler) Release(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	override, _ := strconv.ParseBool(c.Query("override"))
	if override && claims.Role != models.RoleAdmin {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "only administrators can override a lock"))
		return
	}
	if err := h.locks.Release(c.Request.Context(), c.Param("token"), claims.UserID, override); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
