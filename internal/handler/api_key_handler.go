package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/michaelkatsweb/Heronix-Application-sub017/internal/service"
	"github.com/michaelkatsweb/Heronix-Application-sub017/pkg/response"
)

type apiKeyUseCases interface {
	Issue(ctx context.Context, req service.IssueAPIKeyRequest, actor *int64) (*service.IssuedAPIKey, error)
	Revoke(ctx context.Context, id int64, actor *int64) error
}

// APIKeyHandler lets administrators manage integration keys.
type APIKeyHandler struct {
	keys apiKeyUseCases
}

// NewAPIKeyHandler constructs APIKeyHandler.
func NewAPIKeyHandler(keys apiKeyUseCases) *APIKeyHandler {
	return &APIKeyHandler{keys: keys}
}

// Issue godoc
// @Summary Issue an integration key
// @Description The raw key is only returned in this response.
// @Tags API Keys
// @Accept json
// @Produce json
// @Param payload body service.IssueAPIKeyRequest true "Key payload"
// @Success 201 {object} response.Envelope
// @Router /api-keys [post]
func (h *APIKeyHandler) Issue(c *gin.Context) {
	var req service.IssueAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	issued, err := h.keys.Issue(c.Request.Context(), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, issued)
}

// Revoke godoc
// @Summary Revoke an integration key
// @Tags API Keys
// @Param id path int true "Key ID"
// @Success 204
// @Router /api-keys/{id} [delete]
func (h *APIKeyHandler) Revoke(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.keys.Revoke(c.Request.Context(), id, actorFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
