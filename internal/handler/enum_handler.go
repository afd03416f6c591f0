package handler

import (
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/michaelkatsweb/Heronix-Application-sub017/internal/models"
	appErrors "github.com/michaelkatsweb/Heronix-Application-sub017/pkg/errors"
	"github.com/michaelkatsweb/Heronix-Application-sub017/pkg/response"
)

// EnumHandler publishes display metadata for every enumerated field.
type EnumHandler struct {
	catalog map[string][]models.EnumOption
}

// NewEnumHandler constructs EnumHandler.
func NewEnumHandler() *EnumHandler {
	return &EnumHandler{catalog: models.EnumCatalog()}
}

// List returns the names of every published enum.
func (h *EnumHandler) List(c *gin.Context) {
	names := make([]string, 0, len(h.catalog))
	for name := range h.catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	response.OK(c, names)
}

// Get godoc
// @Summary Enum values with labels and colours
// @Tags Enums
// @Produce json
// @Param name path string true "Enum name, e.g. withdrawal-status"
// @Success 200 {object} response.Envelope
// @Router /enums/{name} [get]
func (h *EnumHandler) Get(c *gin.Context) {
	options, ok := h.catalog[c.Param("name")]
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "unknown enum "+c.Param("name")))
		return
	}
	response.OK(c, options)
}
