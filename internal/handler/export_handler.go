package handler

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/michaelkatsweb/Heronix-Application-sub017/pkg/export"
	"github.com/michaelkatsweb/Heronix-Application-sub017/pkg/response"
)

type exportDownloader interface {
	Download(token string) (*os.File, string, export.Format, error)
}

// ExportHandler streams previously generated documents.
type ExportHandler struct {
	exports exportDownloader
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports exportDownloader) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Download godoc
// @Summary Download a generated document
// @Tags Exports
// @Produce octet-stream
// @Param token path string true "Signed download token"
// @Success 200 {file} file
// @Router /exports/{token} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	file, name, format, err := h.exports.Download(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	c.Header("Content-Type", format.ContentType())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Header("Cache-Control", "no-store")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, file)
}
