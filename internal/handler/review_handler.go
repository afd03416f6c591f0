package handler

import (
	"context"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/michaelkatsweb/Heronix-Application-sub017/internal/service"
	"github.com/michaelkatsweb/Heronix-Application-sub017/pkg/response"
)

type reviewBoard interface {
	Board(ctx context.Context, filter service.ReviewFilter) (*service.ReviewBoard, error)
}

// ReviewHandler serves the due-review board.
type ReviewHandler struct {
	reviews reviewBoard
}

// NewReviewHandler constructs ReviewHandler.
func NewReviewHandler(reviews reviewBoard) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// Due godoc
// @Summary Records due for review
// @Tags Reviews
// @Produce json
// @Param types query string false "Comma separated record types"
// @Param include_on_track query bool false "Include items not yet due"
// @Param include_unscheduled query bool false "Include items without a target date"
// @Success 200 {object} response.Envelope
// @Router /reviews/due [get]
func (h *ReviewHandler) Due(c *gin.Context) {
	filter := service.ReviewFilter{}
	for _, t := range splitQuery(c, "types") {
		filter.Types = append(filter.Types, strings.ToLower(t))
	}
	filter.IncludeOnTrack, _ = strconv.ParseBool(c.Query("include_on_track"))
	filter.IncludeUnscheduled, _ = strconv.ParseBool(c.Query("include_unscheduled"))

	board, err := h.reviews.Board(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, board)
}
