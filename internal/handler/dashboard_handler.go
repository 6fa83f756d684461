package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/dto"
	appErrors "github.com/manyap062/L2L-Independent-Study-Demo-sub000/pkg/errors"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/pkg/response"
)

type dashboardService interface {
	Summary(ctx context.Context, userID string) (*dto.DashboardSummary, error)
}

// DashboardHandler wires dashboard service to HTTP endpoints.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Summary godoc
// @Summary Milestone progress for the student dashboard
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/summary [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	summary, err := h.service.Summary(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}
