package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/dto"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/models"
	appErrors "github.com/manyap062/L2L-Independent-Study-Demo-sub000/pkg/errors"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/pkg/response"
)

type milestoneService interface {
	List(ctx context.Context) []models.Milestone
	Get(ctx context.Context, id int) (*models.Milestone, error)
	Update(ctx context.Context, id int, req dto.UpdateMilestoneRequest) (*models.Milestone, error)
	Replace(ctx context.Context, req dto.ReplaceMilestonesRequest) ([]models.Milestone, error)
	Submit(ctx context.Context, id int) (*models.Milestone, error)
	Review(ctx context.Context, id int, req dto.ReviewMilestoneRequest, reviewer string) (*models.Milestone, error)
	PendingReview(ctx context.Context) []models.Milestone
	Reset(ctx context.Context) []models.Milestone
}

// MilestoneHandler serves the shared milestone list to students, mentors and admins.
type MilestoneHandler struct {
	service milestoneService
}

// NewMilestoneHandler constructs the handler.
func NewMilestoneHandler(service milestoneService) *MilestoneHandler {
	return &MilestoneHandler{service: service}
}

// List godoc
// @Summary List milestones
// @Tags Milestones
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /milestones [get]
func (h *MilestoneHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.List(c.Request.Context()), nil)
}

// Get godoc
// @Summary Get a milestone
// @Tags Milestones
// @Produce json
// @Param id path int true "Milestone ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /milestones/{id} [get]
func (h *MilestoneHandler) Get(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	m, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, m, nil)
}

// Update godoc
// @Summary Patch a milestone
// @Tags Milestones
// @Accept json
// @Produce json
// @Param id path int true "Milestone ID"
// @Param payload body dto.UpdateMilestoneRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /milestones/{id} [patch]
func (h *MilestoneHandler) Update(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid milestone payload"))
		return
	}
	m, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, m, nil)
}

// Replace godoc
// @Summary Replace the whole milestone list
// @Tags Milestones
// @Accept json
// @Produce json
// @Param payload body dto.ReplaceMilestonesRequest true "Milestones"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /milestones [put]
func (h *MilestoneHandler) Replace(c *gin.Context) {
	var req dto.ReplaceMilestonesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid milestones payload"))
		return
	}
	list, err := h.service.Replace(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list, nil)
}

// Submit godoc
// @Summary Submit a milestone for mentor review
// @Tags Milestones
// @Produce json
// @Param id path int true "Milestone ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /milestones/{id}/submit [post]
func (h *MilestoneHandler) Submit(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	m, err := h.service.Submit(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, m, nil)
}

// Pending godoc
// @Summary Milestones awaiting review
// @Tags Milestones
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /milestones/pending [get]
func (h *MilestoneHandler) Pending(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.PendingReview(c.Request.Context()), nil)
}

// Review godoc
// @Summary Approve or deny a submitted milestone
// @Tags Milestones
// @Accept json
// @Produce json
// @Param id path int true "Milestone ID"
// @Param payload body dto.ReviewMilestoneRequest true "Decision"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /milestones/{id}/review [post]
func (h *MilestoneHandler) Review(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	var req dto.ReviewMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid review payload"))
		return
	}
	m, err := h.service.Review(c.Request.Context(), id, req, claims.DisplayName())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, m, nil)
}

// Reset godoc
// @Summary Restore the seed milestones
// @Tags Milestones
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /milestones/reset [post]
func (h *MilestoneHandler) Reset(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Reset(c.Request.Context()), nil)
}
