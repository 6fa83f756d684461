package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/dto"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/models"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/service"
	appErrors "github.com/manyap062/L2L-Independent-Study-Demo-sub000/pkg/errors"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/pkg/response"
)

type exportService interface {
	Request(ctx context.Context, userID string, req dto.ExportRequest) (*models.ExportJob, error)
	Status(ctx context.Context, userID, id string) (*models.ExportJob, error)
	Download(ctx context.Context, token string) (*service.Download, error)
}

// ExportHandler exposes the completed-work export.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(service exportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// Request godoc
// @Summary Queue a completed-work export
// @Tags Exports
// @Accept json
// @Produce json
// @Param payload body dto.ExportRequest true "Format"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /exports/completed-work [post]
func (h *ExportHandler) Request(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export payload"))
		return
	}
	job, err := h.service.Request(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, job, nil)
}

// Status godoc
// @Summary Export job status
// @Tags Exports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /exports/{id} [get]
func (h *ExportHandler) Status(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	job, err := h.service.Status(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job, nil)
}

// Download godoc
// @Summary Download a finished export via its signed token
// @Tags Exports
// @Produce octet-stream
// @Param token path string true "Signed token"
// @Success 200 {file} binary
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /exports/download/{token} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	dl, err := h.service.Download(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, dl.Filename, dl.ContentType, dl.Body)
}
