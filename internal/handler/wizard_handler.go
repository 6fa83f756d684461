package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/dto"
	appErrors "github.com/manyap062/L2L-Independent-Study-Demo-sub000/pkg/errors"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/pkg/response"
)

type wizardService interface {
	Catalog() dto.WizardCatalogResponse
	Start(ctx context.Context, userID string) (*dto.WizardSessionResponse, error)
	Get(ctx context.Context, userID, id string) (*dto.WizardSessionResponse, error)
	Apply(ctx context.Context, userID, id string, req dto.WizardEventRequest) (*dto.WizardSessionResponse, error)
	Restart(ctx context.Context, userID, id string) (*dto.WizardSessionResponse, error)
	Discard(ctx context.Context, userID, id string) error
	Proposal(ctx context.Context, userID, id string) ([]byte, string, error)
	PeerInvite(ctx context.Context, userID, id string, req dto.PeerInviteRequest) (*dto.PeerInviteResponse, error)
	PeerInviteQR(ctx context.Context, userID, id, email string) ([]byte, error)
}

// WizardHandler drives Project Builder sessions.
type WizardHandler struct {
	service wizardService
}

// NewWizardHandler constructs the handler.
func NewWizardHandler(service wizardService) *WizardHandler {
	return &WizardHandler{service: service}
}

// Catalog godoc
// @Summary Guided-step choices
// @Tags Project Builder
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /wizard/catalog [get]
func (h *WizardHandler) Catalog(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Catalog(), nil)
}

// Start godoc
// @Summary Start a Project Builder session
// @Tags Project Builder
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /wizard/sessions [post]
func (h *WizardHandler) Start(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	session, err := h.service.Start(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session)
}

// Get godoc
// @Summary Get a session
// @Tags Project Builder
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /wizard/sessions/{id} [get]
func (h *WizardHandler) Get(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	session, err := h.service.Get(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// Event godoc
// @Summary Apply an event to a session
// @Tags Project Builder
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.WizardEventRequest true "Event"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /wizard/sessions/{id}/events [post]
func (h *WizardHandler) Event(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var req dto.WizardEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid wizard event"))
		return
	}
	session, err := h.service.Apply(c.Request.Context(), claims.UserID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// Restart godoc
// @Summary Restart a session from the entry screen with empty form data
// @Tags Project Builder
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /wizard/sessions/{id}/restart [post]
func (h *WizardHandler) Restart(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	session, err := h.service.Restart(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// Discard godoc
// @Summary Delete a session
// @Tags Project Builder
// @Param id path string true "Session ID"
// @Success 204
// @Router /wizard/sessions/{id} [delete]
func (h *WizardHandler) Discard(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	if err := h.service.Discard(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Proposal godoc
// @Summary Download the proposal draft as PDF
// @Tags Project Builder
// @Produce application/pdf
// @Param id path string true "Session ID"
// @Success 200 {file} binary
// @Router /wizard/sessions/{id}/proposal [get]
func (h *WizardHandler) Proposal(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	body, filename, err := h.service.Proposal(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, filename, "application/pdf", body)
}

// PeerInvite godoc
// @Summary Create a peer-review invite link
// @Tags Project Builder
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.PeerInviteRequest true "Reviewer"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /wizard/sessions/{id}/peer-invite [post]
func (h *WizardHandler) PeerInvite(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var req dto.PeerInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid invite payload"))
		return
	}
	invite, err := h.service.PeerInvite(c.Request.Context(), claims.UserID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, invite, nil)
}

// PeerInviteQR godoc
// @Summary QR code PNG for a peer-review invite
// @Tags Project Builder
// @Produce image/png
// @Param id path string true "Session ID"
// @Param email query string true "Reviewer email"
// @Success 200 {file} binary
// @Router /wizard/sessions/{id}/peer-invite/qr [get]
func (h *WizardHandler) PeerInviteQR(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	png, err := h.service.PeerInviteQR(c.Request.Context(), claims.UserID, c.Param("id"), c.Query("email"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
