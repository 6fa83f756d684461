package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/directory"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/dto"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/middleware"
	appErrors "github.com/manyap062/L2L-Independent-Study-Demo-sub000/pkg/errors"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/pkg/response"
)

type mentorService interface {
	List(ctx context.Context, userID string, q dto.MentorListQuery) ([]directory.Mentor, *response.Pagination, bool, error)
	Get(ctx context.Context, id int) (*directory.Mentor, error)
	Departments(ctx context.Context) []dto.DepartmentResponse
	Bookmarks(ctx context.Context, userID string) ([]int, error)
	ToggleBookmark(ctx context.Context, userID string, mentorID int) (*dto.BookmarkToggleResponse, error)
}

// MentorHandler serves the mentor directory.
type MentorHandler struct {
	service mentorService
}

// NewMentorHandler constructs the handler.
func NewMentorHandler(service mentorService) *MentorHandler {
	return &MentorHandler{service: service}
}

// List godoc
// @Summary Search the mentor directory
// @Tags Mentors
// @Produce json
// @Param department query []string false "Department ids" collectionFormat(multi)
// @Param interest query []string false "Sub-interests, used only with departments" collectionFormat(multi)
// @Param q query string false "Case-insensitive text search"
// @Param sort query string false "match|experience|name"
// @Param bookmarked query bool false "Only bookmarked mentors"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /mentors [get]
func (h *MentorHandler) List(c *gin.Context) {
	var q dto.MentorListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid mentor query"))
		return
	}
	userID := ""
	if claims := claimsFromContext(c); claims != nil {
		userID = claims.UserID
	}

	mentors, pagination, hit, err := h.service.List(c.Request.Context(), userID, q)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	middleware.SetMeta(c, "bookmarked_only", q.BookmarkedOnly)
	response.JSON(c, http.StatusOK, mentors, pagination, middleware.ResponseMeta(c))
}

// Get godoc
// @Summary Get a mentor
// @Tags Mentors
// @Produce json
// @Param id path int true "Mentor ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /mentors/{id} [get]
func (h *MentorHandler) Get(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	mentor, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mentor, nil)
}

// Departments godoc
// @Summary List departments with icons and mentor counts
// @Tags Mentors
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /mentors/departments [get]
func (h *MentorHandler) Departments(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Departments(c.Request.Context()), nil)
}

// Bookmarks godoc
// @Summary List the caller's bookmarked mentor ids
// @Tags Mentors
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /mentors/bookmarks [get]
func (h *MentorHandler) Bookmarks(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	ids, err := h.service.Bookmarks(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ids, nil)
}

// ToggleBookmark godoc
// @Summary Toggle a mentor bookmark
// @Tags Mentors
// @Produce json
// @Param id path int true "Mentor ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /mentors/{id}/bookmark [post]
func (h *MentorHandler) ToggleBookmark(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	res, err := h.service.ToggleBookmark(c.Request.Context(), claims.UserID, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}
