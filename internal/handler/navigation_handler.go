package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/dto"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/navigation"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/pkg/response"
)

// NavigationHandler maps client paths onto the three top-level views.
type NavigationHandler struct{}

// NewNavigationHandler constructs the handler.
func NewNavigationHandler() *NavigationHandler {
	return &NavigationHandler{}
}

// Views godoc
// @Summary List top-level views
// @Tags Navigation
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /navigation/views [get]
func (h *NavigationHandler) Views(c *gin.Context) {
	views := navigation.Views()
	out := make([]dto.NavigationViewResponse, 0, len(views))
	for _, v := range views {
		out = append(out, dto.NavigationViewResponse{View: v, Path: navigation.PathForView(v)})
	}
	response.JSON(c, http.StatusOK, out, nil)
}

// Resolve godoc
// @Summary Resolve a path to its view
// @Tags Navigation
// @Produce json
// @Param path query string false "Client path, defaults to /"
// @Success 200 {object} response.Envelope
// @Router /navigation/resolve [get]
func (h *NavigationHandler) Resolve(c *gin.Context) {
	path := c.DefaultQuery("path", "/")
	view := navigation.ViewForPath(path)
	response.JSON(c, http.StatusOK, dto.NavigationResolveResponse{
		Path:          path,
		View:          view,
		CanonicalPath: navigation.PathForView(view),
	}, nil)
}
