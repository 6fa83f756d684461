package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type streamServer interface {
	Serve(w http.ResponseWriter, r *http.Request) error
}

// RealtimeHandler upgrades clients onto the milestone event stream.
type RealtimeHandler struct {
	hub    streamServer
	logger *zap.Logger
}

// NewRealtimeHandler constructs the handler.
func NewRealtimeHandler(hub streamServer, logger *zap.Logger) *RealtimeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RealtimeHandler{hub: hub, logger: logger}
}

// Stream godoc
// @Summary Websocket stream of milestone changes
// @Tags Milestones
// @Param access_token query string false "JWT when the Authorization header cannot be set"
// @Success 101
// @Router /milestones/stream [get]
func (h *RealtimeHandler) Stream(c *gin.Context) {
	if h.hub == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	if err := h.hub.Serve(c.Writer, c.Request); err != nil {
		h.logger.Debug("stream closed", zap.Error(err))
	}
}
