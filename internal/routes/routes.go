package routes

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/handler"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/middleware"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/models"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/service"
)

// Handlers bundles every HTTP handler the API mounts. Nil handlers are skipped.
type Handlers struct {
	Auth       *handler.AuthHandler
	Navigation *handler.NavigationHandler
	Mentor     *handler.MentorHandler
	Milestone  *handler.MilestoneHandler
	Wizard     *handler.WizardHandler
	Dashboard  *handler.DashboardHandler
	Export     *handler.ExportHandler
	Realtime   *handler.RealtimeHandler
	Metrics    *handler.MetricsHandler
}

// Options configures shared middleware.
type Options struct {
	APIPrefix string
	Tokens    middleware.TokenValidator
	Metrics   *service.MetricsService
	Logger    *zap.Logger
	Docs      bool
}

// Setup mounts operational endpoints at the root and the API under APIPrefix.
func Setup(r *gin.Engine, h Handlers, opts Options) {
	if opts.APIPrefix == "" {
		opts.APIPrefix = "/api/v1"
	}
	r.Use(middleware.Metrics(opts.Metrics))

	if h.Metrics != nil {
		r.GET("/health", h.Metrics.Health)
		r.GET("/ready", h.Metrics.Ready)
		r.GET("/metrics", h.Metrics.Prometheus)
	}
	if opts.Docs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(opts.APIPrefix, middleware.WithResponseMeta())
	auth := middleware.JWT(opts.Tokens)

	if h.Auth != nil {
		SetupAuthRoutes(api, h.Auth, auth)
	}
	if h.Navigation != nil {
		SetupNavigationRoutes(api, h.Navigation)
	}
	if h.Mentor != nil {
		SetupMentorRoutes(api, h.Mentor, auth, middleware.OptionalJWT(opts.Tokens))
	}
	if h.Milestone != nil {
		SetupMilestoneRoutes(api, h.Milestone, auth, opts.Logger)
	}
	if h.Realtime != nil {
		api.GET("/milestones/stream", middleware.JWTWithQueryToken(opts.Tokens), h.Realtime.Stream)
	}
	if h.Wizard != nil {
		SetupWizardRoutes(api, h.Wizard, auth, middleware.JWTWithQueryToken(opts.Tokens))
	}
	if h.Dashboard != nil {
		api.GET("/dashboard/summary", auth, h.Dashboard.Summary)
	}
	if h.Export != nil {
		SetupExportRoutes(api, h.Export, auth)
	}
}

// SetupAuthRoutes mounts login and the current-user lookup.
func SetupAuthRoutes(api *gin.RouterGroup, h *handler.AuthHandler, auth gin.HandlerFunc) {
	group := api.Group("/auth")
	{
		group.POST("/login", h.Login)
		group.GET("/me", auth, h.Me)
		group.POST("/refresh", auth, h.Refresh)
	}
}

// SetupNavigationRoutes mounts the public view-mapping endpoints.
func SetupNavigationRoutes(api *gin.RouterGroup, h *handler.NavigationHandler) {
	group := api.Group("/navigation")
	{
		group.GET("/views", h.Views)
		group.GET("/resolve", h.Resolve)
	}
}

// SetupMentorRoutes mounts the directory. Browsing is public; bookmarks need a user.
func SetupMentorRoutes(api *gin.RouterGroup, h *handler.MentorHandler, auth, optional gin.HandlerFunc) {
	group := api.Group("/mentors")
	{
		group.GET("", optional, h.List)
		group.GET("/departments", h.Departments)
		group.GET("/bookmarks", auth, h.Bookmarks)
		group.GET("/:id", h.Get)
		group.POST("/:id/bookmark", auth, h.ToggleBookmark)
	}
}

// SetupMilestoneRoutes mounts the shared milestone list with per-role mutations.
func SetupMilestoneRoutes(api *gin.RouterGroup, h *handler.MilestoneHandler, auth gin.HandlerFunc, logger *zap.Logger) {
	group := api.Group("/milestones", auth)
	{
		group.GET("", h.List)
		group.GET("/pending", middleware.RequireRoles(models.RoleMentor), h.Pending)
		group.GET("/:id", h.Get)

		student := middleware.RequireRoles(models.RoleStudent)
		group.PATCH("/:id", student, middleware.Audit(logger, "milestone.update", "milestone"), h.Update)
		group.POST("/:id/submit", student, middleware.Audit(logger, "milestone.submit", "milestone"), h.Submit)

		mentor := middleware.RequireRoles(models.RoleMentor)
		group.POST("/:id/review", mentor, middleware.Audit(logger, "milestone.review", "milestone"), h.Review)

		admin := middleware.RequireRoles()
		group.PUT("", admin, middleware.Audit(logger, "milestone.replace", "milestone"), h.Replace)
		group.POST("/reset", admin, middleware.Audit(logger, "milestone.reset", "milestone"), h.Reset)
	}
}

// SetupWizardRoutes mounts Project Builder sessions. The QR image accepts a query token so
// an <img> tag can load it.
func SetupWizardRoutes(api *gin.RouterGroup, h *handler.WizardHandler, auth, queryAuth gin.HandlerFunc) {
	group := api.Group("/wizard")
	{
		group.GET("/catalog", h.Catalog)

		student := middleware.RequireRoles(models.RoleStudent)
		sessions := group.Group("/sessions")
		sessions.POST("", auth, student, h.Start)
		sessions.GET("/:id", auth, student, h.Get)
		sessions.DELETE("/:id", auth, student, h.Discard)
		sessions.POST("/:id/events", auth, student, h.Event)
		sessions.POST("/:id/restart", auth, student, h.Restart)
		sessions.GET("/:id/proposal", auth, student, h.Proposal)
		sessions.POST("/:id/peer-invite", auth, student, h.PeerInvite)
		sessions.GET("/:id/peer-invite/qr", queryAuth, student, h.PeerInviteQR)
	}
}

// SetupExportRoutes mounts export requests. Downloads are authorised by the signed token.
func SetupExportRoutes(api *gin.RouterGroup, h *handler.ExportHandler, auth gin.HandlerFunc) {
	group := api.Group("/exports")
	{
		group.POST("/completed-work", auth, h.Request)
		group.GET("/download/:token", h.Download)
		group.GET("/:id", auth, h.Status)
	}
}
