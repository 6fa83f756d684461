package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	_ "github.com/manyap062/L2L-Independent-Study-Demo-sub000/api/swagger"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/app"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/directory"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/handler"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/realtime"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/repository"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/routes"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/service"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/wizard"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/pkg/config"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/pkg/export"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/pkg/jobs"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/pkg/logger"
	corsmiddleware "github.com/manyap062/L2L-Independent-Study-Demo-sub000/pkg/middleware/cors"
	reqidmiddleware "github.com/manyap062/L2L-Independent-Study-Demo-sub000/pkg/middleware/requestid"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/pkg/storage"
)

// @title L2L Independent Study API
// @version 1.0.0
// @description Mentor directory, milestone review and Project Builder backend
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const janitorInterval = 10 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	stores, err := app.OpenStores(ctx, cfg, logr)
	if err != nil {
		return err
	}
	defer stores.Close() //nolint:errcheck

	metrics := service.NewMetricsService()
	validate := service.NewValidator()

	var hub *realtime.Hub
	var publisher service.Publisher
	if cfg.Realtime.Enabled {
		hub = realtime.NewHub(cfg.Realtime.PingInterval, logr.Named("realtime"))
		publisher = hub
	}

	auth := service.NewAuthService(stores.Users, validate, logr.Named("auth"), service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})

	milestones := service.NewMilestoneService(
		repository.NewMilestoneRepository(stores.Slots, cfg.Milestones.SlotKey),
		validate, publisher, metrics, logr.Named("milestones"))

	catalog, err := directory.DefaultCatalog()
	if err != nil {
		return fmt.Errorf("load mentor catalog: %w", err)
	}
	cacheSvc := service.NewCacheService(
		repository.NewCacheRepository(stores.Redis, "l2l", logr.Named("cache")),
		metrics, cfg.Mentors.CacheTTL, logr.Named("cache"), cfg.Mentors.CacheEnabled && stores.Redis != nil)
	mentors := service.NewMentorService(catalog, stores.Bookmarks, cacheSvc, cfg.Mentors.CacheTTL, validate, logr.Named("mentors"))

	pdf := export.NewPDFExporter()
	wizards := service.NewWizardService(
		repository.NewWizardSessionRepository(stores.Slots, cfg.Wizard.SessionTTL),
		wizard.NewMachine(cfg.PeerReview.EmailDomain), pdf, validate, metrics, logr.Named("wizard"),
		service.WizardConfig{APIPrefix: cfg.APIPrefix, InviteBaseURL: cfg.PeerReview.InviteBaseURL, QRSize: cfg.PeerReview.QRSize})

	files, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		return fmt.Errorf("init export storage: %w", err)
	}
	exporter := service.NewExportService(milestones, files,
		storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL),
		service.ExportConfig{APIPrefix: cfg.APIPrefix, ResultTTL: cfg.Exports.ResultTTL},
		logr.Named("exports"), export.NewCSVExporter(), pdf)
	exportJobs := repository.NewExportJobRepository(stores.Slots, cfg.Exports.ResultTTL)
	worker := service.NewExportWorker(exportJobs, exporter, metrics, logr.Named("exports"))
	queue := jobs.NewQueue("exports", worker.Handle, jobs.QueueConfig{
		Workers:    cfg.Exports.WorkerConcurrency,
		MaxRetries: cfg.Exports.WorkerRetries,
		Logger:     logr.Named("jobs"),
		OnGiveUp:   worker.GiveUp,
	})
	if err := metrics.ObserveQueue("exports", queue.Stats); err != nil {
		return fmt.Errorf("register queue metrics: %w", err)
	}
	exportSvc := service.NewExportJobService(exportJobs, queue, exporter, validate, logr.Named("exports"))

	checks := make(map[string]handler.ReadinessCheck, len(stores.Checks))
	for name, check := range stores.Checks {
		checks[name] = check
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	h := routes.Handlers{
		Auth:       handler.NewAuthHandler(auth),
		Navigation: handler.NewNavigationHandler(),
		Mentor:     handler.NewMentorHandler(mentors),
		Milestone:  handler.NewMilestoneHandler(milestones),
		Wizard:     handler.NewWizardHandler(wizards),
		Dashboard:  handler.NewDashboardHandler(service.NewDashboardService(milestones, stores.Bookmarks, logr.Named("dashboard"))),
		Export:     handler.NewExportHandler(exportSvc),
		Metrics:    handler.NewMetricsHandler(metrics, checks),
	}
	if hub != nil {
		h.Realtime = handler.NewRealtimeHandler(hub, logr.Named("realtime"))
	}
	routes.Setup(r, h, routes.Options{
		APIPrefix: cfg.APIPrefix,
		Tokens:    auth,
		Metrics:   metrics,
		Logger:    logr,
		Docs:      cfg.Env != config.EnvProduction,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "store", stores.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return queue.Run(gctx)
	})
	if hub != nil {
		g.Go(func() error {
			return hub.Run(gctx)
		})
	}
	g.Go(func() error {
		return janitor(gctx, stores, exporter, logr.Named("janitor"))
	})

	return g.Wait()
}

// janitor purges expired slots and export files until ctx ends.
func janitor(ctx context.Context, stores *app.Stores, exporter *service.ExportService, logr *zap.Logger) error {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n, err := stores.PurgeExpired(ctx); err != nil {
				logr.Warn("purge expired slots failed", zap.Error(err))
			} else if n > 0 {
				logr.Info("expired slots purged", zap.Int64("count", n))
			}
			if _, err := exporter.Cleanup(0); err != nil {
				logr.Warn("export cleanup failed", zap.Error(err))
			}
		}
	}
}
