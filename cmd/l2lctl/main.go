package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/app"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/cli"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/directory"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/repository"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/service"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/pkg/config"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	// Demo accounts are seeded explicitly through `store seed-users`.
	cfg.Seed.DemoPassword = ""

	logr, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("initialising logger: %w", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stores, err := app.OpenStores(ctx, cfg, logr)
	if err != nil {
		return fmt.Errorf("opening stores: %w", err)
	}
	defer stores.Close() //nolint:errcheck

	catalog, err := directory.DefaultCatalog()
	if err != nil {
		return fmt.Errorf("loading mentor catalog: %w", err)
	}

	validate := service.NewValidator()
	application := &cli.App{
		Mentors: service.NewMentorService(catalog, stores.Bookmarks, nil, 0, validate, logr.Named("mentors")),
		Milestones: service.NewMilestoneService(
			repository.NewMilestoneRepository(stores.Slots, cfg.Milestones.SlotKey),
			validate, nil, nil, logr.Named("milestones")),
		Maintenance: stores,
	}

	return cli.NewRootCmd(application).ExecuteContext(ctx)
}
