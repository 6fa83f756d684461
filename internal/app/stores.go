package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/models"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/repository"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/pkg/cache"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/pkg/config"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/pkg/database"
)

// UserStore is the lookup surface auth needs plus Create for seeding.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id string, ts time.Time) error
	Create(ctx context.Context, user *models.User) error
}

// BookmarkStore keeps per-user mentor bookmarks.
type BookmarkStore interface {
	List(ctx context.Context, userID string) ([]int, error)
	Toggle(ctx context.Context, userID string, mentorID int) (bool, error)
}

// Stores is the persistence selected by STORE_DRIVER.
type Stores struct {
	Driver    string
	Slots     repository.SlotStore
	Users     UserStore
	Bookmarks BookmarkStore
	// SQL is set for the postgres and sqlite drivers so expired rows can be purged.
	SQL *repository.SQLSlotStore
	// Redis is set when the redis driver or the mentor cache is enabled.
	Redis *redis.Client
	// Checks feed the readiness endpoint.
	Checks map[string]func(ctx context.Context) error

	closers []func() error
}

// OpenStores connects the configured backends, ensures schemas and seeds demo users.
func OpenStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Stores, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Stores{Driver: cfg.Store.Driver, Checks: map[string]func(context.Context) error{}}

	switch cfg.Store.Driver {
	case config.StoreMemory:
		s.Slots = repository.NewMemorySlotStore()
		s.Users = repository.NewMemoryUserRepository()
	case config.StoreRedis:
		client, err := s.redisClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		s.Slots = repository.NewRedisSlotStore(client)
		s.Users = repository.NewMemoryUserRepository()
	case config.StorePostgres, config.StoreSQLite:
		db, err := openSQL(ctx, cfg)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, db.Close)
		s.Checks["database"] = db.PingContext

		slots := repository.NewSQLSlotStore(db)
		if err := slots.EnsureSchema(ctx); err != nil {
			s.Close()
			return nil, err
		}
		users := repository.NewUserRepository(db)
		if err := users.EnsureSchema(ctx); err != nil {
			s.Close()
			return nil, err
		}
		s.Slots, s.SQL, s.Users = slots, slots, users
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	if cfg.Mentors.CacheEnabled && s.Redis == nil {
		if _, err := s.redisClient(ctx, cfg); err != nil {
			logger.Warn("mentor cache disabled, redis unavailable", zap.Error(err))
		}
	}
	if cfg.Store.Driver == config.StoreRedis {
		s.Bookmarks = repository.NewRedisBookmarkStore(s.Redis, cfg.Mentors.BookmarkTTL)
	} else {
		s.Bookmarks = repository.NewSlotBookmarkStore(s.Slots, cfg.Mentors.BookmarkTTL)
	}

	if cfg.Seed.DemoPassword != "" {
		seeded, err := SeedDemoUsers(ctx, s.Users, cfg.Seed.DemoPassword)
		if err != nil {
			s.Close()
			return nil, err
		}
		if seeded > 0 {
			logger.Info("demo users seeded", zap.Int("count", seeded))
		}
	}

	logger.Info("stores ready", zap.String("driver", s.Driver))
	return s, nil
}

func (s *Stores) redisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	s.Redis = client
	s.closers = append(s.closers, client.Close)
	s.Checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	return client, nil
}

func openSQL(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	if cfg.Store.Driver == config.StoreSQLite {
		return database.NewSQLite(ctx, cfg.SQLite)
	}
	return database.NewPostgres(ctx, cfg.Database)
}

// SeedDemoUsers creates the demo accounts that do not exist yet and returns how many it added.
func SeedDemoUsers(ctx context.Context, users UserStore, password string) (int, error) {
	demo, err := repository.DemoUsers(password)
	if err != nil {
		return 0, err
	}
	added := 0
	for i := range demo {
		_, err := users.FindByEmail(ctx, demo[i].Email)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return added, fmt.Errorf("lookup %s: %w", demo[i].Email, err)
		}
		if err := users.Create(ctx, &demo[i]); err != nil {
			return added, fmt.Errorf("seed %s: %w", demo[i].Email, err)
		}
		added++
	}
	return added, nil
}

// SeedDemoUsers seeds the demo accounts into the opened user store.
func (s *Stores) SeedDemoUsers(ctx context.Context, password string) (int, error) {
	return SeedDemoUsers(ctx, s.Users, password)
}

// PurgeExpired removes expired rows for SQL drivers. Memory and redis expire on their own.
func (s *Stores) PurgeExpired(ctx context.Context) (int64, error) {
	if s.SQL == nil {
		return 0, nil
	}
	return s.SQL.PurgeExpired(ctx)
}

// Close releases every connection in reverse order of opening.
func (s *Stores) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
