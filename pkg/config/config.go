package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database   DatabaseConfig
	SQLite     SQLiteConfig
	Redis      RedisConfig
	JWT        JWTConfig
	CORS       CORSConfig
	Log        LogConfig
	Store      StoreConfig
	Milestones MilestonesConfig
	Wizard     WizardConfig
	Mentors    MentorsConfig
	PeerReview PeerReviewConfig
	Exports    ExportsConfig
	Realtime   RealtimeConfig
	Seed       SeedConfig
}

// DatabaseConfig describes the postgres connection. URL, when set, overrides the discrete fields.
type DatabaseConfig struct {
	URL          string
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// SQLiteConfig points at the embedded database file used by the sqlite store driver.
type SQLiteConfig struct {
	Path string
}

// RedisConfig describes the redis connection. URL, when set, overrides the discrete fields.
type RedisConfig struct {
	URL      string
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// StoreConfig selects the backend for the persisted slots (milestones, wizard sessions,
// bookmarks) and for user lookups.
type StoreConfig struct {
	Driver string
}

// MilestonesConfig names the single slot holding the milestone list.
type MilestonesConfig struct {
	SlotKey string
}

// WizardConfig tunes Project Builder session retention.
type WizardConfig struct {
	SessionTTL time.Duration
}

// MentorsConfig controls directory result caching.
type MentorsConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
	BookmarkTTL  time.Duration
}

// PeerReviewConfig describes who can be invited as a specific peer reviewer.
type PeerReviewConfig struct {
	EmailDomain   string
	InviteBaseURL string
	QRSize        int
}

// ExportsConfig configures asynchronous completed-work exports.
type ExportsConfig struct {
	StorageDir        string
	SignedURLSecret   string
	SignedURLTTL      time.Duration
	WorkerConcurrency int
	WorkerRetries     int
	ResultTTL         time.Duration
}

// SeedConfig controls the demo accounts created when users are not backed by SQL.
type SeedConfig struct {
	DemoPassword string
}

// RealtimeConfig toggles the milestone websocket stream.
type RealtimeConfig struct {
	Enabled      bool
	PingInterval time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		URL:          v.GetString("DATABASE_URL"),
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.SQLite = SQLiteConfig{Path: v.GetString("SQLITE_PATH")}

	cfg.Redis = RedisConfig{
		URL:      v.GetString("REDIS_URL"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Store = StoreConfig{Driver: normalizeDriver(v.GetString("STORE_DRIVER"))}

	cfg.Milestones = MilestonesConfig{SlotKey: v.GetString("MILESTONES_SLOT_KEY")}

	cfg.Wizard = WizardConfig{
		SessionTTL: parseDuration(v.GetString("WIZARD_SESSION_TTL"), 12*time.Hour),
	}

	cfg.Mentors = MentorsConfig{
		CacheEnabled: v.GetBool("ENABLE_MENTOR_CACHE"),
		CacheTTL:     parseDuration(v.GetString("MENTOR_CACHE_TTL"), 10*time.Minute),
		BookmarkTTL:  parseDuration(v.GetString("MENTOR_BOOKMARK_TTL"), 12*time.Hour),
	}

	qrSize := v.GetInt("PEER_REVIEW_QR_SIZE")
	if qrSize <= 0 {
		qrSize = 256
	}
	cfg.PeerReview = PeerReviewConfig{
		EmailDomain:   v.GetString("PEER_REVIEW_EMAIL_DOMAIN"),
		InviteBaseURL: strings.TrimRight(v.GetString("PEER_REVIEW_INVITE_BASE_URL"), "/"),
		QRSize:        qrSize,
	}

	cfg.Exports = ExportsConfig{
		StorageDir:        v.GetString("EXPORTS_STORAGE_DIR"),
		SignedURLSecret:   v.GetString("EXPORTS_SIGNED_URL_SECRET"),
		SignedURLTTL:      parseDuration(v.GetString("EXPORTS_SIGNED_URL_TTL"), time.Hour),
		WorkerConcurrency: v.GetInt("EXPORTS_WORKER_CONCURRENCY"),
		WorkerRetries:     v.GetInt("EXPORTS_WORKER_RETRIES"),
		ResultTTL:         parseDuration(v.GetString("EXPORTS_RESULT_TTL"), 24*time.Hour),
	}

	cfg.Realtime = RealtimeConfig{
		Enabled:      v.GetBool("ENABLE_REALTIME"),
		PingInterval: parseDuration(v.GetString("REALTIME_PING_INTERVAL"), 15*time.Second),
	}

	cfg.Seed = SeedConfig{DemoPassword: v.GetString("SEED_DEMO_PASSWORD")}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "l2l_independent_study")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("SQLITE_PATH", "./data/l2l.db")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "l2l-api")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("STORE_DRIVER", StoreMemory)
	v.SetDefault("MILESTONES_SLOT_KEY", "l2l:milestones")
	v.SetDefault("WIZARD_SESSION_TTL", "12h")

	v.SetDefault("ENABLE_MENTOR_CACHE", false)
	v.SetDefault("MENTOR_CACHE_TTL", "10m")
	v.SetDefault("MENTOR_BOOKMARK_TTL", "12h")

	v.SetDefault("PEER_REVIEW_EMAIL_DOMAIN", "@umass.edu")
	v.SetDefault("PEER_REVIEW_INVITE_BASE_URL", "http://localhost:5173/project-builder")
	v.SetDefault("PEER_REVIEW_QR_SIZE", 256)

	v.SetDefault("EXPORTS_STORAGE_DIR", "./exports")
	v.SetDefault("EXPORTS_SIGNED_URL_SECRET", "dev_exports_secret")
	v.SetDefault("EXPORTS_SIGNED_URL_TTL", "1h")
	v.SetDefault("EXPORTS_WORKER_CONCURRENCY", 1)
	v.SetDefault("EXPORTS_WORKER_RETRIES", 3)
	v.SetDefault("EXPORTS_RESULT_TTL", "24h")

	v.SetDefault("ENABLE_REALTIME", true)
	v.SetDefault("REALTIME_PING_INTERVAL", "15s")

	v.SetDefault("SEED_DEMO_PASSWORD", "demo1234")
}

func normalizeDriver(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case StoreRedis:
		return StoreRedis
	case StorePostgres, "postgresql", "pg":
		return StorePostgres
	case StoreSQLite, "sqlite3":
		return StoreSQLite
	default:
		return StoreMemory
	}
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
