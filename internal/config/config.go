package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Session  SessionConfig
	Auth     AuthConfig
	Catalog  CatalogConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

func (c DatabaseConfig) Enabled() bool {
	return c.DBHost != "" && c.DBName != ""
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

type JWTConfig struct {
	Secret    string
	ExpiresIn time.Duration
}

const (
	SessionStoreRedis  = "redis"
	SessionStoreMemory = "memory"
)

type SessionConfig struct {
	Store string
	TTL   time.Duration
}

type AuthConfig struct {
	LoginDelay  time.Duration
	SignupDelay time.Duration
}

const (
	CatalogSourceEmbedded = "embedded"
	CatalogSourceDir      = "dir"
	CatalogSourcePostgres = "postgres"
)

type CatalogConfig struct {
	Source string
	Dir    string
}

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidEnv         = errors.New("invalid environment variables")
)

type envReader struct {
	missing []string
	invalid []string
}

func (r *envReader) req(key string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		r.missing = append(r.missing, key)
	}
	return v
}

func (r *envReader) opt(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func (r *envReader) optDefault(key, def string) string {
	if v := r.opt(key); v != "" {
		return v
	}
	return def
}

func (r *envReader) optDuration(key string, def time.Duration) time.Duration {
	raw := r.opt(key)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		r.invalid = append(r.invalid, key)
		return def
	}
	return d
}

func (r *envReader) optInt(key string, def int) int {
	raw := r.opt(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		r.invalid = append(r.invalid, key)
		return def
	}
	return v
}

func (r *envReader) err() error {
	if len(r.missing) > 0 {
		return fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(r.missing, ", "))
	}
	if len(r.invalid) > 0 {
		return fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(r.invalid, ", "))
	}
	return nil
}

func (r *envReader) database() DatabaseConfig {
	return DatabaseConfig{
		DBHost:                r.opt("DB_HOST"),
		DBPort:                r.optDefault("DB_PORT", "5432"),
		DBName:                r.opt("DB_NAME"),
		DBUser:                r.opt("DB_USER"),
		DBPassword:            r.opt("DB_PASSWORD"),
		DBSSLMode:             r.optDefault("DB_SSL_MODE", "disable"),
		ConnectTimeout:        r.optDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:          int32(r.optInt("DB_POOL_MAX_CONNS", 0)),
		PoolMinConns:          int32(r.optInt("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime:   r.optDuration("DB_POOL_MAX_CONN_LIFETIME", 0),
		PoolMaxConnIdleTime:   r.optDuration("DB_POOL_MAX_CONN_IDLE_TIME", 0),
		PoolHealthCheckPeriod: r.optDuration("DB_POOL_HEALTH_CHECK_PERIOD", 0),
	}
}

// LoadDatabase reads only the database settings, for tools that do not run
// the HTTP server. DB_HOST and DB_NAME are required.
func LoadDatabase() (DatabaseConfig, error) {
	r := &envReader{}
	cfg := r.database()
	if !cfg.Enabled() {
		r.missing = append(r.missing, "DB_HOST", "DB_NAME")
	}
	if err := r.err(); err != nil {
		return DatabaseConfig{}, err
	}
	return cfg, nil
}

func Load() (Config, error) {
	cfg := Config{}
	r := &envReader{}

	cfg.App = AppConfig{
		AppName:     r.req("APP_NAME"),
		Environment: r.req("APP_ENV"),
		HTTPPort:    r.req("HTTP_PORT"),
	}

	cfg.Database = r.database()

	cfg.Redis = RedisConfig{
		Host:     r.optDefault("REDIS_HOST", "localhost"),
		Port:     r.optDefault("REDIS_PORT", "6379"),
		Password: r.opt("REDIS_PASSWORD"),
		DB:       r.optInt("REDIS_DB", 0),
	}

	cfg.JWT = JWTConfig{
		Secret:    r.req("JWT_SECRET"),
		ExpiresIn: r.optDuration("JWT_EXPIRES_IN", 24*time.Hour),
	}

	cfg.Session = SessionConfig{
		Store: strings.ToLower(r.optDefault("SESSION_STORE", SessionStoreRedis)),
		TTL:   r.optDuration("SESSION_TTL", 24*time.Hour),
	}
	switch cfg.Session.Store {
	case SessionStoreRedis, SessionStoreMemory:
	default:
		r.invalid = append(r.invalid, "SESSION_STORE")
	}

	cfg.Auth = AuthConfig{
		LoginDelay:  r.optDuration("AUTH_LOGIN_DELAY", 800*time.Millisecond),
		SignupDelay: r.optDuration("AUTH_SIGNUP_DELAY", 1000*time.Millisecond),
	}

	cfg.Catalog = CatalogConfig{
		Source: strings.ToLower(r.optDefault("CATALOG_SOURCE", CatalogSourceEmbedded)),
		Dir:    r.opt("CATALOG_DIR"),
	}
	switch cfg.Catalog.Source {
	case CatalogSourceEmbedded:
	case CatalogSourceDir:
		if cfg.Catalog.Dir == "" {
			r.missing = append(r.missing, "CATALOG_DIR")
		}
	case CatalogSourcePostgres:
		if !cfg.Database.Enabled() {
			r.missing = append(r.missing, "DB_HOST", "DB_NAME")
		}
	default:
		r.invalid = append(r.invalid, "CATALOG_SOURCE")
	}

	if err := r.err(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
