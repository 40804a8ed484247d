package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"skill-bridge/internal/catalog"
	"skill-bridge/internal/config"
	"skill-bridge/internal/database"
	"skill-bridge/internal/database/migration"
	dbpostgres "skill-bridge/internal/database/postgres"
	"skill-bridge/internal/infrastructure/cache"
	"skill-bridge/internal/metrics"
	"skill-bridge/internal/pkg/jwt"
	"skill-bridge/internal/repository"
	ucauth "skill-bridge/internal/usecase/auth"
	ucsession "skill-bridge/internal/usecase/session"
	"skill-bridge/internal/ws"
)

// SessionStore is a session.Store the health check can ping.
type SessionStore interface {
	ucsession.Store
	Ping(ctx context.Context) error
	Close() error
}

type Container struct {
	Config config.Config
	Logger *log.Logger

	// DB is nil when no database is configured.
	DB      database.DB
	Catalog *catalog.Catalog
	Store   SessionStore
	Metrics *metrics.Metrics
	Hub     *ws.Hub
	Tokens  jwt.Service

	Sessions *ucsession.Service
	Auth     *ucauth.Service
}

func NewLogger() *log.Logger {
	return log.New(os.Stdout, "", log.LstdFlags|log.Lmicroseconds)
}

func NewContainer(cfg config.Config) (*Container, error) {
	return newContainer(cfg, NewLogger())
}

func newContainer(cfg config.Config, logger *log.Logger) (*Container, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c := &Container{Config: cfg, Logger: logger}

	if cfg.Database.Enabled() {
		db, err := dbpostgres.Connect(ctx, cfg.Database)
		switch {
		case err == nil:
			c.DB = db
		case cfg.Catalog.Source == config.CatalogSourcePostgres:
			return nil, fmt.Errorf("connect database: %w", err)
		default:
			logger.Printf("[App] database unavailable, continuing without it err=%v", err)
		}
	}

	cat, err := loadCatalog(ctx, cfg.Catalog, c.DB, logger)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	c.Catalog = cat
	if orphans := cat.OrphanCourseSkills(); len(orphans) > 0 {
		logger.Printf("[Catalog] course skills required by no job role ids=%s", strings.Join(orphans, ","))
	}
	logger.Printf("[Catalog] loaded source=%s job_roles=%d courses=%d", cfg.Catalog.Source, len(cat.JobRoles()), len(cat.Courses()))

	c.Store = newSessionStore(ctx, cfg, logger)
	c.Metrics = metrics.New()

	c.Hub = ws.NewHub(logger)
	go c.Hub.Run()

	c.Tokens = jwt.NewHMACService(cfg.JWT.Secret, cfg.JWT.ExpiresIn)

	c.Sessions = ucsession.NewService(c.Store, cat, cfg.Session.TTL, logger)
	c.Sessions.AddNotifier(ws.NewNotifier(c.Hub))
	c.Sessions.AddNotifier(c.Metrics)

	c.Auth = ucauth.NewService(c.Sessions, c.Tokens, ucauth.Options{
		LoginDelay:  cfg.Auth.LoginDelay,
		SignupDelay: cfg.Auth.SignupDelay,
	}, logger)

	return c, nil
}

func loadCatalog(ctx context.Context, cfg config.CatalogConfig, db database.DB, logger *log.Logger) (*catalog.Catalog, error) {
	switch cfg.Source {
	case config.CatalogSourceDir:
		return catalog.LoadDir(cfg.Dir)
	case config.CatalogSourcePostgres:
		if db == nil {
			return nil, errors.New("postgres catalog source without a database")
		}
		if _, err := (migration.Runner{Logger: logger}).Run(ctx, db.SQLDB()); err != nil {
			return nil, err
		}
		return repository.NewPostgresCatalogRepository(db).LoadCatalog(ctx)
	default:
		return catalog.LoadEmbedded()
	}
}

// newSessionStore prefers Redis when configured and falls back to the
// process-local store when it cannot be reached.
func newSessionStore(ctx context.Context, cfg config.Config, logger *log.Logger) SessionStore {
	if cfg.Session.Store == config.SessionStoreRedis {
		r, err := cache.NewRedis(ctx, cfg.Redis, logger)
		if err == nil {
			logger.Printf("[Session] store=redis addr=%s", cfg.Redis.Addr())
			return r
		}
		logger.Printf("[Session] redis unavailable, falling back to memory err=%v", err)
	}
	logger.Printf("[Session] store=memory")
	return cache.NewMemory()
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Hub != nil {
		c.Hub.Stop()
	}
	if c.Store != nil {
		errs = append(errs, c.Store.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
