package app

import (
	"fmt"
	"strings"

	"skill-bridge/internal/config"
	"skill-bridge/internal/delivery/http/handler"
	"skill-bridge/internal/delivery/http/middleware"
	"skill-bridge/internal/delivery/http/routes"
	v1 "skill-bridge/internal/delivery/http/routes/v1"
	"skill-bridge/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

func Bootstrap(cfg config.Config) (*App, func() error, error) {
	c, err := NewContainer(cfg)
	if err != nil {
		return nil, nil, err
	}
	return New(c), c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	accessMw := middleware.NewAccessLogMiddleware(c.Logger, c.Metrics)
	errMw := middleware.NewErrorMiddleware(c.Logger)
	app.Use(accessMw.Middleware())
	app.Use(errMw.Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	authMw := middleware.NewAuthMiddleware(c.Tokens)

	checks := map[string]handler.Pinger{"session_store": c.Store}
	if c.DB != nil {
		checks["database"] = c.DB
	}

	registry := routes.NewRegistry(routes.Options{
		Health: handler.NewHealthHandler(checks),
		V1: v1.Handlers{
			Auth:        handler.NewAuthHandler(c.Auth, authMw.Middleware(), authMw.Optional(), c.Metrics),
			Catalog:     handler.NewCatalogHandler(c.Catalog),
			Session:     handler.NewSessionHandler(c.Sessions, c.Metrics),
			SessionAuth: authMw.Optional(),
		},
		Metrics:   c.Metrics.Handler(),
		SessionWS: ws.NewHandler(c.Hub, c.Tokens, c.Logger).HandleSessionWS,
	})
	registry.Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
