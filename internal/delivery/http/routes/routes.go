package routes

import (
	"net/http"

	"skill-bridge/internal/delivery/http/handler"
	v1 "skill-bridge/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
)

type Registry struct {
	health    *handler.HealthHandler
	v1        v1.Handlers
	metrics   http.Handler
	sessionWS fiber.Handler
}

type Options struct {
	Health    *handler.HealthHandler
	V1        v1.Handlers
	Metrics   http.Handler
	SessionWS fiber.Handler
}

func NewRegistry(opts Options) *Registry {
	return &Registry{
		health:    opts.Health,
		v1:        opts.V1,
		metrics:   opts.Metrics,
		sessionWS: opts.SessionWS,
	}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerOps(app)
	r.registerWS(app)
	r.registerAPI(app)
}

func (r *Registry) registerOps(app *fiber.App) {
	if r.health != nil {
		r.health.RegisterRoutes(app)
	}
	if r.metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(r.metrics))
	}
}

func (r *Registry) registerWS(app *fiber.App) {
	if r.sessionWS == nil {
		return
	}
	app.Get("/ws/session", r.sessionWS)
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r.v1)
}
