package v1

import (
	"skill-bridge/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Auth    *handler.AuthHandler
	Catalog *handler.CatalogHandler
	Session *handler.SessionHandler

	// SessionAuth runs in front of every /session route.
	SessionAuth fiber.Handler
}

func Register(r fiber.Router, h Handlers) {
	if r == nil {
		return
	}

	if h.Auth != nil {
		h.Auth.RegisterRoutes(r.Group("/auth"))
	}
	if h.Catalog != nil {
		h.Catalog.RegisterRoutes(r.Group("/catalog"))
	}
	if h.Session != nil {
		sessionGroup := r.Group("/session")
		if h.SessionAuth != nil {
			sessionGroup = r.Group("/session", h.SessionAuth)
		}
		h.Session.RegisterRoutes(sessionGroup)
	}
}
