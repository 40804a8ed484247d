package ws

import (
	"log"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gorilla/websocket"

	"skill-bridge/internal/pkg/jwt"
)

type Handler struct {
	hub    *Hub
	tokens jwt.Service
	logger *log.Logger
}

func NewHandler(hub *Hub, tokens jwt.Service, logger *log.Logger) *Handler {
	return &Handler{hub: hub, tokens: tokens, logger: logger}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleSessionWS authenticates with the token query parameter because
// browsers cannot set headers on a websocket handshake.
func (h *Handler) HandleSessionWS(c fiber.Ctx) error {
	if h == nil || h.hub == nil || h.tokens == nil {
		return fiber.ErrServiceUnavailable
	}

	claims, err := h.tokens.ValidateToken(c.Query("token"))
	if err != nil {
		return fiber.ErrUnauthorized
	}
	sid := claims.SessionID.String()

	fiberHandler := adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			if h.logger != nil {
				h.logger.Printf("WS upgrade error | sid=%s error=%v", sid, err)
			}
			return
		}

		client := NewClient(h.hub, conn, sid)
		h.hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	})

	return fiberHandler(c)
}
