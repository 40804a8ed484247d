package middleware

import (
	"errors"
	"strings"

	"skill-bridge/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
)

const (
	CtxSessionIDKey = "session_id"
	CtxUserIDKey    = "user_id"
	CtxEmailKey     = "email"
)

type AuthMiddleware struct {
	jwt jwt.Service
}

func NewAuthMiddleware(jwtSvc jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc}
}

// Middleware rejects requests without a valid session token.
func (m *AuthMiddleware) Middleware() fiber.Handler {
	return m.handler(true)
}

// Optional lets anonymous requests through with no session in context; the
// usecase then answers with its signed-out redirect. A token that is present
// but invalid is still rejected.
func (m *AuthMiddleware) Optional() fiber.Handler {
	return m.handler(false)
}

func (m *AuthMiddleware) handler(required bool) fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := bearerTokenFromHeader(c.Get("Authorization"))
		if !ok {
			if required {
				return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
			}
			return c.Next()
		}

		claims, err := m.jwt.ValidateToken(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
			}
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
		}

		c.Locals(CtxSessionIDKey, claims.SessionID.String())
		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxEmailKey, claims.Email)

		return c.Next()
	}
}

// SessionID is empty for anonymous requests.
func SessionID(c fiber.Ctx) string {
	sid, _ := c.Locals(CtxSessionIDKey).(string)
	return sid
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
