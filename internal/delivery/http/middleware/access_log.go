package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const (
	HeaderRequestID    = "X-Request-ID"
	CtxRequestIDKey    = "request_id"
	unmatchedRouteName = "unmatched"
)

// HTTPObserver receives one observation per finished request.
type HTTPObserver interface {
	ObserveHTTP(method, route string, status int, d time.Duration)
}

type AccessLogMiddleware struct {
	logger   *log.Logger
	observer HTTPObserver
}

func NewAccessLogMiddleware(logger *log.Logger, observer HTTPObserver) *AccessLogMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	return &AccessLogMiddleware{logger: logger, observer: observer}
}

func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		rid := c.Get(HeaderRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(HeaderRequestID, rid)
		c.Locals(CtxRequestIDKey, rid)

		err := c.Next()

		dur := time.Since(start)
		status := c.Response().StatusCode()

		ip := c.IP()
		method := c.Method()
		path := c.OriginalURL()
		ua := c.Get("User-Agent")
		respBytes := len(c.Response().Body())

		if m == nil {
			return err
		}
		if m.observer != nil {
			m.observer.ObserveHTTP(method, routeName(c), status, dur)
		}
		if m.logger != nil {
			m.logger.Printf(
				"HTTP access | rid=%s ip=%s method=%s path=%s status=%d latency=%s resp_bytes=%d ua=%q",
				rid, ip, method, path, status, dur, respBytes, ua,
			)
		}

		return err
	}
}

// routeName is the registered pattern, so path parameters do not explode
// metric cardinality.
func routeName(c fiber.Ctx) string {
	r := c.Route()
	if r == nil || r.Path == "" || (r.Path == "/" && c.Path() != "/") {
		return unmatchedRouteName
	}
	return r.Path
}

// RequestID returns the id assigned by the access log middleware.
func RequestID(c fiber.Ctx) string {
	rid, _ := c.Locals(CtxRequestIDKey).(string)
	return rid
}
