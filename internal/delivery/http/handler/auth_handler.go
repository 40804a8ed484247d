package handler

import (
	"context"
	"errors"
	"strings"

	"skill-bridge/internal/delivery/http/dto"
	"skill-bridge/internal/delivery/http/middleware"
	"skill-bridge/internal/pkg/response"
	ucauth "skill-bridge/internal/usecase/auth"

	"github.com/gofiber/fiber/v3"
)

const HeaderClientID = "X-Client-ID"

type AuthUsecase interface {
	Login(ctx context.Context, clientKey string, in ucauth.LoginInput) (ucauth.Result, error)
	Signup(ctx context.Context, clientKey string, in ucauth.SignupInput) (ucauth.Result, error)
	Logout(ctx context.Context, sessionID string) error
	Status(ctx context.Context, clientKey, sessionID string) (ucauth.Status, error)
}

type AuthRecorder interface {
	AuthAttempt(kind, outcome string)
}

type AuthHandler struct {
	uc              AuthUsecase
	requireSession  fiber.Handler
	optionalSession fiber.Handler
	metrics         AuthRecorder
}

// NewAuthHandler takes the auth middleware in both modes: logout needs a
// session, status only reads one when a token is sent.
func NewAuthHandler(uc AuthUsecase, requireSession, optionalSession fiber.Handler, metrics AuthRecorder) *AuthHandler {
	return &AuthHandler{uc: uc, requireSession: requireSession, optionalSession: optionalSession, metrics: metrics}
}

func (h *AuthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/login", h.Login)
	r.Post("/signup", h.Signup)
	if h.optionalSession != nil {
		r.Get("/status", h.optionalSession, h.Status)
	} else {
		r.Get("/status", h.Status)
	}
	if h.requireSession != nil {
		r.Post("/logout", h.requireSession, h.Logout)
	}
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	res, err := h.uc.Login(c.Context(), clientKey(c), ucauth.LoginInput{Email: req.Email, Password: req.Password})
	h.record("login", err)
	if err != nil {
		return mapAuthUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, toAuthResponse(res))
}

func (h *AuthHandler) Signup(c fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	res, err := h.uc.Signup(c.Context(), clientKey(c), ucauth.SignupInput{Name: req.Name, Email: req.Email, Password: req.Password})
	h.record("signup", err)
	if err != nil {
		return mapAuthUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, toAuthResponse(res))
}

func (h *AuthHandler) Status(c fiber.Ctx) error {
	st, err := h.uc.Status(c.Context(), clientKey(c), middleware.SessionID(c))
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.AuthStatusResponse{Status: st.String()})
}

func (h *AuthHandler) Logout(c fiber.Ctx) error {
	sid := middleware.SessionID(c)
	if sid == "" {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	if err := h.uc.Logout(c.Context(), sid); err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	h.record("logout", nil)
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func (h *AuthHandler) record(kind string, err error) {
	if h.metrics == nil {
		return
	}
	h.metrics.AuthAttempt(kind, authOutcome(err))
}

// clientKey identifies the authenticator a request belongs to. Clients that
// do not send X-Client-ID share one per address.
func clientKey(c fiber.Ctx) string {
	if v := strings.TrimSpace(c.Get(HeaderClientID)); v != "" {
		return v
	}
	return c.IP()
}

func toAuthResponse(res ucauth.Result) dto.AuthResponse {
	return dto.AuthResponse{
		SessionID: res.SessionID,
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt.UTC(),
		User:      toUserResponse(res.User),
	}
}

func authOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ucauth.ErrInvalidCredentials), errors.Is(err, ucauth.ErrSignupFailed):
		return "rejected"
	case errors.Is(err, ucauth.ErrSuperseded):
		return "superseded"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "error"
	}
}

func mapAuthUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ucauth.ErrInvalidCredentials):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid credentials", nil, err)
	case errors.Is(err, ucauth.ErrSignupFailed):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Failed to create account", nil, err)
	case errors.Is(err, ucauth.ErrSuperseded):
		return middleware.NewAppError(fiber.StatusConflict, "Superseded by a newer request", nil, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return middleware.NewAppError(fiber.StatusRequestTimeout, "Request cancelled", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
