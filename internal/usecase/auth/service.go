package auth

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"skill-bridge/internal/domain/session"
	"skill-bridge/internal/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSignupFailed       = errors.New("failed to create account")
	ErrSuperseded         = errors.New("superseded by a newer request")
	ErrInternal           = errors.New("internal error")
)

type Status int

const (
	StatusUnauthenticated Status = iota
	StatusAuthenticating
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusAuthenticating:
		return "authenticating"
	case StatusAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Sessions is the part of the session usecase authentication writes to.
type Sessions interface {
	Start(ctx context.Context, sessionID string, u session.User) error
	Clear(ctx context.Context, sessionID string) error
	SignedIn(ctx context.Context, sessionID string) (bool, error)
}

type LoginInput struct {
	Email    string
	Password string
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
}

type Result struct {
	SessionID string
	User      session.User
	Token     string
	ExpiresAt time.Time
}

type Options struct {
	LoginDelay  time.Duration
	SignupDelay time.Duration
}

// attempt is a login or signup still waiting out its delay. gen is the
// sequence number of the latest attempt so an older one can tell it lost.
type attempt struct {
	gen    uint64
	cancel context.CancelFunc
}

// Service is a mock: any non-empty credentials are accepted after a fixed
// delay and nothing is checked against a user store. Only in-flight attempts
// are held in memory; Authenticated is read back from the session store.
type Service struct {
	sessions Sessions
	tokens   jwt.Service
	opts     Options
	logger   *log.Logger

	now   func() time.Time
	newID func() uuid.UUID

	mu       sync.Mutex
	seq      uint64
	inflight map[string]*attempt
}

func NewService(sessions Sessions, tokens jwt.Service, opts Options, logger *log.Logger) *Service {
	return &Service{
		sessions: sessions,
		tokens:   tokens,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.New,
		inflight: map[string]*attempt{},
	}
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

// Status reports Authenticating while clientKey has an attempt in flight,
// otherwise Authenticated when sessionID still holds a user.
func (s *Service) Status(ctx context.Context, clientKey, sessionID string) (Status, error) {
	s.mu.Lock()
	_, pending := s.inflight[clientKey]
	s.mu.Unlock()
	if pending {
		return StatusAuthenticating, nil
	}
	if sessionID == "" {
		return StatusUnauthenticated, nil
	}
	ok, err := s.sessions.SignedIn(ctx, sessionID)
	if err != nil {
		return StatusUnauthenticated, err
	}
	if ok {
		return StatusAuthenticated, nil
	}
	return StatusUnauthenticated, nil
}

func (s *Service) Login(ctx context.Context, clientKey string, in LoginInput) (Result, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return Result{}, ErrInvalidCredentials
	}
	name := email
	if i := strings.Index(email, "@"); i >= 0 {
		name = email[:i]
	}
	u := session.User{ID: "1", Email: email, Name: name}
	return s.authenticate(ctx, clientKey, s.opts.LoginDelay, u, ErrInvalidCredentials)
}

func (s *Service) Signup(ctx context.Context, clientKey string, in SignupInput) (Result, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return Result{}, ErrSignupFailed
	}
	u := session.User{Email: email, Name: name}
	return s.authenticate(ctx, clientKey, s.opts.SignupDelay, u, ErrSignupFailed)
}

func (s *Service) begin(ctx context.Context, clientKey string) (context.Context, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.inflight[clientKey]; ok {
		prev.cancel()
	}
	waitCtx, cancel := context.WithCancel(ctx)
	s.seq++
	s.inflight[clientKey] = &attempt{gen: s.seq, cancel: cancel}
	return waitCtx, s.seq
}

// finish removes the attempt if gen is still the latest one for clientKey
// and reports whether it was.
func (s *Service) finish(clientKey string, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.inflight[clientKey]
	if !ok || a.gen != gen {
		return false
	}
	a.cancel()
	delete(s.inflight, clientKey)
	return true
}

// current reports whether gen is still the latest attempt for clientKey.
func (s *Service) current(clientKey string, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.inflight[clientKey]
	return ok && a.gen == gen
}

func (s *Service) authenticate(ctx context.Context, clientKey string, delay time.Duration, u session.User, failure error) (Result, error) {
	waitCtx, gen := s.begin(ctx, clientKey)

	t := time.NewTimer(delay)
	select {
	case <-t.C:
	case <-waitCtx.Done():
		t.Stop()
	}

	if err := ctx.Err(); err != nil {
		if !s.finish(clientKey, gen) {
			return Result{}, ErrSuperseded
		}
		return Result{}, err
	}
	if !s.current(clientKey, gen) {
		return Result{}, ErrSuperseded
	}

	if u.ID == "" {
		u.ID = strconv.FormatInt(s.now().UnixMilli(), 10)
	}
	sid := s.newID()
	if err := s.sessions.Start(ctx, sid.String(), u); err != nil {
		s.finish(clientKey, gen)
		s.logf("[Auth] session start failed client=%s err=%v", clientKey, err)
		return Result{}, failure
	}
	token, exp, err := s.tokens.GenerateSessionToken(sid, u.ID, u.Email)
	if err != nil {
		s.finish(clientKey, gen)
		_ = s.sessions.Clear(ctx, sid.String())
		s.logf("[Auth] token generation failed client=%s err=%v", clientKey, err)
		return Result{}, ErrInternal
	}

	// A newer attempt may have started while the session was being written.
	if !s.finish(clientKey, gen) {
		_ = s.sessions.Clear(context.WithoutCancel(ctx), sid.String())
		return Result{}, ErrSuperseded
	}
	return Result{SessionID: sid.String(), User: u, Token: token, ExpiresAt: exp}, nil
}

// Logout clears every persisted key of the session in one operation.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Clear(ctx, sessionID)
}
