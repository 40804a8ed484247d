package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"skill-bridge/internal/catalog"
	"skill-bridge/internal/domain/navigation"
	state "skill-bridge/internal/domain/session"
)

var (
	ErrPrecondition     = errors.New("precondition not met")
	ErrStoreUnavailable = errors.New("session store unavailable")
	ErrJobNotFound      = errors.New("job not found")
	ErrNoSkillsSelected = errors.New("no skills selected")
	ErrUnknownSkill     = errors.New("skill does not belong to the selected job")
	ErrInvalidSession   = errors.New("invalid session")
)

// PreconditionError carries where the client should go instead of the view
// it asked for.
type PreconditionError struct {
	View     navigation.View
	Decision navigation.Decision
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s (redirect to %s)", ErrPrecondition, e.Decision.Notice.Title, e.Decision.Redirect)
}

func (e *PreconditionError) Is(target error) bool { return target == ErrPrecondition }

// Store is the key/value contract the session is persisted through. SetMany
// and DeleteMany must apply all their keys as one unit.
type Store interface {
	GetMany(ctx context.Context, namespace string, keys []string) (map[string]string, error)
	SetMany(ctx context.Context, namespace string, values map[string]string, del []string, ttl time.Duration) error
	DeleteMany(ctx context.Context, namespace string, keys []string) error
}

type Catalog interface {
	JobRole(id string) (catalog.JobRole, error)
	JobRoles() []catalog.JobRole
	Categories() []string
	Courses() []catalog.Course
}

// Notifier is told after every successful mutation of a session.
type Notifier interface {
	SessionUpdated(sessionID string, event string, payload any)
}

const (
	EventStarted     = "session_started"
	EventJobSelected = "job_selected"
	EventSkillsSaved = "skills_saved"
	EventCleared     = "session_cleared"
)

type Service struct {
	store     Store
	catalog   Catalog
	ttl       time.Duration
	logger    *log.Logger
	notifiers []Notifier

	locks *keyedMutex
}

func NewService(store Store, cat Catalog, ttl time.Duration, logger *log.Logger) *Service {
	return &Service{
		store:   store,
		catalog: cat,
		ttl:     ttl,
		logger:  logger,
		locks:   newKeyedMutex(),
	}
}

// AddNotifier subscribes n to mutations. Not safe to call once requests are
// being served.
func (s *Service) AddNotifier(n Notifier) {
	if s == nil || n == nil {
		return
	}
	s.notifiers = append(s.notifiers, n)
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

func (s *Service) notify(sessionID, event string, payload any) {
	for _, n := range s.notifiers {
		n.SessionUpdated(sessionID, event, payload)
	}
}

// Load reads all persisted keys of a session. Values that fail to parse are
// logged and treated as absent.
func (s *Service) Load(ctx context.Context, sessionID string) (state.State, error) {
	if sessionID == "" {
		return state.State{}, ErrInvalidSession
	}
	values, err := s.store.GetMany(ctx, sessionID, state.Keys())
	if err != nil {
		return state.State{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	st, err := state.Decode(values)
	if err != nil {
		s.logf("[Session] dropped unreadable values sid=%s err=%v", sessionID, err)
	}
	return st, nil
}

// Save writes every key of st; steps that have not happened are deleted in
// the same write.
func (s *Service) Save(ctx context.Context, sessionID string, st state.State) error {
	if sessionID == "" {
		return ErrInvalidSession
	}
	values, unset, err := state.Encode(st)
	if err != nil {
		return err
	}
	if err := s.store.SetMany(ctx, sessionID, values, unset, s.ttl); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Clear removes all four keys at once.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrInvalidSession
	}
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	if err := s.store.DeleteMany(ctx, sessionID, state.Keys()); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	s.notify(sessionID, EventCleared, nil)
	return nil
}

// SignedIn reports whether the session still holds a user. Expired and
// cleared sessions are not signed in.
func (s *Service) SignedIn(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}
	st, err := s.Load(ctx, sessionID)
	if err != nil {
		return false, err
	}
	return st.Authenticated(), nil
}

// Start opens a fresh session for an authenticated user.
func (s *Service) Start(ctx context.Context, sessionID string, u state.User) error {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	if err := s.Save(ctx, sessionID, state.State{User: &u}); err != nil {
		return err
	}
	s.notify(sessionID, EventStarted, u)
	return nil
}

func (s *Service) jobSkills(jobID string) ([]string, bool) {
	job, err := s.catalog.JobRole(jobID)
	if err != nil {
		return nil, false
	}
	return job.SkillIDs(), true
}

// guard loads the session and checks the preconditions of view. An empty
// session id is an anonymous caller and gets the signed-out redirect.
func (s *Service) guard(ctx context.Context, sessionID string, view navigation.View) (state.State, error) {
	var st state.State
	if sessionID != "" {
		loaded, err := s.Load(ctx, sessionID)
		if err != nil {
			return state.State{}, err
		}
		st = loaded
	}
	d := navigation.Check(view, st, s.jobSkills)
	if !d.Allowed {
		return st, &PreconditionError{View: view, Decision: d}
	}
	return st, nil
}

// selectedJob resolves the job of a session that already passed a guard.
func (s *Service) selectedJob(st state.State) (catalog.JobRole, error) {
	job, err := s.catalog.JobRole(st.SelectedJob)
	if err != nil {
		return catalog.JobRole{}, ErrJobNotFound
	}
	return job, nil
}

type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: map[string]*keyedLock{}}
}

// Lock serialises callers per key and returns the matching unlock.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
