// Package session tracks the signed-in state of a client process. It wraps
// an API backend and exposes a snapshot that moves through three phases:
// loading while a persisted token is being checked, then anonymous or
// authenticated. Subscribers are notified synchronously on every change.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/findithq/findit/internal/client"
	"github.com/findithq/findit/internal/model"
)

// Phase is the lifecycle stage of a session.
type Phase int

const (
	// PhaseLoading means a persisted token is still being verified.
	PhaseLoading Phase = iota
	// PhaseAnonymous means no profile is signed in.
	PhaseAnonymous
	// PhaseAuthenticated means a profile is signed in.
	PhaseAuthenticated
)

// String returns the phase name for logs.
func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseAnonymous:
		return "anonymous"
	case PhaseAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Snapshot is an immutable view of the session at one moment. The profile is
// only set while authenticated.
type Snapshot struct {
	Phase   Phase
	Profile *model.Profile
}

// Backend is the slice of the API client the store needs. *client.Client
// satisfies it.
type Backend interface {
	Login(ctx context.Context, email, password string) (*client.Session, error)
	Register(ctx context.Context, email, password, fullName, phone string) (*client.Session, error)
	Logout(ctx context.Context) error
	Session(ctx context.Context) (*model.Profile, error)
	SetToken(token string)
	Token() string
}

// Store holds the current session snapshot and notifies subscribers when it
// changes. Safe for concurrent use.
type Store struct {
	backend Backend

	// notifyMu serializes snapshot changes together with their notifications,
	// so two concurrent mutations cannot interleave subscriber callbacks. It
	// is separate from mu so a subscriber may call Snapshot.
	notifyMu sync.Mutex

	mu     sync.Mutex
	snap   Snapshot
	gen    uint64
	nextID int
	subs   map[int]func(Snapshot)
}

// New creates a store in the loading phase. Call Restore to resolve it.
func New(backend Backend) *Store {
	return &Store{
		backend: backend,
		snap:    Snapshot{Phase: PhaseLoading},
		subs:    make(map[int]func(Snapshot)),
	}
}

// Snapshot returns the current session state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// IsAdmin reports whether the signed-in profile has admin access. It is
// false in every other state, including while loading.
func (s *Store) IsAdmin() bool {
	snap := s.Snapshot()
	return snap.Phase == PhaseAuthenticated && snap.Profile != nil && snap.Profile.IsAdmin
}

// Subscribe registers fn to be called synchronously with every snapshot
// change, starting with the next one. The returned function unsubscribes.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Restore resolves the loading phase using the backend's persisted token. A
// missing, expired, or revoked token ends anonymous with the token cleared.
// If a sign-out happens while the check is in flight its result is discarded.
func (s *Store) Restore(ctx context.Context) error {
	if s.backend.Token() == "" {
		s.set(Snapshot{Phase: PhaseAnonymous})
		return nil
	}

	s.mu.Lock()
	started := s.gen
	s.mu.Unlock()

	profile, err := s.backend.Session(ctx)

	s.mu.Lock()
	stale := s.gen != started
	s.mu.Unlock()
	if stale {
		return nil
	}

	if err != nil {
		s.backend.SetToken("")
		s.set(Snapshot{Phase: PhaseAnonymous})
		if err == client.ErrUnauthenticated {
			return nil
		}
		return err
	}

	s.set(Snapshot{Phase: PhaseAuthenticated, Profile: profile})
	return nil
}

// SignIn authenticates with email and password.
func (s *Store) SignIn(ctx context.Context, email, password string) (*model.Profile, error) {
	sess, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	s.backend.SetToken(sess.Token)
	s.set(Snapshot{Phase: PhaseAuthenticated, Profile: sess.Profile})
	return sess.Profile, nil
}

// SignUp registers a new account and signs it in.
func (s *Store) SignUp(ctx context.Context, email, password, fullName, phone string) (*model.Profile, error) {
	sess, err := s.backend.Register(ctx, email, password, fullName, phone)
	if err != nil {
		return nil, err
	}
	s.backend.SetToken(sess.Token)
	s.set(Snapshot{Phase: PhaseAuthenticated, Profile: sess.Profile})
	return sess.Profile, nil
}

// SignOut ends the session. The local state is cleared first and always,
// then the token is revoked server-side on a best-effort basis. A remote
// failure is logged, never surfaced: the user asked to be signed out, and
// they are.
func (s *Store) SignOut(ctx context.Context) {
	s.mu.Lock()
	s.gen++
	s.mu.Unlock()

	hadToken := s.backend.Token() != ""
	s.set(Snapshot{Phase: PhaseAnonymous})

	if hadToken {
		if err := s.backend.Logout(ctx); err != nil {
			slog.Warn("remote sign-out failed, token revoked locally only", "error", err)
		}
		s.backend.SetToken("")
	}
}

// set replaces the snapshot and notifies subscribers before returning. The
// change and its notifications form one atomic unit: until every subscriber
// has been called, no other mutation can replace the snapshot.
func (s *Store) set(snap Snapshot) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	s.snap = snap
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
