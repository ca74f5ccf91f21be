// Package authstore owns the session state and mediates the login/logout
// protocol against an injected authenticator and login-record store.
package authstore

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/norun9/mobileshop/loginstore"
)

// SentinelUserID is the fixed identifier assigned to the demo user, both on
// login and when restoring a saved login record.
const SentinelUserID = "1"

// DefaultUserName is used when the login request carries no display name.
const DefaultUserName = "Test User"

// User-facing messages. The mismatch text is the storefront's original
// Portuguese copy.
const (
	ErrMsgInvalidCredentials = "Usuário ou senha incorretos."
	ErrMsgLoginFailed        = "An error occurred during login"
)

// User is the authenticated identity. There is a single active user at a
// time.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// State is the session snapshot. IsAuthenticated is true exactly when User
// is set; Err == "" means no error.
type State struct {
	User            *User  `json:"user"`
	IsAuthenticated bool   `json:"isAuthenticated"`
	IsLoading       bool   `json:"isLoading"`
	Err             string `json:"error,omitempty"`
}

// Store is the auth state container. Logins run through a four-state machine
// (idle, loading, authenticated, error): loading is always entered first and
// always exits to exactly one of authenticated or error.
type Store struct {
	mu    sync.RWMutex
	state State

	// loginMu serializes concurrent Login calls so one resolution fully
	// completes, including its persistence write, before the next begins.
	loginMu sync.Mutex

	auth   Authenticator
	logins loginstore.ILoginStore

	subMu   sync.Mutex
	subs    map[int]func()
	nextSub int
}

// New builds a store in the default unauthenticated state.
func New(auth Authenticator, logins loginstore.ILoginStore) *Store {
	return &Store{
		auth:   auth,
		logins: logins,
		subs:   make(map[int]func()),
	}
}

// Snapshot returns the current session state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Restore loads a previously saved login record and, if present, puts the
// store directly into the authenticated state with the sentinel user id. It
// is called once at startup, before the store serves any request.
func (s *Store) Restore(ctx context.Context) error {
	rec, err := s.logins.Load(ctx)
	if err != nil {
		return err
	}
	if rec == nil {
		return nil
	}

	s.setState(State{
		User:            &User{ID: SentinelUserID, Name: rec.Name, Email: rec.Email},
		IsAuthenticated: true,
	})
	return nil
}

// Login runs the credential check and resolves the session state. The
// loading state is entered immediately; on a match the user is set, on a
// mismatch the invalid-credentials message is set, and an authenticator
// failure collapses to a generic message. The login record is then saved or
// cleared as a side effect regardless of outcome. The resolved state is
// returned.
func (s *Store) Login(ctx context.Context, email, password, name string) State {
	s.loginMu.Lock()
	defer s.loginMu.Unlock()

	s.mutate(func(st *State) {
		st.IsLoading = true
		st.Err = ""
	})

	ok, err := s.auth.Authenticate(ctx, email, password)
	switch {
	case err != nil:
		log.Warnf("login: credential check failed: %v", err)
		s.mutate(func(st *State) {
			st.IsLoading = false
			st.Err = ErrMsgLoginFailed
		})
	case ok:
		if name == "" {
			name = DefaultUserName
		}
		s.setState(State{
			User:            &User{ID: SentinelUserID, Name: name, Email: email},
			IsAuthenticated: true,
		})
	default:
		s.mutate(func(st *State) {
			st.IsLoading = false
			st.Err = ErrMsgInvalidCredentials
		})
	}

	s.persist(ctx)
	return s.Snapshot()
}

// Logout unconditionally clears the user and the saved login record. It is
// idempotent; logging out while already logged out yields the same state.
func (s *Store) Logout(ctx context.Context) State {
	s.mutate(func(st *State) {
		st.User = nil
		st.IsAuthenticated = false
	})

	s.persist(ctx)
	return s.Snapshot()
}

// ClearError clears the error message and nothing else.
func (s *Store) ClearError() {
	s.mutate(func(st *State) {
		st.Err = ""
	})
}

// Subscribe registers fn to run after every completed state change. The
// returned function removes the subscription.
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// persist mirrors the session into the login-record store: authenticated
// sessions are saved, anything else deletes the record. Storage failures are
// logged, never surfaced.
func (s *Store) persist(ctx context.Context) {
	st := s.Snapshot()

	var err error
	if st.IsAuthenticated && st.User != nil {
		err = s.logins.Save(ctx, loginstore.Record{Email: st.User.Email, Name: st.User.Name})
	} else {
		err = s.logins.Clear(ctx)
	}
	if err != nil {
		log.Warnf("authstore: persist login record: %v", err)
	}
}

func (s *Store) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()

	s.notify()
}

func (s *Store) mutate(fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	s.mu.Unlock()

	s.notify()
}

func (s *Store) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
