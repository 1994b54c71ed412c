package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"

	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/core/role"
	"github.com/salonas/OrquestaDeCobquecuraWEB-sub001/storage/local"
)

var ErrInvalidRole = errors.New("tipo de usuario inválido")

// Authenticator is the external authentication endpoint.
type Authenticator interface {
	// Login exchanges credentials for a token and the user record.
	Login(ctx context.Context, email, password string, r role.Role) (token string, usr User, err error)
	// Verify succeeds when token is still valid.
	Verify(ctx context.Context, token string) error
}

type LoginForm struct {
	Email    string    `json:"email" validate:"required,email"`
	Password string    `json:"password" validate:"required"`
	Role     role.Role `json:"userType" validate:"required"`
}

// Store owns the current Session. No other component mutates it.
type Store struct {
	mu      sync.RWMutex
	current *Session

	auth      Authenticator
	storage   local.Store
	validator *core.Validator
	logger    core.Logger

	listeners []Listener
}

func NewStore(auth Authenticator, storage local.Store, logger core.Logger) *Store {
	return &Store{
		auth:      auth,
		storage:   storage,
		validator: core.NewValidator(),
		logger:    logger,
	}
}

// Current returns the session, if any.
func (s *Store) Current() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}

// Role returns the role of the current session ("" when logged out).
func (s *Store) Role() role.Role {
	if sess, ok := s.Current(); ok {
		return sess.User.Role
	}
	return ""
}

// Token returns the current credential ("" when logged out).
func (s *Store) Token() string {
	if sess, ok := s.Current(); ok {
		return sess.Token
	}
	return ""
}

// DefaultRoute is where the user lands after login.
func (s *Store) DefaultRoute() string {
	if sess, ok := s.Current(); ok {
		return role.DashboardPath(sess.User.Role)
	}
	return "/login"
}

// Listener is notified after every session change.
type Listener func(sess Session, loggedIn bool)

// OnChange registers fn to be called after every login and logout.
func (s *Store) OnChange(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Login authenticates against the backend. On success the credential and user record are
// persisted and the in-memory session is set.
func (s *Store) Login(ctx context.Context, email, password string, r role.Role) (User, error) {
	form := LoginForm{Email: core.CleanString(email, true), Password: password, Role: r}
	if err := s.validator.Struct(form); err != nil {
		return User{}, err
	}
	if !r.Valid() {
		return User{}, ErrInvalidRole
	}

	token, usr, err := s.auth.Login(ctx, form.Email, form.Password, r)
	if err != nil {
		if core.IsConnectionError(err) {
			return User{}, core.ErrConnection
		}
		return User{}, err
	}
	if usr.Role == "" {
		usr.Role = r
	}

	if err := s.persist(token, usr); err != nil {
		s.logger.Error("could not persist session", err, usr)
	}
	s.set(&Session{User: usr, Token: token})
	s.logger.Info("logged in", usr)
	return usr, nil
}

// Logout clears the session from memory and local storage. It never touches the network.
func (s *Store) Logout() {
	s.clear()
}

// Expire drops the session after the backend rejected its credential.
func (s *Store) Expire() {
	if _, ok := s.Current(); !ok {
		return
	}
	s.logger.Info("session expired")
	s.clear()
}

// Restore loads a persisted session, if both token and user exist, and makes it current
// immediately. The credential is then verified in the background; the returned channel is
// closed once verification is over (nil when nothing was restored). A failed verification
// silently logs the user out.
func (s *Store) Restore(ctx context.Context) (bool, <-chan struct{}) {
	sess, ok := s.load()
	if !ok {
		return false, nil
	}
	s.set(&sess)

	done := make(chan struct{})
	go func() {
		defer close(done)
		err := s.auth.Verify(ctx, sess.Token)
		if err == nil {
			return
		}
		s.logger.Debug("restored session rejected", err)

		// never drop a session created while verifying
		s.clearIf(sess.Token)
	}()
	return true, done
}

func (s *Store) load() (Session, bool) {
	token, ok, err := s.storage.Get(TokenKey)
	if err != nil || !ok || token == "" {
		return Session{}, false
	}
	raw, ok, err := s.storage.Get(UserKey)
	if err != nil || !ok {
		return Session{}, false
	}
	var usr User
	if err := json.Unmarshal([]byte(raw), &usr); err != nil {
		s.logger.Debug("discarding malformed persisted user", err)
		return Session{}, false
	}
	return Session{User: usr, Token: token}, true
}

func (s *Store) persist(token string, usr User) error {
	raw, err := json.Marshal(usr)
	if err != nil {
		return errors.Wrap(err, "encoding user")
	}
	if err := s.storage.Set(TokenKey, token); err != nil {
		return errors.Wrap(err, "saving token")
	}
	return errors.Wrap(s.storage.Set(UserKey, string(raw)), "saving user")
}

func (s *Store) clear() {
	s.clearIf("")
}

// clearIf drops the session; when token is set, only if it is still the current credential.
func (s *Store) clearIf(token string) {
	s.mu.Lock()
	if token != "" && (s.current == nil || s.current.Token != token) {
		s.mu.Unlock()
		return
	}
	if err := s.storage.Remove(TokenKey, UserKey); err != nil {
		s.logger.Error("could not clear persisted session", err)
	}
	s.current = nil
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(Session{}, false)
	}
}

func (s *Store) set(sess *Session) {
	s.mu.Lock()
	s.current = sess
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	var v Session
	if sess != nil {
		v = *sess
	}
	for _, fn := range listeners {
		fn(v, sess != nil)
	}
}
