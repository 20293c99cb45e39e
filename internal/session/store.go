// Package session holds the current user's session: it hydrates it from
// durable storage at startup, replaces it on login and registration, and
// clears it on logout. A Store is the client.TokenSource for gated API calls.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fintracker/fintrack/internal/logging"
	"github.com/fintracker/fintrack/internal/storage"
	"github.com/fintracker/fintrack/pkg/client"
	"github.com/fintracker/fintrack/pkg/domain"
)

// StorageKey is the fixed name of the persisted session record.
const StorageKey = "user"

// MinPasswordLen is the shortest password accepted at registration.
const MinPasswordLen = 6

// AuthAPI is the subset of the API client the store needs.
type AuthAPI interface {
	Login(ctx context.Context, req client.LoginRequest) (*domain.Session, error)
	Register(ctx context.Context, req client.RegisterRequest) (*domain.Session, error)
	Profile(ctx context.Context) (*domain.User, error)
}

// Credentials are the login form fields.
type Credentials struct {
	Email    string
	Password string
}

// Profile are the registration form fields.
type Profile struct {
	Name     string
	Email    string
	Password string
	Confirm  string
}

// Store is the explicitly constructed session holder. It is safe for
// concurrent use by UI commands.
type Store struct {
	mu      sync.RWMutex
	current *domain.Session
	records storage.Store
	api     AuthAPI
	log     logging.Logger
	now     func() time.Time
}

// New creates an anonymous store. Call Hydrate to restore a persisted session.
func New(records storage.Store, api AuthAPI, log logging.Logger) *Store {
	if log == nil {
		log = logging.Nop()
	}
	return &Store{
		records: records,
		api:     api,
		log:     log.With("component", "session"),
		now:     time.Now,
	}
}

// SetAPI wires the auth API after construction, for callers whose API
// client needs the store as its token source.
func (s *Store) SetAPI(api AuthAPI) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.api = api
}

// Hydrate restores the persisted session. A missing or malformed record
// leaves the store anonymous; a malformed record is also removed. The only
// error returned is a storage failure, and the store is anonymous then too.
func (s *Store) Hydrate(ctx context.Context) error {
	raw, err := s.records.Get(ctx, StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		s.set(nil)
		return nil
	}
	if err != nil {
		s.set(nil)
		return fmt.Errorf("session.Hydrate: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal(raw, &sess); err != nil || !sess.Authenticated() {
		s.log.Warn(ctx, "discarding unreadable session record", "err", err)
		s.set(nil)
		if delErr := s.records.Delete(ctx, StorageKey); delErr != nil {
			s.log.Error(ctx, "delete session record", "err", delErr)
		}
		return nil
	}

	s.set(&sess)
	if exp, ok := tokenExpiry(sess.Token); ok && exp.Before(s.now()) {
		s.log.Warn(ctx, "stored token has expired", "user", sess.Email, "expired_at", exp)
	}
	s.log.Info(ctx, "session restored", "user", sess.Email, "role", sess.Role)
	return nil
}

// Login authenticates and persists the returned session. On failure nothing
// is persisted and the current session is unchanged.
func (s *Store) Login(ctx context.Context, c Credentials) (domain.Session, error) {
	c.Email = strings.TrimSpace(c.Email)
	if c.Email == "" {
		return domain.Session{}, &ValidationError{Field: "email", Message: "Email is required"}
	}
	if c.Password == "" {
		return domain.Session{}, &ValidationError{Field: "password", Message: "Password is required"}
	}

	sess, err := s.authAPI().Login(ctx, client.LoginRequest{Email: c.Email, Password: c.Password})
	if err != nil {
		s.log.Info(ctx, "login failed", "user", c.Email, "err", err)
		return domain.Session{}, newAuthError(err, "Login failed")
	}
	if err := s.persist(ctx, sess); err != nil {
		return domain.Session{}, fmt.Errorf("session.Login: %w", err)
	}
	s.log.Info(ctx, "logged in", "user", sess.Email, "role", sess.Role)
	return *sess, nil
}

// Register validates the profile locally, creates the account and persists
// the returned session. Validation failures never reach the network.
func (s *Store) Register(ctx context.Context, p Profile) (domain.Session, error) {
	if err := ValidateProfile(p); err != nil {
		return domain.Session{}, err
	}

	sess, err := s.authAPI().Register(ctx, client.RegisterRequest{
		Name:     strings.TrimSpace(p.Name),
		Email:    strings.TrimSpace(p.Email),
		Password: p.Password,
	})
	if err != nil {
		s.log.Info(ctx, "registration failed", "user", p.Email, "err", err)
		return domain.Session{}, newAuthError(err, "Registration failed")
	}
	if err := s.persist(ctx, sess); err != nil {
		return domain.Session{}, fmt.Errorf("session.Register: %w", err)
	}
	s.log.Info(ctx, "registered", "user", sess.Email)
	return *sess, nil
}

// Logout forgets the session locally. There is no server round-trip.
func (s *Store) Logout(ctx context.Context) error {
	s.set(nil)
	if err := s.records.Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("session.Logout: %w", err)
	}
	s.log.Info(ctx, "logged out")
	return nil
}

// Current returns a copy of the session and whether one exists.
func (s *Store) Current() (domain.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return domain.Session{}, false
	}
	return *s.current, true
}

// IsAdmin reports whether the current session carries the admin role.
func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.HasRole(s.current, domain.RoleAdmin)
}

// Token implements client.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.Token
}

// Profile fetches the current user's profile from the API.
func (s *Store) Profile(ctx context.Context) (*domain.User, error) {
	u, err := s.authAPI().Profile(ctx)
	if err != nil {
		return nil, fmt.Errorf("session.Profile: %w", err)
	}
	return u, nil
}

// TokenExpiry returns the expiry encoded in the bearer token, if any. The
// token is not verified; the server remains the authority.
func (s *Store) TokenExpiry() (time.Time, bool) {
	return tokenExpiry(s.Token())
}

func (s *Store) authAPI() AuthAPI {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.api
}

func (s *Store) set(sess *domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = sess
}

func (s *Store) persist(ctx context.Context, sess *domain.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.records.Put(ctx, StorageKey, raw); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	s.set(sess)
	return nil
}

func tokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
