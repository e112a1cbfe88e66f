// Package services contains the client-side state stores of GophStorage:
// the session store (identity and bearer token, persisted locally), the file
// collection store and the dashboard store. The view layer (the CLI) reads
// their snapshots and calls their operations; it never talks to the API
// directly.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophstorage/internal/client/client"
	"github.com/dmitrijs2005/gophstorage/internal/client/models"
	"github.com/dmitrijs2005/gophstorage/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophstorage/internal/common"
	"github.com/dmitrijs2005/gophstorage/internal/logging"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// SessionStore owns the single authenticated session.
//
// Contract:
//   - Init: restore a persisted session. Idempotent; every other operation
//     runs it lazily.
//   - Login: authenticate, persist token and user together, become
//     authenticated. On failure the state is left as it was.
//   - Register: create an account. Does not sign in.
//   - Logout: drop the persisted token and user together. No network call.
//   - Token: the bearer token for authorized requests, or
//     client.ErrNotAuthenticated.
type SessionStore interface {
	oauth2.TokenSource

	Init(ctx context.Context) error
	Login(ctx context.Context, email string, password []byte) (*models.Session, error)
	Register(ctx context.Context, name, email string, password []byte) (*models.User, error)
	Logout(ctx context.Context) error

	// Session returns a copy of the current session, or nil.
	Session() *models.Session
	IsAuthenticated() bool
}

type sessionStore struct {
	auth   client.AuthAPI
	store  metadata.Store
	logger logging.Logger

	mu          sync.RWMutex
	initialized bool
	session     *models.Session
}

// NewSessionStore builds a SessionStore that authenticates through auth and
// persists into store.
func NewSessionStore(auth client.AuthAPI, store metadata.Store, logger logging.Logger) SessionStore {
	if logger == nil {
		logger = logging.Discard()
	}
	return &sessionStore{auth: auth, store: store, logger: logger}
}

func (s *sessionStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initLocked(ctx)
}

func (s *sessionStore) initLocked(ctx context.Context) error {
	if s.initialized {
		return nil
	}

	token, err := s.store.Get(ctx, common.TokenStorageKey)
	if err != nil {
		return fmt.Errorf("read persisted token: %w", err)
	}
	rawUser, err := s.store.Get(ctx, common.UserStorageKey)
	if err != nil {
		return fmt.Errorf("read persisted user: %w", err)
	}
	s.initialized = true

	if len(token) == 0 || len(rawUser) == 0 {
		return nil
	}

	var u models.User
	if err := json.Unmarshal(rawUser, &u); err != nil {
		s.logger.Warn(ctx, "persisted user is unreadable, staying signed out", "error", err)
		return nil
	}

	s.session = newSession(string(token), u)
	s.logger.Debug(ctx, "session restored", "user_id", u.UserID)
	return nil
}

// Login replaces the current session on success. A failed login returns the
// server's error and keeps whatever session was already there.
func (s *sessionStore) Login(ctx context.Context, email string, password []byte) (*models.Session, error) {
	// The store lock is not held across the network call.
	if err := s.Init(ctx); err != nil {
		return nil, err
	}

	token, user, err := s.auth.Login(ctx, email, password)
	if err != nil {
		s.logger.Info(ctx, "login failed", "email", email, "error", err)
		return nil, err
	}

	session := newSession(token, *user)
	persisted := session.User()

	rawUser, err := json.Marshal(persisted)
	if err != nil {
		return nil, fmt.Errorf("encode user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.store.Atomically(ctx, func(ctx context.Context, r metadata.Repository) error {
		if err := r.Set(ctx, common.TokenStorageKey, []byte(token)); err != nil {
			return err
		}
		return r.Set(ctx, common.UserStorageKey, rawUser)
	})
	if err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.session = session
	s.logger.Info(ctx, "logged in", "user_id", session.UserID)

	cp := *session
	return &cp, nil
}

func (s *sessionStore) Register(ctx context.Context, name, email string, password []byte) (*models.User, error) {
	u, err := s.auth.Register(ctx, name, email, password)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "registered", "user_id", u.UserID)
	return u, nil
}

func (s *sessionStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, common.TokenStorageKey, common.UserStorageKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	s.initialized = true
	s.session = nil
	s.logger.Info(ctx, "logged out")
	return nil
}

func (s *sessionStore) Session() *models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil
	}
	cp := *s.session
	return &cp
}

func (s *sessionStore) IsAuthenticated() bool {
	return s.Session() != nil
}

// Token implements oauth2.TokenSource. The expiry is left unset: the
// server alone decides whether a token is still acceptable.
func (s *sessionStore) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.initLocked(context.Background()); err != nil {
		return nil, err
	}
	if s.session == nil {
		return nil, client.ErrNotAuthenticated
	}
	return &oauth2.Token{AccessToken: s.session.Token, TokenType: "Bearer"}, nil
}

// newSession fills the gaps of u from the token's claims. The signature is
// not checked: the claims are only read for display and expiry hints.
func newSession(token string, u models.User) *models.Session {
	session := models.NewSession(token, u)

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return session
	}

	if session.UserID == "" {
		session.UserID = claimString(claims, "user_id")
	}
	if session.UserEmail == "" {
		session.UserEmail = claimString(claims, "user_email")
	}
	if session.UserName == "" {
		session.UserName = claimString(claims, "user_name")
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		session.ExpiresAt = exp.Time.In(time.Local)
	}
	return session
}

// requireSession restores a persisted session if needed and reports
// client.ErrNotAuthenticated when there is none.
func requireSession(ctx context.Context, session SessionStore) error {
	if err := session.Init(ctx); err != nil {
		return err
	}
	if !session.IsAuthenticated() {
		return client.ErrNotAuthenticated
	}
	return nil
}

func claimString(claims jwt.MapClaims, key string) string {
	v, _ := claims[key].(string)
	return v
}
