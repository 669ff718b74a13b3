// internal/domain/identity/service.go
package identity

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-client/internal/infrastructure/storage"
	"github.com/your-org/storefront-client/internal/pkg/rest"
	"github.com/your-org/storefront-client/internal/signal"
)

// Session owns the authenticated/anonymous state of the runtime. The token is
// persisted so a restart resumes the previous login; the resolved identity is
// published on an observable state that the cart facade and reconciler watch.
type Session struct {
	mu     sync.Mutex
	rest   *rest.Client
	store  storage.KV
	state  *signal.Value[State]
	logger *logrus.Logger
	token  string
	epoch  uint64
}

// NewSession loads any persisted token and starts in the matching state. A
// token that is present but expired is discarded. Call Resume afterwards to
// turn a pending token into a resolved identity.
func NewSession(restClient *rest.Client, store storage.KV, logger *logrus.Logger) *Session {
	s := &Session{
		rest:   restClient,
		store:  store,
		logger: logger,
	}

	initial := State{}
	if data, ok, err := store.Get(storage.KeyAuthToken); err == nil && ok {
		token := string(data)
		if tokenUsable(token) {
			s.token = token
			initial = State{Authenticated: true}
		} else {
			logger.Info("discarding expired session token")
			if err := store.Delete(storage.KeyAuthToken); err != nil {
				logger.WithError(err).Warn("failed to delete expired token")
			}
		}
	} else if err != nil {
		logger.WithError(err).Warn("failed to read persisted token")
	}

	s.state = signal.NewValue(initial, logger)
	return s
}

// Token returns the current bearer token, or "" when anonymous. Matches the
// rest.TokenSource signature.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// State returns the current identity state
func (s *Session) State() State {
	return s.state.Get()
}

// Watch subscribes to identity state changes; the current state is delivered
// first. The returned cancel function releases the subscription.
func (s *Session) Watch(buffer int) (<-chan State, func()) {
	return s.state.Watch(buffer)
}

// Login authenticates against the auth service and publishes the resolved
// identity. The state is only published once /api/user/me has answered, so
// watchers never see an authenticated state with an unresolved user id.
func (s *Session) Login(ctx context.Context, login, password string) (*UserInfo, error) {
	var res jwtResponse
	err := s.rest.Do(ctx, http.MethodPost, "/api/auth/login", nil,
		LoginRequest{Login: login, Password: password}, &res)
	if err != nil {
		return nil, err
	}
	if res.Token == "" {
		return nil, fmt.Errorf("auth service returned an empty token")
	}

	s.mu.Lock()
	s.token = res.Token
	s.mu.Unlock()

	if err := s.store.Set(storage.KeyAuthToken, []byte(res.Token)); err != nil {
		s.logger.WithError(err).Warn("failed to persist session token")
	}

	info, err := s.fetchUserInfo(ctx)
	if err != nil {
		// Token without a resolvable user is useless; drop back to anonymous
		s.Logout()
		return nil, fmt.Errorf("failed to resolve user info: %w", err)
	}

	s.publishResolved(info)
	s.logger.WithFields(logrus.Fields{
		"user_id":  info.ID,
		"username": info.Username,
	}).Info("user logged in")

	return info, nil
}

// Signup registers a new account and logs it in, mirroring the signup flow of
// the web client.
func (s *Session) Signup(ctx context.Context, req SignupRequest) (*UserInfo, error) {
	if err := s.rest.Do(ctx, http.MethodPost, "/api/auth/signup", nil, req, nil); err != nil {
		return nil, err
	}
	return s.Login(ctx, req.Username, req.Password)
}

// Resume resolves a persisted token into a full identity. A failure clears
// the session. No-op when anonymous.
func (s *Session) Resume(ctx context.Context) error {
	if s.Token() == "" {
		return nil
	}

	info, err := s.fetchUserInfo(ctx)
	if err != nil {
		s.logger.WithError(err).Info("session resume failed, starting anonymous")
		s.Logout()
		return err
	}

	s.publishResolved(info)
	s.logger.WithField("user_id", info.ID).Info("session resumed")
	return nil
}

// Logout drops the token and publishes the anonymous state. Logout never
// merges cart state in any direction.
func (s *Session) Logout() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()

	if err := s.store.Delete(storage.KeyAuthToken); err != nil {
		s.logger.WithError(err).Warn("failed to delete persisted token")
	}

	s.state.Set(State{})
	s.logger.Info("user logged out")
}

// StorageKey derives the local-cart storage key from the current identity
func (s *Session) StorageKey() string {
	state := s.state.Get()
	if state.Resolved {
		return storage.UserCartKey(state.UserID)
	}
	return storage.KeyGuestCart
}

// UserByID fetches another user's public profile
func (s *Session) UserByID(ctx context.Context, id int64) (*UserInfo, error) {
	var info UserInfo
	path := fmt.Sprintf("/api/user/%d", id)
	if err := s.rest.Do(ctx, http.MethodGet, path, nil, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (s *Session) fetchUserInfo(ctx context.Context) (*UserInfo, error) {
	var info UserInfo
	if err := s.rest.Do(ctx, http.MethodGet, "/api/user/me", nil, nil, &info); err != nil {
		return nil, err
	}
	if info.ID == 0 {
		return nil, fmt.Errorf("auth service returned no user id")
	}
	return &info, nil
}

func (s *Session) publishResolved(info *UserInfo) {
	s.mu.Lock()
	s.epoch++
	epoch := s.epoch
	s.mu.Unlock()

	s.state.Set(State{
		Authenticated: true,
		Resolved:      true,
		UserID:        info.ID,
		Username:      info.Username,
		Email:         info.Email,
		Roles:         info.Roles,
		Epoch:         epoch,
	})
}

// tokenUsable decodes the token without verifying its signature (the secret
// lives in the auth service) just to skip tokens that are already expired.
func tokenUsable(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		// No expiry claim: let the auth service be the judge
		return true
	}
	return exp.After(time.Now())
}
