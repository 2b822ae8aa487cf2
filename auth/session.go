package auth

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"sync"
	"time"

	"github.com/jrsteele09/lankaconnect-client/auth/sessions"
	"github.com/jrsteele09/lankaconnect-client/internal/errors"
	"github.com/jrsteele09/lankaconnect-client/transport"
	"github.com/jrsteele09/lankaconnect-client/users"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

// State is a copy of the session, safe to keep.
type State struct {
	User         *users.User
	AccessToken  string
	RefreshToken string
}

func (s State) IsAuthenticated() bool {
	return s.AccessToken != ""
}

// Session owns the signed-in user and their tokens. It keeps the transport's bearer
// token and the persisted store in step with memory, and refreshes the access token
// when the transport reports a 401.
type Session struct {
	client *transport.Client
	repo   *Repository
	store  sessions.Store
	logger zerolog.Logger
	now    func() time.Time

	mu           sync.RWMutex
	user         *users.User
	accessToken  string
	refreshToken string

	refreshes singleflight.Group
}

type SessionOption func(*Session)

func WithLogger(logger zerolog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithClock replaces time.Now for expiry checks.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		s.now = now
	}
}

// NewSession installs the session as client's refresher and unauthorized handler.
func NewSession(client *transport.Client, store sessions.Store, opts ...SessionOption) *Session {
	s := &Session{
		client: client,
		repo:   NewRepository(client),
		store:  store,
		logger: zerolog.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	client.SetRefresher(s)
	client.SetUnauthorizedCallback(s.onUnauthorized)
	return s
}

func (s *Session) Repository() *Repository {
	return s.repo
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := State{AccessToken: s.accessToken, RefreshToken: s.refreshToken}
	if s.user != nil {
		u := *s.user
		st.User = &u
	}
	return st
}

func (s *Session) IsAuthenticated() bool {
	return s.State().IsAuthenticated()
}

// User returns a copy of the signed-in user, or nil.
func (s *Session) User() *users.User {
	return s.State().User
}

// SetAuth installs a signed-in user. Memory and the transport are updated even
// when persisting fails, the returned error only reports the store.
func (s *Session) SetAuth(user users.User, accessToken, refreshToken string) error {
	s.mu.Lock()
	s.user = &user
	s.accessToken = accessToken
	s.refreshToken = refreshToken
	s.mu.Unlock()

	s.client.SetToken(s.bearer(accessToken, refreshToken))

	userJSON, err := json.Marshal(user)
	if err != nil {
		return errors.Wrapf(err, "encode user")
	}
	return s.persist(map[string]string{
		sessions.KeyAccessToken:  accessToken,
		sessions.KeyRefreshToken: refreshToken,
		sessions.KeyUser:         string(userJSON),
	})
}

func (s *Session) bearer(accessToken, refreshToken string) *oauth2.Token {
	tok := &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer", RefreshToken: refreshToken}
	if exp, err := TokenExpiry(accessToken); err == nil {
		tok.Expiry = exp
	}
	return tok
}

func (s *Session) persist(values map[string]string) error {
	var errs []error
	for _, key := range sessions.Keys {
		v, ok := values[key]
		if !ok {
			continue
		}
		var err error
		if v == "" {
			err = s.store.Remove(key)
		} else {
			err = s.store.Set(key, v)
		}
		if err != nil {
			errs = append(errs, errors.Wrapf(err, "persist %s", key))
		}
	}
	return stderrors.Join(errs...)
}

// Clear signs out locally: memory, the transport token and the store.
func (s *Session) Clear() error {
	s.reset()

	var errs []error
	for _, key := range sessions.Keys {
		if err := s.store.Remove(key); err != nil {
			errs = append(errs, errors.Wrapf(err, "remove %s", key))
		}
	}
	return stderrors.Join(errs...)
}

func (s *Session) reset() {
	s.mu.Lock()
	s.user = nil
	s.accessToken = ""
	s.refreshToken = ""
	s.mu.Unlock()
	s.client.ClearAuthToken()
}

// Rehydrate loads the persisted session, typically at startup. It reports whether a
// usable session was found. An expired access token is kept when a refresh token
// can renew it. Rehydrate never writes to the store.
func (s *Session) Rehydrate() (bool, error) {
	access, err := s.read(sessions.KeyAccessToken)
	if err != nil {
		return false, err
	}
	refresh, err := s.read(sessions.KeyRefreshToken)
	if err != nil {
		return false, err
	}
	rawUser, err := s.read(sessions.KeyUser)
	if err != nil {
		return false, err
	}

	if access == "" || (refresh == "" && IsExpired(access, s.now())) {
		s.reset()
		return false, nil
	}

	var user *users.User
	if rawUser != "" {
		var u users.User
		if err := json.Unmarshal([]byte(rawUser), &u); err != nil {
			s.logger.Warn().Err(err).Msg("ignoring unreadable persisted user")
		} else {
			user = &u
		}
	}

	s.mu.Lock()
	s.user = user
	s.accessToken = access
	s.refreshToken = refresh
	s.mu.Unlock()
	s.client.SetToken(s.bearer(access, refresh))
	return true, nil
}

// read maps a missing key to "".
func (s *Session) read(key string) (string, error) {
	v, err := s.store.Get(key)
	if errors.Is(err, errors.ErrKeyNotFound) {
		return "", nil
	}
	return v, err
}

// Login authenticates and installs the session. A failure to persist is logged,
// the login itself still succeeds.
func (s *Session) Login(ctx context.Context, req LoginRequest) (*users.User, error) {
	resp, err := s.repo.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.SetAuth(resp.User, resp.AccessToken, resp.RefreshToken); err != nil {
		s.logger.Warn().Err(err).Msg("session not persisted")
	}
	s.logger.Info().Str("user", resp.User.UserID).Msg("signed in")
	u := resp.User
	return &u, nil
}

// Logout revokes the refresh token on a best-effort basis, then always clears local state.
func (s *Session) Logout(ctx context.Context) error {
	st := s.State()
	if st.IsAuthenticated() {
		if err := s.repo.Logout(ctx, st.RefreshToken); err != nil {
			s.logger.Warn().Err(err).Msg("server logout failed, clearing local session anyway")
		}
	}
	return s.Clear()
}

// UpdateUser applies fn to a copy of the signed-in user and persists the result.
func (s *Session) UpdateUser(fn func(*users.User)) error {
	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return errors.ErrNotAuthenticated
	}
	u := *s.user
	fn(&u)
	s.user = &u
	s.mu.Unlock()

	userJSON, err := json.Marshal(u)
	if err != nil {
		return errors.Wrapf(err, "encode user")
	}
	return s.persist(map[string]string{sessions.KeyUser: string(userJSON)})
}

// Refresh exchanges the refresh token for a new access token. Concurrent callers
// share one request. On failure the session is cleared. Refresh implements
// transport.Refresher.
func (s *Session) Refresh(ctx context.Context) (string, error) {
	ch := s.refreshes.DoChan("refresh", func() (any, error) {
		return s.refresh(context.WithoutCancel(ctx))
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (s *Session) refresh(ctx context.Context) (string, error) {
	st := s.State()
	if st.RefreshToken == "" {
		if err := s.Clear(); err != nil {
			s.logger.Warn().Err(err).Msg("clearing session")
		}
		return "", errors.ErrNoRefreshToken
	}

	resp, err := s.repo.RefreshToken(ctx, st.RefreshToken)
	if err == nil && resp.AccessToken == "" {
		err = errors.Wrapf(errors.ErrInvalidToken, "refresh returned no access token")
	}
	if err != nil {
		s.logger.Warn().Err(err).Msg("token refresh failed, clearing session")
		if cerr := s.Clear(); cerr != nil {
			s.logger.Warn().Err(cerr).Msg("clearing session")
		}
		return "", err
	}

	refresh := resp.RefreshToken
	if refresh == "" {
		refresh = st.RefreshToken
	}

	s.mu.Lock()
	s.accessToken = resp.AccessToken
	s.refreshToken = refresh
	s.mu.Unlock()
	s.client.SetToken(s.bearer(resp.AccessToken, refresh))

	if err := s.persist(map[string]string{
		sessions.KeyAccessToken:  resp.AccessToken,
		sessions.KeyRefreshToken: refresh,
	}); err != nil {
		s.logger.Warn().Err(err).Msg("refreshed token not persisted")
	}
	s.logger.Debug().Msg("access token refreshed")
	return resp.AccessToken, nil
}

// EnsureFresh refreshes ahead of expiry, so a request does not have to fail first.
func (s *Session) EnsureFresh(ctx context.Context) error {
	st := s.State()
	if !st.IsAuthenticated() {
		return errors.ErrNotAuthenticated
	}
	if !NeedsRefresh(st.AccessToken, s.now()) {
		return nil
	}
	_, err := s.Refresh(ctx)
	return err
}

// WatchStore rehydrates whenever the store changes underneath this process, for
// example a login in another terminal. It blocks until ctx is done.
func (s *Session) WatchStore(ctx context.Context) error {
	w, ok := s.store.(sessions.Watcher)
	if !ok {
		return errors.Wrapf(errors.ErrUnsupported, "store cannot be watched")
	}
	return w.Watch(ctx, func() {
		if _, err := s.Rehydrate(); err != nil {
			s.logger.Warn().Err(err).Msg("rehydrating session after store change")
		}
	})
}

func (s *Session) onUnauthorized() {
	if !s.IsAuthenticated() {
		return
	}
	s.logger.Info().Msg("session rejected by server, signing out")
	if err := s.Clear(); err != nil {
		s.logger.Warn().Err(err).Msg("clearing session")
	}
}

var _ transport.Refresher = (*Session)(nil)
