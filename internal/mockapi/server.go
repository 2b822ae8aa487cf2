// Package mockapi is an in-memory LankaConnect backend for tests. It serves the
// same routes and payloads as the real API, issues signed tokens, and lets a test
// count calls per route, inject failures, and hold requests until released.
package mockapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/lankaconnect-client/events"
	"github.com/jrsteele09/lankaconnect-client/internal/logging"
	"github.com/rs/zerolog"
)

type Server struct {
	mux     *http.ServeMux
	routes  []string
	logger  zerolog.Logger
	now     func() time.Time
	control *control

	accessTTL  time.Duration
	refreshTTL time.Duration

	mu            sync.Mutex
	tokens        *tokenIssuer
	accounts      map[string]*account // by user ID
	emails        map[string]string   // lower-case email to user ID
	events        map[string]*events.Event
	registrations map[string]map[string]*events.Registration // event ID, then user ID or anon:email
	waiting       map[string][]events.WaitingListEntry
	signUps       map[string][]*events.SignUpList // by event ID, in creation order
	notifications map[string][]events.NotificationHistory
	resetTokens   map[string]string // email to reset token
	verifyTokens  map[string]string // user ID to verification token
}

type Option func(*Server)

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithClock replaces time.Now for token issue and expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

func WithAccessTokenTTL(d time.Duration) Option {
	return func(s *Server) {
		s.accessTTL = d
	}
}

func WithRefreshTokenTTL(d time.Duration) Option {
	return func(s *Server) {
		s.refreshTTL = d
	}
}

func New(opts ...Option) (*Server, error) {
	s := &Server{
		mux:           http.NewServeMux(),
		logger:        zerolog.Nop(),
		now:           time.Now,
		control:       newControl(),
		accessTTL:     time.Hour,
		refreshTTL:    7 * 24 * time.Hour,
		accounts:      make(map[string]*account),
		emails:        make(map[string]string),
		events:        make(map[string]*events.Event),
		registrations: make(map[string]map[string]*events.Registration),
		waiting:       make(map[string][]events.WaitingListEntry),
		signUps:       make(map[string][]*events.SignUpList),
		notifications: make(map[string][]events.NotificationHistory),
		resetTokens:   make(map[string]string),
		verifyTokens:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}

	tokens, err := newTokenIssuer(s.now, s.accessTTL, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	s.tokens = tokens

	s.initRoutes()
	s.logRoutes()
	return s, nil
}

// Start serves s on a local listener that is closed when the test ends. Use
// ts.URL + BasePath as the client's base URL.
func Start(t testing.TB, opts ...Option) (*Server, *httptest.Server) {
	t.Helper()
	s, err := New(opts...)
	if err != nil {
		t.Fatalf("mockapi: %v", err)
	}
	ts := httptest.NewServer(s)
	t.Cleanup(func() {
		s.control.releaseAll()
		ts.Close()
	})
	return s, ts
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// RegisterRouteFunc registers handler behind the standard middleware chain.
// pattern is "METHOD /path", the same string the control API takes.
func (s *Server) RegisterRouteFunc(pattern string, handler http.HandlerFunc, mw ...func(http.HandlerFunc) http.HandlerFunc) {
	s.routes = append(s.routes, pattern)
	chain := append(s.standardMiddleware(pattern), mw...)
	s.mux.HandleFunc(pattern, ChainMiddleware(handler, chain...))
}

func (s *Server) logRoutes() {
	for _, route := range s.routes {
		method, path, _ := strings.Cut(route, " ")
		s.logger.Debug().Msgf("[%s] %s", logging.ColourMethod(method), path)
	}
}
