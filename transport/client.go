// Package transport is the single point of outbound HTTP to the LankaConnect API.
// It attaches the bearer token, refreshes it once on a 401, and turns every
// failure into an *apierror.Error.
package transport

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jrsteele09/lankaconnect-client/internal/config"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// Config is fixed at construction.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	Headers   map[string]string
	UserAgent string
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		BaseURL: config.DefaultAPIURL,
		Timeout: config.DefaultAPITimeout,
	}
}

// Refresher obtains a new access token after a 401. Implementations are expected to
// install the new token on the client and to coalesce concurrent calls.
type Refresher interface {
	Refresh(ctx context.Context) (string, error)
}

// RefresherFunc adapts a function to Refresher.
type RefresherFunc func(ctx context.Context) (string, error)

func (f RefresherFunc) Refresh(ctx context.Context) (string, error) {
	return f(ctx)
}

type Client struct {
	cfg          Config
	httpClient   *http.Client
	logger       zerolog.Logger
	interceptors []Interceptor
	colours      bool

	mu             sync.RWMutex
	token          *oauth2.Token
	refresher      Refresher
	onUnauthorized func()
}

type Option func(*Client)

// WithHTTPClient uses hc's transport as the innermost round tripper. hc itself is not modified.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		clone := *hc
		c.httpClient = &clone
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithInterceptors adds interceptors inside the built-in ones, closest to the network.
func WithInterceptors(mw ...Interceptor) Option {
	return func(c *Client) {
		c.interceptors = append(c.interceptors, mw...)
	}
}

func WithRefresher(r Refresher) Option {
	return func(c *Client) {
		c.refresher = r
	}
}

func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) {
		c.onUnauthorized = fn
	}
}

// WithConsoleColours colours the HTTP method in request logs.
func WithConsoleColours(enabled bool) Option {
	return func(c *Client) {
		c.colours = enabled
	}
}

// New builds a client. Zero values in cfg fall back to DefaultConfig.
func New(cfg Config, opts ...Option) *Client {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}

	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	base := c.httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	mw := []Interceptor{
		RequestIDInterceptor(),
		BearerInterceptor(c.currentToken),
		LoggingInterceptor(c.logger, c.colours),
	}
	mw = append(mw, c.interceptors...)
	c.httpClient.Transport = ChainInterceptors(base, mw...)
	return c
}

func (c *Client) Config() Config {
	return c.cfg
}

// SetAuthToken attaches token as a bearer credential to every subsequent request.
func (c *Client) SetAuthToken(token string) {
	if token == "" {
		c.ClearAuthToken()
		return
	}
	c.SetToken(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
}

// SetToken is SetAuthToken with expiry information retained.
func (c *Client) SetToken(token *oauth2.Token) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) ClearAuthToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = nil
}

// AuthToken returns the current access token, or "".
func (c *Client) AuthToken() string {
	tok := c.currentToken()
	if tok == nil {
		return ""
	}
	return tok.AccessToken
}

// SetRefresher installs the 401 refresher after construction, for when it depends on the client.
func (c *Client) SetRefresher(r Refresher) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refresher = r
}

// SetUnauthorizedCallback is called when a 401 cannot be recovered by refreshing.
func (c *Client) SetUnauthorizedCallback(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

func (c *Client) currentToken() *oauth2.Token {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.token == nil || c.token.AccessToken == "" {
		return nil
	}
	return c.token
}

func (c *Client) hooks() (Refresher, func()) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refresher, c.onUnauthorized
}

func (c *Client) Get(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodGet, path, nil, out, opts)
}

func (c *Client) Post(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	p, err := jsonPayload(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, p, out, opts)
}

func (c *Client) Put(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	p, err := jsonPayload(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, path, p, out, opts)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	p, err := jsonPayload(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPatch, path, p, out, opts)
}

// Delete sends no body unless WithBody is given.
func (c *Client) Delete(ctx context.Context, path string, out any, opts ...RequestOption) error {
	ro := newRequestOptions(opts)
	var p *payload
	if ro.body != nil {
		var err error
		if p, err = jsonPayload(ro.body); err != nil {
			return err
		}
	}
	return c.do(ctx, http.MethodDelete, path, p, out, opts)
}

// API is the surface repositories depend on.
type API interface {
	Get(ctx context.Context, path string, out any, opts ...RequestOption) error
	Post(ctx context.Context, path string, body, out any, opts ...RequestOption) error
	Put(ctx context.Context, path string, body, out any, opts ...RequestOption) error
	Patch(ctx context.Context, path string, body, out any, opts ...RequestOption) error
	Delete(ctx context.Context, path string, out any, opts ...RequestOption) error
	PostMultipart(ctx context.Context, path string, form Form, out any, opts ...RequestOption) error
	PutMultipart(ctx context.Context, path string, form Form, out any, opts ...RequestOption) error
	Download(ctx context.Context, path string, opts ...RequestOption) (*Blob, error)
}

var _ API = (*Client)(nil)
