package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/lankaconnect-client/apierror"
)

// Auth endpoints never trigger a refresh, a 401 from them is a real answer.
var noRefreshPaths = []string{
	"/auth/login",
	"/auth/register",
	"/auth/refresh-token",
}

type requestOptions struct {
	headers     map[string]string
	timeout     time.Duration
	body        any
	skipRefresh bool
}

// RequestOption overrides settings for a single call.
type RequestOption func(*requestOptions)

func WithHeader(key, value string) RequestOption {
	return func(ro *requestOptions) {
		if ro.headers == nil {
			ro.headers = make(map[string]string)
		}
		ro.headers[key] = value
	}
}

// WithTimeout replaces the client timeout for this call.
func WithTimeout(d time.Duration) RequestOption {
	return func(ro *requestOptions) {
		ro.timeout = d
	}
}

// WithBody attaches a JSON body to a DELETE.
func WithBody(body any) RequestOption {
	return func(ro *requestOptions) {
		ro.body = body
	}
}

// WithoutRefresh disables the 401 refresh-and-retry for this call.
func WithoutRefresh() RequestOption {
	return func(ro *requestOptions) {
		ro.skipRefresh = true
	}
}

func newRequestOptions(opts []RequestOption) requestOptions {
	var ro requestOptions
	for _, opt := range opts {
		opt(&ro)
	}
	return ro
}

type payload struct {
	data        []byte
	contentType string
}

func jsonPayload(body any) (*payload, error) {
	if body == nil {
		return nil, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, apierror.New("Unable to encode request body", 0, err)
	}
	return &payload{data: data, contentType: "application/json"}, nil
}

type response struct {
	status int
	header http.Header
	body   []byte
}

func (c *Client) do(ctx context.Context, method, path string, p *payload, out any, opts []RequestOption) error {
	resp, err := c.exchange(ctx, method, path, p, newRequestOptions(opts), "application/json")
	if err != nil {
		return err
	}
	return decode(resp, out)
}

// exchange sends the request, retries once after a successful refresh on 401, and
// classifies any non-2xx answer.
func (c *Client) exchange(ctx context.Context, method, path string, p *payload, ro requestOptions, accept string) (*response, error) {
	resp, err := c.send(ctx, method, path, p, ro, accept)
	if err != nil {
		return nil, err
	}

	if resp.status == http.StatusUnauthorized && !ro.skipRefresh && !isNoRefreshPath(path) {
		refresher, onUnauthorized := c.hooks()
		retried := false
		if refresher != nil && c.AuthToken() != "" {
			token, rerr := refresher.Refresh(ctx)
			if rerr == nil && token != "" {
				if c.AuthToken() != token {
					c.SetAuthToken(token)
				}
				c.logger.Debug().Str("path", path).Msg("retrying request after token refresh")
				if resp, err = c.send(ctx, method, path, p, ro, accept); err != nil {
					return nil, err
				}
				retried = true
			} else {
				c.logger.Warn().Err(rerr).Msg("token refresh failed")
			}
		}
		if resp.status == http.StatusUnauthorized && onUnauthorized != nil {
			c.logger.Debug().Bool("retried", retried).Msg("unauthorized, notifying session")
			onUnauthorized()
		}
	}

	if resp.status < 200 || resp.status > 299 {
		return nil, classifyResponse(resp)
	}
	return resp, nil
}

func (c *Client) send(ctx context.Context, method, path string, p *payload, ro requestOptions, accept string) (*response, error) {
	timeout := c.cfg.Timeout
	if ro.timeout > 0 {
		timeout = ro.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if p != nil {
		body = bytes.NewReader(p.data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return nil, apierror.New("Unable to build request", 0, err)
	}

	req.Header.Set("Accept", accept)
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	for k, v := range c.cfg.Headers {
		req.Header.Set(k, v)
	}
	if p != nil && p.contentType != "" {
		req.Header.Set("Content-Type", p.contentType)
	}
	for k, v := range ro.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, networkError(ctx, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, networkError(ctx, err)
	}
	return &response{status: resp.StatusCode, header: resp.Header, body: data}, nil
}

func (c *Client) url(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.cfg.BaseURL + "/" + strings.TrimLeft(path, "/")
}

func isNoRefreshPath(path string) bool {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	path = strings.ToLower(strings.TrimRight(path, "/"))
	for _, p := range noRefreshPaths {
		if strings.HasSuffix(path, p) {
			return true
		}
	}
	return false
}

func networkError(ctx context.Context, err error) *apierror.Error {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return apierror.NewNetwork("Request timed out", err)
	case errors.Is(err, context.Canceled):
		return apierror.NewNetwork("Request cancelled", err)
	default:
		return apierror.NewNetwork("", err)
	}
}

func decode(resp *response, out any) error {
	if out == nil || len(bytes.TrimSpace(resp.body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return apierror.New("Invalid response from server", resp.status, err)
	}
	return nil
}
