package config

import (
	"strconv"
	"strings"
	"time"
)

const (
	apiURLVar     = "LANKACONNECT_API_URL"
	apiTimeoutVar = "LANKACONNECT_API_TIMEOUT"

	DefaultAPIURL     = "http://localhost:5000/api"
	DefaultAPITimeout = 30 * time.Second
)

type APIConfig interface {
	GetAPIBaseURL() string
	GetAPITimeout() time.Duration
}

type API struct {
	sources
}

var _ APIConfig = API{}

// GetAPIBaseURL returns the API root without a trailing slash (e.g., "https://api.lankaconnect.com/api")
func (a API) GetAPIBaseURL() string {
	url := a.resolve(a.overrides.APIURL, apiURLVar, a.file.APIURL, DefaultAPIURL)
	return strings.TrimRight(url, "/")
}

// GetAPITimeout accepts a Go duration ("45s") or a bare number of milliseconds ("30000").
func (a API) GetAPITimeout() time.Duration {
	raw := a.resolve(a.overrides.APITimeout, apiTimeoutVar, a.file.APITimeout, "")
	if raw == "" {
		return DefaultAPITimeout
	}
	if ms, err := strconv.Atoi(raw); err == nil && ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	return DefaultAPITimeout
}
