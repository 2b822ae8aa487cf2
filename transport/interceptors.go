package transport

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/lankaconnect-client/internal/logging"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

const RequestIDHeader = "X-Request-ID"

// Interceptor wraps a round tripper, the client-side counterpart of HTTP middleware.
type Interceptor func(http.RoundTripper) http.RoundTripper

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// ChainInterceptors wraps base so that mw[0] sees the request first.
func ChainInterceptors(base http.RoundTripper, mw ...Interceptor) http.RoundTripper {
	chained := base
	// Apply interceptors in reverse order
	for i := len(mw) - 1; i >= 0; i-- {
		chained = mw[i](chained)
	}
	return chained
}

// BearerInterceptor attaches the token returned by tokenFn. No token, no header.
func BearerInterceptor(tokenFn func() *oauth2.Token) Interceptor {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			tok := tokenFn()
			if tok == nil || tok.AccessToken == "" {
				return next.RoundTrip(r)
			}
			// RoundTrippers must not modify the caller's request
			r2 := r.Clone(r.Context())
			tok.SetAuthHeader(r2)
			return next.RoundTrip(r2)
		})
	}
}

// RequestIDInterceptor tags each request with a fresh X-Request-ID unless the caller set one.
func RequestIDInterceptor() Interceptor {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if r.Header.Get(RequestIDHeader) != "" {
				return next.RoundTrip(r)
			}
			r2 := r.Clone(r.Context())
			r2.Header.Set(RequestIDHeader, uuid.NewString())
			return next.RoundTrip(r2)
		})
	}
}

func LoggingInterceptor(logger zerolog.Logger, colours bool) Interceptor {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			method := r.Method
			if colours {
				method = logging.ColourMethod(method)
			}
			start := time.Now()
			resp, err := next.RoundTrip(r)
			elapsed := time.Since(start)

			if err != nil {
				logger.Warn().Err(err).
					Str("method", method).
					Str("url", r.URL.String()).
					Dur("elapsed", elapsed).
					Msg("request failed")
				return resp, err
			}

			ev := logger.Debug()
			if resp.StatusCode >= 500 {
				ev = logger.Warn()
			}
			ev.Str("method", method).
				Str("url", r.URL.String()).
				Int("status", resp.StatusCode).
				Dur("elapsed", elapsed).
				Str("request_id", r.Header.Get(RequestIDHeader)).
				Str("auth", logging.Redact(r.Header.Get("Authorization"))).
				Msg("request")
			return resp, nil
		})
	}
}
