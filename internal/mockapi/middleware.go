package mockapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/lankaconnect-client/internal/logging"
)

type contextKey string

const claimsKey contextKey = "claims"

func ChainMiddleware(routeFunction http.HandlerFunc, mw ...func(http.HandlerFunc) http.HandlerFunc) http.HandlerFunc {
	chainedHandler := routeFunction
	// Apply middleware in reverse order
	for i := len(mw) - 1; i >= 0; i-- {
		chainedHandler = mw[i](chainedHandler)
	}
	return chainedHandler
}

// standardMiddleware runs for every route. Calls are counted before the gate, so a
// held request is visible to WaitForCalls, and injected failures are answered after
// it, so a held request can still fail.
func (s *Server) standardMiddleware(route string) []func(http.HandlerFunc) http.HandlerFunc {
	return []func(http.HandlerFunc) http.HandlerFunc{
		s.LoggingMiddleware,
		s.RecoverMiddleware,
		s.control.countMiddleware(route),
		s.control.gateMiddleware(route),
		s.control.failureMiddleware(route),
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) LoggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next(rec, r)
		s.logger.Debug().
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msgf("[%s] %s%d%s %s", logging.ColourMethod(r.Method), logging.ColourStatus(rec.status), rec.status, logging.ResetColor, r.URL.Path)
	}
}

func (s *Server) RecoverMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("handler panicked")
				writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
			}
		}()
		next(w, r)
	}
}

// RequireAuth rejects requests without a valid, unrevoked bearer token.
func (s *Server) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "Authentication required.")
			return
		}
		s.mu.Lock()
		claims, err := s.tokens.parseAccessToken(token)
		s.mu.Unlock()
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token.")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	}
}

func claimsFrom(r *http.Request) *accessClaims {
	claims, _ := r.Context().Value(claimsKey).(*accessClaims)
	return claims
}
