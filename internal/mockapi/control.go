package mockapi

import (
	"context"
	"net/http"
	"sync"
	"time"
)

type failure struct {
	status    int
	remaining int
}

// control holds the per-route test hooks. Routes are keyed by their registered
// pattern, e.g. "POST " + RouteEventRsvp.
type control struct {
	mu       sync.Mutex
	calls    map[string]int
	failures map[string]*failure
	gates    map[string]chan struct{}
}

func newControl() *control {
	return &control{
		calls:    make(map[string]int),
		failures: make(map[string]*failure),
		gates:    make(map[string]chan struct{}),
	}
}

func (c *control) countMiddleware(route string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			c.mu.Lock()
			c.calls[route]++
			c.mu.Unlock()
			next(w, r)
		}
	}
}

func (c *control) failureMiddleware(route string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			c.mu.Lock()
			f := c.failures[route]
			status := 0
			if f != nil && f.remaining > 0 {
				f.remaining--
				status = f.status
			}
			c.mu.Unlock()

			if status != 0 {
				writeError(w, status, http.StatusText(status))
				return
			}
			next(w, r)
		}
	}
}

func (c *control) gateMiddleware(route string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			c.mu.Lock()
			gate := c.gates[route]
			c.mu.Unlock()

			if gate != nil {
				select {
				case <-gate:
				case <-r.Context().Done():
					return
				}
			}
			next(w, r)
		}
	}
}

func (c *control) releaseAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for route, gate := range c.gates {
		close(gate)
		delete(c.gates, route)
	}
}

// Calls is the number of requests route has received, including failed and held ones.
func (s *Server) Calls(route string) int {
	s.control.mu.Lock()
	defer s.control.mu.Unlock()
	return s.control.calls[route]
}

func (s *Server) TotalCalls() int {
	s.control.mu.Lock()
	defer s.control.mu.Unlock()
	total := 0
	for _, n := range s.control.calls {
		total += n
	}
	return total
}

func (s *Server) ResetCalls() {
	s.control.mu.Lock()
	defer s.control.mu.Unlock()
	clear(s.control.calls)
}

// FailNext makes the next request to route answer with status.
func (s *Server) FailNext(route string, status int) {
	s.FailTimes(route, status, 1)
}

// FailTimes makes the next n requests to route answer with status.
func (s *Server) FailTimes(route string, status, n int) {
	s.control.mu.Lock()
	defer s.control.mu.Unlock()
	s.control.failures[route] = &failure{status: status, remaining: n}
}

// Hold blocks requests to route until the returned release is called. Release is
// idempotent and also runs when the test ends.
func (s *Server) Hold(route string) (release func()) {
	gate := make(chan struct{})
	s.control.mu.Lock()
	s.control.gates[route] = gate
	s.control.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.control.mu.Lock()
			defer s.control.mu.Unlock()
			if s.control.gates[route] == gate {
				delete(s.control.gates, route)
				close(gate)
			}
		})
	}
}

// WaitForCalls blocks until route has received at least n requests.
func (s *Server) WaitForCalls(ctx context.Context, route string, n int) error {
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for {
		if s.Calls(route) >= n {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
