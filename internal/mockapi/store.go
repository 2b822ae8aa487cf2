package mockapi

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/lankaconnect-client/events"
	"github.com/jrsteele09/lankaconnect-client/internal/errors"
	"github.com/jrsteele09/lankaconnect-client/users"
	"golang.org/x/crypto/bcrypt"
)

type account struct {
	user         users.User
	passwordHash []byte
	verified     bool
}

// SeedUser describes an account to create directly, bypassing registration.
type SeedUser struct {
	Email              string
	Password           string
	FirstName          string
	LastName           string
	Role               users.Role
	SubscriptionStatus users.SubscriptionStatus
}

func hashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
}

// AddUser creates a verified account and returns its profile.
func (s *Server) AddUser(seed SeedUser) (users.User, error) {
	hash, err := hashPassword(seed.Password)
	if err != nil {
		return users.User{}, errors.Wrapf(err, "hash password")
	}
	if seed.Role == "" {
		seed.Role = users.RoleGeneralUser
	}
	if seed.SubscriptionStatus == "" {
		seed.SubscriptionStatus = users.SubscriptionNone
	}
	u := users.User{
		UserID:             uuid.NewString(),
		Email:              seed.Email,
		FirstName:          seed.FirstName,
		LastName:           seed.LastName,
		FullName:           strings.TrimSpace(seed.FirstName + " " + seed.LastName),
		Role:               seed.Role,
		SubscriptionStatus: seed.SubscriptionStatus,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.emails[strings.ToLower(seed.Email)]; exists {
		return users.User{}, errors.Wrapf(errors.ErrInvalidArgument, "email %s already registered", seed.Email)
	}
	s.putAccountLocked(&account{user: u, passwordHash: hash, verified: true})
	return u, nil
}

func (s *Server) putAccountLocked(a *account) {
	s.accounts[a.user.UserID] = a
	s.emails[strings.ToLower(a.user.Email)] = a.user.UserID
}

// User returns the stored profile.
func (s *Server) User(id string) (users.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return users.User{}, false
	}
	return a.user, true
}

// AddEvent stores e, assigning an ID and creation time when missing.
func (s *Server) AddEvent(e events.Event) events.Event {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt == "" {
		e.CreatedAt = s.now().UTC().Format(time.RFC3339)
	}
	if e.Images == nil {
		e.Images = []events.EventImage{}
	}
	if e.Videos == nil {
		e.Videos = []events.EventVideo{}
	}
	if e.GroupPricingTiers == nil {
		e.GroupPricingTiers = []events.GroupPricingTier{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	stored := e
	s.events[e.ID] = &stored
	return e
}

// Event returns a copy of the stored event.
func (s *Server) Event(id string) (events.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return events.Event{}, false
	}
	return *e, true
}

// IssueTokens signs in userID without a password, as a login would.
func (s *Server) IssueTokens(userID string) (accessToken, refreshToken string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[userID]
	if !ok {
		return "", "", errors.Wrapf(errors.ErrInvalidArgument, "unknown user %s", userID)
	}
	accessToken, _, err = s.tokens.createAccessToken(a.user)
	if err != nil {
		return "", "", err
	}
	refreshToken, err = s.tokens.createRefreshToken(userID)
	return accessToken, refreshToken, err
}

// RevokeAccessTokens invalidates every access token issued so far. Refresh tokens
// still work, so a client recovers through its refresh path.
func (s *Server) RevokeAccessTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens.revokeAccessTokens()
}

// RevokeRefreshTokens invalidates every refresh token.
func (s *Server) RevokeRefreshTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens.revokeRefreshTokens()
}

// PasswordResetToken returns the token a forgot-password request mailed to email.
func (s *Server) PasswordResetToken(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resetTokens[strings.ToLower(email)]
}

// VerificationToken returns the email verification token issued at registration.
func (s *Server) VerificationToken(userID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.verifyTokens[userID]
}

// sortedEventsLocked returns copies of the events matching keep, by start date.
func (s *Server) sortedEventsLocked(keep func(*events.Event) bool) []events.Event {
	out := make([]events.Event, 0, len(s.events))
	for _, e := range s.events {
		if keep == nil || keep(e) {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartDate != out[j].StartDate {
			return out[i].StartDate < out[j].StartDate
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// ==================== Responses ====================

type errorResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}

func writeValidation(w http.ResponseWriter, field, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Message: "One or more validation errors occurred.",
		Errors:  map[string][]string{field: {message}},
	})
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed request body.")
		return false
	}
	return true
}
