package mockapi

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/lankaconnect-client/users"
	"golang.org/x/crypto/bcrypt"
)

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerBody struct {
	Email                 string      `json:"email"`
	Password              string      `json:"password"`
	FirstName             string      `json:"firstName"`
	LastName              string      `json:"lastName"`
	SelectedRole          *users.Role `json:"selectedRole"`
	PreferredMetroAreaIDs []string    `json:"preferredMetroAreaIds"`
}

type refreshBody struct {
	RefreshToken string `json:"refreshToken"`
}

type tokensResponse struct {
	User           *users.User `json:"user,omitempty"`
	AccessToken    string      `json:"accessToken"`
	RefreshToken   string      `json:"refreshToken"`
	TokenExpiresAt string      `json:"tokenExpiresAt"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func randomToken() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// issueLocked signs a fresh token pair for u. The caller holds s.mu.
func (s *Server) issueLocked(u users.User) (tokensResponse, error) {
	access, exp, err := s.tokens.createAccessToken(u)
	if err != nil {
		return tokensResponse{}, err
	}
	refresh, err := s.tokens.createRefreshToken(u.UserID)
	if err != nil {
		return tokensResponse{}, err
	}
	return tokensResponse{AccessToken: access, RefreshToken: refresh, TokenExpiresAt: exp.UTC().Format(time.RFC3339)}, nil
}

func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body loginBody
		if !readJSON(w, r, &body) {
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		a := s.accounts[s.emails[strings.ToLower(body.Email)]]
		if a == nil || bcrypt.CompareHashAndPassword(a.passwordHash, []byte(body.Password)) != nil {
			writeError(w, http.StatusUnauthorized, "Invalid email or password.")
			return
		}
		if !a.verified {
			writeError(w, http.StatusUnauthorized, "Email address has not been verified.")
			return
		}
		resp, err := s.issueLocked(a.user)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		u := a.user
		resp.User = &u
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body registerBody
		if !readJSON(w, r, &body) {
			return
		}
		if len(body.Password) < 8 {
			writeValidation(w, "Password", "Password must be at least 8 characters.")
			return
		}
		hash, err := hashPassword(body.Password)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if _, exists := s.emails[strings.ToLower(body.Email)]; exists {
			writeValidation(w, "Email", "Email is already registered.")
			return
		}
		u := users.User{
			UserID:                uuid.NewString(),
			Email:                 body.Email,
			FirstName:             body.FirstName,
			LastName:              body.LastName,
			FullName:              strings.TrimSpace(body.FirstName + " " + body.LastName),
			Role:                  users.RoleGeneralUser,
			SubscriptionStatus:    users.SubscriptionNone,
			PreferredMetroAreaIDs: body.PreferredMetroAreaIDs,
		}
		if body.SelectedRole != nil && users.RequiresSubscription(*body.SelectedRole) {
			u.PendingUpgradeRole = body.SelectedRole
			requested := s.now().UTC().Format(time.RFC3339)
			u.UpgradeRequestedAt = &requested
		}
		s.putAccountLocked(&account{user: u, passwordHash: hash})
		s.verifyTokens[u.UserID] = randomToken()

		writeJSON(w, http.StatusOK, map[string]string{
			"userId":  u.UserID,
			"email":   u.Email,
			"message": "Registration successful. Please check your email to verify your account.",
		})
	}
}

// RefreshHandler rotates the refresh token, the old one stops working.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body refreshBody
		if !readJSON(w, r, &body) {
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		userID, err := s.tokens.rotate(body.RefreshToken)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid refresh token.")
			return
		}
		a := s.accounts[userID]
		if a == nil {
			writeError(w, http.StatusUnauthorized, "Invalid refresh token.")
			return
		}
		resp, err := s.issueLocked(a.user)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body refreshBody
		if !readJSON(w, r, &body) {
			return
		}
		s.mu.Lock()
		s.tokens.revokeRefreshToken(body.RefreshToken)
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, messageResponse{Message: "Logged out successfully."})
	}
}

func (s *Server) ProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := s.User(claimsFrom(r).UserID)
		if !ok {
			writeError(w, http.StatusNotFound, "User not found.")
			return
		}
		writeJSON(w, http.StatusOK, u)
	}
}

// ForgotPasswordHandler answers the same way for unknown emails.
func (s *Server) ForgotPasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email string `json:"email"`
		}
		if !readJSON(w, r, &body) {
			return
		}
		s.mu.Lock()
		if _, ok := s.emails[strings.ToLower(body.Email)]; ok {
			s.resetTokens[strings.ToLower(body.Email)] = randomToken()
		}
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, messageResponse{Message: "If the email exists, a password reset link has been sent."})
	}
}

func (s *Server) ResetPasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email       string `json:"email"`
			Token       string `json:"token"`
			NewPassword string `json:"newPassword"`
		}
		if !readJSON(w, r, &body) {
			return
		}
		hash, err := hashPassword(body.NewPassword)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		email := strings.ToLower(body.Email)
		if want, ok := s.resetTokens[email]; !ok || want != body.Token {
			writeValidation(w, "Token", "Invalid or expired reset token.")
			return
		}
		delete(s.resetTokens, email)
		s.accounts[s.emails[email]].passwordHash = hash
		writeJSON(w, http.StatusOK, messageResponse{Message: "Password has been reset successfully."})
	}
}

func (s *Server) VerifyEmailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			UserID string `json:"userId"`
			Token  string `json:"token"`
		}
		if !readJSON(w, r, &body) {
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		want, ok := s.verifyTokens[body.UserID]
		if !ok || want != body.Token {
			writeValidation(w, "Token", "Invalid verification token.")
			return
		}
		delete(s.verifyTokens, body.UserID)
		s.accounts[body.UserID].verified = true
		writeJSON(w, http.StatusOK, messageResponse{Message: "Email verified successfully."})
	}
}

func (s *Server) ResendVerificationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email string `json:"email"`
		}
		if !readJSON(w, r, &body) {
			return
		}
		s.mu.Lock()
		if a := s.accounts[s.emails[strings.ToLower(body.Email)]]; a != nil && !a.verified {
			s.verifyTokens[a.user.UserID] = randomToken()
		}
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, messageResponse{Message: "If the account exists and is unverified, a new email has been sent."})
	}
}
