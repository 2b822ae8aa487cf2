package mockapi

import (
	"net/http"
	"time"

	"github.com/jrsteele09/lankaconnect-client/metro"
	"github.com/jrsteele09/lankaconnect-client/users"
)

const maxPreferredMetros = 20

func (s *Server) RequestUpgradeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			TargetRole users.Role `json:"targetRole"`
			Reason     string     `json:"reason"`
		}
		if !readJSON(w, r, &body) {
			return
		}
		if !users.RequiresSubscription(body.TargetRole) {
			writeValidation(w, "TargetRole", "Target role is not an upgradable role.")
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		a := s.accounts[claimsFrom(r).UserID]
		if a == nil {
			writeError(w, http.StatusNotFound, "User not found.")
			return
		}
		if !users.CanRequestUpgrade(a.user) {
			writeError(w, http.StatusBadRequest, "An upgrade cannot be requested for this account.")
			return
		}
		role := body.TargetRole
		requested := s.now().UTC().Format(time.RFC3339)
		a.user.PendingUpgradeRole = &role
		a.user.UpgradeRequestedAt = &requested
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) CancelUpgradeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		a := s.accounts[claimsFrom(r).UserID]
		if a == nil {
			writeError(w, http.StatusNotFound, "User not found.")
			return
		}
		if !users.HasPendingUpgrade(a.user) {
			writeError(w, http.StatusBadRequest, "There is no pending upgrade request.")
			return
		}
		a.user.PendingUpgradeRole = nil
		a.user.UpgradeRequestedAt = nil
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) GetUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := s.User(r.PathValue("id"))
		if !ok {
			writeError(w, http.StatusNotFound, "User not found.")
			return
		}
		writeJSON(w, http.StatusOK, u)
	}
}

// selfOrAdmin reports whether the caller may act on the user named in the path.
func selfOrAdmin(r *http.Request) bool {
	claims := claimsFrom(r)
	return claims.UserID == r.PathValue("id") || users.IsAdmin(claims.Role)
}

func (s *Server) GetPreferredMetrosHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := s.User(r.PathValue("id"))
		if !ok {
			writeError(w, http.StatusNotFound, "User not found.")
			return
		}
		ids := u.PreferredMetroAreaIDs
		if ids == nil {
			ids = []string{}
		}
		writeJSON(w, http.StatusOK, ids)
	}
}

func (s *Server) UpdatePreferredMetrosHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !selfOrAdmin(r) {
			writeError(w, http.StatusForbidden, "You can only change your own metro areas.")
			return
		}
		var body struct {
			MetroAreaIDs []string `json:"metroAreaIds"`
		}
		if !readJSON(w, r, &body) {
			return
		}
		if len(body.MetroAreaIDs) > maxPreferredMetros {
			writeValidation(w, "MetroAreaIds", "At most 20 metro areas can be selected.")
			return
		}
		for _, id := range body.MetroAreaIDs {
			if _, ok := metro.ByID(id); !ok {
				writeValidation(w, "MetroAreaIds", "Unknown metro area "+id+".")
				return
			}
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		a := s.accounts[r.PathValue("id")]
		if a == nil {
			writeError(w, http.StatusNotFound, "User not found.")
			return
		}
		a.user.PreferredMetroAreaIDs = append([]string{}, body.MetroAreaIDs...)
		w.WriteHeader(http.StatusNoContent)
	}
}
