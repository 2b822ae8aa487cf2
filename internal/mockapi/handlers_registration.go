package mockapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/lankaconnect-client/events"
)

type registrationEnvelope struct {
	IsSuccess bool                 `json:"isSuccess"`
	Value     *events.Registration `json:"value"`
}

// openEventLocked loads the path's event and checks it takes registrations.
func (s *Server) openEventLocked(w http.ResponseWriter, r *http.Request) *events.Event {
	e := s.events[r.PathValue("id")]
	if e == nil {
		writeError(w, http.StatusNotFound, "Event not found.")
		return nil
	}
	if !e.Status.IsOpenForRegistration() {
		writeError(w, http.StatusBadRequest, "Event is not open for registration.")
		return nil
	}
	return e
}

// registerLocked books places on e, or fails with the response already written.
func (s *Server) registerLocked(w http.ResponseWriter, e *events.Event, key string, reg *events.Registration) bool {
	if _, exists := s.registrations[e.ID][key]; exists {
		writeError(w, http.StatusBadRequest, "Already registered for this event.")
		return false
	}
	count := reg.AttendeeCount()
	if e.Capacity > 0 && e.CurrentRegistrations+count > e.Capacity {
		writeError(w, http.StatusBadRequest, "Not enough spots remaining.")
		return false
	}
	if s.registrations[e.ID] == nil {
		s.registrations[e.ID] = make(map[string]*events.Registration)
	}
	reg.ID = uuid.NewString()
	reg.EventID = e.ID
	reg.Status = events.RegistrationConfirmed
	reg.CreatedAt = s.now().UTC().Format(time.RFC3339)
	if !e.IsFree {
		reg.Status = events.RegistrationPending
	}
	s.registrations[e.ID][key] = reg
	e.CurrentRegistrations += count
	return true
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// RsvpHandler answers null for free events and a checkout URL for paid ones.
func (s *Server) RsvpHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req events.RsvpRequest
		if !readJSON(w, r, &req) {
			return
		}
		userID := claimsFrom(r).UserID

		s.mu.Lock()
		defer s.mu.Unlock()
		e := s.openEventLocked(w, r)
		if e == nil {
			return
		}
		reg := &events.Registration{
			UserID:      userID,
			Quantity:    req.AttendeeCount(),
			Attendees:   req.Attendees,
			Email:       optional(req.Email),
			PhoneNumber: optional(req.PhoneNumber),
			Address:     optional(req.Address),
		}
		if !s.registerLocked(w, e, userID, reg) {
			return
		}
		if e.IsFree {
			writeJSON(w, http.StatusOK, nil)
			return
		}
		writeJSON(w, http.StatusOK, "https://checkout.lankaconnect.test/session/"+reg.ID)
	}
}

func (s *Server) CancelRsvpHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := claimsFrom(r).UserID
		s.mu.Lock()
		defer s.mu.Unlock()
		e := s.events[r.PathValue("id")]
		if e == nil {
			writeError(w, http.StatusNotFound, "Event not found.")
			return
		}
		reg, ok := s.registrations[e.ID][userID]
		if !ok {
			writeError(w, http.StatusBadRequest, "No registration to cancel.")
			return
		}
		delete(s.registrations[e.ID], userID)
		e.CurrentRegistrations = max(0, e.CurrentRegistrations-reg.AttendeeCount())
		if r.URL.Query().Get("deleteSignUpCommitments") == "true" {
			s.dropCommitmentsLocked(e.ID, userID)
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) UpdateRsvpHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req events.UpdateRsvpRequest
		if !readJSON(w, r, &req) {
			return
		}
		if req.NewQuantity <= 0 {
			writeValidation(w, "NewQuantity", "Quantity must be greater than 0.")
			return
		}
		userID := claimsFrom(r).UserID

		s.mu.Lock()
		defer s.mu.Unlock()
		s.resizeRegistrationLocked(w, r, userID, func(reg *events.Registration) {
			reg.Quantity = req.NewQuantity
			reg.Attendees = nil
		})
	}
}

// resizeRegistrationLocked applies fn to the user's registration and moves the
// event's count by the difference in places.
func (s *Server) resizeRegistrationLocked(w http.ResponseWriter, r *http.Request, userID string, fn func(*events.Registration)) {
	e := s.events[r.PathValue("id")]
	if e == nil {
		writeError(w, http.StatusNotFound, "Event not found.")
		return
	}
	reg, ok := s.registrations[e.ID][userID]
	if !ok {
		writeError(w, http.StatusNotFound, "Registration not found.")
		return
	}
	updated := *reg
	fn(&updated)
	delta := updated.AttendeeCount() - reg.AttendeeCount()
	if e.Capacity > 0 && e.CurrentRegistrations+delta > e.Capacity {
		writeError(w, http.StatusBadRequest, "Not enough spots remaining.")
		return
	}
	now := s.now().UTC().Format(time.RFC3339)
	updated.UpdatedAt = &now
	*reg = updated
	e.CurrentRegistrations += delta
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) MyRegistrationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := claimsFrom(r).UserID
		s.mu.Lock()
		reg, ok := s.registrations[r.PathValue("id")][userID]
		var out events.Registration
		if ok {
			out = *reg
		}
		s.mu.Unlock()
		if !ok {
			writeError(w, http.StatusNotFound, "Registration not found.")
			return
		}
		writeJSON(w, http.StatusOK, registrationEnvelope{IsSuccess: true, Value: &out})
	}
}

func (s *Server) UpdateRegistrationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req events.UpdateRegistrationRequest
		if !readJSON(w, r, &req) {
			return
		}
		if len(req.Attendees) == 0 {
			writeValidation(w, "Attendees", "At least one attendee is required.")
			return
		}
		userID := claimsFrom(r).UserID

		s.mu.Lock()
		defer s.mu.Unlock()
		s.resizeRegistrationLocked(w, r, userID, func(reg *events.Registration) {
			reg.Attendees = req.Attendees
			reg.Quantity = len(req.Attendees)
			reg.Email = optional(req.Email)
			reg.PhoneNumber = optional(req.PhoneNumber)
			reg.Address = optional(req.Address)
		})
	}
}

func (s *Server) AnonymousRegistrationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req events.AnonymousRegistrationRequest
		if !readJSON(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Email) == "" {
			writeValidation(w, "Email", "Email is required.")
			return
		}
		attendees := req.Attendees
		if len(attendees) == 0 && req.Name != "" {
			attendees = []events.Attendee{{Name: req.Name, Age: req.Age}}
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		e := s.openEventLocked(w, r)
		if e == nil {
			return
		}
		reg := &events.Registration{
			Quantity:    max(req.Quantity, len(attendees), 1),
			Attendees:   attendees,
			Email:       optional(req.Email),
			PhoneNumber: optional(req.PhoneNumber),
			Address:     optional(req.Address),
		}
		if !s.registerLocked(w, e, "anon:"+strings.ToLower(req.Email), reg) {
			return
		}
		resp := events.AnonymousRegistrationResponse{RegistrationID: reg.ID, Message: "Registration successful."}
		if !e.IsFree {
			resp.CheckoutURL = optional("https://checkout.lankaconnect.test/session/" + reg.ID)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) CheckRegistrationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email string `json:"email"`
		}
		if !readJSON(w, r, &body) {
			return
		}
		email := strings.ToLower(body.Email)

		s.mu.Lock()
		defer s.mu.Unlock()
		eventID := r.PathValue("id")
		var out events.RegistrationCheck
		if userID, ok := s.emails[email]; ok {
			out.HasUserAccount = true
			out.UserID = optional(userID)
			if reg, ok := s.registrations[eventID][userID]; ok {
				out.IsRegistered = true
				out.RegistrationID = optional(reg.ID)
			}
		}
		if reg, ok := s.registrations[eventID]["anon:"+email]; ok {
			out.IsRegistered = true
			out.RegistrationID = optional(reg.ID)
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// ==================== Waiting list ====================

func (s *Server) WaitingListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.ownedEventLocked(w, r) == nil {
			return
		}
		out := append([]events.WaitingListEntry{}, s.waiting[r.PathValue("id")]...)
		writeJSON(w, http.StatusOK, out)
	}
}

func (s *Server) JoinWaitingListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := claimsFrom(r).UserID
		s.mu.Lock()
		defer s.mu.Unlock()
		e := s.events[r.PathValue("id")]
		if e == nil {
			writeError(w, http.StatusNotFound, "Event not found.")
			return
		}
		if !e.IsFull() {
			writeError(w, http.StatusBadRequest, "Event still has spots available.")
			return
		}
		for _, entry := range s.waiting[e.ID] {
			if entry.UserID == userID {
				writeError(w, http.StatusBadRequest, "Already on the waiting list.")
				return
			}
		}
		s.waiting[e.ID] = append(s.waiting[e.ID], events.WaitingListEntry{
			ID:       uuid.NewString(),
			EventID:  e.ID,
			UserID:   userID,
			AddedAt:  s.now().UTC().Format(time.RFC3339),
			Position: len(s.waiting[e.ID]) + 1,
		})
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) LeaveWaitingListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := claimsFrom(r).UserID
		s.mu.Lock()
		defer s.mu.Unlock()
		eventID := r.PathValue("id")
		entries := s.waiting[eventID]
		kept := entries[:0]
		found := false
		for _, entry := range entries {
			if entry.UserID == userID {
				found = true
				continue
			}
			entry.Position = len(kept) + 1
			kept = append(kept, entry)
		}
		if !found {
			writeError(w, http.StatusNotFound, "Not on the waiting list.")
			return
		}
		s.waiting[eventID] = kept
		w.WriteHeader(http.StatusNoContent)
	}
}

// ==================== Tickets ====================

func (s *Server) registrationForCaller(r *http.Request) (events.Registration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reg, ok := s.registrations[r.PathValue("id")][claimsFrom(r).UserID]
	if !ok {
		return events.Registration{}, false
	}
	return *reg, true
}

func ticketCode(reg events.Registration) string {
	return "LC-" + strings.ToUpper(strings.ReplaceAll(reg.ID, "-", "")[:10])
}

func (s *Server) TicketHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reg, ok := s.registrationForCaller(r)
		if !ok {
			writeError(w, http.StatusNotFound, "Ticket not found.")
			return
		}
		code := ticketCode(reg)
		writeJSON(w, http.StatusOK, events.Ticket{
			ID:             reg.ID,
			TicketCode:     code,
			QRCodeData:     code,
			RegistrationID: reg.ID,
			EventID:        reg.EventID,
			IsValid:        reg.Status == events.RegistrationConfirmed,
			IssuedAt:       reg.CreatedAt,
		})
	}
}

// TicketPDFHandler serves a placeholder PDF document.
func (s *Server) TicketPDFHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reg, ok := s.registrationForCaller(r)
		if !ok {
			writeError(w, http.StatusNotFound, "Ticket not found.")
			return
		}
		code := ticketCode(reg)
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="ticket-`+code+`.pdf"`)
		_, _ = w.Write([]byte("%PDF-1.4\n% " + code + "\n%%EOF\n"))
	}
}

func (s *Server) ResendTicketHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.registrationForCaller(r); !ok {
			writeError(w, http.StatusNotFound, "Ticket not found.")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
