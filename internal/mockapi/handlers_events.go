package mockapi

import (
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/lankaconnect-client/events"
	"github.com/jrsteele09/lankaconnect-client/metro"
	"github.com/jrsteele09/lankaconnect-client/users"
)

const featuredLimit = 4

// eventFilter builds the GET /events predicate. A bad parameter is reported by name.
func eventFilter(q url.Values) (func(*events.Event) bool, string) {
	var preds []func(*events.Event) bool

	if v := q.Get("status"); v != "" {
		status, err := events.ParseEventStatus(v)
		if err != nil {
			return nil, "status"
		}
		preds = append(preds, func(e *events.Event) bool { return e.Status == status })
	}
	if v := q.Get("category"); v != "" {
		category, err := events.ParseEventCategory(v)
		if err != nil {
			return nil, "category"
		}
		preds = append(preds, func(e *events.Event) bool { return e.Category == category })
	}
	if v := q.Get("isFreeOnly"); v != "" {
		freeOnly, err := strconv.ParseBool(v)
		if err != nil {
			return nil, "isFreeOnly"
		}
		if freeOnly {
			preds = append(preds, func(e *events.Event) bool { return e.IsFree })
		}
	}
	if v := q.Get("city"); v != "" {
		preds = append(preds, func(e *events.Event) bool { return e.City != nil && strings.EqualFold(*e.City, v) })
	}
	if v := q.Get("state"); v != "" {
		preds = append(preds, func(e *events.Event) bool { return e.State != nil && strings.EqualFold(*e.State, v) })
	}
	if v := q.Get("startDateFrom"); v != "" {
		from, err := events.ParseTime(v)
		if err != nil {
			return nil, "startDateFrom"
		}
		preds = append(preds, func(e *events.Event) bool {
			start, err := e.StartTime()
			return err == nil && !start.Before(from)
		})
	}
	if v := q.Get("startDateTo"); v != "" {
		to, err := events.ParseTime(v)
		if err != nil {
			return nil, "startDateTo"
		}
		preds = append(preds, func(e *events.Event) bool {
			start, err := e.StartTime()
			return err == nil && !start.After(to)
		})
	}
	if ids := q["metroAreaIds"]; len(ids) > 0 {
		var areas []metro.MetroArea
		for _, id := range metro.ExpandIDs(ids) {
			if a, ok := metro.ByID(id); ok {
				areas = append(areas, a)
			}
		}
		preds = append(preds, func(e *events.Event) bool { return inAnyArea(e, areas) })
	}

	return func(e *events.Event) bool {
		for _, p := range preds {
			if !p(e) {
				return false
			}
		}
		return true
	}, ""
}

func inAnyArea(e *events.Event, areas []metro.MetroArea) bool {
	if e.Latitude == nil || e.Longitude == nil {
		return false
	}
	for _, a := range areas {
		if a.Covers(*e.Latitude, *e.Longitude) {
			return true
		}
	}
	return false
}

func floatParam(q url.Values, name string) (float64, bool) {
	f, err := strconv.ParseFloat(q.Get(name), 64)
	return f, err == nil
}

func intParam(q url.Values, name string, def int) int {
	if n, err := strconv.Atoi(q.Get(name)); err == nil && n > 0 {
		return n
	}
	return def
}

func isListed(e *events.Event) bool {
	return e.Status.IsOpenForRegistration()
}

func (s *Server) ListEventsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		keep, bad := eventFilter(r.URL.Query())
		if bad != "" {
			writeValidation(w, bad, "The value is not valid.")
			return
		}
		s.mu.Lock()
		out := s.sortedEventsLocked(keep)
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, out)
	}
}

func (s *Server) SearchEventsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		term := strings.ToLower(strings.TrimSpace(q.Get("searchTerm")))
		if term == "" {
			writeValidation(w, "SearchTerm", "Search term is required.")
			return
		}
		keep, bad := eventFilter(url.Values{"category": q["category"], "isFreeOnly": q["isFreeOnly"], "startDateFrom": q["startDateFrom"]})
		if bad != "" {
			writeValidation(w, bad, "The value is not valid.")
			return
		}
		page, size := intParam(q, "page", 1), intParam(q, "pageSize", 20)

		s.mu.Lock()
		matches := s.sortedEventsLocked(func(e *events.Event) bool {
			return isListed(e) && keep(e) &&
				(strings.Contains(strings.ToLower(e.Title), term) || strings.Contains(strings.ToLower(e.Description), term))
		})
		s.mu.Unlock()

		total := len(matches)
		start := min((page-1)*size, total)
		end := min(start+size, total)
		pages := int(math.Ceil(float64(total) / float64(size)))
		writeJSON(w, http.StatusOK, events.PagedResult[events.Event]{
			Items:           matches[start:end],
			TotalCount:      total,
			Page:            page,
			PageSize:        size,
			TotalPages:      pages,
			HasPreviousPage: page > 1,
			HasNextPage:     page < pages,
		})
	}
}

func (s *Server) NearbyEventsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		lat, okLat := floatParam(q, "latitude")
		lng, okLng := floatParam(q, "longitude")
		radius, okRadius := floatParam(q, "radiusKm")
		if !okLat || !okLng || !okRadius || radius <= 0 {
			writeValidation(w, "RadiusKm", "Latitude, longitude and a positive radius are required.")
			return
		}

		s.mu.Lock()
		out := s.sortedEventsLocked(func(e *events.Event) bool {
			return isListed(e) && e.Latitude != nil && e.Longitude != nil &&
				metro.DistanceKm(lat, lng, *e.Latitude, *e.Longitude) <= radius
		})
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, out)
	}
}

// FeaturedEventsHandler prefers events in the user's metros, then near the given
// point, then anything listed.
func (s *Server) FeaturedEventsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		var areas []metro.MetroArea
		if u, ok := s.User(q.Get("userId")); ok {
			for _, id := range metro.ExpandIDs(u.PreferredMetroAreaIDs) {
				if a, ok := metro.ByID(id); ok {
					areas = append(areas, a)
				}
			}
		} else if lat, ok := floatParam(q, "latitude"); ok {
			if lng, ok := floatParam(q, "longitude"); ok {
				nearest, _ := metro.Nearest(lat, lng)
				areas = append(areas, nearest)
			}
		}

		s.mu.Lock()
		listed := s.sortedEventsLocked(isListed)
		s.mu.Unlock()

		out := make([]events.Event, 0, featuredLimit)
		for _, e := range listed {
			if len(areas) == 0 || inAnyArea(&e, areas) {
				out = append(out, e)
			}
		}
		if len(out) == 0 {
			out = listed
		}
		writeJSON(w, http.StatusOK, out[:min(len(out), featuredLimit)])
	}
}

func (s *Server) UpcomingEventsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := s.now()
		s.mu.Lock()
		out := s.sortedEventsLocked(func(e *events.Event) bool {
			start, err := e.StartTime()
			return isListed(e) && err == nil && start.After(now)
		})
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, out)
	}
}

func (s *Server) MyEventsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := claimsFrom(r).UserID
		s.mu.Lock()
		out := s.sortedEventsLocked(func(e *events.Event) bool { return e.OrganizerID == userID })
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, out)
	}
}

func (s *Server) MyRsvpsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := claimsFrom(r).UserID
		s.mu.Lock()
		out := s.sortedEventsLocked(func(e *events.Event) bool {
			_, ok := s.registrations[e.ID][userID]
			return ok
		})
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, out)
	}
}

func (s *Server) GetEventHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, ok := s.Event(r.PathValue("id"))
		if !ok {
			writeError(w, http.StatusNotFound, "Event not found.")
			return
		}
		writeJSON(w, http.StatusOK, e)
	}
}

// CreateEventHandler answers with the new ID as a bare JSON string.
func (s *Server) CreateEventHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := s.User(claimsFrom(r).UserID)
		if !ok || !users.CanCreateEvents(u) {
			writeError(w, http.StatusForbidden, "Your account cannot create events.")
			return
		}
		var req events.CreateEventRequest
		if !readJSON(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Title) == "" {
			writeValidation(w, "Title", "Title is required.")
			return
		}
		if req.Capacity <= 0 {
			writeValidation(w, "Capacity", "Capacity must be greater than 0.")
			return
		}

		e := events.Event{
			ID:                  uuid.NewString(),
			Title:               req.Title,
			Description:         req.Description,
			StartDate:           req.StartDate,
			EndDate:             req.EndDate,
			OrganizerID:         u.UserID,
			Capacity:            req.Capacity,
			Status:              events.StatusDraft,
			Address:             req.LocationAddress,
			City:                req.LocationCity,
			State:               req.LocationState,
			ZipCode:             req.LocationZipCode,
			Country:             req.LocationCountry,
			Latitude:            req.LocationLatitude,
			Longitude:           req.LocationLongitude,
			TicketPriceAmount:   req.TicketPriceAmount,
			TicketPriceCurrency: req.TicketPriceCurrency,
			AdultPriceAmount:    req.AdultPriceAmount,
			AdultPriceCurrency:  req.AdultPriceCurrency,
			ChildPriceAmount:    req.ChildPriceAmount,
			ChildPriceCurrency:  req.ChildPriceCurrency,
			ChildAgeLimit:       req.ChildAgeLimit,
			HasDualPricing:      req.AdultPriceAmount != nil && req.ChildPriceAmount != nil,
			GroupPricingTiers:   req.GroupPricingTiers,
			HasGroupPricing:     len(req.GroupPricingTiers) > 0,
		}
		if req.Category != nil {
			e.Category = *req.Category
		}
		e.IsFree = (e.TicketPriceAmount == nil || *e.TicketPriceAmount == 0) && !e.HasDualPricing && !e.HasGroupPricing
		e = s.AddEvent(e)
		writeJSON(w, http.StatusCreated, e.ID)
	}
}

// ownedEventLocked loads the path's event for its organizer or an admin, writing
// the error response when it cannot. The caller holds s.mu.
func (s *Server) ownedEventLocked(w http.ResponseWriter, r *http.Request) *events.Event {
	e := s.events[r.PathValue("id")]
	if e == nil {
		writeError(w, http.StatusNotFound, "Event not found.")
		return nil
	}
	claims := claimsFrom(r)
	if e.OrganizerID != claims.UserID && !users.IsAdmin(claims.Role) {
		writeError(w, http.StatusForbidden, "Only the organizer can change this event.")
		return nil
	}
	return e
}

func (s *Server) UpdateEventHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req events.UpdateEventRequest
		if !readJSON(w, r, &req) {
			return
		}
		if req.EventID != "" && req.EventID != r.PathValue("id") {
			writeError(w, http.StatusBadRequest, "Event ID mismatch.")
			return
		}
		if req.Capacity != nil && *req.Capacity <= 0 {
			writeValidation(w, "Capacity", "Capacity must be greater than 0.")
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		e := s.ownedEventLocked(w, r)
		if e == nil {
			return
		}
		updated := e.ApplyUpdate(req)
		now := s.now().UTC().Format(time.RFC3339)
		updated.UpdatedAt = &now
		*e = updated
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) DeleteEventHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		e := s.ownedEventLocked(w, r)
		if e == nil {
			return
		}
		if e.Status != events.StatusDraft && e.Status != events.StatusCancelled {
			writeError(w, http.StatusBadRequest, "Only draft or cancelled events can be deleted.")
			return
		}
		delete(s.events, e.ID)
		delete(s.registrations, e.ID)
		delete(s.waiting, e.ID)
		w.WriteHeader(http.StatusNoContent)
	}
}

// transitionHandler moves an event between statuses. needsReason rejects an empty
// {reason} body.
func (s *Server) transitionHandler(to events.EventStatus, needsReason bool, from ...events.EventStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if needsReason {
			var body struct {
				Reason string `json:"reason"`
			}
			if !readJSON(w, r, &body) {
				return
			}
			if strings.TrimSpace(body.Reason) == "" {
				writeValidation(w, "Reason", "A reason is required.")
				return
			}
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		e := s.ownedEventLocked(w, r)
		if e == nil {
			return
		}
		allowed := false
		for _, st := range from {
			allowed = allowed || e.Status == st
		}
		if !allowed {
			writeError(w, http.StatusBadRequest, "Cannot move a "+e.Status.String()+" event to "+to.String()+".")
			return
		}
		e.Status = to
		w.WriteHeader(http.StatusNoContent)
	}
}
