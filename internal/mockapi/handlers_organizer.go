package mockapi

import (
	"encoding/csv"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/lankaconnect-client/events"
)

const (
	commissionRate = 0.05
	childAgeLimit  = 12
	xlsxType       = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// activeRegistrationsLocked returns eventID's registrations that still hold places,
// oldest first.
func (s *Server) activeRegistrationsLocked(eventID string) []events.Registration {
	var out []events.Registration
	for _, reg := range s.registrations[eventID] {
		if reg.Status == events.RegistrationCancelled || reg.Status == events.RegistrationRefunded {
			continue
		}
		out = append(out, *reg)
	}
	slices.SortFunc(out, func(a, b events.Registration) int {
		if c := strings.Compare(a.CreatedAt, b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

func paymentStatus(e *events.Event, reg events.Registration) events.PaymentStatus {
	switch {
	case e.IsFree:
		return events.PaymentNotRequired
	case reg.Status == events.RegistrationConfirmed || reg.Status == events.RegistrationCheckedIn || reg.Status == events.RegistrationCompleted:
		return events.PaymentCompleted
	default:
		return events.PaymentPending
	}
}

func eventAttendee(e *events.Event, reg events.Registration) events.EventAttendee {
	limit := childAgeLimit
	if e.ChildAgeLimit != nil {
		limit = *e.ChildAgeLimit
	}
	a := events.EventAttendee{
		RegistrationID: reg.ID,
		UserID:         optional(reg.UserID),
		Status:         reg.Status,
		PaymentStatus:  paymentStatus(e, reg),
		CreatedAt:      reg.CreatedAt,
		ContactAddress: reg.Address,
		Attendees:      []events.AttendeeDetails{},
		TotalAttendees: reg.AttendeeCount(),
		TotalAmount:    reg.TotalPriceAmount,
		HasTicket:      reg.Status == events.RegistrationConfirmed,
	}
	if reg.Email != nil {
		a.ContactEmail = *reg.Email
	}
	if reg.PhoneNumber != nil {
		a.ContactPhone = *reg.PhoneNumber
	}
	var names []string
	for _, person := range reg.Attendees {
		category := events.AgeAdult
		if person.Age > 0 && person.Age <= limit {
			category = events.AgeChild
			a.ChildCount++
		} else {
			a.AdultCount++
		}
		a.Attendees = append(a.Attendees, events.AttendeeDetails{Name: person.Name, AgeCategory: &category})
		names = append(names, person.Name)
	}
	if len(names) > 0 {
		a.MainAttendeeName = names[0]
		a.AdditionalAttendees = strings.Join(names[1:], ", ")
	}
	if reg.TotalPriceAmount != nil {
		net := *reg.TotalPriceAmount * (1 - commissionRate)
		a.NetAmount = &net
		currency := events.CurrencyUSD
		if reg.TotalPriceCurrency != nil {
			currency = *reg.TotalPriceCurrency
		}
		a.Currency = optional(currency.String())
	}
	if a.HasTicket {
		code := ticketCode(reg)
		a.TicketCode = &code
		a.QRCodeData = &code
	}
	return a
}

// attendeesLocked builds the organizer's view of e. Without itemised breakdowns
// the platform commission and payout fall back to the flat commission rate.
func (s *Server) attendeesLocked(e *events.Event) events.EventAttendees {
	out := events.EventAttendees{
		EventID:        e.ID,
		EventTitle:     e.Title,
		Attendees:      []events.EventAttendee{},
		CommissionRate: commissionRate,
	}
	for _, reg := range s.activeRegistrationsLocked(e.ID) {
		a := eventAttendee(e, reg)
		out.Attendees = append(out.Attendees, a)
		out.TotalAttendees += a.TotalAttendees
		if a.TotalAmount != nil {
			out.GrossRevenue += *a.TotalAmount
		}
	}
	out.TotalRegistrations = len(out.Attendees)
	out.IsFreeEvent = e.IsFree || out.GrossRevenue == 0
	out.NetRevenue = out.GrossRevenue
	if !out.IsFreeEvent {
		out.CommissionAmount = out.GrossRevenue * commissionRate
		out.NetRevenue = out.GrossRevenue - out.CommissionAmount
		out.TotalPlatformCommission = out.CommissionAmount
		out.TotalOrganizerPayout = out.NetRevenue
	}
	return out
}

func (s *Server) AttendeesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		e := s.ownedEventLocked(w, r)
		if e == nil {
			return
		}
		writeJSON(w, http.StatusOK, s.attendeesLocked(e))
	}
}

// ExportAttendeesHandler serves a real CSV file. Excel exports are a placeholder
// body with the spreadsheet content type.
func (s *Server) ExportAttendeesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format, err := events.ParseExportFormat(r.URL.Query().Get("format"))
		if err != nil {
			writeValidation(w, "format", "Format must be csv or excel.")
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		e := s.ownedEventLocked(w, r)
		if e == nil {
			return
		}
		summary := s.attendeesLocked(e)

		w.Header().Set("Content-Disposition", `attachment; filename="event-`+e.ID+`-attendees.`+format.Extension()+`"`)
		if format == events.ExportExcel {
			w.Header().Set("Content-Type", xlsxType)
			_, _ = w.Write([]byte("PK\x03\x04 attendees " + strconv.Itoa(summary.TotalRegistrations)))
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		cw := csv.NewWriter(w)
		_ = cw.Write([]string{"RegistrationId", "MainAttendee", "AdditionalAttendees", "TotalAttendees", "Adults", "Children", "Email", "Phone", "Status", "PaymentStatus"})
		for _, a := range summary.Attendees {
			_ = cw.Write([]string{
				a.RegistrationID,
				a.MainAttendeeName,
				a.AdditionalAttendees,
				strconv.Itoa(a.TotalAttendees),
				strconv.Itoa(a.AdultCount),
				strconv.Itoa(a.ChildCount),
				a.ContactEmail,
				a.ContactPhone,
				a.Status.String(),
				a.PaymentStatus.String(),
			})
		}
		cw.Flush()
	}
}

// SendNotificationHandler records a completed send to every active registration.
func (s *Server) SendNotificationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		e := s.ownedEventLocked(w, r)
		if e == nil {
			return
		}
		if !e.Status.IsOpenForRegistration() {
			writeError(w, http.StatusBadRequest, "Notifications can only be sent for published events.")
			return
		}
		recipients := len(s.activeRegistrationsLocked(e.ID))
		s.notifications[e.ID] = append(s.notifications[e.ID], events.NotificationHistory{
			ID:              uuid.NewString(),
			EventID:         e.ID,
			SentByUserID:    claimsFrom(r).UserID,
			SentAt:          s.now().UTC().Format(time.RFC3339Nano),
			RecipientCount:  recipients,
			SuccessfulSends: recipients,
		})
		w.WriteHeader(http.StatusAccepted)
	}
}

// NotificationHistoryHandler lists sends newest first.
func (s *Server) NotificationHistoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		e := s.ownedEventLocked(w, r)
		if e == nil {
			return
		}
		out := slices.Clone(s.notifications[e.ID])
		slices.Reverse(out)
		writeJSON(w, http.StatusOK, nonNil(out))
	}
}

func (s *Server) SendReminderHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ReminderType string `json:"reminderType"`
		}
		if !readJSON(w, r, &body) {
			return
		}
		if strings.TrimSpace(body.ReminderType) == "" {
			writeValidation(w, "ReminderType", "Reminder type is required.")
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.ownedEventLocked(w, r) == nil {
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
