package events

import (
	"net/url"
	"strconv"

	"github.com/jrsteele09/lankaconnect-client/internal/utils"
)

// GetEventsRequest filters the event list. nil fields are left out of the query.
type GetEventsRequest struct {
	Status        *EventStatus
	Category      *EventCategory
	StartDateFrom string
	StartDateTo   string
	IsFreeOnly    *bool
	City          string
	State         string
	UserID        string // sorts by the user's preferred metros
	Latitude      *float64
	Longitude     *float64
	MetroAreaIDs  []string
}

// Query encodes the filters. Every metro area ID becomes its own parameter.
func (r GetEventsRequest) Query() url.Values {
	q := url.Values{}
	if r.Status != nil {
		q.Set("status", strconv.Itoa(int(*r.Status)))
	}
	if r.Category != nil {
		q.Set("category", strconv.Itoa(int(*r.Category)))
	}
	if r.StartDateFrom != "" {
		q.Set("startDateFrom", r.StartDateFrom)
	}
	if r.StartDateTo != "" {
		q.Set("startDateTo", r.StartDateTo)
	}
	if r.IsFreeOnly != nil {
		q.Set("isFreeOnly", strconv.FormatBool(*r.IsFreeOnly))
	}
	if r.City != "" {
		q.Set("city", r.City)
	}
	if r.State != "" {
		q.Set("state", r.State)
	}
	if r.UserID != "" {
		q.Set("userId", r.UserID)
	}
	if r.Latitude != nil {
		q.Set("latitude", utils.FormatFloat(*r.Latitude))
	}
	if r.Longitude != nil {
		q.Set("longitude", utils.FormatFloat(*r.Longitude))
	}
	for _, id := range utils.NonEmpty(r.MetroAreaIDs) {
		q.Add("metroAreaIds", id)
	}
	return q
}

type SearchEventsRequest struct {
	SearchTerm    string
	Page          int // defaults to 1
	PageSize      int // defaults to 20
	Category      *EventCategory
	IsFreeOnly    *bool
	StartDateFrom string
}

func (r SearchEventsRequest) Query() url.Values {
	page, size := r.Page, r.PageSize
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	q := url.Values{}
	q.Set("searchTerm", r.SearchTerm)
	q.Set("page", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(size))
	if r.Category != nil {
		q.Set("category", strconv.Itoa(int(*r.Category)))
	}
	if r.IsFreeOnly != nil {
		q.Set("isFreeOnly", strconv.FormatBool(*r.IsFreeOnly))
	}
	if r.StartDateFrom != "" {
		q.Set("startDateFrom", r.StartDateFrom)
	}
	return q
}

type GetNearbyEventsRequest struct {
	Latitude      float64
	Longitude     float64
	RadiusKm      float64
	Category      *EventCategory
	IsFreeOnly    *bool
	StartDateFrom string
}

func (r GetNearbyEventsRequest) Query() url.Values {
	q := url.Values{}
	q.Set("latitude", utils.FormatFloat(r.Latitude))
	q.Set("longitude", utils.FormatFloat(r.Longitude))
	q.Set("radiusKm", utils.FormatFloat(r.RadiusKm))
	if r.Category != nil {
		q.Set("category", strconv.Itoa(int(*r.Category)))
	}
	if r.IsFreeOnly != nil {
		q.Set("isFreeOnly", strconv.FormatBool(*r.IsFreeOnly))
	}
	if r.StartDateFrom != "" {
		q.Set("startDateFrom", r.StartDateFrom)
	}
	return q
}

// FeaturedRequest locates the caller, by preferred metros or coordinates.
type FeaturedRequest struct {
	UserID    string
	Latitude  *float64
	Longitude *float64
}

func (r FeaturedRequest) Query() url.Values {
	q := url.Values{}
	if r.UserID != "" {
		q.Set("userId", r.UserID)
	}
	if r.Latitude != nil {
		q.Set("latitude", utils.FormatFloat(*r.Latitude))
	}
	if r.Longitude != nil {
		q.Set("longitude", utils.FormatFloat(*r.Longitude))
	}
	return q
}

type CreateEventRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	StartDate   string         `json:"startDate"`
	EndDate     string         `json:"endDate"`
	OrganizerID string         `json:"organizerId"`
	Capacity    int            `json:"capacity"`
	Category    *EventCategory `json:"category,omitempty"`

	LocationAddress   *string  `json:"locationAddress,omitempty"`
	LocationCity      *string  `json:"locationCity,omitempty"`
	LocationState     *string  `json:"locationState,omitempty"`
	LocationZipCode   *string  `json:"locationZipCode,omitempty"`
	LocationCountry   *string  `json:"locationCountry,omitempty"`
	LocationLatitude  *float64 `json:"locationLatitude,omitempty"`
	LocationLongitude *float64 `json:"locationLongitude,omitempty"`

	TicketPriceAmount   *float64  `json:"ticketPriceAmount,omitempty"`
	TicketPriceCurrency *Currency `json:"ticketPriceCurrency,omitempty"`

	AdultPriceAmount   *float64  `json:"adultPriceAmount,omitempty"`
	AdultPriceCurrency *Currency `json:"adultPriceCurrency,omitempty"`
	ChildPriceAmount   *float64  `json:"childPriceAmount,omitempty"`
	ChildPriceCurrency *Currency `json:"childPriceCurrency,omitempty"`
	ChildAgeLimit      *int      `json:"childAgeLimit,omitempty"`

	GroupPricingTiers []GroupPricingTier `json:"groupPricingTiers,omitempty"`
}

// UpdateEventRequest carries only the fields being changed.
type UpdateEventRequest struct {
	EventID     string         `json:"eventId"`
	Title       *string        `json:"title,omitempty"`
	Description *string        `json:"description,omitempty"`
	StartDate   *string        `json:"startDate,omitempty"`
	EndDate     *string        `json:"endDate,omitempty"`
	Capacity    *int           `json:"capacity,omitempty"`
	Category    *EventCategory `json:"category,omitempty"`

	LocationAddress   *string  `json:"locationAddress,omitempty"`
	LocationCity      *string  `json:"locationCity,omitempty"`
	LocationState     *string  `json:"locationState,omitempty"`
	LocationZipCode   *string  `json:"locationZipCode,omitempty"`
	LocationCountry   *string  `json:"locationCountry,omitempty"`
	LocationLatitude  *float64 `json:"locationLatitude,omitempty"`
	LocationLongitude *float64 `json:"locationLongitude,omitempty"`

	TicketPriceAmount   *float64  `json:"ticketPriceAmount,omitempty"`
	TicketPriceCurrency *Currency `json:"ticketPriceCurrency,omitempty"`
}

type RsvpRequest struct {
	UserID      string     `json:"userId"`
	Quantity    int        `json:"quantity,omitempty"` // Legacy, defaults to 1
	Attendees   []Attendee `json:"attendees,omitempty"`
	Email       string     `json:"email,omitempty"`
	PhoneNumber string     `json:"phoneNumber,omitempty"`
	Address     string     `json:"address,omitempty"`
	SuccessURL  string     `json:"successUrl,omitempty"` // Paid events redirect here after checkout
	CancelURL   string     `json:"cancelUrl,omitempty"`
}

// AttendeeCount is how many places the RSVP takes: attendees, else quantity, else 1.
func (r RsvpRequest) AttendeeCount() int {
	if len(r.Attendees) > 0 {
		return len(r.Attendees)
	}
	if r.Quantity > 0 {
		return r.Quantity
	}
	return 1
}

type AnonymousRegistrationRequest struct {
	Name        string     `json:"name,omitempty"`
	Age         int        `json:"age,omitempty"`
	Attendees   []Attendee `json:"attendees,omitempty"`
	Email       string     `json:"email"`
	PhoneNumber string     `json:"phoneNumber"`
	Address     string     `json:"address,omitempty"`
	Quantity    int        `json:"quantity,omitempty"`
}

type UpdateRsvpRequest struct {
	UserID      string `json:"userId"`
	NewQuantity int    `json:"newQuantity"`
}

type UpdateRegistrationRequest struct {
	Attendees   []Attendee `json:"attendees"`
	Email       string     `json:"email"`
	PhoneNumber string     `json:"phoneNumber"`
	Address     string     `json:"address,omitempty"`
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

type shareRequest struct {
	Platform string `json:"platform,omitempty"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type reorderRequest struct {
	NewOrders map[string]int `json:"newOrders"`
}
