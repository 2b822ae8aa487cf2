package events

import (
	"slices"
	"time"
)

type EventImage struct {
	ID           string `json:"id"`
	ImageURL     string `json:"imageUrl"`
	DisplayOrder int    `json:"displayOrder"`
	IsPrimary    bool   `json:"isPrimary,omitempty"`
	UploadedAt   string `json:"uploadedAt"`
}

type EventVideo struct {
	ID            string  `json:"id"`
	VideoURL      string  `json:"videoUrl"`
	ThumbnailURL  string  `json:"thumbnailUrl"`
	Duration      *string `json:"duration,omitempty"` // ISO 8601 duration, e.g. PT1H30M
	Format        string  `json:"format"`
	FileSizeBytes int64   `json:"fileSizeBytes"`
	DisplayOrder  int     `json:"displayOrder"`
	UploadedAt    string  `json:"uploadedAt"`
}

type GroupPricingTier struct {
	MinAttendees   int      `json:"minAttendees"`
	MaxAttendees   *int     `json:"maxAttendees,omitempty"` // nil for an open-ended tier such as "6+"
	PricePerPerson float64  `json:"pricePerPerson"`
	Currency       Currency `json:"currency"`
	TierRange      string   `json:"tierRange,omitempty"`
}

// Event is the server's EventDto. Dates are kept as the server's ISO 8601 strings,
// use StartTime and EndTime to parse them.
type Event struct {
	ID                   string        `json:"id"`
	Title                string        `json:"title"`
	Description          string        `json:"description"`
	StartDate            string        `json:"startDate"`
	EndDate              string        `json:"endDate"`
	OrganizerID          string        `json:"organizerId"`
	Capacity             int           `json:"capacity"`
	CurrentRegistrations int           `json:"currentRegistrations"`
	Status               EventStatus   `json:"status"`
	Category             EventCategory `json:"category"`
	CreatedAt            string        `json:"createdAt"`
	UpdatedAt            *string       `json:"updatedAt,omitempty"`

	Address   *string  `json:"address,omitempty"`
	City      *string  `json:"city,omitempty"`
	State     *string  `json:"state,omitempty"`
	ZipCode   *string  `json:"zipCode,omitempty"`
	Country   *string  `json:"country,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	TicketPriceAmount   *float64  `json:"ticketPriceAmount,omitempty"`
	TicketPriceCurrency *Currency `json:"ticketPriceCurrency,omitempty"`
	IsFree              bool      `json:"isFree"`

	AdultPriceAmount   *float64  `json:"adultPriceAmount,omitempty"`
	AdultPriceCurrency *Currency `json:"adultPriceCurrency,omitempty"`
	ChildPriceAmount   *float64  `json:"childPriceAmount,omitempty"`
	ChildPriceCurrency *Currency `json:"childPriceCurrency,omitempty"`
	ChildAgeLimit      *int      `json:"childAgeLimit,omitempty"`
	HasDualPricing     bool      `json:"hasDualPricing"`

	PricingType       *PricingType       `json:"pricingType,omitempty"`
	GroupPricingTiers []GroupPricingTier `json:"groupPricingTiers"`
	HasGroupPricing   bool               `json:"hasGroupPricing"`

	Images []EventImage `json:"images"`
	Videos []EventVideo `json:"videos"`

	SearchRank *float64 `json:"searchRank,omitempty"` // Only set on search results
}

func (e Event) StartTime() (time.Time, error) {
	return ParseTime(e.StartDate)
}

func (e Event) EndTime() (time.Time, error) {
	return ParseTime(e.EndDate)
}

// SpotsLeft is the remaining capacity, never negative.
func (e Event) SpotsLeft() int {
	if left := e.Capacity - e.CurrentRegistrations; left > 0 {
		return left
	}
	return 0
}

func (e Event) IsFull() bool {
	return e.Capacity > 0 && e.CurrentRegistrations >= e.Capacity
}

// PrimaryImage returns the image flagged primary, else the lowest display order.
func (e Event) PrimaryImage() (EventImage, bool) {
	if len(e.Images) == 0 {
		return EventImage{}, false
	}
	best := e.Images[0]
	for _, img := range e.Images {
		if img.IsPrimary {
			return img, true
		}
		if img.DisplayOrder < best.DisplayOrder {
			best = img
		}
	}
	return best, true
}

// Clone returns a deep copy of e that shares no slices or pointers with it.
func (e Event) Clone() Event {
	c := e
	for _, p := range []**string{&c.UpdatedAt, &c.Address, &c.City, &c.State, &c.ZipCode, &c.Country} {
		*p = clonePtr(*p)
	}
	for _, p := range []**float64{&c.Latitude, &c.Longitude, &c.TicketPriceAmount, &c.AdultPriceAmount, &c.ChildPriceAmount, &c.SearchRank} {
		*p = clonePtr(*p)
	}
	for _, p := range []**Currency{&c.TicketPriceCurrency, &c.AdultPriceCurrency, &c.ChildPriceCurrency} {
		*p = clonePtr(*p)
	}
	c.ChildAgeLimit = clonePtr(e.ChildAgeLimit)
	c.PricingType = clonePtr(e.PricingType)

	c.Images = slices.Clone(e.Images)
	c.Videos = slices.Clone(e.Videos)
	for i := range c.Videos {
		c.Videos[i].Duration = clonePtr(c.Videos[i].Duration)
	}
	c.GroupPricingTiers = slices.Clone(e.GroupPricingTiers)
	for i := range c.GroupPricingTiers {
		c.GroupPricingTiers[i].MaxAttendees = clonePtr(c.GroupPricingTiers[i].MaxAttendees)
	}
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// ApplyUpdate returns a copy of e with every field set in req merged in. It is the
// optimistic view of an update, the server stays the source of truth.
func (e Event) ApplyUpdate(req UpdateEventRequest) Event {
	if req.Title != nil {
		e.Title = *req.Title
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.StartDate != nil {
		e.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		e.EndDate = *req.EndDate
	}
	if req.Capacity != nil {
		e.Capacity = *req.Capacity
	}
	if req.Category != nil {
		e.Category = *req.Category
	}
	if req.LocationAddress != nil {
		e.Address = req.LocationAddress
	}
	if req.LocationCity != nil {
		e.City = req.LocationCity
	}
	if req.LocationState != nil {
		e.State = req.LocationState
	}
	if req.LocationZipCode != nil {
		e.ZipCode = req.LocationZipCode
	}
	if req.LocationCountry != nil {
		e.Country = req.LocationCountry
	}
	if req.LocationLatitude != nil {
		e.Latitude = req.LocationLatitude
	}
	if req.LocationLongitude != nil {
		e.Longitude = req.LocationLongitude
	}
	if req.TicketPriceAmount != nil {
		e.TicketPriceAmount = req.TicketPriceAmount
		e.IsFree = *req.TicketPriceAmount == 0
	}
	if req.TicketPriceCurrency != nil {
		e.TicketPriceCurrency = req.TicketPriceCurrency
	}
	return e
}

// PagedResult is the server's paging envelope.
type PagedResult[T any] struct {
	Items           []T  `json:"items"`
	TotalCount      int  `json:"totalCount"`
	Page            int  `json:"page"`
	PageSize        int  `json:"pageSize"`
	TotalPages      int  `json:"totalPages"`
	HasPreviousPage bool `json:"hasPreviousPage"`
	HasNextPage     bool `json:"hasNextPage"`
}

type Attendee struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

// Registration is the signed-in user's registration for one event.
type Registration struct {
	ID                 string             `json:"id"`
	EventID            string             `json:"eventId"`
	UserID             string             `json:"userId,omitempty"`
	Quantity           int                `json:"quantity"`
	Status             RegistrationStatus `json:"status"`
	Attendees          []Attendee         `json:"attendees,omitempty"`
	Email              *string            `json:"email,omitempty"`
	PhoneNumber        *string            `json:"phoneNumber,omitempty"`
	Address            *string            `json:"address,omitempty"`
	TotalPriceAmount   *float64           `json:"totalPriceAmount,omitempty"`
	TotalPriceCurrency *Currency          `json:"totalPriceCurrency,omitempty"`
	CreatedAt          string             `json:"createdAt"`
	UpdatedAt          *string            `json:"updatedAt,omitempty"`
}

// AttendeeCount is the number of people this registration holds places for.
func (r Registration) AttendeeCount() int {
	if len(r.Attendees) > 0 {
		return len(r.Attendees)
	}
	if r.Quantity > 0 {
		return r.Quantity
	}
	return 1
}

type WaitingListEntry struct {
	ID       string `json:"id"`
	EventID  string `json:"eventId"`
	UserID   string `json:"userId"`
	AddedAt  string `json:"addedAt"`
	Position int    `json:"position"`
}

type Ticket struct {
	ID             string  `json:"id"`
	TicketCode     string  `json:"ticketCode"`
	QRCodeData     string  `json:"qrCodeData,omitempty"`
	RegistrationID string  `json:"registrationId"`
	EventID        string  `json:"eventId"`
	IsValid        bool    `json:"isValid"`
	IssuedAt       string  `json:"issuedAt"`
	ExpiresAt      *string `json:"expiresAt,omitempty"`
}

type AnonymousRegistrationResponse struct {
	RegistrationID string  `json:"registrationId"`
	CheckoutURL    *string `json:"checkoutUrl,omitempty"`
	Message        string  `json:"message,omitempty"`
}

type RegistrationCheck struct {
	HasUserAccount bool    `json:"hasUserAccount"`
	IsRegistered   bool    `json:"isRegistered"`
	UserID         *string `json:"userId,omitempty"`
	RegistrationID *string `json:"registrationId,omitempty"`
}

// ParseTime accepts the layouts the server emits, with or without an offset.
func ParseTime(s string) (time.Time, error) {
	layouts := []string{time.RFC3339Nano, "2006-01-02T15:04:05.9999999", "2006-01-02T15:04:05", "2006-01-02"}
	var err error
	for _, layout := range layouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
