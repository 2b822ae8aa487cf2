package events

import (
	"fmt"
	"strconv"
	"strings"
)

// EventStatus values match the server's numeric encoding.
type EventStatus int

const (
	StatusDraft EventStatus = iota
	StatusPublished
	StatusActive
	StatusPostponed
	StatusCancelled
	StatusCompleted
	StatusArchived
	StatusUnderReview
)

var eventStatusNames = []string{"Draft", "Published", "Active", "Postponed", "Cancelled", "Completed", "Archived", "UnderReview"}

func (s EventStatus) String() string {
	if int(s) >= 0 && int(s) < len(eventStatusNames) {
		return eventStatusNames[s]
	}
	return "EventStatus(" + strconv.Itoa(int(s)) + ")"
}

// IsOpenForRegistration reports whether RSVPs are accepted in this status.
func (s EventStatus) IsOpenForRegistration() bool {
	return s == StatusPublished || s == StatusActive
}

func ParseEventStatus(s string) (EventStatus, error) {
	v, err := parseEnum(s, eventStatusNames)
	return EventStatus(v), err
}

type EventCategory int

const (
	CategoryReligious EventCategory = iota
	CategoryCultural
	CategoryCommunity
	CategoryEducational
	CategorySocial
	CategoryBusiness
	CategoryCharity
	CategoryEntertainment
)

var eventCategoryNames = []string{"Religious", "Cultural", "Community", "Educational", "Social", "Business", "Charity", "Entertainment"}

func (c EventCategory) String() string {
	if int(c) >= 0 && int(c) < len(eventCategoryNames) {
		return eventCategoryNames[c]
	}
	return "EventCategory(" + strconv.Itoa(int(c)) + ")"
}

func ParseEventCategory(s string) (EventCategory, error) {
	v, err := parseEnum(s, eventCategoryNames)
	return EventCategory(v), err
}

type RegistrationStatus int

const (
	RegistrationPending RegistrationStatus = iota
	RegistrationConfirmed
	RegistrationWaitlisted
	RegistrationCheckedIn
	RegistrationCompleted
	RegistrationCancelled
	RegistrationRefunded
)

var registrationStatusNames = []string{"Pending", "Confirmed", "Waitlisted", "CheckedIn", "Completed", "Cancelled", "Refunded"}

func (r RegistrationStatus) String() string {
	if int(r) >= 0 && int(r) < len(registrationStatusNames) {
		return registrationStatusNames[r]
	}
	return "RegistrationStatus(" + strconv.Itoa(int(r)) + ")"
}

// Currency starts at 1 on the server.
type Currency int

const (
	CurrencyUSD Currency = iota + 1
	CurrencyLKR
	CurrencyGBP
	CurrencyEUR
	CurrencyCAD
	CurrencyAUD
)

var currencyNames = []string{"USD", "LKR", "GBP", "EUR", "CAD", "AUD"}

func (c Currency) String() string {
	if int(c) >= 1 && int(c) <= len(currencyNames) {
		return currencyNames[c-1]
	}
	return "Currency(" + strconv.Itoa(int(c)) + ")"
}

type PricingType int

const (
	PricingSingle PricingType = iota // Flat rate per attendee
	PricingAgeDual                   // Adult/child
	PricingGroupTiered               // Quantity-based tiers
)

func (p PricingType) String() string {
	switch p {
	case PricingSingle:
		return "Single"
	case PricingAgeDual:
		return "AgeDual"
	case PricingGroupTiered:
		return "GroupTiered"
	default:
		return "PricingType(" + strconv.Itoa(int(p)) + ")"
	}
}

// parseEnum accepts a case-insensitive name or the numeric value.
func parseEnum(s string, names []string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n >= len(names) {
			return 0, fmt.Errorf("value %d out of range", n)
		}
		return n, nil
	}
	for i, name := range names {
		if strings.EqualFold(name, s) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown value %q (expected one of %s)", s, strings.Join(names, ", "))
}
