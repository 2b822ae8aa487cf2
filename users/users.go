package users

import (
	"strings"
	"time"
)

// Role is serialised by name.
type Role string

const (
	RoleGeneralUser                    Role = "GeneralUser"
	RoleBusinessOwner                  Role = "BusinessOwner"
	RoleEventOrganizer                 Role = "EventOrganizer"
	RoleEventOrganizerAndBusinessOwner Role = "EventOrganizerAndBusinessOwner"
	RoleAdmin                          Role = "Admin"
	RoleAdminManager                   Role = "AdminManager"
)

var roles = []Role{
	RoleGeneralUser,
	RoleBusinessOwner,
	RoleEventOrganizer,
	RoleEventOrganizerAndBusinessOwner,
	RoleAdmin,
	RoleAdminManager,
}

// ParseRole matches a role name case-insensitively.
func ParseRole(s string) (Role, bool) {
	for _, r := range roles {
		if strings.EqualFold(string(r), strings.TrimSpace(s)) {
			return r, true
		}
	}
	return "", false
}

type SubscriptionStatus string

const (
	SubscriptionNone     SubscriptionStatus = "None"
	SubscriptionTrialing SubscriptionStatus = "Trialing"
	SubscriptionActive   SubscriptionStatus = "Active"
	SubscriptionPastDue  SubscriptionStatus = "PastDue"
	SubscriptionCanceled SubscriptionStatus = "Canceled"
	SubscriptionExpired  SubscriptionStatus = "Expired"
)

// User is the signed-in user's profile as returned by login and kept in the session.
type User struct {
	UserID                string             `json:"userId"`
	Email                 string             `json:"email"`
	FirstName             string             `json:"firstName,omitempty"`
	LastName              string             `json:"lastName,omitempty"`
	FullName              string             `json:"fullName,omitempty"`
	Role                  Role               `json:"role"`
	PendingUpgradeRole    *Role              `json:"pendingUpgradeRole,omitempty"`
	UpgradeRequestedAt    *string            `json:"upgradeRequestedAt,omitempty"`
	SubscriptionStatus    SubscriptionStatus `json:"subscriptionStatus,omitempty"`
	FreeTrialEndsAt       *string            `json:"freeTrialEndsAt,omitempty"`
	PreferredMetroAreaIDs []string           `json:"preferredMetroAreaIds,omitempty"`
}

// DisplayName prefers the full name, then first and last, then the email.
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	return u.Email
}

func IsAdmin(role Role) bool {
	return role == RoleAdmin || role == RoleAdminManager
}

func isOrganizer(role Role) bool {
	return role == RoleEventOrganizer || role == RoleEventOrganizerAndBusinessOwner
}

func isBusinessOwner(role Role) bool {
	return role == RoleBusinessOwner || role == RoleEventOrganizerAndBusinessOwner
}

// RequiresSubscription reports whether the role's privileges depend on a paid plan.
func RequiresSubscription(role Role) bool {
	return isOrganizer(role) || isBusinessOwner(role)
}

func hasLiveSubscription(u User) bool {
	return u.SubscriptionStatus == SubscriptionActive || u.SubscriptionStatus == SubscriptionTrialing
}

// CanCreateEvents is true for admins, and for organizers with an active or trialing plan.
func CanCreateEvents(u User) bool {
	if IsAdmin(u.Role) {
		return true
	}
	return isOrganizer(u.Role) && hasLiveSubscription(u)
}

func CanCreateBusinessProfile(u User) bool {
	if IsAdmin(u.Role) {
		return true
	}
	return isBusinessOwner(u.Role) && hasLiveSubscription(u)
}

func HasPendingUpgrade(u User) bool {
	return u.PendingUpgradeRole != nil && *u.PendingUpgradeRole != ""
}

// CanRequestUpgrade is only open to general users without a request in flight.
func CanRequestUpgrade(u User) bool {
	return u.Role == RoleGeneralUser && !HasPendingUpgrade(u)
}

// IsTrialActive reports whether the user is trialing and the trial has not ended at now.
func IsTrialActive(u User, now time.Time) bool {
	if u.SubscriptionStatus != SubscriptionTrialing || u.FreeTrialEndsAt == nil {
		return false
	}
	ends, err := parseTime(*u.FreeTrialEndsAt)
	if err != nil {
		return false
	}
	return now.Before(ends)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05.9999999", s)
}
