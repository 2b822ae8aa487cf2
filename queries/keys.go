package queries

import (
	"time"

	"github.com/jrsteele09/lankaconnect-client/events"
	"github.com/jrsteele09/lankaconnect-client/querycache"
)

// How long each read is served from the cache before it is refetched.
const (
	ListStaleTime         = 5 * time.Minute
	DetailStaleTime       = 10 * time.Minute
	SearchStaleTime       = 2 * time.Minute
	FeaturedStaleTime     = 5 * time.Minute
	UserRsvpsStaleTime    = 5 * time.Minute
	RegistrationStaleTime = 5 * time.Minute
	WaitingListStaleTime  = time.Minute
	SignUpsStaleTime      = 5 * time.Minute
	AttendeesStaleTime    = 2 * time.Minute
	NotificationStaleTime = 30 * time.Second
)

// Key roots. Every event read lives under AllKey. Lists, including upcoming, nearby
// and created, live under ListsKey so one invalidation covers them all.
var (
	AllKey          = querycache.NewKey("events")
	ListsKey        = AllKey.With("list")
	DetailsKey      = AllKey.With("detail")
	SearchesKey     = AllKey.With("search")
	FeaturedKey     = AllKey.With("featured")
	WaitingListsKey = AllKey.With("waiting-list")
	UserRsvpsKey    = querycache.NewKey("user-rsvps")
	RegistrationKey = querycache.NewKey("user-registration")

	// Organizer and sign-up reads sit outside AllKey, so InvalidateAll leaves them alone.
	SignUpListsKey   = querycache.NewKey("signups", "list")
	AttendeesKey     = querycache.NewKey("event-attendees")
	NotificationsKey = querycache.NewKey("event-notification-history")
)

func ListKey(filters events.GetEventsRequest) querycache.Key {
	return ListsKey.WithParams(filters.Query())
}

func UpcomingKey() querycache.Key {
	return ListsKey.With("upcoming")
}

func CreatedKey() querycache.Key {
	return ListsKey.With("created")
}

func NearbyKey(req events.GetNearbyEventsRequest) querycache.Key {
	return ListsKey.With("nearby").WithParams(req.Query())
}

func DetailKey(id string) querycache.Key {
	return DetailsKey.With(id)
}

// SearchKey groups every page of one term under events/search/<term>.
func SearchKey(req events.SearchEventsRequest) querycache.Key {
	q := req.Query()
	q.Del("searchTerm")
	return SearchesKey.With(req.SearchTerm).WithParams(q)
}

func FeaturedEventsKey(req events.FeaturedRequest) querycache.Key {
	return FeaturedKey.WithParams(req.Query())
}

func WaitingListKey(eventID string) querycache.Key {
	return WaitingListsKey.With(eventID)
}

func UserRegistrationKey(eventID string) querycache.Key {
	return RegistrationKey.With(eventID)
}

func SignUpListKey(eventID string) querycache.Key {
	return SignUpListsKey.With(eventID)
}

func EventAttendeesKey(eventID string) querycache.Key {
	return AttendeesKey.With(eventID)
}

func NotificationHistoryKey(eventID string) querycache.Key {
	return NotificationsKey.With(eventID)
}
