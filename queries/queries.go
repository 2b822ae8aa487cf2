// Package queries is the read and write layer over the events repository. Reads go
// through the query cache, so concurrent identical reads share one request, and
// every write runs the optimistic protocol: apply, call, then commit or roll back.
package queries

import (
	"context"
	"io"
	"strings"

	"github.com/jrsteele09/lankaconnect-client/apierror"
	"github.com/jrsteele09/lankaconnect-client/events"
	"github.com/jrsteele09/lankaconnect-client/querycache"
	"github.com/jrsteele09/lankaconnect-client/transport"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	minSearchLength = 2
	prefetchLimit   = 4
)

// EventsRepository is the part of events.Repository the queries use.
type EventsRepository interface {
	GetEvents(ctx context.Context, filters events.GetEventsRequest) ([]events.Event, error)
	GetEventByID(ctx context.Context, id string) (*events.Event, error)
	SearchEvents(ctx context.Context, req events.SearchEventsRequest) (*events.PagedResult[events.Event], error)
	GetNearbyEvents(ctx context.Context, req events.GetNearbyEventsRequest) ([]events.Event, error)
	GetFeaturedEvents(ctx context.Context, req events.FeaturedRequest) ([]events.Event, error)
	GetUpcomingEvents(ctx context.Context) ([]events.Event, error)
	GetUserCreatedEvents(ctx context.Context) ([]events.Event, error)
	GetUserRsvps(ctx context.Context) ([]events.Event, error)
	GetUserRegistrationForEvent(ctx context.Context, eventID string) (*events.Registration, error)
	GetWaitingList(ctx context.Context, eventID string) ([]events.WaitingListEntry, error)

	CreateEvent(ctx context.Context, req events.CreateEventRequest) (string, error)
	UpdateEvent(ctx context.Context, id string, req events.UpdateEventRequest) error
	DeleteEvent(ctx context.Context, id string) error
	SubmitForApproval(ctx context.Context, id string) error
	PublishEvent(ctx context.Context, id string) error
	UnpublishEvent(ctx context.Context, id string) error
	CancelEvent(ctx context.Context, id, reason string) error
	PostponeEvent(ctx context.Context, id, reason string) error

	RsvpToEvent(ctx context.Context, eventID string, req events.RsvpRequest) (string, error)
	CancelRsvp(ctx context.Context, eventID string, deleteSignUpCommitments bool) error
	UpdateRsvp(ctx context.Context, eventID, userID string, newQuantity int) error
	UpdateRegistrationDetails(ctx context.Context, eventID string, req events.UpdateRegistrationRequest) error
	AddToWaitingList(ctx context.Context, eventID string) error
	RemoveFromWaitingList(ctx context.Context, eventID string) error

	UploadEventImage(ctx context.Context, eventID, fileName, contentType string, image io.Reader) (*events.EventImage, error)
	ReplaceEventImage(ctx context.Context, eventID, imageID, fileName, contentType string, image io.Reader) (*events.EventImage, error)
	DeleteEventImage(ctx context.Context, eventID, imageID string) error
	ReorderEventImages(ctx context.Context, eventID string, newOrders map[string]int) error
	SetPrimaryImage(ctx context.Context, eventID, imageID string) error

	GetEventSignUpLists(ctx context.Context, eventID string) ([]events.SignUpList, error)
	AddSignUpList(ctx context.Context, eventID string, req events.AddSignUpListRequest) error
	CreateSignUpList(ctx context.Context, eventID string, req events.CreateSignUpListRequest) (string, error)
	UpdateSignUpList(ctx context.Context, eventID, signUpID string, req events.UpdateSignUpListRequest) error
	RemoveSignUpList(ctx context.Context, eventID, signUpID string) error
	CommitToSignUp(ctx context.Context, eventID, signUpID string, req events.CommitToSignUpRequest) error
	CancelCommitment(ctx context.Context, eventID, signUpID string, req events.CancelCommitmentRequest) error
	AddSignUpItem(ctx context.Context, eventID, signUpID string, req events.SignUpItemRequest) (string, error)
	UpdateSignUpItem(ctx context.Context, eventID, signUpID, itemID string, req events.UpdateSignUpItemRequest) error
	RemoveSignUpItem(ctx context.Context, eventID, signUpID, itemID string) error
	CommitToSignUpItem(ctx context.Context, eventID, signUpID, itemID string, req events.CommitToSignUpItemRequest) error
	AddOpenSignUpItem(ctx context.Context, eventID, signUpID string, req events.OpenSignUpItemRequest) (string, error)
	UpdateOpenSignUpItem(ctx context.Context, eventID, signUpID, itemID string, req events.OpenSignUpItemRequest) error
	CancelOpenSignUpItem(ctx context.Context, eventID, signUpID, itemID string) error

	GetEventAttendees(ctx context.Context, eventID string) (*events.EventAttendees, error)
	ExportEventAttendees(ctx context.Context, eventID string, format events.ExportFormat) (*transport.Blob, error)
	SendEventNotification(ctx context.Context, eventID string) error
	GetEventNotificationHistory(ctx context.Context, eventID string) ([]events.NotificationHistory, error)
	SendEventReminder(ctx context.Context, eventID, reminderType string) error
}

var _ EventsRepository = (*events.Repository)(nil)

type Client struct {
	repo   EventsRepository
	cache  *querycache.Cache
	logger zerolog.Logger
}

type Option func(*Client)

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func New(repo EventsRepository, cache *querycache.Cache, opts ...Option) *Client {
	c := &Client{repo: repo, cache: cache, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromTransport wires an events repository and a fresh cache over api.
func NewFromTransport(api transport.API, opts ...Option) *Client {
	return New(events.NewRepository(api), querycache.New(), opts...)
}

func (c *Client) Cache() *querycache.Cache {
	return c.cache
}

// ==================== Reads ====================

func (c *Client) List(ctx context.Context, filters events.GetEventsRequest) ([]events.Event, error) {
	return querycache.Fetch(ctx, c.cache, ListKey(filters), ListStaleTime, func(ctx context.Context) ([]events.Event, error) {
		return c.repo.GetEvents(ctx, filters)
	})
}

// Get caches events by value, so optimistic updates always replace a detail
// rather than modify it. The caller owns the returned event.
func (c *Client) Get(ctx context.Context, id string) (*events.Event, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apierror.NewValidation("Event ID is required", map[string][]string{"id": {"Event ID is required"}}, nil)
	}
	e, err := querycache.Fetch(ctx, c.cache, DetailKey(id), DetailStaleTime, func(ctx context.Context) (events.Event, error) {
		e, err := c.repo.GetEventByID(ctx, id)
		if err != nil {
			return events.Event{}, err
		}
		return *e, nil
	})
	if err != nil {
		return nil, err
	}
	e = e.Clone()
	return &e, nil
}

// Search answers terms shorter than two characters with an empty page and no request.
func (c *Client) Search(ctx context.Context, req events.SearchEventsRequest) (*events.PagedResult[events.Event], error) {
	req.SearchTerm = strings.TrimSpace(req.SearchTerm)
	if len([]rune(req.SearchTerm)) < minSearchLength {
		return &events.PagedResult[events.Event]{Items: []events.Event{}, Page: max(req.Page, 1), PageSize: req.PageSize}, nil
	}
	return querycache.Fetch(ctx, c.cache, SearchKey(req), SearchStaleTime, func(ctx context.Context) (*events.PagedResult[events.Event], error) {
		return c.repo.SearchEvents(ctx, req)
	})
}

func (c *Client) Featured(ctx context.Context, req events.FeaturedRequest) ([]events.Event, error) {
	return querycache.Fetch(ctx, c.cache, FeaturedEventsKey(req), FeaturedStaleTime, func(ctx context.Context) ([]events.Event, error) {
		return c.repo.GetFeaturedEvents(ctx, req)
	})
}

func (c *Client) Nearby(ctx context.Context, req events.GetNearbyEventsRequest) ([]events.Event, error) {
	return querycache.Fetch(ctx, c.cache, NearbyKey(req), ListStaleTime, func(ctx context.Context) ([]events.Event, error) {
		return c.repo.GetNearbyEvents(ctx, req)
	})
}

func (c *Client) Upcoming(ctx context.Context) ([]events.Event, error) {
	return querycache.Fetch(ctx, c.cache, UpcomingKey(), ListStaleTime, c.repo.GetUpcomingEvents)
}

// Created lists the signed-in organizer's own events.
func (c *Client) Created(ctx context.Context) ([]events.Event, error) {
	return querycache.Fetch(ctx, c.cache, CreatedKey(), ListStaleTime, c.repo.GetUserCreatedEvents)
}

func (c *Client) UserRsvps(ctx context.Context) ([]events.Event, error) {
	return querycache.Fetch(ctx, c.cache, UserRsvpsKey, UserRsvpsStaleTime, c.repo.GetUserRsvps)
}

// UserRsvpForEvent selects one event from UserRsvps.
func (c *Client) UserRsvpForEvent(ctx context.Context, eventID string) (*events.Event, bool, error) {
	rsvps, err := c.UserRsvps(ctx)
	if err != nil {
		return nil, false, err
	}
	for _, e := range rsvps {
		if e.ID == eventID {
			return &e, true, nil
		}
	}
	return nil, false, nil
}

// RegistrationDetails is nil when the user is not registered or not signed in.
func (c *Client) RegistrationDetails(ctx context.Context, eventID string) (*events.Registration, error) {
	return querycache.Fetch(ctx, c.cache, UserRegistrationKey(eventID), RegistrationStaleTime, func(ctx context.Context) (*events.Registration, error) {
		reg, err := c.repo.GetUserRegistrationForEvent(ctx, eventID)
		if apierror.IsKind(err, apierror.KindUnauthorized) || apierror.IsKind(err, apierror.KindNotFound) {
			return nil, nil
		}
		return reg, err
	})
}

func (c *Client) WaitingList(ctx context.Context, eventID string) ([]events.WaitingListEntry, error) {
	return querycache.Fetch(ctx, c.cache, WaitingListKey(eventID), WaitingListStaleTime, func(ctx context.Context) ([]events.WaitingListEntry, error) {
		return c.repo.GetWaitingList(ctx, eventID)
	})
}

// Prefetch warms the detail entries for ids concurrently. It returns the first error.
func (c *Client) Prefetch(ctx context.Context, ids ...string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(prefetchLimit)
	for _, id := range ids {
		g.Go(func() error {
			_, err := c.Get(ctx, id)
			return err
		})
	}
	return g.Wait()
}

// ==================== Manual invalidation ====================

// InvalidateAll marks every event read stale, including the user's RSVPs and
// registrations.
func (c *Client) InvalidateAll() {
	c.cache.Invalidate(AllKey)
	c.cache.Invalidate(UserRsvpsKey)
	c.cache.Invalidate(RegistrationKey)
}

func (c *Client) InvalidateLists() {
	c.cache.Invalidate(ListsKey)
}

func (c *Client) InvalidateDetail(id string) {
	c.cache.Invalidate(DetailKey(id))
}
