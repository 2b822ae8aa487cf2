package queries

import (
	"context"
	"io"

	"github.com/jrsteele09/lankaconnect-client/events"
	"github.com/jrsteele09/lankaconnect-client/querycache"
)

// mutate runs one optimistic write against key. apply may be nil when there is
// nothing to show before the server answers. On failure the entry is restored and
// the call's error is returned unchanged. On success key and invalidate go stale.
func mutate[T any](c *Client, key querycache.Key, apply func(T) T, call func() error, invalidate ...querycache.Key) error {
	op := querycache.Begin[T](c.cache, key)
	if apply != nil {
		op.Apply(apply)
	}
	if err := call(); err != nil {
		op.Rollback()
		c.logger.Debug().Err(err).Str("key", key.String()).Msg("mutation rolled back")
		return err
	}
	op.Commit(invalidate...)
	return nil
}

func withStatus(status events.EventStatus) func(events.Event) events.Event {
	return func(e events.Event) events.Event {
		e.Status = status
		return e
	}
}

func withRegistrations(delta int) func(events.Event) events.Event {
	return func(e events.Event) events.Event {
		e.CurrentRegistrations = max(e.CurrentRegistrations+delta, 0)
		return e
	}
}

// ==================== Event mutations ====================

// Create returns the new event's ID. There is no entry to update beforehand, so
// it only invalidates the lists.
func (c *Client) Create(ctx context.Context, req events.CreateEventRequest) (string, error) {
	id, err := c.repo.CreateEvent(ctx, req)
	if err != nil {
		return "", err
	}
	c.cache.Invalidate(ListsKey)
	return id, nil
}

func (c *Client) Update(ctx context.Context, id string, req events.UpdateEventRequest) error {
	return mutate(c, DetailKey(id),
		func(e events.Event) events.Event { return e.ApplyUpdate(req) },
		func() error { return c.repo.UpdateEvent(ctx, id, req) },
		ListsKey)
}

// Delete evicts the detail at once. A failed delete puts it back.
func (c *Client) Delete(ctx context.Context, id string) error {
	op := querycache.Begin[events.Event](c.cache, DetailKey(id))
	op.Remove()
	if err := c.repo.DeleteEvent(ctx, id); err != nil {
		op.Rollback()
		return err
	}
	op.Commit(ListsKey)
	return nil
}

func (c *Client) SubmitForApproval(ctx context.Context, id string) error {
	return mutate(c, DetailKey(id), withStatus(events.StatusUnderReview),
		func() error { return c.repo.SubmitForApproval(ctx, id) }, ListsKey)
}

func (c *Client) Publish(ctx context.Context, id string) error {
	return mutate(c, DetailKey(id), withStatus(events.StatusPublished),
		func() error { return c.repo.PublishEvent(ctx, id) }, ListsKey)
}

func (c *Client) Unpublish(ctx context.Context, id string) error {
	return mutate(c, DetailKey(id), withStatus(events.StatusDraft),
		func() error { return c.repo.UnpublishEvent(ctx, id) }, ListsKey)
}

func (c *Client) Cancel(ctx context.Context, id, reason string) error {
	return mutate(c, DetailKey(id), withStatus(events.StatusCancelled),
		func() error { return c.repo.CancelEvent(ctx, id, reason) }, ListsKey)
}

func (c *Client) Postpone(ctx context.Context, id, reason string) error {
	return mutate(c, DetailKey(id), withStatus(events.StatusPostponed),
		func() error { return c.repo.PostponeEvent(ctx, id, reason) }, ListsKey)
}

// ==================== Registration mutations ====================

// Rsvp reserves req.AttendeeCount() places optimistically. For a paid event the
// returned string is the checkout URL.
func (c *Client) Rsvp(ctx context.Context, eventID string, req events.RsvpRequest) (string, error) {
	var checkout string
	err := mutate(c, DetailKey(eventID), withRegistrations(req.AttendeeCount()),
		func() (err error) {
			checkout, err = c.repo.RsvpToEvent(ctx, eventID, req)
			return err
		},
		UserRsvpsKey, UserRegistrationKey(eventID))
	return checkout, err
}

// CancelRsvp releases the places held by the cached registration, or one place
// when it is not cached. Dropping sign-up commitments also refreshes the event's lists.
func (c *Client) CancelRsvp(ctx context.Context, eventID string, deleteSignUpCommitments bool) error {
	held := 1
	if reg, ok := querycache.Get[*events.Registration](c.cache, UserRegistrationKey(eventID)); ok && reg != nil {
		held = reg.AttendeeCount()
	}
	invalidate := []querycache.Key{UserRsvpsKey, UserRegistrationKey(eventID)}
	if deleteSignUpCommitments {
		invalidate = append(invalidate, SignUpListKey(eventID))
	}
	return mutate(c, DetailKey(eventID), withRegistrations(-held),
		func() error { return c.repo.CancelRsvp(ctx, eventID, deleteSignUpCommitments) },
		invalidate...)
}

func (c *Client) UpdateRsvp(ctx context.Context, eventID, userID string, newQuantity int) error {
	var apply func(events.Event) events.Event
	if reg, ok := querycache.Get[*events.Registration](c.cache, UserRegistrationKey(eventID)); ok && reg != nil {
		apply = withRegistrations(newQuantity - reg.AttendeeCount())
	}
	return mutate(c, DetailKey(eventID), apply,
		func() error { return c.repo.UpdateRsvp(ctx, eventID, userID, newQuantity) },
		UserRsvpsKey, UserRegistrationKey(eventID))
}

func (c *Client) UpdateRegistrationDetails(ctx context.Context, eventID string, req events.UpdateRegistrationRequest) error {
	return mutate(c, UserRegistrationKey(eventID),
		func(reg *events.Registration) *events.Registration {
			if reg == nil {
				return nil
			}
			updated := *reg
			updated.Attendees = req.Attendees
			updated.Email = &req.Email
			updated.PhoneNumber = &req.PhoneNumber
			if req.Address != "" {
				updated.Address = &req.Address
			}
			return &updated
		},
		func() error { return c.repo.UpdateRegistrationDetails(ctx, eventID, req) },
		DetailKey(eventID))
}

func (c *Client) JoinWaitingList(ctx context.Context, eventID string) error {
	return mutate[[]events.WaitingListEntry](c, WaitingListKey(eventID), nil,
		func() error { return c.repo.AddToWaitingList(ctx, eventID) },
		DetailKey(eventID))
}

func (c *Client) LeaveWaitingList(ctx context.Context, eventID string) error {
	return mutate[[]events.WaitingListEntry](c, WaitingListKey(eventID), nil,
		func() error { return c.repo.RemoveFromWaitingList(ctx, eventID) },
		DetailKey(eventID))
}

// ==================== Media mutations ====================

func (c *Client) UploadImage(ctx context.Context, eventID, fileName, contentType string, image io.Reader) (*events.EventImage, error) {
	var img *events.EventImage
	err := mutate[events.Event](c, DetailKey(eventID), nil, func() (err error) {
		img, err = c.repo.UploadEventImage(ctx, eventID, fileName, contentType, image)
		return err
	})
	return img, err
}

func (c *Client) ReplaceImage(ctx context.Context, eventID, imageID, fileName, contentType string, image io.Reader) (*events.EventImage, error) {
	var img *events.EventImage
	err := mutate[events.Event](c, DetailKey(eventID), nil, func() (err error) {
		img, err = c.repo.ReplaceEventImage(ctx, eventID, imageID, fileName, contentType, image)
		return err
	})
	return img, err
}

func (c *Client) DeleteImage(ctx context.Context, eventID, imageID string) error {
	return mutate(c, DetailKey(eventID),
		func(e events.Event) events.Event {
			kept := make([]events.EventImage, 0, len(e.Images))
			for _, img := range e.Images {
				if img.ID != imageID {
					kept = append(kept, img)
				}
			}
			e.Images = kept
			return e
		},
		func() error { return c.repo.DeleteEventImage(ctx, eventID, imageID) })
}

func (c *Client) ReorderImages(ctx context.Context, eventID string, newOrders map[string]int) error {
	return mutate(c, DetailKey(eventID),
		func(e events.Event) events.Event {
			images := make([]events.EventImage, len(e.Images))
			for i, img := range e.Images {
				if order, ok := newOrders[img.ID]; ok {
					img.DisplayOrder = order
				}
				images[i] = img
			}
			e.Images = images
			return e
		},
		func() error { return c.repo.ReorderEventImages(ctx, eventID, newOrders) })
}

func (c *Client) SetPrimaryImage(ctx context.Context, eventID, imageID string) error {
	return mutate(c, DetailKey(eventID),
		func(e events.Event) events.Event {
			images := make([]events.EventImage, len(e.Images))
			for i, img := range e.Images {
				img.IsPrimary = img.ID == imageID
				images[i] = img
			}
			e.Images = images
			return e
		},
		func() error { return c.repo.SetPrimaryImage(ctx, eventID, imageID) })
}

// Subscribe reports changes to any entry under prefix.
func (c *Client) Subscribe(prefix querycache.Key, fn func(querycache.Event)) (unsubscribe func()) {
	return c.cache.Subscribe(prefix, fn)
}
