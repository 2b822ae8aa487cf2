package queries

import (
	"context"

	"github.com/jrsteele09/lankaconnect-client/events"
	"github.com/jrsteele09/lankaconnect-client/querycache"
	"github.com/jrsteele09/lankaconnect-client/transport"
)

func (c *Client) Attendees(ctx context.Context, eventID string) (*events.EventAttendees, error) {
	return querycache.Fetch(ctx, c.cache, EventAttendeesKey(eventID), AttendeesStaleTime, func(ctx context.Context) (*events.EventAttendees, error) {
		return c.repo.GetEventAttendees(ctx, eventID)
	})
}

// ExportAttendees is never cached.
func (c *Client) ExportAttendees(ctx context.Context, eventID string, format events.ExportFormat) (*transport.Blob, error) {
	return c.repo.ExportEventAttendees(ctx, eventID, format)
}

func (c *Client) NotificationHistory(ctx context.Context, eventID string) ([]events.NotificationHistory, error) {
	return querycache.Fetch(ctx, c.cache, NotificationHistoryKey(eventID), NotificationStaleTime, func(ctx context.Context) ([]events.NotificationHistory, error) {
		return c.repo.GetEventNotificationHistory(ctx, eventID)
	})
}

// SendNotification refreshes the history so the new send shows up, and the
// event, whose notification counters change.
func (c *Client) SendNotification(ctx context.Context, eventID string) error {
	return mutate[[]events.NotificationHistory](c, NotificationHistoryKey(eventID), nil,
		func() error { return c.repo.SendEventNotification(ctx, eventID) },
		DetailKey(eventID))
}

func (c *Client) SendReminder(ctx context.Context, eventID, reminderType string) error {
	return mutate[events.Event](c, DetailKey(eventID), nil,
		func() error { return c.repo.SendEventReminder(ctx, eventID, reminderType) })
}
