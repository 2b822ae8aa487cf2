package mockapi_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/jrsteele09/lankaconnect-client/apierror"
	"github.com/jrsteele09/lankaconnect-client/events"
	"github.com/jrsteele09/lankaconnect-client/internal/mockapi"
	"github.com/jrsteele09/lankaconnect-client/users"
	"github.com/stretchr/testify/require"
)

func (f *testFixture) publishedEvent(t *testing.T, organizer users.User) events.Event {
	t.Helper()
	return f.api.AddEvent(events.Event{
		Title:       "Avurudu Kumara",
		OrganizerID: organizer.UserID,
		Status:      events.StatusPublished,
		Capacity:    20,
		IsFree:      true,
		StartDate:   "2026-04-14T09:00:00Z",
		EndDate:     "2026-04-14T17:00:00Z",
	})
}

func TestSignUpItemCommitments(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	org := f.signIn(t, mockapi.SeedUser{Email: "org@example.com", Password: "password1", Role: users.RoleEventOrganizer, SubscriptionStatus: users.SubscriptionActive})
	e := f.publishedEvent(t, org)

	listID, err := f.events.CreateSignUpList(ctx, e.ID, events.CreateSignUpListRequest{
		Category:     "Food",
		HasOpenItems: true,
		Items:        []events.SignUpItemRequest{{ItemDescription: "Kiribath", Quantity: 3, ItemCategory: events.ItemMandatory}},
	})
	require.NoError(t, err)
	lists := f.api.SignUpLists(e.ID)
	require.Len(t, lists, 1)
	itemID := lists[0].Items[0].ID

	commit := func(qty int) error {
		return f.events.CommitToSignUpItem(ctx, e.ID, listID, itemID, events.CommitToSignUpItemRequest{UserID: org.UserID, Quantity: qty})
	}
	require.NoError(t, commit(2))
	require.NoError(t, commit(1))
	item, ok := f.api.SignUpLists(e.ID)[0].Item(itemID)
	require.True(t, ok)
	require.Len(t, item.Commitments, 1)
	require.Equal(t, 1, item.CommittedQuantity)
	require.Equal(t, 2, item.RemainingQuantity)

	require.ErrorIs(t, commit(4), apierror.ErrValidation)

	err = f.events.UpdateSignUpItem(ctx, e.ID, listID, itemID, events.UpdateSignUpItemRequest{ItemDescription: "Kiribath", Quantity: 1})
	require.NoError(t, err)
	item, _ = f.api.SignUpLists(e.ID)[0].Item(itemID)
	require.True(t, item.IsFullyCommitted)

	openID, err := f.events.AddOpenSignUpItem(ctx, e.ID, listID, events.OpenSignUpItemRequest{UserID: org.UserID, ItemName: "Kavum", Quantity: 10})
	require.NoError(t, err)
	open, ok := f.api.SignUpLists(e.ID)[0].Item(openID)
	require.True(t, ok)
	require.Equal(t, events.ItemOpen, open.ItemCategory)
	require.Equal(t, org.UserID, *open.CreatedByUserID)
	require.True(t, open.IsFullyCommitted)

	guest := f.signIn(t, mockapi.SeedUser{Email: "guest@example.com", Password: "password1"})
	err = f.events.UpdateOpenSignUpItem(ctx, e.ID, listID, openID, events.OpenSignUpItemRequest{UserID: guest.UserID, ItemName: "Kokis", Quantity: 1})
	require.ErrorIs(t, err, apierror.ErrForbidden)
	err = f.events.CommitToSignUp(ctx, e.ID, listID, events.CommitToSignUpRequest{UserID: org.UserID, ItemDescription: "Rice", Quantity: 1})
	require.ErrorIs(t, err, apierror.ErrForbidden)
}

func TestCancelRsvpDropsSignUpCommitments(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	org := f.signIn(t, mockapi.SeedUser{Email: "org@example.com", Password: "password1", Role: users.RoleEventOrganizer, SubscriptionStatus: users.SubscriptionActive})
	e := f.publishedEvent(t, org)
	list := f.api.AddSignUpList(e.ID, events.SignUpList{Category: "Drinks"})

	_, err := f.events.RsvpToEvent(ctx, e.ID, events.RsvpRequest{UserID: org.UserID})
	require.NoError(t, err)
	require.NoError(t, f.events.CommitToSignUp(ctx, e.ID, list.ID, events.CommitToSignUpRequest{UserID: org.UserID, ItemDescription: "Faluda", Quantity: 1}))
	require.Equal(t, 1, f.api.SignUpLists(e.ID)[0].CommitmentCount)

	require.NoError(t, f.events.CancelRsvp(ctx, e.ID, true))
	require.Equal(t, 0, f.api.SignUpLists(e.ID)[0].CommitmentCount)
}

func TestAttendeesAndExport(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	org := f.signIn(t, mockapi.SeedUser{Email: "org@example.com", Password: "password1", Role: users.RoleEventOrganizer, SubscriptionStatus: users.SubscriptionActive})
	e := f.publishedEvent(t, org)

	_, err := f.events.RsvpToEvent(ctx, e.ID, events.RsvpRequest{
		UserID:    org.UserID,
		Attendees: []events.Attendee{{Name: "Nimal", Age: 40}, {Name: "Sunil", Age: 8}},
		Email:     "org@example.com",
	})
	require.NoError(t, err)

	summary, err := f.events.GetEventAttendees(ctx, e.ID)
	require.NoError(t, err)
	require.Equal(t, 1, summary.TotalRegistrations)
	require.Equal(t, 2, summary.TotalAttendees)
	a := summary.Attendees[0]
	require.Equal(t, "Nimal", a.MainAttendeeName)
	require.Equal(t, "Sunil", a.AdditionalAttendees)
	require.Equal(t, 1, a.AdultCount)
	require.Equal(t, 1, a.ChildCount)
	require.Equal(t, events.PaymentNotRequired, a.PaymentStatus)

	blob, err := f.events.ExportEventAttendees(ctx, e.ID, events.ExportCSV)
	require.NoError(t, err)
	require.Equal(t, "event-"+e.ID+"-attendees.csv", blob.FileName)
	rows, err := csv.NewReader(bytes.NewReader(blob.Data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "Nimal", rows[1][1])

	blob, err = f.events.ExportEventAttendees(ctx, e.ID, events.ExportExcel)
	require.NoError(t, err)
	require.Equal(t, "event-"+e.ID+"-attendees.xlsx", blob.FileName)

	_, err = f.events.ExportEventAttendees(ctx, e.ID, events.ExportFormat("pdf"))
	require.ErrorIs(t, err, apierror.ErrValidation)

	f.signIn(t, mockapi.SeedUser{Email: "guest@example.com", Password: "password1"})
	_, err = f.events.GetEventAttendees(ctx, e.ID)
	require.ErrorIs(t, err, apierror.ErrForbidden)
}

func TestNotificationHistoryNewestFirst(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	org := f.signIn(t, mockapi.SeedUser{Email: "org@example.com", Password: "password1", Role: users.RoleEventOrganizer, SubscriptionStatus: users.SubscriptionActive})
	e := f.publishedEvent(t, org)

	require.NoError(t, f.events.SendEventNotification(ctx, e.ID))
	_, err := f.events.RsvpToEvent(ctx, e.ID, events.RsvpRequest{UserID: org.UserID})
	require.NoError(t, err)
	require.NoError(t, f.events.SendEventNotification(ctx, e.ID))

	history, err := f.events.GetEventNotificationHistory(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, 1, history[0].RecipientCount)
	require.Equal(t, 0, history[1].RecipientCount)

	require.NoError(t, f.events.SendEventReminder(ctx, e.ID, "1day"))

	draft := f.api.AddEvent(events.Event{Title: "Draft", OrganizerID: org.UserID, Status: events.StatusDraft, Capacity: 5, IsFree: true})
	err = f.events.SendEventNotification(ctx, draft.ID)
	require.ErrorIs(t, err, apierror.ErrValidation)
}
