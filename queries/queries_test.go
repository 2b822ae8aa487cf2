package queries_test

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jrsteele09/lankaconnect-client/apierror"
	"github.com/jrsteele09/lankaconnect-client/auth"
	"github.com/jrsteele09/lankaconnect-client/events"
	"github.com/jrsteele09/lankaconnect-client/internal/mockapi"
	"github.com/jrsteele09/lankaconnect-client/internal/utils"
	"github.com/jrsteele09/lankaconnect-client/querycache"
	"github.com/jrsteele09/lankaconnect-client/queries"
	"github.com/jrsteele09/lankaconnect-client/transport"
	"github.com/jrsteele09/lankaconnect-client/users"
	"github.com/stretchr/testify/require"
)

type testFixture struct {
	api     *mockapi.Server
	queries *queries.Client
	cache   *querycache.Cache
	user    users.User
}

func setupTestFixture(t *testing.T) *testFixture {
	api, ts := mockapi.Start(t)
	client := transport.New(transport.Config{BaseURL: ts.URL + mockapi.BasePath, Timeout: 5 * time.Second})

	seed := mockapi.SeedUser{Email: "org@example.com", Password: "password1", Role: users.RoleEventOrganizer, SubscriptionStatus: users.SubscriptionActive}
	u, err := api.AddUser(seed)
	require.NoError(t, err)
	resp, err := auth.NewRepository(client).Login(context.Background(), auth.LoginRequest{Email: seed.Email, Password: seed.Password})
	require.NoError(t, err)
	client.SetAuthToken(resp.AccessToken)

	cache := querycache.New()
	return &testFixture{
		api:     api,
		queries: queries.New(events.NewRepository(client), cache),
		cache:   cache,
		user:    u,
	}
}

func (f *testFixture) addEvent(title string, registered int) events.Event {
	return f.api.AddEvent(events.Event{
		Title:                title,
		OrganizerID:          f.user.UserID,
		Status:               events.StatusPublished,
		Capacity:             50,
		CurrentRegistrations: registered,
		IsFree:               true,
		StartDate:            "2026-05-23T18:00:00Z",
		EndDate:              "2026-05-23T22:00:00Z",
	})
}

func waitFor(t *testing.T, api *mockapi.Server, route string, n int) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, api.WaitForCalls(ctx, route, n))
}

func TestFailedRsvpRollsBack(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	e := f.addEvent("Vesak Dansala", 3)

	before, err := f.queries.Get(ctx, e.ID)
	require.NoError(t, err)
	require.Equal(t, 3, before.CurrentRegistrations)

	route := "POST " + mockapi.RouteEventRsvp
	f.api.FailNext(route, http.StatusInternalServerError)
	release := f.api.Hold(route)

	var (
		wg      sync.WaitGroup
		rsvpErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, rsvpErr = f.queries.Rsvp(ctx, e.ID, events.RsvpRequest{UserID: f.user.UserID})
	}()

	waitFor(t, f.api, route, 1)
	during, ok := querycache.Get[events.Event](f.cache, queries.DetailKey(e.ID))
	require.True(t, ok)
	require.Equal(t, 4, during.CurrentRegistrations)
	require.True(t, f.cache.Entry(queries.DetailKey(e.ID)).Optimistic)

	release()
	wg.Wait()
	require.ErrorIs(t, rsvpErr, apierror.ErrServer)

	after, ok := querycache.Get[events.Event](f.cache, queries.DetailKey(e.ID))
	require.True(t, ok)
	require.Empty(t, cmp.Diff(*before, after))
	require.False(t, f.cache.Entry(queries.DetailKey(e.ID)).Optimistic)
}

func TestRsvpSucceedsAndGoesStale(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	e := f.addEvent("Poson Poya", 3)

	_, err := f.queries.Get(ctx, e.ID)
	require.NoError(t, err)
	_, err = f.queries.UserRsvps(ctx)
	require.NoError(t, err)

	_, err = f.queries.Rsvp(ctx, e.ID, events.RsvpRequest{UserID: f.user.UserID, Quantity: 2})
	require.NoError(t, err)
	require.Equal(t, querycache.StatusStale, f.cache.Entry(queries.DetailKey(e.ID)).Status)
	require.Equal(t, querycache.StatusStale, f.cache.Entry(queries.UserRsvpsKey).Status)

	got, err := f.queries.Get(ctx, e.ID)
	require.NoError(t, err)
	require.Equal(t, 5, got.CurrentRegistrations)

	rsvp, ok, err := f.queries.UserRsvpForEvent(ctx, e.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, e.ID, rsvp.ID)

	reg, err := f.queries.RegistrationDetails(ctx, e.ID)
	require.NoError(t, err)
	require.NotNil(t, reg)
	require.Equal(t, 2, reg.AttendeeCount())

	require.NoError(t, f.queries.CancelRsvp(ctx, e.ID, false))
	got, err = f.queries.Get(ctx, e.ID)
	require.NoError(t, err)
	require.Equal(t, 3, got.CurrentRegistrations)

	reg, err = f.queries.RegistrationDetails(ctx, e.ID)
	require.NoError(t, err)
	require.Nil(t, reg)
}

func TestConcurrentListsShareOneRequest(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	f.addEvent("Kandy Perahera", 0)

	route := "GET " + mockapi.RouteEvents
	release := f.api.Hold(route)
	published := events.GetEventsRequest{Status: utils.Ptr(events.StatusPublished)}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results [][]events.Event
		errs    []error
	)
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			list, err := f.queries.List(ctx, published)
			mu.Lock()
			defer mu.Unlock()
			results = append(results, list)
			errs = append(errs, err)
		}()
	}

	waitFor(t, f.api, route, 1)
	time.Sleep(50 * time.Millisecond)
	release()
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	require.Len(t, results[0], 1)
	require.Empty(t, cmp.Diff(results[0], results[1]))
	require.Equal(t, 1, f.api.Calls(route))

	drafts, err := f.queries.List(ctx, events.GetEventsRequest{Status: utils.Ptr(events.StatusDraft)})
	require.NoError(t, err)
	require.Empty(t, drafts)
	require.Equal(t, 2, f.api.Calls(route))

	_, err = f.queries.List(ctx, published)
	require.NoError(t, err)
	require.Equal(t, 2, f.api.Calls(route))
}

func TestUpdateInvalidatesDetailAndLists(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	e := f.addEvent("Sinhala New Year", 0)
	other := f.addEvent("Deepavali", 0)

	_, err := f.queries.Get(ctx, e.ID)
	require.NoError(t, err)
	_, err = f.queries.Get(ctx, other.ID)
	require.NoError(t, err)
	otherBefore := f.cache.Entry(queries.DetailKey(other.ID))
	_, err = f.queries.List(ctx, events.GetEventsRequest{})
	require.NoError(t, err)
	_, err = f.queries.Upcoming(ctx)
	require.NoError(t, err)
	_, err = f.queries.Search(ctx, events.SearchEventsRequest{SearchTerm: "sinhala"})
	require.NoError(t, err)
	_, err = f.queries.UserRsvps(ctx)
	require.NoError(t, err)

	var stale []string
	unsubscribe := f.queries.Subscribe(queries.AllKey, func(ev querycache.Event) {
		if ev.Status == querycache.StatusStale {
			stale = append(stale, ev.Key.String())
		}
	})
	defer unsubscribe()

	require.NoError(t, f.queries.Update(ctx, e.ID, events.UpdateEventRequest{Title: utils.Ptr("Avurudu Festival")}))

	status := func(k querycache.Key) querycache.Status { return f.cache.Entry(k).Status }
	require.Equal(t, querycache.StatusStale, status(queries.DetailKey(e.ID)))
	require.Equal(t, querycache.StatusStale, status(queries.ListKey(events.GetEventsRequest{})))
	require.Equal(t, querycache.StatusStale, status(queries.UpcomingKey()))
	require.Equal(t, querycache.StatusFresh, status(queries.SearchKey(events.SearchEventsRequest{SearchTerm: "sinhala"})))
	require.Equal(t, querycache.StatusFresh, status(queries.UserRsvpsKey))
	require.Contains(t, stale, queries.DetailKey(e.ID).String())
	require.NotContains(t, stale, queries.DetailKey(other.ID).String())
	require.Equal(t, otherBefore, f.cache.Entry(queries.DetailKey(other.ID)))

	got, err := f.queries.Get(ctx, e.ID)
	require.NoError(t, err)
	require.Equal(t, "Avurudu Festival", got.Title)
}

func TestStatusTransitions(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	e := f.addEvent("Esala Perahera", 0)

	_, err := f.queries.Get(ctx, e.ID)
	require.NoError(t, err)

	require.NoError(t, f.queries.Unpublish(ctx, e.ID))
	got, err := f.queries.Get(ctx, e.ID)
	require.NoError(t, err)
	require.Equal(t, events.StatusDraft, got.Status)

	require.NoError(t, f.queries.SubmitForApproval(ctx, e.ID))
	require.NoError(t, f.queries.Publish(ctx, e.ID))

	err = f.queries.Cancel(ctx, e.ID, "")
	require.ErrorIs(t, err, apierror.ErrValidation)
	got, ok := querycache.Get[events.Event](f.cache, queries.DetailKey(e.ID))
	require.True(t, ok)
	require.NotEqual(t, events.StatusCancelled, got.Status)

	require.NoError(t, f.queries.Postpone(ctx, e.ID, "Monsoon"))
	require.NoError(t, f.queries.Cancel(ctx, e.ID, "Venue closed"))
	after, err := f.queries.Get(ctx, e.ID)
	require.NoError(t, err)
	require.Equal(t, events.StatusCancelled, after.Status)
}

func TestDeleteRollsBackOnFailure(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	e := f.addEvent("Draft meetup", 0)
	require.NoError(t, f.queries.Unpublish(ctx, e.ID))

	before, err := f.queries.Get(ctx, e.ID)
	require.NoError(t, err)

	f.api.FailNext("DELETE "+mockapi.RouteEvent, http.StatusServiceUnavailable)
	err = f.queries.Delete(ctx, e.ID)
	require.ErrorIs(t, err, apierror.ErrServer)
	restored, ok := querycache.Get[events.Event](f.cache, queries.DetailKey(e.ID))
	require.True(t, ok)
	require.Empty(t, cmp.Diff(*before, restored))

	require.NoError(t, f.queries.Delete(ctx, e.ID))
	require.Equal(t, querycache.StatusAbsent, f.cache.Entry(queries.DetailKey(e.ID)).Status)

	_, err = f.queries.Get(ctx, e.ID)
	require.ErrorIs(t, err, apierror.ErrNotFound)
}

func TestLocalShortCircuits(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	_, err := f.queries.Get(ctx, "  ")
	require.ErrorIs(t, err, apierror.ErrValidation)

	page, err := f.queries.Search(ctx, events.SearchEventsRequest{SearchTerm: " a "})
	require.NoError(t, err)
	require.Empty(t, page.Items)
	require.Equal(t, 1, page.Page)

	require.Equal(t, 0, f.api.Calls("GET "+mockapi.RouteEvent))
	require.Equal(t, 0, f.api.Calls("GET "+mockapi.RouteEventSearch))
}

func TestPrefetchWarmsDetails(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	var ids []string
	for _, title := range []string{"Vesak", "Poson", "Esala", "Deepavali", "Thai Pongal"} {
		ids = append(ids, f.addEvent(title, 0).ID)
	}
	require.NoError(t, f.queries.Prefetch(ctx, ids...))
	route := "GET " + mockapi.RouteEvent
	require.Equal(t, len(ids), f.api.Calls(route))

	for _, id := range ids {
		require.Equal(t, querycache.StatusFresh, f.cache.Entry(queries.DetailKey(id)).Status)
		_, err := f.queries.Get(ctx, id)
		require.NoError(t, err)
	}
	require.Equal(t, len(ids), f.api.Calls(route))

	err := f.queries.Prefetch(ctx, ids[0], "missing")
	require.ErrorIs(t, err, apierror.ErrNotFound)
}

func TestWaitingList(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	e := f.api.AddEvent(events.Event{
		Title:                "Full house",
		OrganizerID:          f.user.UserID,
		Status:               events.StatusPublished,
		Capacity:             1,
		CurrentRegistrations: 1,
		IsFree:               true,
	})

	require.NoError(t, f.queries.JoinWaitingList(ctx, e.ID))
	list, err := f.queries.WaitingList(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, f.queries.LeaveWaitingList(ctx, e.ID))
	require.Equal(t, querycache.StatusStale, f.cache.Entry(queries.WaitingListKey(e.ID)).Status)
	list, err = f.queries.WaitingList(ctx, e.ID)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestManualInvalidation(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	e := f.addEvent("Vesak", 0)

	_, err := f.queries.Get(ctx, e.ID)
	require.NoError(t, err)
	_, err = f.queries.Featured(ctx, events.FeaturedRequest{})
	require.NoError(t, err)
	_, err = f.queries.UserRsvps(ctx)
	require.NoError(t, err)

	f.queries.InvalidateDetail(e.ID)
	require.Equal(t, querycache.StatusStale, f.cache.Entry(queries.DetailKey(e.ID)).Status)
	require.Equal(t, querycache.StatusFresh, f.cache.Entry(queries.UserRsvpsKey).Status)

	f.queries.InvalidateAll()
	require.Equal(t, querycache.StatusStale, f.cache.Entry(queries.FeaturedEventsKey(events.FeaturedRequest{})).Status)
	require.Equal(t, querycache.StatusStale, f.cache.Entry(queries.UserRsvpsKey).Status)
}

func TestGetReturnsCallerOwnedCopy(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	e := f.api.AddEvent(events.Event{
		Title:       "Avurudu",
		OrganizerID: f.user.UserID,
		Status:      events.StatusPublished,
		Capacity:    50,
		IsFree:      true,
		City:        utils.Ptr("Columbus"),
		Images:      []events.EventImage{{ID: "img-1", ImageURL: "https://cdn.example/1.png", DisplayOrder: 1}},
	})

	first, err := f.queries.Get(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, first.Images, 1)
	first.Images[0].ImageURL = "tampered"
	*first.City = "tampered"

	second, err := f.queries.Get(ctx, e.ID)
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example/1.png", second.Images[0].ImageURL)
	require.Equal(t, "Columbus", utils.Value(second.City))
	require.Equal(t, 1, f.api.Calls("GET "+mockapi.RouteEvent))
}

func TestFailedSignUpCommitmentRollsBack(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	e := f.addEvent("Dansala Sign-ups", 0)
	list := f.api.AddSignUpList(e.ID, events.SignUpList{Category: "Food", SignUpType: events.SignUpOpen})

	before, err := f.queries.SignUpLists(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, before, 1)

	route := "POST " + mockapi.RouteEventSignUpCommit
	f.api.FailNext(route, http.StatusInternalServerError)
	release := f.api.Hold(route)

	var (
		wg        sync.WaitGroup
		commitErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		commitErr = f.queries.CommitToSignUp(ctx, e.ID, list.ID, events.CommitToSignUpRequest{UserID: f.user.UserID, ItemDescription: "Rice", Quantity: 2})
	}()

	waitFor(t, f.api, route, 1)
	during, ok := querycache.Get[[]events.SignUpList](f.cache, queries.SignUpListKey(e.ID))
	require.True(t, ok)
	require.Equal(t, 1, during[0].CommitmentCount)
	require.Len(t, during[0].Commitments, 1)
	require.True(t, strings.HasPrefix(during[0].Commitments[0].ID, "temp-"))
	require.Empty(t, before[0].Commitments)

	release()
	wg.Wait()
	require.ErrorIs(t, commitErr, apierror.ErrServer)

	after, ok := querycache.Get[[]events.SignUpList](f.cache, queries.SignUpListKey(e.ID))
	require.True(t, ok)
	require.Empty(t, cmp.Diff(before, after))
	require.False(t, f.cache.Entry(queries.SignUpListKey(e.ID)).Optimistic)
}

func TestSignUpCommitmentRefetchesServerList(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	e := f.addEvent("Kottu Night", 0)
	list := f.api.AddSignUpList(e.ID, events.SignUpList{Category: "Drinks", SignUpType: events.SignUpOpen})

	_, err := f.queries.SignUpLists(ctx, e.ID)
	require.NoError(t, err)
	require.NoError(t, f.queries.CommitToSignUp(ctx, e.ID, list.ID, events.CommitToSignUpRequest{UserID: f.user.UserID, ItemDescription: "Faluda", Quantity: 1}))
	require.Equal(t, querycache.StatusStale, f.cache.Entry(queries.SignUpListKey(e.ID)).Status)

	lists, err := f.queries.SignUpLists(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, lists[0].Commitments, 1)
	require.False(t, strings.HasPrefix(lists[0].Commitments[0].ID, "temp-"))
	require.Equal(t, 2, f.api.Calls("GET "+mockapi.RouteEventSignUps))
}

func TestRemoveSignUpListRefreshesEvent(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	e := f.addEvent("Perahera Volunteers", 0)
	list := f.api.AddSignUpList(e.ID, events.SignUpList{Category: "Setup", SignUpType: events.SignUpOpen})

	_, err := f.queries.Get(ctx, e.ID)
	require.NoError(t, err)
	_, err = f.queries.SignUpLists(ctx, e.ID)
	require.NoError(t, err)

	require.NoError(t, f.queries.RemoveSignUpList(ctx, e.ID, list.ID))
	cached, ok := querycache.Get[[]events.SignUpList](f.cache, queries.SignUpListKey(e.ID))
	require.True(t, ok)
	require.Empty(t, cached)
	require.Equal(t, querycache.StatusStale, f.cache.Entry(queries.DetailKey(e.ID)).Status)
	require.Empty(t, f.api.SignUpLists(e.ID))
}

func TestCancelRsvpWithCommitmentsRefreshesSignUps(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	e := f.addEvent("Bakthi Gee", 0)
	list := f.api.AddSignUpList(e.ID, events.SignUpList{Category: "Lanterns", SignUpType: events.SignUpOpen})

	_, err := f.queries.Rsvp(ctx, e.ID, events.RsvpRequest{UserID: f.user.UserID})
	require.NoError(t, err)
	require.NoError(t, f.queries.CommitToSignUp(ctx, e.ID, list.ID, events.CommitToSignUpRequest{UserID: f.user.UserID, ItemDescription: "Lantern", Quantity: 1}))
	lists, err := f.queries.SignUpLists(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, lists[0].Commitments, 1)

	require.NoError(t, f.queries.CancelRsvp(ctx, e.ID, true))
	require.Equal(t, querycache.StatusStale, f.cache.Entry(queries.SignUpListKey(e.ID)).Status)

	lists, err = f.queries.SignUpLists(ctx, e.ID)
	require.NoError(t, err)
	require.Empty(t, lists[0].Commitments)
}

func TestSendNotificationRefreshesHistory(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	e := f.addEvent("Sinhala Avurudu", 0)

	_, err := f.queries.Get(ctx, e.ID)
	require.NoError(t, err)
	history, err := f.queries.NotificationHistory(ctx, e.ID)
	require.NoError(t, err)
	require.Empty(t, history)

	require.NoError(t, f.queries.SendNotification(ctx, e.ID))
	require.Equal(t, querycache.StatusStale, f.cache.Entry(queries.NotificationHistoryKey(e.ID)).Status)
	require.Equal(t, querycache.StatusStale, f.cache.Entry(queries.DetailKey(e.ID)).Status)

	history, err = f.queries.NotificationHistory(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, f.user.UserID, history[0].SentByUserID)
	require.Equal(t, 2, f.api.Calls("GET "+mockapi.RouteEventNotifications))
}

func TestAttendeesAreCached(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	e := f.addEvent("Esala Night", 0)
	_, err := f.queries.Rsvp(ctx, e.ID, events.RsvpRequest{UserID: f.user.UserID, Quantity: 2})
	require.NoError(t, err)

	for range 2 {
		got, err := f.queries.Attendees(ctx, e.ID)
		require.NoError(t, err)
		require.Equal(t, 1, got.TotalRegistrations)
		require.Equal(t, 2, got.TotalAttendees)
		require.True(t, got.IsFreeEvent)
	}
	require.Equal(t, 1, f.api.Calls("GET "+mockapi.RouteEventAttendees))
}
