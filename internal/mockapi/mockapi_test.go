package mockapi_test

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/lankaconnect-client/apierror"
	"github.com/jrsteele09/lankaconnect-client/auth"
	"github.com/jrsteele09/lankaconnect-client/events"
	"github.com/jrsteele09/lankaconnect-client/internal/mockapi"
	"github.com/jrsteele09/lankaconnect-client/internal/utils"
	"github.com/jrsteele09/lankaconnect-client/transport"
	"github.com/jrsteele09/lankaconnect-client/users"
	"github.com/stretchr/testify/require"
)

type testFixture struct {
	api    *mockapi.Server
	client *transport.Client
	events *events.Repository
	auth   *auth.Repository
}

func setupTestFixture(t *testing.T) *testFixture {
	api, ts := mockapi.Start(t)
	client := transport.New(transport.Config{BaseURL: ts.URL + mockapi.BasePath, Timeout: 5 * time.Second})
	return &testFixture{
		api:    api,
		client: client,
		events: events.NewRepository(client),
		auth:   auth.NewRepository(client),
	}
}

func (f *testFixture) signIn(t *testing.T, seed mockapi.SeedUser) users.User {
	u, err := f.api.AddUser(seed)
	require.NoError(t, err)
	resp, err := f.auth.Login(context.Background(), auth.LoginRequest{Email: seed.Email, Password: seed.Password})
	require.NoError(t, err)
	f.client.SetAuthToken(resp.AccessToken)
	return u
}

func TestLoginAndRefreshRotation(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	_, err := f.api.AddUser(mockapi.SeedUser{Email: "nimal@example.com", Password: "correct horse"})
	require.NoError(t, err)

	_, err = f.auth.Login(ctx, auth.LoginRequest{Email: "nimal@example.com", Password: "wrong password"})
	require.ErrorIs(t, err, apierror.ErrUnauthorized)

	resp, err := f.auth.Login(ctx, auth.LoginRequest{Email: "NIMAL@example.com", Password: "correct horse"})
	require.NoError(t, err)
	require.Equal(t, "nimal@example.com", resp.User.Email)

	claims, err := auth.ParseClaims(resp.AccessToken)
	require.NoError(t, err)
	require.Equal(t, resp.User.UserID, claims.Subject)

	refreshed, err := f.auth.RefreshToken(ctx, resp.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, resp.RefreshToken, refreshed.RefreshToken)

	_, err = f.auth.RefreshToken(ctx, resp.RefreshToken)
	require.ErrorIs(t, err, apierror.ErrUnauthorized)
}

func TestRevokedAccessTokenIsRejected(t *testing.T) {
	f := setupTestFixture(t)
	f.signIn(t, mockapi.SeedUser{Email: "a@example.com", Password: "password1"})

	_, err := f.auth.GetProfile(context.Background())
	require.NoError(t, err)

	f.api.RevokeAccessTokens()
	_, err = f.auth.GetProfile(context.Background())
	require.ErrorIs(t, err, apierror.ErrUnauthorized)
}

func TestRegistrationRequiresVerification(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	reg, err := f.auth.Register(ctx, auth.RegisterRequest{Email: "new@example.com", Password: "password1", FirstName: "Kamala", LastName: "Silva"})
	require.NoError(t, err)

	_, err = f.auth.Login(ctx, auth.LoginRequest{Email: "new@example.com", Password: "password1"})
	require.ErrorIs(t, err, apierror.ErrUnauthorized)

	_, err = f.auth.VerifyEmail(ctx, auth.VerifyEmailRequest{UserID: reg.UserID, Token: f.api.VerificationToken(reg.UserID)})
	require.NoError(t, err)

	_, err = f.auth.Login(ctx, auth.LoginRequest{Email: "new@example.com", Password: "password1"})
	require.NoError(t, err)

	_, err = f.auth.Register(ctx, auth.RegisterRequest{Email: "new@example.com", Password: "password1", FirstName: "K", LastName: "S"})
	require.ErrorIs(t, err, apierror.ErrValidation)
	apiErr, _ := apierror.As(err)
	require.NotEmpty(t, apiErr.FieldMessage("Email"))
}

func TestEventLifecycle(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	f.signIn(t, mockapi.SeedUser{Email: "org@example.com", Password: "password1", Role: users.RoleEventOrganizer, SubscriptionStatus: users.SubscriptionActive})

	id, err := f.events.CreateEvent(ctx, events.CreateEventRequest{
		Title:             "Sinhala New Year",
		StartDate:         "2026-04-14T09:00:00Z",
		EndDate:           "2026-04-14T17:00:00Z",
		Capacity:          3,
		LocationLatitude:  utils.Ptr(41.4993),
		LocationLongitude: utils.Ptr(-81.6944),
	})
	require.NoError(t, err)

	require.NoError(t, f.events.PublishEvent(ctx, id))
	err = f.events.SubmitForApproval(ctx, id)
	require.ErrorIs(t, err, apierror.ErrValidation)

	checkout, err := f.events.RsvpToEvent(ctx, id, events.RsvpRequest{Quantity: 2})
	require.NoError(t, err)
	require.Empty(t, checkout)

	e, err := f.events.GetEventByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, 2, e.CurrentRegistrations)

	reg, err := f.events.GetUserRegistrationForEvent(ctx, id)
	require.NoError(t, err)
	require.Equal(t, 2, reg.AttendeeCount())

	list, err := f.events.GetEvents(ctx, events.GetEventsRequest{MetroAreaIDs: []string{"39000000-0000-0000-0000-000000000001"}})
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, f.events.CancelRsvp(ctx, id, false))
	reg, err = f.events.GetUserRegistrationForEvent(ctx, id)
	require.NoError(t, err)
	require.Nil(t, reg)

	ics, err := f.events.GetEventICS(ctx, id)
	require.NoError(t, err)
	require.Contains(t, string(ics.Data), "SUMMARY:Sinhala New Year")
	require.Equal(t, "event-"+id+".ics", ics.FileName)
}

func TestGeneralUserCannotCreateEvents(t *testing.T) {
	f := setupTestFixture(t)
	f.signIn(t, mockapi.SeedUser{Email: "g@example.com", Password: "password1"})
	_, err := f.events.CreateEvent(context.Background(), events.CreateEventRequest{Title: "x", Capacity: 1})
	require.ErrorIs(t, err, apierror.ErrForbidden)
}

func TestControlHooks(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	e := f.api.AddEvent(events.Event{Title: "Vesak", Status: events.StatusPublished})
	route := "GET " + mockapi.RouteEvent

	f.api.FailTimes(route, http.StatusServiceUnavailable, 2)
	for range 2 {
		_, err := f.events.GetEventByID(ctx, e.ID)
		require.Equal(t, http.StatusServiceUnavailable, apierror.StatusOf(err))
	}
	_, err := f.events.GetEventByID(ctx, e.ID)
	require.NoError(t, err)
	require.Equal(t, 3, f.api.Calls(route))

	f.api.ResetCalls()
	release := f.api.Hold(route)

	var (
		wg      sync.WaitGroup
		heldErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, heldErr = f.events.GetEventByID(ctx, e.ID)
	}()

	waitCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	require.NoError(t, f.api.WaitForCalls(waitCtx, route, 1))
	release()
	release()
	wg.Wait()
	require.NoError(t, heldErr)
	require.Equal(t, 1, f.api.TotalCalls())
}
